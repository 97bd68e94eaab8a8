package grader

import (
	"strings"
	"testing"

	"github.com/antigravity-dev/gradefast/internal/grade"
)

func TestParseCommandsItemsAndSets(t *testing.T) {
	data := []byte(`
- name: compile
  command: "make all"
  environment:
    CC: gcc
- name: tests
  folder: tests
  environment:
    TERM: dumb
  commands:
    - name: run tests
      command: "./run_tests.sh"
      input: "1\n2\n"
      diff:
        file: expected_tests.txt
        collapse whitespace: true
    - name: server
      command: "./server"
      background: true
`)
	nodes, err := ParseCommands(data)
	if err != nil {
		t.Fatalf("ParseCommands: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}

	item, ok := nodes[0].(*CommandItem)
	if !ok {
		t.Fatalf("nodes[0] = %T, want *CommandItem", nodes[0])
	}
	if item.Command != "make all" || item.Environment["CC"] != "gcc" {
		t.Fatalf("compile item = %+v", item)
	}

	set, ok := nodes[1].(*CommandSet)
	if !ok {
		t.Fatalf("nodes[1] = %T, want *CommandSet", nodes[1])
	}
	if set.Folder == nil || set.Folder.Literal != "tests" {
		t.Fatalf("set folder = %+v, want literal \"tests\"", set.Folder)
	}
	if !set.ConfirmFolder {
		t.Fatal("confirm folder should default true when a folder is given")
	}
	if len(set.Children) != 2 {
		t.Fatalf("set has %d children, want 2", len(set.Children))
	}

	tests := set.Children[0].(*CommandItem)
	if !tests.HasStdin || tests.Stdin != "1\n2\n" {
		t.Fatalf("\"input\" key not mapped to stdin: %+v", tests)
	}
	if tests.Diff == nil || tests.Diff.File != "expected_tests.txt" || !tests.Diff.CollapseWhitespace {
		t.Fatalf("diff = %+v", tests.Diff)
	}

	server := set.Children[1].(*CommandItem)
	if !server.IsBackground {
		t.Fatalf("server item should be background: %+v", server)
	}
}

func TestParseCommandsDiffStringShorthand(t *testing.T) {
	data := []byte(`
- name: run
  command: "./a.out"
  diff: expected.txt
`)
	nodes, err := ParseCommands(data)
	if err != nil {
		t.Fatalf("ParseCommands: %v", err)
	}
	item := nodes[0].(*CommandItem)
	if item.Diff == nil || item.Diff.File != "expected.txt" {
		t.Fatalf("diff = %+v, want file shorthand", item.Diff)
	}
}

func TestParseCommandsFolderRegexList(t *testing.T) {
	data := []byte(`
- name: source
  folder: ["[Ss]rc", "[Ss]ource"]
  commands:
    - name: build
      command: make
`)
	nodes, err := ParseCommands(data)
	if err != nil {
		t.Fatalf("ParseCommands: %v", err)
	}
	set := nodes[0].(*CommandSet)
	if set.Folder == nil || len(set.Folder.Regexes) != 2 {
		t.Fatalf("folder = %+v, want two regexes", set.Folder)
	}
}

func TestParseCommandsPassthroughExclusions(t *testing.T) {
	cases := []string{
		"- name: x\n  command: vim\n  passthru: true\n  background: true\n",
		"- name: x\n  command: vim\n  passthrough: true\n  stdin: \"q\"\n",
		"- name: x\n  command: vim\n  passthrough: true\n  diff: expected.txt\n",
	}
	for _, c := range cases {
		if _, err := ParseCommands([]byte(c)); err == nil {
			t.Fatalf("expected error for passthrough conflict in:\n%s", c)
		}
	}
}

func TestParseCommandsRejectsAmbiguousNodes(t *testing.T) {
	if _, err := ParseCommands([]byte("- name: x\n")); err == nil {
		t.Fatal("expected error for a node with neither command nor commands")
	}
	if _, err := ParseCommands([]byte("- name: x\n  command: make\n  commands: []\n")); err == nil {
		t.Fatal("expected error for a node with both command and commands")
	}
}

func TestParseGradeStructureKeysAndDefaults(t *testing.T) {
	data := []byte(`
- name: Design
  points: 10
  default score: 8
  default comments: "looks reasonable"
  hints:
    - name: "missing error handling"
      value: -2
    - name: "extra credit"
      value: 3
      default enabled: true
- name: Functionality
  deduct percent if late: 20
  grades:
    - name: Part 1
      points: 5
    - name: Part 2
      points: 5
      disabled: true
`)
	defs, err := ParseGradeStructure(data)
	if err != nil {
		t.Fatalf("ParseGradeStructure: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("got %d defs, want 2", len(defs))
	}

	design := defs[0]
	if design.Kind != grade.ScoreKind || design.MaxPoints != 10 || design.DefaultScore != 8 {
		t.Fatalf("design = %+v", design)
	}
	if design.DefaultComments != "looks reasonable" {
		t.Fatalf("default comments = %q", design.DefaultComments)
	}
	hints := design.Hints.All()
	if len(hints) != 2 || hints[0].Value != -2 || hints[0].DefaultEnabled || !hints[1].DefaultEnabled {
		t.Fatalf("hints = %+v", hints)
	}

	fn := defs[1]
	if fn.Kind != grade.SectionKind || fn.LateDeduction != 20 || len(fn.Children) != 2 {
		t.Fatalf("functionality = %+v", fn)
	}
	// An unspecified default score means full credit.
	if fn.Children[0].DefaultScore != 5 {
		t.Fatalf("part 1 default score = %v, want points (5)", fn.Children[0].DefaultScore)
	}
	if fn.Children[1].DefaultEnabled {
		t.Fatal("disabled: true should map to default-disabled")
	}
}

func TestParseGradeStructureNotesList(t *testing.T) {
	data := []byte(`
- name: Style
  points: 5
  notes:
    - consistent indentation
    - meaningful names
`)
	defs, err := ParseGradeStructure(data)
	if err != nil {
		t.Fatalf("ParseGradeStructure: %v", err)
	}
	note := defs[0].Note
	if !strings.HasPrefix(note, "- ") || !strings.Contains(note, "meaningful names") {
		t.Fatalf("note = %q, want a Markdown bullet list", note)
	}
}

func TestParseGradeStructureValidation(t *testing.T) {
	cases := []string{
		"- points: 5\n",                                // missing name
		"- name: x\n",                                  // neither points nor grades
		"- name: x\n  points: 5\n  grades: []\n",       // both points and grades
		"- name: x\n  points: -1\n",                    // negative points
		"- name: x\n  points: 5\n  default score: 6\n", // default score > points
		"- name: x\n  grades: []\n  deduct percent if late: 150\n", // out of range
	}
	for _, c := range cases {
		if _, err := ParseGradeStructure([]byte(c)); err == nil {
			t.Fatalf("expected parse error for:\n%s", c)
		}
	}
}
