package grader

import (
	"testing"

	"github.com/antigravity-dev/gradefast/internal/channel"
)

func partTypes(m *channel.Msg) []channel.PartType {
	out := make([]channel.PartType, len(m.Parts))
	for i, p := range m.Parts {
		out[i] = p.Type
	}
	return out
}

// Identical reference and output render as an all-matched diff, every
// line styled bg-meh.
func TestRenderDiffIdenticalIsAllMeh(t *testing.T) {
	m := RenderDiff("line one\nline two\n", "line one\nline two\n", false)
	types := partTypes(m)
	if len(types) != 2 {
		t.Fatalf("got %d parts, want 2: %v", len(types), types)
	}
	for _, ty := range types {
		if ty != channel.BgMeh {
			t.Fatalf("types = %v, want all bg-meh", types)
		}
	}
}

// A single-line replace renders as one bg-happy (reference) line followed
// by one bg-sad (output) line.
func TestRenderDiffSingleLineReplace(t *testing.T) {
	m := RenderDiff("expected output\n", "actual output\n", false)
	types := partTypes(m)
	if len(types) != 2 || types[0] != channel.BgHappy || types[1] != channel.BgSad {
		t.Fatalf("types = %v, want [BgHappy BgSad]", types)
	}
	if m.Parts[0].Text != "expected output\n" {
		t.Fatalf("reference line = %q, want %q", m.Parts[0].Text, "expected output\n")
	}
	if m.Parts[1].Text != "actual output\n" {
		t.Fatalf("output line = %q, want %q", m.Parts[1].Text, "actual output\n")
	}
}

func TestRenderDiffCollapseWhitespaceIgnoresSpacing(t *testing.T) {
	m := RenderDiff("a   b  c\n", "a b c\n", true)
	types := partTypes(m)
	if len(types) != 1 || types[0] != channel.BgMeh {
		t.Fatalf("types = %v, want a single matched line once whitespace is collapsed", types)
	}
}

func TestRenderDiffCaseInsensitive(t *testing.T) {
	m := RenderDiff("Hello\n", "hello\n", false)
	types := partTypes(m)
	if len(types) != 1 || types[0] != channel.BgMeh {
		t.Fatalf("types = %v, want a single matched line (comparison is case-insensitive)", types)
	}
}

func TestRenderDiffEmptyReferenceAllSad(t *testing.T) {
	m := RenderDiff("", "new line\n", false)
	types := partTypes(m)
	if len(types) != 1 || types[0] != channel.BgSad {
		t.Fatalf("types = %v, want a single bg-sad line", types)
	}
}
