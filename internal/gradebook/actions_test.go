package gradebook

import (
	"testing"

	"github.com/antigravity-dev/gradefast/internal/grade"
)

func testStructure() []*grade.ItemDef {
	return []*grade.ItemDef{
		{
			Kind:           grade.SectionKind,
			Name:           "Part 1",
			DefaultEnabled: true,
			LateDeduction:  10,
			Children: []*grade.ItemDef{
				{
					Kind:            grade.ScoreKind,
					Name:            "Correctness",
					DefaultEnabled:  true,
					MaxPoints:       grade.Number(10),
					DefaultScore:    grade.Number(10),
					Hints:           grade.NewHintList(nil),
					DefaultComments: "",
				},
			},
		},
	}
}

func TestApplyActionSetLate(t *testing.T) {
	g := grade.NewGrade(testStructure())
	err := applyAction(`{"type":"SET_LATE","is_late":true}`, g)
	if err != nil {
		t.Fatalf("applyAction: %v", err)
	}
	if !g.Items[0].IsLate {
		t.Fatal("expected section marked late")
	}
}

func TestApplyActionSetScore(t *testing.T) {
	g := grade.NewGrade(testStructure())
	err := applyAction(`{"type":"SET_SCORE","path":[0,0],"value":7}`, g)
	if err != nil {
		t.Fatalf("applyAction: %v", err)
	}
	leaf := g.Items[0].Children[0]
	if leaf.BaseScore != grade.Number(7) {
		t.Fatalf("expected base score 7, got %v", leaf.BaseScore)
	}
}

func TestApplyActionAddHint(t *testing.T) {
	g := grade.NewGrade(testStructure())
	err := applyAction(`{"type":"ADD_HINT","path":[0,0],"content":{"name":"late penalty","value":-2}}`, g)
	if err != nil {
		t.Fatalf("applyAction: %v", err)
	}
	if got := g.Items[0].Children[0].Def.Hints.Len(); got != 1 {
		t.Fatalf("expected 1 hint, got %d", got)
	}
}

func TestApplyActionBadPath(t *testing.T) {
	g := grade.NewGrade(testStructure())
	err := applyAction(`{"type":"SET_ENABLED","path":[5],"value":false}`, g)
	if err == nil {
		t.Fatal("expected error for out-of-range path")
	}
	if _, ok := err.(*grade.BadPathError); !ok {
		t.Fatalf("expected *grade.BadPathError, got %T", err)
	}
}

func TestApplyActionUnknownType(t *testing.T) {
	g := grade.NewGrade(testStructure())
	err := applyAction(`{"type":"NOT_A_REAL_ACTION"}`, g)
	if err == nil {
		t.Fatal("expected error for unrecognized action type")
	}
	if _, ok := err.(*BadActionError); !ok {
		t.Fatalf("expected *BadActionError, got %T", err)
	}
}

func TestApplyActionSetOverallComments(t *testing.T) {
	g := grade.NewGrade(testStructure())
	if err := applyAction(`{"type":"SET_OVERALL_COMMENTS","overall_comments":"nice work"}`, g); err != nil {
		t.Fatalf("applyAction: %v", err)
	}
	if g.OverallComments != "nice work" {
		t.Fatalf("expected overall comments set, got %q", g.OverallComments)
	}
}
