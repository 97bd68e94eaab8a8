package grade

import "testing"

func simpleStructure() []*ItemDef {
	aHints := NewHintList(nil)
	bHints := NewHintList(nil)
	b1Hints := NewHintList(nil)
	b2Hints := NewHintList(nil)
	return []*ItemDef{
		{Kind: ScoreKind, Name: "A", MaxPoints: 10, DefaultEnabled: true, Hints: aHints},
		{
			Kind: SectionKind, Name: "B", DefaultEnabled: true, LateDeduction: 20, Hints: bHints,
			Children: []*ItemDef{
				{Kind: ScoreKind, Name: "B1", MaxPoints: 5, DefaultEnabled: true, Hints: b1Hints},
				{Kind: ScoreKind, Name: "B2", MaxPoints: 5, DefaultEnabled: true, Hints: b2Hints},
			},
		},
	}
}

func TestScoringWithLateDeduction(t *testing.T) {
	g := NewGrade(simpleStructure())
	a := g.Items[0]
	b := g.Items[1]
	a.BaseScore = 8
	b.Children[0].BaseScore = 5
	b.Children[1].BaseScore = 3
	b.IsLate = true

	aEarned, aPossible, _ := a.GetScore(nil)
	if aEarned != 8 || aPossible != 10 {
		t.Fatalf("A score = (%v,%v), want (8,10)", aEarned, aPossible)
	}

	bEarned, bPossible, _ := b.GetScore(nil)
	if bEarned != 6 || bPossible != 10 {
		t.Fatalf("B score = (%v,%v), want (6,10)", bEarned, bPossible)
	}

	total, totalPossible, _ := g.GetScore()
	if total != 14 || totalPossible != 20 {
		t.Fatalf("total score = (%v,%v), want (14,20)", total, totalPossible)
	}
}

func TestHintSharingAcrossSubmissions(t *testing.T) {
	defs := simpleStructure()
	g1 := NewGrade(defs)
	g2 := NewGrade(defs)

	x1 := g1.Items[0] // "A", shared Hints with g2's "A"
	x2 := g2.Items[0]

	idx, err := g1.AddHintToAll([]int{0}, "style", -1)
	if err != nil {
		t.Fatalf("AddHintToAll: %v", err)
	}
	if idx != 0 {
		t.Fatalf("hint index = %d, want 0", idx)
	}

	// New hint is default-disabled: neither submission's score moves yet.
	e1, _, _ := x1.GetScore(nil)
	e2, _, _ := x2.GetScore(nil)
	if e1 != 0 || e2 != 0 {
		t.Fatalf("scores after add = (%v,%v), want (0,0)", e1, e2)
	}

	// Enabling the hint on g2's instance only must not affect g1.
	if err := x2.SetHintEnabled(0, true); err != nil {
		t.Fatalf("SetHintEnabled: %v", err)
	}
	e1, _, _ = x1.GetScore(nil)
	e2, _, _ = x2.GetScore(nil)
	if e1 != 0 {
		t.Fatalf("g1 score after g2-only enable = %v, want 0", e1)
	}
	if e2 != -1 {
		t.Fatalf("g2 score after enabling -1 hint = %v, want -1", e2)
	}

	// But the hint list itself (e.g. its length) is shared.
	if x1.Def.Hints.Len() != 1 {
		t.Fatalf("g1's hint list len = %d, want 1", x1.Def.Hints.Len())
	}
}

func TestSetEffectiveScoreRoundTrip(t *testing.T) {
	defs := simpleStructure()
	g := NewGrade(defs)
	leaf := g.Items[1].Children[0] // B1
	g.AddHintToAll([]int{1, 0}, "extra credit", 2)
	leaf.SetHintEnabled(0, true)

	if err := leaf.SetEffectiveScore(4); err != nil {
		t.Fatalf("SetEffectiveScore: %v", err)
	}
	earned, _, _ := leaf.GetScore(nil)
	if earned != 4 {
		t.Fatalf("round-trip earned = %v, want 4", earned)
	}
}

// TestDisabledChildExcludedFromScoreAndLeaves guards against regressing
// enumerate_enabled_children semantics: a disabled child must drop out of
// earned, possible, and the flattened leaf list alike, at every level.
func TestDisabledChildExcludedFromScoreAndLeaves(t *testing.T) {
	g := NewGrade(simpleStructure())
	b := g.Items[1]
	b.Children[0].BaseScore = 5
	b.Children[1].BaseScore = 3
	b.Children[1].SetEnabled(false)

	bEarned, bPossible, bLeaves := b.GetScore(nil)
	if bEarned != 5 || bPossible != 5 {
		t.Fatalf("B score with B2 disabled = (%v,%v), want (5,5)", bEarned, bPossible)
	}
	if len(bLeaves) != 1 || bLeaves[0].QualifiedName != "B: B1" {
		t.Fatalf("B leaves with B2 disabled = %v, want just [B: B1]", bLeaves)
	}

	total, totalPossible, leaves := g.GetScore()
	if total != 5 || totalPossible != 15 {
		t.Fatalf("total score with B2 disabled = (%v,%v), want (5,15)", total, totalPossible)
	}
	for _, l := range leaves {
		if l.QualifiedName == "B: B2" {
			t.Fatalf("disabled leaf B2 still present in flattened leaves: %v", leaves)
		}
	}

	a := g.Items[0]
	a.BaseScore = 8
	a.SetEnabled(false)
	total, totalPossible, leaves = g.GetScore()
	if total != 5 || totalPossible != 5 {
		t.Fatalf("total score with A disabled = (%v,%v), want (5,5)", total, totalPossible)
	}
	for _, l := range leaves {
		if l.QualifiedName == "A" {
			t.Fatalf("disabled top-level item A still present in flattened leaves: %v", leaves)
		}
	}
}

func TestEmptySectionScore(t *testing.T) {
	sec := &Item{Def: &ItemDef{Kind: SectionKind, Name: "Empty"}, Enabled: true}
	e, p, leaves := sec.GetScore(nil)
	if e != 0 || p != 0 || len(leaves) != 0 {
		t.Fatalf("empty section score = (%v,%v,%v), want (0,0,[])", e, p, leaves)
	}
}

func TestPercentageNoDivideByZero(t *testing.T) {
	if got := Percentage(0, 0); got != 0 {
		t.Fatalf("Percentage(0,0) = %v, want 0", got)
	}
}

func TestIsTouched(t *testing.T) {
	defs := simpleStructure()
	g := NewGrade(defs)
	a := g.Items[0]
	if a.IsTouched() {
		t.Fatal("fresh item should not be touched")
	}
	a.BaseScore = 9
	if !a.IsTouched() {
		t.Fatal("item with changed base score should be touched")
	}
}

func TestBadPathError(t *testing.T) {
	g := NewGrade(simpleStructure())
	if _, err := g.GetByPath([]int{5}); err == nil {
		t.Fatal("expected BadPathError for out-of-range top-level index")
	}
	if _, err := g.GetByPath([]int{0, 0}); err == nil {
		t.Fatal("expected BadPathError descending into a leaf")
	}
}

func TestGetByNameCaseInsensitiveBFS(t *testing.T) {
	g := NewGrade(simpleStructure())
	it := g.GetByName("b1", false)
	if it == nil || it.Def.Name != "B1" {
		t.Fatalf("GetByName(b1) = %v, want B1", it)
	}
}
