package grade

import "testing"

func TestGradeSnapshotRoundTrip(t *testing.T) {
	defs := simpleStructure()
	g := NewGrade(defs)
	g.Items[0].BaseScore = 8
	g.Items[0].Comments = "good work"
	g.Items[1].Children[0].BaseScore = 5
	g.Items[1].Children[1].BaseScore = 3
	g.Items[1].IsLate = true
	g.Items[1].HintOverrides[2] = false
	g.OverallComments = "nice submission"

	state := g.Snapshot()
	restored := RestoreGrade(defs, state)

	if restored.Items[0].BaseScore != 8 || restored.Items[0].Comments != "good work" {
		t.Fatalf("A = %+v, want BaseScore 8, Comments %q", restored.Items[0], "good work")
	}
	if restored.Items[1].Children[0].BaseScore != 5 || restored.Items[1].Children[1].BaseScore != 3 {
		t.Fatalf("B children = %+v / %+v, want 5 and 3", restored.Items[1].Children[0], restored.Items[1].Children[1])
	}
	if !restored.Items[1].IsLate {
		t.Fatal("expected B.IsLate to survive the round trip")
	}
	if v, ok := restored.Items[1].HintOverrides[2]; !ok || v != false {
		t.Fatalf("hint override 2 = (%v,%v), want (false,true)", v, ok)
	}
	if restored.OverallComments != "nice submission" {
		t.Fatalf("OverallComments = %q, want %q", restored.OverallComments, "nice submission")
	}

	// Restoring must not alias the original's hint-override map.
	restored.Items[1].HintOverrides[3] = true
	if _, ok := g.Items[1].HintOverrides[3]; ok {
		t.Fatal("restored hint overrides alias the original grade's map")
	}
}

func TestRestoreGradeToleratesShorterStructure(t *testing.T) {
	defs := simpleStructure()
	g := NewGrade(defs)
	g.Items[0].BaseScore = 8
	state := g.Snapshot()

	// A structure with one fewer top-level item than the snapshot: the
	// extra state is simply dropped, not an error.
	shortDefs := defs[:1]
	restored := RestoreGrade(shortDefs, state)
	if len(restored.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(restored.Items))
	}
	if restored.Items[0].BaseScore != 8 {
		t.Fatalf("A.BaseScore = %v, want 8", restored.Items[0].BaseScore)
	}
}
