package grade

import (
	"strings"
	"testing"
)

// TestRenderSectionSkipsDisabledChildren guards against regressing
// enumerate_enabled_children semantics in the feedback HTML: a disabled
// child of a section must not appear in the section's rendered body.
func TestRenderSectionSkipsDisabledChildren(t *testing.T) {
	g := NewGrade(simpleStructure())
	b := g.Items[1]
	b.Children[0].Comments = "b1 comments"
	b.Children[1].Comments = "b2 comments"
	b.Children[1].SetEnabled(false)

	r := &FeedbackRenderer{}
	out := r.RenderFeedback(g)

	if !strings.Contains(out, "b1 comments") {
		t.Fatalf("feedback missing enabled child B1's comments:\n%s", out)
	}
	if strings.Contains(out, "b2 comments") {
		t.Fatalf("feedback still renders disabled child B2's comments:\n%s", out)
	}
}

// TestRenderFeedbackTopLevelIgnoresEnabled matches the original
// SubmissionGrade.get_feedback's asymmetry with its section-level
// counterpart: the top-level item loop is not filtered by Enabled, unlike
// a section's own children loop.
func TestRenderFeedbackTopLevelIgnoresEnabled(t *testing.T) {
	g := NewGrade(simpleStructure())
	a := g.Items[0]
	a.Comments = "a comments"
	a.SetEnabled(false)

	r := &FeedbackRenderer{}
	out := r.RenderFeedback(g)

	if !strings.Contains(out, "a comments") {
		t.Fatalf("top-level disabled item A should still render feedback:\n%s", out)
	}
}
