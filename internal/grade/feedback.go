package grade

import (
	"fmt"
	"html"
	"strings"

	"github.com/antigravity-dev/gradefast/internal/markdown"
)

// FeedbackRenderer builds the per-submission feedback HTML. The literal
// markup is load-bearing: exported feedback is pasted into other tools,
// so the templates must not drift.
type FeedbackRenderer struct {
	MD markdown.Renderer
}

// RenderFeedback builds the complete feedback HTML for a submission's
// grade: the base wrapper, every top-level item's section, and the
// overall-comments block.
func (r *FeedbackRenderer) RenderFeedback(g *Grade) string {
	var body strings.Builder
	for _, it := range g.Items {
		body.WriteString(r.renderItem(it, 0))
	}
	overall := ""
	if strings.TrimSpace(g.OverallComments) != "" {
		overall = fmt.Sprintf(
			`<div style="margin-top: 10px; font-size: 10.5pt;">%s</div>`,
			r.md(g.OverallComments))
	}
	return fmt.Sprintf(
		`<div style="font-family: Helvetica, Arial, sans-serif; font-size: 10pt; line-height: 1.3;">%s%s</div>`,
		body.String(), overall)
}

func (r *FeedbackRenderer) renderItem(it *Item, depth int) string {
	if it.Def.Kind == SectionKind {
		return r.renderSection(it, depth)
	}
	return r.renderScore(it, depth)
}

func (r *FeedbackRenderer) renderSection(it *Item, depth int) string {
	earned, possible, _ := it.GetScore(nil)
	title := html.EscapeString(it.Def.Name)
	bold := depth <= 1

	var header strings.Builder
	if bold {
		header.WriteString(fmt.Sprintf(`<p><b><u>%s</u></b><br>Section Score: %s / %s</p>`, title, earned, possible))
	} else {
		header.WriteString(fmt.Sprintf(`<p><u>%s</u><br>Section Score: %s / %s</p>`, title, earned, possible))
	}

	if it.IsLate && float64(it.Def.LateDeduction) > 0 {
		points := it.LateDeductionPoints()
		header.WriteString(fmt.Sprintf(
			`<p><b>-%s</b> (%s%%)<b>:</b> <i>Turned in late</i></p>`,
			points.String(), it.Def.LateDeduction.String()))
	}

	var children strings.Builder
	for _, c := range it.Children {
		if !c.Enabled {
			continue
		}
		children.WriteString(r.renderItem(c, depth+1))
	}

	return header.String() + fmt.Sprintf(`<div style="margin-left: 15px;">%s</div>`, children.String())
}

func (r *FeedbackRenderer) renderScore(it *Item, depth int) string {
	earned, possible, _ := it.GetScore(nil)
	title := html.EscapeString(it.Def.Name)
	bold := depth <= 1

	scoreLine := scoreText(earned, possible)

	var header strings.Builder
	if bold {
		header.WriteString(fmt.Sprintf(`<p><b><u>%s</u></b><br>%s</p>`, title, scoreLine))
	} else {
		header.WriteString(fmt.Sprintf(`<p><u>%s</u><br>%s</p>`, title, scoreLine))
	}

	var hints strings.Builder
	for i, h := range it.hintSnapshot() {
		if !it.hintEnabled(i, h) {
			continue
		}
		hints.WriteString(renderHint(h, r.md))
	}

	body := fmt.Sprintf(`<p>%s</p>`, r.md(it.Comments))

	return header.String() + hints.String() + body
}

func scoreText(earned, possible Number) string {
	if possible == 0 {
		if earned == 0 {
			return ""
		}
		sign := "+"
		if earned < 0 {
			sign = ""
		}
		return fmt.Sprintf("%s%s Points", sign, earned)
	}
	return fmt.Sprintf("Score: %s / %s", earned, possible)
}

func renderHint(h Hint, md func(string) string) string {
	if h.Value == 0 {
		return fmt.Sprintf(`<div style="text-indent:-20px;margin-left:20px;">%s</div>`, md(h.Name))
	}
	sign := "+"
	if h.Value < 0 {
		sign = ""
	}
	return fmt.Sprintf(
		`<div style="text-indent:-20px;margin-left:20px;"><b>%s%s:</b> %s</div>`,
		sign, h.Value.String(), md(h.Name))
}

func (r *FeedbackRenderer) md(s string) string {
	if r.MD == nil {
		return html.EscapeString(s)
	}
	return r.MD.Render(s)
}

func (it *Item) hintSnapshot() []Hint {
	if it.Def.Hints == nil {
		return nil
	}
	return it.Def.Hints.All()
}
