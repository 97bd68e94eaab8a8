package channel

import (
	"html"
	"strings"

	"github.com/fatih/color"
)

// ansiStyle returns the fatih/color attributes for a part type, with a
// bolder variant when accent is set.
func ansiStyle(t PartType, accent bool) *color.Color {
	switch t {
	case PromptQuestion:
		if accent {
			return color.New(color.FgCyan, color.Bold)
		}
		return color.New(color.FgCyan)
	case PromptAnswer:
		return color.New(color.FgHiBlack)
	case Status:
		return color.New(color.FgBlue)
	case ErrorPart:
		if accent {
			return color.New(color.FgRed, color.Bold)
		}
		return color.New(color.FgRed)
	case Bright:
		return color.New(color.FgWhite, color.Bold)
	case BgHappy:
		return color.New(color.BgGreen, color.FgBlack)
	case BgSad:
		return color.New(color.BgRed, color.FgWhite)
	case BgMeh:
		return color.New(color.BgYellow, color.FgBlack)
	default: // Plain, Print
		if accent {
			return color.New(color.Bold)
		}
		return color.New()
	}
}

// htmlSpanClass names the CSS class an HTML mirror wraps each part in.
func htmlSpanClass(t PartType) string {
	switch t {
	case PromptQuestion:
		return "gf-prompt-question"
	case PromptAnswer:
		return "gf-prompt-answer"
	case Status:
		return "gf-status"
	case ErrorPart:
		return "gf-error"
	case Bright:
		return "gf-bright"
	case BgHappy:
		return "gf-bg-happy"
	case BgSad:
		return "gf-bg-sad"
	case BgMeh:
		return "gf-bg-meh"
	default:
		return "gf-plain"
	}
}

// renderANSI writes m styled for a color terminal. useColor false emits
// plain text only (e.g. output redirected to a file).
func renderANSI(m *Msg, useColor bool) string {
	var b strings.Builder
	for _, p := range m.Parts {
		if !useColor {
			b.WriteString(p.Text)
			continue
		}
		c := ansiStyle(p.Type, p.Accent)
		b.WriteString(c.Sprint(p.Text))
	}
	return b.String()
}

// renderHTML escapes & " ' < >, wraps each part in a color-tagged span,
// and converts \n to <br>\n.
func renderHTML(m *Msg) string {
	var b strings.Builder
	for _, p := range m.Parts {
		escaped := html.EscapeString(p.Text)
		escaped = strings.ReplaceAll(escaped, "\n", "<br>\n")
		class := htmlSpanClass(p.Type)
		if p.Accent {
			class += " gf-accent"
		}
		b.WriteString(`<span class="`)
		b.WriteString(class)
		b.WriteString(`">`)
		b.WriteString(escaped)
		b.WriteString(`</span>`)
	}
	return b.String()
}
