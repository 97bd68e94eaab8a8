// Package markdown adapts GradeFast's Markdown renderer: comments and
// hint reasons are authored as Markdown and rendered to HTML fragments
// for the feedback templates and the browser client.
package markdown

import "github.com/russross/blackfriday"

// Renderer turns a Markdown string into an HTML fragment.
type Renderer interface {
	Render(src string) string
}

// Blackfriday is the default Renderer, backed by
// github.com/russross/blackfriday with a restrained extension set: no raw
// HTML passthrough (feedback is embedded into a larger page); bare URLs are
// auto-linked, and links are limited to safe protocols.
type Blackfriday struct{}

var _ Renderer = Blackfriday{}

func (Blackfriday) Render(src string) string {
	if src == "" {
		return ""
	}
	extensions := blackfriday.EXTENSION_NO_INTRA_EMPHASIS |
		blackfriday.EXTENSION_FENCED_CODE |
		blackfriday.EXTENSION_AUTOLINK |
		blackfriday.EXTENSION_STRIKETHROUGH

	renderer := blackfriday.HtmlRenderer(blackfriday.HTML_SKIP_HTML|blackfriday.HTML_SAFELINK, "", "")
	out := blackfriday.Markdown([]byte(src), renderer, extensions)
	return string(out)
}
