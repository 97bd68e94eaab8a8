// Package channel implements GradeFast's structured teletype I/O: a single
// primary terminal plus zero or more read-only mirror logs, both driven by
// the same typed Msg model.
package channel

import "strings"

// PartType is one styled fragment of a Msg.
type PartType int

const (
	Plain PartType = iota
	PromptQuestion
	PromptAnswer
	Print
	Status
	ErrorPart
	Bright
	BgHappy
	BgSad
	BgMeh
)

// Part is one (type, text) fragment, optionally emphasized.
type Part struct {
	Type   PartType
	Text   string
	Accent bool
}

// Msg is an ordered sequence of Parts. The zero value is an empty message.
type Msg struct {
	Parts []Part
}

// Add appends a plain-accent fragment of the given type.
func (m *Msg) Add(t PartType, text string) *Msg {
	m.Parts = append(m.Parts, Part{Type: t, Text: text})
	return m
}

// AddAccent appends an emphasized fragment.
func (m *Msg) AddAccent(t PartType, text string) *Msg {
	m.Parts = append(m.Parts, Part{Type: t, Text: text, Accent: true})
	return m
}

// NewMsg builds a single-part Msg, a convenience for the common case.
func NewMsg(t PartType, text string) *Msg {
	return (&Msg{}).Add(t, text)
}

// PlainText concatenates every part's text with no styling, used by
// mirrors that only need the raw transcript.
func (m *Msg) PlainText() string {
	var b strings.Builder
	for _, p := range m.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
