package channel

import (
	"strings"
	"sync"
)

// PlainLog is an in-memory, read-only mirror that accumulates the raw text
// of every part it receives, with no styling.
type PlainLog struct {
	mu  sync.Mutex
	buf strings.Builder
}

var _ Delegate = (*PlainLog)(nil)

func NewPlainLog() *PlainLog { return &PlainLog{} }

func (l *PlainLog) Mirror(m *Msg) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.WriteString(m.PlainText())
}

// Text returns everything mirrored so far.
func (l *PlainLog) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.String()
}

// HTMLLog is an in-memory, read-only mirror that accumulates color-tagged
// HTML spans.
type HTMLLog struct {
	mu  sync.Mutex
	buf strings.Builder
}

var _ Delegate = (*HTMLLog)(nil)

func NewHTMLLog() *HTMLLog { return &HTMLLog{} }

func (l *HTMLLog) Mirror(m *Msg) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.WriteString(renderHTML(m))
}

// HTML returns the accumulated markup so far.
func (l *HTMLLog) HTML() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.String()
}
