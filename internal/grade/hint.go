package grade

import "sync"

// Hint is a named, signed point adjustment attached to a grade item. Hint
// lists are structural: every submission's instance of a grade item shares
// the same *HintList, so growing or editing it through one submission's
// view is immediately visible from every other submission's view.
type Hint struct {
	Name           string
	Value          Number
	DefaultEnabled bool
}

// HintList is the shared, mutable list of hints for one structural grade
// item. It is guarded by a mutex because Add/Replace can be called
// from the Gradebook's HTTP handlers while a CommandRunner session is
// concurrently reading it for a different submission's feedback render.
type HintList struct {
	mu    sync.Mutex
	hints []Hint
}

// NewHintList builds a HintList from parsed definitions.
func NewHintList(hints []Hint) *HintList {
	return &HintList{hints: append([]Hint(nil), hints...)}
}

// Len returns the current number of hints.
func (hl *HintList) Len() int {
	hl.mu.Lock()
	defer hl.mu.Unlock()
	return len(hl.hints)
}

// At returns a copy of the hint at index i.
func (hl *HintList) At(i int) (Hint, bool) {
	hl.mu.Lock()
	defer hl.mu.Unlock()
	if i < 0 || i >= len(hl.hints) {
		return Hint{}, false
	}
	return hl.hints[i], true
}

// All returns a snapshot copy of every hint.
func (hl *HintList) All() []Hint {
	hl.mu.Lock()
	defer hl.mu.Unlock()
	out := make([]Hint, len(hl.hints))
	copy(out, hl.hints)
	return out
}

// Add appends a new hint. Every existing submission instance sees it
// because they all hold the same *HintList pointer; a new hint starts
// disabled until a submission's instance explicitly enables it.
func (hl *HintList) Add(name string, value Number) int {
	hl.mu.Lock()
	defer hl.mu.Unlock()
	hl.hints = append(hl.hints, Hint{Name: name, Value: value, DefaultEnabled: false})
	return len(hl.hints) - 1
}

// Replace overwrites the hint at index i in place.
func (hl *HintList) Replace(i int, name string, value Number) bool {
	hl.mu.Lock()
	defer hl.mu.Unlock()
	if i < 0 || i >= len(hl.hints) {
		return false
	}
	hl.hints[i].Name = name
	hl.hints[i].Value = value
	return true
}
