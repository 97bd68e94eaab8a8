package grade

import "fmt"

// SetEnabled toggles whether this item (and, for a section, its whole
// subtree) contributes to its parent's score.
func (it *Item) SetEnabled(enabled bool) {
	it.Enabled = enabled
}

// SetLate marks this section late. Only meaningful on sections that carry
// a LateDeduction; calling it on a leaf is a no-op since leaves never
// apply a late deduction.
func (it *Item) SetLate(late bool) {
	it.IsLate = late
}

// SetComments overwrites the free-text comments on a leaf.
func (it *Item) SetComments(s string) error {
	if it.Def.Kind != ScoreKind {
		return fmt.Errorf("SetComments: %q is not a leaf", it.Def.Name)
	}
	it.Comments = s
	return nil
}

// SetBaseScore overwrites the raw (pre-hint) base score on a leaf.
func (it *Item) SetBaseScore(n Number) error {
	if it.Def.Kind != ScoreKind {
		return fmt.Errorf("SetBaseScore: %q is not a leaf", it.Def.Name)
	}
	it.BaseScore = n
	return nil
}

// SetEffectiveScore sets BaseScore such that the leaf's observed score
// (base + currently-enabled hints) equals n.
func (it *Item) SetEffectiveScore(n Number) error {
	if it.Def.Kind != ScoreKind {
		return fmt.Errorf("SetEffectiveScore: %q is not a leaf", it.Def.Name)
	}
	it.BaseScore = Number(float64(n) - it.enabledHintSum())
	return nil
}

// SetHintEnabled overrides whether hint index i is enabled for this
// instance only.
func (it *Item) SetHintEnabled(i int, enabled bool) error {
	if it.Def.Hints == nil || i < 0 || i >= it.Def.Hints.Len() {
		return fmt.Errorf("SetHintEnabled: hint index %d out of range for %q", i, it.Def.Name)
	}
	it.HintOverrides[i] = enabled
	return nil
}

// hintEnabled reports whether hint index i is currently enabled for this
// instance, honoring any per-instance override.
func (it *Item) hintEnabled(i int, h Hint) bool {
	if v, ok := it.HintOverrides[i]; ok {
		return v
	}
	return h.DefaultEnabled
}

func (it *Item) enabledHintSum() float64 {
	if it.Def.Hints == nil {
		return 0
	}
	var sum float64
	for i, h := range it.Def.Hints.All() {
		if it.hintEnabled(i, h) {
			sum += float64(h.Value)
		}
	}
	return sum
}

// IsTouched reports whether a leaf differs from its defaults: enabled and
// any of base score, comments, or hint overrides diverge from the
// structural default.
func (it *Item) IsTouched() bool {
	if it.Def.Kind != ScoreKind {
		return false
	}
	if !it.Enabled {
		return false
	}
	if it.BaseScore != it.Def.DefaultScore {
		return true
	}
	if it.Comments != it.Def.DefaultComments {
		return true
	}
	for i, h := range it.hintSnapshot() {
		if it.hintEnabled(i, h) != h.DefaultEnabled {
			return true
		}
	}
	return false
}

// AddHintToAll adds a hint to the shared HintList reachable from path,
// visible to every submission's view of that item.
func (g *Grade) AddHintToAll(path []int, name string, value Number) (int, error) {
	it, err := g.GetByPath(path)
	if err != nil {
		return 0, err
	}
	if it.Def.Hints == nil {
		return 0, fmt.Errorf("AddHintToAll: %q has no hint list", it.Def.Name)
	}
	return it.Def.Hints.Add(name, value), nil
}

// ReplaceHintForAll overwrites an existing shared hint in place.
func (g *Grade) ReplaceHintForAll(path []int, index int, name string, value Number) error {
	it, err := g.GetByPath(path)
	if err != nil {
		return err
	}
	if it.Def.Hints == nil || !it.Def.Hints.Replace(index, name, value) {
		return fmt.Errorf("ReplaceHintForAll: hint index %d out of range for %q", index, it.Def.Name)
	}
	return nil
}

// SetLate marks the whole submission late: every section in the tree
// picks up its own late deduction, if it carries one.
func (g *Grade) SetLate(late bool) {
	var walk func(items []*Item)
	walk = func(items []*Item) {
		for _, it := range items {
			if it.Def.Kind != SectionKind {
				continue
			}
			it.IsLate = late
			walk(it.Children)
		}
	}
	walk(g.Items)
}

// SetOverallComments sets the submission-wide free-text comments.
func (g *Grade) SetOverallComments(s string) {
	g.OverallComments = s
}
