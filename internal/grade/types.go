// Package grade implements the GradeFast grade tree: a structural
// definition (shared across all submissions) paired with a per-submission
// mutable instance.
package grade

import "fmt"

// Kind distinguishes the two grade-item variants.
type Kind int

const (
	// ScoreKind is a leaf item.
	ScoreKind Kind = iota
	// SectionKind is an internal item with children.
	SectionKind
)

func (k Kind) String() string {
	if k == SectionKind {
		return "section"
	}
	return "score"
}

// ItemDef is the immutable structural definition of one grade-tree node,
// shared by every submission's instance. Names, points, default_enabled,
// children, and the hint list's identity all live here.
type ItemDef struct {
	Kind           Kind
	Name           string
	Hints          *HintList
	DefaultEnabled bool
	Note           string

	// Score-only fields.
	MaxPoints       Number
	DefaultScore    Number
	DefaultComments string

	// Section-only fields.
	Children      []*ItemDef
	LateDeduction Number // percent, [0,100]
}

// Item is one submission's mutable view of an ItemDef. Base score,
// comments, per-instance enabled flag, per-instance hint overrides, and
// (at the section that carries it) is_late all live here.
type Item struct {
	Def *ItemDef

	Enabled       bool
	HintOverrides map[int]bool // hint index -> enabled override

	// Score-only mutable state.
	BaseScore Number
	Comments  string

	// Section-only mutable state.
	Children []*Item
	IsLate   bool
}

// Grade is one submission's full tree plus submission-wide state that
// doesn't belong to any single node.
type Grade struct {
	Items           []*Item
	OverallComments string
}

// BuildStructure constructs the isomorphic per-submission instance tree
// from a shared list of structural definitions. Every Item created here
// references the very same *HintList pointers carried by defs, which is
// what makes hint sharing across submissions work.
func BuildStructure(defs []*ItemDef) []*Item {
	items := make([]*Item, len(defs))
	for i, d := range defs {
		items[i] = buildItem(d)
	}
	return items
}

func buildItem(d *ItemDef) *Item {
	it := &Item{
		Def:           d,
		Enabled:       d.DefaultEnabled,
		HintOverrides: make(map[int]bool),
	}
	switch d.Kind {
	case ScoreKind:
		it.BaseScore = d.DefaultScore
		it.Comments = d.DefaultComments
	case SectionKind:
		it.Children = make([]*Item, len(d.Children))
		for i, cd := range d.Children {
			it.Children[i] = buildItem(cd)
		}
	}
	return it
}

// NewGrade builds a fresh per-submission grade tree from the shared
// structure definitions.
func NewGrade(defs []*ItemDef) *Grade {
	return &Grade{Items: BuildStructure(defs)}
}

// BadPathError is returned by GetByPath when a path component doesn't
// resolve.
type BadPathError struct {
	Path  []int
	Index int
	Err   error
}

func (e *BadPathError) Error() string {
	return fmt.Sprintf("bad grade path %v at index %d: %v", e.Path, e.Index, e.Err)
}

func (e *BadPathError) Unwrap() error { return e.Err }

// GetByPath descends g's top-level items by successive child indices.
func (g *Grade) GetByPath(path []int) (*Item, error) {
	if len(path) == 0 {
		return nil, &BadPathError{Path: path, Index: 0, Err: fmt.Errorf("empty path")}
	}
	i0 := path[0]
	if i0 < 0 || i0 >= len(g.Items) {
		return nil, &BadPathError{Path: path, Index: 0, Err: fmt.Errorf("index %d out of range [0,%d)", i0, len(g.Items))}
	}
	cur := g.Items[i0]
	for depth, idx := range path[1:] {
		if cur.Def.Kind != SectionKind {
			return nil, &BadPathError{Path: path, Index: depth + 1, Err: fmt.Errorf("%q is a leaf, cannot descend further", cur.Def.Name)}
		}
		if idx < 0 || idx >= len(cur.Children) {
			return nil, &BadPathError{Path: path, Index: depth + 1, Err: fmt.Errorf("index %d out of range [0,%d)", idx, len(cur.Children))}
		}
		cur = cur.Children[idx]
	}
	return cur, nil
}

// GetByName performs a case-insensitive breadth-first search for an item
// named name. Disabled items are skipped unless includeDisabled is true.
func (g *Grade) GetByName(name string, includeDisabled bool) *Item {
	return findByNameBFS(g.Items, name, includeDisabled)
}
