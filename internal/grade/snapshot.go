package grade

// ItemState is one Item's mutable data with its *ItemDef pointer stripped,
// so it can round-trip through a serializer without duplicating the
// shared structure (hint-list identity still comes from the structure
// loaded fresh at resume time, not from this snapshot). Positional:
// Children[i] corresponds to the same index in the ItemDef/Item tree that
// produced it.
type ItemState struct {
	Enabled       bool
	HintOverrides map[int]bool

	BaseScore Number
	Comments  string

	Children []ItemState
	IsLate   bool
}

// GradeState is a Grade snapshot suitable for the --resume store.
type GradeState struct {
	Items           []ItemState
	OverallComments string
}

// Snapshot captures g's mutable state for persistence.
func (g *Grade) Snapshot() GradeState {
	items := make([]ItemState, len(g.Items))
	for i, it := range g.Items {
		items[i] = snapshotItem(it)
	}
	return GradeState{Items: items, OverallComments: g.OverallComments}
}

func snapshotItem(it *Item) ItemState {
	s := ItemState{
		Enabled:       it.Enabled,
		HintOverrides: cloneHintOverrides(it.HintOverrides),
		BaseScore:     it.BaseScore,
		Comments:      it.Comments,
		IsLate:        it.IsLate,
	}
	if it.Children != nil {
		s.Children = make([]ItemState, len(it.Children))
		for i, c := range it.Children {
			s.Children[i] = snapshotItem(c)
		}
	}
	return s
}

func cloneHintOverrides(m map[int]bool) map[int]bool {
	if len(m) == 0 {
		return nil
	}
	out := make(map[int]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// RestoreGrade rebuilds a Grade against defs (the freshly parsed
// structure for this run) using a previously captured GradeState. defs
// must be the same grade structure the snapshot was taken from; a
// mismatch in shape is not an error, it just leaves extra structural
// items at their defaults and drops state that no longer has a home.
func RestoreGrade(defs []*ItemDef, state GradeState) *Grade {
	g := NewGrade(defs)
	n := len(g.Items)
	if len(state.Items) < n {
		n = len(state.Items)
	}
	for i := 0; i < n; i++ {
		restoreItem(g.Items[i], state.Items[i])
	}
	g.OverallComments = state.OverallComments
	return g
}

func restoreItem(it *Item, s ItemState) {
	it.Enabled = s.Enabled
	if s.HintOverrides != nil {
		it.HintOverrides = cloneHintOverrides(s.HintOverrides)
	}
	it.BaseScore = s.BaseScore
	it.Comments = s.Comments
	it.IsLate = s.IsLate

	n := len(it.Children)
	if len(s.Children) < n {
		n = len(s.Children)
	}
	for i := 0; i < n; i++ {
		restoreItem(it.Children[i], s.Children[i])
	}
}
