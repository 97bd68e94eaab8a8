package grade

// LeafColumn is one leaf item's export column: its fully-qualified name
// and its structural max points, independent of any submission's state.
type LeafColumn struct {
	QualifiedName string
	MaxPoints     Number
}

// LeafColumns walks the shared structure reachable from items (any
// submission's instance works, since the structure itself is shared) and
// returns every leaf's export column in tree order.
func LeafColumns(items []*Item) []LeafColumn {
	var out []LeafColumn
	var walk func(items []*Item, ancestors []string)
	walk = func(items []*Item, ancestors []string) {
		for _, it := range items {
			if it.Def.Kind == ScoreKind {
				out = append(out, LeafColumn{
					QualifiedName: qualifiedName(ancestors, it.Def.Name),
					MaxPoints:     it.Def.MaxPoints,
				})
				continue
			}
			walk(it.Children, append(append([]string(nil), ancestors...), it.Def.Name))
		}
	}
	walk(items, nil)
	return out
}
