package grade

// PlainItem is the deeply-serialized view of one Item, suitable for JSON
// encoding to the browser client or for the /grades.json export.
type PlainItem struct {
	Kind          string      `json:"kind"`
	Name          string      `json:"name"`
	Enabled       bool        `json:"enabled"`
	Note          string      `json:"note,omitempty"`
	Earned        Number      `json:"earned"`
	Possible      Number      `json:"possible"`
	Hints         []PlainHint `json:"hints"`
	BaseScore     *Number     `json:"base_score,omitempty"`
	Comments      *string     `json:"comments,omitempty"`
	IsLate        *bool       `json:"is_late,omitempty"`
	LateDeduction *Number     `json:"late_deduction,omitempty"`
	Children      []PlainItem `json:"children,omitempty"`
}

// PlainHint is the serialized view of one hint plus this instance's
// resolved enabled state.
type PlainHint struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Value   Number `json:"value"`
	Enabled bool   `json:"enabled"`
}

// ToPlainData deeply serializes it into a JSON-ready tree.
func (it *Item) ToPlainData(ancestors []string) PlainItem {
	earned, possible, _ := it.GetScore(ancestors)
	p := PlainItem{
		Kind:     it.Def.Kind.String(),
		Name:     it.Def.Name,
		Enabled:  it.Enabled,
		Note:     it.Def.Note,
		Earned:   earned,
		Possible: possible,
		Hints:    plainHints(it),
	}
	switch it.Def.Kind {
	case ScoreKind:
		bs := it.BaseScore
		c := it.Comments
		p.BaseScore = &bs
		p.Comments = &c
	case SectionKind:
		late := it.IsLate
		ld := it.Def.LateDeduction
		p.IsLate = &late
		p.LateDeduction = &ld
		childAncestors := append(append([]string(nil), ancestors...), it.Def.Name)
		p.Children = make([]PlainItem, len(it.Children))
		for i, c := range it.Children {
			p.Children[i] = c.ToPlainData(childAncestors)
		}
	}
	return p
}

func plainHints(it *Item) []PlainHint {
	if it.Def.Hints == nil {
		return nil
	}
	all := it.Def.Hints.All()
	out := make([]PlainHint, len(all))
	for i, h := range all {
		out[i] = PlainHint{Index: i, Name: h.Name, Value: h.Value, Enabled: it.hintEnabled(i, h)}
	}
	return out
}

// ToPlainData serializes the full grade tree, one PlainItem per top-level
// item. Overall comments are not included.
func (g *Grade) ToPlainData() []PlainItem {
	out := make([]PlainItem, len(g.Items))
	for i, it := range g.Items {
		out[i] = it.ToPlainData(nil)
	}
	return out
}
