package grade

import "math"

// LeafScore is one leaf's contribution to a Grade's flattened score list,
// keyed by its fully-qualified name (ancestor names joined by ": ").
type LeafScore struct {
	QualifiedName string
	Earned        Number
}

// GetScore computes this item's own (earned, possible) pair and, for a
// section, the flattened list of every descendant leaf's own score. The
// qualified-name prefix passed in is this item's own ancestor chain (not
// including itself).
func (it *Item) GetScore(ancestors []string) (Number, Number, []LeafScore) {
	switch it.Def.Kind {
	case ScoreKind:
		earned := Number(float64(it.BaseScore) + it.enabledHintSum())
		qname := qualifiedName(ancestors, it.Def.Name)
		return earned, it.Def.MaxPoints, []LeafScore{{QualifiedName: qname, Earned: earned}}
	default:
		return it.sectionScore(ancestors)
	}
}

// LateDeductionPoints returns the number of points subtracted for
// lateness: max(0, round(earned_before_late * late_deduction/100)), or 0
// when the section isn't late or carries no late_deduction.
func (it *Item) LateDeductionPoints() Number {
	if it.Def.Kind != SectionKind || !it.IsLate || float64(it.Def.LateDeduction) <= 0 {
		return 0
	}
	preLate, _ := it.sectionEarnedBeforeLate(nil)
	d := math.Round(preLate * float64(it.Def.LateDeduction) / 100)
	if d < 0 {
		d = 0
	}
	return Number(d)
}

func (it *Item) sectionEarnedBeforeLate(ancestors []string) (float64, float64) {
	var earnedSum, possibleSum float64
	childAncestors := append(append([]string(nil), ancestors...), it.Def.Name)
	for _, child := range it.Children {
		if !child.Enabled {
			continue
		}
		ce, cp, _ := child.GetScore(childAncestors)
		earnedSum += float64(ce)
		possibleSum += float64(cp)
	}
	earnedSum += it.enabledHintSum()
	return earnedSum, possibleSum
}

func (it *Item) sectionScore(ancestors []string) (Number, Number, []LeafScore) {
	var leaves []LeafScore
	childAncestors := append(append([]string(nil), ancestors...), it.Def.Name)
	for _, child := range it.Children {
		if !child.Enabled {
			continue
		}
		_, _, cleaves := child.GetScore(childAncestors)
		leaves = append(leaves, cleaves...)
	}

	earnedSum, possibleSum := it.sectionEarnedBeforeLate(ancestors)

	if it.IsLate && float64(it.Def.LateDeduction) > 0 {
		deduction := math.Round(earnedSum * float64(it.Def.LateDeduction) / 100)
		if deduction < 0 {
			deduction = 0
		}
		earnedSum -= deduction
		if earnedSum < 0 {
			earnedSum = 0
		}
	}

	return Number(earnedSum), Number(possibleSum), leaves
}

// GetScore computes the whole-grade (earned, possible) totals plus the
// flattened per-leaf list, summing only over top-level items that are
// enabled (a disabled item contributes no earned points, no possible
// points, and no leaves to the export columns).
func (g *Grade) GetScore() (Number, Number, []LeafScore) {
	var earnedSum, possibleSum float64
	var leaves []LeafScore
	for _, item := range g.Items {
		if !item.Enabled {
			continue
		}
		e, p, ls := item.GetScore(nil)
		leaves = append(leaves, ls...)
		earnedSum += float64(e)
		possibleSum += float64(p)
	}
	return Number(earnedSum), Number(possibleSum), leaves
}

// Percentage returns earned/possible*100, reporting 0 instead of dividing
// by zero when possible is 0.
func Percentage(earned, possible Number) float64 {
	if possible == 0 {
		return 0
	}
	return float64(earned) / float64(possible) * 100
}

func qualifiedName(ancestors []string, name string) string {
	parts := append(append([]string(nil), ancestors...), name)
	out := parts[0]
	for _, p := range parts[1:] {
		out += ": " + p
	}
	return out
}
