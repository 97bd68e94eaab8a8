package grader

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/antigravity-dev/gradefast/internal/grade"
)

type rawHint struct {
	Name           string  `yaml:"name"`
	Value          float64 `yaml:"value"`
	DefaultEnabled bool    `yaml:"default enabled"`
}

type rawGradeNode struct {
	Name           string    `yaml:"name"`
	Note           string    `yaml:"note"`
	Notes          yaml.Node `yaml:"notes"`
	DefaultEnabled *bool     `yaml:"default enabled"`
	Disabled       bool      `yaml:"disabled"`
	Hints          []rawHint `yaml:"hints"`

	// Score-only.
	Points          *float64 `yaml:"points"`
	DefaultScore    *float64 `yaml:"default score"`
	DefaultComments string   `yaml:"default comments"`

	// Section-only.
	Grades        []rawGradeNode `yaml:"grades"`
	LateDeduction float64        `yaml:"deduct percent if late"`
}

// ParseGradeStructure decodes a YAML grade-structure document into the
// shared []*grade.ItemDef structure every submission's tree is built
// from.
func ParseGradeStructure(data []byte) ([]*grade.ItemDef, error) {
	var raw []rawGradeNode
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing grade structure: %w", err)
	}
	out := make([]*grade.ItemDef, 0, len(raw))
	for i, r := range raw {
		def, err := buildItemDef(r, fmt.Sprintf("#%d", i+1))
		if err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, nil
}

func buildItemDef(r rawGradeNode, subject string) (*grade.ItemDef, error) {
	if r.Name == "" {
		return nil, fmt.Errorf(`grade item %s missing "name"`, subject)
	}
	subject = fmt.Sprintf("%s (%s)", subject, r.Name)

	if r.Grades != nil && r.Points != nil {
		return nil, fmt.Errorf(`grade item %s has both "points" and "grades"`, subject)
	}
	if r.Grades == nil && r.Points == nil {
		return nil, fmt.Errorf(`grade item %s has neither "points" nor "grades"`, subject)
	}

	defaultEnabled := true
	if r.DefaultEnabled != nil {
		defaultEnabled = *r.DefaultEnabled
	} else if r.Disabled {
		defaultEnabled = false
	}

	hints := make([]grade.Hint, 0, len(r.Hints))
	for _, h := range r.Hints {
		if h.Name == "" {
			return nil, fmt.Errorf("grade item %s has a hint without a name", subject)
		}
		hints = append(hints, grade.Hint{
			Name: h.Name, Value: grade.Number(h.Value), DefaultEnabled: h.DefaultEnabled,
		})
	}

	note, err := parseNotes(r)
	if err != nil {
		return nil, fmt.Errorf("grade item %s: %w", subject, err)
	}

	if r.Grades != nil {
		if r.LateDeduction < 0 || r.LateDeduction > 100 {
			return nil, fmt.Errorf(`grade section %s "deduct percent if late" (%v) must be in [0, 100]`, subject, r.LateDeduction)
		}
		children := make([]*grade.ItemDef, 0, len(r.Grades))
		for i, c := range r.Grades {
			def, err := buildItemDef(c, fmt.Sprintf("%s.%d", subject, i+1))
			if err != nil {
				return nil, err
			}
			children = append(children, def)
		}
		return &grade.ItemDef{
			Kind:           grade.SectionKind,
			Name:           r.Name,
			Note:           note,
			DefaultEnabled: defaultEnabled,
			Hints:          grade.NewHintList(hints),
			Children:       children,
			LateDeduction:  grade.Number(r.LateDeduction),
		}, nil
	}

	points := *r.Points
	if points < 0 {
		return nil, fmt.Errorf(`grade score %s "points" (%v) must be at least zero`, subject, points)
	}
	// An unspecified default score means full credit until deductions.
	defaultScore := points
	if r.DefaultScore != nil {
		defaultScore = *r.DefaultScore
	}
	if defaultScore < 0 || defaultScore > points {
		return nil, fmt.Errorf(`grade score %s "default score" (%v) must be in [0, %v]`, subject, defaultScore, points)
	}

	return &grade.ItemDef{
		Kind:            grade.ScoreKind,
		Name:            r.Name,
		Note:            note,
		DefaultEnabled:  defaultEnabled,
		Hints:           grade.NewHintList(hints),
		MaxPoints:       grade.Number(points),
		DefaultScore:    grade.Number(defaultScore),
		DefaultComments: r.DefaultComments,
	}, nil
}

// parseNotes resolves the "note"/"notes" keys; a list under "notes" is
// flattened into a Markdown bullet list.
func parseNotes(r rawGradeNode) (string, error) {
	if r.Notes.Kind == yaml.SequenceNode {
		var items []string
		if err := r.Notes.Decode(&items); err != nil {
			return "", fmt.Errorf(`decoding "notes": %w`, err)
		}
		return "- " + strings.Join(items, "\n- "), nil
	}
	if r.Notes.Kind == yaml.ScalarNode {
		var s string
		if err := r.Notes.Decode(&s); err != nil {
			return "", fmt.Errorf(`decoding "notes": %w`, err)
		}
		return s, nil
	}
	return r.Note, nil
}
