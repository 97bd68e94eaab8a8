package gradebook

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/antigravity-dev/gradefast/internal/grade"
)

// submissionGrade is one submission's exported scoring summary, shared by
// both the CSV and JSON export paths.
type submissionGrade struct {
	Name       string
	Earned     grade.Number
	Possible   grade.Number
	Percentage float64
	Feedback   string
	Leaves     []grade.LeafScore
}

func (gb *Gradebook) exportGrades() []submissionGrade {
	out := make([]submissionGrade, 0)
	for _, sub := range gb.subs.All() {
		earned, possible, leaves := sub.Grade.GetScore()
		out = append(out, submissionGrade{
			Name:       sub.Name,
			Earned:     earned,
			Possible:   possible,
			Percentage: grade.Percentage(earned, possible),
			Feedback:   gb.feedback.RenderFeedback(sub.Grade),
			Leaves:     leaves,
		})
	}
	return out
}

func (gb *Gradebook) leafColumns() []grade.LeafColumn {
	subs := gb.subs.All()
	if len(subs) == 0 {
		return nil
	}
	return grade.LeafColumns(subs[0].Grade.Items)
}

// WriteCSV streams the grades.csv export: header row
// `Name, Total Score, Percentage, Feedback, "", <leaf columns>`, one row
// per submission.
func (gb *Gradebook) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	columns := gb.leafColumns()

	header := []string{"Name", "Total Score", "Percentage", "Feedback", ""}
	for _, c := range columns {
		header = append(header, fmt.Sprintf("(%s) %s", c.MaxPoints.String(), c.QualifiedName))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, sg := range gb.exportGrades() {
		row := []string{
			sg.Name,
			sg.Earned.String(),
			fmt.Sprintf("%g", sg.Percentage),
			sg.Feedback,
			"",
		}
		byName := make(map[string]string, len(sg.Leaves))
		for _, l := range sg.Leaves {
			byName[l.QualifiedName] = l.Earned.String()
		}
		for _, c := range columns {
			row = append(row, byName[c.QualifiedName])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// plainExportRow is the per-submission JSON export shape:
// name/score/possible_score/percentage/feedback plus one key per leaf name.
type plainExportRow map[string]any

// WriteJSON encodes the grades.json export: an array of plainExportRow.
func (gb *Gradebook) WriteJSON(w io.Writer) error {
	rows := make([]plainExportRow, 0)
	for _, sg := range gb.exportGrades() {
		row := plainExportRow{
			"name":           sg.Name,
			"score":          sg.Earned,
			"possible_score": sg.Possible,
			"percentage":     sg.Percentage,
			"feedback":       sg.Feedback,
		}
		for _, l := range sg.Leaves {
			row[l.QualifiedName] = l.Earned
		}
		rows = append(rows, row)
	}
	enc := json.NewEncoder(w)
	return enc.Encode(rows)
}
