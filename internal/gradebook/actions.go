package gradebook

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/antigravity-dev/gradefast/internal/grade"
)

// BadActionError is returned for a structurally invalid client action.
type BadActionError struct {
	Msg string
}

func (e *BadActionError) Error() string { return e.Msg }

// applyAction decodes the JSON action body and applies it to g. gjson
// pulls typed fields out of the arbitrary-shaped payload without a fixed
// Go struct per action type.
func applyAction(actionJSON string, g *grade.Grade) error {
	result := gjson.Parse(actionJSON)
	actionType := result.Get("type").String()
	if actionType == "" {
		return &BadActionError{Msg: "missing action type"}
	}

	switch actionType {
	case "SET_LATE":
		if !result.Get("is_late").Exists() {
			return &BadActionError{Msg: "SET_LATE requires is_late"}
		}
		g.SetLate(result.Get("is_late").Bool())
		return nil

	case "SET_OVERALL_COMMENTS":
		if !result.Get("overall_comments").Exists() {
			return &BadActionError{Msg: "SET_OVERALL_COMMENTS requires overall_comments"}
		}
		g.SetOverallComments(result.Get("overall_comments").String())
		return nil

	case "ADD_HINT":
		path, err := pathFrom(result)
		if err != nil {
			return err
		}
		name := result.Get("content.name")
		value := result.Get("content.value")
		if !name.Exists() || !value.Exists() {
			return &BadActionError{Msg: "ADD_HINT requires content.name and content.value"}
		}
		_, err = g.AddHintToAll(path, name.String(), grade.Number(value.Float()))
		return err

	case "EDIT_HINT":
		path, err := pathFrom(result)
		if err != nil {
			return err
		}
		if !result.Get("index").Exists() {
			return &BadActionError{Msg: "EDIT_HINT requires index"}
		}
		name := result.Get("content.name")
		value := result.Get("content.value")
		if !name.Exists() || !value.Exists() {
			return &BadActionError{Msg: "EDIT_HINT requires content.name and content.value"}
		}
		return g.ReplaceHintForAll(path, int(result.Get("index").Int()), name.String(), grade.Number(value.Float()))

	case "SET_ENABLED":
		item, err := itemByPath(g, result)
		if err != nil {
			return err
		}
		if !result.Get("value").Exists() {
			return &BadActionError{Msg: "SET_ENABLED requires value"}
		}
		item.SetEnabled(result.Get("value").Bool())
		return nil

	case "SET_SCORE":
		item, err := itemByPath(g, result)
		if err != nil {
			return err
		}
		if !result.Get("value").Exists() {
			return &BadActionError{Msg: "SET_SCORE requires value"}
		}
		return item.SetEffectiveScore(grade.Number(result.Get("value").Float()))

	case "SET_COMMENTS":
		item, err := itemByPath(g, result)
		if err != nil {
			return err
		}
		if !result.Get("value").Exists() {
			return &BadActionError{Msg: "SET_COMMENTS requires value"}
		}
		return item.SetComments(result.Get("value").String())

	case "SET_HINT":
		item, err := itemByPath(g, result)
		if err != nil {
			return err
		}
		if !result.Get("index").Exists() || !result.Get("value").Exists() {
			return &BadActionError{Msg: "SET_HINT requires index and value"}
		}
		return item.SetHintEnabled(int(result.Get("index").Int()), result.Get("value").Bool())

	default:
		return &BadActionError{Msg: fmt.Sprintf("unrecognized action type %q", actionType)}
	}
}

func pathFrom(result gjson.Result) ([]int, error) {
	pathResult := result.Get("path")
	if !pathResult.Exists() || !pathResult.IsArray() {
		return nil, &BadActionError{Msg: "action requires an integer path array"}
	}
	var path []int
	for _, p := range pathResult.Array() {
		path = append(path, int(p.Int()))
	}
	if len(path) == 0 {
		return nil, &grade.BadPathError{Path: path, Index: 0}
	}
	return path, nil
}

func itemByPath(g *grade.Grade, result gjson.Result) (*grade.Item, error) {
	path, err := pathFrom(result)
	if err != nil {
		return nil, err
	}
	return g.GetByPath(path)
}
