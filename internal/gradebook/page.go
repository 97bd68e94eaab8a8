package gradebook

import (
	"bytes"
	"encoding/json"
	"html/template"

	"github.com/antigravity-dev/gradefast/internal/grade"
)

// The browser client ships separately; this is the thin host page that
// bootstraps it by embedding the data the client's JS reads on load.
var pageTemplate = template.Must(template.New("gradebook").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.ProjectName}} &mdash; GradeFast</title></head>
<body>
<script>
window.GRADEFAST = {
  initialList: {{.InitialList}},
  initialGradeStructure: {{.InitialGradeStructure}},
  isDone: {{.IsDone}}
};
</script>
<div id="gradefast-app"></div>
</body>
</html>
`))

var logPageTemplate = template.Must(template.New("log").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>{{.Content}}</body>
</html>
`))

type pageData struct {
	ProjectName           string
	InitialList           template.JS
	InitialGradeStructure template.JS
	IsDone                template.JS
}

func jsValue(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return template.JS(b)
}

func (gb *Gradebook) renderPage() (string, error) {
	subs := gb.subs.All()
	list := make([]map[string]any, 0, len(subs))
	for _, s := range subs {
		list = append(list, map[string]any{"id": s.ID, "name": s.Name, "finished": s.Finished})
	}

	var structure []grade.PlainItem
	if len(subs) > 0 {
		structure = subs[0].Grade.ToPlainData()
	}

	data := pageData{
		ProjectName:           gb.projectName,
		InitialList:           jsValue(list),
		InitialGradeStructure: jsValue(structure),
		IsDone:                jsValue(gb.isDone()),
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type logPageData struct {
	Title   string
	Content template.HTML
}

func renderLogPage(title, htmlContent string) (string, error) {
	var buf bytes.Buffer
	if err := logPageTemplate.Execute(&buf, logPageData{Title: title, Content: template.HTML(htmlContent)}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
