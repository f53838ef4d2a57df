package web

import (
	"html/template"
	"time"
)

// Templates parses the embedded views with the helpers they use.
func Templates() *template.Template {
	funcs := template.FuncMap{
		"date": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
	}

	return template.Must(template.New("").Funcs(funcs).ParseFS(TemplatesFS, "templates/*.html"))
}
