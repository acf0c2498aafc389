package web

import (
	"embed"
	"html/template"
)

//go:embed templates
var files embed.FS

var funcMap = template.FuncMap{
	// rank turns a zero-based index into a 1-based position
	"rank": func(i int) int { return i + 1 },
}

// Templates parses the page templates; each file defines a named template
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(files,
		"templates/layouts/*.html",
		"templates/*.html",
	)
}
