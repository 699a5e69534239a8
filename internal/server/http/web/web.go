package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.gohtml
var fs embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.ParseFS(fs, "templates/*.gohtml")
}
