// Package templates embeds the HTML pages served by the approval web service.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Load parses every embedded page. Each file is addressable by its base name.
func Load() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"valueOf": func(values map[string]string, name string) string {
			return values[name]
		},
	}).ParseFS(files, "*.html")
}
