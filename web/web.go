// Package web serves the server-rendered pages on top of the same
// services the JSON API uses. Templates are embedded so the binary
// stays self-contained.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed html/*
var htmlFS embed.FS

//go:embed static/*
var staticFS embed.FS

var funcMap = template.FuncMap{
	// stars renders a five-slot star bar for an average rating.
	"stars": func(avg float64) string {
		full := int(avg + 0.5)
		if full > 5 {
			full = 5
		}
		return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
	},
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(htmlFS, "html/*.html")
}

// Static returns the embedded assets rooted at static/.
func Static() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}
