package api

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

func LoadTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		// rating formats an Elo rating the way the pages display it.
		"rating": func(r float64) string { return fmt.Sprintf("%.0f", r) },
	}

	return template.New("base").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
