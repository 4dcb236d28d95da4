// Package web renders the server-side HTML views for the jukebox catalog.
//
// Each page template is parsed together with the shared base layout at
// startup; handlers render by page name and never touch template
// internals. All views are plain server-rendered forms, no client-side
// framework.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFiles embed.FS

// pages lists every renderable view; each pairs with the base layout.
var pages = []string{
	"home",
	"login",
	"signup",
	"songs",
	"playlists",
	"playlist",
	"error",
}

// Renderer holds the parsed template set for every page.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses all embedded templates, failing fast on any parse error.
func NewRenderer() (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))

	for _, page := range pages {
		t, err := template.ParseFS(templateFiles, "templates/base.html", fmt.Sprintf("templates/%s.html", page))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		templates[page] = t
	}

	return &Renderer{templates: templates}, nil
}

// Render writes the named page to w with the given view data.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("unknown page template: %s", page)
	}

	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	return nil
}
