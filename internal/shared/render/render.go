// Package render owns the embedded templates: the layout shell every page is drawn into,
// the pages themselves, and the fragments HTMX swaps in.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
)

//go:embed templates
var templateFS embed.FS

type (
	// Renderer holds one template set per page plus a set with only the partials.
	Renderer struct {
		pages     map[string]*template.Template
		fragments *template.Template
	}

	// Layout is the data the layout shell is executed with. Data is handed to the page's "content".
	Layout struct {
		Title         string
		Authenticated bool
		Data          any
	}
)

const (
	layoutFile      = "templates/layout.html"
	partialsPattern = "templates/partials/*.html"
	pagesDir        = "templates/pages"
)

func NewRenderer() (*Renderer, error) {
	fragments, err := template.ParseFS(templateFS, partialsPattern)
	if err != nil {
		return nil, fmt.Errorf("parse partials: %w", err)
	}

	entries, err := fs.ReadDir(templateFS, pagesDir)
	if err != nil {
		return nil, fmt.Errorf("read pages: %w", err)
	}

	pages := make(map[string]*template.Template, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		tmpl, err := template.ParseFS(templateFS, layoutFile, partialsPattern, path.Join(pagesDir, name))
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages, fragments: fragments}, nil
}

// Page writes a full HTML document: the layout shell around page's content.
func (r *Renderer) Page(w http.ResponseWriter, status int, page string, data Layout) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return write(w, status, tmpl, "layout", data)
}

// Fragment writes a single partial, for HTMX to swap in.
func (r *Renderer) Fragment(w http.ResponseWriter, status int, name string, data any) error {
	return write(w, status, r.fragments, name, data)
}

// write buffers the output so a failing template never leaves a half written 200.
func write(w http.ResponseWriter, status int, tmpl *template.Template, name string, data any) error {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
