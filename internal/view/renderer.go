// Package view renders HTML pages through html/template behind Echo's
// Renderer interface.  Full pages compose layout.html with a content
// template; the posts listing lives in a shared partial so the feed fragment
// can be served without the layout.
package view

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// pages are the templates rendered inside the layout.  "posts" is the
// layout-less feed fragment and is registered separately.
var pages = []string{"index", "login", "register", "user", "post", "banned"}

type Renderer struct {
	templates map[string]*template.Template
}

// New parses every page template together with the layout and the posts
// partial, plus the standalone fragment.
func New(dir string) (*Renderer, error) {
	r := &Renderer{templates: map[string]*template.Template{}}
	layout := filepath.Join(dir, "layout.html")
	partial := filepath.Join(dir, "posts.html")
	for _, page := range pages {
		t, err := template.New("layout.html").Funcs(Funcs).
			ParseFiles(layout, partial, filepath.Join(dir, page+".html"))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.templates[page] = t
	}
	frag, err := template.New("posts.html").Funcs(Funcs).ParseFiles(partial)
	if err != nil {
		return nil, fmt.Errorf("parse posts fragment: %w", err)
	}
	r.templates["posts"] = frag
	return r, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	root := "layout"
	if name == "posts" {
		root = "posts"
	}
	return t.ExecuteTemplate(w, root, data)
}
