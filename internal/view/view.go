// Package view renders the server-side HTML pages from templates embedded in
// the binary.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"postboard/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageIndex         = "index"
	PageLogin         = "login"
	PageLoginRequired = "loginrequired"
	PageLoginError    = "loginerror"
	PageUserExist     = "userexist"
	PageProfile       = "profile"
	PageCreate        = "create"
	PageFeed          = "feed"
	PageEdit          = "edit"
	PageUnauthorized  = "unauthorized"
	PageError         = "error"
)

var pages = []string{
	PageIndex, PageLogin, PageLoginRequired, PageLoginError, PageUserExist,
	PageProfile, PageCreate, PageFeed, PageEdit, PageUnauthorized, PageError,
}

// Data is the single view model shared by all pages; each page reads only
// the fields it needs.
type Data struct {
	Title     string
	ViewerID  string
	Profile   model.Profile
	Feed      []model.FeedItem
	Post      model.Post
	Message   string
	MaxLength int
}

type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	funcs := template.FuncMap{
		"date": func(t time.Time) string { return t.Format("Jan 2, 2006 15:04") },
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		r.pages[page] = tmpl
	}

	return r, nil
}

// Render executes page into a buffer first so a template failure never leaves
// a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data Data) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
