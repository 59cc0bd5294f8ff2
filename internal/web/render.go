// Package web renders the HBnB pages. Templates are html/template, so every
// value interpolated from the backend is escaped.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"hbnb_web/internal/domain"
)

//go:embed templates/*.html
var files embed.FS

const (
	PageIndex     = "index.html"
	PageLogin     = "login.html"
	PagePlace     = "place.html"
	PageAddReview = "add_review.html"
)

var funcs = template.FuncMap{
	"price": func(p float64) string { return strconv.FormatFloat(p, 'f', -1, 64) },
}

type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{PageIndex, PageLogin, PagePlace, PageAddReview} {
		t, err := template.New(page).Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Render executes page into w. Output is buffered so a template error never
// leaves a half-written page.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// ---- page models ----

type Nav struct {
	Authenticated bool
}

type IndexPage struct {
	Nav
	Places   []domain.PlaceCard
	MaxPrice string
	Options  []string
}

type LoginPage struct {
	Nav
	Email string
	Error string
}

type PlacePage struct {
	Nav
	Error        string
	Place        *domain.PlaceView
	Reviews      []domain.ReviewView
	ReviewsError string
	Flash        string
}

type Message struct {
	Text string
	Type string // success|error|info
}

type AddReviewPage struct {
	Nav
	PlaceID  string
	Message  *Message
	ShowForm bool
	Rating   string
	Text     string
	Ratings  []string

	// set after a successful submit
	RedirectURL     string
	RedirectSeconds int
}
