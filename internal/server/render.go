package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"home", "signup", "login", "create", "current", "completed", "view", "error"}

// view is the data handed to every template.
type view struct {
	User   *service.Identity
	Error  string
	Form   any
	Todo   *domain.Todo
	Todos  []domain.Todo
	Next   string
	Status int
	Title  string
}

// Renderer turns a page name and its view into HTML.
type Renderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"datetime": func(t time.Time) string {
		return t.Format("Jan 2, 2006 15:04")
	},
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render executes page into a buffer first so a template failure never
// leaves a half-written response.
func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, data view) error {
	tmpl, ok := rd.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data view) {
	if err := s.views.Render(w, status, page, data); err != nil {
		s.logger.Error("render page", "page", page, "err", err, "path", r.URL.Path)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, id *service.Identity, status int) {
	s.render(w, r, status, "error", view{User: id, Status: status, Title: http.StatusText(status)})
}

func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, nil, http.StatusNotFound)
}

// methodNotAllowedHandler answers wrong-method requests, such as a GET of
// /logout from a link prefetcher, without running the route.
func (s *Server) methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, nil, http.StatusMethodNotAllowed)
}
