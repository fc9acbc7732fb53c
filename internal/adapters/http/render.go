package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"academy/internal/application/projections"
	"academy/internal/domain/course"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var pageNames = []string{"index.html", "course.html", "favorites.html", "not_found.html"}

var funcMap = template.FuncMap{
	"renderMarkdown": func(md string) template.HTML {
		var buf bytes.Buffer
		if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
			return template.HTML(template.HTMLEscapeString(md))
		}
		return template.HTML(buf.String())
	},
	"price": func(p float64) string { return fmt.Sprintf("$%.2f", p) },
	"capitalize": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
	"difficultyClass": func(d string) string {
		switch d {
		case course.DifficultyBeginner:
			return "level-beginner"
		case course.DifficultyIntermediate:
			return "level-intermediate"
		case course.DifficultyAdvanced:
			return "level-advanced"
		}
		return ""
	},
	"isAny": func(v string) bool { return v == course.Any },
	"card": func(c projections.CourseCard, p page) cardView {
		return cardView{CourseCard: c, CSRFField: p.CSRFField, Return: p.Path}
	},
}

// parsePages builds one template set per page, each sharing layout.html.
func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(assets, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return pages, nil
}

// page is the data handed to every template.
type page struct {
	Title     string
	Header    projections.HeaderResult
	CSRFField template.HTML
	Path      string // Request URI, used as the toggle return target
	Data      any
}

// cardView is one course card with what its toggle form needs.
type cardView struct {
	projections.CourseCard
	CSRFField template.HTML
	Return    string
}

// renderPage executes a page into a buffer so template errors never produce
// half-written responses.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	tpl, ok := s.pages[name]
	if !ok {
		internalError(w, fmt.Errorf("unknown template %s", name))
		return
	}

	header := projections.HeaderResult{}
	if store, err := s.favoritesFor(r); err == nil {
		header = projections.QueryHeader(store)
	}

	var buf bytes.Buffer
	err := tpl.Execute(&buf, page{
		Title:     title,
		Header:    header,
		CSRFField: csrf.TemplateField(r),
		Path:      r.URL.RequestURI(),
		Data:      data,
	})
	if err != nil {
		internalError(w, fmt.Errorf("render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("internal_error", "error", err.Error())
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// safeReturn accepts only local absolute paths, falling back otherwise.
func safeReturn(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return u.RequestURI()
}
