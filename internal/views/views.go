// Package views renders the portal's HTML pages from embedded templates.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gin-gonic/gin/render"

	"authorportal/internal/articles"
	"authorportal/internal/models"
)

const (
	PageHome            = "home"
	PageArticles        = "articles"
	PageJournal         = "journal"
	PageEdit            = "edit"
	PageRecommendations = "recommendations"
	PageSignedOut       = "signed_out"

	decisionLayout = "January 2, 2006 - 3:04 PM"
)

var pageNames = []string{PageHome, PageArticles, PageJournal, PageEdit, PageRecommendations, PageSignedOut}

//go:embed templates
var files embed.FS

// Page is the data every template receives. Body holds the page-specific
// model.
type Page struct {
	Title  string
	Nav    string
	Author *models.Author
	Body   any
}

// Renderer holds one parsed template set per page and satisfies gin's
// render.HTMLRender.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	base, err := template.New("layout").Funcs(funcs()).ParseFS(files, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		page, err := clone.ParseFS(files, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = page
	}
	return &Renderer{pages: pages}, nil
}

func (r *Renderer) Instance(name string, data any) render.Render {
	page, ok := r.pages[name]
	if !ok {
		panic(fmt.Sprintf("views: unknown page %q", name))
	}
	return render.HTML{Template: page, Name: "layout", Data: data}
}

func (r *Renderer) Render(w io.Writer, name string, data any) error {
	page, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("views: unknown page %q", name)
	}
	return page.ExecuteTemplate(w, "layout", data)
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"submissionDate": articles.FormatSubmissionDate,
		"decisionDate":   DecisionDate,
		"rating":         Rating,
		"lines":          lines,
		"idString":       func(id int64) string { return strconv.FormatInt(id, 10) },
	}
}

// DecisionDate formats a backend timestamp for the recommendation pages and
// returns "" for missing or unreadable values.
func DecisionDate(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return ""
	}
	t, err := dateparse.ParseIn(strings.TrimSpace(*value), time.UTC)
	if err != nil {
		return ""
	}
	return t.Format(decisionLayout)
}

func Rating(value *float64) string {
	if value == nil || *value == 0 {
		return "Not rated"
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func lines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
