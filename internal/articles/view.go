package articles

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"authorportal/internal/models"
)

const (
	NoArticlesMessage = "You have no submitted articles yet."
	NoMatchesMessage  = "No articles match your search criteria."

	// DatePlaceholder stands in for a missing submission date.
	DatePlaceholder = "~"

	summaryFacets = 3
)

type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type Shortcut struct {
	Role    string `json:"role"`
	Label   string `json:"label"`
	Icon    string `json:"icon"`
	Variant string `json:"variant"`
	Tooltip string `json:"tooltip"`
	Path    string `json:"path"`
	Filled  bool   `json:"filled"`
}

type Row struct {
	ID             int64         `json:"id"`
	Submitted      string        `json:"submitted"`
	JournalSection string        `json:"journalSection"`
	Title          string        `json:"title"`
	SubjectArea    string        `json:"subjectArea"`
	Status         models.Status `json:"status"`
	StatusLabel    string        `json:"statusLabel"`
	StatusBadge    string        `json:"statusBadge"`
	ViewPath       string        `json:"viewPath"`
	EditPath       string        `json:"editPath,omitempty"`
	Shortcuts      []Shortcut    `json:"shortcuts"`
}

type View struct {
	Filter FilterState `json:"filter"`

	Total                 int                   `json:"total"`
	SubjectAreas          []string              `json:"subjectAreas"`
	JournalSections       []string              `json:"journalSections"`
	SubjectAreaSummary    string                `json:"subjectAreaSummary"`
	JournalSectionSummary string                `json:"journalSectionSummary"`
	StatusCounts          map[models.Status]int `json:"statusCounts"`

	StatusOptions         []Option `json:"statusOptions"`
	SubjectAreaOptions    []Option `json:"subjectAreaOptions"`
	JournalSectionOptions []Option `json:"journalSectionOptions"`

	Rows         []Row  `json:"rows"`
	EmptyMessage string `json:"emptyMessage,omitempty"`
}

// Build derives the complete list view. A nil records slice is treated as an
// empty list.
func Build(records []models.Article, state FilterState) View {
	state = state.Normalize()

	subjectAreas := SubjectAreas(records)
	journalSections := JournalSections(records)
	counts := StatusCounts(records)
	filtered := Filter(records, state)

	view := View{
		Filter:                state,
		Total:                 len(records),
		SubjectAreas:          subjectAreas,
		JournalSections:       journalSections,
		SubjectAreaSummary:    summarize(subjectAreas),
		JournalSectionSummary: summarize(journalSections),
		StatusCounts:          counts,
		StatusOptions:         statusOptions(state.Status, counts),
		SubjectAreaOptions:    facetOptions("All Subject Areas", subjectAreas, state.SubjectArea),
		JournalSectionOptions: facetOptions("All Journal Sections", journalSections, state.JournalSection),
		Rows:                  make([]Row, 0, len(filtered)),
	}

	for _, a := range filtered {
		view.Rows = append(view.Rows, NewRow(a))
	}

	switch {
	case len(records) == 0:
		view.EmptyMessage = NoArticlesMessage
	case len(filtered) == 0:
		view.EmptyMessage = NoMatchesMessage
	}

	return view
}

func NewRow(a models.Article) Row {
	row := Row{
		ID:             a.ID,
		Submitted:      FormatSubmissionDate(a.SubmissionDate),
		JournalSection: a.JournalSectionLabel(),
		Title:          a.Title,
		SubjectArea:    a.SubjectAreaLabel(),
		Status:         a.Status,
		StatusLabel:    a.Status.Label(),
		StatusBadge:    a.Status.Badge(),
		ViewPath:       fmt.Sprintf("/view-journal/%d", a.ID),
		Shortcuts:      make([]Shortcut, 0, len(models.ReviewerRoles)),
	}
	if a.Status.Editable() {
		row.EditPath = fmt.Sprintf("/edit-journal/%d", a.ID)
	}
	for _, role := range models.ReviewerRoles {
		row.Shortcuts = append(row.Shortcuts, Shortcut{
			Role:    role.Slug,
			Label:   role.Label,
			Icon:    role.Icon,
			Variant: role.ButtonVariant(a),
			Tooltip: role.Tooltip(a),
			Path:    role.RecommendationPath(a.ID),
			Filled:  role.Present(a),
		})
	}
	return row
}

// FormatSubmissionDate renders a backend date as MM-DD in the date's own
// offset. Missing or unparseable dates render as DatePlaceholder.
func FormatSubmissionDate(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return DatePlaceholder
	}
	t, err := dateparse.ParseIn(strings.TrimSpace(*value), time.UTC)
	if err != nil {
		return DatePlaceholder
	}
	return fmt.Sprintf("%02d-%02d", int(t.Month()), t.Day())
}

func summarize(values []string) string {
	if len(values) <= summaryFacets {
		return strings.Join(values, ", ")
	}
	return fmt.Sprintf("%s +%d more", strings.Join(values[:summaryFacets], ", "), len(values)-summaryFacets)
}

func statusOptions(selected string, counts map[models.Status]int) []Option {
	options := make([]Option, 0, len(models.Statuses)+1)
	options = append(options, Option{Value: All, Label: "All Statuses", Selected: selected == All})
	for _, s := range models.Statuses {
		options = append(options, Option{
			Value:    string(s),
			Label:    fmt.Sprintf("%s (%d)", s.Label(), counts[s]),
			Selected: selected == string(s),
		})
	}
	return options
}

func facetOptions(allLabel string, values []string, selected string) []Option {
	options := make([]Option, 0, len(values)+1)
	options = append(options, Option{Value: All, Label: allLabel, Selected: selected == All})
	for _, v := range values {
		options = append(options, Option{Value: v, Label: v, Selected: selected == v})
	}
	return options
}
