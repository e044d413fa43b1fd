// Package articles derives the author's article list view: facets, filtered
// rows and summary counts. Everything here is a pure function of the input
// records and a FilterState; the input slice is never modified.
package articles

import (
	"strconv"
	"strings"

	"authorportal/internal/models"
)

// All is the filter value that disables a status, subject area or journal
// section filter.
const All = "all"

type FilterState struct {
	SearchTerm     string `form:"q" json:"searchTerm"`
	Status         string `form:"status" json:"statusFilter"`
	SubjectArea    string `form:"subject_area" json:"subjectAreaFilter"`
	JournalSection string `form:"journal_section" json:"journalSectionFilter"`
	ShowFilters    bool   `form:"filters" json:"showFilters"`
}

func DefaultFilterState() FilterState {
	return FilterState{
		Status:         All,
		SubjectArea:    All,
		JournalSection: All,
	}
}

// Reset clears the search term and the three select filters at once. The
// visibility of the filter panel is left as it is.
func (f *FilterState) Reset() {
	f.SearchTerm = ""
	f.Status = All
	f.SubjectArea = All
	f.JournalSection = All
}

// Normalize maps unset select filters to All.
func (f FilterState) Normalize() FilterState {
	if f.Status == "" {
		f.Status = All
	}
	if f.SubjectArea == "" {
		f.SubjectArea = All
	}
	if f.JournalSection == "" {
		f.JournalSection = All
	}
	return f
}

// Active reports whether any filter narrows the list.
func (f FilterState) Active() bool {
	f = f.Normalize()
	return f.SearchTerm != "" || f.Status != All || f.SubjectArea != All || f.JournalSection != All
}

type field func(models.Article) (string, bool)

func facets(records []models.Article, get field) []string {
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0)
	for _, a := range records {
		value, ok := get(a)
		if !ok {
			value = models.GeneralLabel
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

// SubjectAreas returns the distinct subject areas in first-seen order, with
// missing values reported as "General".
func SubjectAreas(records []models.Article) []string {
	return facets(records, models.Article.SubjectArea)
}

func JournalSections(records []models.Article) []string {
	return facets(records, models.Article.JournalSection)
}

func Filter(records []models.Article, state FilterState) []models.Article {
	state = state.Normalize()
	out := make([]models.Article, 0, len(records))
	for _, a := range records {
		if Matches(a, state) {
			out = append(out, a)
		}
	}
	return out
}

func Matches(a models.Article, state FilterState) bool {
	state = state.Normalize()
	return matchesSearch(a, state.SearchTerm) &&
		(state.Status == All || string(a.Status) == state.Status) &&
		matchesField(a.SubjectArea, state.SubjectArea) &&
		matchesField(a.JournalSection, state.JournalSection)
}

func matchesSearch(a models.Article, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(a.Title), strings.ToLower(term)) {
		return true
	}
	return strings.Contains(strconv.FormatInt(a.ID, 10), term)
}

// A record without a value never matches a specific filter, not even the
// "General" facet that stands in for missing values.
func matchesField(get func() (string, bool), filter string) bool {
	if filter == All {
		return true
	}
	value, ok := get()
	return ok && value == filter
}

// StatusCounts counts the unfiltered records per status.
func StatusCounts(records []models.Article) map[models.Status]int {
	counts := make(map[models.Status]int)
	for _, a := range records {
		counts[a.Status]++
	}
	return counts
}
