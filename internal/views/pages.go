package views

import (
	"fmt"

	"authorportal/internal/articles"
	"authorportal/internal/models"
)

const (
	NoAcceptedJournalsMessage = "You have no accepted journals yet."
	NoRecommendationsTitle    = "No Recommendations Found"
	NoRecommendationsMessage  = "There are currently no recommendations available for this journal."
)

type HomeBody struct {
	Loading      bool
	Rows         []articles.Row
	EmptyMessage string
}

func NewHomeBody(journals []models.Article, loading bool) HomeBody {
	body := HomeBody{Loading: loading, Rows: make([]articles.Row, 0, len(journals))}
	for _, j := range journals {
		body.Rows = append(body.Rows, articles.NewRow(j))
	}
	if !loading && len(journals) == 0 {
		body.EmptyMessage = NoAcceptedJournalsMessage
	}
	return body
}

type ArticlesBody struct {
	View      articles.View
	ToggleURL string
	ResetURL  string
	Error     string
}

type JournalBody struct {
	Journal         models.JournalDetail
	Submitted       string
	EditPath        string
	Recommendations []RoleLink
	Error           string
}

type RoleLink struct {
	Title string
	Path  string
}

func NewJournalBody(j models.JournalDetail) JournalBody {
	body := JournalBody{
		Journal:   j,
		Submitted: articles.FormatSubmissionDate(j.SubmissionDate),
	}
	if j.Status.Editable() {
		body.EditPath = fmt.Sprintf("/edit-journal/%d", j.ID)
	}
	for _, role := range models.ReviewerRoles {
		body.Recommendations = append(body.Recommendations, RoleLink{Title: role.Title, Path: role.RecommendationPath(j.ID)})
	}
	return body
}

type EditBody struct {
	JournalID       int64
	Title           string
	Status          models.Status
	Editable        bool
	Form            models.JournalUpdate
	SubjectAreas    []models.SubjectArea
	JournalSections []models.JournalSection
	Languages       []string
	Problems        []string
	Error           string
}

type RecommendationsBody struct {
	Role      models.ReviewerRole
	JournalID int64
	BackPath  string
	Items     []RecommendationItem
	Empty     bool
	Error     string
	RetryPath string
}

type RecommendationItem struct {
	ID           int64
	JournalTitle string
	EditorName   string
	Outcome      models.Outcome
	Date         string
	Final        bool
	Sections     []models.RecommendationSection
	ShowsRate    bool
	Rating       string
	DownloadPath string
	DeletePath   string
}

// NewRecommendationItems prepares recommendations for display. Empty
// sections take their fallback text and empty optional sections are dropped.
func NewRecommendationItems(role models.ReviewerRole, journalID int64, recs []models.Recommendation) []RecommendationItem {
	items := make([]RecommendationItem, 0, len(recs))
	for _, rec := range recs {
		date := DecisionDate(role.Date(rec))
		if date == "" {
			date = role.NoDate
		} else {
			date = role.DateLabel + ": " + date
		}

		var sections []models.RecommendationSection
		for _, s := range role.Sections(rec) {
			if s.Body == "" {
				if s.Optional {
					continue
				}
				s.Body = s.Fallback
			}
			sections = append(sections, s)
		}

		base := fmt.Sprintf("%s/%d", role.RecommendationPath(journalID), rec.ID)
		items = append(items, RecommendationItem{
			ID:           rec.ID,
			JournalTitle: rec.JournalTitle,
			EditorName:   role.EditorName(rec),
			Outcome:      rec.Outcome(),
			Date:         date,
			Final:        rec.IsFinalDecision,
			Sections:     sections,
			ShowsRate:    role.ShowsRate,
			Rating:       Rating(rec.OverallRating),
			DownloadPath: base + "/download",
			DeletePath:   base + "/delete",
		})
	}
	return items
}

type SignedOutBody struct {
	LoginURL string
}
