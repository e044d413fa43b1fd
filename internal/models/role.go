package models

import "fmt"

type RecommendationSection struct {
	Heading  string
	Body     string
	Fallback string
	// Optional sections are omitted when Body is empty.
	Optional bool
}

// ReviewerRole describes one editorial role whose recommendations an author
// can read. The article list, the backend client and the recommendation page
// are all driven by this table.
type ReviewerRole struct {
	Slug      string
	APIPrefix string
	Label     string
	Icon      string
	Variant   string
	Title     string
	Heading   string
	ByLine    string
	DateLabel string
	NoDate    string
	ShowsRate bool

	Present    func(Article) bool
	EditorName func(Recommendation) string
	Date       func(Recommendation) *string
	Sections   func(Recommendation) []RecommendationSection
}

var ChiefEditor = ReviewerRole{
	Slug:      "chief-editor",
	APIPrefix: "editor-chief",
	Label:     "Chief",
	Icon:      "crown",
	Variant:   "warning",
	Title:     "Editor-in-Chief Decision",
	Heading:   "Decision for",
	ByLine:    "By Editor-in-Chief",
	DateLabel: "Decision date",
	NoDate:    "No decision date",
	Present:   func(a Article) bool { return a.ChiefEditorRecommendation.Present() },
	EditorName: func(r Recommendation) string {
		return r.EditorName
	},
	Date: func(r Recommendation) *string { return r.DecisionDate },
	Sections: func(r Recommendation) []RecommendationSection {
		return []RecommendationSection{
			{Heading: "Evaluation Summary", Body: r.DecisionSummary, Fallback: "No summary provided"},
			{Heading: "Final Decision Notes", Body: r.DecisionNotes, Fallback: "No additional notes"},
		}
	},
}

var AreaEditor = ReviewerRole{
	Slug:      "area-editor",
	APIPrefix: "area-editor",
	Label:     "Area",
	Icon:      "user-shield",
	Variant:   "success",
	Title:     "Area Editor Recommendation",
	Heading:   "Recommendation for",
	ByLine:    "By Area Editor",
	DateLabel: "Submitted on",
	NoDate:    "No submission date",
	ShowsRate: true,
	Present:   func(a Article) bool { return a.AreaEditorRecommendation.Present() },
	EditorName: func(r Recommendation) string {
		return r.AreaEditorName
	},
	Date:     func(r Recommendation) *string { return r.SubmittedAt },
	Sections: reviewSections,
}

var AssociateEditor = ReviewerRole{
	Slug:      "associate-editor",
	APIPrefix: "associate-editor",
	Label:     "Assoc",
	Icon:      "user-tie",
	Variant:   "info",
	Title:     "Associate Editor Recommendation",
	Heading:   "Recommendation for",
	ByLine:    "By Associate Editor",
	DateLabel: "Submitted on",
	NoDate:    "No submission date",
	ShowsRate: true,
	Present:   func(a Article) bool { return a.AssociateEditorRecommendation.Present() },
	EditorName: func(r Recommendation) string {
		return r.AssociateEditorName
	},
	Date:     func(r Recommendation) *string { return r.SubmittedAt },
	Sections: reviewSections,
}

func reviewSections(r Recommendation) []RecommendationSection {
	return []RecommendationSection{
		{Heading: "Summary", Body: r.Summary, Fallback: "No summary provided"},
		{Heading: "Justification", Body: r.Justification, Fallback: "No justification provided"},
		{Heading: "Public Comments to Author", Body: r.PublicComments, Optional: true},
	}
}

// ReviewerRoles is the display order of the recommendation shortcuts.
var ReviewerRoles = []ReviewerRole{ChiefEditor, AreaEditor, AssociateEditor}

func RoleBySlug(slug string) (ReviewerRole, bool) {
	for _, role := range ReviewerRoles {
		if role.Slug == slug {
			return role, true
		}
	}
	return ReviewerRole{}, false
}

// RecommendationPath is the portal page listing this role's recommendations.
func (r ReviewerRole) RecommendationPath(articleID int64) string {
	return fmt.Sprintf("/recommendations/%d/%s", articleID, r.Slug)
}

// ButtonVariant is the filled variant when the article already carries this
// role's recommendation and the outline variant otherwise.
func (r ReviewerRole) ButtonVariant(a Article) string {
	if r.Present(a) {
		return r.Variant
	}
	return "outline-" + r.Variant
}

func (r ReviewerRole) Tooltip(a Article) string {
	name := r.Title
	if r.Slug == ChiefEditor.Slug {
		name = "Chief Editor Recommendation"
	}
	if r.Present(a) {
		return "View " + name
	}
	return name
}

func (r ReviewerRole) DownloadName(rec Recommendation) string {
	if r.Slug == ChiefEditor.Slug {
		return fmt.Sprintf("recommendation-%d.json", rec.ID)
	}
	return fmt.Sprintf("%s-recommendation-%d.json", r.Slug, rec.ID)
}
