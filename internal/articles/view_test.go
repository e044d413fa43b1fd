package articles

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authorportal/internal/models"
)

func TestFormatSubmissionDate(t *testing.T) {
	tests := []struct {
		name  string
		value *string
		want  string
	}{
		{"missing", nil, "~"},
		{"blank", strPtr("  "), "~"},
		{"date only", strPtr("2024-03-05"), "03-05"},
		{"timestamp", strPtr("2023-11-28T09:15:00Z"), "11-28"},
		{"timestamp with offset", strPtr("2023-12-31T23:30:00+05:00"), "12-31"},
		{"garbage", strPtr("not a date"), "~"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSubmissionDate(tt.value))
		})
	}
}

func TestEditLinkOnlyForSubmitted(t *testing.T) {
	submitted := Build([]models.Article{{ID: 5, Title: "A", Status: models.StatusSubmitted}}, DefaultFilterState())
	require.Len(t, submitted.Rows, 1)
	assert.Equal(t, "/edit-journal/5", submitted.Rows[0].EditPath)
	assert.Equal(t, "/view-journal/5", submitted.Rows[0].ViewPath)

	accepted := Build([]models.Article{{ID: 5, Title: "A", Status: models.StatusAccepted}}, DefaultFilterState())
	require.Len(t, accepted.Rows, 1)
	assert.Empty(t, accepted.Rows[0].EditPath)
	assert.Equal(t, "/view-journal/5", accepted.Rows[0].ViewPath)
}

func TestRowShortcuts(t *testing.T) {
	row := NewRow(models.Article{
		ID:                        8,
		Status:                    "withdrawn",
		ChiefEditorRecommendation: models.PresenceOf(`{"id": 1}`),
	})

	assert.Equal(t, "withdrawn", row.StatusLabel)
	assert.Equal(t, "secondary", row.StatusBadge)
	assert.Equal(t, "General", row.SubjectArea)
	assert.Equal(t, "~", row.Submitted)

	want := []Shortcut{
		{Role: "chief-editor", Label: "Chief", Icon: "crown", Variant: "warning", Tooltip: "View Chief Editor Recommendation", Path: "/recommendations/8/chief-editor", Filled: true},
		{Role: "area-editor", Label: "Area", Icon: "user-shield", Variant: "outline-success", Tooltip: "Area Editor Recommendation", Path: "/recommendations/8/area-editor"},
		{Role: "associate-editor", Label: "Assoc", Icon: "user-tie", Variant: "outline-info", Tooltip: "Associate Editor Recommendation", Path: "/recommendations/8/associate-editor"},
	}
	if diff := cmp.Diff(want, row.Shortcuts); diff != "" {
		t.Errorf("shortcuts mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildEmptyStates(t *testing.T) {
	empty := Build(nil, DefaultFilterState())
	assert.Equal(t, NoArticlesMessage, empty.EmptyMessage)
	assert.Equal(t, 0, empty.Total)
	assert.Empty(t, empty.Rows)

	records := sampleArticles()
	none := Build(records, FilterState{SearchTerm: "no such article"})
	assert.Equal(t, NoMatchesMessage, none.EmptyMessage)
	assert.Equal(t, len(records), none.Total)
	assert.Empty(t, none.Rows)

	some := Build(records, DefaultFilterState())
	assert.Empty(t, some.EmptyMessage)
	assert.Len(t, some.Rows, len(records))
}

func TestBuildSummaryAndOptions(t *testing.T) {
	records := []models.Article{
		{ID: 1, Status: models.StatusSubmitted, SubjectAreaName: strPtr("A")},
		{ID: 2, Status: models.StatusSubmitted, SubjectAreaName: strPtr("B")},
		{ID: 3, Status: models.StatusRejected, SubjectAreaName: strPtr("C")},
		{ID: 4, Status: models.StatusRejected, SubjectAreaName: strPtr("D")},
		{ID: 5, Status: models.StatusRejected, SubjectAreaName: strPtr("E")},
	}

	view := Build(records, FilterState{Status: "rejected", SubjectArea: "B"})

	assert.Equal(t, "A, B, C +2 more", view.SubjectAreaSummary)
	assert.Equal(t, "General", view.JournalSectionSummary)
	assert.Equal(t, 5, view.Total)

	require.Len(t, view.StatusOptions, len(models.Statuses)+1)
	assert.Equal(t, Option{Value: "all", Label: "All Statuses"}, view.StatusOptions[0])
	assert.Equal(t, Option{Value: "submitted", Label: "Submitted (2)"}, view.StatusOptions[1])
	assert.Equal(t, Option{Value: "rejected", Label: "Rejected (3)", Selected: true}, view.StatusOptions[5])
	assert.Equal(t, Option{Value: "under_review", Label: "Under Review (0)"}, view.StatusOptions[2])

	require.Len(t, view.SubjectAreaOptions, 6)
	assert.True(t, view.SubjectAreaOptions[2].Selected)
	assert.Equal(t, "B", view.SubjectAreaOptions[2].Value)
	assert.Equal(t, NoMatchesMessage, view.EmptyMessage)
}
