package articles

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authorportal/internal/models"
)

func strPtr(s string) *string { return &s }

func sampleArticles() []models.Article {
	return []models.Article{
		{ID: 1, Title: "Quantum X", Status: models.StatusSubmitted},
		{ID: 2, Title: "Bio Y", Status: models.StatusAccepted, SubjectAreaName: strPtr("Biology"), JournalSectionName: strPtr("Letters")},
		{ID: 12, Title: "Quantum Biology", Status: models.StatusUnderReview, SubjectAreaName: strPtr("Physics"), JournalSectionName: strPtr("Reviews")},
		{ID: 21, Title: "Ocean currents", Status: models.StatusUnderReview, SubjectAreaName: strPtr("Biology"), JournalSectionName: strPtr("")},
	}
}

func ids(records []models.Article) []int64 {
	out := make([]int64, 0, len(records))
	for _, a := range records {
		out = append(out, a.ID)
	}
	return out
}

func TestFacetsFirstSeenWithGeneral(t *testing.T) {
	records := sampleArticles()

	if diff := cmp.Diff([]string{"General", "Biology", "Physics"}, SubjectAreas(records)); diff != "" {
		t.Errorf("subject areas mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"General", "Letters", "Reviews"}, JournalSections(records)); diff != "" {
		t.Errorf("journal sections mismatch (-want +got):\n%s", diff)
	}
}

func TestFacetsOfNilInput(t *testing.T) {
	assert.Empty(t, SubjectAreas(nil))
	assert.Empty(t, JournalSections(nil))
	assert.Empty(t, Filter(nil, DefaultFilterState()))
	assert.Empty(t, StatusCounts(nil))
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		state FilterState
		want  []int64
	}{
		{"defaults", DefaultFilterState(), []int64{1, 2, 12, 21}},
		{"zero value behaves like defaults", FilterState{}, []int64{1, 2, 12, 21}},
		{"title case-insensitive", FilterState{SearchTerm: "quantum"}, []int64{1, 12}},
		{"id substring", FilterState{SearchTerm: "1"}, []int64{1, 12, 21}},
		{"status", FilterState{Status: "under_review"}, []int64{12, 21}},
		{"subject area", FilterState{SubjectArea: "Biology"}, []int64{2, 21}},
		{"general never matches missing values", FilterState{SubjectArea: "General"}, []int64{}},
		{"empty section is missing", FilterState{JournalSection: "Reviews"}, []int64{12}},
		{"all filters combined", FilterState{SearchTerm: "o", Status: "under_review", SubjectArea: "Biology"}, []int64{21}},
		{"no match", FilterState{SearchTerm: "astronomy"}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(sampleArticles(), tt.state)))
		})
	}
}

func TestFilterScenarioSubjectArea(t *testing.T) {
	records := []models.Article{
		{ID: 1, Title: "Quantum X", Status: models.StatusSubmitted},
		{ID: 2, Title: "Bio Y", Status: models.StatusAccepted, SubjectAreaName: strPtr("Biology")},
	}

	got := Filter(records, FilterState{Status: All, SubjectArea: "Biology", JournalSection: All})
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := sampleArticles()
	before := ids(records)

	_ = Filter(records, FilterState{SearchTerm: "bio"})
	_ = Build(records, FilterState{Status: "accepted"})

	assert.Equal(t, before, ids(records))
}

func TestResetKeepsPanelVisibility(t *testing.T) {
	state := FilterState{
		SearchTerm:     "x",
		Status:         "accepted",
		SubjectArea:    "Biology",
		JournalSection: "Letters",
		ShowFilters:    true,
	}
	state.Reset()

	assert.Equal(t, FilterState{Status: All, SubjectArea: All, JournalSection: All, ShowFilters: true}, state)
	assert.False(t, state.Active())
}

func TestStatusCounts(t *testing.T) {
	counts := StatusCounts(sampleArticles())
	assert.Equal(t, map[models.Status]int{
		models.StatusSubmitted:   1,
		models.StatusAccepted:    1,
		models.StatusUnderReview: 2,
	}, counts)
}

var (
	titleWords = []string{"Quantum", "bio", "Ocean", "MARS", "lattice", "Neural"}
	areaNames  = []string{"Biology", "Physics", "Chemistry", ""}
	statuses   = append([]models.Status{"withdrawn"}, models.Statuses...)
)

func randomArticles(r *rand.Rand, n int) []models.Article {
	out := make([]models.Article, 0, n)
	for i := 0; i < n; i++ {
		a := models.Article{
			ID:     int64(r.Intn(300)),
			Title:  titleWords[r.Intn(len(titleWords))] + " " + titleWords[r.Intn(len(titleWords))],
			Status: statuses[r.Intn(len(statuses))],
		}
		if r.Intn(3) > 0 {
			a.SubjectAreaName = strPtr(areaNames[r.Intn(len(areaNames))])
		}
		if r.Intn(3) > 0 {
			a.JournalSectionName = strPtr(areaNames[r.Intn(len(areaNames))])
		}
		out = append(out, a)
	}
	return out
}

func randomState(r *rand.Rand) FilterState {
	state := DefaultFilterState()
	switch r.Intn(4) {
	case 0:
		state.SearchTerm = strings.ToLower(titleWords[r.Intn(len(titleWords))])[:3]
	case 1:
		state.SearchTerm = strconv.Itoa(r.Intn(30))
	}
	if r.Intn(2) == 0 {
		state.Status = string(statuses[r.Intn(len(statuses))])
	}
	if r.Intn(2) == 0 {
		state.SubjectArea = []string{"Biology", "Physics", "General"}[r.Intn(3)]
	}
	return state
}

func TestProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		records := randomArticles(r, r.Intn(25))
		state := randomState(r)

		for _, values := range [][]string{SubjectAreas(records), JournalSections(records)} {
			seen := map[string]bool{}
			for _, v := range values {
				require.False(t, seen[v], "duplicate facet %q", v)
				require.NotEmpty(t, v)
				seen[v] = true
			}
		}

		filtered := Filter(records, state)
		for _, a := range filtered {
			term := state.SearchTerm
			inTitle := strings.Contains(strings.ToLower(a.Title), strings.ToLower(term))
			inID := strings.Contains(strconv.FormatInt(a.ID, 10), term)
			require.True(t, inTitle || inID, "record %d does not match %q", a.ID, term)
		}
		expected := 0
		for _, a := range records {
			if Matches(a, state) {
				expected++
			}
		}
		require.Len(t, filtered, expected)

		total := 0
		for _, n := range StatusCounts(records) {
			total += n
		}
		require.Equal(t, len(records), total)

		reset := state
		reset.Reset()
		require.Equal(t, ids(records), ids(Filter(records, reset)))
	}
}
