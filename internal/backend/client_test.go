package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authorportal/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithHTTP(srv.URL, srv.Client(), zerolog.Nop(), nil)
}

func TestValidateToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sso-auth/validate-token/", r.URL.Path)
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			io.WriteString(w, `{"id": 42, "email": "ada@example.org", "first_name": "Ada"}`)
		case "Bearer anonymous":
			io.WriteString(w, `{"id": null, "email": "x@example.org"}`)
		default:
			w.WriteHeader(http.StatusForbidden)
			io.WriteString(w, `{"detail": "invalid token"}`)
		}
	})

	author, err := client.ValidateToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, int64(42), author.ID)
	assert.Equal(t, "Ada", author.DisplayName())

	_, err = client.ValidateToken(context.Background(), "anonymous")
	assert.ErrorIs(t, err, ErrInvalidIdentity)

	_, err = client.ValidateToken(context.Background(), "bad")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.Status)
	assert.Equal(t, "invalid token", statusErr.Message)
}

func TestUnauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.AcceptedJournals(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestArticlesByAuthor(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/journal/by-corresponding-author/42", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		io.WriteString(w, `[
			{"id": 1, "title": "Quantum X", "status": "submitted", "subject_area_name": null},
			{"id": 2, "title": "Bio Y", "status": "accepted", "subject_area_name": "Biology", "area_editor_recommendation": true}
		]`)
	})

	articles, err := client.ArticlesByAuthor(context.Background(), "tok", 42)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, models.StatusAccepted, articles[1].Status)
	assert.True(t, articles[1].AreaEditorRecommendation.Present())
}

func TestRecommendationsSentinel(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr func(t *testing.T, err error)
		wantLen int
	}{
		{
			name:   "sentinel 404",
			status: http.StatusNotFound,
			body:   `{"detail": "No recommendations found for this journal."}`,
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoRecommendations)
			},
		},
		{
			name:   "other 404",
			status: http.StatusNotFound,
			body:   `{"detail": "Not found."}`,
			wantErr: func(t *testing.T, err error) {
				assert.False(t, errors.Is(err, ErrNoRecommendations))
				assert.True(t, IsNotFound(err))
			},
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnauthorized)
			},
		},
		{
			name:    "list",
			status:  http.StatusOK,
			body:    `[{"id": 3, "recommendation": "accept", "editor_name": "Grace"}]`,
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/editor-chief/recommendations/by-journal/9/", r.URL.Path)
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			recs, err := client.Recommendations(context.Background(), "tok", models.ChiefEditor, 9)
			if tt.wantErr != nil {
				require.Error(t, err)
				tt.wantErr(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, recs, tt.wantLen)
		})
	}
}

func TestUpdateBeforeReview(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/journal/update-before-review/5/", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "New title", r.FormValue("title"))
		assert.Equal(t, "3", r.FormValue("subject_area"))
		assert.Equal(t, "French", r.FormValue("language"))

		if r.FormValue("keywords") == "" {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error": "keywords are required"}`)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	update := models.JournalUpdate{
		Title:          "New title",
		Abstract:       "Abstract",
		Keywords:       "quantum, security",
		SubjectArea:    "3",
		JournalSection: "1",
		Language:       "French",
	}
	require.NoError(t, client.UpdateBeforeReview(context.Background(), "tok", 5, update))

	update.Keywords = ""
	err := client.UpdateBeforeReview(context.Background(), "tok", 5, update)
	require.Error(t, err)
	assert.Equal(t, "keywords are required", Message(err, "Update failed"))
}

func TestDeleteRecommendation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/area-editor/recommendations/11", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteRecommendation(context.Background(), "tok", models.AreaEditor, 11))
}

func TestMessageFallback(t *testing.T) {
	assert.Equal(t, "Update failed", Message(errors.New("boom"), "Update failed"))
	assert.Equal(t, "Update failed", Message(&StatusError{Status: 500}, "Update failed"))
}
