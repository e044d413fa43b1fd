package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authorportal/internal/articles"
	"authorportal/internal/models"
)

type fakeSource struct {
	author   models.Author
	authErr  error
	records  []models.Article
	gotToken string
	gotID    int64
}

func (f *fakeSource) ValidateToken(_ context.Context, token string) (models.Author, error) {
	f.gotToken = token
	return f.author, f.authErr
}

func (f *fakeSource) ArticlesByAuthor(_ context.Context, _ string, authorID int64) ([]models.Article, error) {
	f.gotID = authorID
	return f.records, nil
}

func strPtr(s string) *string { return &s }

func TestFetchArticlesUsesAuthorFromToken(t *testing.T) {
	src := &fakeSource{
		author: models.Author{ID: 7},
		records: []models.Article{
			{ID: 1, Title: "Graph Colouring", Status: models.StatusSubmitted, SubjectAreaName: strPtr("Mathematics")},
			{ID: 2, Title: "Soil Carbon", Status: models.StatusAccepted},
		},
	}
	state := articles.DefaultFilterState()
	state.SearchTerm = "graph"

	view, err := fetchArticles(context.Background(), src, "tok", state)
	require.NoError(t, err)

	assert.Equal(t, "tok", src.gotToken)
	assert.Equal(t, int64(7), src.gotID)
	assert.Equal(t, 2, view.Total)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Graph Colouring", view.Rows[0].Title)
}

func TestFetchArticlesWrapsValidationError(t *testing.T) {
	boom := errors.New("boom")
	_, err := fetchArticles(context.Background(), &fakeSource{authErr: boom}, "tok", articles.DefaultFilterState())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "validate token")
}

func TestPrintArticlesTable(t *testing.T) {
	view := articles.Build([]models.Article{
		{ID: 12, Title: "Graph Colouring", Status: models.StatusUnderReview, JournalSectionName: strPtr("Letters")},
	}, articles.DefaultFilterState())

	var out bytes.Buffer
	require.NoError(t, printArticles(&out, view))

	text := out.String()
	assert.Contains(t, text, "ID")
	assert.Contains(t, text, "Graph Colouring")
	assert.Contains(t, text, "Letters")
	assert.Contains(t, text, models.StatusUnderReview.Label())
	assert.Contains(t, text, "1 of 1 articles")
}

func TestPrintArticlesEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printArticles(&out, articles.Build(nil, articles.DefaultFilterState())))
	assert.Equal(t, articles.NoArticlesMessage+"\n", out.String())
}

func TestArticlesCommandAgainstBackend(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/sso-auth/validate-token/":
			fmt.Fprint(w, `{"id": 3, "first_name": "Ada"}`)
		case "/journal/by-corresponding-author/3":
			fmt.Fprint(w, `[{"id": 40, "title": "Tidal Energy", "status": "accepted"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer backend.Close()

	path := filepath.Join(t.TempDir(), "portal.yaml")
	yaml := fmt.Sprintf("backend:\n  baseurl: %s\n  loginurl: https://login.example\nredis:\n  addr: \"\"\n", backend.URL)
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", path, "articles", "--token", "tok", "--json"})
	require.NoError(t, cmd.Execute())

	var view articles.View
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	require.Len(t, view.Rows, 1)
	assert.Equal(t, int64(40), view.Rows[0].ID)
	assert.Equal(t, "Tidal Energy", view.Rows[0].Title)
}

func TestVersionCommand(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "portal dev")
}
