package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"authorportal/internal/articles"
	"authorportal/internal/backend"
	"authorportal/internal/views"
)

const articlesPath = "/submitted-article"

func bindFilter(c *gin.Context) articles.FilterState {
	state := articles.DefaultFilterState()
	if err := c.ShouldBindQuery(&state); err != nil {
		_ = c.Error(err)
		state = articles.DefaultFilterState()
	}
	return state.Normalize()
}

func (h HandlerSet) SubmittedArticles(c *gin.Context) {
	state := bindFilter(c)
	token, author := credentials(c)

	body := views.ArticlesBody{
		ToggleURL: toggleFiltersURL(c.Request.URL),
		ResetURL:  resetFiltersURL(state),
	}

	records, err := h.journals.ArticlesByAuthor(c.Request.Context(), token, author.ID)
	if err != nil {
		if expired(c, err) {
			return
		}
		h.log.Error().Err(err).Int64("author_id", author.ID).Msg("load submitted articles failed")
		body.Error = backend.Message(err, "Failed to load your submitted articles.")
		h.render(c, http.StatusBadGateway, views.PageArticles, "Submitted Articles", "articles", body)
		return
	}

	body.View = articles.Build(records, state)
	h.render(c, http.StatusOK, views.PageArticles, "Submitted Articles", "articles", body)
}

func (h HandlerSet) ArticlesJSON(c *gin.Context) {
	state := bindFilter(c)
	token, author := credentials(c)

	records, err := h.journals.ArticlesByAuthor(c.Request.Context(), token, author.ID)
	if err != nil {
		if expired(c, err) {
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": backend.Message(err, "backend unavailable")})
		return
	}
	c.JSON(http.StatusOK, articles.Build(records, state))
}

// toggleFiltersURL keeps the current filters and flips the panel.
func toggleFiltersURL(u *url.URL) string {
	q := u.Query()
	if q.Get("filters") == "true" {
		q.Del("filters")
	} else {
		q.Set("filters", "true")
	}
	return withQuery(articlesPath, q)
}

// resetFiltersURL clears every filter but keeps the panel as it is.
func resetFiltersURL(state articles.FilterState) string {
	reset := state
	reset.Reset()
	q := url.Values{}
	if reset.ShowFilters {
		q.Set("filters", "true")
	}
	return withQuery(articlesPath, q)
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
