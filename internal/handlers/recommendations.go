package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"authorportal/internal/backend"
	"authorportal/internal/models"
	"authorportal/internal/views"
)

type recommendationTarget struct {
	role      models.ReviewerRole
	journalID int64
}

func (t recommendationTarget) path() string {
	return t.role.RecommendationPath(t.journalID)
}

func (t recommendationTarget) body() views.RecommendationsBody {
	return views.RecommendationsBody{
		Role:      t.role,
		JournalID: t.journalID,
		BackPath:  fmt.Sprintf("/view-journal/%d", t.journalID),
		RetryPath: t.path(),
	}
}

func parseTarget(c *gin.Context) (recommendationTarget, bool) {
	role, ok := models.RoleBySlug(c.Param("role"))
	if !ok {
		return recommendationTarget{}, false
	}
	id, ok := paramID(c, "journalId")
	if !ok {
		return recommendationTarget{}, false
	}
	return recommendationTarget{role: role, journalID: id}, true
}

func (h HandlerSet) Recommendations(c *gin.Context) {
	target, ok := parseTarget(c)
	if !ok {
		c.String(http.StatusNotFound, "page not found")
		return
	}
	token, _ := credentials(c)

	recs, err := h.journals.Recommendations(c.Request.Context(), token, target.role, target.journalID)
	body := target.body()
	switch {
	case errors.Is(err, backend.ErrNoRecommendations):
		body.Empty = true
	case err != nil:
		if expired(c, err) {
			return
		}
		h.log.Error().Err(err).Str("role", target.role.Slug).Int64("journal_id", target.journalID).Msg("load recommendations failed")
		body.Error = backend.Message(err, "Failed to fetch recommendations")
		h.render(c, http.StatusBadGateway, views.PageRecommendations, target.role.Title, "articles", body)
		return
	default:
		body.Items = views.NewRecommendationItems(target.role, target.journalID, recs)
		body.Empty = len(body.Items) == 0
	}

	h.render(c, http.StatusOK, views.PageRecommendations, target.role.Title, "articles", body)
}

// DownloadRecommendation sends one recommendation, as the backend returned
// it, as a JSON attachment.
func (h HandlerSet) DownloadRecommendation(c *gin.Context) {
	target, ok := parseTarget(c)
	recID, idOK := paramID(c, "recId")
	if !ok || !idOK {
		c.String(http.StatusNotFound, "page not found")
		return
	}
	token, _ := credentials(c)

	recs, err := h.journals.Recommendations(c.Request.Context(), token, target.role, target.journalID)
	if err != nil && !errors.Is(err, backend.ErrNoRecommendations) {
		if expired(c, err) {
			return
		}
		h.log.Error().Err(err).Int64("recommendation_id", recID).Msg("download recommendation failed")
		c.String(http.StatusBadGateway, backend.Message(err, "Failed to fetch recommendations"))
		return
	}

	for _, rec := range recs {
		if rec.ID != recID {
			continue
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, rec.Raw, "", "  "); err != nil {
			pretty.Reset()
			pretty.Write(rec.Raw)
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", target.role.DownloadName(rec)))
		c.Data(http.StatusOK, "application/json", pretty.Bytes())
		return
	}
	c.String(http.StatusNotFound, "recommendation not found")
}

func (h HandlerSet) DeleteRecommendation(c *gin.Context) {
	target, ok := parseTarget(c)
	recID, idOK := paramID(c, "recId")
	if !ok || !idOK {
		c.String(http.StatusNotFound, "page not found")
		return
	}
	token, _ := credentials(c)

	if err := h.journals.DeleteRecommendation(c.Request.Context(), token, target.role, recID); err != nil {
		if expired(c, err) {
			return
		}
		h.log.Error().Err(err).Int64("recommendation_id", recID).Msg("delete recommendation failed")
		body := target.body()
		body.Error = backend.Message(err, "Failed to delete recommendation")
		h.render(c, http.StatusBadGateway, views.PageRecommendations, target.role.Title, "articles", body)
		return
	}

	h.log.Info().Str("role", target.role.Slug).Int64("recommendation_id", recID).Msg("recommendation deleted")
	c.Redirect(http.StatusSeeOther, target.path())
}
