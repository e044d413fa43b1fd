package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"authorportal/internal/backend"
	"authorportal/internal/config"
	"authorportal/internal/middleware"
	"authorportal/internal/models"
	"authorportal/internal/session"
	"authorportal/internal/views"
)

// Journals is the part of the backend the pages call directly.
type Journals interface {
	ArticlesByAuthor(ctx context.Context, token string, authorID int64) ([]models.Article, error)
	JournalDetail(ctx context.Context, token string, id int64) (models.JournalDetail, error)
	SubjectAreas(ctx context.Context, token string) ([]models.SubjectArea, error)
	JournalSections(ctx context.Context, token string) ([]models.JournalSection, error)
	UpdateBeforeReview(ctx context.Context, token string, id int64, update models.JournalUpdate) error
	Recommendations(ctx context.Context, token string, role models.ReviewerRole, journalID int64) ([]models.Recommendation, error)
	DeleteRecommendation(ctx context.Context, token string, role models.ReviewerRole, recommendationID int64) error
}

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	journals Journals
	registry *session.Registry
	portal   *middleware.Portal
	cache    *redis.Client
}

// NewHandlerSet wires the page and API handlers. cache may be nil when the
// portal runs without redis.
func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, journals Journals, registry *session.Registry, portal *middleware.Portal, cache *redis.Client) HandlerSet {
	return HandlerSet{
		log:      log,
		cfg:      cfg,
		journals: journals,
		registry: registry,
		portal:   portal,
		cache:    cache,
	}
}

func (h HandlerSet) Register(router gin.IRouter) {
	router.GET("/healthz", h.Health)
	router.GET("/login", h.Login)

	pages := router.Group("/", h.portal.Pages(h.SignedOut))
	{
		pages.GET("/", h.Home)
		pages.POST("/journals/refresh", h.RefreshJournals)
		pages.POST("/logout", h.Logout)

		pages.GET("/submitted-article", h.SubmittedArticles)
		pages.GET("/view-journal/:id", h.ViewJournal)
		pages.GET("/edit-journal/:id", h.EditJournal)
		pages.POST("/edit-journal/:id", h.UpdateJournal)

		pages.GET("/recommendations/:journalId/:role", h.Recommendations)
		pages.GET("/recommendations/:journalId/:role/:recId/download", h.DownloadRecommendation)
		pages.POST("/recommendations/:journalId/:role/:recId/delete", h.DeleteRecommendation)
	}

	api := router.Group("/api/v1", middleware.CORS(h.cfg.AllowCORSOrigins), h.portal.API())
	{
		api.GET("/session", h.SessionState)
		api.GET("/articles", h.ArticlesJSON)
	}
}

// render writes a full page for the current session's author.
func (h HandlerSet) render(c *gin.Context, status int, name, title, nav string, body any) {
	page := views.Page{Title: title, Nav: nav, Body: body}
	if s := middleware.CurrentSession(c); s != nil {
		if author, ok := s.Author(); ok {
			page.Author = &author
		}
	}
	c.HTML(status, name, page)
}

// credentials returns the token and author of a signed-in request. The
// portal middleware only lets signed-in sessions through.
func credentials(c *gin.Context) (string, models.Author) {
	s := middleware.CurrentSession(c)
	if s == nil {
		return "", models.Author{}
	}
	author, _ := s.Author()
	return s.Token(), author
}

// expired sends the browser to the login route when the backend rejected
// the token.
func expired(c *gin.Context, err error) bool {
	if !errors.Is(err, backend.ErrUnauthorized) {
		return false
	}
	if middleware.WantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return true
	}
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
	return true
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
