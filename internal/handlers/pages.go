package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"authorportal/internal/middleware"
	"authorportal/internal/views"
)

func (h HandlerSet) Home(c *gin.Context) {
	state := middleware.CurrentSession(c).Snapshot()
	h.render(c, http.StatusOK, views.PageHome, "Accepted Journals", "home", views.NewHomeBody(state.Journals, state.Loading))
}

func (h HandlerSet) RefreshJournals(c *gin.Context) {
	if err := middleware.CurrentSession(c).Refresh(c.Request.Context()); err != nil {
		_ = c.Error(err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h HandlerSet) Login(c *gin.Context) {
	c.Redirect(http.StatusFound, h.cfg.Backend.LoginURL)
}

func (h HandlerSet) Logout(c *gin.Context) {
	if err := middleware.CurrentSession(c).Logout(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Str("context_id", middleware.ContextID(c)).Msg("publish logout signal failed")
	}
	c.Redirect(http.StatusSeeOther, h.cfg.Backend.LoginURL)
}

func (h HandlerSet) SignedOut(c *gin.Context) {
	h.render(c, http.StatusOK, views.PageSignedOut, "Signed out", "", views.SignedOutBody{LoginURL: h.cfg.Backend.LoginURL})
}
