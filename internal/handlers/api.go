package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"authorportal/internal/middleware"
)

func (h HandlerSet) SessionState(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentSession(c).Snapshot())
}
