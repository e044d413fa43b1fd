package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const internalErrorPage = `<!doctype html><html><head><title>Author Portal</title></head>` +
	`<body><h1>Something went wrong</h1><p><a href="/">Back to the portal</a></p></body></html>`

func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("error", r).
					Str("path", c.Request.URL.Path).
					Str("request_id", c.Writer.Header().Get(requestIDHeader)).
					Msg("panic recovered")
				if WantsJSON(c) {
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"error": "internal_server_error",
					})
					return
				}
				c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(internalErrorPage))
				c.Abort()
			}
		}()
		c.Next()
	}
}

// WantsJSON reports whether the caller is the JSON API rather than a browser.
func WantsJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/") ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}
