package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authorportal/internal/backend"
	"authorportal/internal/config"
	"authorportal/internal/models"
	"authorportal/internal/session"
)

const testLoginURL = "https://login.example.org"

func init() {
	gin.SetMode(gin.TestMode)
}

type stubBackend struct{}

func (stubBackend) ValidateToken(_ context.Context, token string) (models.Author, error) {
	if token != "tok-alice" {
		return models.Author{}, backend.ErrUnauthorized
	}
	return models.Author{ID: 1, FirstName: "Alice"}, nil
}

func (stubBackend) AcceptedJournals(context.Context, string) ([]models.Article, error) {
	return nil, nil
}

func newPortalRouter(t *testing.T) *gin.Engine {
	t.Helper()
	registry := session.NewRegistry(session.Dependencies{
		Backend:     stubBackend{},
		Credentials: session.NewMemoryCredentials(),
		Bus:         session.NewLocalBus(),
		Log:         zerolog.Nop(),
	}, session.Options{LoginURL: testLoginURL, CredentialTTL: time.Hour}, time.Hour)
	t.Cleanup(registry.Close)

	store := NewContextStore(config.SessionConfig{Secret: "test-secret", MaxAge: time.Hour})
	portal := NewPortal(store, "portal_context", registry, testLoginURL, zerolog.Nop())

	r := gin.New()
	r.Use(RequestID(zerolog.Nop()), Recovery(zerolog.Nop()))

	pages := r.Group("/", portal.Pages(func(c *gin.Context) {
		c.String(http.StatusOK, "signed out")
	}))
	pages.GET("/", func(c *gin.Context) {
		author, ok := CurrentSession(c).Author()
		require.True(t, ok)
		c.String(http.StatusOK, "hello %s", author.DisplayName())
	})

	api := r.Group("/api/v1", portal.API())
	api.GET("/session", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"context_id": ContextID(c)})
	})
	return r
}

func serve(r http.Handler, method, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func contextCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "portal_context" {
			return ck
		}
	}
	t.Fatal("context cookie not issued")
	return nil
}

func TestPagesRedirectWithoutToken(t *testing.T) {
	r := newPortalRouter(t)

	w := serve(r, http.MethodGet, "/")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testLoginURL, w.Header().Get("Location"))
	ck := contextCookie(t, w)
	assert.True(t, ck.HttpOnly)
}

func TestPagesTokenFlow(t *testing.T) {
	r := newPortalRouter(t)

	w := serve(r, http.MethodGet, "/?token=tok-alice")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	ck := contextCookie(t, w)

	w = serve(r, http.MethodGet, "/", ck)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello Alice", w.Body.String())
}

func TestPagesLogoutParamClosesContext(t *testing.T) {
	r := newPortalRouter(t)

	w := serve(r, http.MethodGet, "/?token=tok-alice")
	ck := contextCookie(t, w)

	w = serve(r, http.MethodGet, "/?logout=true", ck)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "signed out", w.Body.String())

	w = serve(r, http.MethodGet, "/", ck)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testLoginURL, w.Header().Get("Location"))
}

func TestAPIAnswersUnauthorized(t *testing.T) {
	r := newPortalRouter(t)

	w := serve(r, http.MethodGet, "/api/v1/session")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, testLoginURL, body["login_url"])
}

func TestAPISharesPageContext(t *testing.T) {
	r := newPortalRouter(t)

	ck := contextCookie(t, serve(r, http.MethodGet, "/?token=tok-alice"))
	w := serve(r, http.MethodGet, "/api/v1/session", ck)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["context_id"])
}

func TestRecoveryRendersByCaller(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(zerolog.Nop()), Recovery(zerolog.Nop()))
	r.GET("/boom", func(*gin.Context) { panic("boom") })
	r.GET("/api/v1/boom", func(*gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	w = serve(r, http.MethodGet, "/api/v1/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal_server_error"}`, w.Body.String())
}

func TestRequestIDIsPropagated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(zerolog.Nop()))
	r.GET("/", func(c *gin.Context) {
		assert.NotNil(t, zerolog.Ctx(c.Request.Context()))
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.example.org/"}))
	r.GET("/api/v1/articles", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/articles", nil)
	req.Header.Set("Origin", "https://app.example.org")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.org", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/articles", nil)
	req.Header.Set("Origin", "https://evil.example.org")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
