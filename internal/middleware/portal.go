package middleware

import (
	"crypto/sha256"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"authorportal/internal/config"
	"authorportal/internal/session"
)

const (
	contextIDKey  = "portal.context_id"
	sessionKey    = "portal.session"
	contextIDSlot = "context_id"
)

// NewContextStore builds the signed and encrypted cookie store that carries
// the browsing-context id.
func NewContextStore(cfg config.SessionConfig) *sessions.CookieStore {
	hashKey := sha256.Sum256([]byte("auth:" + cfg.Secret))
	blockKey := sha256.Sum256([]byte("enc:" + cfg.Secret))

	store := sessions.NewCookieStore(hashKey[:], blockKey[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.Secure,
	}
	return store
}

// Portal binds each request to the session of its browsing context.
type Portal struct {
	store      sessions.Store
	cookieName string
	registry   *session.Registry
	loginURL   string
	log        zerolog.Logger
}

func NewPortal(store sessions.Store, cookieName string, registry *session.Registry, loginURL string, log zerolog.Logger) *Portal {
	return &Portal{
		store:      store,
		cookieName: cookieName,
		registry:   registry,
		loginURL:   loginURL,
		log:        log,
	}
}

// Pages runs session start-up for browser routes. Redirect outcomes become
// 302s; a logout request is answered by closed.
func (p *Portal) Pages(closed gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := p.bind(c)
		if !ok {
			return
		}

		out := s.Init(c.Request.Context(), c.Request.URL)
		switch out.Action {
		case session.ActionRedirect:
			c.Redirect(http.StatusFound, out.Location)
			c.Abort()
		case session.ActionClose:
			closed(c)
			c.Abort()
		default:
			c.Next()
		}
	}
}

// API is the JSON counterpart of Pages: it never redirects and answers 401
// with the login location instead.
func (p *Portal) API() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := p.bind(c)
		if !ok {
			return
		}

		out := s.Init(c.Request.Context(), c.Request.URL)
		if out.Action == session.ActionProceed || (out.Action == session.ActionRedirect && out.Location != p.loginURL) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "unauthorized",
			"login_url": p.loginURL,
		})
	}
}

func (p *Portal) bind(c *gin.Context) (*session.Session, bool) {
	contextID, err := p.contextID(c)
	if err != nil {
		p.log.Error().Err(err).Msg("browsing context cookie failed")
		if WantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		} else {
			c.AbortWithStatus(http.StatusInternalServerError)
		}
		return nil, false
	}
	c.Set(contextIDKey, contextID)

	s := p.registry.Acquire(contextID)
	if s.Started() && startsOver(c.Request) {
		s = p.registry.Reset(contextID)
	}
	c.Set(sessionKey, s)
	return s, true
}

// contextID reads the id from the cookie, issuing a new one when the cookie
// is missing or cannot be decoded.
func (p *Portal) contextID(c *gin.Context) (string, error) {
	sess, err := p.store.Get(c.Request, p.cookieName)
	if err != nil {
		p.log.Debug().Err(err).Msg("discarding unreadable context cookie")
	}
	if sess == nil {
		sess = sessions.NewSession(p.store, p.cookieName)
	}

	if id, ok := sess.Values[contextIDSlot].(string); ok && id != "" {
		return id, nil
	}

	id := ksuid.New().String()
	sess.Values[contextIDSlot] = id
	if err := sess.Save(c.Request, c.Writer); err != nil {
		return "", err
	}
	return id, nil
}

// startsOver reports whether the request opens the portal afresh, as a link
// from the login surface or a logout link does.
func startsOver(r *http.Request) bool {
	q := r.URL.Query()
	return q.Get("token") != "" || q.Get("logout") == "true"
}

func ContextID(c *gin.Context) string {
	return c.GetString(contextIDKey)
}

func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}
