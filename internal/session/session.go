package session

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"authorportal/internal/metrics"
	"authorportal/internal/models"
	"authorportal/internal/security"
)

var (
	ErrTerminated   = errors.New("session terminated")
	ErrNoCredential = errors.New("no persisted credential")
)

type Action int

const (
	// ActionProceed lets the request through.
	ActionProceed Action = iota
	// ActionRedirect sends the browser to Outcome.Location.
	ActionRedirect
	// ActionClose ends the browsing context after a logout request.
	ActionClose
)

type Outcome struct {
	Action   Action
	Location string
}

type Dependencies struct {
	Backend     Backend
	Credentials CredentialStore
	Bus         LogoutBus
	Metrics     *metrics.Metrics
	Log         zerolog.Logger
}

type Options struct {
	LoginURL      string
	CredentialTTL time.Duration
	Now           func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// State is a copy of the session's observable fields.
type State struct {
	LoggedIn bool             `json:"isLoggedIn"`
	Author   *models.Author   `json:"author"`
	Journals []models.Article `json:"journals"`
	Loading  bool             `json:"loading"`
}

// Session is the per-browsing-context view of who is signed in and which
// accepted journals they see. Init runs the startup protocol once; Refresh,
// Logout and Dispose may be called at any time afterwards.
type Session struct {
	id   string
	deps Dependencies
	opts Options
	log  zerolog.Logger

	mu          sync.Mutex
	started     bool
	initDone    chan struct{}
	state       State
	token       string
	terminated  bool
	disposed    bool
	unsubscribe func()
	refreshSeq  uint64
	lastSeen    time.Time
}

func New(id string, deps Dependencies, opts Options) *Session {
	return &Session{
		id:       id,
		deps:     deps,
		opts:     opts,
		log:      deps.Log.With().Str("context_id", id).Logger(),
		initDone: make(chan struct{}),
		state:    State{Loading: true, Journals: []models.Article{}},
		lastSeen: opts.now(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Init runs the startup protocol for the request URL that opened the
// browsing context. Only the first call does any work; concurrent callers
// wait for it. Later calls proceed while the session is live and redirect to
// the login surface once it has been terminated.
func (s *Session) Init(ctx context.Context, u *url.URL) Outcome {
	s.mu.Lock()
	if s.started {
		done := s.initDone
		s.mu.Unlock()
		<-done
		return s.current()
	}
	s.started = true
	s.mu.Unlock()

	outcome := s.startup(ctx, u)
	close(s.initDone)
	return outcome
}

func (s *Session) current() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminated {
		return s.loginRedirect()
	}
	return Outcome{Action: ActionProceed}
}

func (s *Session) loginRedirect() Outcome {
	return Outcome{Action: ActionRedirect, Location: s.opts.LoginURL}
}

func (s *Session) startup(ctx context.Context, u *url.URL) Outcome {
	query := u.Query()

	if query.Get("logout") == "true" {
		s.clearCredential(ctx)
		s.terminate()
		s.log.Info().Msg("token cleared on logout request")
		return Outcome{Action: ActionClose}
	}

	urlToken := query.Get("token")
	stored, err := s.deps.Credentials.Get(ctx, s.id)
	if err != nil {
		s.log.Warn().Err(err).Msg("read persisted credential failed")
	}
	if urlToken != "" && stored == "" {
		s.persist(ctx, urlToken)
	}

	token := urlToken
	if token == "" {
		token = stored
	}
	if token == "" {
		s.log.Info().Msg("no token found, redirecting to login")
		s.terminate()
		return s.loginRedirect()
	}

	s.subscribe()

	if !s.validate(ctx, token) {
		return s.loginRedirect()
	}

	journals, err := s.deps.Backend.AcceptedJournals(ctx, token)
	if err != nil {
		s.log.Error().Err(err).Msg("fetch accepted journals failed")
	} else {
		s.mu.Lock()
		s.state.Journals = journals
		s.mu.Unlock()
	}

	if urlToken != "" {
		return Outcome{Action: ActionRedirect, Location: withoutToken(u)}
	}
	return Outcome{Action: ActionProceed}
}

// validate checks the token with the backend and records the identity. The
// loading flag is cleared whatever the result.
func (s *Session) validate(ctx context.Context, token string) (ok bool) {
	defer func() {
		s.mu.Lock()
		s.state.Loading = false
		s.mu.Unlock()
	}()

	author, err := s.deps.Backend.ValidateToken(ctx, token)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("token", security.Fingerprint(token)).
			Msg("token validation failed")
		s.clearCredential(ctx)
		s.terminate()
		return false
	}

	s.mu.Lock()
	s.state.LoggedIn = true
	s.state.Author = &author
	s.token = token
	s.mu.Unlock()

	s.log.Info().Int64("author_id", author.ID).Msg("author signed in")
	return true
}

func (s *Session) persist(ctx context.Context, token string) {
	ttl := security.CredentialTTL(token, s.opts.CredentialTTL, s.opts.now())
	if ttl <= 0 {
		s.log.Warn().Str("token", security.Fingerprint(token)).Msg("token already expired, not persisted")
		return
	}
	if err := s.deps.Credentials.Set(ctx, s.id, token, ttl); err != nil {
		s.log.Warn().Err(err).Msg("persist credential failed")
		return
	}
	s.log.Debug().Dur("ttl", ttl).Msg("token stored from url")
}

func (s *Session) clearCredential(ctx context.Context) {
	if err := s.deps.Credentials.Delete(ctx, s.id); err != nil {
		s.log.Warn().Err(err).Msg("clear credential failed")
	}
}

func (s *Session) subscribe() {
	if s.deps.Bus == nil {
		return
	}
	unsubscribe := s.deps.Bus.Subscribe(s.onLogoutSignal)

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		unsubscribe()
		return
	}
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
}

func (s *Session) onLogoutSignal(signal LogoutSignal) {
	if signal.Origin == s.id {
		return
	}

	s.mu.Lock()
	matches := s.state.Author != nil && s.state.Author.ID == signal.AuthorID && !s.terminated
	s.mu.Unlock()
	if !matches {
		return
	}

	s.deps.Metrics.LogoutSignal()
	s.log.Info().
		Int64("author_id", signal.AuthorID).
		Str("origin", signal.Origin).
		Msg("logout signalled by another context")

	s.clearCredential(context.Background())
	s.terminate()
}

func (s *Session) terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terminated = true
	s.state.LoggedIn = false
	s.token = ""
}

// Refresh re-fetches the accepted journals with the persisted token. When
// refreshes overlap only the most recently started one may apply its result.
// A failed refresh keeps the previous list.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.terminated {
		s.mu.Unlock()
		return ErrTerminated
	}
	s.refreshSeq++
	seq := s.refreshSeq
	s.state.Loading = true
	s.mu.Unlock()

	token, err := s.deps.Credentials.Get(ctx, s.id)
	if err == nil && token == "" {
		err = ErrNoCredential
	}
	var journals []models.Article
	if err == nil {
		journals, err = s.deps.Backend.AcceptedJournals(ctx, token)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.refreshSeq {
		s.deps.Metrics.Refresh("stale")
		s.log.Debug().Uint64("seq", seq).Msg("discarding stale refresh")
		return nil
	}
	s.state.Loading = false

	if err != nil {
		s.deps.Metrics.Refresh("error")
		s.log.Error().Err(err).Msg("refresh accepted journals failed")
		return err
	}
	s.state.Journals = journals
	s.deps.Metrics.Refresh("ok")
	return nil
}

// Logout clears the credential, ends the session and tells the author's
// other browsing contexts to do the same.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	author := s.state.Author
	s.mu.Unlock()

	s.clearCredential(ctx)
	s.terminate()

	if author == nil || s.deps.Bus == nil {
		return nil
	}
	return s.deps.Bus.Publish(ctx, LogoutSignal{AuthorID: author.ID, Origin: s.id})
}

// Dispose releases the bus subscription. It is safe to call more than once.
func (s *Session) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	s.terminated = true
	s.state.LoggedIn = false
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state
	state.Journals = append([]models.Article(nil), s.state.Journals...)
	if s.state.Author != nil {
		author := *s.state.Author
		state.Author = &author
	}
	return state
}

// Token is the token the session was validated with.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Author() (models.Author, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Author == nil || !s.state.LoggedIn {
		return models.Author{}, false
	}
	return *s.state.Author, true
}

func (s *Session) Terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminated
}

func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func withoutToken(u *url.URL) string {
	clean := *u
	query := clean.Query()
	query.Del("token")
	clean.RawQuery = query.Encode()
	clean.Scheme = ""
	clean.Host = ""
	clean.User = nil
	return clean.RequestURI()
}
