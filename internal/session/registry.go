package session

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const refreshConcurrency = 8

// Registry owns the sessions of this instance, keyed by browsing-context id.
type Registry struct {
	deps    Dependencies
	opts    Options
	idleTTL time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(deps Dependencies, opts Options, idleTTL time.Duration) *Registry {
	return &Registry{
		deps:     deps,
		opts:     opts,
		idleTTL:  idleTTL,
		sessions: make(map[string]*Session),
	}
}

// Acquire returns the live session of the context, creating a new one when
// there is none or the previous one was terminated.
func (r *Registry) Acquire(contextID string) *Session {
	now := r.opts.now()

	r.mu.Lock()
	s, ok := r.sessions[contextID]
	var stale *Session
	if !ok || s.Terminated() {
		stale = s
		s = New(contextID, r.deps, r.opts)
		r.sessions[contextID] = s
	}
	n := len(r.sessions)
	r.mu.Unlock()

	if stale != nil {
		stale.Dispose()
	}
	r.deps.Metrics.SetSessions(n)
	s.touch(now)
	return s
}

// Reset discards the context's session and starts a fresh one, as a full
// page load does.
func (r *Registry) Reset(contextID string) *Session {
	r.mu.Lock()
	old := r.sessions[contextID]
	s := New(contextID, r.deps, r.opts)
	r.sessions[contextID] = s
	n := len(r.sessions)
	r.mu.Unlock()

	if old != nil {
		old.Dispose()
	}
	r.deps.Metrics.SetSessions(n)
	return s
}

func (r *Registry) Get(contextID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[contextID]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep disposes sessions that are terminated or idle for longer than the
// idle TTL and returns how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	var removed []*Session

	r.mu.Lock()
	for id, s := range r.sessions {
		idle := r.idleTTL > 0 && now.Sub(s.idleSince()) > r.idleTTL
		if idle || s.Terminated() {
			removed = append(removed, s)
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, s := range removed {
		s.Dispose()
	}
	r.deps.Metrics.SetSessions(n)
	if len(removed) > 0 {
		r.deps.Log.Info().Int("removed", len(removed)).Int("live", n).Msg("swept idle sessions")
	}
	return len(removed)
}

// RefreshAll refreshes the journals of every signed-in session. Individual
// failures are logged by the sessions themselves and do not stop the others.
func (r *Registry) RefreshAll(ctx context.Context) int {
	r.mu.Lock()
	targets := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		if _, ok := s.Author(); ok {
			targets = append(targets, s)
		}
	}
	r.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	var (
		mu        sync.Mutex
		refreshed int
	)
	for _, s := range targets {
		s := s
		g.Go(func() error {
			if err := s.Refresh(gctx); err != nil {
				return nil
			}
			mu.Lock()
			refreshed++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return refreshed
}

// Close disposes every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Dispose()
	}
	r.deps.Metrics.SetSessions(0)
}
