package session

import (
	"context"
	"sync"
	"time"

	"authorportal/internal/models"
)

// Backend is the part of the journal backend the session lifecycle needs.
type Backend interface {
	ValidateToken(ctx context.Context, token string) (models.Author, error)
	AcceptedJournals(ctx context.Context, token string) ([]models.Article, error)
}

// CredentialStore persists the bearer token of a browsing context. Get
// returns an empty token and no error when nothing is stored.
type CredentialStore interface {
	Get(ctx context.Context, contextID string) (string, error)
	Set(ctx context.Context, contextID string, token string, ttl time.Duration) error
	Delete(ctx context.Context, contextID string) error
}

// LogoutSignal tells other browsing contexts that an author signed out.
type LogoutSignal struct {
	AuthorID int64  `json:"author_id"`
	Origin   string `json:"origin"`
}

// LogoutBus carries logout signals between browsing contexts, possibly
// across portal instances.
type LogoutBus interface {
	Publish(ctx context.Context, signal LogoutSignal) error
	Subscribe(handler func(LogoutSignal)) (unsubscribe func())
}

// MemoryCredentials keeps tokens in process memory.
type MemoryCredentials struct {
	mu     sync.Mutex
	tokens map[string]memoryToken
	now    func() time.Time
}

type memoryToken struct {
	value     string
	expiresAt time.Time
}

func NewMemoryCredentials() *MemoryCredentials {
	return &MemoryCredentials{tokens: make(map[string]memoryToken), now: time.Now}
}

func (m *MemoryCredentials) Get(_ context.Context, contextID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.tokens[contextID]
	if !ok {
		return "", nil
	}
	if !tok.expiresAt.IsZero() && m.now().After(tok.expiresAt) {
		delete(m.tokens, contextID)
		return "", nil
	}
	return tok.value, nil
}

func (m *MemoryCredentials) Set(_ context.Context, contextID string, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok := memoryToken{value: token}
	if ttl > 0 {
		tok.expiresAt = m.now().Add(ttl)
	}
	m.tokens[contextID] = tok
	return nil
}

func (m *MemoryCredentials) Delete(_ context.Context, contextID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, contextID)
	return nil
}

// LocalBus fans signals out to subscribers of this process. It is also the
// dispatch half of the redis bus.
type LocalBus struct {
	mu       sync.RWMutex
	next     uint64
	handlers map[uint64]func(LogoutSignal)
}

func NewLocalBus() *LocalBus {
	return &LocalBus{handlers: make(map[uint64]func(LogoutSignal))}
}

func (b *LocalBus) Publish(_ context.Context, signal LogoutSignal) error {
	b.Dispatch(signal)
	return nil
}

// Dispatch delivers the signal synchronously to every subscriber.
func (b *LocalBus) Dispatch(signal LogoutSignal) {
	b.mu.RLock()
	handlers := make([]func(LogoutSignal), 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(signal)
	}
}

func (b *LocalBus) Subscribe(handler func(LogoutSignal)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = handler
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

func (b *LocalBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
