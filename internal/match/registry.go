package match

import (
	"sync"

	"go.uber.org/zap"

	"github.com/sense-checkers/server/internal/obslog"
	"github.com/sense-checkers/server/internal/rules"
)

// Registry maps each room key to exactly one shared session. Construct one
// at process start and hand it to the transport layer; Join and Release are
// its only mutation entry points and both are atomic with respect to
// concurrent joins and leaves on the same key.
type Registry struct {
	mu       sync.Mutex
	factory  rules.Factory
	repo     *Repository
	sessions map[string]*Session
}

// NewRegistry builds an empty registry. The factory supplies a fresh rule
// engine for every new session.
func NewRegistry(factory rules.Factory) *Registry {
	return &Registry{factory: factory, sessions: make(map[string]*Session)}
}

// AttachRepository wires an optional database repository for final results.
// Applies to sessions created after the call.
func (r *Registry) AttachRepository(repo *Repository) {
	r.mu.Lock()
	r.repo = repo
	r.mu.Unlock()
}

// Join resolves the session for key, creating it with a fresh game when
// absent, and assigns the caller's player slot by join order.
func (r *Registry) Join(key string) (*Session, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[key]
	if !ok {
		s = newSession(key, r.factory(), r.repo)
		r.sessions[key] = s
		obslog.L().Info("session_create", zap.String("room", key))
	}
	slot := s.join()
	return s, slot
}

// Release records one party leaving the keyed session. When the count drops
// to zero or below the session is removed, so a later join under the same
// key starts a fresh match.
func (r *Registry) Release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[key]
	if !ok {
		return
	}
	if s.leave() <= 0 {
		delete(r.sessions, key)
		obslog.L().Info("session_destroy", zap.String("room", key))
	}
}

// Lookup returns the live session for key, or nil. Read-only consumers only
// (the board image endpoint); it never creates.
func (r *Registry) Lookup(key string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[key]
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
