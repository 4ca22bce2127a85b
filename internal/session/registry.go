// Package session maps browser sessions onto their authenticators.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/auth"
	"github.com/spec-kit/hospital-portal/internal/credstore"
)

// Scope is everything owned by one browser session.
type Scope struct {
	ID            string
	Authenticator *auth.Authenticator
	Broadcaster   *auth.Broadcaster

	loginMu sync.Mutex
	// refs counts open holders; guarded by Registry.mu.
	refs int
}

// Login signs in through the scope's authenticator. Attempts from the same
// browser session run one at a time.
func (s *Scope) Login(ctx context.Context, username, password string) bool {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()
	return s.Authenticator.Login(ctx, username, password)
}

// Detached reports whether the scope is bound to no browser session.
func (s *Scope) Detached() bool {
	return s.ID == ""
}

// Registry keeps the live scopes. Idle scopes expire after ttl; their
// credentials survive in the backend and are reloaded by the next scope
// created for the same session id. A scope that is still held by a request or
// an event stream stays the only scope of its session even after it leaves
// the idle cache.
type Registry struct {
	backend credstore.Backend
	deps    auth.Dependencies
	logger  *zap.Logger

	mu     sync.Mutex
	scopes *expirable.LRU[string, *Scope]
	held   map[string]*Scope
}

// NewRegistry builds a registry holding at most maxScopes live scopes.
func NewRegistry(backend credstore.Backend, deps auth.Dependencies, maxScopes int, ttl time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("session")
	if deps.Logger == nil {
		deps.Logger = logger
	}
	r := &Registry{backend: backend, deps: deps, logger: logger, held: make(map[string]*Scope)}
	r.scopes = expirable.NewLRU[string, *Scope](maxScopes, r.evicted, ttl)
	return r
}

// Scope returns the scope of session id, creating it on first use. Every call
// restarts the scope's idle timer.
func (r *Registry) Scope(id string) *Scope {
	if id == "" {
		return r.Detached()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookup(id)
}

// Acquire returns the scope of session id and holds it until release is
// called. Release is safe to call more than once.
func (r *Registry) Acquire(id string) (*Scope, func()) {
	if id == "" {
		return r.Detached(), func() {}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	scope := r.lookup(id)
	scope.refs++
	r.held[id] = scope

	var once sync.Once
	return scope, func() {
		once.Do(func() { r.release(scope) })
	}
}

func (r *Registry) release(scope *Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	scope.refs--
	if scope.refs == 0 && r.held[scope.ID] == scope {
		delete(r.held, scope.ID)
	}
}

func (r *Registry) lookup(id string) *Scope {
	scope, ok := r.scopes.Get(id)
	if !ok {
		scope, ok = r.held[id]
	}
	if !ok {
		scope = r.newScope(id, r.backend.Session(id))
		r.logger.Debug("session scope created", zap.String("session_id", id))
	}
	r.scopes.Add(id, scope)
	return scope
}

// Touch restarts the idle timer of a live or held scope.
func (r *Registry) Touch(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	scope, ok := r.scopes.Get(id)
	if !ok {
		scope, ok = r.held[id]
	}
	if ok {
		r.scopes.Add(id, scope)
	}
}

// Detached returns a fresh scope for a request with no interactive session.
// Its store is unavailable: it always reads as signed out and cannot sign in.
func (r *Registry) Detached() *Scope {
	return r.newScope("", credstore.NoSession())
}

// Len reports the number of live scopes.
func (r *Registry) Len() int {
	return r.scopes.Len()
}

func (r *Registry) newScope(id string, store credstore.Store) *Scope {
	authenticator := auth.NewAuthenticator(store, r.deps)
	return &Scope{
		ID:            id,
		Authenticator: authenticator,
		Broadcaster:   auth.NewBroadcaster(authenticator, r.deps.Logger),
	}
}

func (r *Registry) evicted(id string, _ *Scope) {
	r.logger.Debug("session scope released", zap.String("session_id", id))
}
