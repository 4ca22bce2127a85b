package auth

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/domain"
)

// State is the authentication state seen by the UI.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticated
)

func (s State) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Identity is what the broadcaster needs from an authenticator.
type Identity interface {
	CurrentUser(ctx context.Context) (domain.UserRecord, bool)
	Subscribe(callback func())
}

// republishTimeout bounds the store read made while republishing.
const republishTimeout = 5 * time.Second

// Broadcaster turns authenticator notifications into authentication state
// updates for UI observers.
type Broadcaster struct {
	identity Identity
	logger   *zap.Logger

	mu          sync.Mutex
	state       State
	transitions uint64
	watchers    map[uint64]chan Principal
	nextWatcher uint64
}

// NewBroadcaster subscribes to identity; every login or logout republishes the
// state to all watchers.
func NewBroadcaster(identity Identity, logger *zap.Logger) *Broadcaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Broadcaster{
		identity: identity,
		logger:   logger.Named("auth_state"),
		watchers: make(map[uint64]chan Principal),
	}
	identity.Subscribe(b.republish)
	return b
}

// QueryState returns the current principal. It never fails: an unreadable
// session is anonymous.
func (b *Broadcaster) QueryState(ctx context.Context) Principal {
	user, ok := b.identity.CurrentUser(ctx)
	if !ok {
		return Anonymous()
	}
	return PrincipalFor(user)
}

// State returns the last published state and how many transitions led to it.
func (b *Broadcaster) State() (State, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state, b.transitions
}

// Watch streams every republished principal. Slow readers only see the latest
// one. cancel closes the channel.
func (b *Broadcaster) Watch() (<-chan Principal, func()) {
	ch := make(chan Principal, 1)

	b.mu.Lock()
	id := b.nextWatcher
	b.nextWatcher++
	b.watchers[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.watchers, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// republish runs after every login and logout. A login while authenticated is
// still a transition: the claims are rebuilt from the new user record.
func (b *Broadcaster) republish() {
	ctx, cancel := context.WithTimeout(context.Background(), republishTimeout)
	defer cancel()

	principal := b.QueryState(ctx)
	next := StateAnonymous
	if principal.Authenticated {
		next = StateAuthenticated
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = next
	b.transitions++
	for _, ch := range b.watchers {
		publishLatest(ch, principal)
	}
	b.logger.Debug("authentication state published",
		zap.Stringer("state", next),
		zap.String("name", principal.Name()),
		zap.Int("watchers", len(b.watchers)),
	)
}

// publishLatest replaces any unread principal in ch with p.
func publishLatest(ch chan Principal, p Principal) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- p:
	default:
	}
}
