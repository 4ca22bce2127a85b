package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/apiclient"
	"github.com/spec-kit/hospital-portal/internal/credstore"
	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/observability"
)

const (
	// successMessage is the sentinel the endpoint returns with a usable token.
	successMessage = "success"
	defaultRoleNo  = "1"
	emailDomain    = "@hospital.com"
)

// Session is the authentication contract of one browser session.
type Session interface {
	Login(ctx context.Context, username, password string) bool
	Logout(ctx context.Context)
	CurrentUser(ctx context.Context) (domain.UserRecord, bool)
	Token(ctx context.Context) (string, bool)
	Subscribe(callback func())
}

var _ Session = (*Authenticator)(nil)

// Dependencies bundles the collaborators shared by every session.
type Dependencies struct {
	Endpoint Endpoint
	// Offline is nil unless the offline fallback is enabled.
	Offline *OfflineOperator
	Logger  *zap.Logger
	Metrics *observability.Metrics
}

// Authenticator owns the login/logout protocol of one browser session, its
// in-memory credential cache and its subscribers.
type Authenticator struct {
	store       credstore.Store
	endpoint    Endpoint
	offline     *OfflineOperator
	logger      *zap.Logger
	metrics     *observability.Metrics
	subscribers *observers

	mu     sync.Mutex
	cached *identity
	// revoked blocks reloading from the store after a logout whose delete failed.
	revoked bool
	// generation changes on every login and logout.
	generation uint64
}

type identity struct {
	credential domain.Credential
	user       domain.UserRecord
}

// NewAuthenticator builds the authenticator of the session backed by store.
func NewAuthenticator(store credstore.Store, deps Dependencies) *Authenticator {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("auth")
	return &Authenticator{
		store:       store,
		endpoint:    deps.Endpoint,
		offline:     deps.Offline,
		logger:      logger,
		metrics:     deps.Metrics,
		subscribers: &observers{logger: logger},
	}
}

// Subscribe registers callback to run after every login success and logout.
func (a *Authenticator) Subscribe(callback func()) {
	a.subscribers.register(callback)
}

// Login authenticates against the API, falling back to the offline operator
// when the API is unreachable and the fallback is enabled. Nothing is stored
// and nobody is notified unless authentication observably succeeded.
func (a *Authenticator) Login(ctx context.Context, username, password string) bool {
	a.logger.Debug("login attempt", zap.String("username", username))

	credential, user, via, ok := a.authenticate(ctx, username, password)
	if !ok {
		a.metrics.RecordAuth("login_rejected")
		a.logger.Warn("login failed", zap.String("username", username))
		return false
	}

	if err := a.persist(ctx, credential, user); err != nil {
		a.metrics.RecordAuth("login_store_failed")
		a.logger.Error("login failed: credential not stored", zap.String("username", username), zap.Error(err))
		return false
	}

	a.metrics.RecordAuth("login_" + via)
	a.logger.Info("user logged in", zap.String("username", username), zap.String("via", via))
	a.subscribers.notify()
	return true
}

func (a *Authenticator) authenticate(ctx context.Context, username, password string) (domain.Credential, domain.UserRecord, string, bool) {
	resp, err := a.endpoint.Authenticate(ctx, dto.LoginRequest{
		Username: username,
		Password: password,
		RoleNo:   defaultRoleNo,
	})
	if err == nil {
		credential, user, ok := a.fromResponse(username, resp)
		return credential, user, "api", ok
	}

	if errors.Is(err, apiclient.ErrUnreachable) && a.offline != nil {
		a.logger.Warn("authentication endpoint unreachable, trying offline operator", zap.Error(err))
		credential, user, ok := a.offline.Authenticate(username, password)
		return credential, user, "offline", ok
	}

	a.logger.Debug("authentication call failed", zap.Error(err))
	return domain.Credential{}, domain.UserRecord{}, "", false
}

func (a *Authenticator) fromResponse(username string, resp dto.LoginResponse) (domain.Credential, domain.UserRecord, bool) {
	if resp.Token == "" || resp.Message != successMessage {
		return domain.Credential{}, domain.UserRecord{}, false
	}
	claims, err := ParseClaims(resp.Token)
	if err != nil {
		a.logger.Warn("authentication endpoint returned an unreadable token", zap.Error(err))
		return domain.Credential{}, domain.UserRecord{}, false
	}
	user := domain.UserRecord{
		UserID:   claims.EntityNumber,
		Username: username,
		Email:    emailFor(username),
		Role:     claims.Name,
		RoleNo:   defaultRoleNo,
		IsActive: true,
	}
	return domain.Credential{Token: resp.Token, IssuedFor: user.UserID}, user, true
}

// persist writes token and user in one store write, then replaces the cache.
func (a *Authenticator) persist(ctx context.Context, credential domain.Credential, user domain.UserRecord) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	err = a.store.Set(ctx,
		credstore.Entry{Key: credstore.TokenKey, Value: []byte(credential.Token)},
		credstore.Entry{Key: credstore.UserKey, Value: payload},
	)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.cached = &identity{credential: credential, user: user}
	a.revoked = false
	a.generation++
	a.mu.Unlock()
	return nil
}

// Logout forgets the credential and notifies subscribers, even when nobody was
// signed in.
func (a *Authenticator) Logout(ctx context.Context) {
	err := a.store.Delete(ctx, credstore.TokenKey, credstore.UserKey)

	a.mu.Lock()
	a.cached = nil
	a.revoked = err != nil
	a.generation++
	a.mu.Unlock()

	switch {
	case errors.Is(err, credstore.ErrUnavailable):
		a.logger.Debug("credential store unavailable during logout")
	case err != nil:
		a.logger.Error("clear stored credential", zap.Error(err))
	}

	a.metrics.RecordAuth("logout")
	a.logger.Info("user logged out")
	a.subscribers.notify()
}

// CurrentUser returns the signed-in user, reading the store when the cache is empty.
func (a *Authenticator) CurrentUser(ctx context.Context) (domain.UserRecord, bool) {
	id, ok := a.load(ctx)
	return id.user, ok
}

// Token returns the bearer token of the signed-in user.
func (a *Authenticator) Token(ctx context.Context) (string, bool) {
	id, ok := a.load(ctx)
	return id.credential.Token, ok
}

func (a *Authenticator) load(ctx context.Context) (identity, bool) {
	a.mu.Lock()
	if a.cached != nil {
		id := *a.cached
		a.mu.Unlock()
		return id, true
	}
	if a.revoked {
		a.mu.Unlock()
		return identity{}, false
	}
	gen := a.generation
	a.mu.Unlock()

	id, ok := a.readStore(ctx)
	if !ok {
		return identity{}, false
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.generation != gen {
		// a login or logout finished while the store was read; its state wins
		if a.cached != nil {
			return *a.cached, true
		}
		return identity{}, false
	}
	a.cached = &id
	return id, true
}

func (a *Authenticator) readStore(ctx context.Context) (identity, bool) {
	token := a.store.Get(ctx, credstore.TokenKey)
	if !a.usable(token, credstore.TokenKey) {
		return identity{}, false
	}
	userLookup := a.store.Get(ctx, credstore.UserKey)
	if !a.usable(userLookup, credstore.UserKey) {
		return identity{}, false
	}

	var user domain.UserRecord
	if err := json.Unmarshal(userLookup.Value, &user); err != nil {
		a.logger.Error("stored user record unreadable", zap.Error(err))
		return identity{}, false
	}
	return identity{
		credential: domain.Credential{Token: string(token.Value), IssuedFor: user.UserID},
		user:       user,
	}, true
}

func (a *Authenticator) usable(l credstore.Lookup, key credstore.Key) bool {
	switch l.State {
	case credstore.Present:
		return true
	case credstore.Unavailable:
		a.logger.Debug("credential store unavailable", zap.String("key", string(key)), zap.Error(l.Err))
	}
	return false
}

func emailFor(username string) string {
	return username + emailDomain
}
