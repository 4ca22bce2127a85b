package auth

import (
	"context"
	"net/http"
)

// TokenSource yields the bearer token of the current session.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

type tokenSourceKey struct{}

// WithTokenSource attaches the session's token source to ctx.
func WithTokenSource(ctx context.Context, src TokenSource) context.Context {
	return context.WithValue(ctx, tokenSourceKey{}, src)
}

// TokenSourceFromContext returns the token source attached to ctx.
func TokenSourceFromContext(ctx context.Context) (TokenSource, bool) {
	src, ok := ctx.Value(tokenSourceKey{}).(TokenSource)
	return src, ok && src != nil
}

// CredentialInjector is an outbound stage that sets the session's bearer token
// on every API request. Requests without a token go out unauthenticated.
type CredentialInjector struct {
	next http.RoundTripper
}

// NewCredentialInjector wraps next.
func NewCredentialInjector(next http.RoundTripper) *CredentialInjector {
	if next == nil {
		next = http.DefaultTransport
	}
	return &CredentialInjector{next: next}
}

// RoundTrip implements http.RoundTripper.
func (ci *CredentialInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if token, ok := currentToken(req.Context()); ok {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ci.next.RoundTrip(req)
}

func currentToken(ctx context.Context) (token string, ok bool) {
	defer func() {
		if recover() != nil {
			token, ok = "", false
		}
	}()
	src, found := TokenSourceFromContext(ctx)
	if !found {
		return "", false
	}
	token, ok = src.Token(ctx)
	return token, ok && token != ""
}
