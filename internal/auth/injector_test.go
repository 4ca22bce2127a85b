package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedToken string

func (f fixedToken) Token(context.Context) (string, bool) { return string(f), f != "" }

type panickingSource struct{}

func (panickingSource) Token(context.Context) (string, bool) { panic("store exploded") }

func TestCredentialInjector(t *testing.T) {
	seen := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Get("Authorization")
	}))
	defer srv.Close()
	client := &http.Client{Transport: NewCredentialInjector(nil)}

	cases := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{"with token", WithTokenSource(context.Background(), fixedToken("abc")), "Bearer abc"},
		{"empty token", WithTokenSource(context.Background(), fixedToken("")), ""},
		{"no source", context.Background(), ""},
		{"failing source", WithTokenSource(context.Background(), panickingSource{}), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequestWithContext(tc.ctx, http.MethodGet, srv.URL, nil)
			require.NoError(t, err)
			resp, err := client.Do(req)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, tc.want, <-seen)
			assert.Empty(t, req.Header.Get("Authorization"), "caller's request must not be mutated")
		})
	}
}

func TestInjectorUsesAuthenticatorToken(t *testing.T) {
	a := staticAuthenticator(t, map[string]any{"entityNumber": "42"})
	ctx := WithTokenSource(context.Background(), a)

	_, ok := currentToken(ctx)
	assert.False(t, ok)

	require.True(t, a.Login(ctx, "ada", "secret"))
	token, _ := a.Token(ctx)
	got, ok := currentToken(ctx)
	assert.True(t, ok)
	assert.Equal(t, token, got)
}
