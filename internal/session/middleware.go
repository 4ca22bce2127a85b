package session

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/hospital-portal/internal/auth"
	"github.com/spec-kit/hospital-portal/internal/config"
)

const scopeKey = "session_scope"

// Middleware resolves the request's scope from the session cookie, issuing a
// new session id when the cookie is missing or malformed. Prefetches and HEAD
// requests get a detached scope and no cookie.
func Middleware(registry *Registry, cfg config.SessionConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !interactive(c) {
			attach(c, registry.Detached())
			return c.Next()
		}

		id := c.Cookies(cfg.CookieName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     cfg.CookieName,
				Value:    id,
				Path:     "/",
				HTTPOnly: true,
				Secure:   cfg.CookieSecure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		scope, release := registry.Acquire(id)
		defer release()
		attach(c, scope)
		return c.Next()
	}
}

func interactive(c *fiber.Ctx) bool {
	if c.Method() == fiber.MethodHead {
		return false
	}
	for _, header := range []string{"Sec-Purpose", "Purpose", "X-Moz"} {
		if strings.HasPrefix(strings.ToLower(c.Get(header)), "prefetch") {
			return false
		}
	}
	return true
}

func attach(c *fiber.Ctx, scope *Scope) {
	c.Locals(scopeKey, scope)
	c.SetUserContext(auth.WithTokenSource(c.UserContext(), scope.Authenticator))
}

// FromContext returns the scope attached by Middleware.
func FromContext(c *fiber.Ctx) (*Scope, bool) {
	scope, ok := c.Locals(scopeKey).(*Scope)
	return scope, ok
}

// State reports the authentication state of the request's session. Requests
// that never went through Middleware are anonymous.
func State(c *fiber.Ctx) auth.Principal {
	scope, ok := FromContext(c)
	if !ok {
		return auth.Anonymous()
	}
	return scope.Broadcaster.QueryState(c.UserContext())
}
