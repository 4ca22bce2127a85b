package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/hospital-portal/pkg/util"
)

const principalKey = "auth_principal"

// StateFunc resolves the authentication state of the request's session.
type StateFunc func(c *fiber.Ctx) Principal

// RequireAuthenticated rejects requests whose session is anonymous and stores the
// principal for handlers.
func RequireAuthenticated(state StateFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := state(c)
		if !principal.Authenticated {
			return apperrors.NewUnauthorized("login required")
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// PrincipalFromContext retrieves the principal stored by RequireAuthenticated.
func PrincipalFromContext(c *fiber.Ctx) (Principal, bool) {
	principal, ok := c.Locals(principalKey).(Principal)
	return principal, ok
}
