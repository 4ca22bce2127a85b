package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/auth"
	"github.com/spec-kit/hospital-portal/internal/session"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util"
)

const loginFailedMessage = "Invalid username or password"

// AuthHandler serves the sign-in pages and the authentication state endpoints.
type AuthHandler struct {
	appName   string
	offline   bool
	registry  *session.Registry
	keepAlive time.Duration
	logger    *zap.Logger
}

// AuthHandlerConfig configures AuthHandler.
type AuthHandlerConfig struct {
	AppName string
	// Offline shows the offline operator hint on the login page.
	Offline   bool
	Registry  *session.Registry
	KeepAlive time.Duration
	Logger    *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = 25 * time.Second
	}
	return &AuthHandler{
		appName:   cfg.AppName,
		offline:   cfg.Offline,
		registry:  cfg.Registry,
		keepAlive: cfg.KeepAlive,
		logger:    cfg.Logger.Named("auth_handler"),
	}
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	if session.State(c).Authenticated {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return h.renderLogin(c, fiber.StatusOK, "", "")
}

// Login handles POST /login with a form or JSON body.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	form.Username = strings.TrimSpace(form.Username)
	if form.Username == "" || form.Password == "" {
		if wantsJSON(c) {
			return apperrors.NewValidationError("username and password required", nil)
		}
		return h.renderLogin(c, fiber.StatusBadRequest, form.Username, "Username and password are required")
	}

	scope, ok := session.FromContext(c)
	if !ok || !scope.Login(c.UserContext(), form.Username, form.Password) {
		if wantsJSON(c) {
			return apperrors.NewUnauthorized(loginFailedMessage)
		}
		return h.renderLogin(c, fiber.StatusUnauthorized, form.Username, loginFailedMessage)
	}

	if wantsJSON(c) {
		return c.JSON(scope.Broadcaster.QueryState(c.UserContext()))
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if scope, ok := session.FromContext(c); ok {
		scope.Authenticator.Logout(c.UserContext())
	}
	if wantsJSON(c) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// Home handles GET /.
func (h *AuthHandler) Home(c *fiber.Ctx) error {
	scope, ok := session.FromContext(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	user, signedIn := scope.Authenticator.CurrentUser(c.UserContext())
	if !signedIn {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.Render("home", fiber.Map{
		"app_name":  h.appName,
		"user":      user,
		"principal": auth.PrincipalFor(user),
	})
}

// State handles GET /auth/state.
func (h *AuthHandler) State(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(session.State(c))
}

// Events handles GET /auth/events, streaming the session's principal on every
// login and logout as server-sent events.
func (h *AuthHandler) Events(c *fiber.Ctx) error {
	scope, ok := session.FromContext(c)
	if !ok || scope.Detached() {
		return fiber.NewError(fiber.StatusBadRequest, "no browser session")
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	// held until the stream writer returns, after the request has finished
	scope, release := h.registry.Acquire(scope.ID)
	initial := scope.Broadcaster.QueryState(c.UserContext())
	updates, cancel := scope.Broadcaster.Watch()
	touch := func() { h.registry.Touch(scope.ID) }
	keepAlive := h.keepAlive
	logger := h.logger

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer release()
		defer cancel()
		if err := streamPrincipals(w, initial, updates, keepAlive, touch); err != nil {
			logger.Debug("auth event stream closed", zap.Error(err))
		}
	})
	return nil
}

// streamPrincipals writes initial, then every update, until updates closes or
// the client goes away.
func streamPrincipals(w *bufio.Writer, initial auth.Principal, updates <-chan auth.Principal, keepAlive time.Duration, touch func()) error {
	if err := writeEvent(w, initial); err != nil {
		return err
	}
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()
	for {
		select {
		case p, ok := <-updates:
			if !ok {
				return nil
			}
			if err := writeEvent(w, p); err != nil {
				return err
			}
		case <-ticker.C:
			if _, err := w.WriteString(": keepalive\n\n"); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}
			touch()
		}
	}
}

func writeEvent(w *bufio.Writer, p auth.Principal) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

func (h *AuthHandler) renderLogin(c *fiber.Ctx, status int, username, message string) error {
	return c.Status(status).Render("login", fiber.Map{
		"app_name": h.appName,
		"username": username,
		"error":    message,
		"offline":  h.offline,
	})
}

func wantsJSON(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return true
	}
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}
