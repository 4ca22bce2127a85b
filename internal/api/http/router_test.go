package http

import (
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/api/http/handlers"
	"github.com/spec-kit/hospital-portal/internal/apiclient"
	"github.com/spec-kit/hospital-portal/internal/auth"
	"github.com/spec-kit/hospital-portal/internal/config"
	"github.com/spec-kit/hospital-portal/internal/credstore"
	"github.com/spec-kit/hospital-portal/internal/observability"
	"github.com/spec-kit/hospital-portal/internal/service"
	"github.com/spec-kit/hospital-portal/internal/session"
	"github.com/spec-kit/hospital-portal/internal/views"
)

const cookieName = "hp_session"

// upstream fakes the hospital API: login for admin/secret, a bank list that
// requires the bearer token handed out at login, and order creation.
type upstream struct {
	token string

	mu         sync.Mutex
	bankAuths  []string
	lpoHeaders []dto.SaveLpoDTO
}

func (u *upstream) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	switch r.URL.Path {
	case "/api/Login/Authentication":
		var req dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "admin" || req.Password != "secret" {
			w.WriteHeader(nethttp.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(dto.LoginResponse{Token: u.token, Message: "success"})
	case "/api/Hospital/bankInfo":
		u.mu.Lock()
		u.bankAuths = append(u.bankAuths, r.Header.Get("Authorization"))
		u.mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer "+u.token {
			w.WriteHeader(nethttp.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]dto.BankDTO{{BankNo: 1, BankName: "Commercial", BankCode: "CB"}})
	case "/api/DrugDetails/SaveLPO":
		var header dto.SaveLpoDTO
		_ = json.NewDecoder(r.Body).Decode(&header)
		u.mu.Lock()
		u.lpoHeaders = append(u.lpoHeaders, header)
		u.mu.Unlock()
		header.LpoNo = "LPO-0001"
		_ = json.NewEncoder(w).Encode(header)
	case "/api/DrugDetails/SaveLPODetails":
		_, _ = io.Copy(w, r.Body)
	default:
		nethttp.NotFound(w, r)
	}
}

func (u *upstream) lastBankAuth() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.bankAuths) == 0 {
		return ""
	}
	return u.bankAuths[len(u.bankAuths)-1]
}

func newTestApp(t *testing.T) (*fiber.App, *upstream) {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"entityNumber": "42", "name": "Dr. Ada"}).SignedString([]byte("k"))
	require.NoError(t, err)
	api := &upstream{token: token}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	client, err := apiclient.New(config.APIConfig{BaseURL: srv.URL, TimeoutSeconds: 5},
		apiclient.NewLoggingTransport(auth.NewCredentialInjector(nil), logger, metrics), logger)
	require.NoError(t, err)

	backend := credstore.NewMemoryBackend(time.Hour)
	registry := session.NewRegistry(backend, auth.Dependencies{
		Endpoint: auth.NewAPIEndpoint(client),
		Logger:   logger,
		Metrics:  metrics,
	}, 100, time.Hour, logger)
	sessionCfg := config.SessionConfig{CookieName: cookieName, CookieKey: encryptcookie.GenerateKey()}

	app := fiber.New(fiber.Config{Views: views.Engine()})
	RegisterMiddlewares(app, MiddlewareConfig{
		Logger:   logger,
		Metrics:  metrics,
		Timeout:  10 * time.Second,
		Session:  sessionCfg,
		Registry: registry,
	})
	RegisterRoutes(app, RouteConfig{
		Health:      handlers.NewHealthHandler("hospital-portal", "test", config.StoreMemory, backend, metrics),
		Auth:        handlers.NewAuthHandler(handlers.AuthHandlerConfig{AppName: "Hospital Portal", Registry: registry, Logger: logger}),
		Banks:       handlers.NewBanksHandler(service.NewBankService(client, logger)),
		Departments: handlers.NewDepartmentsHandler(service.NewDepartmentService(client, logger)),
		Drugs:       handlers.NewDrugsHandler(service.NewDrugService(client, config.CacheConfig{}, logger)),
		Hospitals:   handlers.NewHospitalsHandler(service.NewHospitalService(client, logger)),
		Lpos:        handlers.NewLposHandler(service.NewLpoService(client, config.LpoConfig{CompanyNo: 1, DepartmentNo: 4}, logger)),
		Reagents:    handlers.NewReagentsHandler(service.NewReagentService(logger)),
	})
	return app, api
}

func do(t *testing.T, app *fiber.App, req *nethttp.Request, cookie *nethttp.Cookie) *nethttp.Response {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *nethttp.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func findCookie(resp *nethttp.Response) *nethttp.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	return nil
}

func formLogin(username, password string) *nethttp.Request {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(fiber.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return req
}

func TestLoginPageRenders(t *testing.T) {
	app, _ := newTestApp(t)

	resp := do(t, app, httptest.NewRequest(fiber.MethodGet, "/login", nil), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, findCookie(resp))
	body := readBody(t, resp)
	assert.Contains(t, body, `action="/login"`)
	assert.Contains(t, body, "Hospital Portal")
}

func TestFormLoginFlow(t *testing.T) {
	app, api := newTestApp(t)

	resp := do(t, app, formLogin("admin", "secret"), nil)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))
	cookie := findCookie(resp)
	require.NotNil(t, cookie)

	resp = do(t, app, httptest.NewRequest(fiber.MethodGet, "/", nil), cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "admin@hospital.com")

	resp = do(t, app, httptest.NewRequest(fiber.MethodGet, "/api/banks", nil), cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"bank_name":"Commercial"`)
	assert.Equal(t, "Bearer "+api.token, api.lastBankAuth())

	resp = do(t, app, httptest.NewRequest(fiber.MethodPost, "/logout", nil), cookie)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))

	resp = do(t, app, httptest.NewRequest(fiber.MethodGet, "/api/banks", nil), cookie)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = do(t, app, httptest.NewRequest(fiber.MethodGet, "/", nil), cookie)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
}

func TestFormLoginFailureRerendersForm(t *testing.T) {
	app, _ := newTestApp(t)

	resp := do(t, app, formLogin("admin", "wrong"), nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Invalid username or password")
	assert.Contains(t, body, `value="admin"`)

	resp = do(t, app, formLogin("", ""), nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestJSONLoginAndState(t *testing.T) {
	app, _ := newTestApp(t)

	bad := httptest.NewRequest(fiber.MethodPost, "/login", strings.NewReader(`{"username":"admin","password":"nope"}`))
	bad.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp := do(t, app, bad, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "UNAUTHORIZED")

	good := httptest.NewRequest(fiber.MethodPost, "/login", strings.NewReader(`{"username":"admin","password":"secret"}`))
	good.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp = do(t, app, good, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	cookie := findCookie(resp)
	require.NotNil(t, cookie)

	var principal auth.Principal
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &principal))
	assert.True(t, principal.Authenticated)
	assert.Equal(t, "ServerAuth", principal.AuthenticationType)

	resp = do(t, app, httptest.NewRequest(fiber.MethodGet, "/auth/state", nil), cookie)
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &principal))
	assert.True(t, principal.Authenticated)
	id, _ := principal.Find(auth.ClaimNameIdentifier)
	assert.Equal(t, "42", id)

	// a different browser is anonymous
	resp = do(t, app, httptest.NewRequest(fiber.MethodGet, "/auth/state", nil), nil)
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &principal))
	assert.False(t, principal.Authenticated)

	logout := httptest.NewRequest(fiber.MethodPost, "/logout", nil)
	logout.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	resp = do(t, app, logout, cookie)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestTamperedCookieStartsNewSession(t *testing.T) {
	app, _ := newTestApp(t)

	resp := do(t, app, formLogin("admin", "secret"), nil)
	cookie := findCookie(resp)
	require.NotNil(t, cookie)

	forged := &nethttp.Cookie{Name: cookieName, Value: "00000000-0000-0000-0000-000000000000"}
	resp = do(t, app, httptest.NewRequest(fiber.MethodGet, "/api/banks", nil), forged)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestPrefetchCannotSignIn(t *testing.T) {
	app, _ := newTestApp(t)

	req := formLogin("admin", "secret")
	req.Header.Set("Sec-Purpose", "prefetch")
	resp := do(t, app, req, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Nil(t, findCookie(resp))
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	resp := do(t, app, httptest.NewRequest(fiber.MethodGet, "/health/ready", nil), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = do(t, app, httptest.NewRequest(fiber.MethodGet, "/nope", nil), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "NOT_FOUND")
}

func TestOrderRecordsSignedInAuthor(t *testing.T) {
	app, api := newTestApp(t)

	resp := do(t, app, formLogin("admin", "secret"), nil)
	cookie := findCookie(resp)
	require.NotNil(t, cookie)

	body := `{"supplier_id":"5","lpo_date":"2024-03-09","items":[{"drug_no":"1","unit_price":2,"quantity":3}]}`
	req := httptest.NewRequest(fiber.MethodPost, "/api/lpos", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp = do(t, app, req, cookie)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"lpo_no":"LPO-0001"`)

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.lpoHeaders, 1)
	assert.Equal(t, 42, api.lpoHeaders[0].PreparedBy)
}

func TestReagentRoutesRequireLogin(t *testing.T) {
	app, _ := newTestApp(t)

	resp := do(t, app, httptest.NewRequest(fiber.MethodGet, "/api/reagents", nil), nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = do(t, app, formLogin("admin", "secret"), nil)
	cookie := findCookie(resp)
	require.NotNil(t, cookie)

	resp = do(t, app, httptest.NewRequest(fiber.MethodGet, "/api/reagents/2", nil), cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "COVID-19 Test Kit")
}
