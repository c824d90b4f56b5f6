package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/shop-api/internal/core/service"
	"github.com/storefront/shop-api/internal/infrastructure/catalog"
	"github.com/storefront/shop-api/internal/infrastructure/db/file"
	"github.com/storefront/shop-api/internal/infrastructure/db/userstore"
	infrahttp "github.com/storefront/shop-api/internal/infrastructure/http"
	"github.com/storefront/shop-api/internal/infrastructure/http/handlers"
	"github.com/storefront/shop-api/internal/infrastructure/security"
)

const testCatalog = `[
  {"id": 1, "title": "Blue Shirt", "price": 20, "description": "cotton tee", "category": "men's clothing"},
  {"id": 2, "title": "Hat", "price": 60, "description": "wool", "category": "accessories"},
  {"id": 3, "title": "Silk Shirt", "price": 75, "description": "evening wear", "category": "women's clothing"}
]`

type testServer struct {
	e         *echo.Echo
	usersFile string
}

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string) (bool, error) { return false, nil }

type serverOption func(*Deps)

func newTestServer(t *testing.T, usersFile string, opts ...serverOption) *testServer {
	t.Helper()
	dir := t.TempDir()
	if usersFile == "" {
		usersFile = filepath.Join(dir, "data", "users.json")
	}
	catalogFile := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(catalogFile, []byte(testCatalog), 0o644))

	log := zerolog.Nop()
	store := userstore.New(nil, file.NewUserRepository(usersFile, log), log)
	products := catalog.New([]string{catalogFile}, log)

	deps := Deps{
		Log:      log,
		Prefix:   "/api",
		Auth:     service.NewAuthService(store, security.NewBcryptHasher(bcrypt.MinCost), log),
		Products: service.NewProductService(products),
		Ops: infrahttp.Ops{
			Service:       "storefront-api",
			Dependencies:  []handlers.Dependency{{Name: "mongodb"}, {Name: "redis"}},
			UserStoreMode: store.Mode(),
			CatalogSource: products.Source,
		},
	}
	for _, opt := range opts {
		opt(&deps)
	}

	e, err := NewRouter(deps)
	require.NoError(t, err)
	return &testServer{e: e, usersFile: usersFile}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var resp map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec, resp
}

const adaJSON = `{"name":"Ada","email":"ada@example.com","password":"s3cret"}`

func TestRouter_RegisterTwice(t *testing.T) {
	s := newTestServer(t, "")

	rec, resp := s.do(t, http.MethodPost, "/api/auth/register", adaJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "User registered successfully", resp["message"])

	rec, resp = s.do(t, http.MethodPost, "/api/auth/register", adaJSON)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "User already exists", resp["message"])
}

func TestRouter_RegisterMissingFields(t *testing.T) {
	s := newTestServer(t, "")

	rec, resp := s.do(t, http.MethodPost, "/api/auth/register", `{"email":"ada@example.com"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", resp["message"])
}

func TestRouter_LongPasswordIsValidationError(t *testing.T) {
	s := newTestServer(t, "", func(d *Deps) { d.ExposeErrors = true })

	ascii := strings.Repeat("p", 80)
	multiByte := strings.Repeat("é", 40) // 40 runes, 80 bytes

	for _, pw := range []string{ascii, multiByte} {
		rec, resp := s.do(t, http.MethodPost, "/api/auth/register",
			`{"name":"Ada","email":"ada@example.com","password":"`+pw+`"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		assert.Equal(t, false, resp["success"])
		assert.NotContains(t, resp, "error")
	}

	rec, _ := s.do(t, http.MethodPost, "/api/auth/register", adaJSON)
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, pw := range []string{ascii, multiByte} {
		rec, resp := s.do(t, http.MethodPut, "/api/auth/user/ada%40example.com", `{"password":"`+pw+`"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		assert.NotContains(t, resp, "error")
	}

	// The stored password is unchanged.
	rec, _ = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"s3cret"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_PasswordIsHashedOnDisk(t *testing.T) {
	s := newTestServer(t, "")

	rec, resp := s.do(t, http.MethodPost, "/api/auth/register", adaJSON)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, resp["user"], "password")

	raw, err := os.ReadFile(s.usersFile)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "s3cret")
	assert.Contains(t, string(raw), "$2a$")
}

func TestRouter_Login(t *testing.T) {
	s := newTestServer(t, "")
	rec, _ := s.do(t, http.MethodPost, "/api/auth/register", adaJSON)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, resp := s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login successful", resp["message"])

	for _, body := range []string{
		`{"email":"ada@example.com","password":"wrong"}`,
		`{"email":"nobody@example.com","password":"s3cret"}`,
	} {
		rec, resp = s.do(t, http.MethodPost, "/api/auth/login", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, body)
		assert.Equal(t, "Invalid credentials", resp["message"])
	}

	rec, _ = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_LoginRateLimited(t *testing.T) {
	s := newTestServer(t, "", func(d *Deps) { d.LoginLimiter = denyLimiter{} })

	rec, resp := s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"s3cret"}`)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests", resp["message"])

	// Only login is limited.
	rec, _ = s.do(t, http.MethodPost, "/api/auth/register", adaJSON)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_GetAndUpdateUser(t *testing.T) {
	s := newTestServer(t, "")
	rec, _ := s.do(t, http.MethodPost, "/api/auth/register", adaJSON)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, resp := s.do(t, http.MethodGet, "/api/auth/user/ada%40example.com", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada@example.com", resp["email"])
	assert.Equal(t, "Ada", resp["name"])

	before, err := os.ReadFile(s.usersFile)
	require.NoError(t, err)

	rec, resp = s.do(t, http.MethodPut, "/api/auth/user/ada%40example.com", `{"name":"Ada Lovelace"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	user := resp["user"].(map[string]any)
	assert.Equal(t, "Ada Lovelace", user["name"])

	// The hash is untouched, so the old password still works.
	rec, _ = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"s3cret"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	after, err := os.ReadFile(s.usersFile)
	require.NoError(t, err)
	assert.Equal(t, passwordOf(t, before), passwordOf(t, after))

	rec, _ = s.do(t, http.MethodPatch, "/api/auth/user/ada%40example.com", `{"password":"n3w"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"n3w"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp = s.do(t, http.MethodPut, "/api/auth/user/ada%40example.com", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Nothing to update", resp["message"])

	rec, resp = s.do(t, http.MethodGet, "/api/auth/user/nobody%40example.com", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", resp["message"])
}

func passwordOf(t *testing.T, raw []byte) string {
	t.Helper()
	var users []struct {
		Password string `json:"password"`
	}
	require.NoError(t, json.Unmarshal(raw, &users))
	require.Len(t, users, 1)
	return users[0].Password
}

func TestRouter_UsersFileDeleted(t *testing.T) {
	s := newTestServer(t, "")
	rec, _ := s.do(t, http.MethodPost, "/api/auth/register", adaJSON)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NoError(t, os.Remove(s.usersFile))

	rec, _ = s.do(t, http.MethodGet, "/api/auth/user/ada%40example.com", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/auth/register", adaJSON)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.FileExists(t, s.usersFile)
}

func TestRouter_PersistenceUnavailable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	usersFile := filepath.Join(blocker, "users.json")

	s := newTestServer(t, usersFile)
	rec, resp := s.do(t, http.MethodPost, "/api/auth/register", adaJSON)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, resp["message"], "MONGODB_URI")
	assert.NotContains(t, resp, "error")

	s = newTestServer(t, usersFile, func(d *Deps) { d.ExposeErrors = true })
	_, resp = s.do(t, http.MethodPost, "/api/auth/register", adaJSON)
	assert.Contains(t, resp, "error")
}

func TestRouter_Products(t *testing.T) {
	s := newTestServer(t, "")

	rec, resp := s.do(t, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), resp["count"])

	rec, resp = s.do(t, http.MethodGet, "/api/products?q=shirt&minPrice=10&maxPrice=50", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, float64(1), data[0].(map[string]any)["id"])

	rec, resp = s.do(t, http.MethodGet, "/api/products/search?search=SHIRT", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), resp["count"])

	rec, resp = s.do(t, http.MethodGet, "/api/products/category/Men's%20Clothing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), resp["count"])

	rec, resp = s.do(t, http.MethodGet, "/api/products/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hat", resp["data"].(map[string]any)["title"])

	for _, path := range []string{"/api/products/99", "/api/products/abc"} {
		rec, resp = s.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "Product not found", resp["message"])
	}

	rec, _ = s.do(t, http.MethodGet, "/api/products?minPrice=cheap", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/api/products", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET", rec.Header().Get(echo.HeaderAllow))
}

func TestRouter_Orders(t *testing.T) {
	s := newTestServer(t, "")

	for _, path := range []string{"/api/orders", "/api/orders/123"} {
		rec, resp := s.do(t, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "Orders endpoint - coming soon", resp["message"])
	}
}

func TestRouter_UnknownEndpoint(t *testing.T) {
	s := newTestServer(t, "")

	rec, resp := s.do(t, http.MethodGet, "/api/carts/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Endpoint not found", resp["message"])
	assert.ElementsMatch(t, []any{"auth", "orders", "products"}, resp["resources"])
}

func TestRouter_CORS(t *testing.T) {
	s := newTestServer(t, "")

	rec, _ := s.do(t, http.MethodOptions, "/api/auth/login", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, rec.Body.Len())
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	for _, path := range []string{"/api/products", "/api/carts", "/nowhere"} {
		rec, _ = s.do(t, http.MethodGet, path, "")
		assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin), path)
	}
}

func TestRouter_OpsEndpoints(t *testing.T) {
	s := newTestServer(t, "")

	rec, resp := s.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/api", resp["api"])

	rec, _ = s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp = s.do(t, http.MethodGet, "/health/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, userstore.ModeFile, resp["userStore"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrec := httptest.NewRecorder()
	s.e.ServeHTTP(mrec, req)
	assert.Equal(t, http.StatusOK, mrec.Code)
	assert.Contains(t, mrec.Body.String(), "storefront_http_requests_total")
}
