package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicrm/minicrm/internal/shared"
)

func testAuthRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, _, _ := newTestService(t)
	h := NewHandler(nil, svc)

	r := chi.NewRouter()
	h.MountRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Get("/me", func(w http.ResponseWriter, req *http.Request) {
			p, _ := shared.PrincipalFromContext(req.Context())
			_ = json.NewEncoder(w).Encode(p)
		})
	})
	return r
}

func post(t *testing.T, router http.Handler, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginFlow(t *testing.T) {
	router := testAuthRouter(t)

	rec := post(t, router, "/auth/register", `{"name":"Alice","email":"alice@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var issued Token
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issued))
	assert.NotEmpty(t, issued.AccessToken)
	// The hash never serializes.
	assert.NotContains(t, rec.Body.String(), "password")

	rec = post(t, router, "/auth/login", `{"email":"alice@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = post(t, router, "/auth/login", `{"email":"alice@example.com","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	router := testAuthRouter(t)

	rec := post(t, router, "/auth/register", `{"name":"Alice","email":"bad","password":"secret1"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, router, "/auth/register", `{"name":"Alice","email":"a@example.com","password":"short"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	router := testAuthRouter(t)

	rec := post(t, router, "/auth/register", `{"name":"Alice","email":"alice@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var issued Token
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issued))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+issued.AccessToken)
	out := httptest.NewRecorder()
	router.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code)
	assert.Contains(t, out.Body.String(), "alice@example.com")

	// No token.
	out = httptest.NewRecorder()
	router.ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, out.Code)

	// Revoked token.
	rec = post(t, router, "/auth/logout", "", issued.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+issued.AccessToken)
	out = httptest.NewRecorder()
	router.ServeHTTP(out, req)
	assert.Equal(t, http.StatusUnauthorized, out.Code)
}
