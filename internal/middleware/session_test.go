package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/educare-hub/internal/model"
	"github.com/iliyamo/educare-hub/internal/repository/memrepo"
	"github.com/iliyamo/educare-hub/internal/utils"
)

const testSecret = "test-secret"

func signed(t *testing.T, email string) string {
	t.Helper()
	tok, err := utils.NewSessionToken(testSecret, map[string]any{"email": email}, time.Hour)
	require.NoError(t, err)
	return tok.Token
}

// serve registers a single GET route guarded by mws and performs req.
func serve(req *http.Request, path string, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET(path, func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"email": CurrentEmail(c), "role": CurrentRole(c)})
	}, mws...)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSessionAuth(t *testing.T) {
	mw := SessionAuth(testSecret, "token")

	t.Run("missing token", func(t *testing.T) {
		rec := serve(httptest.NewRequest(http.MethodGet, "/p", nil), "/p", mw)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad signature", func(t *testing.T) {
		tok, err := utils.NewSessionToken("other", map[string]any{"email": "a@x.io"}, time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: tok.Token})
		rec := serve(req, "/p", mw)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: signed(t, "a@x.io")})
		rec := serve(req, "/p", mw)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"email":"a@x.io"`)
	})

	t.Run("bearer fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed(t, "b@x.io"))
		rec := serve(req, "/p", mw)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"email":"b@x.io"`)
	})
}

func TestRequireSelf(t *testing.T) {
	mws := []echo.MiddlewareFunc{SessionAuth(testSecret, "token"), RequireSelf("email")}

	req := httptest.NewRequest(http.MethodGet, "/u/a@x.io", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: signed(t, "a@x.io")})
	assert.Equal(t, http.StatusOK, serve(req, "/u/:email", mws...).Code)

	req = httptest.NewRequest(http.MethodGet, "/u/a%40x.io", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: signed(t, "a@x.io")})
	assert.Equal(t, http.StatusOK, serve(req, "/u/:email", mws...).Code)

	req = httptest.NewRequest(http.MethodGet, "/u/someone@x.io", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: signed(t, "a@x.io")})
	assert.Equal(t, http.StatusForbidden, serve(req, "/u/:email", mws...).Code)
}

func TestRequireRole(t *testing.T) {
	store := memrepo.New()
	require.NoError(t, store.CreateUser(context.Background(), &model.User{Email: "boss@x.io", Role: model.RoleAdmin}))
	require.NoError(t, store.CreateUser(context.Background(), &model.User{Email: "joe@x.io", Role: model.RoleDefault}))

	mws := []echo.MiddlewareFunc{
		SessionAuth(testSecret, "token"),
		RequireRole(store, time.Second, zap.NewNop(), model.RoleAdmin),
	}

	for email, want := range map[string]int{
		"boss@x.io":   http.StatusOK,
		"joe@x.io":    http.StatusForbidden,
		"nobody@x.io": http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: signed(t, email)})
		rec := serve(req, "/admin", mws...)
		assert.Equal(t, want, rec.Code, email)
		if want == http.StatusOK {
			assert.Contains(t, rec.Body.String(), `"role":"admin"`)
		}
	}
}
