package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/iliyamo/educare-hub/internal/config"
)

func TestTokenBucketBlocksWhenEmpty(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            5 * time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
	mw := NewTokenBucket(cfg, config.SessionConfig{}, rdb, zap.NewNop())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := serve(httptest.NewRequest(http.MethodGet, "/courses", nil), "/courses", mw)
		codes = append(codes, rec.Code)
		if i == 2 {
			assert.NotEmpty(t, rec.Header().Get("Retry-After"))
			assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, config.SessionConfig{}, nil, zap.NewNop())
	for i := 0; i < 5; i++ {
		rec := serve(httptest.NewRequest(http.MethodGet, "/courses", nil), "/courses", mw)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestBucketKeyStrategies(t *testing.T) {
	session := config.SessionConfig{Secret: testSecret, CookieName: "token"}
	keyFor := func(strategy string, req *http.Request) string {
		b := newBucket(config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}, session, nil, zap.NewNop())
		c := echo.New().NewContext(req, httptest.NewRecorder())
		c.SetPath("/courses")
		return b.key(c)
	}
	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/courses", nil)
		req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
		return req
	}

	anon := newReq()
	assert.Equal(t, "rl:ip:10.0.0.1", keyFor("ip", anon))
	assert.Equal(t, "rl:ip:10.0.0.1:route:GET /courses", keyFor("ip_route", anon))
	assert.Equal(t, "rl:user:anon", keyFor("user", anon))
	assert.Equal(t, "rl:ip:10.0.0.1:user:anon:route:GET /courses", keyFor("bogus", anon))

	withCookie := newReq()
	withCookie.AddCookie(&http.Cookie{Name: "token", Value: signed(t, "a@x.io")})
	assert.Equal(t, "rl:user:a@x.io", keyFor("user", withCookie))
	assert.Equal(t, "rl:user:a@x.io:route:GET /courses", keyFor("USER_ROUTE", withCookie))

	bearer := newReq()
	bearer.Header.Set(echo.HeaderAuthorization, "Bearer "+signed(t, "b@x.io"))
	assert.Equal(t, "rl:ip:10.0.0.1:user:b@x.io", keyFor("ip_user", bearer))

	forged := newReq()
	forged.AddCookie(&http.Cookie{Name: "token", Value: "not-a-jwt"})
	assert.Equal(t, "rl:user:anon", keyFor("user", forged))
}

func TestTokenBucketSeparatesUsers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       1,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            5 * time.Hour,
		KeyStrategy:    "user",
		Prefix:         "rl",
	}
	mw := NewTokenBucket(cfg, config.SessionConfig{Secret: testSecret, CookieName: "token"}, rdb, zap.NewNop())

	as := func(email string) int {
		req := httptest.NewRequest(http.MethodGet, "/courses", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: signed(t, email)})
		return serve(req, "/courses", mw).Code
	}
	assert.Equal(t, http.StatusOK, as("a@x.io"))
	assert.Equal(t, http.StatusTooManyRequests, as("a@x.io"))
	assert.Equal(t, http.StatusOK, as("b@x.io"))
	assert.True(t, mr.Exists("rl:user:a@x.io"))
	assert.True(t, mr.Exists("rl:user:b@x.io"))
	assert.False(t, mr.Exists("rl:user:anon"))
}
