package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "mongo", cfg.Store.Driver)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.Equal(t, "educareHubDB", cfg.Store.MongoDatabase)
	assert.Equal(t, 8, cfg.Courses.PageSize)
	assert.Equal(t, "token", cfg.Session.CookieName)
	assert.Equal(t, 365*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.Origins)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.False(t, cfg.Events.Enabled)
	assert.Empty(t, cfg.Users.AdminEmails)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("COURSE_PAGE_SIZE", "10")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("COOKIE_SAMESITE", "Lax")
	t.Setenv("ADMIN_EMAILS", "root@x.io,ops@x.io")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 10, cfg.Courses.PageSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.Origins)
	assert.Equal(t, http.SameSiteLaxMode, cfg.Session.SameSite())
	assert.Equal(t, []string{"root@x.io", "ops@x.io"}, cfg.Users.AdminEmails)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "postgres")
	_, err := Load()
	assert.Error(t, err)
}

func TestRateLimitNormalize(t *testing.T) {
	r := RateLimitConfig{Capacity: 0, RefillTokens: 0, RefillInterval: 0, TTL: time.Second}
	r.normalize()
	assert.Equal(t, 1, r.Capacity)
	assert.Equal(t, 1, r.RefillTokens)
	assert.Equal(t, time.Second, r.RefillInterval)
	assert.Equal(t, 5*time.Second, r.TTL)
}
