package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/educare-hub/internal/config"
	"github.com/iliyamo/educare-hub/internal/utils"
)

// takeToken refills the bucket at KEYS[1] by ARGV[3] tokens for every full
// ARGV[4] ms elapsed, capped at ARGV[2], then takes one token.  It returns
// {tokens left, ms to wait}; a non-zero wait means the request was refused.
var takeToken = redis.NewScript(`
local now, cap = tonumber(ARGV[1]), tonumber(ARGV[2])
local step, every = tonumber(ARGV[3]), tonumber(ARGV[4])
local b = redis.call('HMGET', KEYS[1], 'tokens', 'at')
local tokens, at = tonumber(b[1]) or cap, tonumber(b[2]) or now

local n = 0
if every > 0 then n = math.floor(math.max(0, now - at) / every) end
if n > 0 then
  tokens = math.min(cap, tokens + n * step)
  at = at + n * every
end

local wait = 0
if tokens >= 1 then
  tokens = tokens - 1
else
  wait = math.max(1, every - (now - at))
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'at', at)
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return {tokens, wait}
`)

// Key dimensions a RATE_LIMIT_KEY_STRATEGY is made of, e.g. "ip_route".
const (
	dimIP    = "ip"
	dimUser  = "user"
	dimRoute = "route"
)

// NewTokenBucket returns a rate limiting middleware backed by Redis.  It
// fails open: when disabled, without a client, or on Redis errors the
// request proceeds unlimited.
//
// The limiter is global and runs before SessionAuth, so user keyed buckets
// read the session token themselves.  An absent or invalid token falls in
// the shared "anon" bucket; rejecting it is left to the route's guard.
func NewTokenBucket(cfg config.RateLimitConfig, session config.SessionConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	b := newBucket(cfg, session, rdb, log)
	return b.handle
}

type bucket struct {
	cfg     config.RateLimitConfig
	session config.SessionConfig
	dims    []string
	rdb     *redis.Client
	log     *zap.Logger
}

func newBucket(cfg config.RateLimitConfig, session config.SessionConfig, rdb *redis.Client, log *zap.Logger) *bucket {
	return &bucket{cfg: cfg, session: session, dims: keyDims(cfg.KeyStrategy), rdb: rdb, log: log}
}

// verdict is the outcome of taking one token.
type verdict struct {
	remaining int64
	wait      time.Duration
}

func (b *bucket) handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := b.key(c)
		v, err := b.take(c.Request().Context(), key)
		if err != nil {
			if b.cfg.Debug {
				b.log.Warn("ratelimit: redis error", zap.String("key", key), zap.Error(err))
			}
			return next(c)
		}

		h := c.Response().Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(b.cfg.Capacity))
		h.Set("X-RateLimit-Remaining", strconv.FormatInt(v.remaining, 10))
		if b.cfg.Debug {
			h.Set("X-RateLimit-Key", key)
		}
		if v.wait == 0 {
			return next(c)
		}

		secs := int(math.Ceil(v.wait.Seconds()))
		h.Set("Retry-After", strconv.Itoa(secs))
		if b.cfg.Debug {
			b.log.Info("ratelimit: blocked", zap.String("key", key), zap.Duration("wait", v.wait))
		}
		return c.JSON(http.StatusTooManyRequests, echo.Map{
			"error":       "too_many_requests",
			"message":     "rate limit exceeded",
			"retry_after": secs,
		})
	}
}

func (b *bucket) take(ctx context.Context, key string) (verdict, error) {
	res, err := takeToken.Run(ctx, b.rdb, []string{key},
		time.Now().UnixMilli(),
		b.cfg.Capacity,
		b.cfg.RefillTokens,
		b.cfg.RefillInterval.Milliseconds(),
		b.cfg.TTL.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return verdict{}, err
	}
	if len(res) != 2 {
		return verdict{}, fmt.Errorf("ratelimit: unexpected script result %v", res)
	}
	return verdict{remaining: res[0], wait: time.Duration(res[1]) * time.Millisecond}, nil
}

// keyDims splits a strategy such as "ip_user" into its dimensions.  Anything
// it does not recognise keys on all three.
func keyDims(strategy string) []string {
	dims := strings.Split(strings.ToLower(strings.TrimSpace(strategy)), "_")
	for _, d := range dims {
		if d != dimIP && d != dimUser && d != dimRoute {
			return []string{dimIP, dimUser, dimRoute}
		}
	}
	return dims
}

// key renders the bucket key, e.g. "rl:user:a@x.io:route:GET /courses".
func (b *bucket) key(c echo.Context) string {
	var sb strings.Builder
	sb.WriteString(b.cfg.Prefix)
	for _, d := range b.dims {
		var v string
		switch d {
		case dimIP:
			if v = c.RealIP(); v == "" {
				v = "unknown"
			}
		case dimUser:
			v = b.caller(c)
		case dimRoute:
			v = c.Request().Method + " " + c.Path()
		}
		sb.WriteString(":" + d + ":" + v)
	}
	return sb.String()
}

// caller is the email of a valid session token on the request, or "anon".
func (b *bucket) caller(c echo.Context) string {
	if email := CurrentEmail(c); email != "" {
		return email
	}
	raw := sessionToken(c, b.session.CookieName)
	if raw == "" {
		return "anon"
	}
	claims, err := utils.ParseSessionToken(b.session.Secret, raw)
	if err != nil {
		return "anon"
	}
	if email, _ := claims["email"].(string); email != "" {
		return email
	}
	return "anon"
}
