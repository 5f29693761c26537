package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Pinger is implemented by stores that can report their reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers liveness and readiness checks.
type HealthHandler struct {
	Store   Pinger
	Timeout time.Duration
	Log     *zap.Logger
}

func NewHealthHandler(store Pinger, timeout time.Duration, log *zap.Logger) *HealthHandler {
	return &HealthHandler{Store: store, Timeout: timeout, Log: log}
}

// Root returns the service banner.
func (h *HealthHandler) Root(c echo.Context) error {
	return c.String(http.StatusOK, "EducareHub Server is running")
}

// Health returns "ok" while the store answers a ping and 503 otherwise.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		h.Log.Warn("health check: store ping failed", zap.Error(err))
		return fail(c, http.StatusServiceUnavailable, "store_unavailable", "service unavailable")
	}
	return c.String(http.StatusOK, "ok")
}
