package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/educare-hub/internal/repository"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func fail(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, errorBody{Error: code, Message: msg})
}

func badRequest(c echo.Context, msg string) error {
	return fail(c, http.StatusBadRequest, "invalid_argument", msg)
}

func forbidden(c echo.Context) error {
	return fail(c, http.StatusForbidden, "forbidden", "forbidden access")
}

// storeError translates an error returned by a store into a response.
// Sentinel errors map to client errors; anything else is logged and
// reported as 503 without exposing the driver message.
func storeError(c echo.Context, log *zap.Logger, err error, notFound string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, "not_found", notFound)
	case errors.Is(err, repository.ErrInvalidArgument):
		return badRequest(c, err.Error())
	case errors.Is(err, repository.ErrEmailExists):
		return fail(c, http.StatusConflict, "conflict", "User already exists")
	case errors.Is(err, repository.ErrAlreadyEnrolled):
		return fail(c, http.StatusConflict, "conflict", "already enrolled in this course")
	}
	log.Error("store call failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err))
	return fail(c, http.StatusServiceUnavailable, "store_unavailable", "service unavailable")
}

// storeCtx bounds a store round-trip by the request context and timeout.
func storeCtx(c echo.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), timeout)
}
