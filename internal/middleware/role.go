package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/educare-hub/internal/model"
	"github.com/iliyamo/educare-hub/internal/repository"
)

// UserLookup is the part of the user store RequireRole needs.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
}

// RequireRole returns a middleware that enforces that the authenticated
// user has one of the specified roles.  Roles are not part of the session
// token, so the user record is read on every request; callers without a
// user record are treated as RoleDefault.  The role is stored in the
// context under ContextRole for handlers.  It must run after SessionAuth.
func RequireRole(users UserLookup, timeout time.Duration, log *zap.Logger, roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email := CurrentEmail(c)
			if email == "" {
				return unauthorized(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()

			role := model.RoleDefault
			u, err := users.GetUserByEmail(ctx, email)
			switch {
			case err == nil:
				role = u.Role
			case errors.Is(err, repository.ErrNotFound):
			default:
				log.Error("role lookup failed", zap.String("email", email), zap.Error(err))
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store_unavailable", "message": "service unavailable"})
			}

			if !allowed[role] {
				return forbidden(c)
			}
			c.Set(ContextRole, role)
			return next(c)
		}
	}
}
