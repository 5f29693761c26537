package middleware // middleware holds request processing shared by route groups

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/educare-hub/internal/utils"
)

// Context keys written by the middleware in this package.
const (
	ContextEmail  = "email"  // string, the authenticated caller
	ContextClaims = "claims" // jwt.MapClaims of the session token
	ContextRole   = "role"   // string, set by RequireRole
)

// SessionAuth returns an Echo middleware that validates the session token
// and injects its email and claims into the request context.  The token is
// read from the named cookie and, failing that, from a Bearer
// Authorization header.  A missing or invalid token yields 401.
func SessionAuth(secret, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := sessionToken(c, cookieName)
			if raw == "" {
				return unauthorized(c)
			}
			claims, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return unauthorized(c)
			}
			email, _ := claims["email"].(string)
			if email == "" {
				return unauthorized(c)
			}
			c.Set(ContextEmail, email)
			c.Set(ContextClaims, claims)
			return next(c)
		}
	}
}

func sessionToken(c echo.Context, cookieName string) string {
	if ck, err := c.Cookie(cookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	if auth := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "unauthorized access"})
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "message": "forbidden access"})
}
