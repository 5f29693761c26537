package middleware

// identity.go defines helpers that read the identity stored in the Echo
// context by SessionAuth and RequireRole.

import "github.com/labstack/echo/v4"

// CurrentEmail returns the authenticated caller's email, or "" for
// anonymous requests.
func CurrentEmail(c echo.Context) string {
	if s, ok := c.Get(ContextEmail).(string); ok {
		return s
	}
	return ""
}

// CurrentRole returns the role loaded by RequireRole, or "" when the route
// is not role protected.
func CurrentRole(c echo.Context) string {
	if s, ok := c.Get(ContextRole).(string); ok {
		return s
	}
	return ""
}
