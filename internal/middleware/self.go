package middleware

import (
	"net/url"

	"github.com/labstack/echo/v4"
)

// RequireSelf rejects the request with 403 unless the path parameter named
// param equals the authenticated caller's email.  It must run after
// SessionAuth.
func RequireSelf(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email := CurrentEmail(c)
			if email == "" {
				return unauthorized(c)
			}
			if PathParam(c, param) != email {
				return forbidden(c)
			}
			return next(c)
		}
	}
}

// PathParam returns the named path parameter with percent-encoding
// removed.  Echo matches routes on the raw path, so "/users/a%40x.io"
// yields "a%40x.io" from c.Param.  A segment that is not valid escaping is
// returned as is.
func PathParam(c echo.Context, name string) string {
	raw := c.Param(name)
	v, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return v
}
