package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/educare-hub/internal/config"
	"github.com/iliyamo/educare-hub/internal/utils"
)

// AuthHandler issues and clears the session cookie.  Identity itself is
// established by the frontend's identity provider; the server only signs
// the claims it is handed.
type AuthHandler struct {
	Session config.SessionConfig
	Log     *zap.Logger
}

func NewAuthHandler(session config.SessionConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Session: session, Log: log}
}

type successResp struct {
	Success bool `json:"success"`
}

// IssueToken signs the JSON body as token claims and stores the token in an
// HTTP-only cookie.  The body must carry an email claim.
func (h *AuthHandler) IssueToken(c echo.Context) error {
	claims := map[string]any{}
	if err := c.Bind(&claims); err != nil {
		return badRequest(c, "invalid body")
	}

	tok, err := utils.NewSessionToken(h.Session.Secret, claims, h.Session.TTL)
	if err != nil {
		if errors.Is(err, utils.ErrMissingEmail) {
			return badRequest(c, "email is required")
		}
		h.Log.Error("sign session token", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "internal", "could not issue token")
	}

	c.SetCookie(h.cookie(tok.Token, tok.Exp, 0))
	return c.JSON(http.StatusOK, successResp{Success: true})
}

// Logout expires the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.cookie("", time.Unix(0, 0), -1))
	return c.JSON(http.StatusOK, successResp{Success: true})
}

func (h *AuthHandler) cookie(value string, exp time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.Session.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.Session.CookieSecure,
		SameSite: h.Session.SameSite(),
	}
}
