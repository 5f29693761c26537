package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/educare-hub/internal/middleware"
	"github.com/iliyamo/educare-hub/internal/model"
	"github.com/iliyamo/educare-hub/internal/repository"
)

// UserHandler manages user accounts and roles.
type UserHandler struct {
	Users   repository.UserStore
	Admins  map[string]bool // emails that sign up as admin
	Timeout time.Duration
	Log     *zap.Logger
}

func NewUserHandler(users repository.UserStore, adminEmails []string, timeout time.Duration, log *zap.Logger) *UserHandler {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.TrimSpace(e); e != "" {
			admins[e] = true
		}
	}
	return &UserHandler{Users: users, Admins: admins, Timeout: timeout, Log: log}
}

const userNotFound = "user not found"

type createUserReq struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

type roleReq struct {
	Role string `json:"role"`
}

// Create registers a user on first sign-in.  New accounts start with the
// default role whatever the body says, except configured admin emails.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return badRequest(c, "a valid email is required")
	}

	u := &model.User{
		Email:    req.Email,
		Name:     strings.TrimSpace(req.Name),
		PhotoURL: strings.TrimSpace(req.PhotoURL),
		Role:     model.RoleDefault,
	}
	if h.Admins[u.Email] {
		u.Role = model.RoleAdmin
	}

	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	if err := h.Users.CreateUser(ctx, u); err != nil {
		return storeError(c, h.Log, err, userNotFound)
	}
	return c.JSON(http.StatusCreated, model.InsertResult{Acknowledged: true, InsertedID: u.ID})
}

// List returns every user.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	users, err := h.Users.ListUsers(ctx)
	if err != nil {
		return storeError(c, h.Log, err, userNotFound)
	}
	if users == nil {
		users = []model.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns the user in :email or 404.
func (h *UserHandler) Get(c echo.Context) error {
	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	u, err := h.Users.GetUserByEmail(ctx, middleware.PathParam(c, "email"))
	if err != nil {
		return storeError(c, h.Log, err, userNotFound)
	}
	return c.JSON(http.StatusOK, u)
}

// UpdateRole sets the role of the user in :id.
func (h *UserHandler) UpdateRole(c echo.Context) error {
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if !model.ValidRole(role) {
		return badRequest(c, "role must be one of default, instructor, admin")
	}

	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	res, err := h.Users.UpdateUserRole(ctx, c.Param("id"), role)
	if err != nil {
		return storeError(c, h.Log, err, userNotFound)
	}
	return c.JSON(http.StatusOK, res)
}
