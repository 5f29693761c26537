package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/educare-hub/internal/config"
	"github.com/iliyamo/educare-hub/internal/handler"
	"github.com/iliyamo/educare-hub/internal/middleware"
	"github.com/iliyamo/educare-hub/internal/queue"
	"github.com/iliyamo/educare-hub/internal/repository"
)

// Deps carries everything the routes need.  Redis and Events are optional:
// without Redis the rate limiter passes every request, without Events
// nothing is published.
type Deps struct {
	Store  repository.Store
	Redis  *redis.Client
	Events queue.Publisher
	Log    *zap.Logger
}

// New builds the Echo instance with global middleware and every route.
func New(cfg config.Config, d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORS.Origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(middleware.NewTokenBucket(cfg.RateLimit, cfg.Session, d.Redis, d.Log))

	timeout := cfg.Store.Timeout
	RegisterRoutes(e, handler.NewHealthHandler(d.Store, timeout, d.Log))
	RegisterAuth(e, handler.NewAuthHandler(cfg.Session, d.Log))

	g := guards{
		session: middleware.SessionAuth(cfg.Session.Secret, cfg.Session.CookieName),
		users:   d.Store,
		timeout: timeout,
		log:     d.Log,
	}
	paging := repository.PageDefaults{Size: cfg.Courses.PageSize, MaxSize: cfg.Courses.MaxPageSize}
	RegisterCourses(e, handler.NewCourseHandler(d.Store, paging, timeout, d.Events, d.Log), g)
	RegisterEnrollments(e, handler.NewEnrollmentHandler(d.Store, d.Store, timeout, d.Events, d.Log), g)
	RegisterUsers(e, handler.NewUserHandler(d.Store, cfg.Users.AdminEmails, timeout, d.Log), g)
	return e
}

// guards builds the authorization middleware shared by route groups.
type guards struct {
	session echo.MiddlewareFunc
	users   middleware.UserLookup
	timeout time.Duration
	log     *zap.Logger
}

func (g guards) role(roles ...string) echo.MiddlewareFunc {
	return middleware.RequireRole(g.users, g.timeout, g.log, roles...)
}

// RegisterRoutes registers the banner and health check.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/", h.Root)
	e.GET("/healthz", h.Health)
}

// RegisterAuth registers the session cookie endpoints.  Neither requires
// an existing session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/jwt", a.IssueToken)
	e.POST("/logout", a.Logout)
}
