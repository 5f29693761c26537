package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/educare-hub/internal/handler"
	"github.com/iliyamo/educare-hub/internal/middleware"
	"github.com/iliyamo/educare-hub/internal/model"
)

// RegisterEnrollments registers enrollment endpoints.  Every route needs a
// session; students only see their own enrollments.
func RegisterEnrollments(e *echo.Echo, h *handler.EnrollmentHandler, g guards) {
	e.POST("/enrollments", h.Create, g.session)
	e.GET("/my-enrollments/:email", h.ByStudent, g.session, middleware.RequireSelf("email"))
}

// RegisterUsers registers account endpoints.  Sign-up is public so the
// frontend can create the record on first login; listing users and
// changing roles are admin only.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, g guards) {
	e.POST("/users", h.Create)
	e.GET("/users", h.List, g.session, g.role(model.RoleAdmin))
	e.GET("/users/:email", h.Get, g.session, middleware.RequireSelf("email"))
	e.PATCH("/users/role/:id", h.UpdateRole, g.session, g.role(model.RoleAdmin))
}
