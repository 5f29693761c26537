package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/educare-hub/internal/handler"
	"github.com/iliyamo/educare-hub/internal/middleware"
	"github.com/iliyamo/educare-hub/internal/model"
)

// RegisterCourses registers the catalogue.  Browsing is public; writes
// require an instructor or admin, and ownership is checked in the handler.
func RegisterCourses(e *echo.Echo, h *handler.CourseHandler, g guards) {
	e.GET("/courses", h.List)
	e.GET("/courses-count", h.Count)
	e.GET("/courses/:id", h.Get)

	e.GET("/my-courses/:email", h.ByInstructor, g.session, middleware.RequireSelf("email"))

	write := []echo.MiddlewareFunc{g.session, g.role(model.RoleInstructor, model.RoleAdmin)}
	e.POST("/courses", h.Create, write...)
	e.PUT("/courses/:id", h.Update, write...)
	e.DELETE("/courses/:id", h.Delete, write...)
}
