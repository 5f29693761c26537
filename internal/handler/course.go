package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/educare-hub/internal/middleware"
	"github.com/iliyamo/educare-hub/internal/model"
	"github.com/iliyamo/educare-hub/internal/queue"
	"github.com/iliyamo/educare-hub/internal/repository"
)

// CourseHandler serves the course catalogue and the instructor endpoints
// that modify it.
type CourseHandler struct {
	Courses repository.CourseStore
	Paging  repository.PageDefaults
	Timeout time.Duration
	Events  queue.Publisher
	Log     *zap.Logger
}

// NewCourseHandler wires a CourseHandler.  A nil publisher disables events.
func NewCourseHandler(courses repository.CourseStore, paging repository.PageDefaults, timeout time.Duration, events queue.Publisher, log *zap.Logger) *CourseHandler {
	if events == nil {
		events = queue.Noop{}
	}
	return &CourseHandler{Courses: courses, Paging: paging, Timeout: timeout, Events: events, Log: log}
}

const courseNotFound = "course not found"

type createCourseReq struct {
	Title           string  `json:"title"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	Duration        string  `json:"duration"`
	Description     string  `json:"description"`
	Image           string  `json:"image"`
	InstructorEmail string  `json:"instructorEmail"`
	IsFeatured      bool    `json:"isFeatured"`
}

type countResp struct {
	Count int64 `json:"count"`
}

// List returns one page of courses.
// Query: page, size, search, category, sort, featured.
func (h *CourseHandler) List(c echo.Context) error {
	p, err := repository.ParseCourseListParams(c.QueryParams(), h.Paging)
	if err != nil {
		return badRequest(c, err.Error())
	}
	q, err := repository.NewCourseQuery(p)
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	courses, err := h.Courses.ListCourses(ctx, q)
	if err != nil {
		return storeError(c, h.Log, err, courseNotFound)
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return c.JSON(http.StatusOK, courses)
}

// Count returns the number of courses matching the same filter as List.
func (h *CourseHandler) Count(c echo.Context) error {
	f := repository.CourseFilterFromValues(c.QueryParams())

	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	n, err := h.Courses.CountCourses(ctx, f)
	if err != nil {
		return storeError(c, h.Log, err, courseNotFound)
	}
	return c.JSON(http.StatusOK, countResp{Count: n})
}

// Get returns a single course or 404.
func (h *CourseHandler) Get(c echo.Context) error {
	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	course, err := h.Courses.GetCourse(ctx, c.Param("id"))
	if err != nil {
		return storeError(c, h.Log, err, courseNotFound)
	}
	return c.JSON(http.StatusOK, course)
}

// ByInstructor returns every course owned by the instructor in :email.
func (h *CourseHandler) ByInstructor(c echo.Context) error {
	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	courses, err := h.Courses.ListCoursesByInstructor(ctx, middleware.PathParam(c, "email"))
	if err != nil {
		return storeError(c, h.Log, err, courseNotFound)
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return c.JSON(http.StatusOK, courses)
}

// Create inserts a course.  The owner defaults to the caller; only admins
// may create a course on behalf of another instructor.
func (h *CourseHandler) Create(c echo.Context) error {
	var req createCourseReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return badRequest(c, "title is required")
	}
	if req.Price < 0 {
		return badRequest(c, "price must not be negative")
	}

	caller := middleware.CurrentEmail(c)
	owner := strings.TrimSpace(req.InstructorEmail)
	if owner == "" {
		owner = caller
	}
	if owner != caller && middleware.CurrentRole(c) != model.RoleAdmin {
		return forbidden(c)
	}

	course := &model.Course{
		Title:           req.Title,
		Category:        strings.TrimSpace(req.Category),
		Price:           req.Price,
		Duration:        req.Duration,
		Description:     req.Description,
		Image:           req.Image,
		InstructorEmail: owner,
		IsFeatured:      req.IsFeatured,
	}

	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	if err := h.Courses.CreateCourse(ctx, course); err != nil {
		return storeError(c, h.Log, err, courseNotFound)
	}
	return c.JSON(http.StatusCreated, model.InsertResult{Acknowledged: true, InsertedID: course.ID})
}

// Update applies the allow-listed fields of the body to a course owned by
// the caller.  Unknown fields in the body are ignored.
func (h *CourseHandler) Update(c echo.Context) error {
	var u model.CourseUpdate
	if err := c.Bind(&u); err != nil {
		return badRequest(c, "invalid body")
	}
	if u.Empty() {
		return badRequest(c, "no updatable field in body")
	}
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return badRequest(c, "title must not be empty")
	}
	if u.Price != nil && *u.Price < 0 {
		return badRequest(c, "price must not be negative")
	}

	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	id := c.Param("id")
	course, err := h.Courses.GetCourse(ctx, id)
	if err != nil {
		return storeError(c, h.Log, err, courseNotFound)
	}
	if !canManage(c, course) {
		return forbidden(c)
	}

	res, err := h.Courses.UpdateCourse(ctx, id, u)
	if err != nil {
		return storeError(c, h.Log, err, courseNotFound)
	}
	return c.JSON(http.StatusOK, res)
}

// Delete removes a course and every enrollment referencing it.
func (h *CourseHandler) Delete(c echo.Context) error {
	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	id := c.Param("id")
	course, err := h.Courses.GetCourse(ctx, id)
	if err != nil {
		return storeError(c, h.Log, err, courseNotFound)
	}
	if !canManage(c, course) {
		return forbidden(c)
	}

	res, err := h.Courses.DeleteCourse(ctx, id)
	if err != nil {
		return storeError(c, h.Log, err, courseNotFound)
	}
	h.Events.Publish(c.Request().Context(), queue.CourseDeleted(course, middleware.CurrentEmail(c), res, time.Now()))
	return c.JSON(http.StatusOK, res)
}

// canManage reports whether the caller owns the course or is an admin.
func canManage(c echo.Context, course model.Course) bool {
	if middleware.CurrentRole(c) == model.RoleAdmin {
		return true
	}
	return course.InstructorEmail == middleware.CurrentEmail(c)
}
