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

// EnrollmentHandler enrolls students into courses and lists their
// enrollments.
type EnrollmentHandler struct {
	Courses     repository.CourseStore
	Enrollments repository.EnrollmentStore
	Timeout     time.Duration
	Events      queue.Publisher
	Log         *zap.Logger
}

// NewEnrollmentHandler wires an EnrollmentHandler.  A nil publisher
// disables events.
func NewEnrollmentHandler(courses repository.CourseStore, enrollments repository.EnrollmentStore, timeout time.Duration, events queue.Publisher, log *zap.Logger) *EnrollmentHandler {
	if events == nil {
		events = queue.Noop{}
	}
	return &EnrollmentHandler{Courses: courses, Enrollments: enrollments, Timeout: timeout, Events: events, Log: log}
}

type enrollReq struct {
	CourseID     string `json:"courseId"`
	StudentEmail string `json:"studentEmail"`
}

// Create enrolls the caller into a course.  The course title is copied
// into the enrollment at this point and not kept in sync afterwards.
func (h *EnrollmentHandler) Create(c echo.Context) error {
	var req enrollReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.CourseID = strings.TrimSpace(req.CourseID)
	if req.CourseID == "" {
		return badRequest(c, "courseId is required")
	}
	caller := middleware.CurrentEmail(c)
	student := strings.TrimSpace(req.StudentEmail)
	if student == "" {
		student = caller
	}
	if student != caller {
		return forbidden(c)
	}

	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	course, err := h.Courses.GetCourse(ctx, req.CourseID)
	if err != nil {
		return storeError(c, h.Log, err, "course not found")
	}

	e := &model.Enrollment{
		CourseID:     course.ID,
		CourseTitle:  course.Title,
		StudentEmail: student,
	}
	if err := h.Enrollments.CreateEnrollment(ctx, e); err != nil {
		return storeError(c, h.Log, err, "course not found")
	}
	h.Events.Publish(c.Request().Context(), queue.EnrollmentCreated(*e))
	return c.JSON(http.StatusCreated, model.InsertResult{Acknowledged: true, InsertedID: e.ID})
}

// ByStudent lists the enrollments of the student in :email.
func (h *EnrollmentHandler) ByStudent(c echo.Context) error {
	ctx, cancel := storeCtx(c, h.Timeout)
	defer cancel()

	out, err := h.Enrollments.ListEnrollmentsByStudent(ctx, middleware.PathParam(c, "email"))
	if err != nil {
		return storeError(c, h.Log, err, "enrollment not found")
	}
	if out == nil {
		out = []model.Enrollment{}
	}
	return c.JSON(http.StatusOK, out)
}
