package repository

import (
	"context"

	"github.com/iliyamo/educare-hub/internal/model"
)

// CourseStore persists courses.  DeleteCourse also removes every enrollment
// that references the course.
type CourseStore interface {
	ListCourses(ctx context.Context, q CourseQuery) ([]model.Course, error)
	CountCourses(ctx context.Context, f CourseFilter) (int64, error)
	GetCourse(ctx context.Context, id string) (model.Course, error)
	ListCoursesByInstructor(ctx context.Context, email string) ([]model.Course, error)
	CreateCourse(ctx context.Context, c *model.Course) error
	UpdateCourse(ctx context.Context, id string, u model.CourseUpdate) (model.UpdateResult, error)
	DeleteCourse(ctx context.Context, id string) (model.CourseDeleteResult, error)
}

// EnrollmentStore persists enrollments.
type EnrollmentStore interface {
	CreateEnrollment(ctx context.Context, e *model.Enrollment) error
	FindEnrollment(ctx context.Context, courseID, studentEmail string) (model.Enrollment, error)
	ListEnrollmentsByStudent(ctx context.Context, email string) ([]model.Enrollment, error)
}

// UserStore persists users.  CreateUser returns ErrEmailExists when the
// email is already registered.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	UpdateUserRole(ctx context.Context, id, role string) (model.UpdateResult, error)
}

// Store bundles the collections of one backing database.
type Store interface {
	CourseStore
	EnrollmentStore
	UserStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
