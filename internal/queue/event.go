// Package queue defines the activity events exchanged over the message
// broker together with their publisher and consumer.
package queue

import (
	"time"

	"github.com/iliyamo/educare-hub/internal/model"
)

// Event types carried in ActivityEvent.Type.
const (
	EventEnrollmentCreated = "enrollment.created"
	EventCourseDeleted     = "course.deleted"
)

// ActivityEvent is published after a successful write that downstream
// consumers may want to audit.  It carries enough information to be logged
// without querying the store.
type ActivityEvent struct {
	Type               string `json:"type"`
	CourseID           string `json:"course_id"`
	CourseTitle        string `json:"course_title,omitempty"`
	EnrollmentID       string `json:"enrollment_id,omitempty"`
	StudentEmail       string `json:"student_email,omitempty"`
	ActorEmail         string `json:"actor_email,omitempty"`
	DeletedEnrollments int64  `json:"deleted_enrollments"`
	OccurredAt         string `json:"occurred_at"`
}

// EnrollmentCreated builds the event for a stored enrollment.
func EnrollmentCreated(e model.Enrollment) ActivityEvent {
	return ActivityEvent{
		Type:         EventEnrollmentCreated,
		CourseID:     e.CourseID,
		CourseTitle:  e.CourseTitle,
		EnrollmentID: e.ID,
		StudentEmail: e.StudentEmail,
		OccurredAt:   e.EnrollmentDate.UTC().Format(time.RFC3339),
	}
}

// CourseDeleted builds the event for a cascading course delete performed by
// actor.
func CourseDeleted(c model.Course, actor string, res model.CourseDeleteResult, at time.Time) ActivityEvent {
	return ActivityEvent{
		Type:               EventCourseDeleted,
		CourseID:           c.ID,
		CourseTitle:        c.Title,
		ActorEmail:         actor,
		DeletedEnrollments: res.Enrollments.DeletedCount,
		OccurredAt:         at.UTC().Format(time.RFC3339),
	}
}
