package model

import "time"

// Enrollment links a student to a course.  CourseID is a plain reference:
// the store does not enforce it, the application deletes enrollments when
// their course is deleted.
type Enrollment struct {
	ID             string    `json:"_id"`            // store-assigned identifier
	CourseID       string    `json:"courseId"`       // Course.ID of the enrolled course
	CourseTitle    string    `json:"courseTitle"`    // title snapshot taken at enrollment time
	StudentEmail   string    `json:"studentEmail"`   // enrolled student
	EnrollmentDate time.Time `json:"enrollmentDate"` // set by the server on insert
}
