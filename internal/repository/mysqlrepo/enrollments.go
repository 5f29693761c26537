package mysqlrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/educare-hub/internal/model"
	"github.com/iliyamo/educare-hub/internal/repository"
)

const enrollmentColumns = `id, course_id, course_title, student_email, enrollment_date`

// CreateEnrollment relies on the (course_id, student_email) unique key to
// reject a second enrollment of the same student.
func (s *Store) CreateEnrollment(ctx context.Context, e *model.Enrollment) error {
	id := uuid.NewString()
	at := time.Now().UTC()
	const q = `INSERT INTO enrollments (id, course_id, course_title, student_email, enrollment_date)
		VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, id, e.CourseID, e.CourseTitle, e.StudentEmail, at); err != nil {
		if isDuplicate(err) {
			return repository.ErrAlreadyEnrolled
		}
		return fmt.Errorf("mysqlrepo: insert enrollment: %w", err)
	}
	e.ID = id
	e.EnrollmentDate = at
	return nil
}

func (s *Store) FindEnrollment(ctx context.Context, courseID, studentEmail string) (model.Enrollment, error) {
	var e model.Enrollment
	err := s.db.QueryRowContext(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE course_id = ? AND student_email = ? LIMIT 1`,
		courseID, studentEmail).Scan(&e.ID, &e.CourseID, &e.CourseTitle, &e.StudentEmail, &e.EnrollmentDate)
	if err != nil {
		return model.Enrollment{}, notFound(err)
	}
	return e, nil
}

func (s *Store) ListEnrollmentsByStudent(ctx context.Context, email string) ([]model.Enrollment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE student_email = ? ORDER BY enrollment_date DESC`,
		email)
	if err != nil {
		return nil, fmt.Errorf("mysqlrepo: query enrollments: %w", err)
	}
	defer rows.Close()

	out := make([]model.Enrollment, 0)
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.ID, &e.CourseID, &e.CourseTitle, &e.StudentEmail, &e.EnrollmentDate); err != nil {
			return nil, fmt.Errorf("mysqlrepo: scan enrollment: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mysqlrepo: iterate enrollments: %w", err)
	}
	return out, nil
}
