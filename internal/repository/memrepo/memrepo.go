// Package memrepo is an in-process implementation of repository.Store.  It
// is meant for local development (STORE_DRIVER=memory) and for tests; data
// does not survive a restart.
package memrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/educare-hub/internal/model"
	"github.com/iliyamo/educare-hub/internal/repository"
)

// Store keeps every collection in maps keyed by id.
type Store struct {
	mu          sync.RWMutex
	courses     map[string]model.Course
	enrollments map[string]model.Enrollment
	users       map[string]model.User
	now         func() time.Time
}

var _ repository.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		courses:     map[string]model.Course{},
		enrollments: map[string]model.Enrollment{},
		users:       map[string]model.User{},
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Ping(ctx context.Context) error  { return ctx.Err() }
func (s *Store) Close(ctx context.Context) error { return nil }

// SeedCourses inserts courses verbatim, keeping caller supplied ids and
// timestamps.  Missing ids are generated.
func (s *Store) SeedCourses(cs ...model.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cs {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		s.courses[c.ID] = c
	}
}

// ---- Courses ----

func (s *Store) ListCourses(ctx context.Context, q repository.CourseQuery) ([]model.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := s.filterCourses(func(c model.Course) bool { return q.Filter.Matches(c) })
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return q.Sort.Less(out[i], out[j]) })

	if q.Skip < 0 || q.Limit < 0 {
		return nil, fmt.Errorf("%w: negative skip or limit", repository.ErrInvalidArgument)
	}
	if q.Skip >= int64(len(out)) {
		return []model.Course{}, nil
	}
	out = out[q.Skip:]
	if q.Limit > 0 && q.Limit < int64(len(out)) {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store) CountCourses(ctx context.Context, f repository.CourseFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.filterCourses(f.Matches))), nil
}

func (s *Store) GetCourse(ctx context.Context, id string) (model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return model.Course{}, repository.ErrNotFound
	}
	return c, nil
}

func (s *Store) ListCoursesByInstructor(ctx context.Context, email string) ([]model.Course, error) {
	s.mu.RLock()
	out := s.filterCourses(func(c model.Course) bool { return c.InstructorEmail == email })
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return repository.SortNewest.Less(out[i], out[j]) })
	return out, nil
}

func (s *Store) CreateCourse(ctx context.Context, c *model.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.NewString()
	c.CreatedAt = s.now()
	s.courses[c.ID] = *c
	return nil
}

func (s *Store) UpdateCourse(ctx context.Context, id string, u model.CourseUpdate) (model.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return model.UpdateResult{Acknowledged: true}, repository.ErrNotFound
	}
	before := c
	u.Apply(&c)
	s.courses[id] = c
	res := model.UpdateResult{Acknowledged: true, MatchedCount: 1}
	if c != before {
		res.ModifiedCount = 1
	}
	return res, nil
}

func (s *Store) DeleteCourse(ctx context.Context, id string) (model.CourseDeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return model.CourseDeleteResult{}, repository.ErrNotFound
	}
	res := model.CourseDeleteResult{
		Enrollments: model.DeleteResult{Acknowledged: true},
		Course:      model.DeleteResult{Acknowledged: true, DeletedCount: 1},
	}
	for eid, e := range s.enrollments {
		if e.CourseID == id {
			delete(s.enrollments, eid)
			res.Enrollments.DeletedCount++
		}
	}
	delete(s.courses, id)
	return res, nil
}

// filterCourses must be called with mu held.
func (s *Store) filterCourses(keep func(model.Course) bool) []model.Course {
	out := make([]model.Course, 0)
	for _, c := range s.courses {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// ---- Enrollments ----

func (s *Store) CreateEnrollment(ctx context.Context, e *model.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.enrollments {
		if cur.CourseID == e.CourseID && cur.StudentEmail == e.StudentEmail {
			return repository.ErrAlreadyEnrolled
		}
	}
	e.ID = uuid.NewString()
	e.EnrollmentDate = s.now()
	s.enrollments[e.ID] = *e
	return nil
}

func (s *Store) FindEnrollment(ctx context.Context, courseID, studentEmail string) (model.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.enrollments {
		if e.CourseID == courseID && e.StudentEmail == studentEmail {
			return e, nil
		}
	}
	return model.Enrollment{}, repository.ErrNotFound
}

func (s *Store) ListEnrollmentsByStudent(ctx context.Context, email string) ([]model.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Enrollment, 0)
	for _, e := range s.enrollments {
		if e.StudentEmail == email {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnrollmentDate.After(out[j].EnrollmentDate) })
	return out, nil
}

// ---- Users ----

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.users {
		if cur.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = s.now()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *Store) UpdateUserRole(ctx context.Context, id, role string) (model.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.UpdateResult{Acknowledged: true}, repository.ErrNotFound
	}
	res := model.UpdateResult{Acknowledged: true, MatchedCount: 1}
	if u.Role != role {
		u.Role = role
		s.users[id] = u
		res.ModifiedCount = 1
	}
	return res, nil
}
