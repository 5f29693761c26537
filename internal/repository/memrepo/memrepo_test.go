package memrepo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/educare-hub/internal/model"
	"github.com/iliyamo/educare-hub/internal/repository"
)

func seeded(t *testing.T, n int) *Store {
	t.Helper()
	s := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s.SeedCourses(model.Course{
			ID:        fmt.Sprintf("c%02d", i),
			Title:     fmt.Sprintf("Course %d", i),
			Price:     float64(i % 4), // duplicate prices exercise the tie-breaker
			CreatedAt: base.Add(time.Duration(i%3) * time.Hour),
		})
	}
	return s
}

func TestListCoursesPagesConcatenateToFullResult(t *testing.T) {
	ctx := context.Background()
	s := seeded(t, 17)

	for _, sort := range []repository.CourseSort{repository.SortNewest, repository.SortPriceAsc, repository.SortPriceDesc} {
		full, err := s.ListCourses(ctx, repository.CourseQuery{Sort: sort, Limit: 100})
		require.NoError(t, err)
		require.Len(t, full, 17)

		var paged []model.Course
		for page := 0; page < 5; page++ {
			q, err := repository.NewCourseQuery(repository.CourseListParams{Sort: sort, Page: page, Size: 4})
			require.NoError(t, err)
			got, err := s.ListCourses(ctx, q)
			require.NoError(t, err)
			paged = append(paged, got...)
		}
		assert.Equal(t, full, paged, "sort=%s", sort)
	}
}

func TestListCoursesSkipPastEnd(t *testing.T) {
	s := seeded(t, 3)
	got, err := s.ListCourses(context.Background(), repository.CourseQuery{Skip: 10, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestDeleteCourseCascadesEnrollments(t *testing.T) {
	ctx := context.Background()
	s := New()

	keep := &model.Course{Title: "Keep"}
	drop := &model.Course{Title: "Drop"}
	require.NoError(t, s.CreateCourse(ctx, keep))
	require.NoError(t, s.CreateCourse(ctx, drop))

	for _, email := range []string{"a@x.io", "b@x.io"} {
		require.NoError(t, s.CreateEnrollment(ctx, &model.Enrollment{CourseID: drop.ID, StudentEmail: email}))
	}
	require.NoError(t, s.CreateEnrollment(ctx, &model.Enrollment{CourseID: keep.ID, StudentEmail: "a@x.io"}))

	res, err := s.DeleteCourse(ctx, drop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Enrollments.DeletedCount)
	assert.Equal(t, int64(1), res.Course.DeletedCount)

	_, err = s.GetCourse(ctx, drop.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.FindEnrollment(ctx, drop.ID, "a@x.io")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	left, err := s.ListEnrollmentsByStudent(ctx, "a@x.io")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, keep.ID, left[0].CourseID)

	_, err = s.DeleteCourse(ctx, drop.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateUser(ctx, &model.User{Email: "a@x.io", Role: model.RoleDefault}))

	err := s.CreateUser(ctx, &model.User{Email: "a@x.io", Role: model.RoleDefault})
	assert.ErrorIs(t, err, repository.ErrEmailExists)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUpdateCourseKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := &model.Course{Title: "Old", Price: 10}
	require.NoError(t, s.CreateCourse(ctx, c))

	title := "New"
	res, err := s.UpdateCourse(ctx, c.ID, model.CourseUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)

	got, err := s.GetCourse(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, c.CreatedAt, got.CreatedAt)

	res, err = s.UpdateCourse(ctx, c.ID, model.CourseUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)
	assert.Equal(t, int64(0), res.ModifiedCount)
}

func TestListCoursesRejectsNegativeWindow(t *testing.T) {
	s := seeded(t, 3)
	_, err := s.ListCourses(context.Background(), repository.CourseQuery{Skip: -8, Limit: 8})
	assert.ErrorIs(t, err, repository.ErrInvalidArgument)
}

func TestEmailsMatchExactly(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateUser(ctx, &model.User{Email: "a@x.io", Role: model.RoleDefault}))
	require.NoError(t, s.CreateUser(ctx, &model.User{Email: "A@x.io", Role: model.RoleDefault}))

	_, err := s.GetUserByEmail(ctx, "A@X.IO")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	u, err := s.GetUserByEmail(ctx, "A@x.io")
	require.NoError(t, err)
	assert.Equal(t, "A@x.io", u.Email)
}
