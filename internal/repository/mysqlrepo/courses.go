package mysqlrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/educare-hub/internal/model"
	"github.com/iliyamo/educare-hub/internal/repository"
)

const courseColumns = `id, title, category, price, duration, description, image,
	instructor_email, is_featured, created_at`

// likeEscaper escapes the LIKE wildcards so that search text is matched
// literally.  Backslash is MySQL's default LIKE escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// courseWhere renders a CourseFilter as a WHERE condition and its args.
func courseWhere(f repository.CourseFilter) (string, []any) {
	where := []string{}
	args := []any{}

	if f.Search != "" {
		where = append(where, "LOWER(title) LIKE ?")
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(f.Search))+"%")
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.FeaturedOnly {
		where = append(where, "is_featured = 1")
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return cond, args
}

// courseOrder renders a CourseSort; id breaks ties so paging is stable.
func courseOrder(s repository.CourseSort) string {
	switch s {
	case repository.SortPriceAsc:
		return "price ASC, id ASC"
	case repository.SortPriceDesc:
		return "price DESC, id ASC"
	default:
		return "created_at DESC, id ASC"
	}
}

// courseSet renders the allowed fields of an update as SET assignments.
func courseSet(u model.CourseUpdate) (string, []any) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.Title != nil {
		add("title", *u.Title)
	}
	if u.Category != nil {
		add("category", *u.Category)
	}
	if u.Price != nil {
		add("price", *u.Price)
	}
	if u.Duration != nil {
		add("duration", *u.Duration)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if u.Image != nil {
		add("image", *u.Image)
	}
	if u.IsFeatured != nil {
		add("is_featured", *u.IsFeatured)
	}
	return strings.Join(sets, ", "), args
}

func (s *Store) ListCourses(ctx context.Context, q repository.CourseQuery) ([]model.Course, error) {
	cond, args := courseWhere(q.Filter)
	query := `SELECT ` + courseColumns + `
		FROM courses
		WHERE ` + cond + `
		ORDER BY ` + courseOrder(q.Sort) + `
		LIMIT ? OFFSET ?`
	args = append(args, q.Limit, q.Skip)
	return s.queryCourses(ctx, query, args...)
}

func (s *Store) CountCourses(ctx context.Context, f repository.CourseFilter) (int64, error) {
	cond, args := courseWhere(f)
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses WHERE `+cond, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("mysqlrepo: count courses: %w", err)
	}
	return n, nil
}

func (s *Store) GetCourse(ctx context.Context, id string) (model.Course, error) {
	if err := checkID(id); err != nil {
		return model.Course{}, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	c, err := scanCourse(row)
	if err != nil {
		return model.Course{}, notFound(err)
	}
	return c, nil
}

func (s *Store) ListCoursesByInstructor(ctx context.Context, email string) ([]model.Course, error) {
	query := `SELECT ` + courseColumns + `
		FROM courses
		WHERE instructor_email = ?
		ORDER BY ` + courseOrder(repository.SortNewest)
	return s.queryCourses(ctx, query, email)
}

func (s *Store) CreateCourse(ctx context.Context, c *model.Course) error {
	id := uuid.NewString()
	createdAt := time.Now().UTC()
	const q = `INSERT INTO courses
		(id, title, category, price, duration, description, image, instructor_email, is_featured, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q,
		id, c.Title, c.Category, c.Price, c.Duration, c.Description, c.Image,
		c.InstructorEmail, c.IsFeatured, createdAt); err != nil {
		return fmt.Errorf("mysqlrepo: insert course: %w", err)
	}
	c.ID = id
	c.CreatedAt = createdAt
	return nil
}

// UpdateCourse first confirms the row exists because MySQL reports changed
// rows, not matched rows, from an UPDATE.
func (s *Store) UpdateCourse(ctx context.Context, id string, u model.CourseUpdate) (model.UpdateResult, error) {
	if err := checkID(id); err != nil {
		return model.UpdateResult{}, err
	}
	var one int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM courses WHERE id = ?`, id).Scan(&one); err != nil {
		return model.UpdateResult{Acknowledged: true}, notFound(err)
	}
	set, args := courseSet(u)
	res, err := s.db.ExecContext(ctx, `UPDATE courses SET `+set+` WHERE id = ?`, append(args, id)...)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("mysqlrepo: update course: %w", err)
	}
	n, _ := res.RowsAffected()
	return model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: n}, nil
}

// DeleteCourse removes the course and its enrollments in one transaction.
func (s *Store) DeleteCourse(ctx context.Context, id string) (out model.CourseDeleteResult, err error) {
	if err = checkID(id); err != nil {
		return out, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return out, fmt.Errorf("mysqlrepo: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var one int
	if err = tx.QueryRowContext(ctx, `SELECT 1 FROM courses WHERE id = ? FOR UPDATE`, id).Scan(&one); err != nil {
		err = notFound(err)
		return out, err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE course_id = ?`, id)
	if err != nil {
		return out, fmt.Errorf("mysqlrepo: delete enrollments: %w", err)
	}
	n, _ := res.RowsAffected()
	out.Enrollments = model.DeleteResult{Acknowledged: true, DeletedCount: n}

	res, err = tx.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return out, fmt.Errorf("mysqlrepo: delete course: %w", err)
	}
	n, _ = res.RowsAffected()
	out.Course = model.DeleteResult{Acknowledged: true, DeletedCount: n}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(r rowScanner) (model.Course, error) {
	var c model.Course
	err := r.Scan(&c.ID, &c.Title, &c.Category, &c.Price, &c.Duration, &c.Description,
		&c.Image, &c.InstructorEmail, &c.IsFeatured, &c.CreatedAt)
	return c, err
}

func (s *Store) queryCourses(ctx context.Context, query string, args ...any) ([]model.Course, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("mysqlrepo: query courses: %w", err)
	}
	defer rows.Close()

	out := make([]model.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("mysqlrepo: scan course: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mysqlrepo: iterate courses: %w", err)
	}
	return out, nil
}

var _ rowScanner = (*sql.Row)(nil)
