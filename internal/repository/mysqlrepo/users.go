package mysqlrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/educare-hub/internal/model"
	"github.com/iliyamo/educare-hub/internal/repository"
)

const userColumns = `id, email, name, photo_url, role, created_at`

// CreateUser inserts u unless its email is taken.  The unique key on email
// covers concurrent registrations that both pass the existence check.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	if _, err := s.GetUserByEmail(ctx, u.Email); err == nil {
		return repository.ErrEmailExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	id := uuid.NewString()
	createdAt := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, name, photo_url, role, created_at) VALUES (?,?,?,?,?,?)",
		id, u.Email, u.Name, u.PhotoURL, u.Role, createdAt); err != nil {
		if isDuplicate(err) {
			return repository.ErrEmailExists
		}
		return fmt.Errorf("mysqlrepo: insert user: %w", err)
	}
	u.ID = id
	u.CreatedAt = createdAt
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("mysqlrepo: query users: %w", err)
	}
	defer rows.Close()

	out := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PhotoURL, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("mysqlrepo: scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mysqlrepo: iterate users: %w", err)
	}
	return out, nil
}

// GetUserByEmail fetches a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`,
		email).Scan(&u.ID, &u.Email, &u.Name, &u.PhotoURL, &u.Role, &u.CreatedAt)
	if err != nil {
		return model.User{}, notFound(err)
	}
	return u, nil
}

func (s *Store) UpdateUserRole(ctx context.Context, id, role string) (model.UpdateResult, error) {
	if err := checkID(id); err != nil {
		return model.UpdateResult{}, err
	}
	var current string
	if err := s.db.QueryRowContext(ctx, "SELECT role FROM users WHERE id = ?", id).Scan(&current); err != nil {
		return model.UpdateResult{Acknowledged: true}, notFound(err)
	}
	res, err := s.db.ExecContext(ctx, "UPDATE users SET role = ? WHERE id = ?", role, id)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("mysqlrepo: update role: %w", err)
	}
	n, _ := res.RowsAffected()
	return model.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: n}, nil
}
