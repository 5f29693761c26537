// Package mysqlrepo implements repository.Store on MySQL through
// database/sql.  Identifiers are UUID strings generated on insert; the
// tables are created by database.Migrate.
package mysqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/iliyamo/educare-hub/internal/repository"
)

// errDuplicateEntry is MySQL's ER_DUP_ENTRY.
const errDuplicateEntry = 1062

// Store wraps a connection pool.
type Store struct {
	db *sql.DB
}

var _ repository.Store = (*Store)(nil)

// New constructs a Store with the provided DB handle.  The pool is owned by
// the Store and closed by Close.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

// checkID rejects identifiers that cannot have been produced by this store.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed id %q", repository.ErrInvalidArgument, id)
	}
	return nil
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateEntry
}

// notFound maps sql.ErrNoRows to repository.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}
