package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLOptions identifies the MySQL server and schema to connect to.
type MySQLOptions struct {
	User string
	Pass string
	Host string
	Port string
	Name string
}

// DSN builds the driver connection string.  parseTime maps DATETIME to
// time.Time and loc=UTC keeps times consistent.
func (o MySQLOptions) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = o.User
	cfg.Passwd = o.Pass
	cfg.Net = "tcp"
	cfg.Addr = o.Host + ":" + o.Port
	cfg.DBName = o.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// Open connects to MySQL and verifies the connection.
func Open(ctx context.Context, o MySQLOptions) (*sql.DB, error) {
	db, err := sql.Open("mysql", o.DSN())
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	return db, nil
}

// schema is applied in order on every start; each statement is idempotent.
// Email columns use a binary collation so they compare exactly, like the
// other stores.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id               CHAR(36)      NOT NULL PRIMARY KEY,
		title            VARCHAR(255)  NOT NULL,
		category         VARCHAR(100)  NOT NULL DEFAULT '',
		price            DOUBLE        NOT NULL DEFAULT 0,
		duration         VARCHAR(100)  NOT NULL DEFAULT '',
		description      TEXT          NOT NULL,
		image            VARCHAR(1024) NOT NULL DEFAULT '',
		instructor_email VARCHAR(255)  COLLATE utf8mb4_bin NOT NULL,
		is_featured      TINYINT(1)    NOT NULL DEFAULT 0,
		created_at       DATETIME(6)   NOT NULL,
		KEY idx_courses_created (created_at),
		KEY idx_courses_instructor (instructor_email),
		KEY idx_courses_category (category)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS enrollments (
		id              CHAR(36)     NOT NULL PRIMARY KEY,
		course_id       CHAR(36)     NOT NULL,
		course_title    VARCHAR(255) NOT NULL DEFAULT '',
		student_email   VARCHAR(255) COLLATE utf8mb4_bin NOT NULL,
		enrollment_date DATETIME(6)  NOT NULL,
		UNIQUE KEY uq_enrollment (course_id, student_email),
		KEY idx_enrollments_student (student_email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS users (
		id         CHAR(36)      NOT NULL PRIMARY KEY,
		email      VARCHAR(255)  COLLATE utf8mb4_bin NOT NULL,
		name       VARCHAR(255)  NOT NULL DEFAULT '',
		photo_url  VARCHAR(1024) NOT NULL DEFAULT '',
		role       VARCHAR(20)   NOT NULL DEFAULT 'default',
		created_at DATETIME(6)   NOT NULL,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the tables used by mysqlrepo when they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
