package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/haguru/jiraiya/internal/interfaces"
	"github.com/haguru/jiraiya/pkg/databases/migrations"
)

const (
	DriverName = "sqlite"
	// MemoryDSN opens a private in-memory database.
	MemoryDSN = ":memory:"
)

var pragmas = []string{
	"PRAGMA journal_mode = WAL;",
	"PRAGMA synchronous = NORMAL;",
	"PRAGMA foreign_keys = ON;",
	"PRAGMA busy_timeout = 5000;",
}

// SQLiteDatabaseClient implements interfaces.DBClient for an embedded SQLite file.
type SQLiteDatabaseClient struct {
	db     *sql.DB
	logger interfaces.Logger
}

func NewSQLiteDatabaseClient(logger interfaces.Logger) *SQLiteDatabaseClient {
	return &SQLiteDatabaseClient{logger: logger}
}

// Connect opens the database at dsn, applies pragmas and runs migrations.
// SQLite allows a single writer, so the pool holds exactly one connection;
// this also keeps a ":memory:" database alive for the client's lifetime.
func (s *SQLiteDatabaseClient) Connect(ctx context.Context, dsn string) error {
	if dsn == "" {
		return fmt.Errorf("SQLiteDatabaseClient: DSN is empty")
	}

	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := migrations.Up(ctx, db, migrations.DialectSQLite, s.logger); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	s.logger.Info("connected to sqlite", "dsn", dsn)
	return nil
}

func (s *SQLiteDatabaseClient) Disconnect(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteDatabaseClient) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("SQLiteDatabaseClient is not connected to a database")
	}
	return s.db.PingContext(ctx)
}

// DB returns the underlying pool for repositories. It is nil until Connect succeeds.
func (s *SQLiteDatabaseClient) DB() *sql.DB {
	return s.db
}

// IsUniqueViolation reports whether err was raised by a UNIQUE or PRIMARY KEY constraint.
func IsUniqueViolation(err error) bool {
	var sqliteErr *moderncsqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
