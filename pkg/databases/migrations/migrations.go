// Package migrations holds the embedded goose migrations of every SQL backend.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/haguru/jiraiya/internal/interfaces"
)

const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "postgres"
)

//go:embed sqlite/*.sql postgres/*.sql
var embedMigrations embed.FS

// goose keeps dialect and base FS in package state.
var mu sync.Mutex

var dirs = map[string]string{
	DialectSQLite:   "sqlite",
	DialectPostgres: "postgres",
}

// Up applies every pending migration for dialect to db.
func Up(ctx context.Context, db *sql.DB, dialect string, logger interfaces.Logger) error {
	dir, ok := dirs[dialect]
	if !ok {
		return fmt.Errorf("unsupported migration dialect: %s", dialect)
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{logger: logger})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through the service logger.
type gooseLogger struct {
	logger interfaces.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	if g.logger != nil {
		g.logger.Debug(fmt.Sprintf(format, v...))
	}
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	if g.logger != nil {
		g.logger.Error(fmt.Sprintf(format, v...))
	}
}
