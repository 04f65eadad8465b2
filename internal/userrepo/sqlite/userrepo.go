package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/haguru/jiraiya/internal/apperrors"
	"github.com/haguru/jiraiya/internal/interfaces"
	"github.com/haguru/jiraiya/internal/models"
	"github.com/haguru/jiraiya/pkg/databases/sqlite"
)

const (
	insertUserQuery = `INSERT INTO users (username, hashed_password) VALUES (?, ?)`
	selectUserQuery = `SELECT username, hashed_password FROM users WHERE username = ?`
)

// SQLiteUserRepository implements UserRepository on top of an embedded SQLite database.
type SQLiteUserRepository struct {
	dbClient *sqlite.SQLiteDatabaseClient
}

func NewSQLiteUserRepository(dbClient *sqlite.SQLiteDatabaseClient) (*SQLiteUserRepository, error) {
	if dbClient == nil || dbClient.DB() == nil {
		return nil, fmt.Errorf("dbClient must be connected")
	}
	return &SQLiteUserRepository{dbClient: dbClient}, nil
}

// AddUser inserts user. The primary key on username rejects duplicates atomically.
func (r *SQLiteUserRepository) AddUser(ctx context.Context, user models.User) error {
	_, err := r.dbClient.DB().ExecContext(ctx, insertUserQuery, user.Username, user.HashedPassword)
	if err != nil {
		if sqlite.IsUniqueViolation(err) {
			return fmt.Errorf("username '%s': %w", user.Username, apperrors.ErrUsernameTaken)
		}
		return fmt.Errorf("failed to add user to SQLite: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.dbClient.DB().QueryRowContext(ctx, selectUserQuery, username).Scan(&user.Username, &user.HashedPassword)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username from SQLite: %w", err)
	}
	return &user, nil
}

// EnsureIndices is a no-op; the schema comes from migrations.
func (r *SQLiteUserRepository) EnsureIndices(ctx context.Context) error {
	return nil
}

var _ interfaces.UserRepository = (*SQLiteUserRepository)(nil)
