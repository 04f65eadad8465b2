package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/haguru/jiraiya/internal/apperrors"
	"github.com/haguru/jiraiya/internal/interfaces"
	"github.com/haguru/jiraiya/internal/models"
	"github.com/haguru/jiraiya/pkg/databases/postgres"
)

const (
	insertUserQuery = `INSERT INTO users (username, hashed_password) VALUES ($1, $2)`
	selectUserQuery = `SELECT username, hashed_password FROM users WHERE username = $1`
)

// PostgresUserRepository implements UserRepository for PostgreSQL databases.
type PostgresUserRepository struct {
	dbClient *postgres.PostgresDatabaseClient
}

// NewPostgresUserRepository creates a new PostgreSQL repository instance.
func NewPostgresUserRepository(dbClient *postgres.PostgresDatabaseClient) (*PostgresUserRepository, error) {
	if dbClient == nil || dbClient.DB() == nil {
		return nil, fmt.Errorf("dbClient must be connected")
	}
	return &PostgresUserRepository{dbClient: dbClient}, nil
}

// AddUser saves a new user. A unique violation on username maps to apperrors.ErrUsernameTaken.
func (r *PostgresUserRepository) AddUser(ctx context.Context, user models.User) error {
	_, err := r.dbClient.DB().ExecContext(ctx, insertUserQuery, user.Username, user.HashedPassword)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("username '%s': %w", user.Username, apperrors.ErrUsernameTaken)
		}
		return fmt.Errorf("failed to add user to PostgreSQL: %w", err)
	}
	return nil
}

// GetUserByUsername retrieves a user from PostgreSQL.
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.dbClient.DB().QueryRowContext(ctx, selectUserQuery, username).Scan(&user.Username, &user.HashedPassword)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username from PostgreSQL: %w", err)
	}
	return &user, nil
}

// EnsureIndices is a no-op; the primary key on username is created by migrations.
func (r *PostgresUserRepository) EnsureIndices(ctx context.Context) error {
	return nil
}

var _ interfaces.UserRepository = (*PostgresUserRepository)(nil)
