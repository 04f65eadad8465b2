package interfaces

import (
	"context"

	"github.com/haguru/jiraiya/internal/models"
)

// UserRepository defines the contract for storing and retrieving User data.
type UserRepository interface {
	// AddUser persists user. Returns apperrors.ErrUsernameTaken on a duplicate username.
	AddUser(ctx context.Context, user models.User) error
	// GetUserByUsername returns apperrors.ErrUserNotFound when no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	EnsureIndices(ctx context.Context) error
}
