package interfaces

import (
	"context"

	"github.com/haguru/jiraiya/internal/models"
)

type UserService interface {
	RegisterUser(ctx context.Context, username, password string) error
	AuthenticateUser(ctx context.Context, username, password string) (*models.User, error)
}
