package interfaces

import (
	"context"

	"github.com/haguru/jiraiya/internal/models"
)

// PostRepository defines the contract for storing and retrieving posts.
// Every method that addresses a single post returns apperrors.ErrPostNotFound
// when the id does not exist.
type PostRepository interface {
	// Create assigns a fresh id to post and returns the stored record.
	Create(ctx context.Context, post models.Post) (*models.Post, error)
	// List returns every post ordered by id, newest first.
	List(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	// Update overwrites title and content of post.ID. Author and id are left untouched.
	Update(ctx context.Context, post models.Post) (*models.Post, error)
	Delete(ctx context.Context, id int64) error
	EnsureIndices(ctx context.Context) error
}
