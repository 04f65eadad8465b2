package interfaces

import (
	"context"

	"github.com/haguru/jiraiya/internal/models"
	"github.com/haguru/jiraiya/internal/models/dto"
)

type PostService interface {
	CreatePost(ctx context.Context, author string, req dto.PostRequestDTO) (*models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	UpdatePost(ctx context.Context, id int64, caller string, req dto.PostRequestDTO) (*models.Post, error)
	DeletePost(ctx context.Context, id int64, caller string) error
}
