package postservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/haguru/jiraiya/internal/apperrors"
	"github.com/haguru/jiraiya/internal/auth"
	"github.com/haguru/jiraiya/internal/interfaces"
	"github.com/haguru/jiraiya/internal/models"
	"github.com/haguru/jiraiya/internal/models/dto"
	"github.com/haguru/jiraiya/pkg/helper"
)

// PostService applies ownership rules on top of a PostRepository. Reads are
// open to every caller; updates and deletes require the caller to be the author.
type PostService struct {
	PostRepo interfaces.PostRepository
	Logger   interfaces.Logger
}

func NewPostService(repo interfaces.PostRepository, logger interfaces.Logger) *PostService {
	return &PostService{
		PostRepo: repo,
		Logger:   logger,
	}
}

// CreatePost stores a new post whose author is the authenticated caller.
func (s *PostService) CreatePost(ctx context.Context, author string, req dto.PostRequestDTO) (*models.Post, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "user", author)

	post, err := s.PostRepo.Create(ctx, *models.NewPost(req.Title, req.Content, author))
	if err != nil {
		s.Logger.Error(ErrFailedToCreatePost, "func", funcName, "user", author, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToCreatePost, err)
	}

	s.Logger.Info("Post created", "func", funcName, "user", author, "post_id", post.ID)
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.PostRepo.List(ctx)
	if err != nil {
		s.Logger.Error(ErrFailedToListPosts, "func", helper.GetFuncName(), "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToListPosts, err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.PostRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return nil, err
		}
		s.Logger.Error(ErrRetrievingPost, "func", helper.GetFuncName(), "post_id", id, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrRetrievingPost, err)
	}
	return post, nil
}

// UpdatePost replaces title and content of post id. A missing post is reported
// before ownership is checked.
func (s *PostService) UpdatePost(ctx context.Context, id int64, caller string, req dto.PostRequestDTO) (*models.Post, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "user", caller, "post_id", id)

	if _, err := s.authorize(ctx, funcName, id, caller); err != nil {
		return nil, err
	}

	updated, err := s.PostRepo.Update(ctx, models.Post{ID: id, Title: req.Title, Content: req.Content})
	if err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return nil, err
		}
		s.Logger.Error(ErrFailedToUpdatePost, "func", funcName, "user", caller, "post_id", id, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToUpdatePost, err)
	}

	s.Logger.Info("Post updated", "func", funcName, "user", caller, "post_id", id)
	return updated, nil
}

// DeletePost removes post id. A missing post is reported before ownership is checked.
func (s *PostService) DeletePost(ctx context.Context, id int64, caller string) error {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "user", caller, "post_id", id)

	if _, err := s.authorize(ctx, funcName, id, caller); err != nil {
		return err
	}

	if err := s.PostRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return err
		}
		s.Logger.Error(ErrFailedToDeletePost, "func", funcName, "user", caller, "post_id", id, "error", err)
		return fmt.Errorf("%s: %w", ErrFailedToDeletePost, err)
	}

	s.Logger.Info("Post deleted", "func", funcName, "user", caller, "post_id", id)
	return nil
}

func (s *PostService) authorize(ctx context.Context, funcName string, id int64, caller string) (*models.Post, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeMutation(caller, post.Author); err != nil {
		s.Logger.Warn(ErrNotAuthor, "func", funcName, "user", caller, "author", post.Author, "post_id", id)
		return nil, err
	}
	return post, nil
}

var _ interfaces.PostService = (*PostService)(nil)
