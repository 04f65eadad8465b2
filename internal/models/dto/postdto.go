package dto

import "github.com/haguru/jiraiya/internal/models"

// PostRequestDTO is the payload for creating and updating posts. It carries no
// id or author, so callers cannot set either.
type PostRequestDTO struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required"`
}

type PostResponseDTO struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// NewPostResponse maps a stored post to its response shape.
func NewPostResponse(post *models.Post) PostResponseDTO {
	return PostResponseDTO{
		ID:      post.ID,
		Title:   post.Title,
		Content: post.Content,
		Author:  post.Author,
	}
}

// NewPostListResponse maps posts preserving their order.
func NewPostListResponse(posts []models.Post) []PostResponseDTO {
	resp := make([]PostResponseDTO, 0, len(posts))
	for i := range posts {
		resp = append(resp, NewPostResponse(&posts[i]))
	}
	return resp
}
