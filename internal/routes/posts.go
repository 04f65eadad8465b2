package routes

import (
	"net/http"
	"time"

	"github.com/haguru/jiraiya/internal/apperrors"
	"github.com/haguru/jiraiya/internal/metrics"
	"github.com/haguru/jiraiya/internal/middleware"
	"github.com/haguru/jiraiya/internal/models/dto"
)

// CreatePost stores a post authored by the authenticated caller. Must sit behind middleware.RequireAuth.
func (r *Route) CreatePost(w http.ResponseWriter, req *http.Request) {
	defer r.observePost(OpCreate, time.Now())

	caller, ok := middleware.UsernameFromContext(req.Context())
	if !ok {
		r.recordPost(OpCreate, r.serviceError(w, req, apperrors.ErrTokenMalformed))
		return
	}

	postRequest := &dto.PostRequestDTO{}
	if !r.decodeJSON(w, req, postRequest) {
		r.recordPost(OpCreate, metrics.OutcomeBadRequest)
		return
	}

	post, err := r.PostService.CreatePost(req.Context(), caller, *postRequest)
	if err != nil {
		r.recordPost(OpCreate, r.serviceError(w, req, err))
		return
	}

	r.recordPost(OpCreate, metrics.OutcomeSuccess)
	r.writeJSON(w, http.StatusOK, dto.NewPostResponse(post))
}

// ListPosts returns every post, newest first. No authentication required.
func (r *Route) ListPosts(w http.ResponseWriter, req *http.Request) {
	defer r.observePost(OpList, time.Now())

	posts, err := r.PostService.ListPosts(req.Context())
	if err != nil {
		r.recordPost(OpList, r.serviceError(w, req, err))
		return
	}

	r.recordPost(OpList, metrics.OutcomeSuccess)
	r.writeJSON(w, http.StatusOK, dto.NewPostListResponse(posts))
}

// GetPost returns a single post. No authentication required.
func (r *Route) GetPost(w http.ResponseWriter, req *http.Request) {
	defer r.observePost(OpGet, time.Now())

	id, err := parsePostID(req)
	if err != nil {
		r.recordPost(OpGet, metrics.OutcomeBadRequest)
		r.errorResponse(w, http.StatusBadRequest, ErrCodeBadRequest, MsgInvalidPostID)
		return
	}

	post, err := r.PostService.GetPost(req.Context(), id)
	if err != nil {
		r.recordPost(OpGet, r.serviceError(w, req, err))
		return
	}

	r.recordPost(OpGet, metrics.OutcomeSuccess)
	r.writeJSON(w, http.StatusOK, dto.NewPostResponse(post))
}

// UpdatePost replaces title and content. Only the author may update.
func (r *Route) UpdatePost(w http.ResponseWriter, req *http.Request) {
	defer r.observePost(OpUpdate, time.Now())

	caller, ok := middleware.UsernameFromContext(req.Context())
	if !ok {
		r.recordPost(OpUpdate, r.serviceError(w, req, apperrors.ErrTokenMalformed))
		return
	}

	id, err := parsePostID(req)
	if err != nil {
		r.recordPost(OpUpdate, metrics.OutcomeBadRequest)
		r.errorResponse(w, http.StatusBadRequest, ErrCodeBadRequest, MsgInvalidPostID)
		return
	}

	postRequest := &dto.PostRequestDTO{}
	if !r.decodeJSON(w, req, postRequest) {
		r.recordPost(OpUpdate, metrics.OutcomeBadRequest)
		return
	}

	post, err := r.PostService.UpdatePost(req.Context(), id, caller, *postRequest)
	if err != nil {
		r.recordPost(OpUpdate, r.serviceError(w, req, err))
		return
	}

	r.recordPost(OpUpdate, metrics.OutcomeSuccess)
	r.writeJSON(w, http.StatusOK, dto.NewPostResponse(post))
}

// DeletePost removes a post. Only the author may delete.
func (r *Route) DeletePost(w http.ResponseWriter, req *http.Request) {
	defer r.observePost(OpDelete, time.Now())

	caller, ok := middleware.UsernameFromContext(req.Context())
	if !ok {
		r.recordPost(OpDelete, r.serviceError(w, req, apperrors.ErrTokenMalformed))
		return
	}

	id, err := parsePostID(req)
	if err != nil {
		r.recordPost(OpDelete, metrics.OutcomeBadRequest)
		r.errorResponse(w, http.StatusBadRequest, ErrCodeBadRequest, MsgInvalidPostID)
		return
	}

	if err := r.PostService.DeletePost(req.Context(), id, caller); err != nil {
		r.recordPost(OpDelete, r.serviceError(w, req, err))
		return
	}

	r.recordPost(OpDelete, metrics.OutcomeSuccess)
	r.writeJSON(w, http.StatusOK, dto.MessageResponseDTO{Message: MsgPostDeleted})
}

func (r *Route) recordPost(operation, outcome string) {
	if r.Metrics != nil {
		r.Metrics.IncCounterVec(metrics.PostOperationsTotal, operation, outcome)
	}
}

func (r *Route) observePost(operation string, start time.Time) {
	if r.Metrics != nil {
		r.Metrics.ObserveHistogramVec(metrics.PostDurationSeconds, time.Since(start).Seconds(), operation)
	}
}
