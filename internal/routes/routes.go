package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	structValidator "github.com/go-playground/validator/v10"

	"github.com/haguru/jiraiya/internal/apperrors"
	"github.com/haguru/jiraiya/internal/interfaces"
	"github.com/haguru/jiraiya/internal/metrics"
	"github.com/haguru/jiraiya/internal/middleware"
	"github.com/haguru/jiraiya/internal/models/dto"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// Pinger reports database health for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Route struct {
	Metrics      interfaces.Metrics
	UserService  interfaces.UserService
	PostService  interfaces.PostService
	TokenManager interfaces.TokenManager
	Logger       interfaces.Logger
	DB           Pinger
	validator    *structValidator.Validate
}

// NewRoute creates a new Route instance. metrics and db may be nil. The custom
// DTO validation tags are registered on validator.
func NewRoute(metrics interfaces.Metrics, userService interfaces.UserService, postService interfaces.PostService,
	tokens interfaces.TokenManager, validator *structValidator.Validate, logger interfaces.Logger, db Pinger,
) *Route {
	if err := dto.RegisterValidations(validator); err != nil {
		logger.Error("failed to register request validations", "error", err)
	}
	return &Route{
		Metrics:      metrics,
		UserService:  userService,
		PostService:  postService,
		TokenManager: tokens,
		Logger:       logger,
		DB:           db,
		validator:    validator,
	}
}

// Root answers the service greeting.
func (r *Route) Root(w http.ResponseWriter, req *http.Request) {
	r.writeJSON(w, http.StatusOK, dto.MessageResponseDTO{Message: MsgHelloWorld})
}

// Health pings the database.
func (r *Route) Health(w http.ResponseWriter, req *http.Request) {
	if r.DB != nil {
		if err := r.DB.Ping(req.Context()); err != nil {
			r.logger(req).Error("health check failed", "error", err)
			r.errorResponse(w, http.StatusServiceUnavailable, ErrCodeUnavailable, MsgDatabaseDown)
			return
		}
	}
	r.writeJSON(w, http.StatusOK, dto.MessageResponseDTO{Message: MsgHealthy})
}

// decodeJSON checks the content type, decodes req into dst and validates it.
// On failure it writes a 400 and returns false.
func (r *Route) decodeJSON(w http.ResponseWriter, req *http.Request, dst interface{}) bool {
	mediaType, _, err := mime.ParseMediaType(req.Header.Get(ContentType))
	if err != nil || mediaType != ContentTypeJson {
		r.errorResponse(w, http.StatusBadRequest, ErrCodeBadRequest, MsgInvalidMediaType)
		return false
	}

	decoder := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		r.logger(req).Debug("invalid request body", "path", req.URL.Path, "error", err)
		r.errorResponse(w, http.StatusBadRequest, ErrCodeBadRequest, MsgInvalidBody)
		return false
	}

	if err := r.validator.Struct(dst); err != nil {
		var validationErrors structValidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			r.errorResponse(w, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("%s: %s", MsgValidationFailed, validationErrors))
			return false
		}
		r.errorResponse(w, http.StatusBadRequest, ErrCodeBadRequest, MsgValidationFailed)
		return false
	}
	return true
}

// serviceError maps a service error onto its HTTP status. Unknown errors become
// a generic 500 and are logged, never echoed.
func (r *Route) serviceError(w http.ResponseWriter, req *http.Request, err error) string {
	switch {
	case errors.Is(err, apperrors.ErrUsernameTaken):
		r.errorResponse(w, http.StatusBadRequest, ErrCodeUsernameTaken, MsgUsernameTaken)
		return metrics.OutcomeBadRequest
	case errors.Is(err, apperrors.ErrPasswordTooLong):
		r.errorResponse(w, http.StatusBadRequest, ErrCodeBadRequest, MsgPasswordTooLong)
		return metrics.OutcomeBadRequest
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		r.errorResponse(w, http.StatusUnauthorized, ErrCodeUnauthenticated, MsgInvalidLogin)
		return metrics.OutcomeError
	case apperrors.IsUnauthenticated(err):
		w.Header().Set("WWW-Authenticate", "Bearer")
		r.errorResponse(w, http.StatusUnauthorized, ErrCodeUnauthenticated, MsgUnauthenticated)
		return metrics.OutcomeError
	case errors.Is(err, apperrors.ErrPostNotFound):
		r.errorResponse(w, http.StatusNotFound, ErrCodeNotFound, MsgPostNotFound)
		return metrics.OutcomeNotFound
	case errors.Is(err, apperrors.ErrForbidden):
		r.errorResponse(w, http.StatusForbidden, ErrCodeForbidden, MsgNotAuthor)
		return metrics.OutcomeForbidden
	default:
		r.logger(req).Error("request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		r.errorResponse(w, http.StatusInternalServerError, ErrCodeInternal, MsgInternalError)
		return metrics.OutcomeError
	}
}

// logger returns the request-scoped logger set by middleware.LoggingMiddleware.
func (r *Route) logger(req *http.Request) interfaces.Logger {
	return middleware.LoggerFromContext(req.Context(), r.Logger)
}

func (r *Route) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		r.Logger.Error("failed to encode response", "error", err)
	}
}

func (r *Route) errorResponse(w http.ResponseWriter, status int, code, message string) {
	r.writeJSON(w, status, dto.ErrorResponseDTO{
		Error:   code,
		Message: message,
	})
}

func parsePostID(req *http.Request) (int64, error) {
	return strconv.ParseInt(req.PathValue(PostIDPathValue), 10, 64)
}
