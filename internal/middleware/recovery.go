package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/haguru/jiraiya/internal/interfaces"
	"github.com/haguru/jiraiya/internal/models/dto"
)

// RecoveryMiddleware turns a handler panic into a generic 500.
func RecoveryMiddleware(logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic recovered",
						"path", r.URL.Path,
						"panic", fmt.Sprint(rec),
						"stack", string(debug.Stack()),
					)
					writeJSON(w, http.StatusInternalServerError, dto.ErrorResponseDTO{
						Error:   "internal_error",
						Message: "Internal server error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
