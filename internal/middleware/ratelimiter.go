package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/haguru/jiraiya/internal/models/dto"
)

const MsgTooManyRequests = "Too many requests. Please try again later."

// RateLimitMiddleware rejects requests with 429 once limiter is exhausted.
// onLimited, when non-nil, runs for every rejected request.
func RateLimitMiddleware(limiter *rate.Limiter, onLimited func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				if onLimited != nil {
					onLimited()
				}
				writeJSON(w, http.StatusTooManyRequests, dto.RateLimitResponse{Message: MsgTooManyRequests})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
