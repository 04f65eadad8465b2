package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/haguru/jiraiya/internal/interfaces"
	"github.com/haguru/jiraiya/internal/models/dto"
)

const (
	SessionCookieName = "session_token"
	BearerScheme      = "Bearer"

	MsgUnauthenticated = "Could not validate credentials"
)

type contextKey string

const usernameKey contextKey = "username"

// WithUsername returns a copy of ctx carrying the authenticated username.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// UsernameFromContext returns the username stored by RequireAuth.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok && username != ""
}

// RequireAuth verifies the bearer token of every request before calling next.
// The Authorization header wins over the session cookie. Every failure is a
// uniform 401 so callers cannot tell an expired token from a forged one.
// onFailure, when non-nil, runs for every rejected request.
func RequireAuth(tokens interfaces.TokenManager, logger interfaces.Logger, onFailure func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				unauthorized(w, onFailure)
				return
			}

			username, err := tokens.VerifyToken(token)
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "error", err)
				unauthorized(w, onFailure)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUsername(r.Context(), username)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, BearerScheme) {
			return ""
		}
		return strings.TrimSpace(token)
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter, onFailure func()) {
	if onFailure != nil {
		onFailure()
	}
	w.Header().Set("WWW-Authenticate", BearerScheme)
	writeJSON(w, http.StatusUnauthorized, dto.ErrorResponseDTO{
		Error:   "unauthenticated",
		Message: MsgUnauthenticated,
	})
}
