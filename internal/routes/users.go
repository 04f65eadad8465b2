package routes

import (
	"net/http"
	"time"

	"github.com/haguru/jiraiya/internal/auth"
	"github.com/haguru/jiraiya/internal/metrics"
	"github.com/haguru/jiraiya/internal/middleware"
	"github.com/haguru/jiraiya/internal/models/dto"
)

// Signup handles user signup requests.
func (r *Route) Signup(w http.ResponseWriter, req *http.Request) {
	r.incCounter(metrics.SignupRequestsTotal)
	startTime := time.Now()

	signupRequest := &dto.UserSignupRequestDTO{}
	if !r.decodeJSON(w, req, signupRequest) {
		r.incCounter(metrics.SignupErrorsTotal)
		return
	}

	if err := r.UserService.RegisterUser(req.Context(), signupRequest.Username, signupRequest.Password); err != nil {
		r.serviceError(w, req, err)
		r.incCounter(metrics.SignupErrorsTotal)
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(metrics.SignupSuccessTotal)
		r.Metrics.ObserveHistogram(metrics.SignupDurationSeconds, time.Since(startTime).Seconds())
	}

	r.writeJSON(w, http.StatusOK, dto.UserSignupResponseDTO{Message: MsgUserCreated})
}

// Login handles user login requests. The token is returned in the body and
// also set as an HttpOnly session cookie.
func (r *Route) Login(w http.ResponseWriter, req *http.Request) {
	r.incCounter(metrics.LoginRequestsTotal)
	startTime := time.Now()

	loginRequest := &dto.LoginRequestDTO{}
	if !r.decodeJSON(w, req, loginRequest) {
		r.incCounter(metrics.LoginFailedTotal)
		return
	}

	user, err := r.UserService.AuthenticateUser(req.Context(), loginRequest.Username, loginRequest.Password)
	if r.Metrics != nil {
		r.Metrics.ObserveHistogram(metrics.LoginDurationSeconds, time.Since(startTime).Seconds())
	}
	if err != nil {
		r.serviceError(w, req, err)
		r.incCounter(metrics.LoginFailedTotal)
		return
	}

	sessionToken, err := r.TokenManager.CreateToken(user.Username)
	if err != nil {
		r.serviceError(w, req, err)
		r.incCounter(metrics.LoginFailedTotal)
		return
	}
	r.incCounter(metrics.LoginSuccessTotal)

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		MaxAge:   int(auth.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   req.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	r.writeJSON(w, http.StatusOK, dto.LoginResponseDTO{
		AccessToken: sessionToken,
		TokenType:   TokenTypeBearer,
		Username:    user.Username,
	})
}

func (r *Route) incCounter(name string) {
	if r.Metrics != nil {
		r.Metrics.IncCounter(name)
	}
}
