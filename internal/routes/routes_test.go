package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/haguru/jiraiya/internal/apperrors"
	"github.com/haguru/jiraiya/internal/auth"
	"github.com/haguru/jiraiya/internal/interfaces"
	apimetrics "github.com/haguru/jiraiya/internal/metrics"
	"github.com/haguru/jiraiya/internal/models"
	"github.com/haguru/jiraiya/internal/models/dto"
	postrepo "github.com/haguru/jiraiya/internal/postrepo/sqlite"
	"github.com/haguru/jiraiya/internal/postservice"
	"github.com/haguru/jiraiya/internal/server"
	userrepo "github.com/haguru/jiraiya/internal/userrepo/sqlite"
	"github.com/haguru/jiraiya/internal/userservice"
	"github.com/haguru/jiraiya/pkg/databases/sqlite"
	pkgmetrics "github.com/haguru/jiraiya/pkg/metrics"
	"github.com/haguru/jiraiya/pkg/zerolog"
)

var (
	testSecret = []byte("routes-test-secret-0123456789abcdef")
	testNow    = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
)

type testAPI struct {
	handler http.Handler
	metrics interfaces.Metrics
	tokens  *auth.JWTManager
}

// newTestAPI wires the real stack on an in-memory SQLite database.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	logger := zerolog.NewNopLogger()

	db := sqlite.NewSQLiteDatabaseClient(logger)
	require.NoError(t, db.Connect(ctx, sqlite.MemoryDSN))
	t.Cleanup(func() { _ = db.Disconnect(ctx) })

	users, err := userrepo.NewSQLiteUserRepository(db)
	require.NoError(t, err)
	posts, err := postrepo.NewSQLitePostRepository(db)
	require.NoError(t, err)

	userService, err := userservice.NewUserService(users, auth.NewBcryptHasher(bcrypt.MinCost), logger)
	require.NoError(t, err)
	postService := postservice.NewPostService(posts, logger)

	tokens, err := auth.NewHMACManager(testSecret, auth.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)

	m := pkgmetrics.NewMetrics("jiraiya_test")
	apimetrics.RegisterAPIMetrics(m)

	route := NewRoute(m, userService, postService, tokens, structValidator.New(), logger, db)
	srv := server.NewServer("localhost", "0", logger)
	require.NoError(t, route.Register(srv, nil))

	return &testAPI{handler: srv.Handler(), metrics: m, tokens: tokens}
}

func (a *testAPI) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(ContentType, ContentTypeJson)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

func (a *testAPI) signupAndLogin(t *testing.T, username, password string) string {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/api/signup/", "", `{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = a.do(t, http.MethodPost, "/api/login/", "", `{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp dto.LoginResponseDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.AccessToken
}

func decodePost(t *testing.T, rr *httptest.ResponseRecorder) dto.PostResponseDTO {
	t.Helper()
	var post dto.PostResponseDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &post), rr.Body.String())
	return post
}

func TestRoute_Root(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Hello, World!"}`, rr.Body.String())

	rr = api.do(t, http.MethodGet, "/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRoute_Health(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"ok"}`, rr.Body.String())
}

func TestRoute_Signup(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		existing    bool
		wantStatus  int
		wantBody    string
	}{
		{
			name:        "valid signup",
			contentType: ContentTypeJson,
			body:        `{"username":"alice","password":"pw1"}`,
			wantStatus:  http.StatusOK,
			wantBody:    `{"message":"User created successfully"}`,
		},
		{
			name:        "content type with charset",
			contentType: "application/json; charset=utf-8",
			body:        `{"username":"alice","password":"pw1"}`,
			wantStatus:  http.StatusOK,
		},
		{
			name:        "username taken",
			contentType: ContentTypeJson,
			body:        `{"username":"alice","password":"other"}`,
			existing:    true,
			wantStatus:  http.StatusBadRequest,
			wantBody:    `{"error":"username_taken","message":"Username already exists"}`,
		},
		{
			name:        "wrong content type",
			contentType: "text/plain",
			body:        `{"username":"alice","password":"pw1"}`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "malformed json",
			contentType: ContentTypeJson,
			body:        `{"username":`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "username too short",
			contentType: ContentTypeJson,
			body:        `{"username":"al","password":"pw1"}`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "missing password",
			contentType: ContentTypeJson,
			body:        `{"username":"alice"}`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "multibyte password over 72 bytes",
			contentType: ContentTypeJson,
			body:        `{"username":"alice","password":"` + strings.Repeat("é", 40) + `"}`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "multibyte password within 72 bytes",
			contentType: ContentTypeJson,
			body:        `{"username":"alice","password":"` + strings.Repeat("é", 36) + `"}`,
			wantStatus:  http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			if tt.existing {
				api.signupAndLogin(t, "alice", "pw1")
			}

			req := httptest.NewRequest(http.MethodPost, "/api/signup/", strings.NewReader(tt.body))
			req.Header.Set(ContentType, tt.contentType)
			rr := httptest.NewRecorder()
			api.handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rr.Body.String())
			}
		})
	}
}

func TestRoute_Signup_MethodNotAllowed(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodGet, "/api/signup/", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRoute_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid credentials",
			body:       `{"username":"alice","password":"pw1"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong password",
			body:       `{"username":"alice","password":"nope"}`,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"unauthenticated","message":"Invalid credentials"}`,
		},
		{
			name:       "unknown user looks the same",
			body:       `{"username":"ghost","password":"pw1"}`,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"unauthenticated","message":"Invalid credentials"}`,
		},
		{
			name:       "invalid body",
			body:       `[]`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "multibyte password over 72 bytes",
			body:       `{"username":"alice","password":"` + strings.Repeat("é", 40) + `"}`,
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			rr := api.do(t, http.MethodPost, "/api/signup/", "", `{"username":"alice","password":"pw1"}`)
			require.Equal(t, http.StatusOK, rr.Code)

			rr = api.do(t, http.MethodPost, "/api/login/", "", tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rr.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				assert.Empty(t, rr.Result().Cookies())
				return
			}

			var resp dto.LoginResponseDTO
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "bearer", resp.TokenType)
			assert.Equal(t, "alice", resp.Username)

			subject, err := api.tokens.VerifyToken(resp.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, "alice", subject)

			cookies := rr.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, "session_token", cookies[0].Name)
			assert.Equal(t, resp.AccessToken, cookies[0].Value)
			assert.True(t, cookies[0].HttpOnly)
		})
	}
}

func TestRoute_Metrics(t *testing.T) {
	api := newTestAPI(t)
	api.signupAndLogin(t, "alice", "pw1")

	rr := api.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "jiraiya_test_signup_success_total 1")
	assert.Contains(t, rr.Body.String(), "jiraiya_test_login_success_total 1")
}

// failingPostService fails every call with an internal error.
type failingPostService struct{ err error }

func (f failingPostService) CreatePost(context.Context, string, dto.PostRequestDTO) (*models.Post, error) {
	return nil, f.err
}
func (f failingPostService) ListPosts(context.Context) ([]models.Post, error) { return nil, f.err }
func (f failingPostService) GetPost(context.Context, int64) (*models.Post, error) {
	return nil, f.err
}
func (f failingPostService) UpdatePost(context.Context, int64, string, dto.PostRequestDTO) (*models.Post, error) {
	return nil, f.err
}
func (f failingPostService) DeletePost(context.Context, int64, string) error { return f.err }

func TestRoute_InternalErrorsAreNotEchoed(t *testing.T) {
	route := NewRoute(nil, nil, failingPostService{err: errors.New("pq: connection refused to 10.0.0.5")},
		nil, structValidator.New(), zerolog.NewNopLogger(), nil)

	rr := httptest.NewRecorder()
	route.ListPosts(rr, httptest.NewRequest(http.MethodGet, "/api/posts/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal_error","message":"Internal server error"}`, rr.Body.String())
}

func TestRoute_ServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "username taken", err: apperrors.ErrUsernameTaken, wantStatus: http.StatusBadRequest, wantCode: ErrCodeUsernameTaken},
		{name: "password too long", err: fmt.Errorf("hash: %w", apperrors.ErrPasswordTooLong), wantStatus: http.StatusBadRequest, wantCode: ErrCodeBadRequest},
		{name: "invalid credentials", err: apperrors.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantCode: ErrCodeUnauthenticated},
		{name: "expired token", err: apperrors.ErrTokenExpired, wantStatus: http.StatusUnauthorized, wantCode: ErrCodeUnauthenticated},
		{name: "post not found", err: apperrors.ErrPostNotFound, wantStatus: http.StatusNotFound, wantCode: ErrCodeNotFound},
		{name: "forbidden", err: apperrors.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: ErrCodeForbidden},
		{name: "anything else", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: ErrCodeInternal},
	}
	route := NewRoute(nil, nil, nil, nil, structValidator.New(), zerolog.NewNopLogger(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			route.serviceError(rr, httptest.NewRequest(http.MethodPost, "/api/signup/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			var body dto.ErrorResponseDTO
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Error)
		})
	}
}

func TestRoute_MutationsWithoutIdentity(t *testing.T) {
	route := NewRoute(nil, nil, failingPostService{err: errors.New("unreachable")},
		nil, structValidator.New(), zerolog.NewNopLogger(), nil)

	rr := httptest.NewRecorder()
	route.CreatePost(rr, httptest.NewRequest(http.MethodPost, "/api/posts/", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func newJSONRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(ContentType, ContentTypeJson)
	return req
}

func serve(api *testAPI, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	api.handler.ServeHTTP(rr, req)
	return rr
}
