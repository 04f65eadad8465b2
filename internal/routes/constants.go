package routes

const (
	// API route patterns
	RootRouteAPI    = "GET /{$}"
	HealthRouteAPI  = "GET /healthz"
	MetricsRouteAPI = "GET /metrics"
	SignupRouteAPI  = "POST /api/signup/"
	LoginRouteAPI   = "POST /api/login/"
	CreatePostAPI   = "POST /api/posts/{$}"
	ListPostsAPI    = "GET /api/posts/{$}"
	GetPostAPI      = "GET /api/posts/{id}"
	UpdatePostAPI   = "PUT /api/posts/{id}"
	DeletePostAPI   = "DELETE /api/posts/{id}"

	PostIDPathValue = "id"

	// Content-Type constants
	ContentType     = "Content-Type"
	ContentTypeJson = "application/json"

	TokenTypeBearer = "bearer"

	// message constants
	MsgHelloWorld       = "Hello, World!"
	MsgUserCreated      = "User created successfully"
	MsgPostDeleted      = "Post deleted"
	MsgHealthy          = "ok"
	MsgUsernameTaken    = "Username already exists"
	MsgInvalidLogin     = "Invalid credentials"
	MsgPasswordTooLong  = "Password must not exceed 72 bytes"
	MsgUnauthenticated  = "Could not validate credentials"
	MsgPostNotFound     = "Post not found"
	MsgNotAuthor        = "You are not the author of this post"
	MsgInvalidPostID    = "Invalid post id"
	MsgInternalError    = "Internal server error"
	MsgValidationFailed = "Request data validation failed"
	MsgInvalidBody      = "Invalid request body"
	MsgInvalidMediaType = "Request Content-Type must be application/json"
	MsgDatabaseDown     = "Database unavailable"

	// error codes carried in the "error" field
	ErrCodeBadRequest      = "bad_request"
	ErrCodeUsernameTaken   = "username_taken"
	ErrCodeUnauthenticated = "unauthenticated"
	ErrCodeForbidden       = "forbidden"
	ErrCodeNotFound        = "not_found"
	ErrCodeInternal        = "internal_error"
	ErrCodeUnavailable     = "unavailable"

	// post operation label values
	OpCreate = "create"
	OpList   = "list"
	OpGet    = "get"
	OpUpdate = "update"
	OpDelete = "delete"
)
