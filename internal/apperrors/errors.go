package apperrors

import "errors"

var (
	// ErrUsernameTaken is returned when a user registers a username that already exists.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrPasswordTooLong is returned for passwords longer than the 72 bytes bcrypt accepts.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenMalformed is returned for tokens that cannot be parsed or whose signature does not verify.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenExpired is returned for well-formed tokens past their expiry instant.
	ErrTokenExpired = errors.New("token expired")

	// ErrUserNotFound is returned by user repositories when no user has the given username.
	ErrUserNotFound = errors.New("user not found")

	// ErrPostNotFound is returned when no post has the given id.
	ErrPostNotFound = errors.New("post not found")

	// ErrForbidden is returned when the caller is not the author of the post being mutated.
	ErrForbidden = errors.New("caller is not the author of this post")
)

// IsUnauthenticated reports whether err should surface as a generic unauthenticated outcome.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenExpired)
}
