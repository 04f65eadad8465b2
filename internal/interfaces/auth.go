package interfaces

// PasswordHasher hashes passwords one way and verifies them in constant time.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenManager issues and verifies stateless bearer tokens.
type TokenManager interface {
	// CreateToken returns a signed token whose subject is username.
	CreateToken(username string) (string, error)
	// VerifyToken returns the subject of a valid token, or
	// apperrors.ErrTokenMalformed / apperrors.ErrTokenExpired.
	VerifyToken(token string) (string, error)
}
