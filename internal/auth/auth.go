package auth

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/haguru/jiraiya/internal/apperrors"
)

const (
	ISSUER = "github.com/haguru/jiraiya"
	// TokenTTL is fixed; there is no refresh token, callers log in again.
	TokenTTL = 30 * time.Minute

	AlgorithmHS256 = "HS256"
	AlgorithmES256 = "ES256"
)

// CustomClaims carries the username in the registered subject claim.
type CustomClaims struct {
	jwt.RegisteredClaims
}

// JWTManager issues and verifies signed bearer tokens. It keeps no state
// besides the key, so any holder of the key can verify a token.
type JWTManager struct {
	method    jwt.SigningMethod
	signKey   interface{}
	verifyKey interface{}
	issuer    string
	ttl       time.Duration
	now       func() time.Time
}

// Option configures a JWTManager.
type Option func(*JWTManager)

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(m *JWTManager) {
		m.now = now
	}
}

// WithIssuer overrides the iss claim.
func WithIssuer(issuer string) Option {
	return func(m *JWTManager) {
		if issuer != "" {
			m.issuer = issuer
		}
	}
}

// NewHMACManager signs tokens with HS256 using a server-held secret.
func NewHMACManager(secret []byte, opts ...Option) (*JWTManager, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("secret key must not be empty")
	}
	return newManager(jwt.SigningMethodHS256, secret, secret, opts...), nil
}

// NewECDSAManager signs tokens with ES256 using privateKey.
func NewECDSAManager(privateKey *ecdsa.PrivateKey, opts ...Option) (*JWTManager, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("private key must not be nil")
	}
	return newManager(jwt.SigningMethodES256, privateKey, &privateKey.PublicKey, opts...), nil
}

func newManager(method jwt.SigningMethod, signKey, verifyKey interface{}, opts ...Option) *JWTManager {
	m := &JWTManager{
		method:    method,
		signKey:   signKey,
		verifyKey: verifyKey,
		issuer:    ISSUER,
		ttl:       TokenTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateToken returns a token for userName expiring TokenTTL from now.
func (m *JWTManager) CreateToken(userName string) (string, error) {
	now := m.now()
	claims := CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   userName,
			Audience:  []string{"api" + m.issuer},
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(m.method, claims)

	signToken, err := token.SignedString(m.signKey)
	if err != nil {
		return "", err
	}

	return signToken, nil
}

// VerifyToken returns the subject of tokenString. Expired tokens yield
// apperrors.ErrTokenExpired; every other failure yields apperrors.ErrTokenMalformed.
func (m *JWTManager) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.verifyKey, nil
	},
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience("api"+m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %v", apperrors.ErrTokenExpired, err)
		}
		return "", fmt.Errorf("%w: %v", apperrors.ErrTokenMalformed, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("%w: invalid token or claims", apperrors.ErrTokenMalformed)
	}

	return claims.Subject, nil
}
