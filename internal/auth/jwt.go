package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/osvalr/cantina/internal/domain/apperr"
	"github.com/osvalr/cantina/internal/domain/models"
)

// TokenTTL is how long an issued credential stays valid.
const TokenTTL = 8 * time.Hour

// Claims is the signed payload carried by every bearer token.
type Claims struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and resolves bearer credentials. It is a pure function
// of its secret and the clock; it holds no per-request state.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = TokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given user.
func (m *TokenManager) Issue(user models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Resolve verifies signature and expiry and returns the caller identity.
func (m *TokenManager) Resolve(tokenStr string) (models.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.New(apperr.Unauthenticated, "unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return models.Identity{}, apperr.Wrap(apperr.Unauthenticated, "invalid or expired token", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return models.Identity{}, apperr.New(apperr.Unauthenticated, "malformed token claims")
	}

	return models.Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}

// ResolveHeader extracts and resolves the credential from an
// "Authorization: Bearer <token>" header value.
func (m *TokenManager) ResolveHeader(header string) (models.Identity, error) {
	if header == "" {
		return models.Identity{}, apperr.New(apperr.Unauthenticated, "missing Authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return models.Identity{}, apperr.New(apperr.Unauthenticated, "Authorization header must be 'Bearer <token>'")
	}

	return m.Resolve(parts[1])
}
