package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingOwner = errors.New("owner id required")
	ErrNoSecret     = errors.New("token secret not configured")
)

// TokenManager handles owner token generation and validation.
type TokenManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// Claims represents the custom JWT claims for an owner token.
type Claims struct {
	OwnerID string `json:"owner_id"`
	jwt.RegisteredClaims
}

// NewTokenManager creates a token manager with the given secret and token duration.
// secretKey should be a strong random string (e.g., 32 bytes).
func NewTokenManager(secretKey string, tokenDuration time.Duration) *TokenManager {
	return &TokenManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// Generate creates a signed token for the given owner.
func (m *TokenManager) Generate(ownerID string) (string, error) {
	if len(m.secretKey) == 0 {
		return "", ErrNoSecret
	}
	if strings.TrimSpace(ownerID) == "" {
		return "", ErrMissingOwner
	}

	now := m.now()
	claims := &Claims{
		OwnerID: ownerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate parses and validates a token, returning the claims if valid.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	if len(m.secretKey) == 0 {
		return nil, ErrNoSecret
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Verify the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.OwnerID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// BearerResolver reads the owner from an "Authorization: Bearer <token>" header.
type BearerResolver struct {
	tokens *TokenManager
}

// NewBearerResolver returns a resolver backed by tokens.
func NewBearerResolver(tokens *TokenManager) *BearerResolver {
	return &BearerResolver{tokens: tokens}
}

// Enabled reports whether a signing secret is configured.
func (b *BearerResolver) Enabled() bool {
	return b.tokens != nil && len(b.tokens.secretKey) > 0
}

// ResolveOwner implements OwnerResolver. It never yields an owner while disabled.
func (b *BearerResolver) ResolveOwner(r *http.Request) (string, bool) {
	if !b.Enabled() {
		return "", false
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	// Parse Bearer token
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	claims, err := b.tokens.Validate(strings.TrimSpace(parts[1]))
	if err != nil {
		slog.Debug("Rejected bearer token", "error", err)
		return "", false
	}
	return claims.OwnerID, true
}
