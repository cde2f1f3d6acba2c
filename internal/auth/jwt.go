// Package auth handles token generation and validation for the socket
// protocol's bearer credentials.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heartmarshall/figstore/internal/domain"
)

// Claims are the decoded contents of an access token.
type Claims struct {
	UserID   int64
	Username string
	Role     domain.Role
}

// JWTManager issues and validates HS256 access tokens.
type JWTManager struct {
	secret   []byte
	issuer   string
	tokenTTL time.Duration
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret string, issuer string, tokenTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:   []byte(secret),
		issuer:   issuer,
		tokenTTL: tokenTTL,
	}
}

// accessClaims extends standard JWT claims with the user identity fields
// carried on the wire protocol's tokens.
type accessClaims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"userid"`
	Username string `json:"username"`
	Role     string `json:"rol"`
}

// Generate creates a signed HS256 JWT carrying the user's id, username and
// role, with issued-at and expiry timestamps.
func (m *JWTManager) Generate(user *domain.User) (string, error) {
	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Validate parses and validates an access token. Expiry is enforced
// unconditionally: a token without an exp claim, or with one in the past,
// is rejected no matter how it was signed.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	role := domain.Role(claims.Role)
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role claim %q", claims.Role)
	}

	return &Claims{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     role,
	}, nil
}
