// Package auth implements the session gate for the socket protocol:
// credential login, per-request token authorization, and role checks.
// No session state is retained between requests; every request is
// re-validated from its token.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/figstore/internal/auth"
	"github.com/heartmarshall/figstore/internal/domain"
)

// userDirectory is the read-only account store the gate resolves users in.
type userDirectory interface {
	FindByUsername(username string) (*domain.User, bool)
	FindByID(id int64) (*domain.User, bool)
}

// tokenManager issues and verifies bearer tokens.
type tokenManager interface {
	Generate(user *domain.User) (string, error)
	Validate(token string) (*auth.Claims, error)
}

// Gate provides authentication and authorization for protocol requests.
type Gate struct {
	users  userDirectory
	tokens tokenManager
	log    *slog.Logger
}

// NewGate creates a new auth gate.
func NewGate(log *slog.Logger, users userDirectory, tokens tokenManager) *Gate {
	return &Gate{
		users:  users,
		tokens: tokens,
		log:    log.With("service", "auth"),
	}
}

// Login verifies the credentials against the user directory and issues a
// token. Unknown username and wrong password both fail with
// domain.ErrUnauthorized, indistinguishably.
func (g *Gate) Login(ctx context.Context, username, password string) (string, error) {
	user, ok := g.users.FindByUsername(username)
	if !ok {
		g.log.WarnContext(ctx, "login failed: unknown user", slog.String("username", username))
		return "", fmt.Errorf("login %s: %w", username, domain.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		g.log.WarnContext(ctx, "login failed: wrong password", slog.String("username", username))
		return "", fmt.Errorf("login %s: %w", username, domain.ErrUnauthorized)
	}

	token, err := g.tokens.Generate(user)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	g.log.InfoContext(ctx, "user logged in", slog.String("username", username))
	return token, nil
}

// Authorize verifies a bearer token and resolves its user against the
// directory. Invalid, expired or orphaned tokens fail with
// domain.ErrUnauthorized.
func (g *Gate) Authorize(ctx context.Context, token string) (*domain.User, error) {
	claims, err := g.tokens.Validate(token)
	if err != nil {
		g.log.WarnContext(ctx, "token rejected", slog.String("error", err.Error()))
		return nil, fmt.Errorf("authorize: %w", domain.ErrUnauthorized)
	}

	user, ok := g.users.FindByID(claims.UserID)
	if !ok {
		g.log.WarnContext(ctx, "token user not in directory", slog.Int64("user_id", claims.UserID))
		return nil, fmt.Errorf("authorize user %d: %w", claims.UserID, domain.ErrUnauthorized)
	}

	return user, nil
}

// RequireRole checks that the user holds the given role.
// Violation fails with domain.ErrForbidden.
func (g *Gate) RequireRole(user *domain.User, role domain.Role) error {
	if user.Role != role {
		return fmt.Errorf("user %s requires role %s: %w", user.Username, role, domain.ErrForbidden)
	}
	return nil
}
