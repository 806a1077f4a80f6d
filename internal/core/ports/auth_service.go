package ports

import (
	"context"

	"github.com/sudalaiyandi2004/cyber-backend/internal/core/domain"
)

// Claims are the identity assertions carried by a session token.
type Claims struct {
	UserID string
	Role   string
}

type AuthService interface {
	Register(ctx context.Context, username, email, password, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// VerifyToken checks the token signature and expiry and returns the
	// embedded claims. Returns domain.ErrInvalidCredentials on any failure.
	VerifyToken(token string) (*Claims, error)
}

// LoginThrottle limits repeated login attempts per account identifier.
type LoginThrottle interface {
	// Allow records an attempt for key and reports whether it is within
	// the allowed rate.
	Allow(ctx context.Context, key string) (bool, error)
	// Reset clears the attempt counter after a successful login.
	Reset(ctx context.Context, key string) error
}
