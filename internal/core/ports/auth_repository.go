package ports

import (
	"context"

	"github.com/sudalaiyandi2004/cyber-backend/internal/core/domain"
)

// AuthRepository defines the interface for user persistence.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
