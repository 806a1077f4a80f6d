package ports

import (
	"context"

	"github.com/sudalaiyandi2004/cyber-backend/internal/core/domain"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// FindAll returns every post sorted by creation time descending.
	FindAll(ctx context.Context) ([]*domain.Post, error)
	// FindByOwner returns the posts created by ownerID, newest first.
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Post, error)
	Update(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, id string) error
}
