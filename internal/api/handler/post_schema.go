package handler

import (
	"time"

	"github.com/sudalaiyandi2004/cyber-backend/internal/core/domain"
	"github.com/sudalaiyandi2004/cyber-backend/internal/core/ports"
)

// Response-only types owned by the transport layer. These are intentionally
// separate from domain types so the JSON contract is not coupled to internal
// changes; in particular the media deletion handle is never serialized.

type postResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// postOwnerResponse is the populated owner summary in list responses.
type postOwnerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// postListItemResponse is a post with its owner resolved.
type postListItemResponse struct {
	postResponse
	Owner *postOwnerResponse `json:"owner,omitempty"`
}

type updatePostRequest struct {
	// Content is nullable: omitted means "leave unchanged". omitnil skips
	// only the nil case, so an explicit empty string still fails min=1 and
	// content can never be silently cleared.
	Content *string `json:"content" validate:"omitnil,min=1"`
}

type deletePostResponse struct {
	Message string `json:"message"`
}

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPostListItem(pw *ports.PostWithOwner) postListItemResponse {
	item := postListItemResponse{postResponse: toPostResponse(pw.Post)}
	if pw.Owner != nil {
		item.Owner = &postOwnerResponse{ID: pw.Owner.ID, Username: pw.Owner.Username}
	}
	return item
}
