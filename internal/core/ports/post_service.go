package ports

import (
	"context"
	"io"

	"github.com/sudalaiyandi2004/cyber-backend/internal/core/domain"
)

// AttachmentInput carries an uploaded file from the transport layer.
type AttachmentInput struct {
	Filename    string
	ContentType string
	Reader      io.Reader
	Size        int64
}

// CreatePostInput carries all data needed to create a post. OwnerID always
// comes from the verified token claims, never from the request body.
type CreatePostInput struct {
	Content    string
	OwnerID    string
	Attachment *AttachmentInput // optional
}

// UpdatePostInput carries a partial post update. A nil Content means "leave
// unchanged"; an empty non-nil Content is rejected upstream by validation so
// content can never be silently cleared.
type UpdatePostInput struct {
	PostID     string
	CallerID   string
	CallerRole string
	Content    *string
	Attachment *AttachmentInput // optional replacement
}

// DeletePostInput identifies the post to delete and the caller.
type DeletePostInput struct {
	PostID     string
	CallerID   string
	CallerRole string
}

// PostWithOwner pairs a post with its resolved owner summary.
type PostWithOwner struct {
	Post  *domain.Post
	Owner *domain.User // nil when the owner record no longer resolves
}

// UserPosts is the caller's account summary together with their posts.
type UserPosts struct {
	User  *domain.User
	Posts []*domain.Post
}

// PostService defines use-case operations for posts.
type PostService interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*domain.Post, error)
	// ListPosts returns all posts, owner-populated, newest first.
	ListPosts(ctx context.Context) ([]*PostWithOwner, error)
	// MyPosts returns the caller's user summary and their posts.
	MyPosts(ctx context.Context, callerID string) (*UserPosts, error)
	UpdatePost(ctx context.Context, input UpdatePostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, input DeletePostInput) error
}
