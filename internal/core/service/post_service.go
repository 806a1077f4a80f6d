package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sudalaiyandi2004/cyber-backend/internal/core/domain"
	"github.com/sudalaiyandi2004/cyber-backend/internal/core/ports"
)

// PostService implements post CRUD with ownership enforcement and the media
// attachment lifecycle.
type PostService struct {
	posts  ports.PostRepository
	users  ports.AuthRepository
	media  ports.MediaStore
	logger zerolog.Logger
}

func NewPostService(posts ports.PostRepository, users ports.AuthRepository, media ports.MediaStore, logger zerolog.Logger) *PostService {
	return &PostService{posts: posts, users: users, media: media, logger: logger}
}

// CreatePost stores a new post owned by input.OwnerID. When an attachment is
// present it is uploaded first and its URL and deletion handle recorded on
// the post.
func (s *PostService) CreatePost(ctx context.Context, input ports.CreatePostInput) (*domain.Post, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, domain.ErrContentRequired
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Content:   input.Content,
		CreatedBy: input.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.Attachment != nil {
		up, err := s.media.Upload(ctx, input.Attachment.Filename, input.Attachment.ContentType, input.Attachment.Reader, input.Attachment.Size)
		if err != nil {
			s.logger.Error().Err(err).Str("owner_id", input.OwnerID).Msg("media upload failed")
			return nil, err
		}
		post.ImageURL = up.URL
		post.ImageKey = up.Key
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create post")
		return nil, err
	}

	s.logger.Info().Str("post_id", created.ID).Str("owner_id", input.OwnerID).Msg("post created")
	return created, nil
}

// ListPosts returns all posts newest first with each owner's summary
// resolved. Owner lookups are cached per call since many posts share owners.
func (s *PostService) ListPosts(ctx context.Context) ([]*ports.PostWithOwner, error) {
	posts, err := s.posts.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	owners := make(map[string]*domain.User, len(posts))
	out := make([]*ports.PostWithOwner, 0, len(posts))
	for _, p := range posts {
		owner, seen := owners[p.CreatedBy]
		if !seen {
			owner, err = s.users.FindByID(ctx, p.CreatedBy)
			if err != nil {
				// Orphaned owner reference: keep the post, leave
				// the owner summary empty.
				owner = nil
			}
			owners[p.CreatedBy] = owner
		}
		out = append(out, &ports.PostWithOwner{Post: p, Owner: owner})
	}
	return out, nil
}

// MyPosts returns the caller's account summary and their posts.
func (s *PostService) MyPosts(ctx context.Context, callerID string) (*ports.UserPosts, error) {
	user, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.FindByOwner(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return &ports.UserPosts{User: user, Posts: posts}, nil
}

// UpdatePost applies a partial update. Only the owner or an admin may update.
// When the attachment is replaced, the previous asset is deleted from the
// media store first; a failure there is logged and swallowed so the primary
// state change is never blocked.
func (s *PostService) UpdatePost(ctx context.Context, input ports.UpdatePostInput) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, input.PostID)
	if err != nil {
		return nil, err
	}
	if !post.CanModify(input.CallerID, input.CallerRole) {
		return nil, domain.ErrForbidden
	}

	if input.Content != nil {
		if strings.TrimSpace(*input.Content) == "" {
			return nil, domain.ErrContentRequired
		}
		post.Content = *input.Content
	}

	if input.Attachment != nil {
		if post.ImageKey != "" {
			if err := s.media.Delete(ctx, post.ImageKey); err != nil {
				s.logger.Warn().Err(err).Str("post_id", post.ID).Str("image_key", post.ImageKey).Msg("failed to delete replaced media")
			}
		}
		up, err := s.media.Upload(ctx, input.Attachment.Filename, input.Attachment.ContentType, input.Attachment.Reader, input.Attachment.Size)
		if err != nil {
			s.logger.Error().Err(err).Str("post_id", post.ID).Msg("media upload failed")
			return nil, err
		}
		post.ImageURL = up.URL
		post.ImageKey = up.Key
	}

	post.UpdatedAt = time.Now().UTC()
	if err := s.posts.Update(ctx, post); err != nil {
		s.logger.Error().Err(err).Str("post_id", post.ID).Msg("failed to update post")
		return nil, err
	}

	s.logger.Info().Str("post_id", post.ID).Str("caller_id", input.CallerID).Msg("post updated")
	return post, nil
}

// DeletePost permanently removes a post. Only the owner or an admin may
// delete. The associated media asset is removed best-effort beforehand.
func (s *PostService) DeletePost(ctx context.Context, input ports.DeletePostInput) error {
	post, err := s.posts.FindByID(ctx, input.PostID)
	if err != nil {
		return err
	}
	if !post.CanModify(input.CallerID, input.CallerRole) {
		return domain.ErrForbidden
	}

	if post.ImageKey != "" {
		if err := s.media.Delete(ctx, post.ImageKey); err != nil {
			s.logger.Warn().Err(err).Str("post_id", post.ID).Str("image_key", post.ImageKey).Msg("failed to delete post media")
		}
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		s.logger.Error().Err(err).Str("post_id", post.ID).Msg("failed to delete post")
		return err
	}

	s.logger.Info().Str("post_id", post.ID).Str("caller_id", input.CallerID).Msg("post deleted")
	return nil
}
