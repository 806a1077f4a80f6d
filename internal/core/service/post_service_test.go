package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sudalaiyandi2004/cyber-backend/internal/core/domain"
	"github.com/sudalaiyandi2004/cyber-backend/internal/core/ports"
)

type stubPostRepo struct {
	posts  map[string]*domain.Post
	nextID int
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func clonePost(p *domain.Post) *domain.Post {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) (*domain.Post, error) {
	r.nextID++
	created := clonePost(p)
	created.ID = fmt.Sprintf("post-%d", r.nextID)
	r.posts[created.ID] = clonePost(created)
	return created, nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *stubPostRepo) FindAll(_ context.Context) ([]*domain.Post, error) {
	out := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubPostRepo) FindByOwner(_ context.Context, ownerID string) ([]*domain.Post, error) {
	all, _ := r.FindAll(context.Background())
	out := make([]*domain.Post, 0)
	for _, p := range all {
		if p.CreatedBy == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPostRepo) Update(_ context.Context, p *domain.Post) error {
	if _, ok := r.posts[p.ID]; !ok {
		return domain.ErrPostNotFound
	}
	r.posts[p.ID] = clonePost(p)
	return nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

type stubMediaStore struct {
	uploads int
	deleted []string
	failDel bool
	assets  map[string]bool
}

func newStubMediaStore() *stubMediaStore {
	return &stubMediaStore{assets: make(map[string]bool)}
}

func (m *stubMediaStore) Upload(_ context.Context, filename, _ string, r io.Reader, _ int64) (*ports.MediaUpload, error) {
	_, _ = io.ReadAll(r)
	m.uploads++
	key := fmt.Sprintf("asset-%d-%s", m.uploads, filename)
	m.assets[key] = true
	return &ports.MediaUpload{URL: "http://media.local/" + key, Key: key}, nil
}

func (m *stubMediaStore) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	if m.failDel {
		return errors.New("delete failed")
	}
	delete(m.assets, key)
	return nil
}

func attachment(name string) *ports.AttachmentInput {
	return &ports.AttachmentInput{
		Filename:    name,
		ContentType: "image/png",
		Reader:      strings.NewReader("png-bytes"),
		Size:        9,
	}
}

func newPostService(posts *stubPostRepo, users *stubUserRepo, media *stubMediaStore) *PostService {
	return NewPostService(posts, users, media, zerolog.Nop())
}

func seedUser(t *testing.T, users *stubUserRepo, username string) *domain.User {
	t.Helper()
	u, err := users.Create(context.Background(), &domain.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestPostService_CreatePost_RequiresContent(t *testing.T) {
	posts := newStubPostRepo()
	svc := newPostService(posts, newStubUserRepo(), newStubMediaStore())

	if _, err := svc.CreatePost(context.Background(), ports.CreatePostInput{Content: "   ", OwnerID: "u1"}); !errors.Is(err, domain.ErrContentRequired) {
		t.Fatalf("expected ErrContentRequired, got %v", err)
	}
	if len(posts.posts) != 0 {
		t.Fatalf("expected no post created, got %d", len(posts.posts))
	}
}

func TestPostService_CreatePost_WithAttachment(t *testing.T) {
	posts := newStubPostRepo()
	media := newStubMediaStore()
	svc := newPostService(posts, newStubUserRepo(), media)

	post, err := svc.CreatePost(context.Background(), ports.CreatePostInput{
		Content:    "hello",
		OwnerID:    "u1",
		Attachment: attachment("pic.png"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if post.CreatedBy != "u1" {
		t.Fatalf("expected owner u1, got %q", post.CreatedBy)
	}
	if post.ImageURL == "" || post.ImageKey == "" {
		t.Fatalf("expected media url and key recorded, got %+v", post)
	}
	if media.uploads != 1 {
		t.Fatalf("expected 1 upload, got %d", media.uploads)
	}
}

func TestPostService_ListPosts_NewestFirstWithOwners(t *testing.T) {
	posts := newStubPostRepo()
	users := newStubUserRepo()
	alice := seedUser(t, users, "alice")
	svc := newPostService(posts, users, newStubMediaStore())

	base := time.Now().UTC()
	p1 := &domain.Post{Content: "first", CreatedBy: alice.ID, CreatedAt: base.Add(1 * time.Second)}
	p2 := &domain.Post{Content: "second", CreatedBy: alice.ID, CreatedAt: base.Add(2 * time.Second)}
	_, _ = posts.Create(context.Background(), p1)
	_, _ = posts.Create(context.Background(), p2)

	listed, err := svc.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(listed))
	}
	if listed[0].Post.Content != "second" || listed[1].Post.Content != "first" {
		t.Fatalf("expected newest first, got [%s, %s]", listed[0].Post.Content, listed[1].Post.Content)
	}
	if listed[0].Owner == nil || listed[0].Owner.Username != "alice" {
		t.Fatalf("expected owner populated, got %+v", listed[0].Owner)
	}
}

func TestPostService_ListPosts_OrphanedOwner(t *testing.T) {
	posts := newStubPostRepo()
	svc := newPostService(posts, newStubUserRepo(), newStubMediaStore())

	_, _ = posts.Create(context.Background(), &domain.Post{Content: "orphan", CreatedBy: "gone", CreatedAt: time.Now()})

	listed, err := svc.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Owner != nil {
		t.Fatalf("expected post kept with nil owner, got %+v", listed)
	}
}

func TestPostService_MyPosts(t *testing.T) {
	posts := newStubPostRepo()
	users := newStubUserRepo()
	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")
	svc := newPostService(posts, users, newStubMediaStore())

	_, _ = posts.Create(context.Background(), &domain.Post{Content: "mine", CreatedBy: alice.ID, CreatedAt: time.Now()})
	_, _ = posts.Create(context.Background(), &domain.Post{Content: "theirs", CreatedBy: bob.ID, CreatedAt: time.Now()})

	up, err := svc.MyPosts(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("my posts failed: %v", err)
	}
	if up.User.Username != "alice" || up.User.Email != "alice@example.com" {
		t.Fatalf("unexpected user summary: %+v", up.User)
	}
	if len(up.Posts) != 1 || up.Posts[0].Content != "mine" {
		t.Fatalf("unexpected posts: %+v", up.Posts)
	}
}

func TestPostService_UpdatePost_ForbiddenForNonOwner(t *testing.T) {
	posts := newStubPostRepo()
	svc := newPostService(posts, newStubUserRepo(), newStubMediaStore())

	created, _ := posts.Create(context.Background(), &domain.Post{Content: "original", CreatedBy: "owner"})

	content := "hacked"
	_, err := svc.UpdatePost(context.Background(), ports.UpdatePostInput{
		PostID:     created.ID,
		CallerID:   "intruder",
		CallerRole: domain.RoleUser,
		Content:    &content,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	stored, _ := posts.FindByID(context.Background(), created.ID)
	if stored.Content != "original" {
		t.Fatalf("post was mutated: %q", stored.Content)
	}
}

func TestPostService_UpdatePost_AdminAllowed(t *testing.T) {
	posts := newStubPostRepo()
	svc := newPostService(posts, newStubUserRepo(), newStubMediaStore())

	created, _ := posts.Create(context.Background(), &domain.Post{Content: "original", CreatedBy: "owner"})

	content := "moderated"
	updated, err := svc.UpdatePost(context.Background(), ports.UpdatePostInput{
		PostID:     created.ID,
		CallerID:   "someone-else",
		CallerRole: domain.RoleAdmin,
		Content:    &content,
	})
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if updated.Content != "moderated" {
		t.Fatalf("expected content replaced, got %q", updated.Content)
	}
	if updated.CreatedBy != "owner" {
		t.Fatalf("owner must never change, got %q", updated.CreatedBy)
	}
}

func TestPostService_UpdatePost_NilContentUnchanged(t *testing.T) {
	posts := newStubPostRepo()
	svc := newPostService(posts, newStubUserRepo(), newStubMediaStore())

	created, _ := posts.Create(context.Background(), &domain.Post{Content: "keep me", CreatedBy: "owner"})

	updated, err := svc.UpdatePost(context.Background(), ports.UpdatePostInput{
		PostID:     created.ID,
		CallerID:   "owner",
		CallerRole: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Content != "keep me" {
		t.Fatalf("expected content unchanged, got %q", updated.Content)
	}
}

func TestPostService_UpdatePost_EmptyContentRejected(t *testing.T) {
	posts := newStubPostRepo()
	svc := newPostService(posts, newStubUserRepo(), newStubMediaStore())

	created, _ := posts.Create(context.Background(), &domain.Post{Content: "keep me", CreatedBy: "owner"})

	empty := ""
	_, err := svc.UpdatePost(context.Background(), ports.UpdatePostInput{
		PostID:     created.ID,
		CallerID:   "owner",
		CallerRole: domain.RoleUser,
		Content:    &empty,
	})
	if !errors.Is(err, domain.ErrContentRequired) {
		t.Fatalf("expected ErrContentRequired, got %v", err)
	}
}

func TestPostService_UpdatePost_ReplacesAttachment(t *testing.T) {
	posts := newStubPostRepo()
	media := newStubMediaStore()
	svc := newPostService(posts, newStubUserRepo(), media)

	created, _ := posts.Create(context.Background(), &domain.Post{
		Content:   "with image",
		CreatedBy: "owner",
		ImageURL:  "http://media.local/old",
		ImageKey:  "old-key",
	})

	updated, err := svc.UpdatePost(context.Background(), ports.UpdatePostInput{
		PostID:     created.ID,
		CallerID:   "owner",
		CallerRole: domain.RoleUser,
		Attachment: attachment("new.png"),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(media.deleted) != 1 || media.deleted[0] != "old-key" {
		t.Fatalf("expected old asset deleted first, got %v", media.deleted)
	}
	if updated.ImageKey == "old-key" || updated.ImageKey == "" {
		t.Fatalf("expected new media key, got %q", updated.ImageKey)
	}
}

func TestPostService_UpdatePost_MediaDeleteFailureNonFatal(t *testing.T) {
	posts := newStubPostRepo()
	media := newStubMediaStore()
	media.failDel = true
	svc := newPostService(posts, newStubUserRepo(), media)

	created, _ := posts.Create(context.Background(), &domain.Post{
		Content:   "with image",
		CreatedBy: "owner",
		ImageKey:  "stuck-key",
	})

	if _, err := svc.UpdatePost(context.Background(), ports.UpdatePostInput{
		PostID:     created.ID,
		CallerID:   "owner",
		CallerRole: domain.RoleUser,
		Attachment: attachment("new.png"),
	}); err != nil {
		t.Fatalf("expected update to proceed despite delete failure, got %v", err)
	}
}

func TestPostService_UpdatePost_NotFound(t *testing.T) {
	svc := newPostService(newStubPostRepo(), newStubUserRepo(), newStubMediaStore())

	_, err := svc.UpdatePost(context.Background(), ports.UpdatePostInput{
		PostID:     "missing",
		CallerID:   "owner",
		CallerRole: domain.RoleUser,
	})
	if !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_DeletePost_RemovesPostAndMedia(t *testing.T) {
	posts := newStubPostRepo()
	media := newStubMediaStore()
	media.assets["the-key"] = true
	svc := newPostService(posts, newStubUserRepo(), media)

	created, _ := posts.Create(context.Background(), &domain.Post{
		Content:   "bye",
		CreatedBy: "owner",
		ImageKey:  "the-key",
	})

	if err := svc.DeletePost(context.Background(), ports.DeletePostInput{
		PostID:     created.ID,
		CallerID:   "owner",
		CallerRole: domain.RoleUser,
	}); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := posts.FindByID(context.Background(), created.ID); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected post gone, got %v", err)
	}
	if len(media.deleted) != 1 || media.deleted[0] != "the-key" {
		t.Fatalf("expected media delete invoked with recorded handle, got %v", media.deleted)
	}
	if media.assets["the-key"] {
		t.Fatalf("expected asset removed")
	}
}

func TestPostService_DeletePost_ForbiddenForNonOwner(t *testing.T) {
	posts := newStubPostRepo()
	svc := newPostService(posts, newStubUserRepo(), newStubMediaStore())

	created, _ := posts.Create(context.Background(), &domain.Post{Content: "keep", CreatedBy: "owner"})

	err := svc.DeletePost(context.Background(), ports.DeletePostInput{
		PostID:     created.ID,
		CallerID:   "intruder",
		CallerRole: domain.RoleUser,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := posts.FindByID(context.Background(), created.ID); err != nil {
		t.Fatalf("post should still exist: %v", err)
	}
}

func TestPostService_DeletePost_MediaFailureNonFatal(t *testing.T) {
	posts := newStubPostRepo()
	media := newStubMediaStore()
	media.failDel = true
	svc := newPostService(posts, newStubUserRepo(), media)

	created, _ := posts.Create(context.Background(), &domain.Post{
		Content:   "bye",
		CreatedBy: "owner",
		ImageKey:  "stuck",
	})

	if err := svc.DeletePost(context.Background(), ports.DeletePostInput{
		PostID:     created.ID,
		CallerID:   "owner",
		CallerRole: domain.RoleUser,
	}); err != nil {
		t.Fatalf("expected delete to proceed despite media failure, got %v", err)
	}
	if _, err := posts.FindByID(context.Background(), created.ID); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected post gone, got %v", err)
	}
}
