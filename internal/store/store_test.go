package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	domainerrors "blog/internal/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(path, log)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreateUser(t *testing.T, s *Store, username string) int {
	t.Helper()
	u, err := s.CreateUser(context.Background(), username, "hash", "First", "Last", username+"@example.com")
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u.ID
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "alice", "hash", "Alice", "Smith", "alice@example.com")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("expected assigned ID")
	}

	got, err := s.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got.Username != "alice" || got.FirstName != "Alice" || got.Email != "alice@example.com" {
		t.Errorf("unexpected user: %+v", got)
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "alice")
	_, err := s.CreateUser(ctx, "alice", "hash2", "A", "B", "other@example.com")
	if !domainerrors.Is(err, domainerrors.ErrAlreadyExists) {
		t.Fatalf("expected already-exists error, got %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetUserByUsername(context.Background(), "ghost")
	if !domainerrors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := mustCreateUser(t, s, "alice")

	expires := time.Now().Add(time.Hour)
	if err := s.CreateSession(ctx, userID, "sess-1", expires); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	sess, err := s.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if sess.UserID != userID || sess.RevokedAt != nil {
		t.Errorf("unexpected session: %+v", sess)
	}

	if err := s.RevokeSession(ctx, "sess-1"); err != nil {
		t.Fatalf("RevokeSession: %v", err)
	}
	sess, err = s.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetSession after revoke: %v", err)
	}
	if sess.RevokedAt == nil {
		t.Error("expected session to be revoked")
	}
}

func TestCreateSession_RevokesExisting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := mustCreateUser(t, s, "alice")

	expires := time.Now().Add(time.Hour)
	if err := s.CreateSession(ctx, userID, "sess-1", expires); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.CreateSession(ctx, userID, "sess-2", expires); err != nil {
		t.Fatalf("CreateSession second: %v", err)
	}

	old, err := s.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if old.RevokedAt == nil {
		t.Error("expected first session to be revoked by second login")
	}
}

func TestFindOrCreateTags_DedupesInput(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tags, err := s.FindOrCreateTags(ctx, []string{"red", "blue", "red"})
	if err != nil {
		t.Fatalf("FindOrCreateTags: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}

	n, err := s.CountTags(ctx)
	if err != nil {
		t.Fatalf("CountTags: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 tag rows, got %d", n)
	}
}

func TestFindOrCreateTags_ReusesExisting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.FindOrCreateTags(ctx, []string{"red", "blue"}); err != nil {
		t.Fatalf("FindOrCreateTags: %v", err)
	}
	tags, err := s.FindOrCreateTags(ctx, []string{"blue", "green"})
	if err != nil {
		t.Fatalf("FindOrCreateTags second: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags back, got %d", len(tags))
	}

	n, err := s.CountTags(ctx)
	if err != nil {
		t.Fatalf("CountTags: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 tag rows total, got %d", n)
	}
}

func TestFindOrCreateTags_DropsEmptyLabels(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tags, err := s.FindOrCreateTags(ctx, []string{"red", "", "blue", ""})
	if err != nil {
		t.Fatalf("FindOrCreateTags: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}
}

func TestFindOrCreateCategory_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.FindOrCreateCategory(ctx, "News")
	if err != nil {
		t.Fatalf("FindOrCreateCategory: %v", err)
	}
	if first.Description != "" {
		t.Errorf("expected empty description, got %q", first.Description)
	}

	second, err := s.FindOrCreateCategory(ctx, "News")
	if err != nil {
		t.Fatalf("FindOrCreateCategory second: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected same category row, got %d and %d", first.ID, second.ID)
	}

	n, err := s.CountCategories(ctx)
	if err != nil {
		t.Fatalf("CountCategories: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 category row, got %d", n)
	}
}

func TestFindOrCreateCategory_CaseSensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.FindOrCreateCategory(ctx, "News"); err != nil {
		t.Fatalf("FindOrCreateCategory: %v", err)
	}
	if _, err := s.FindOrCreateCategory(ctx, "news"); err != nil {
		t.Fatalf("FindOrCreateCategory lowercase: %v", err)
	}

	n, err := s.CountCategories(ctx)
	if err != nil {
		t.Fatalf("CountCategories: %v", err)
	}
	if n != 2 {
		t.Errorf("expected case-sensitive names to create 2 rows, got %d", n)
	}
}

func TestCreateAndGetPost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := mustCreateUser(t, s, "alice")

	tags, err := s.FindOrCreateTags(ctx, []string{"red", "blue"})
	if err != nil {
		t.Fatalf("FindOrCreateTags: %v", err)
	}
	category, err := s.FindOrCreateCategory(ctx, "News")
	if err != nil {
		t.Fatalf("FindOrCreateCategory: %v", err)
	}

	tagIDs := []int{tags[0].ID, tags[1].ID}
	postID, err := s.CreatePost(ctx, userID, category.ID, "Hello", "World", time.Now(), tagIDs)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	post, err := s.GetPost(ctx, postID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if post.Title != "Hello" || post.Author != "alice" {
		t.Errorf("unexpected post: %+v", post)
	}
	if post.Category.Name != "News" {
		t.Errorf("expected category News, got %q", post.Category.Name)
	}
	if len(post.Tags) != 2 {
		t.Errorf("expected 2 tags, got %d", len(post.Tags))
	}
}

func TestGetPost_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetPost(context.Background(), 999)
	if !domainerrors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestListLatestPosts_LimitAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := mustCreateUser(t, s, "alice")
	category, err := s.FindOrCreateCategory(ctx, "News")
	if err != nil {
		t.Fatalf("FindOrCreateCategory: %v", err)
	}

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		date := base.Add(time.Duration(i) * time.Minute)
		if _, err := s.CreatePost(ctx, userID, category.ID, "post", "body", date, nil); err != nil {
			t.Fatalf("CreatePost %d: %v", i, err)
		}
	}

	posts, err := s.ListLatestPosts(ctx, 5)
	if err != nil {
		t.Fatalf("ListLatestPosts: %v", err)
	}
	if len(posts) != 5 {
		t.Fatalf("expected 5 posts, got %d", len(posts))
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].Date.After(posts[i-1].Date) {
			t.Errorf("posts not in descending date order at index %d", i)
		}
	}
}

func TestListPostsByTagAndCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := mustCreateUser(t, s, "alice")

	tags, err := s.FindOrCreateTags(ctx, []string{"go"})
	if err != nil {
		t.Fatalf("FindOrCreateTags: %v", err)
	}
	news, err := s.FindOrCreateCategory(ctx, "News")
	if err != nil {
		t.Fatalf("FindOrCreateCategory: %v", err)
	}
	misc, err := s.FindOrCreateCategory(ctx, "Misc")
	if err != nil {
		t.Fatalf("FindOrCreateCategory: %v", err)
	}

	if _, err := s.CreatePost(ctx, userID, news.ID, "tagged", "body", time.Now(), []int{tags[0].ID}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if _, err := s.CreatePost(ctx, userID, misc.ID, "untagged", "body", time.Now(), nil); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	byTag, err := s.ListPostsByTag(ctx, tags[0].ID)
	if err != nil {
		t.Fatalf("ListPostsByTag: %v", err)
	}
	if len(byTag) != 1 || byTag[0].Title != "tagged" {
		t.Errorf("unexpected posts by tag: %+v", byTag)
	}

	byCategory, err := s.ListPostsByCategory(ctx, news.ID)
	if err != nil {
		t.Fatalf("ListPostsByCategory: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].Title != "tagged" {
		t.Errorf("unexpected posts by category: %+v", byCategory)
	}
}

func TestCommentsAttributedToAuthors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	aliceID := mustCreateUser(t, s, "alice")
	bobID := mustCreateUser(t, s, "bob")
	category, err := s.FindOrCreateCategory(ctx, "News")
	if err != nil {
		t.Fatalf("FindOrCreateCategory: %v", err)
	}
	postID, err := s.CreatePost(ctx, aliceID, category.ID, "post", "body", time.Now(), nil)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	now := time.Now()
	if err := s.CreateComment(ctx, postID, aliceID, "first", now); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if err := s.CreateComment(ctx, postID, bobID, "second", now.Add(time.Second)); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	comments, err := s.ListCommentsByPost(ctx, postID)
	if err != nil {
		t.Fatalf("ListCommentsByPost: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].Author != "alice" || comments[0].Body != "first" {
		t.Errorf("unexpected first comment: %+v", comments[0])
	}
	if comments[1].Author != "bob" || comments[1].Body != "second" {
		t.Errorf("unexpected second comment: %+v", comments[1])
	}
}
