package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/JohnnyRuss/academind-back/internal/apperror"
	"github.com/JohnnyRuss/academind-back/internal/media"
	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/repositories/memory"
)

const mediaBase = "http://localhost:8080/media"

type fixture struct {
	ctx           context.Context
	store         *memory.Store
	mediaDir      string
	posts         *PostService
	comments      *CommentService
	bookmarks     *BookmarkService
	ranking       *RankingService
	notifications *NotificationService
	reconcile     *ReconcileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	disk, err := media.NewDiskStore(filepath.Join(t.TempDir(), "images"))
	if err != nil {
		t.Fatal(err)
	}
	resolver := media.NewResolver(disk, mediaBase)
	notifications := NewNotificationService(store.Notifications())

	return &fixture{
		ctx:           context.Background(),
		store:         store,
		mediaDir:      disk.Dir(),
		posts:         NewPostService(store.Posts(), store.Bookmarks(), store.Users(), resolver, notifications, nil),
		comments:      NewCommentService(store.Comments(), store.Posts(), notifications),
		bookmarks:     NewBookmarkService(store.Bookmarks(), store.Posts(), store.Users()),
		ranking:       NewRankingService(store.Posts(), store.Users(), nil),
		notifications: notifications,
		reconcile:     NewReconcileService(store.Posts(), store.Comments(), store.Bookmarks()),
	}
}

func (f *fixture) createPost(t *testing.T, author, description string, files ...string) *models.EnrichedPost {
	t.Helper()
	var uploads []media.Upload
	for _, name := range files {
		uploads = append(uploads, media.Upload{Filename: name, Data: []byte(name)})
	}
	post, err := f.posts.CreatePost(f.ctx, author, CreatePostInput{Type: models.PostTypePost, Description: description, Uploads: uploads})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

// createBlog stores a blog post directly so tests can preset its likes
func (f *fixture) createBlog(t *testing.T, author string, likes int, categories ...string) *models.Post {
	t.Helper()
	post := &models.Post{
		Type:        models.PostTypeBlog,
		Author:      author,
		Blog:        &models.BlogContent{Title: "title", Article: "article", Categories: categories},
		LikesAmount: likes,
	}
	if err := f.store.Posts().CreatePost(f.ctx, post); err != nil {
		t.Fatal(err)
	}
	return post
}

func (f *fixture) mediaExists(t *testing.T, url string) bool {
	t.Helper()
	name := url[len(mediaBase)+1:]
	_, err := os.Stat(filepath.Join(f.mediaDir, name))
	return err == nil
}

func wantKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind != kind {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
}

type nopMedia struct{}

func (nopMedia) StoreMedia(_ context.Context, uploads []media.Upload) ([]string, error) {
	return []string{}, nil
}

func (nopMedia) DeleteMedia(context.Context, []string) []apperror.Warning { return nil }
