package memory

import (
	"context"
	"sort"

	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/repositories"
)

type BookmarkRepository struct {
	s *Store
}

var _ repositories.BookmarkRepository = (*BookmarkRepository)(nil)

func (r *BookmarkRepository) ToggleBookmark(_ context.Context, authorID, postID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, b := range r.s.bookmarks {
		if b.AuthorID == authorID && b.CachedID == postID {
			r.s.bookmarks = append(r.s.bookmarks[:i:i], r.s.bookmarks[i+1:]...)
			return false, nil
		}
	}

	r.s.nextBookmarkID++
	id := postID
	r.s.bookmarks = append(r.s.bookmarks, &models.Bookmark{
		ID:        r.s.nextBookmarkID,
		AuthorID:  authorID,
		PostID:    &id,
		CachedID:  postID,
		CreatedAt: r.s.now(),
	})
	return true, nil
}

func (r *BookmarkRepository) GetBookmark(_ context.Context, authorID, postID string) (*models.Bookmark, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, b := range r.s.bookmarks {
		if b.AuthorID == authorID && b.CachedID == postID {
			out := cloneBookmark(b)
			return &out, nil
		}
	}
	return nil, repositories.ErrBookmarkNotFound
}

func (r *BookmarkRepository) GetBookmarksByAuthor(_ context.Context, authorID string) ([]models.Bookmark, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	bookmarks := []models.Bookmark{}
	for i := len(r.s.bookmarks) - 1; i >= 0; i-- {
		if b := r.s.bookmarks[i]; b.AuthorID == authorID {
			bookmarks = append(bookmarks, cloneBookmark(b))
		}
	}
	sort.SliceStable(bookmarks, func(i, j int) bool {
		return bookmarks[i].CreatedAt.After(bookmarks[j].CreatedAt)
	})
	return bookmarks, nil
}

func (r *BookmarkRepository) MarkDeletedByPostIDs(_ context.Context, postIDs []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	targets := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		targets[id] = true
	}
	var n int64
	for _, b := range r.s.bookmarks {
		if !b.Deleted && targets[b.CachedID] {
			b.Deleted = true
			b.PostID = nil
			n++
		}
	}
	return n, nil
}

func (r *BookmarkRepository) GetLivePostIDs(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := map[string]bool{}
	ids := []string{}
	for _, b := range r.s.bookmarks {
		if !b.Deleted && !seen[b.CachedID] {
			seen[b.CachedID] = true
			ids = append(ids, b.CachedID)
		}
	}
	return ids, nil
}
