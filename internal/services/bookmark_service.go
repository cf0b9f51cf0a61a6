package services

import (
	"context"
	"errors"

	"github.com/JohnnyRuss/academind-back/internal/apperror"
	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookmarkService struct {
	bookmarks repositories.BookmarkRepository
	posts     repositories.PostRepository
	users     repositories.UserRepository
}

func NewBookmarkService(bookmarks repositories.BookmarkRepository, posts repositories.PostRepository, users repositories.UserRepository) *BookmarkService {
	return &BookmarkService{bookmarks: bookmarks, posts: posts, users: users}
}

// ToggleBookmark saves the post for user, or removes the existing bookmark.
// Removing works even after the post is gone; saving needs a live post.
func (s *BookmarkService) ToggleBookmark(ctx context.Context, postID primitive.ObjectID, user string) (*models.BookmarkToggle, error) {
	_, err := s.bookmarks.GetBookmark(ctx, user, postID.Hex())
	switch {
	case errors.Is(err, repositories.ErrBookmarkNotFound):
		post, err := s.posts.GetPostByID(ctx, postID)
		if err != nil {
			return nil, translate(err, "post")
		}
		if post.Deleted {
			return nil, apperror.NotFound("post not found")
		}
	case err != nil:
		return nil, translate(err, "bookmark")
	}

	saved, err := s.bookmarks.ToggleBookmark(ctx, user, postID.Hex())
	if err != nil {
		return nil, translate(err, "bookmark")
	}
	if saved {
		return &models.BookmarkToggle{Saved: true}, nil
	}
	return &models.BookmarkToggle{Removed: true}, nil
}

// GetBookmarks resolves the user's bookmarks newest first. Bookmarks whose
// post no longer resolves are skipped.
func (s *BookmarkService) GetBookmarks(ctx context.Context, userID, requester string) ([]models.EnrichedPost, error) {
	if userID != requester {
		return nil, apperror.Forbidden("you can only read your own bookmarks")
	}
	bookmarks, err := s.bookmarks.GetBookmarksByAuthor(ctx, userID)
	if err != nil {
		return nil, translate(err, "bookmark")
	}

	ids := make([]primitive.ObjectID, 0, len(bookmarks))
	for _, b := range bookmarks {
		if id, err := primitive.ObjectIDFromHex(b.CachedID); err == nil {
			ids = append(ids, id)
		}
	}
	posts, err := s.posts.GetPostsByIDs(ctx, ids)
	if err != nil {
		return nil, translate(err, "post")
	}
	return enrichPosts(ctx, s.users, posts)
}
