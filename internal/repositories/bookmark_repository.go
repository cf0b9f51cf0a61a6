package repositories

import (
	"context"
	"errors"

	"github.com/JohnnyRuss/academind-back/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookmarkRepository defines the interface for bookmark operations
type BookmarkRepository interface {
	// ToggleBookmark removes the caller's bookmark of postID when it exists
	// and creates it otherwise. It reports whether the post ended up saved.
	ToggleBookmark(ctx context.Context, authorID, postID string) (bool, error)
	GetBookmark(ctx context.Context, authorID, postID string) (*models.Bookmark, error)
	// GetBookmarksByAuthor lists bookmarks newest first, deleted ones included
	GetBookmarksByAuthor(ctx context.Context, authorID string) ([]models.Bookmark, error)
	// MarkDeletedByPostIDs flags the bookmarks of removed posts and drops
	// their live reference. CachedID is kept.
	MarkDeletedByPostIDs(ctx context.Context, postIDs []string) (int64, error)
	GetLivePostIDs(ctx context.Context) ([]string, error)
}

type postgresBookmarkRepository struct {
	db *gorm.DB
}

func NewPostgresBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &postgresBookmarkRepository{db: db}
}

func (r *postgresBookmarkRepository) ToggleBookmark(ctx context.Context, authorID, postID string) (bool, error) {
	saved := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("author_id = ? AND cached_id = ?", authorID, postID).Delete(&models.Bookmark{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		bookmark := models.Bookmark{AuthorID: authorID, PostID: &postID, CachedID: postID}
		// a concurrent toggle may have inserted the same pair; the unique index wins
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&bookmark).Error; err != nil {
			return err
		}
		saved = true
		return nil
	})
	return saved, err
}

func (r *postgresBookmarkRepository) GetBookmark(ctx context.Context, authorID, postID string) (*models.Bookmark, error) {
	var bookmark models.Bookmark
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND cached_id = ?", authorID, postID).
		First(&bookmark).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookmarkNotFound
		}
		return nil, err
	}
	return &bookmark, nil
}

func (r *postgresBookmarkRepository) GetBookmarksByAuthor(ctx context.Context, authorID string) ([]models.Bookmark, error) {
	bookmarks := []models.Bookmark{}
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").Order("id DESC").
		Find(&bookmarks).Error
	return bookmarks, err
}

func (r *postgresBookmarkRepository) MarkDeletedByPostIDs(ctx context.Context, postIDs []string) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&models.Bookmark{}).
		Where("cached_id IN ? AND deleted = ?", postIDs, false).
		Updates(map[string]interface{}{"deleted": true, "post_id": nil})
	return res.RowsAffected, res.Error
}

func (r *postgresBookmarkRepository) GetLivePostIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Bookmark{}).
		Where("deleted = ?", false).
		Distinct().Pluck("cached_id", &ids).Error
	return ids, err
}
