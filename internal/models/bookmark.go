package models

import "time"

// Bookmark represents a post saved by a user. CachedID always holds the
// bookmarked post id so the bookmark stays addressable after the post is
// removed; PostID is cleared at that point and Deleted is set.
type Bookmark struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AuthorID  string    `json:"author" gorm:"size:64;not null;index;uniqueIndex:idx_bookmark_author_post"`
	PostID    *string   `json:"post" gorm:"size:24;index"`
	CachedID  string    `json:"cachedId" gorm:"size:24;not null;uniqueIndex:idx_bookmark_author_post"`
	Deleted   bool      `json:"deleted" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookmarkToggle is the outcome of a bookmark toggle
type BookmarkToggle struct {
	Saved   bool `json:"saved,omitempty"`
	Removed bool `json:"removed,omitempty"`
}

// PostOwnership answers isUserPost
type PostOwnership struct {
	BelongsToUser bool `json:"belongsToUser"`
	IsBookmarked  bool `json:"isBookmarked"`
}
