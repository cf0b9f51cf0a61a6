package repositories

import "errors"

var (
	ErrPostNotFound         = errors.New("post not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrBookmarkNotFound     = errors.New("bookmark not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUserNotFound         = errors.New("user not found")

	// ErrVersionConflict is returned by compare-and-set writes when the stored
	// document changed since it was read.
	ErrVersionConflict = errors.New("document was modified concurrently")
)
