// Package memory holds in-process implementations of the repository
// interfaces. They back STORE_BACKEND=memory and the service tests.
package memory

import (
	"sync"
	"time"

	"github.com/JohnnyRuss/academind-back/internal/models"
)

// Store is the shared state behind every repository in this package. One
// mutex guards all of it so the post cascade is atomic like its Mongo
// counterpart.
type Store struct {
	mu sync.RWMutex

	posts         []*models.Post
	comments      []*models.Comment
	bookmarks     []*models.Bookmark
	notifications []*models.Notification
	users         map[string]models.User

	nextBookmarkID     uint
	nextNotificationID uint

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]models.User),
		now:   time.Now,
	}
}

// SetClock replaces the time source used for created and updated stamps
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Posts() *PostRepository {
	return &PostRepository{s: s}
}

func (s *Store) Comments() *CommentRepository {
	return &CommentRepository{s: s}
}

func (s *Store) Bookmarks() *BookmarkRepository {
	return &BookmarkRepository{s: s}
}

func (s *Store) Notifications() *NotificationRepository {
	return &NotificationRepository{s: s}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

func clonePost(p *models.Post) *models.Post {
	out := *p
	out.Tags = append([]string(nil), p.Tags...)
	out.Media = append([]string(nil), p.Media...)
	out.Reactions = append([]models.Reaction(nil), p.Reactions...)
	if p.Blog != nil {
		blog := *p.Blog
		blog.Categories = append([]string(nil), p.Blog.Categories...)
		out.Blog = &blog
	}
	if p.Authentic != nil {
		id := *p.Authentic
		out.Authentic = &id
	}
	return &out
}

func cloneComment(c *models.Comment) *models.Comment {
	out := *c
	out.Tags = append([]string(nil), c.Tags...)
	out.Reactions = append([]models.Reaction(nil), c.Reactions...)
	out.Replies = make([]models.Reply, len(c.Replies))
	for i, r := range c.Replies {
		r.Tags = append([]string(nil), r.Tags...)
		r.Reactions = append([]models.Reaction(nil), r.Reactions...)
		out.Replies[i] = r
	}
	return &out
}

func cloneBookmark(b *models.Bookmark) models.Bookmark {
	out := *b
	if b.PostID != nil {
		id := *b.PostID
		out.PostID = &id
	}
	return out
}
