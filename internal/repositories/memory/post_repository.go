package memory

import (
	"context"

	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostRepository struct {
	s *Store
}

var _ repositories.PostRepository = (*PostRepository)(nil)

func (r *PostRepository) CreatePost(_ context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	post.ID = primitive.NewObjectID()
	post.CreatedAt = r.s.now()
	post.UpdatedAt = post.CreatedAt
	post.Version = 0
	r.s.posts = append(r.s.posts, clonePost(post))
	return nil
}

func (r *PostRepository) GetPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, p := r.s.findPost(id); p != nil {
		return clonePost(p), nil
	}
	return nil, repositories.ErrPostNotFound
}

func (r *PostRepository) GetPostsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	posts := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		if _, p := r.s.findPost(id); p != nil {
			posts = append(posts, *clonePost(p))
		}
	}
	return posts, nil
}

func (r *PostRepository) UpdatePost(_ context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, stored := r.s.findPost(post.ID)
	if stored == nil {
		return repositories.ErrPostNotFound
	}
	next := clonePost(post)
	stored.Description = next.Description
	stored.Blog = next.Blog
	stored.Tags = next.Tags
	stored.Media = next.Media
	stored.UpdatedAt = r.s.now()
	stored.Version++

	post.UpdatedAt = stored.UpdatedAt
	post.Version = stored.Version
	return nil
}

func (r *PostRepository) UpdateReactions(_ context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, stored := r.s.findPost(post.ID)
	if stored == nil || stored.Version != post.Version {
		return repositories.ErrVersionConflict
	}
	stored.Reactions = append([]models.Reaction(nil), post.Reactions...)
	stored.LikesAmount = post.LikesAmount
	stored.DislikesAmount = post.DislikesAmount
	stored.Version++
	post.Version = stored.Version
	return nil
}

func (r *PostRepository) DeletePostCascade(_ context.Context, id primitive.ObjectID) (*repositories.CascadeResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, p := r.s.findPost(id)
	if p == nil {
		return nil, repositories.ErrPostNotFound
	}
	r.s.posts = append(r.s.posts[:i:i], r.s.posts[i+1:]...)

	result := &repositories.CascadeResult{}
	kept := r.s.comments[:0:0]
	for _, c := range r.s.comments {
		if c.Post == id {
			result.CommentsDeleted++
			continue
		}
		kept = append(kept, c)
	}
	r.s.comments = kept

	for _, share := range r.s.posts {
		if share.Shared && share.Authentic != nil && *share.Authentic == id && !share.Deleted {
			share.Deleted = true
			share.UpdatedAt = r.s.now()
			result.SharesHidden++
		}
	}
	return result, nil
}

func (r *PostRepository) CountBlogPosts(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, p := range r.s.posts {
		if p.IsBlog() {
			n++
		}
	}
	return n, nil
}

// GetBlogPosts returns blog posts newest first; equal timestamps put the
// later insertion first.
func (r *PostRepository) GetBlogPosts(_ context.Context, skip, limit int64) ([]models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var blogs []*models.Post
	for i := len(r.s.posts) - 1; i >= 0; i-- {
		if r.s.posts[i].IsBlog() {
			blogs = append(blogs, r.s.posts[i])
		}
	}
	sortNewestFirst(blogs)

	posts := []models.Post{}
	if skip < 0 {
		return posts, nil
	}
	for i := skip; i < int64(len(blogs)) && int64(len(posts)) < limit; i++ {
		posts = append(posts, *clonePost(blogs[i]))
	}
	return posts, nil
}

func (r *PostRepository) GetTopRatedBlogPosts(_ context.Context, limit int64) ([]models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var blogs []*models.Post
	for _, p := range r.s.posts {
		if p.IsBlog() {
			blogs = append(blogs, p)
		}
	}
	sortByLikes(blogs)

	posts := []models.Post{}
	for i := 0; i < len(blogs) && int64(i) < limit; i++ {
		posts = append(posts, *clonePost(blogs[i]))
	}
	return posts, nil
}

// GetTopPublishers walks blog posts in insertion order, so equal totals
// keep the author whose first post came first.
func (r *PostRepository) GetTopPublishers(_ context.Context, limit int64) ([]repositories.PublisherTotal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	index := make(map[string]int)
	totals := []repositories.PublisherTotal{}
	for _, p := range r.s.posts {
		if !p.IsBlog() {
			continue
		}
		i, ok := index[p.Author]
		if !ok {
			i = len(totals)
			index[p.Author] = i
			totals = append(totals, repositories.PublisherTotal{Author: p.Author})
		}
		totals[i].PostCount++
		totals[i].TotalLikes += p.LikesAmount
	}
	sortByTotalLikes(totals)
	if int64(len(totals)) > limit {
		totals = totals[:limit]
	}
	return totals, nil
}

func (r *PostRepository) GetRelatedBlogPosts(_ context.Context, exclude primitive.ObjectID, categories []string, limit int64) ([]models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var candidates []related
	for _, p := range r.s.posts {
		if !p.IsBlog() || p.ID == exclude {
			continue
		}
		if n := overlap(p.Categories(), categories); n > 0 {
			candidates = append(candidates, related{post: p, overlap: n})
		}
	}
	sortByOverlap(candidates)

	posts := []models.Post{}
	for i := 0; i < len(candidates) && int64(i) < limit; i++ {
		posts = append(posts, *clonePost(candidates[i].post))
	}
	return posts, nil
}

func (r *PostRepository) ExistingPostIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	existing := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if _, p := r.s.findPost(id); p != nil {
			existing[id] = true
		}
	}
	return existing, nil
}

func (r *PostRepository) GetLiveShareAuthentics(_ context.Context) ([]primitive.ObjectID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := map[primitive.ObjectID]bool{}
	ids := []primitive.ObjectID{}
	for _, p := range r.s.posts {
		if p.Shared && !p.Deleted && p.Authentic != nil && !seen[*p.Authentic] {
			seen[*p.Authentic] = true
			ids = append(ids, *p.Authentic)
		}
	}
	return ids, nil
}

func (r *PostRepository) HideShares(_ context.Context, authenticIDs []primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	targets := make(map[primitive.ObjectID]bool, len(authenticIDs))
	for _, id := range authenticIDs {
		targets[id] = true
	}
	var n int64
	for _, p := range r.s.posts {
		if p.Shared && !p.Deleted && p.Authentic != nil && targets[*p.Authentic] {
			p.Deleted = true
			p.UpdatedAt = r.s.now()
			n++
		}
	}
	return n, nil
}

func (s *Store) findPost(id primitive.ObjectID) (int, *models.Post) {
	for i, p := range s.posts {
		if p.ID == id {
			return i, p
		}
	}
	return -1, nil
}
