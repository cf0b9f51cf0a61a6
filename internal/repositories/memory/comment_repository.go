package memory

import (
	"context"
	"sort"

	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentRepository struct {
	s *Store
}

var _ repositories.CommentRepository = (*CommentRepository)(nil)

func (r *CommentRepository) CreateComment(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = r.s.now()
	comment.UpdatedAt = comment.CreatedAt
	comment.Version = 0
	if comment.Replies == nil {
		comment.Replies = []models.Reply{}
	}
	r.s.comments = append(r.s.comments, cloneComment(comment))
	return nil
}

func (r *CommentRepository) GetCommentByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, c := r.s.findComment(id); c != nil {
		return cloneComment(c), nil
	}
	return nil, repositories.ErrCommentNotFound
}

func (r *CommentRepository) GetCommentsByPostID(_ context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found []*models.Comment
	for i := len(r.s.comments) - 1; i >= 0; i-- {
		if r.s.comments[i].Post == postID {
			found = append(found, r.s.comments[i])
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].CreatedAt.After(found[j].CreatedAt)
	})

	comments := make([]models.Comment, 0, len(found))
	for _, c := range found {
		comments = append(comments, *cloneComment(c))
	}
	return comments, nil
}

func (r *CommentRepository) SaveComment(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, stored := r.s.findComment(comment.ID)
	if stored == nil || stored.Version != comment.Version {
		return repositories.ErrVersionConflict
	}
	next := cloneComment(comment)
	next.Version++
	next.UpdatedAt = r.s.now()
	r.s.comments[i] = next

	comment.Version = next.Version
	comment.UpdatedAt = next.UpdatedAt
	return nil
}

func (r *CommentRepository) DeleteComment(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, c := r.s.findComment(id)
	if c == nil {
		return repositories.ErrCommentNotFound
	}
	r.s.comments = append(r.s.comments[:i:i], r.s.comments[i+1:]...)
	return nil
}

func (r *CommentRepository) GetCommentedPostIDs(_ context.Context) ([]primitive.ObjectID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := map[primitive.ObjectID]bool{}
	ids := []primitive.ObjectID{}
	for _, c := range r.s.comments {
		if !seen[c.Post] {
			seen[c.Post] = true
			ids = append(ids, c.Post)
		}
	}
	return ids, nil
}

func (r *CommentRepository) DeleteCommentsByPostIDs(_ context.Context, postIDs []primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	targets := make(map[primitive.ObjectID]bool, len(postIDs))
	for _, id := range postIDs {
		targets[id] = true
	}
	var n int64
	kept := r.s.comments[:0:0]
	for _, c := range r.s.comments {
		if targets[c.Post] {
			n++
			continue
		}
		kept = append(kept, c)
	}
	r.s.comments = kept
	return n, nil
}

func (s *Store) findComment(id primitive.ObjectID) (int, *models.Comment) {
	for i, c := range s.comments {
		if c.ID == id {
			return i, c
		}
	}
	return -1, nil
}
