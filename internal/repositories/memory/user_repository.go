package memory

import (
	"context"

	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/repositories"
)

type UserRepository struct {
	s *Store
}

var _ repositories.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) SaveUser(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	if existing, ok := r.s.users[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
		user.Role = existing.Role
	} else {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *UserRepository) GetUsersByIDs(_ context.Context, ids []string) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := []models.User{}
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}
