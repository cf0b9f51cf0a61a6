package memory

import (
	"context"

	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/repositories"
)

type NotificationRepository struct {
	s *Store
}

var _ repositories.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) CreateNotification(_ context.Context, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextNotificationID++
	n.ID = r.s.nextNotificationID
	n.CreatedAt = r.s.now()
	stored := *n
	r.s.notifications = append(r.s.notifications, &stored)
	return nil
}

func (r *NotificationRepository) GetNotificationByID(_ context.Context, id uint) (*models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, n := r.s.findNotification(id); n != nil {
		out := *n
		return &out, nil
	}
	return nil, repositories.ErrNotificationNotFound
}

func (r *NotificationRepository) GetByAdressatID(_ context.Context, adressatID string) ([]models.Notification, error) {
	return r.list(adressatID, func(*models.Notification) bool { return true }), nil
}

func (r *NotificationRepository) GetUnseen(_ context.Context, adressatID string) ([]models.Notification, error) {
	return r.list(adressatID, func(n *models.Notification) bool { return !n.Seen }), nil
}

// list walks newest first. Ids grow with creation time, so reverse insertion
// order matches created_at DESC, id DESC.
func (r *NotificationRepository) list(adressatID string, keep func(*models.Notification) bool) []models.Notification {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Notification{}
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		n := r.s.notifications[i]
		if n.AdressatID == adressatID && keep(n) {
			out = append(out, *n)
		}
	}
	return out
}

func (r *NotificationRepository) SaveState(_ context.Context, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, stored := r.s.findNotification(n.ID)
	if stored == nil {
		return repositories.ErrNotificationNotFound
	}
	if n.Seen {
		stored.MarkSeen()
	}
	if n.Read {
		stored.MarkRead()
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(_ context.Context, adressatID string) (int64, error) {
	return r.markAll(adressatID, (*models.Notification).MarkRead), nil
}

func (r *NotificationRepository) MarkAllAsSeen(_ context.Context, adressatID string) (int64, error) {
	return r.markAll(adressatID, (*models.Notification).MarkSeen), nil
}

func (r *NotificationRepository) markAll(adressatID string, mark func(*models.Notification) bool) int64 {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var changed int64
	for _, n := range r.s.notifications {
		if n.AdressatID == adressatID && mark(n) {
			changed++
		}
	}
	return changed
}

func (r *NotificationRepository) DeleteNotification(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, n := r.s.findNotification(id)
	if n == nil {
		return repositories.ErrNotificationNotFound
	}
	r.s.notifications = append(r.s.notifications[:i:i], r.s.notifications[i+1:]...)
	return nil
}

func (r *NotificationRepository) DeleteAllByAdressatID(_ context.Context, adressatID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	kept := r.s.notifications[:0:0]
	for _, item := range r.s.notifications {
		if item.AdressatID == adressatID {
			n++
			continue
		}
		kept = append(kept, item)
	}
	r.s.notifications = kept
	return n, nil
}

func (s *Store) findNotification(id uint) (int, *models.Notification) {
	for i, n := range s.notifications {
		if n.ID == id {
			return i, n
		}
	}
	return -1, nil
}
