package services

import (
	"context"
	"log"
	"strings"

	"github.com/JohnnyRuss/academind-back/internal/apperror"
	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/repositories"
)

// Notifier is what the content services need from the notification engine
type Notifier interface {
	Notify(ctx context.Context, from, adressat, message, location string, target models.NotificationTarget) (*models.Notification, error)
}

type NotificationService struct {
	repo repositories.NotificationRepository
}

func NewNotificationService(repo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Notify creates an unseen notification. It does not filter notifications a
// user sends to themselves; callers decide that.
func (s *NotificationService) Notify(ctx context.Context, from, adressat, message, location string, target models.NotificationTarget) (*models.Notification, error) {
	if strings.TrimSpace(adressat) == "" {
		return nil, apperror.Validation("notification adressat is required")
	}
	if strings.TrimSpace(message) == "" {
		return nil, apperror.Validation("notification message is required")
	}
	if !target.TargetType.Valid() {
		return nil, apperror.Validation("invalid notification target type %q", target.TargetType)
	}

	n := &models.Notification{
		FromID:     from,
		AdressatID: adressat,
		Message:    message,
		Location:   location,
		Target:     target,
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return nil, translate(err, "notification")
	}
	return n, nil
}

func (s *NotificationService) GetAll(ctx context.Context, userID, requester string) ([]models.Notification, error) {
	if userID != requester {
		return nil, apperror.Forbidden("you can only read your own notifications")
	}
	list, err := s.repo.GetByAdressatID(ctx, userID)
	return list, translate(err, "notification")
}

func (s *NotificationService) GetUnseen(ctx context.Context, userID, requester string) ([]models.UnseenNotification, error) {
	if userID != requester {
		return nil, apperror.Forbidden("you can only read your own notifications")
	}
	list, err := s.repo.GetUnseen(ctx, userID)
	if err != nil {
		return nil, translate(err, "notification")
	}
	unseen := make([]models.UnseenNotification, 0, len(list))
	for _, n := range list {
		unseen = append(unseen, models.UnseenNotification{ID: n.ID, Read: n.Read})
	}
	return unseen, nil
}

// MarkAsRead also marks the notification seen
func (s *NotificationService) MarkAsRead(ctx context.Context, id uint, requester string) (*models.Notification, error) {
	n, err := s.owned(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	if !n.MarkRead() {
		return n, nil
	}
	if err := s.repo.SaveState(ctx, n); err != nil {
		return nil, translate(err, "notification")
	}
	return n, nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, user string) (int64, error) {
	n, err := s.repo.MarkAllAsRead(ctx, user)
	return n, translate(err, "notification")
}

func (s *NotificationService) MarkAllAsSeen(ctx context.Context, userID, requester string) (int64, error) {
	if userID != requester {
		return 0, apperror.Forbidden("you can only update your own notifications")
	}
	n, err := s.repo.MarkAllAsSeen(ctx, userID)
	return n, translate(err, "notification")
}

func (s *NotificationService) Delete(ctx context.Context, id uint, requester string) error {
	if _, err := s.owned(ctx, id, requester); err != nil {
		return err
	}
	return translate(s.repo.DeleteNotification(ctx, id), "notification")
}

func (s *NotificationService) DeleteAll(ctx context.Context, user string) (int64, error) {
	n, err := s.repo.DeleteAllByAdressatID(ctx, user)
	return n, translate(err, "notification")
}

func (s *NotificationService) owned(ctx context.Context, id uint, requester string) (*models.Notification, error) {
	n, err := s.repo.GetNotificationByID(ctx, id)
	if err != nil {
		return nil, translate(err, "notification")
	}
	if n.AdressatID != requester {
		return nil, apperror.Forbidden("notification belongs to another user")
	}
	return n, nil
}

// send delivers a notification on behalf of a content mutation. Failures are
// logged and never fail the mutation. Self notifications are dropped.
func send(ctx context.Context, n Notifier, from, to, message, location string, target models.NotificationTarget) {
	if n == nil || to == "" || from == to {
		return
	}
	if _, err := n.Notify(ctx, from, to, message, location, target); err != nil {
		log.Printf("notification from %s to %s not delivered: %v", from, to, err)
	}
}
