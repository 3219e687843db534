package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"genapi/models"
	"genapi/repositories"
)

// NotificationService scopes every operation to the owning user; a foreign id
// behaves like a missing one.
type NotificationService interface {
	List(userID uint, unreadOnly bool, page, pageSize int) ([]models.Notification, Pagination, error)
	Get(id, userID uint) (*models.Notification, error)
	MarkRead(id, userID uint) (*models.Notification, error)
	MarkAllRead(userID uint) (int64, error)
	Delete(id, userID uint) error
}

type notificationService struct {
	notifications repositories.NotificationRepository
}

var _ NotificationService = (*notificationService)(nil)

func NewNotificationService(notifications repositories.NotificationRepository) NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) List(userID uint, unreadOnly bool, page, pageSize int) ([]models.Notification, Pagination, error) {
	page, pageSize = NormalizePage(page, pageSize)
	notifications, total, err := s.notifications.FindForUser(userID, unreadOnly, page, pageSize)
	if err != nil {
		return nil, Pagination{}, err
	}
	return notifications, NewPagination(page, pageSize, total), nil
}

func (s *notificationService) Get(id, userID uint) (*models.Notification, error) {
	notification, err := s.notifications.FindByIDForUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return notification, nil
}

func (s *notificationService) MarkRead(id, userID uint) (*models.Notification, error) {
	if _, err := s.Get(id, userID); err != nil {
		return nil, err
	}
	if err := s.notifications.MarkRead(id, userID, time.Now()); err != nil {
		return nil, err
	}
	return s.Get(id, userID)
}

func (s *notificationService) MarkAllRead(userID uint) (int64, error) {
	return s.notifications.MarkAllRead(userID, time.Now())
}

func (s *notificationService) Delete(id, userID uint) error {
	if _, err := s.Get(id, userID); err != nil {
		return err
	}
	return s.notifications.Delete(id, userID)
}
