// File: internal/notification/service.go
package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/common"
)

// Service defines the interface for notification operations.
type Service interface {
	CreateNotification(ctx context.Context, userID uuid.UUID, notifType NotificationType, message string, relatedEntityID *string) (*Notification, error)
	GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error)
	MarkNotificationAsRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error
	MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type serviceImpl struct {
	repo   Repository
	logger *zap.Logger
}

var _ Service = (*serviceImpl)(nil)

// NewService creates a new notification service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &serviceImpl{
		repo:   repo,
		logger: logger.Named("notification_service"),
	}
}

func (s *serviceImpl) CreateNotification(ctx context.Context, userID uuid.UUID, notifType NotificationType, message string, relatedEntityID *string) (*Notification, error) {
	n := &Notification{
		UserID:          userID,
		Type:            notifType,
		Message:         message,
		RelatedEntityID: relatedEntityID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("Failed to create notification",
			zap.Error(err), zap.String("userID", userID.String()), zap.String("type", string(notifType)))
		return nil, err
	}
	return n, nil
}

func (s *serviceImpl) GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error) {
	return s.repo.GetByUserID(ctx, userID, page, pageSize)
}

func (s *serviceImpl) MarkNotificationAsRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *serviceImpl) MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}
