// File: internal/notification/service_test.go
package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/common"
)

// MockNotificationRepository is a mock type for notification.Repository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Notification), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) (*Notification, error) {
	args := m.Called(ctx, notificationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func TestCreateNotificationBuildsRecord(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewService(repo, zap.NewNop())

	userID := uuid.New()
	relatedID := uuid.NewString()

	repo.On("Create", mock.Anything, mock.AnythingOfType("*notification.Notification")).Run(func(args mock.Arguments) {
		args.Get(1).(*Notification).ID = uuid.New()
	}).Return(nil)

	n, err := svc.CreateNotification(context.Background(), userID, VerificationApproved,
		"Your identity verification was approved.", &relatedID)
	require.NoError(t, err)
	assert.Equal(t, userID, n.UserID)
	assert.Equal(t, VerificationApproved, n.Type)
	assert.False(t, n.IsRead)
	require.NotNil(t, n.RelatedEntityID)
	assert.Equal(t, relatedID, *n.RelatedEntityID)
}

func TestMarkNotificationAsReadPropagatesNotFound(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewService(repo, zap.NewNop())

	notificationID := uuid.New()
	userID := uuid.New()
	repo.On("MarkAsRead", mock.Anything, notificationID, userID).
		Return(common.ErrNotFound.WithDetails("Notification not found."))

	err := svc.MarkNotificationAsRead(context.Background(), notificationID, userID)
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestMarkAllUserNotificationsAsReadReturnsCount(t *testing.T) {
	repo := new(MockNotificationRepository)
	svc := NewService(repo, zap.NewNop())

	userID := uuid.New()
	repo.On("MarkAllAsRead", mock.Anything, userID).Return(int64(3), nil)

	count, err := svc.MarkAllUserNotificationsAsRead(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
