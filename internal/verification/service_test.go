// File: internal/verification/service_test.go
package verification

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/common"
	"marketplace_admin_backend/internal/config"
	"marketplace_admin_backend/internal/notification"
	"marketplace_admin_backend/internal/profile"
	"marketplace_admin_backend/internal/shared"
)

// MockVerificationRepository is a mock type for verification.Repository
type MockVerificationRepository struct {
	mock.Mock
}

func (m *MockVerificationRepository) Create(ctx context.Context, request *VerificationRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockVerificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*VerificationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerificationRequest), args.Error(1)
}

func (m *MockVerificationRepository) List(ctx context.Context, status string, page, pageSize int) ([]VerificationRequest, *common.Pagination, error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]VerificationRequest), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockVerificationRepository) FindRecent(ctx context.Context, limit int) ([]VerificationRequest, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]VerificationRequest), args.Error(1)
}

func (m *MockVerificationRepository) ApproveAndPromote(ctx context.Context, id, reviewerID uuid.UUID) (*VerificationRequest, error) {
	args := m.Called(ctx, id, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerificationRequest), args.Error(1)
}

func (m *MockVerificationRepository) Deny(ctx context.Context, id, reviewerID uuid.UUID, reason string) (*VerificationRequest, error) {
	args := m.Called(ctx, id, reviewerID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerificationRequest), args.Error(1)
}

func (m *MockVerificationRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVerificationRepository) CountPendingOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockProfileService is a mock type for profile.Service
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfileByID(ctx context.Context, id uuid.UUID) (*shared.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Profile), args.Error(1)
}

func (m *MockProfileService) GetProfileByFirebaseUID(ctx context.Context, firebaseUID string) (*shared.Profile, error) {
	args := m.Called(ctx, firebaseUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Profile), args.Error(1)
}

func (m *MockProfileService) GetOrCreateFromFirebaseToken(ctx context.Context, token *firebaseauth.Token) (*shared.Profile, bool, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*shared.Profile), args.Bool(1), args.Error(2)
}

func (m *MockProfileService) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockProfileService) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*profile.Profile, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*profile.Profile), args.Error(1)
}

func (m *MockProfileService) DisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
}

// MockNotificationService is a mock type for notification.Service
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) CreateNotification(ctx context.Context, userID uuid.UUID, notifType notification.NotificationType, message string, relatedEntityID *string) (*notification.Notification, error) {
	args := m.Called(ctx, userID, notifType, message, relatedEntityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationService) GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]notification.Notification, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]notification.Notification), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockNotificationService) MarkNotificationAsRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// recordingPublisher captures change-feed publishes.
type recordingPublisher struct {
	mu     sync.Mutex
	events [][3]string
}

func (p *recordingPublisher) Publish(table, action, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, [3]string{table, action, id})
}

// MockObjectStore is a mock type for storage.Service
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) SignedURL(ctx context.Context, storedRef string) (string, error) {
	args := m.Called(ctx, storedRef)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) Upload(ctx context.Context, key string, body io.Reader, contentType string, upsert bool) error {
	args := m.Called(ctx, key, body, contentType, upsert)
	return args.Error(0)
}

func newTestService(repo *MockVerificationRepository, profiles *MockProfileService, notifs *MockNotificationService, pub *recordingPublisher, store *MockObjectStore) *ServiceImplementation {
	cfg := &config.Config{SignedURLExpiry: time.Hour}
	return NewService(repo, profiles, notifs, pub, store, cfg, zap.NewNop())
}

func TestDenyRejectsBlankReasonBeforeStore(t *testing.T) {
	repo := new(MockVerificationRepository)
	profiles := new(MockProfileService)
	notifs := new(MockNotificationService)
	pub := &recordingPublisher{}
	store := new(MockObjectStore)
	svc := newTestService(repo, profiles, notifs, pub, store)

	for _, reason := range []string{"", "   ", "\t\n"} {
		_, err := svc.Deny(context.Background(), uuid.New(), uuid.New(), reason)
		require.Error(t, err)
		apiErr, ok := common.IsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, 422, apiErr.StatusCode)
	}

	// No store call happened for any blank variant.
	repo.AssertNotCalled(t, "Deny", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, pub.events)
}

func TestDenyTrimsReasonAndPersistsExactString(t *testing.T) {
	repo := new(MockVerificationRepository)
	profiles := new(MockProfileService)
	notifs := new(MockNotificationService)
	pub := &recordingPublisher{}
	store := new(MockObjectStore)
	svc := newTestService(repo, profiles, notifs, pub, store)

	requestID := uuid.New()
	reviewerID := uuid.New()
	subjectID := uuid.New()
	reason := "Document image is unreadable"
	now := time.Now()

	denied := &VerificationRequest{
		UserID:          subjectID,
		Status:          StatusDenied,
		ReviewedAt:      &now,
		ReviewedBy:      &reviewerID,
		RejectionReason: &reason,
	}
	denied.ID = requestID

	repo.On("Deny", mock.Anything, requestID, reviewerID, reason).Return(denied, nil)
	profiles.On("GetByIDs", mock.Anything, []uuid.UUID{subjectID}).
		Return(map[uuid.UUID]*profile.Profile{}, nil)
	notifs.On("CreateNotification", mock.Anything, subjectID, notification.VerificationDenied, mock.Anything, mock.Anything).
		Return(&notification.Notification{}, nil)

	resp, err := svc.Deny(context.Background(), requestID, reviewerID, "  "+reason+"  ")
	require.NoError(t, err)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, reason, *resp.RejectionReason)
	assert.Equal(t, StatusDenied, resp.Status)
	// Missing subject profile degrades to the fallback name.
	assert.Equal(t, "Unknown User", resp.Subject.DisplayName)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "verification_requests", pub.events[0][0])
	assert.Equal(t, "UPDATE", pub.events[0][1])
	assert.Equal(t, requestID.String(), pub.events[0][2])

	repo.AssertExpectations(t)
	notifs.AssertExpectations(t)
}

func TestApprovePublishesAndNotifies(t *testing.T) {
	repo := new(MockVerificationRepository)
	profiles := new(MockProfileService)
	notifs := new(MockNotificationService)
	pub := &recordingPublisher{}
	store := new(MockObjectStore)
	svc := newTestService(repo, profiles, notifs, pub, store)

	requestID := uuid.New()
	reviewerID := uuid.New()
	subjectID := uuid.New()
	now := time.Now()

	approved := &VerificationRequest{
		UserID:     subjectID,
		Status:     StatusVerified,
		ReviewedAt: &now,
		ReviewedBy: &reviewerID,
	}
	approved.ID = requestID
	approved.CreatedAt = now.Add(-time.Hour)

	fullName := "Abebe Kebede"
	subjectProfile := &profile.Profile{FullName: &fullName, Role: common.RoleProvider}
	subjectProfile.ID = subjectID

	repo.On("ApproveAndPromote", mock.Anything, requestID, reviewerID).Return(approved, nil)
	profiles.On("GetByIDs", mock.Anything, []uuid.UUID{subjectID}).
		Return(map[uuid.UUID]*profile.Profile{subjectID: subjectProfile}, nil)
	notifs.On("CreateNotification", mock.Anything, subjectID, notification.VerificationApproved, mock.Anything, mock.Anything).
		Return(&notification.Notification{}, nil)

	resp, err := svc.Approve(context.Background(), requestID, reviewerID)
	require.NoError(t, err)
	assert.Equal(t, StatusVerified, resp.Status)
	assert.Equal(t, "Abebe Kebede", resp.Subject.DisplayName)
	require.NotNil(t, resp.ReviewedAt)
	assert.False(t, resp.ReviewedAt.Before(resp.CreatedAt))

	require.Len(t, pub.events, 1)
	repo.AssertExpectations(t)
	notifs.AssertExpectations(t)
}

func TestApprovePassesThroughConflict(t *testing.T) {
	repo := new(MockVerificationRepository)
	profiles := new(MockProfileService)
	notifs := new(MockNotificationService)
	pub := &recordingPublisher{}
	store := new(MockObjectStore)
	svc := newTestService(repo, profiles, notifs, pub, store)

	requestID := uuid.New()
	reviewerID := uuid.New()
	conflict := common.ErrConflict.WithDetails("This verification request has already been reviewed.")
	repo.On("ApproveAndPromote", mock.Anything, requestID, reviewerID).Return(nil, conflict)

	_, err := svc.Approve(context.Background(), requestID, reviewerID)
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 409, apiErr.StatusCode)

	assert.Empty(t, pub.events)
	notifs.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentsSurfacePerImageErrors(t *testing.T) {
	repo := new(MockVerificationRepository)
	profiles := new(MockProfileService)
	notifs := new(MockNotificationService)
	pub := &recordingPublisher{}
	store := new(MockObjectStore)
	svc := newTestService(repo, profiles, notifs, pub, store)

	requestID := uuid.New()
	back := "documents/back.jpg"
	req := &VerificationRequest{
		UserID:         uuid.New(),
		FrontImagePath: "???not-a-ref???",
		BackImagePath:  &back,
		Status:         StatusPending,
	}
	req.ID = requestID

	repo.On("FindByID", mock.Anything, requestID).Return(req, nil)
	store.On("SignedURL", mock.Anything, "???not-a-ref???").Return("", errors.New("unparseable reference"))
	store.On("SignedURL", mock.Anything, back).Return("https://signed.example/back.jpg", nil)

	resp, err := svc.Documents(context.Background(), requestID)
	require.NoError(t, err)
	require.Len(t, resp.Documents, 2)

	assert.Equal(t, "front", resp.Documents[0].Side)
	assert.Empty(t, resp.Documents[0].SignedURL)
	assert.NotEmpty(t, resp.Documents[0].Error)

	assert.Equal(t, "back", resp.Documents[1].Side)
	assert.Equal(t, "https://signed.example/back.jpg", resp.Documents[1].SignedURL)
	assert.Empty(t, resp.Documents[1].Error)
	require.NotNil(t, resp.Documents[1].ExpiresAt)
}

func TestRecentDefaultsLimit(t *testing.T) {
	repo := new(MockVerificationRepository)
	profiles := new(MockProfileService)
	notifs := new(MockNotificationService)
	pub := &recordingPublisher{}
	store := new(MockObjectStore)
	svc := newTestService(repo, profiles, notifs, pub, store)

	repo.On("FindRecent", mock.Anything, 5).Return([]VerificationRequest{}, nil)
	profiles.On("GetByIDs", mock.Anything, []uuid.UUID{}).
		Return(map[uuid.UUID]*profile.Profile{}, nil)

	_, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	repo := new(MockVerificationRepository)
	profiles := new(MockProfileService)
	notifs := new(MockNotificationService)
	pub := &recordingPublisher{}
	store := new(MockObjectStore)
	svc := newTestService(repo, profiles, notifs, pub, store)

	_, _, err := svc.List(context.Background(), "archived", 1, 20)
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.StatusCode)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
