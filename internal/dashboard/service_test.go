// File: internal/dashboard/service_test.go
package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/common"
	"marketplace_admin_backend/internal/listing"
	"marketplace_admin_backend/internal/verification"
)

// MockVerificationRepository is a mock type for verification.Repository
type MockVerificationRepository struct {
	mock.Mock
}

func (m *MockVerificationRepository) Create(ctx context.Context, request *verification.VerificationRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockVerificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*verification.VerificationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.VerificationRequest), args.Error(1)
}

func (m *MockVerificationRepository) List(ctx context.Context, status string, page, pageSize int) ([]verification.VerificationRequest, *common.Pagination, error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]verification.VerificationRequest), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockVerificationRepository) FindRecent(ctx context.Context, limit int) ([]verification.VerificationRequest, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]verification.VerificationRequest), args.Error(1)
}

func (m *MockVerificationRepository) ApproveAndPromote(ctx context.Context, id, reviewerID uuid.UUID) (*verification.VerificationRequest, error) {
	args := m.Called(ctx, id, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.VerificationRequest), args.Error(1)
}

func (m *MockVerificationRepository) Deny(ctx context.Context, id, reviewerID uuid.UUID, reason string) (*verification.VerificationRequest, error) {
	args := m.Called(ctx, id, reviewerID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.VerificationRequest), args.Error(1)
}

func (m *MockVerificationRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVerificationRepository) CountPendingOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockListingRepository is a mock type for listing.Repository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, l *listing.ServiceListing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockListingRepository) FindByID(ctx context.Context, id int64) (*listing.ServiceListing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.ServiceListing), args.Error(1)
}

func (m *MockListingRepository) FindByIDs(ctx context.Context, ids []int64) ([]listing.ServiceListing, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]listing.ServiceListing), args.Error(1)
}

func (m *MockListingRepository) List(ctx context.Context, filter, query string, page, pageSize int) ([]listing.ServiceListing, *common.Pagination, error) {
	args := m.Called(ctx, filter, query, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]listing.ServiceListing), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockListingRepository) Counts(ctx context.Context) (listing.TabCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(listing.TabCounts), args.Error(1)
}

func (m *MockListingRepository) SetVerification(ctx context.Context, id int64, verifierID uuid.UUID, verified bool) (*listing.ServiceListing, error) {
	args := m.Called(ctx, id, verifierID, verified)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.ServiceListing), args.Error(1)
}

func (m *MockListingRepository) CountByVerified(ctx context.Context, verified bool) (int64, error) {
	args := m.Called(ctx, verified)
	return args.Get(0).(int64), args.Error(1)
}

func TestStatsMapsEveryCounter(t *testing.T) {
	verifications := new(MockVerificationRepository)
	listings := new(MockListingRepository)
	svc := NewService(verifications, listings, zap.NewNop())

	verifications.On("CountByStatus", mock.Anything, verification.StatusPending).Return(int64(4), nil)
	verifications.On("CountByStatus", mock.Anything, verification.StatusVerified).Return(int64(11), nil)
	verifications.On("CountByStatus", mock.Anything, verification.StatusDenied).Return(int64(2), nil)
	listings.On("CountByVerified", mock.Anything, false).Return(int64(6), nil)
	listings.On("CountByVerified", mock.Anything, true).Return(int64(9), nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.PendingVerifications)
	assert.Equal(t, int64(11), stats.VerifiedVerifications)
	assert.Equal(t, int64(2), stats.DeniedVerifications)
	assert.Equal(t, int64(6), stats.UnverifiedServices)
	assert.Equal(t, int64(9), stats.VerifiedServices)

	verifications.AssertExpectations(t)
	listings.AssertExpectations(t)
}

func TestStatsPropagatesCountErrors(t *testing.T) {
	verifications := new(MockVerificationRepository)
	listings := new(MockListingRepository)
	svc := NewService(verifications, listings, zap.NewNop())

	verifications.On("CountByStatus", mock.Anything, verification.StatusPending).Return(int64(4), nil)
	verifications.On("CountByStatus", mock.Anything, verification.StatusVerified).
		Return(int64(0), errors.New("connection reset"))

	_, err := svc.Stats(context.Background())
	require.Error(t, err)
	listings.AssertNotCalled(t, "CountByVerified", mock.Anything, mock.Anything)
}
