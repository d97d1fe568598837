// File: internal/verification/repository_test.go
package verification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"marketplace_admin_backend/internal/common"
	"marketplace_admin_backend/internal/profile"
)

// The schema is created by hand because the production column defaults are
// postgres functions sqlite cannot evaluate.
const verificationSchema = `
CREATE TABLE verification_requests (
	id                TEXT PRIMARY KEY,
	created_at        DATETIME NOT NULL,
	updated_at        DATETIME NOT NULL,
	user_id           TEXT NOT NULL,
	front_image_path  TEXT NOT NULL,
	back_image_path   TEXT,
	verification_type TEXT NOT NULL DEFAULT 'national_id',
	status            TEXT NOT NULL DEFAULT 'pending',
	reviewed_at       DATETIME,
	reviewed_by       TEXT,
	rejection_reason  TEXT
)`

const profilesSchema = `
CREATE TABLE profiles (
	id                   TEXT PRIMARY KEY,
	created_at           DATETIME NOT NULL,
	updated_at           DATETIME NOT NULL,
	firebase_uid         TEXT NOT NULL UNIQUE,
	phone_number         TEXT,
	email                TEXT,
	role                 TEXT NOT NULL DEFAULT 'client',
	full_name            TEXT,
	first_name           TEXT,
	last_name            TEXT,
	avatar_url           TEXT,
	bio                  TEXT,
	business_name        TEXT,
	national_id_number   TEXT,
	national_id_verified BOOLEAN NOT NULL DEFAULT FALSE,
	last_login_at        DATETIME
)`

func setupVerificationRepo(t *testing.T) (Repository, *gorm.DB) {
	t.Helper()

	// A unique shared-cache DSN keeps the schema visible across pooled
	// connections without leaking state between tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "Failed to open in-memory database")
	require.NoError(t, db.Exec(verificationSchema).Error, "Failed to create verification schema")
	require.NoError(t, db.Exec(profilesSchema).Error, "Failed to create profiles schema")

	t.Cleanup(func() {
		sqlDB, dbErr := db.DB()
		if dbErr == nil {
			sqlDB.Close()
		}
	})
	return NewGORMRepository(db), db
}

func seedSubjectProfile(t *testing.T, db *gorm.DB, role string) *profile.Profile {
	t.Helper()
	p := &profile.Profile{
		FirebaseUID: uuid.NewString(),
		PhoneNumber: "+251911000000",
		Role:        role,
	}
	p.ID = uuid.New()
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedRequest(t *testing.T, repo Repository, userID uuid.UUID, status string, createdAt time.Time) *VerificationRequest {
	t.Helper()
	req := &VerificationRequest{
		UserID:           userID,
		FrontImagePath:   "documents/front.jpg",
		VerificationType: TypeNationalID,
		Status:           status,
	}
	req.ID = uuid.New()
	req.CreatedAt = createdAt
	require.NoError(t, repo.Create(context.Background(), req))
	return req
}

func TestApproveAndPromoteTransitionsAndPromotes(t *testing.T) {
	repo, db := setupVerificationRepo(t)
	subject := seedSubjectProfile(t, db, common.RoleClient)
	req := seedRequest(t, repo, subject.ID, StatusPending, time.Now())
	reviewerID := uuid.New()

	approved, err := repo.ApproveAndPromote(context.Background(), req.ID, reviewerID)
	require.NoError(t, err)
	assert.Equal(t, StatusVerified, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, reviewerID, *approved.ReviewedBy)
	require.NotNil(t, approved.ReviewedAt)

	var promoted profile.Profile
	require.NoError(t, db.First(&promoted, "id = ?", subject.ID).Error)
	assert.Equal(t, common.RoleProvider, promoted.Role)
	assert.True(t, promoted.NationalIDVerified)
}

func TestApproveAndPromoteSecondReviewConflicts(t *testing.T) {
	repo, db := setupVerificationRepo(t)
	subject := seedSubjectProfile(t, db, common.RoleClient)
	req := seedRequest(t, repo, subject.ID, StatusPending, time.Now())

	_, err := repo.ApproveAndPromote(context.Background(), req.ID, uuid.New())
	require.NoError(t, err)

	_, err = repo.ApproveAndPromote(context.Background(), req.ID, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConflict))
}

func TestApproveAndPromoteMissingRequest(t *testing.T) {
	repo, _ := setupVerificationRepo(t)

	_, err := repo.ApproveAndPromote(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestApproveAndPromoteRollsBackWithoutSubject(t *testing.T) {
	repo, db := setupVerificationRepo(t)
	// A request referencing no profile row; the approval must not stick.
	req := seedRequest(t, repo, uuid.New(), StatusPending, time.Now())

	_, err := repo.ApproveAndPromote(context.Background(), req.ID, uuid.New())
	require.Error(t, err)

	var stored VerificationRequest
	require.NoError(t, db.First(&stored, "id = ?", req.ID).Error)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Nil(t, stored.ReviewedBy)
}

func TestDenyStampsAndPersistsReasonExactly(t *testing.T) {
	repo, db := setupVerificationRepo(t)
	subject := seedSubjectProfile(t, db, common.RoleClient)
	req := seedRequest(t, repo, subject.ID, StatusPending, time.Now())
	reviewerID := uuid.New()
	reason := "blurry photo"

	denied, err := repo.Deny(context.Background(), req.ID, reviewerID, reason)
	require.NoError(t, err)
	assert.Equal(t, StatusDenied, denied.Status)
	require.NotNil(t, denied.RejectionReason)
	assert.Equal(t, reason, *denied.RejectionReason)
	require.NotNil(t, denied.ReviewedBy)
	assert.Equal(t, reviewerID, *denied.ReviewedBy)
	require.NotNil(t, denied.ReviewedAt)

	// Denial does not touch the subject's role.
	var subjectAfter profile.Profile
	require.NoError(t, db.First(&subjectAfter, "id = ?", subject.ID).Error)
	assert.Equal(t, common.RoleClient, subjectAfter.Role)
}

func TestDenyDistinguishesConflictFromMissing(t *testing.T) {
	repo, db := setupVerificationRepo(t)
	subject := seedSubjectProfile(t, db, common.RoleClient)
	req := seedRequest(t, repo, subject.ID, StatusPending, time.Now())

	_, err := repo.Deny(context.Background(), req.ID, uuid.New(), "first reason")
	require.NoError(t, err)

	_, err = repo.Deny(context.Background(), req.ID, uuid.New(), "second reason")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConflict))

	_, err = repo.Deny(context.Background(), uuid.New(), uuid.New(), "reason")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	// The losing reason never overwrites the first one.
	var stored VerificationRequest
	require.NoError(t, db.First(&stored, "id = ?", req.ID).Error)
	require.NotNil(t, stored.RejectionReason)
	assert.Equal(t, "first reason", *stored.RejectionReason)
}

func TestListFiltersByStatusNewestFirst(t *testing.T) {
	repo, db := setupVerificationRepo(t)
	subject := seedSubjectProfile(t, db, common.RoleClient)
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	older := seedRequest(t, repo, subject.ID, StatusPending, base)
	newer := seedRequest(t, repo, subject.ID, StatusPending, base.Add(time.Minute))
	seedRequest(t, repo, subject.ID, StatusDenied, base.Add(2*time.Minute))

	requests, pagination, err := repo.List(context.Background(), StatusPending, 1, 20)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, int64(2), pagination.TotalItems)
	assert.Equal(t, newer.ID, requests[0].ID)
	assert.Equal(t, older.ID, requests[1].ID)

	all, pagination, err := repo.List(context.Background(), "", 1, 20)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(3), pagination.TotalItems)
}

func TestCountsPartitionByStatusAndAge(t *testing.T) {
	repo, db := setupVerificationRepo(t)
	subject := seedSubjectProfile(t, db, common.RoleClient)
	now := time.Now().Truncate(time.Second)

	seedRequest(t, repo, subject.ID, StatusPending, now.Add(-72*time.Hour))
	seedRequest(t, repo, subject.ID, StatusPending, now)
	seedRequest(t, repo, subject.ID, StatusVerified, now.Add(-96*time.Hour))

	pending, err := repo.CountByStatus(context.Background(), StatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)

	verified, err := repo.CountByStatus(context.Background(), StatusVerified)
	require.NoError(t, err)
	assert.Equal(t, int64(1), verified)

	// Only the old pending row is stale; the verified one does not count.
	stale, err := repo.CountPendingOlderThan(context.Background(), now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stale)
}
