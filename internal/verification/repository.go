// File: internal/verification/repository.go
package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace_admin_backend/internal/common"
	"marketplace_admin_backend/internal/profile"
)

// Repository defines the interface for verification request data operations.
type Repository interface {
	Create(ctx context.Context, request *VerificationRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*VerificationRequest, error)
	List(ctx context.Context, status string, page, pageSize int) ([]VerificationRequest, *common.Pagination, error)
	FindRecent(ctx context.Context, limit int) ([]VerificationRequest, error)
	ApproveAndPromote(ctx context.Context, id, reviewerID uuid.UUID) (*VerificationRequest, error)
	Deny(ctx context.Context, id, reviewerID uuid.UUID, reason string) (*VerificationRequest, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountPendingOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM verification repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new verification request.
func (r *gormRepository) Create(ctx context.Context, request *VerificationRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return fmt.Errorf("failed to create verification request: %w", err)
	}
	return nil
}

// FindByID retrieves a verification request by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*VerificationRequest, error) {
	var req VerificationRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Verification request not found.")
		}
		return nil, err
	}
	return &req, nil
}

// List retrieves a page of verification requests, newest first, optionally
// filtered by status.
func (r *gormRepository) List(ctx context.Context, status string, page, pageSize int) ([]VerificationRequest, *common.Pagination, error) {
	var requests []VerificationRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&VerificationRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting verification requests failed: %w", err)
	}

	pagination := common.NewPagination(total, page, pageSize)

	offset := (page - 1) * pageSize
	if page <= 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&requests).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching verification requests failed: %w", err)
	}
	return requests, pagination, nil
}

// FindRecent retrieves the most recent requests regardless of status.
func (r *gormRepository) FindRecent(ctx context.Context, limit int) ([]VerificationRequest, error) {
	var requests []VerificationRequest
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("fetching recent verification requests failed: %w", err)
	}
	return requests, nil
}

// ApproveAndPromote marks a pending request verified and promotes the subject
// profile to the provider role in one transaction. The status transition is a
// conditional update so two concurrent reviews cannot both win; the loser
// gets a conflict.
func (r *gormRepository) ApproveAndPromote(ctx context.Context, id, reviewerID uuid.UUID) (*VerificationRequest, error) {
	var approved VerificationRequest

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req VerificationRequest
		if err := tx.Where("id = ?", id).First(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrNotFound.WithDetails("Verification request not found.")
			}
			return err
		}

		now := time.Now()
		result := tx.Model(&VerificationRequest{}).
			Where("id = ? AND status = ?", id, StatusPending).
			Updates(map[string]interface{}{
				"status":      StatusVerified,
				"reviewed_at": now,
				"reviewed_by": reviewerID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrConflict.WithDetails("This verification request has already been reviewed.")
		}

		promote := tx.Model(&profile.Profile{}).
			Where("id = ?", req.UserID).
			Updates(map[string]interface{}{
				"role":                 common.RoleProvider,
				"national_id_verified": true,
			})
		if promote.Error != nil {
			return promote.Error
		}
		if promote.RowsAffected == 0 {
			// Rolls the approval back; a request must reference a profile.
			return fmt.Errorf("subject profile %s not found for verification %s", req.UserID, id)
		}

		if err := tx.Where("id = ?", id).First(&approved).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &approved, nil
}

// Deny marks a pending request denied with the given reason. The transition
// is a single conditional update; the reason string is persisted exactly as
// passed.
func (r *gormRepository) Deny(ctx context.Context, id, reviewerID uuid.UUID, reason string) (*VerificationRequest, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&VerificationRequest{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"status":           StatusDenied,
			"reviewed_at":      now,
			"reviewed_by":      reviewerID,
			"rejection_reason": reason,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing row from one already reviewed.
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, common.ErrConflict.WithDetails("This verification request has already been reviewed.")
	}
	return r.FindByID(ctx, id)
}

// CountByStatus counts requests in the given status.
func (r *gormRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&VerificationRequest{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting verification requests by status failed: %w", err)
	}
	return count, nil
}

// CountPendingOlderThan counts requests still pending past the cutoff. Used
// by the stale-verification sweep.
func (r *gormRepository) CountPendingOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&VerificationRequest{}).
		Where("status = ? AND created_at < ?", StatusPending, cutoff).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting stale pending verification requests failed: %w", err)
	}
	return count, nil
}
