// File: internal/listing/repository.go
package listing

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

// Repository defines the interface for service listing data operations.
type Repository interface {
	Create(ctx context.Context, listing *ServiceListing) error
	FindByID(ctx context.Context, id int64) (*ServiceListing, error)
	FindByIDs(ctx context.Context, ids []int64) ([]ServiceListing, error)
	List(ctx context.Context, filter, query string, page, pageSize int) ([]ServiceListing, *common.Pagination, error)
	Counts(ctx context.Context) (TabCounts, error)
	SetVerification(ctx context.Context, id int64, verifierID uuid.UUID, verified bool) (*ServiceListing, error)
	CountByVerified(ctx context.Context, verified bool) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM listing repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new service listing.
func (r *gormRepository) Create(ctx context.Context, listing *ServiceListing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create service listing: %w", err)
	}
	return nil
}

// FindByID retrieves a listing by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id int64) (*ServiceListing, error) {
	var l ServiceListing
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Service listing not found.")
		}
		return nil, err
	}
	return &l, nil
}

// FindByIDs retrieves listings in the order of the given IDs. Used to render
// search results coming back from Elasticsearch.
func (r *gormRepository) FindByIDs(ctx context.Context, ids []int64) ([]ServiceListing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var listings []ServiceListing
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("fetching listings by IDs failed: %w", err)
	}

	byID := make(map[int64]ServiceListing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}
	ordered := make([]ServiceListing, 0, len(listings))
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			ordered = append(ordered, l)
		}
	}
	return ordered, nil
}

// List retrieves a page of listings for a moderation tab, newest first. The
// query parameter applies a case-insensitive match over name, category, and
// provider names; it is the database fallback used when Elasticsearch is not
// configured.
func (r *gormRepository) List(ctx context.Context, filter, query string, page, pageSize int) ([]ServiceListing, *common.Pagination, error) {
	var listings []ServiceListing
	var total int64

	base := r.db.WithContext(ctx).Model(&ServiceListing{})
	base = applyFilter(base, filter)

	if query != "" {
		pattern := "%" + query + "%"
		providerSubquery := r.db.Model(&profile.Profile{}).
			Select("id").
			Where("full_name ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ? OR business_name ILIKE ?",
				pattern, pattern, pattern, pattern)
		base = base.Where(
			"service_name ILIKE ? OR service_category ILIKE ? OR provider_id IN (?)",
			pattern, pattern, providerSubquery,
		)
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting service listings failed: %w", err)
	}

	pagination := common.NewPagination(total, page, pageSize)

	offset := (page - 1) * pageSize
	if page <= 0 {
		offset = 0
	}

	err := base.Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&listings).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching service listings failed: %w", err)
	}
	return listings, pagination, nil
}

func applyFilter(db *gorm.DB, filter string) *gorm.DB {
	switch filter {
	case FilterPending:
		return db.Where("is_verified = ?", false)
	case FilterVerified:
		return db.Where("is_verified = ?", true)
	default:
		return db
	}
}

// Counts returns the moderation tab counters in one pass over two count
// queries. Pending + verified = all by construction.
func (r *gormRepository) Counts(ctx context.Context) (TabCounts, error) {
	var counts TabCounts

	pending, err := r.CountByVerified(ctx, false)
	if err != nil {
		return counts, err
	}
	verified, err := r.CountByVerified(ctx, true)
	if err != nil {
		return counts, err
	}

	counts.Pending = pending
	counts.Verified = verified
	counts.All = pending + verified
	return counts, nil
}

// SetVerification flips the verification flag with a single conditional
// update. Verifying also forces the listing active and stamps the verifier;
// revoking clears the stamps and leaves is_active untouched. A listing
// already in the target state is a conflict so concurrent toggles cannot
// double-apply.
func (r *gormRepository) SetVerification(ctx context.Context, id int64, verifierID uuid.UUID, verified bool) (*ServiceListing, error) {
	var updates map[string]interface{}
	if verified {
		updates = map[string]interface{}{
			"is_verified": true,
			"is_active":   true,
			"verified_by": verifierID,
			"verified_at": time.Now(),
		}
	} else {
		updates = map[string]interface{}{
			"is_verified": false,
			"verified_by": nil,
			"verified_at": nil,
		}
	}

	result := r.db.WithContext(ctx).Model(&ServiceListing{}).
		Where("id = ? AND is_verified = ?", id, !verified).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, common.ErrConflict.WithDetails("The listing's verification state changed concurrently.")
	}
	return r.FindByID(ctx, id)
}

// CountByVerified counts listings by verification flag.
func (r *gormRepository) CountByVerified(ctx context.Context, verified bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ServiceListing{}).
		Where("is_verified = ?", verified).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting service listings failed: %w", err)
	}
	return count, nil
}
