// File: internal/dashboard/service.go
package dashboard

import (
	"context"

	"go.uber.org/zap"

	"marketplace_admin_backend/internal/listing"
	"marketplace_admin_backend/internal/verification"
)

// Stats carries the dashboard counters. Each field is a count-only query;
// no rows are materialized.
type Stats struct {
	PendingVerifications  int64 `json:"pending_verifications"`
	VerifiedVerifications int64 `json:"verified_verifications"`
	DeniedVerifications   int64 `json:"denied_verifications"`
	UnverifiedServices    int64 `json:"unverified_services"`
	VerifiedServices      int64 `json:"verified_services"`
}

// Service computes the dashboard overview.
type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type serviceImpl struct {
	verifications verification.Repository
	listings      listing.Repository
	logger        *zap.Logger
}

var _ Service = (*serviceImpl)(nil)

// NewService creates a new dashboard service.
func NewService(verifications verification.Repository, listings listing.Repository, logger *zap.Logger) Service {
	return &serviceImpl{
		verifications: verifications,
		listings:      listings,
		logger:        logger.Named("dashboard_service"),
	}
}

func (s *serviceImpl) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	var err error

	if stats.PendingVerifications, err = s.verifications.CountByStatus(ctx, verification.StatusPending); err != nil {
		return nil, err
	}
	if stats.VerifiedVerifications, err = s.verifications.CountByStatus(ctx, verification.StatusVerified); err != nil {
		return nil, err
	}
	if stats.DeniedVerifications, err = s.verifications.CountByStatus(ctx, verification.StatusDenied); err != nil {
		return nil, err
	}
	if stats.UnverifiedServices, err = s.listings.CountByVerified(ctx, false); err != nil {
		return nil, err
	}
	if stats.VerifiedServices, err = s.listings.CountByVerified(ctx, true); err != nil {
		return nil, err
	}

	return &stats, nil
}
