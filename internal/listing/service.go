// File: internal/listing/service.go
package listing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/common"
	"marketplace_admin_backend/internal/notification"
	"marketplace_admin_backend/internal/profile"
	"marketplace_admin_backend/internal/realtime"
)

// Service defines the interface for service listing moderation.
type Service interface {
	List(ctx context.Context, filter, query string, page, pageSize int) (*ListResult, *common.Pagination, error)
	GetByID(ctx context.Context, id int64) (*ListingResponse, error)
	ToggleVerification(ctx context.Context, id int64, verifierID uuid.UUID) (*ListingResponse, error)
	Create(ctx context.Context, listing *ServiceListing) (*ListingResponse, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo                Repository
	search              *Search
	profileService      profile.Service
	notificationService notification.Service
	publisher           realtime.Publisher
	logger              *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new listing service.
func NewService(
	repo Repository,
	search *Search,
	profileService profile.Service,
	notificationService notification.Service,
	publisher realtime.Publisher,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:                repo,
		search:              search,
		profileService:      profileService,
		notificationService: notificationService,
		publisher:           publisher,
		logger:              logger.Named("listing_service"),
	}
}

// List returns a page for a moderation tab together with the tab counts.
// With a query and Elasticsearch configured the match comes from the index;
// otherwise the repository's ILIKE fallback applies.
func (s *ServiceImplementation) List(ctx context.Context, filter, query string, page, pageSize int) (*ListResult, *common.Pagination, error) {
	switch filter {
	case "", FilterAll:
		filter = FilterAll
	case FilterPending, FilterVerified:
	default:
		return nil, nil, common.ErrBadRequest.WithDetails(
			fmt.Sprintf("Invalid filter %q. Must be one of: pending, verified, all.", filter))
	}
	if page <= 0 {
		page = common.DefaultPage
	}
	if pageSize <= 0 || pageSize > common.MaxPageSize {
		pageSize = common.DefaultPageSize
	}

	var (
		listings   []ServiceListing
		pagination *common.Pagination
		err        error
	)

	if query != "" && s.search.Enabled() {
		listings, pagination, err = s.searchPage(ctx, filter, query, page, pageSize)
	} else {
		listings, pagination, err = s.repo.List(ctx, filter, query, page, pageSize)
	}
	if err != nil {
		return nil, nil, err
	}

	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, nil, err
	}

	responses, err := s.toResponses(ctx, listings)
	if err != nil {
		return nil, nil, err
	}
	return &ListResult{Listings: responses, Counts: counts}, pagination, nil
}

func (s *ServiceImplementation) searchPage(ctx context.Context, filter, query string, page, pageSize int) ([]ServiceListing, *common.Pagination, error) {
	ids, total, err := s.search.SearchIDs(ctx, query, filter, page, pageSize)
	if err != nil {
		// Degrade to the database rather than failing the screen.
		s.logger.Warn("Elasticsearch query failed, falling back to database search", zap.Error(err))
		return s.repo.List(ctx, filter, query, page, pageSize)
	}
	listings, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return listings, common.NewPagination(total, page, pageSize), nil
}

// GetByID returns a single listing with its provider profile.
func (s *ServiceImplementation) GetByID(ctx context.Context, id int64) (*ListingResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	responses, err := s.toResponses(ctx, []ServiceListing{*l})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// ToggleVerification flips the listing's verification state. Verifying forces
// the listing active and stamps the acting admin; revoking clears the stamps
// and leaves activity alone. The store-level conditional update turns a
// concurrent double toggle into a conflict.
func (s *ServiceImplementation) ToggleVerification(ctx context.Context, id int64, verifierID uuid.UUID) (*ListingResponse, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target := !current.IsVerified
	updated, err := s.repo.SetVerification(ctx, id, verifierID, target)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Listing verification toggled",
		zap.Int64("listingID", id),
		zap.Bool("verified", updated.IsVerified),
		zap.String("verifierID", verifierID.String()),
	)

	s.publisher.Publish(realtime.TableListings, realtime.ActionUpdate, fmt.Sprintf("%d", id))
	s.reindex(ctx, updated)
	s.notifyToggle(ctx, updated)

	responses, err := s.toResponses(ctx, []ServiceListing{*updated})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// Create stores a new listing, canonicalizing the category slug, and indexes
// it for search.
func (s *ServiceImplementation) Create(ctx context.Context, l *ServiceListing) (*ListingResponse, error) {
	if l.ServiceName == "" || l.ServiceCategory == "" {
		return nil, common.ErrBadRequest.WithDetails("Service name and category are required.")
	}
	l.CategorySlug = slug.Make(l.ServiceCategory)

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	s.publisher.Publish(realtime.TableListings, realtime.ActionInsert, fmt.Sprintf("%d", l.ID))
	s.reindex(ctx, l)

	responses, err := s.toResponses(ctx, []ServiceListing{*l})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

func (s *ServiceImplementation) reindex(ctx context.Context, l *ServiceListing) {
	if !s.search.Enabled() {
		return
	}

	doc := SearchDocument{
		ID:           l.ID,
		Name:         l.ServiceName,
		Category:     l.ServiceCategory,
		CategorySlug: l.CategorySlug,
		ProviderID:   l.ProviderID.String(),
		IsActive:     l.IsActive,
		IsVerified:   l.IsVerified,
		ServiceAreas: l.ServiceAreas,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	if l.Description != nil {
		doc.Description = *l.Description
	}
	if names, err := s.profileService.DisplayNames(ctx, []uuid.UUID{l.ProviderID}); err == nil {
		doc.ProviderName = names[l.ProviderID]
	}

	if err := s.search.Index(ctx, doc); err != nil {
		// The database is the source of truth; index drift is logged only.
		s.logger.Error("Failed to reindex listing", zap.Error(err), zap.Int64("listingID", l.ID))
	}
}

func (s *ServiceImplementation) notifyToggle(ctx context.Context, l *ServiceListing) {
	if s.notificationService == nil {
		return
	}

	notifType := notification.ServiceVerificationRevoked
	message := fmt.Sprintf("Verification for your service %q was revoked.", l.ServiceName)
	if l.IsVerified {
		notifType = notification.ServiceVerified
		message = fmt.Sprintf("Your service %q is now verified and live.", l.ServiceName)
	}

	relatedID := fmt.Sprintf("%d", l.ID)
	if _, err := s.notificationService.CreateNotification(ctx, l.ProviderID, notifType, message, &relatedID); err != nil {
		s.logger.Error("Failed to create toggle notification",
			zap.Error(err), zap.Int64("listingID", l.ID))
	}
}

// toResponses joins provider profiles in application code. A missing profile
// degrades to fallback display text.
func (s *ServiceImplementation) toResponses(ctx context.Context, listings []ServiceListing) ([]ListingResponse, error) {
	providerIDs := make([]uuid.UUID, 0, len(listings))
	seen := make(map[uuid.UUID]struct{}, len(listings))
	for _, l := range listings {
		if _, ok := seen[l.ProviderID]; !ok {
			seen[l.ProviderID] = struct{}{}
			providerIDs = append(providerIDs, l.ProviderID)
		}
	}

	profiles, err := s.profileService.GetByIDs(ctx, providerIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		provider := ProviderProfile{ID: l.ProviderID, DisplayName: "Unknown User"}
		if p, ok := profiles[l.ProviderID]; ok {
			provider.DisplayName = p.DisplayName()
			provider.PhoneNumber = p.PhoneNumber
			provider.AvatarURL = p.AvatarURL
			provider.BusinessName = p.BusinessName
		}
		responses = append(responses, ListingResponse{
			ID:                    l.ID,
			ProviderID:            l.ProviderID,
			Provider:              provider,
			ServiceName:           l.ServiceName,
			ServiceCategory:       l.ServiceCategory,
			CategorySlug:          l.CategorySlug,
			Description:           l.Description,
			PriceEstimate:         l.PriceEstimate,
			ImageURLs:             l.ImageURLs,
			IsActive:              l.IsActive,
			IsVerified:            l.IsVerified,
			VerifiedBy:            l.VerifiedBy,
			VerifiedAt:            l.VerifiedAt,
			Ratings:               l.Ratings,
			ServiceTerms:          l.ServiceTerms,
			Contacts:              l.Contacts,
			Email:                 l.Email,
			AvailabilityStartDay:  l.AvailabilityStartDay,
			AvailabilityEndDay:    l.AvailabilityEndDay,
			AvailabilityStartTime: l.AvailabilityStartTime,
			AvailabilityEndTime:   l.AvailabilityEndTime,
			ServiceAreas:          l.ServiceAreas,
			CreatedAt:             l.CreatedAt,
			UpdatedAt:             l.UpdatedAt,
		})
	}
	return responses, nil
}
