// File: internal/profile/service.go
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/common"
	"marketplace_admin_backend/internal/shared"
)

// Service defines profile operations beyond what the middleware needs.
type Service interface {
	shared.Service
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Profile, error)
	DisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// ServiceImplementation implements Service on top of the GORM repository.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new profile service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		logger: logger.Named("profile_service"),
	}
}

// GetProfileByID returns the cross-package view of a profile.
func (s *ServiceImplementation) GetProfileByID(ctx context.Context, id uuid.UUID) (*shared.Profile, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.ToShared(), nil
}

// GetProfileByFirebaseUID returns the cross-package view of a profile.
func (s *ServiceImplementation) GetProfileByFirebaseUID(ctx context.Context, firebaseUID string) (*shared.Profile, error) {
	p, err := s.repo.FindByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	return p.ToShared(), nil
}

// GetOrCreateFromFirebaseToken resolves the profile for a verified token,
// provisioning a client-role row on first contact. The role is never taken
// from token claims; admin access is granted directly in the database.
func (s *ServiceImplementation) GetOrCreateFromFirebaseToken(ctx context.Context, token *firebaseauth.Token) (*shared.Profile, bool, error) {
	existing, err := s.repo.FindByFirebaseUID(ctx, token.UID)
	if err == nil {
		now := time.Now()
		existing.LastLoginAt = &now
		if updateErr := s.repo.Update(ctx, existing); updateErr != nil {
			// Not critical for auth, log and continue.
			s.logger.Warn("Failed to update last login time", zap.Error(updateErr), zap.String("profileID", existing.ID.String()))
		}
		return existing.ToShared(), false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up profile by Firebase UID: %w", err)
	}

	newProfile := &Profile{
		FirebaseUID: token.UID,
		Role:        common.RoleClient,
	}
	if phone, ok := token.Claims["phone_number"].(string); ok && phone != "" {
		newProfile.PhoneNumber = phone
	}
	if email, ok := token.Claims["email"].(string); ok && email != "" {
		newProfile.Email = &email
	}
	if name, ok := token.Claims["name"].(string); ok && name != "" {
		newProfile.FullName = &name
	}
	if picture, ok := token.Claims["picture"].(string); ok && picture != "" {
		newProfile.AvatarURL = &picture
	}

	if err := s.repo.Create(ctx, newProfile); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			// Lost a race with a concurrent first request; re-read the row.
			created, findErr := s.repo.FindByFirebaseUID(ctx, token.UID)
			if findErr == nil {
				return created.ToShared(), false, nil
			}
		}
		s.logger.Error("Failed to create profile", zap.Error(err), zap.String("firebaseUID", token.UID))
		return nil, false, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("Created profile for new Firebase user",
		zap.String("profileID", newProfile.ID.String()), zap.String("firebaseUID", token.UID))
	return newProfile.ToShared(), true, nil
}

// GetByID returns the full GORM model for handlers that render profile DTOs.
func (s *ServiceImplementation) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return s.repo.FindByID(ctx, id)
}

// GetByIDs returns the profiles that exist for the given IDs, keyed by ID.
func (s *ServiceImplementation) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Profile, error) {
	return s.repo.FindByIDs(ctx, ids)
}

// DisplayNames resolves display names for a batch of profile IDs. IDs without
// a profile map to "Unknown User" so callers can render unconditionally.
func (s *ServiceImplementation) DisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	profiles, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if p, ok := profiles[id]; ok {
			names[id] = p.DisplayName()
		} else {
			names[id] = "Unknown User"
		}
	}
	return names, nil
}
