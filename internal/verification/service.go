// File: internal/verification/service.go
package verification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/common"
	"marketplace_admin_backend/internal/config"
	"marketplace_admin_backend/internal/notification"
	"marketplace_admin_backend/internal/profile"
	"marketplace_admin_backend/internal/realtime"
	"marketplace_admin_backend/internal/storage"
)

const defaultRecentLimit = 5

// Service defines the interface for verification review operations.
type Service interface {
	List(ctx context.Context, status string, page, pageSize int) ([]VerificationResponse, *common.Pagination, error)
	Recent(ctx context.Context, limit int) ([]VerificationResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*VerificationResponse, error)
	Approve(ctx context.Context, id, reviewerID uuid.UUID) (*VerificationResponse, error)
	Deny(ctx context.Context, id, reviewerID uuid.UUID, reason string) (*VerificationResponse, error)
	Documents(ctx context.Context, id uuid.UUID) (*DocumentsResponse, error)
	CountPendingOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo                Repository
	profileService      profile.Service
	notificationService notification.Service
	publisher           realtime.Publisher
	objectStore         storage.Service
	signedURLExpiry     time.Duration
	logger              *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new verification service.
func NewService(
	repo Repository,
	profileService profile.Service,
	notificationService notification.Service,
	publisher realtime.Publisher,
	objectStore storage.Service,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:                repo,
		profileService:      profileService,
		notificationService: notificationService,
		publisher:           publisher,
		objectStore:         objectStore,
		signedURLExpiry:     cfg.SignedURLExpiry,
		logger:              logger.Named("verification_service"),
	}
}

// List returns a page of verification requests with subject profiles joined
// in application code.
func (s *ServiceImplementation) List(ctx context.Context, status string, page, pageSize int) ([]VerificationResponse, *common.Pagination, error) {
	if status != "" && status != StatusPending && status != StatusVerified && status != StatusDenied {
		return nil, nil, common.ErrBadRequest.WithDetails(
			fmt.Sprintf("Invalid status filter %q. Must be one of: pending, verified, denied.", status))
	}

	requests, pagination, err := s.repo.List(ctx, status, page, pageSize)
	if err != nil {
		return nil, nil, err
	}

	responses, err := s.toResponses(ctx, requests)
	if err != nil {
		return nil, nil, err
	}
	return responses, pagination, nil
}

// Recent returns the newest requests for the dashboard overview.
func (s *ServiceImplementation) Recent(ctx context.Context, limit int) ([]VerificationResponse, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > common.MaxPageSize {
		limit = common.MaxPageSize
	}

	requests, err := s.repo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, requests)
}

// GetByID returns a single request with its subject profile.
func (s *ServiceImplementation) GetByID(ctx context.Context, id uuid.UUID) (*VerificationResponse, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	responses, err := s.toResponses(ctx, []VerificationRequest{*req})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// Approve marks a pending request verified and promotes the subject to the
// provider role. Both writes share one transaction; a request that is no
// longer pending is a conflict.
func (s *ServiceImplementation) Approve(ctx context.Context, id, reviewerID uuid.UUID) (*VerificationResponse, error) {
	approved, err := s.repo.ApproveAndPromote(ctx, id, reviewerID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Verification request approved",
		zap.String("requestID", id.String()),
		zap.String("reviewerID", reviewerID.String()),
		zap.String("subjectID", approved.UserID.String()),
	)

	s.publisher.Publish(realtime.TableVerifications, realtime.ActionUpdate, id.String())
	s.notifyDecision(ctx, approved, notification.VerificationApproved,
		"Your identity verification was approved. Your account now has provider access.")

	responses, err := s.toResponses(ctx, []VerificationRequest{*approved})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// Deny marks a pending request denied. The reason is trimmed and must be
// non-empty; validation happens before any store call so a bad request never
// touches the record.
func (s *ServiceImplementation) Deny(ctx context.Context, id, reviewerID uuid.UUID, reason string) (*VerificationResponse, error) {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return nil, common.ErrUnprocessableEntity.WithDetails("A rejection reason is required.")
	}

	denied, err := s.repo.Deny(ctx, id, reviewerID, trimmed)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Verification request denied",
		zap.String("requestID", id.String()),
		zap.String("reviewerID", reviewerID.String()),
	)

	s.publisher.Publish(realtime.TableVerifications, realtime.ActionUpdate, id.String())
	s.notifyDecision(ctx, denied, notification.VerificationDenied,
		fmt.Sprintf("Your identity verification was denied: %s", trimmed))

	responses, err := s.toResponses(ctx, []VerificationRequest{*denied})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// Documents resolves the stored document references to presigned URLs. A
// reference that cannot be resolved yields a per-image error entry instead of
// failing the whole response.
func (s *ServiceImplementation) Documents(ctx context.Context, id uuid.UUID) (*DocumentsResponse, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &DocumentsResponse{VerificationID: req.ID}
	resp.Documents = append(resp.Documents, s.resolveDocument(ctx, "front", req.FrontImagePath))
	if req.BackImagePath != nil && *req.BackImagePath != "" {
		resp.Documents = append(resp.Documents, s.resolveDocument(ctx, "back", *req.BackImagePath))
	}
	return resp, nil
}

// CountPendingOlderThan exposes the stale-pending count for the sweep job.
func (s *ServiceImplementation) CountPendingOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.repo.CountPendingOlderThan(ctx, cutoff)
}

func (s *ServiceImplementation) resolveDocument(ctx context.Context, side, storedRef string) DocumentLink {
	signedURL, err := s.objectStore.SignedURL(ctx, storedRef)
	if err != nil {
		s.logger.Warn("Failed to resolve document reference",
			zap.Error(err), zap.String("side", side))
		return DocumentLink{Side: side, Error: err.Error()}
	}
	expiresAt := time.Now().Add(s.signedURLExpiry)
	return DocumentLink{Side: side, SignedURL: signedURL, ExpiresAt: &expiresAt}
}

func (s *ServiceImplementation) notifyDecision(ctx context.Context, req *VerificationRequest, notifType notification.NotificationType, message string) {
	if s.notificationService == nil {
		return
	}
	relatedID := req.ID.String()
	if _, err := s.notificationService.CreateNotification(ctx, req.UserID, notifType, message, &relatedID); err != nil {
		// The decision already committed; a notification failure is logged only.
		s.logger.Error("Failed to create decision notification",
			zap.Error(err), zap.String("requestID", req.ID.String()))
	}
}

// toResponses joins subject profiles in application code. A missing profile
// degrades to fallback display text.
func (s *ServiceImplementation) toResponses(ctx context.Context, requests []VerificationRequest) ([]VerificationResponse, error) {
	userIDs := make([]uuid.UUID, 0, len(requests))
	seen := make(map[uuid.UUID]struct{}, len(requests))
	for _, req := range requests {
		if _, ok := seen[req.UserID]; !ok {
			seen[req.UserID] = struct{}{}
			userIDs = append(userIDs, req.UserID)
		}
	}

	profiles, err := s.profileService.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]VerificationResponse, 0, len(requests))
	for _, req := range requests {
		subject := SubjectProfile{ID: req.UserID, DisplayName: "Unknown User"}
		if p, ok := profiles[req.UserID]; ok {
			subject.DisplayName = p.DisplayName()
			subject.PhoneNumber = p.PhoneNumber
			subject.AvatarURL = p.AvatarURL
			subject.Role = p.Role
		}
		responses = append(responses, VerificationResponse{
			ID:               req.ID,
			UserID:           req.UserID,
			Subject:          subject,
			FrontImagePath:   req.FrontImagePath,
			BackImagePath:    req.BackImagePath,
			VerificationType: req.VerificationType,
			Status:           req.Status,
			ReviewedAt:       req.ReviewedAt,
			ReviewedBy:       req.ReviewedBy,
			RejectionReason:  req.RejectionReason,
			CreatedAt:        req.CreatedAt,
			UpdatedAt:        req.UpdatedAt,
		})
	}
	return responses, nil
}
