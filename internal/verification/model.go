// File: internal/verification/model.go
package verification

import (
	"time"

	"github.com/google/uuid"

	"marketplace_admin_backend/internal/common"
)

// Verification request statuses. Pending is the only non-terminal state;
// there is no un-review path.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusDenied   = "denied"
)

// Verification types.
const (
	TypeNationalID = "national_id"
)

// VerificationRequest represents an identity verification submission.
type VerificationRequest struct {
	common.BaseModel           // Embeds ID, CreatedAt, UpdatedAt
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	FrontImagePath  string     `gorm:"type:text;not null"`
	BackImagePath   *string    `gorm:"type:text"`
	VerificationType string    `gorm:"type:varchar(50);not null;default:'national_id'"`
	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewedAt      *time.Time
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectionReason *string    `gorm:"type:text"`
}

// TableName specifies the table name for the VerificationRequest model.
func (VerificationRequest) TableName() string {
	return "verification_requests"
}

// IsPending reports whether the request is still awaiting review.
func (v *VerificationRequest) IsPending() bool {
	return v.Status == StatusPending
}

// --- DTOs ---

// DenyRequest is the body of the deny operation.
type DenyRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SubjectProfile is the slice of the subject's profile rendered alongside a
// verification request.
type SubjectProfile struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Role        string    `json:"role,omitempty"`
}

// VerificationResponse defines the structure for verification data in API
// responses. The subject profile is joined in application code; a missing
// profile renders fallback text rather than an error.
type VerificationResponse struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"user_id"`
	Subject          SubjectProfile  `json:"subject"`
	FrontImagePath   string          `json:"front_image_path"`
	BackImagePath    *string         `json:"back_image_path,omitempty"`
	VerificationType string          `json:"verification_type"`
	Status           string          `json:"status"`
	ReviewedAt       *time.Time      `json:"reviewed_at,omitempty"`
	ReviewedBy       *uuid.UUID      `json:"reviewed_by,omitempty"`
	RejectionReason  *string         `json:"rejection_reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// DocumentLink is one resolved document image in the documents response. A
// reference that could not be resolved carries an error message instead of a
// URL so the dashboard can render a per-image failure state.
type DocumentLink struct {
	Side      string     `json:"side"`
	SignedURL string     `json:"signed_url,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// DocumentsResponse is the body of the documents endpoint.
type DocumentsResponse struct {
	VerificationID uuid.UUID      `json:"verification_id"`
	Documents      []DocumentLink `json:"documents"`
}
