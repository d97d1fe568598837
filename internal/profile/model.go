// File: internal/profile/model.go
package profile

import (
	"time"

	"github.com/google/uuid"

	"marketplace_admin_backend/internal/common"
	"marketplace_admin_backend/internal/shared"
)

// Profile represents an account in the marketplace. Every Firebase user gets
// exactly one row here; staff accounts carry the admin role.
type Profile struct {
	common.BaseModel            // Embeds ID, CreatedAt, UpdatedAt
	FirebaseUID         string  `gorm:"type:varchar(128);not null;uniqueIndex"`
	PhoneNumber         string  `gorm:"type:varchar(32);index"`
	Email               *string `gorm:"type:varchar(255);index"`
	Role                string  `gorm:"type:varchar(50);not null;default:'client'"`
	FullName            *string `gorm:"type:varchar(255)"`
	FirstName           *string `gorm:"type:varchar(100)"`
	LastName            *string `gorm:"type:varchar(100)"`
	AvatarURL           *string `gorm:"type:text"`
	Bio                 *string `gorm:"type:text"`
	BusinessName        *string `gorm:"type:varchar(255)"`
	NationalIDNumber    *string `gorm:"type:varchar(64)"`
	NationalIDVerified  bool    `gorm:"not null;default:false"`
	LastLoginAt         *time.Time
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}

// ToShared converts the GORM model to the cross-package view.
func (p *Profile) ToShared() *shared.Profile {
	if p == nil {
		return nil
	}
	return &shared.Profile{
		ID:                 p.ID,
		FirebaseUID:        p.FirebaseUID,
		Role:               p.Role,
		PhoneNumber:        p.PhoneNumber,
		FullName:           p.FullName,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		AvatarURL:          p.AvatarURL,
		BusinessName:       p.BusinessName,
		NationalIDVerified: p.NationalIDVerified,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// DisplayName applies the same fallback chain as shared.Profile.
func (p *Profile) DisplayName() string {
	return p.ToShared().DisplayName()
}

// --- DTOs ---

// ProfileResponse defines the structure for profile data in API responses.
type ProfileResponse struct {
	ID                 uuid.UUID  `json:"id"`
	PhoneNumber        string     `json:"phone_number,omitempty"`
	Email              *string    `json:"email,omitempty"`
	Role               string     `json:"role"`
	FullName           *string    `json:"full_name,omitempty"`
	FirstName          *string    `json:"first_name,omitempty"`
	LastName           *string    `json:"last_name,omitempty"`
	AvatarURL          *string    `json:"avatar_url,omitempty"`
	Bio                *string    `json:"bio,omitempty"`
	BusinessName       *string    `json:"business_name,omitempty"`
	NationalIDVerified bool       `json:"national_id_verified"`
	DisplayName        string     `json:"display_name"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
}

// ToProfileResponse converts a Profile model to a ProfileResponse DTO.
func ToProfileResponse(p *Profile) ProfileResponse {
	return ProfileResponse{
		ID:                 p.ID,
		PhoneNumber:        p.PhoneNumber,
		Email:              p.Email,
		Role:               p.Role,
		FullName:           p.FullName,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		AvatarURL:          p.AvatarURL,
		Bio:                p.Bio,
		BusinessName:       p.BusinessName,
		NationalIDVerified: p.NationalIDVerified,
		DisplayName:        p.DisplayName(),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		LastLoginAt:        p.LastLoginAt,
	}
}
