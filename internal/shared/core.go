// File: internal/shared/core.go
package shared

import (
	"context"
	"strings"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
)

// Profile is the cross-package view of an account. Packages that only need
// identity and role (middleware, websocket tickets) depend on this instead of
// the profile package's GORM model to avoid import cycles.
type Profile struct {
	ID                 uuid.UUID
	FirebaseUID        string
	Role               string
	PhoneNumber        string
	FullName           *string
	FirstName          *string
	LastName           *string
	AvatarURL          *string
	BusinessName       *string
	NationalIDVerified bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DisplayName mirrors the fallback chain the dashboard uses everywhere:
// full name, then first+last, then phone number, then a placeholder.
func (p *Profile) DisplayName() string {
	if p == nil {
		return "Unknown User"
	}
	if p.FullName != nil && strings.TrimSpace(*p.FullName) != "" {
		return strings.TrimSpace(*p.FullName)
	}
	var first, last string
	if p.FirstName != nil {
		first = *p.FirstName
	}
	if p.LastName != nil {
		last = *p.LastName
	}
	if combined := strings.TrimSpace(first + " " + last); combined != "" {
		return combined
	}
	if p.PhoneNumber != "" {
		return p.PhoneNumber
	}
	return "Unknown User"
}

// Service defines the profile operations the auth middleware depends on.
type Service interface {
	GetProfileByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetProfileByFirebaseUID(ctx context.Context, firebaseUID string) (*Profile, error)
	GetOrCreateFromFirebaseToken(ctx context.Context, token *firebaseauth.Token) (profile *Profile, wasCreated bool, err error)
}
