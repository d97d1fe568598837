// File: internal/listing/model.go
package listing

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Filter tabs for the moderation list. Pending and verified exactly
// partition the full set.
const (
	FilterPending  = "pending"
	FilterVerified = "verified"
	FilterAll      = "all"
)

// ServiceListing represents a provider's service offering. Listings keep the
// marketplace's original integer keys rather than UUIDs.
type ServiceListing struct {
	ID                    int64          `gorm:"primaryKey;autoIncrement"`
	ProviderID            uuid.UUID      `gorm:"type:uuid;not null;index"`
	ServiceName           string         `gorm:"type:varchar(255);not null"`
	ServiceCategory       string         `gorm:"type:varchar(100);not null"`
	CategorySlug          string         `gorm:"type:varchar(100);not null;index"`
	Description           *string        `gorm:"type:text"`
	PriceEstimate         *string        `gorm:"type:varchar(100)"`
	ImageURLs             pq.StringArray `gorm:"type:text[]"`
	IsActive              bool           `gorm:"not null;default:true"`
	IsVerified            bool           `gorm:"not null;default:false;index"`
	VerifiedBy            *uuid.UUID     `gorm:"type:uuid"`
	VerifiedAt            *time.Time
	Ratings               *float64       `gorm:"type:numeric(3,2)"`
	ServiceTerms          *string        `gorm:"type:text"`
	Contacts              pq.StringArray `gorm:"type:text[]"`
	Email                 *string        `gorm:"type:varchar(255)"`
	AvailabilityStartDay  *string        `gorm:"type:varchar(16)"`
	AvailabilityEndDay    *string        `gorm:"type:varchar(16)"`
	AvailabilityStartTime *string        `gorm:"type:varchar(16)"`
	AvailabilityEndTime   *string        `gorm:"type:varchar(16)"`
	ServiceAreas          pq.StringArray `gorm:"type:text[]"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName specifies the table name for the ServiceListing model.
func (ServiceListing) TableName() string {
	return "service_listings"
}

// --- DTOs ---

// ProviderProfile is the slice of the provider's profile rendered alongside a
// listing.
type ProviderProfile struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	BusinessName *string  `json:"business_name,omitempty"`
}

// ListingResponse defines the structure for listing data in API responses.
type ListingResponse struct {
	ID                    int64           `json:"id"`
	ProviderID            uuid.UUID       `json:"provider_id"`
	Provider              ProviderProfile `json:"provider"`
	ServiceName           string          `json:"service_name"`
	ServiceCategory       string          `json:"service_category"`
	CategorySlug          string          `json:"category_slug"`
	Description           *string         `json:"description,omitempty"`
	PriceEstimate         *string         `json:"price_estimate,omitempty"`
	ImageURLs             []string        `json:"image_urls"`
	IsActive              bool            `json:"is_active"`
	IsVerified            bool            `json:"is_verified"`
	VerifiedBy            *uuid.UUID      `json:"verified_by,omitempty"`
	VerifiedAt            *time.Time      `json:"verified_at,omitempty"`
	Ratings               *float64        `json:"ratings,omitempty"`
	ServiceTerms          *string         `json:"service_terms,omitempty"`
	Contacts              []string        `json:"contacts"`
	Email                 *string         `json:"email,omitempty"`
	AvailabilityStartDay  *string         `json:"availability_start_day,omitempty"`
	AvailabilityEndDay    *string         `json:"availability_end_day,omitempty"`
	AvailabilityStartTime *string         `json:"availability_start_time,omitempty"`
	AvailabilityEndTime   *string         `json:"availability_end_time,omitempty"`
	ServiceAreas          []string        `json:"service_areas"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// TabCounts carries the moderation tab counters returned with every list
// response. Pending plus verified always equals all.
type TabCounts struct {
	Pending  int64 `json:"pending"`
	Verified int64 `json:"verified"`
	All      int64 `json:"all"`
}

// ListResult bundles a page of listings with the tab counts.
type ListResult struct {
	Listings []ListingResponse `json:"listings"`
	Counts   TabCounts         `json:"counts"`
}

// SearchDocument is the shape indexed into Elasticsearch for admin search.
type SearchDocument struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category"`
	CategorySlug string    `json:"category_slug"`
	ProviderID   string    `json:"provider_id"`
	ProviderName string    `json:"provider_name,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	ServiceAreas []string  `json:"service_areas,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
