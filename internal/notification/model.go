// File: internal/notification/model.go
package notification

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType defines the type of notification.
type NotificationType string

const (
	VerificationApproved        NotificationType = "verification_approved"
	VerificationDenied          NotificationType = "verification_denied"
	ServiceVerified             NotificationType = "service_verified"
	ServiceVerificationRevoked  NotificationType = "service_verification_revoked"
)

// Notification represents a user notification. Rows are immutable apart from
// the read flag.
type Notification struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID          uuid.UUID        `gorm:"type:uuid;not null;index:idx_notification_user_status" json:"user_id"`
	Type            NotificationType `gorm:"type:varchar(100);not null" json:"type"`
	Message         string           `gorm:"type:text;not null" json:"message"`
	RelatedEntityID *string          `gorm:"type:varchar(64)" json:"related_entity_id,omitempty"`
	IsRead          bool             `gorm:"not null;default:false;index:idx_notification_user_status" json:"is_read"`
	CreatedAt       time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_notification_user_status" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}
