package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the 1:1 thread created when an application is accepted.
// ProviderID and CreatorID are the participating users' IDs. LastMessageAt
// drives inbox ordering; nil until the first message lands.
type Conversation struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ApplicationID uuid.UUID  `gorm:"column:application_id;type:uuid;not null;uniqueIndex"`
	ProviderID    uuid.UUID  `gorm:"column:provider_id;type:uuid;not null;index"`
	CreatorID     uuid.UUID  `gorm:"column:creator_id;type:uuid;not null;index"`
	LastMessageAt *time.Time `gorm:"column:last_message_at;index"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
