package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/flo-kian-baban/connex-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to a recipient user.
// ConversationID is set for chat notifications so replying can clear them.
type Notification struct {
	ID             uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RecipientID    uuid.UUID              `gorm:"column:recipient_id;type:uuid;not null;index"`
	Type           enums.NotificationType `gorm:"column:type;type:notification_type;not null"`
	Title          string                 `gorm:"type:text;not null"`
	Message        string                 `gorm:"type:text;not null"`
	Link           *string                `gorm:"type:text"`
	ConversationID *uuid.UUID             `gorm:"column:conversation_id;type:uuid;index"`
	ReadAt         *time.Time             `gorm:"type:timestamptz"`
	CreatedAt      time.Time              `gorm:"type:timestamptz;default:now()"`
}
