package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single chat entry. ClientTag carries the sender-generated
// identifier used to merge optimistic sends with pushed copies.
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ConversationID uuid.UUID `gorm:"column:conversation_id;type:uuid;not null;index:messages_conversation_created_idx"`
	SenderID       uuid.UUID `gorm:"column:sender_id;type:uuid;not null"`
	Content        string    `gorm:"column:content;not null"`
	ClientTag      *string   `gorm:"column:client_tag"`
	IsRead         bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime;index:messages_conversation_created_idx"`
}
