package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
)

// Fallbacks shown when per-conversation enrichment fails or is empty.
const (
	UnknownPartyName   = "Unknown User"
	EmptyThreadPreview = "No messages yet"
)

// ConversationDTO is the transport shape for a single conversation.
type ConversationDTO struct {
	ID            uuid.UUID  `json:"id"`
	ApplicationID uuid.UUID  `json:"application_id"`
	ProviderID    uuid.UUID  `json:"provider_id"`
	CreatorID     uuid.UUID  `json:"creator_id"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ConversationListItem is one inbox row: the conversation plus the other
// party's identity, last message preview, and unread count.
type ConversationListItem struct {
	ConversationDTO
	OtherUserID uuid.UUID `json:"other_user_id"`
	OtherName   string    `json:"other_name"`
	Preview     string    `json:"preview"`
	UnreadCount int       `json:"unread_count"`
}

// MessageDTO is the transport shape for one chat message.
type MessageDTO struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Content        string    `json:"content"`
	ClientTag      *string   `json:"client_tag,omitempty"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// SendMessageInput carries a new message. ClientTag echoes the sender's
// temporary id so the client can splice its optimistic row.
type SendMessageInput struct {
	Content   string  `json:"content" validate:"required,max=5000"`
	ClientTag *string `json:"client_tag,omitempty" validate:"omitempty,max=100"`
}

func conversationFromModel(c *models.Conversation) ConversationDTO {
	return ConversationDTO{
		ID:            c.ID,
		ApplicationID: c.ApplicationID,
		ProviderID:    c.ProviderID,
		CreatorID:     c.CreatorID,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	}
}

func messageFromModel(m *models.Message) *MessageDTO {
	if m == nil {
		return nil
	}
	return &MessageDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		ClientTag:      m.ClientTag,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}
