package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/flo-kian-baban/connex-backend/pkg/enums"
)

// ApplicationStatusChangedEvent is emitted when a provider decides an
// application or a collaboration request is created.
type ApplicationStatusChangedEvent struct {
	ApplicationID uuid.UUID               `json:"application_id"`
	OfferID       *uuid.UUID              `json:"offer_id,omitempty"`
	OfferTitle    string                  `json:"offer_title,omitempty"`
	ProviderID    uuid.UUID               `json:"provider_id"`
	CreatorUserID uuid.UUID               `json:"creator_user_id"`
	InitiatedBy   enums.UserRole          `json:"initiated_by"`
	Status        enums.ApplicationStatus `json:"status"`
	DecidedAt     *time.Time              `json:"decided_at,omitempty"`
}

// ChatMessageSentEvent fans a new message out to the other participant.
type ChatMessageSentEvent struct {
	MessageID       uuid.UUID `json:"message_id"`
	ConversationID  uuid.UUID `json:"conversation_id"`
	SenderID        uuid.UUID `json:"sender_id"`
	RecipientUserID uuid.UUID `json:"recipient_user_id"`
	SenderName      string    `json:"sender_name,omitempty"`
	Preview         string    `json:"preview"`
	SentAt          time.Time `json:"sent_at"`
}

// DeliverableSubmittedEvent is emitted after a creator uploads proof media.
type DeliverableSubmittedEvent struct {
	MediaID         uuid.UUID       `json:"media_id"`
	ApplicationID   uuid.UUID       `json:"application_id"`
	UploaderID      uuid.UUID       `json:"uploader_id"`
	RecipientUserID uuid.UUID       `json:"recipient_user_id"`
	MediaType       enums.MediaType `json:"media_type"`
	Label           string          `json:"label,omitempty"`
}

// CreatorProfileIncompleteEvent nudges a creator whose draft profile
// blocked an action that requires an active profile.
type CreatorProfileIncompleteEvent struct {
	CreatorUserID uuid.UUID `json:"creator_user_id"`
	MissingFields []string  `json:"missing_fields"`
}
