package chat

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
)

// Repository encapsulates conversation and message persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a chat repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTx inserts a conversation inside the provided transaction.
func (r *Repository) CreateTx(tx *gorm.DB, conv *models.Conversation) error {
	return tx.Create(conv).Error
}

// FindByID loads a conversation by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.WithContext(ctx).First(&conv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindByApplicationID loads the conversation bootstrapped for an application.
func (r *Repository) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.WithContext(ctx).First(&conv, "application_id = ?", applicationID).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindByParticipants returns the most recent conversation between two users,
// matching the pair in either order.
func (r *Repository) FindByParticipants(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).
		Where("(provider_id = ? AND creator_id = ?) OR (provider_id = ? AND creator_id = ?)",
			userA, userB, userB, userA).
		Order("created_at DESC").
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindByParticipantsTx is the transactional variant used when deciding an
// application, so the existence check and the insert share one snapshot.
func (r *Repository) FindByParticipantsTx(tx *gorm.DB, userA, userB uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := tx.
		Where("(provider_id = ? AND creator_id = ?) OR (provider_id = ? AND creator_id = ?)",
			userA, userB, userB, userA).
		Order("created_at DESC").
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

type conversationListRecord struct {
	ID            uuid.UUID      `gorm:"column:id"`
	ApplicationID uuid.UUID      `gorm:"column:application_id"`
	ProviderID    uuid.UUID      `gorm:"column:provider_id"`
	CreatorID     uuid.UUID      `gorm:"column:creator_id"`
	LastMessageAt *time.Time     `gorm:"column:last_message_at"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	ProviderName  sql.NullString `gorm:"column:provider_name"`
	CreatorName   sql.NullString `gorm:"column:creator_name"`
	LastMessage   sql.NullString `gorm:"column:last_message"`
	UnreadCount   int            `gorm:"column:unread_count"`
}

// ListForUser returns the user's inbox ordered by recency, with the other
// party's display name, last message preview, and unread count attached.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]ConversationListItem, error) {
	var records []conversationListRecord
	err := r.db.WithContext(ctx).
		Table("conversations c").
		Select(strings.Join([]string{
			"c.id",
			"c.application_id",
			"c.provider_id",
			"c.creator_id",
			"c.last_message_at",
			"c.created_at",
			"pu.display_name AS provider_name",
			"cu.display_name AS creator_name",
			"lm.content AS last_message",
			"(SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id AND m.sender_id <> ? AND m.is_read = false) AS unread_count",
		}, ", "), userID).
		Joins("LEFT JOIN users pu ON pu.id = c.provider_id").
		Joins("LEFT JOIN users cu ON cu.id = c.creator_id").
		Joins("LEFT JOIN LATERAL (SELECT content FROM messages m WHERE m.conversation_id = c.id ORDER BY m.created_at DESC, m.id DESC LIMIT 1) lm ON true").
		Where("c.provider_id = ? OR c.creator_id = ?", userID, userID).
		Order("COALESCE(c.last_message_at, c.created_at) DESC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	items := make([]ConversationListItem, 0, len(records))
	for _, record := range records {
		item := ConversationListItem{
			ConversationDTO: ConversationDTO{
				ID:            record.ID,
				ApplicationID: record.ApplicationID,
				ProviderID:    record.ProviderID,
				CreatorID:     record.CreatorID,
				LastMessageAt: record.LastMessageAt,
				CreatedAt:     record.CreatedAt,
			},
			OtherName:   UnknownPartyName,
			Preview:     EmptyThreadPreview,
			UnreadCount: record.UnreadCount,
		}
		otherName := record.ProviderName
		item.OtherUserID = record.ProviderID
		if record.ProviderID == userID {
			otherName = record.CreatorName
			item.OtherUserID = record.CreatorID
		}
		if otherName.Valid && strings.TrimSpace(otherName.String) != "" {
			item.OtherName = otherName.String
		}
		if record.LastMessage.Valid {
			item.Preview = record.LastMessage.String
		}
		items = append(items, item)
	}
	return items, nil
}

// CreateMessageTx inserts a message inside the provided transaction.
func (r *Repository) CreateMessageTx(tx *gorm.DB, msg *models.Message) error {
	return tx.Create(msg).Error
}

// TouchLastMessageTx bumps the conversation's recency marker.
func (r *Repository) TouchLastMessageTx(tx *gorm.DB, conversationID uuid.UUID, at time.Time) error {
	return tx.Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Update("last_message_at", at).Error
}

// ListMessages returns the full thread in ascending send order.
func (r *Repository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	var rows []models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkRead flips every unread message from the other participant.
func (r *Repository) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = false", conversationID, readerID).
		Update("is_read", true).Error
}
