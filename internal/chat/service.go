package chat

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
	"github.com/flo-kian-baban/connex-backend/pkg/logger"
	"github.com/flo-kian-baban/connex-backend/pkg/outbox"
	"github.com/flo-kian-baban/connex-backend/pkg/outbox/payloads"
)

const previewLimit = 140

// Service exposes the conversation inbox and message thread operations.
type Service interface {
	ListConversations(ctx context.Context, userID uuid.UUID) ([]ConversationListItem, error)
	OpenConversation(ctx context.Context, userID, conversationID uuid.UUID) ([]MessageDTO, error)
	MarkRead(ctx context.Context, userID, conversationID uuid.UUID) error
	SendMessage(ctx context.Context, userID, conversationID uuid.UUID, input SendMessageInput) (*MessageDTO, error)
	ResolveByApplication(ctx context.Context, userID, applicationID uuid.UUID) (*ConversationDTO, error)
}

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*models.Conversation, error)
	FindByParticipants(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]ConversationListItem, error)
	CreateMessageTx(tx *gorm.DB, msg *models.Message) error
	TouchLastMessageTx(tx *gorm.DB, conversationID uuid.UUID, at time.Time) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error)
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error
}

type applicationLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
}

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type notificationCleaner interface {
	DeleteForConversationTx(tx *gorm.DB, recipientID, conversationID uuid.UUID) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the chat service.
type ServiceParams struct {
	DB            txRunner
	Repo          repository
	Applications  applicationLoader
	Users         userLoader
	Notifications notificationCleaner
	Outbox        eventEmitter
	Logger        *logger.Logger
}

type service struct {
	db            txRunner
	repo          repository
	applications  applicationLoader
	users         userLoader
	notifications notificationCleaner
	outbox        eventEmitter
	logg          *logger.Logger
}

// NewService builds a chat service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "chat repo required")
	}
	if params.Applications == nil || params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "application and user loaders required")
	}
	if params.Notifications == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notification cleaner required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "outbox emitter required")
	}
	return &service{
		db:            params.DB,
		repo:          params.Repo,
		applications:  params.Applications,
		users:         params.Users,
		notifications: params.Notifications,
		outbox:        params.Outbox,
		logg:          params.Logger,
	}, nil
}

// ListConversations returns the caller's inbox ordered by recency.
func (s *service) ListConversations(ctx context.Context, userID uuid.UUID) ([]ConversationListItem, error) {
	items, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list conversations")
	}
	return items, nil
}

// OpenConversation returns the full thread ascending and marks the other
// participant's unread messages as read. The read-mark is best effort: a
// failure there still returns the messages.
func (s *service) OpenConversation(ctx context.Context, userID, conversationID uuid.UUID) ([]MessageDTO, error) {
	if _, err := s.loadParticipantConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}
	if err := s.MarkRead(ctx, userID, conversationID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithConversationID(ctx, conversationID.String()), "mark-read on open failed: "+err.Error())
	}
	messages := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		messages = append(messages, *messageFromModel(&rows[i]))
	}
	return messages, nil
}

// MarkRead flips unread messages from the other participant and clears the
// caller's chat notifications for the conversation.
func (s *service) MarkRead(ctx context.Context, userID, conversationID uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, conversationID, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark messages read")
	}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.notifications.DeleteForConversationTx(tx, userID, conversationID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear chat notifications")
	}
	return nil
}

// SendMessage persists a message, bumps the conversation recency, deletes the
// sender's chat notifications for the thread, and queues the push event — all
// in one transaction.
func (s *service) SendMessage(ctx context.Context, userID, conversationID uuid.UUID, input SendMessageInput) (*MessageDTO, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message content is required")
	}

	conv, err := s.loadParticipantConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	recipientID := conv.ProviderID
	senderRole := enums.UserRoleCreator
	if userID == conv.ProviderID {
		recipientID = conv.CreatorID
		senderRole = enums.UserRoleProvider
	}

	senderName := ""
	if sender, err := s.users.FindByID(ctx, userID); err == nil {
		senderName = sender.DisplayName
	}

	msg := &models.Message{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        content,
		ClientTag:      input.ClientTag,
	}

	now := time.Now().UTC()
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateMessageTx(tx, msg); err != nil {
			return err
		}
		if err := s.repo.TouchLastMessageTx(tx, conversationID, now); err != nil {
			return err
		}
		if err := s.notifications.DeleteForConversationTx(tx, userID, conversationID); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventChatMessageSent,
			AggregateType: enums.AggregateConversation,
			AggregateID:   conversationID,
			Actor:         &outbox.ActorRef{UserID: userID, Role: string(senderRole)},
			Data: payloads.ChatMessageSentEvent{
				MessageID:       msg.ID,
				ConversationID:  conversationID,
				SenderID:        userID,
				RecipientUserID: recipientID,
				SenderName:      senderName,
				Preview:         truncatePreview(content),
				SentAt:          now,
			},
			Version: 1,
		})
	})
	if txErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "send message")
	}
	return messageFromModel(msg), nil
}

// ResolveByApplication maps a deep-linked application id to its conversation,
// falling back to the participant pair when the application predates the
// current thread.
func (s *service) ResolveByApplication(ctx context.Context, userID, applicationID uuid.UUID) (*ConversationDTO, error) {
	if applicationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "application id is required")
	}

	conv, err := s.repo.FindByApplicationID(ctx, applicationID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve conversation")
	}
	if conv == nil {
		app, err := s.applications.FindByID(ctx, applicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "no conversation for application")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
		}
		conv, err = s.repo.FindByParticipants(ctx, app.ProviderID, app.CreatorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "no conversation for application")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve conversation")
		}
	}
	if conv.ProviderID != userID && conv.CreatorID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "conversation belongs to other users")
	}
	dto := conversationFromModel(conv)
	return &dto, nil
}

func (s *service) loadParticipantConversation(ctx context.Context, userID, conversationID uuid.UUID) (*models.Conversation, error) {
	if conversationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "conversation id is required")
	}
	conv, err := s.repo.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "conversation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load conversation")
	}
	if conv.ProviderID != userID && conv.CreatorID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "conversation belongs to other users")
	}
	return conv, nil
}

func truncatePreview(content string) string {
	if len(content) <= previewLimit {
		return content
	}
	cut := previewLimit
	// Back up so the cut never lands mid-rune.
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}
