package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	"github.com/flo-kian-baban/connex-backend/pkg/logger"
	"github.com/flo-kian-baban/connex-backend/pkg/metrics"
	"github.com/flo-kian-baban/connex-backend/pkg/outbox"
	"github.com/flo-kian-baban/connex-backend/pkg/outbox/idempotency"
	"github.com/flo-kian-baban/connex-backend/pkg/outbox/payloads"
)

const domainNotificationConsumer = "domain-notifications"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer watches domain events and materializes in-app notification rows.
type Consumer struct {
	repo         repository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
	metrics      *metrics.NotificationConsumerMetrics
}

// NewConsumer builds the domain notification consumer. Metrics may be nil.
func NewConsumer(repo repository, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger, m *metrics.NotificationConsumerMetrics) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
		metrics:      m,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	}
	logCtx := c.logg.WithFields(ctx, fields)

	if !eventType.IsValid() {
		c.logg.Info(logCtx, "skipping unknown event")
		c.metrics.IncProcessed(string(eventType), "skipped")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		c.metrics.IncProcessed(string(eventType), "skipped")
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		c.metrics.IncProcessed(string(eventType), "skipped")
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, domainNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		c.metrics.IncFailed(string(eventType))
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		c.metrics.IncProcessed(string(eventType), "duplicate")
		return processResult{ack: true}
	}

	notification, err := c.buildNotification(eventType, envelope.Data)
	if err != nil {
		c.logg.Error(logCtx, "failed to build notification", err)
		_ = c.idempotency.Delete(ctx, domainNotificationConsumer, eventID)
		c.metrics.IncFailed(string(eventType))
		return processResult{nack: true}
	}
	if notification == nil {
		c.logg.Info(logCtx, "event produces no notification")
		c.metrics.IncProcessed(string(eventType), "skipped")
		return processResult{ack: true}
	}

	if err := c.repo.Create(ctx, notification); err != nil {
		c.logg.Error(logCtx, "failed to persist notification", err)
		_ = c.idempotency.Delete(ctx, domainNotificationConsumer, eventID)
		c.metrics.IncFailed(string(eventType))
		return processResult{nack: true}
	}

	c.logg.Info(c.logg.WithUserID(logCtx, notification.RecipientID.String()), "notification created")
	c.metrics.IncProcessed(string(eventType), "created")
	return processResult{ack: true}
}

func (c *Consumer) buildNotification(eventType enums.OutboxEventType, data json.RawMessage) (*models.Notification, error) {
	switch eventType {
	case enums.EventChatMessageSent:
		var payload payloads.ChatMessageSentEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		return chatNotification(payload)
	case enums.EventApplicationStatusChanged:
		var payload payloads.ApplicationStatusChangedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		return applicationNotification(payload)
	case enums.EventDeliverableSubmitted:
		var payload payloads.DeliverableSubmittedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		return deliverableNotification(payload)
	case enums.EventCreatorProfileIncomplete:
		var payload payloads.CreatorProfileIncompleteEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		return profileNotification(payload)
	default:
		return nil, nil
	}
}

func chatNotification(payload payloads.ChatMessageSentEvent) (*models.Notification, error) {
	if payload.RecipientUserID == uuid.Nil {
		return nil, fmt.Errorf("recipient missing")
	}
	sender := payload.SenderName
	if sender == "" {
		sender = "Someone"
	}
	conversationID := payload.ConversationID
	return &models.Notification{
		RecipientID:    payload.RecipientUserID,
		Type:           enums.NotificationTypeChatMessage,
		Title:          "New message",
		Message:        fmt.Sprintf("%s: %s", sender, payload.Preview),
		Link:           stringPtr(fmt.Sprintf("/conversations/%s", conversationID)),
		ConversationID: &conversationID,
	}, nil
}

func applicationNotification(payload payloads.ApplicationStatusChangedEvent) (*models.Notification, error) {
	link := stringPtr(fmt.Sprintf("/applications/%s", payload.ApplicationID))
	subject := "your offer"
	if payload.OfferTitle != "" {
		subject = fmt.Sprintf("%q", payload.OfferTitle)
	}

	switch payload.Status {
	case enums.ApplicationStatusPending:
		if payload.InitiatedBy == enums.UserRoleProvider {
			if payload.CreatorUserID == uuid.Nil {
				return nil, fmt.Errorf("creator missing")
			}
			return &models.Notification{
				RecipientID: payload.CreatorUserID,
				Type:        enums.NotificationTypeApplicationStatus,
				Title:       "New collaboration request",
				Message:     "A business wants to work with you.",
				Link:        link,
			}, nil
		}
		if payload.ProviderID == uuid.Nil {
			return nil, fmt.Errorf("provider missing")
		}
		return &models.Notification{
			RecipientID: payload.ProviderID,
			Type:        enums.NotificationTypeApplicationStatus,
			Title:       "New application",
			Message:     fmt.Sprintf("A creator applied to %s.", subject),
			Link:        link,
		}, nil
	case enums.ApplicationStatusAccepted, enums.ApplicationStatusRejected:
		if payload.CreatorUserID == uuid.Nil {
			return nil, fmt.Errorf("creator missing")
		}
		title := "Application accepted"
		message := fmt.Sprintf("Your application to %s was accepted.", subject)
		if payload.Status == enums.ApplicationStatusRejected {
			title = "Application rejected"
			message = fmt.Sprintf("Your application to %s was not accepted.", subject)
		}
		return &models.Notification{
			RecipientID: payload.CreatorUserID,
			Type:        enums.NotificationTypeApplicationStatus,
			Title:       title,
			Message:     message,
			Link:        link,
		}, nil
	default:
		return nil, nil
	}
}

func deliverableNotification(payload payloads.DeliverableSubmittedEvent) (*models.Notification, error) {
	if payload.RecipientUserID == uuid.Nil {
		return nil, fmt.Errorf("recipient missing")
	}
	message := fmt.Sprintf("A creator uploaded a new %s deliverable.", payload.MediaType)
	if payload.Label != "" {
		message = fmt.Sprintf("A creator uploaded %q.", payload.Label)
	}
	return &models.Notification{
		RecipientID: payload.RecipientUserID,
		Type:        enums.NotificationTypeDeliverableSubmitted,
		Title:       "Deliverable submitted",
		Message:     message,
		Link:        stringPtr(fmt.Sprintf("/applications/%s/deliverables", payload.ApplicationID)),
	}, nil
}

func profileNotification(payload payloads.CreatorProfileIncompleteEvent) (*models.Notification, error) {
	if payload.CreatorUserID == uuid.Nil {
		return nil, fmt.Errorf("creator missing")
	}
	message := "Complete your creator profile to apply to offers."
	if len(payload.MissingFields) > 0 {
		message = fmt.Sprintf("Complete your creator profile to apply to offers. Missing: %s.",
			strings.Join(payload.MissingFields, ", "))
	}
	return &models.Notification{
		RecipientID: payload.CreatorUserID,
		Type:        enums.NotificationTypeProfileIncomplete,
		Title:       "Finish your profile",
		Message:     message,
		Link:        stringPtr("/profile"),
	}, nil
}

func stringPtr(value string) *string {
	return &value
}
