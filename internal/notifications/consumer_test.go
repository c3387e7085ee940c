package notifications

import (
	"testing"

	"github.com/google/uuid"

	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	"github.com/flo-kian-baban/connex-backend/pkg/outbox/payloads"
)

func TestChatNotification(t *testing.T) {
	recipient := uuid.New()
	conversationID := uuid.New()

	notification, err := chatNotification(payloads.ChatMessageSentEvent{
		MessageID:       uuid.New(),
		ConversationID:  conversationID,
		SenderID:        uuid.New(),
		RecipientUserID: recipient,
		SenderName:      "Mia's Tacos",
		Preview:         "Sounds great, when can you film?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notification.RecipientID != recipient {
		t.Fatalf("expected recipient %s, got %s", recipient, notification.RecipientID)
	}
	if notification.Type != enums.NotificationTypeChatMessage {
		t.Fatalf("expected chat_message type, got %s", notification.Type)
	}
	if notification.ConversationID == nil || *notification.ConversationID != conversationID {
		t.Fatal("chat notifications must carry the conversation id for read-on-reply cleanup")
	}
	if notification.Message != "Mia's Tacos: Sounds great, when can you film?" {
		t.Fatalf("unexpected message %q", notification.Message)
	}
}

func TestChatNotificationMissingRecipient(t *testing.T) {
	if _, err := chatNotification(payloads.ChatMessageSentEvent{ConversationID: uuid.New()}); err == nil {
		t.Fatal("expected error for missing recipient")
	}
}

func TestApplicationNotificationRouting(t *testing.T) {
	provider := uuid.New()
	creator := uuid.New()

	cases := []struct {
		name          string
		status        enums.ApplicationStatus
		initiatedBy   enums.UserRole
		wantRecipient uuid.UUID
		wantTitle     string
	}{
		{"creator applies", enums.ApplicationStatusPending, enums.UserRoleCreator, provider, "New application"},
		{"provider requests", enums.ApplicationStatusPending, enums.UserRoleProvider, creator, "New collaboration request"},
		{"accepted", enums.ApplicationStatusAccepted, enums.UserRoleProvider, creator, "Application accepted"},
		{"rejected", enums.ApplicationStatusRejected, enums.UserRoleProvider, creator, "Application rejected"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			notification, err := applicationNotification(payloads.ApplicationStatusChangedEvent{
				ApplicationID: uuid.New(),
				OfferTitle:    "Weekend brunch reel",
				ProviderID:    provider,
				CreatorUserID: creator,
				InitiatedBy:   tc.initiatedBy,
				Status:        tc.status,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if notification.RecipientID != tc.wantRecipient {
				t.Fatalf("expected recipient %s, got %s", tc.wantRecipient, notification.RecipientID)
			}
			if notification.Title != tc.wantTitle {
				t.Fatalf("expected title %q, got %q", tc.wantTitle, notification.Title)
			}
			if notification.Type != enums.NotificationTypeApplicationStatus {
				t.Fatalf("expected application_status type, got %s", notification.Type)
			}
		})
	}
}

func TestDeliverableNotificationGoesToProvider(t *testing.T) {
	provider := uuid.New()
	notification, err := deliverableNotification(payloads.DeliverableSubmittedEvent{
		MediaID:         uuid.New(),
		ApplicationID:   uuid.New(),
		UploaderID:      uuid.New(),
		RecipientUserID: provider,
		MediaType:       enums.MediaTypeVideo,
		Label:           "final cut",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notification.RecipientID != provider {
		t.Fatalf("expected recipient %s, got %s", provider, notification.RecipientID)
	}
	if notification.Type != enums.NotificationTypeDeliverableSubmitted {
		t.Fatalf("expected deliverable_submitted type, got %s", notification.Type)
	}
	if notification.Message != `A creator uploaded "final cut".` {
		t.Fatalf("unexpected message %q", notification.Message)
	}
}

func TestProfileNotificationListsMissingFields(t *testing.T) {
	creator := uuid.New()
	notification, err := profileNotification(payloads.CreatorProfileIncompleteEvent{
		CreatorUserID: creator,
		MissingFields: []string{"display_name", "platforms"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notification.RecipientID != creator {
		t.Fatalf("expected recipient %s, got %s", creator, notification.RecipientID)
	}
	if notification.Type != enums.NotificationTypeProfileIncomplete {
		t.Fatalf("expected profile_incomplete type, got %s", notification.Type)
	}
	want := "Complete your creator profile to apply to offers. Missing: display_name, platforms."
	if notification.Message != want {
		t.Fatalf("unexpected message %q", notification.Message)
	}
}
