package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeChatMessage          NotificationType = "chat_message"
	NotificationTypeApplicationStatus    NotificationType = "application_status"
	NotificationTypeDeliverableSubmitted NotificationType = "deliverable_submitted"
	NotificationTypeProfileIncomplete    NotificationType = "profile_incomplete"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeChatMessage,
	NotificationTypeApplicationStatus,
	NotificationTypeDeliverableSubmitted,
	NotificationTypeProfileIncomplete,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
