package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateApplication  OutboxAggregateType = "application"
	AggregateConversation OutboxAggregateType = "conversation"
	AggregateDeliverable  OutboxAggregateType = "deliverable"
	AggregateCreator      OutboxAggregateType = "creator_profile"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateApplication,
	AggregateConversation,
	AggregateDeliverable,
	AggregateCreator,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventApplicationStatusChanged OutboxEventType = "application_status_changed"
	EventChatMessageSent          OutboxEventType = "chat_message_sent"
	EventDeliverableSubmitted     OutboxEventType = "deliverable_submitted"
	EventCreatorProfileIncomplete OutboxEventType = "creator_profile_incomplete"
)

var validOutboxEventTypes = []OutboxEventType{
	EventApplicationStatusChanged,
	EventChatMessageSent,
	EventDeliverableSubmitted,
	EventCreatorProfileIncomplete,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
