package reconcile

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Delivery tags the lifecycle of a message row in the local view.
type Delivery string

const (
	DeliveryPending   Delivery = "pending"
	DeliveryConfirmed Delivery = "confirmed"
	DeliveryFailed    Delivery = "failed"
)

// Message is one row of the open thread. ID holds the server uuid once
// confirmed; optimistic rows carry the temporary client tag until then.
type Message struct {
	ID             string
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
	SentAt         time.Time
	Delivery       Delivery
}

// Summary is one sidebar row.
type Summary struct {
	ConversationID uuid.UUID
	ApplicationID  uuid.UUID
	ProviderID     uuid.UUID
	CreatorID      uuid.UUID
	OtherName      string
	Preview        string
	LastMessageAt  time.Time
	UnreadCount    int
}

// State is the full inbox/thread view for one user. Summaries are ordered
// most-recent first; Thread holds the selected conversation's messages in
// ascending send order.
type State struct {
	SelfID    uuid.UUID
	Summaries []Summary
	Selected  *uuid.UUID
	Thread    []Message
}

// Open selects a conversation, replaces the thread with the fetched messages,
// and clears the unread badge before any server confirmation.
func Open(state State, conversationID uuid.UUID, messages []Message) State {
	next := clone(state)
	id := conversationID
	next.Selected = &id
	next.Thread = append([]Message(nil), messages...)
	for i := range next.Summaries {
		if next.Summaries[i].ConversationID == conversationID {
			next.Summaries[i].UnreadCount = 0
		}
	}
	return next
}

// Close returns to the list view.
func Close(state State) State {
	next := clone(state)
	next.Selected = nil
	next.Thread = nil
	return next
}

// ApplySend appends an optimistic message to the open thread and the sidebar
// preview before the network call resolves.
func ApplySend(state State, conversationID uuid.UUID, tempID, content string, now time.Time) State {
	next := clone(state)
	if next.Selected != nil && *next.Selected == conversationID {
		next.Thread = append(next.Thread, Message{
			ID:             tempID,
			ConversationID: conversationID,
			SenderID:       next.SelfID,
			Content:        content,
			SentAt:         now,
			Delivery:       DeliveryPending,
		})
	}
	next.Summaries = touchSummary(next.Summaries, conversationID, content, now)
	return next
}

// ApplySendConfirmed splices the optimistic row for the server row. The real
// row replaces the temporary one; it is never duplicated, even when the
// streamed echo landed first.
func ApplySendConfirmed(state State, tempID string, confirmed Message) State {
	next := clone(state)
	confirmed.Delivery = DeliveryConfirmed
	echoPresent := false
	for _, msg := range next.Thread {
		if msg.ID == confirmed.ID {
			echoPresent = true
			break
		}
	}
	thread := next.Thread[:0:0]
	for _, msg := range next.Thread {
		if msg.ID == tempID {
			if !echoPresent {
				thread = append(thread, confirmed)
			}
			continue
		}
		thread = append(thread, msg)
	}
	next.Thread = thread
	return next
}

// ApplySendFailed removes the optimistic thread row. The sidebar preview is
// left as-is: reverting it is an open product decision, not implemented here.
func ApplySendFailed(state State, tempID string) State {
	next := clone(state)
	thread := next.Thread[:0:0]
	for _, msg := range next.Thread {
		if msg.ID == tempID {
			continue
		}
		thread = append(thread, msg)
	}
	next.Thread = thread
	return next
}

// ApplyInsertEvent merges a pushed message. Duplicate ids are a thread no-op.
// markRead fires when the other participant writes into the open conversation;
// the unread counter only moves for messages outside the open conversation
// from someone else.
func ApplyInsertEvent(state State, event Message, markRead func(conversationID uuid.UUID)) State {
	next := clone(state)
	open := next.Selected != nil && *next.Selected == event.ConversationID
	selfAuthored := event.SenderID == next.SelfID

	if open {
		duplicate := false
		for _, msg := range next.Thread {
			if msg.ID == event.ID {
				duplicate = true
				break
			}
		}
		if !duplicate {
			event.Delivery = DeliveryConfirmed
			next.Thread = append(next.Thread, event)
		}
		if !selfAuthored && markRead != nil {
			markRead(event.ConversationID)
		}
	}

	next.Summaries = touchSummary(next.Summaries, event.ConversationID, event.Content, event.SentAt)
	if !selfAuthored && !open {
		for i := range next.Summaries {
			if next.Summaries[i].ConversationID == event.ConversationID {
				next.Summaries[i].UnreadCount++
			}
		}
	}
	return next
}

// ResolveDeepLink selects the conversation for the target application, falling
// back to matching the participant pair in either order. Unmatched links leave
// the state untouched.
func ResolveDeepLink(state State, applicationID, participantA, participantB uuid.UUID) State {
	for _, summary := range state.Summaries {
		if summary.ApplicationID == applicationID {
			return selectConversation(state, summary.ConversationID)
		}
	}
	for _, summary := range state.Summaries {
		samePair := (summary.ProviderID == participantA && summary.CreatorID == participantB) ||
			(summary.ProviderID == participantB && summary.CreatorID == participantA)
		if samePair {
			return selectConversation(state, summary.ConversationID)
		}
	}
	return state
}

func selectConversation(state State, conversationID uuid.UUID) State {
	next := clone(state)
	id := conversationID
	next.Selected = &id
	return next
}

// touchSummary updates the preview and timestamp for one conversation and
// re-sorts the sidebar by recency.
func touchSummary(summaries []Summary, conversationID uuid.UUID, preview string, at time.Time) []Summary {
	out := append([]Summary(nil), summaries...)
	for i := range out {
		if out[i].ConversationID == conversationID {
			out[i].Preview = preview
			out[i].LastMessageAt = at
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out
}

func clone(state State) State {
	next := state
	next.Summaries = append([]Summary(nil), state.Summaries...)
	next.Thread = append([]Message(nil), state.Thread...)
	if state.Selected != nil {
		id := *state.Selected
		next.Selected = &id
	}
	return next
}
