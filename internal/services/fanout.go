package services

import (
	"encoding/json"
	"log"
)

// Event is a real-time notification pushed to participants after a chat
// mutation has been persisted.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

const (
	EventMessageCreated  = "message.created"
	EventMessageRead     = "message.read"
	EventReactionAdded   = "reaction.added"
	EventReactionRemoved = "reaction.removed"
)

// Notifier delivers a payload to a user's live channel. Implementations
// return nil when the user has no live channel; delivery is best-effort and
// carries no ordering or retry guarantee.
type Notifier interface {
	Send(userID int64, payload []byte) error
}

// NopNotifier is used when no real-time transport is configured.
type NopNotifier struct{}

func (NopNotifier) Send(int64, []byte) error { return nil }

// FanoutDispatcher multicasts one event to a set of recipients. It never
// fails the enclosing operation: the state change has already been
// committed, and a lost live notification is recovered by the next poll.
type FanoutDispatcher struct {
	notifier Notifier
}

func NewFanoutDispatcher(notifier Notifier) *FanoutDispatcher {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &FanoutDispatcher{notifier: notifier}
}

// Notify attempts delivery to every recipient's live channel. Transport
// errors are logged and swallowed.
func (d *FanoutDispatcher) Notify(recipientIDs []int64, event Event) {
	if len(recipientIDs) == 0 {
		return
	}

	encoded, err := json.Marshal(event)
	if err != nil {
		log.Printf("fanout: encode %s event: %v", event.Type, err)
		return
	}

	for _, recipientID := range recipientIDs {
		if err := d.notifier.Send(recipientID, encoded); err != nil {
			log.Printf("fanout: deliver %s to user %d: %v", event.Type, recipientID, err)
		}
	}
}
