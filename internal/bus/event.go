package bus

import "time"

// Event kinds published by the record store, the view model and the navigation machine.
const (
	KindUserWritten     = "store.user.written"
	KindContactsWritten = "store.contacts.written"
	KindChatsWritten    = "store.chats.written"
	KindMessagesWritten = "store.messages.written"
	KindReloaded        = "model.reloaded"
	KindModelChanged    = "model.changed"
	KindViewChanged     = "view.changed"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// NewEvent stamps an event of the given kind with the current time.
func NewEvent(kind string, payload any) Event {
	return Event{Kind: kind, Timestamp: time.Now(), Payload: payload}
}
