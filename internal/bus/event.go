package bus

import "time"

// Event kinds published on the bus. Remote events mirror the push
// channel, state events tell the UI a controller's view changed, push
// events track the connection itself.
const (
	KindChatCreated   = "remote.chat_created"   // payload remote.Chat
	KindChatUpdated   = "remote.chat_updated"   // payload remote.Chat
	KindChatDeleted   = "remote.chat_deleted"   // payload chat id string
	KindMessageNew    = "remote.message_new"    // payload remote.Message
	KindMessageRandom = "remote.message_random" // payload remote.Message

	// state.* carry no payload; subscribers re-read the controller.
	KindChatsChanged  = "state.chats"
	KindThreadChanged = "state.thread"

	KindFlash = "state.flash" // payload string, transient user notification

	KindPushStatus = "push.status_changed" // payload status.Change
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
