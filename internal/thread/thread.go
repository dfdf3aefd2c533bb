// Package thread holds the message sequence for the one active chat,
// merging REST history with push-delivered messages.
package thread

import "github.com/dmelnik/chatty/internal/remote"

// Thread is the message sequence of a single chat. It is a pure
// reducer; the controller provides locking. Dedup key is message id.
// Messages for other chats are dropped regardless of room membership
// (leaving a room may not stop delivery immediately).
type Thread struct {
	chatID      string
	msgs        []remote.Message
	ids         map[string]struct{}
	pendingAuto bool
}

// New creates an empty thread for one chat id.
func New(chatID string) *Thread {
	return &Thread{
		chatID: chatID,
		ids:    make(map[string]struct{}),
	}
}

// ChatID returns the owning chat id.
func (t *Thread) ChatID() string {
	return t.chatID
}

// Append merges one confirmed message (push event or send response).
// Duplicates and messages for other chats are no-ops. An automated
// reply clears the pending-auto-reply flag whether or not this client
// solicited it.
func (t *Thread) Append(msg remote.Message) bool {
	if msg.ChatID != t.chatID {
		return false
	}
	if msg.IsAutoResponse {
		t.pendingAuto = false
	}
	if _, ok := t.ids[msg.ID]; ok {
		return false
	}
	t.ids[msg.ID] = struct{}{}
	t.msgs = append(t.msgs, msg)
	return true
}

// MergeHistory merges the REST-fetched history under any messages that
// already arrived via push while the fetch was in flight. History order
// is kept (ascending by creation time per the service contract); push
// arrivals follow in arrival order. No id appears twice.
func (t *Thread) MergeHistory(history []remote.Message) bool {
	merged := make([]remote.Message, 0, len(history)+len(t.msgs))
	ids := make(map[string]struct{}, len(history)+len(t.msgs))

	for _, msg := range history {
		if msg.ChatID != t.chatID {
			continue
		}
		if _, ok := ids[msg.ID]; ok {
			continue
		}
		ids[msg.ID] = struct{}{}
		merged = append(merged, msg)
	}
	changed := len(merged) > 0
	for _, msg := range t.msgs {
		if _, ok := ids[msg.ID]; ok {
			continue
		}
		ids[msg.ID] = struct{}{}
		merged = append(merged, msg)
	}

	t.msgs = merged
	t.ids = ids
	return changed
}

// Messages returns the merged sequence.
func (t *Thread) Messages() []remote.Message {
	out := make([]remote.Message, len(t.msgs))
	copy(out, t.msgs)
	return out
}

// Len returns the number of messages.
func (t *Thread) Len() int {
	return len(t.msgs)
}

// PendingAuto reports whether an auto-reply is still awaited.
func (t *Thread) PendingAuto() bool {
	return t.pendingAuto
}

// SetPendingAuto sets the waiting indicator (armed on send dispatch).
func (t *Thread) SetPendingAuto(v bool) {
	t.pendingAuto = v
}
