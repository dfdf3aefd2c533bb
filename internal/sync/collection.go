// Package sync reconciles the REST-fetched chat snapshot with the push
// event stream into one consistent in-memory collection.
package sync

import (
	"strings"

	"github.com/dmelnik/chatty/internal/remote"
)

// Collection is an ordered-by-insertion set of chats keyed by id. It is
// a pure reducer over (state, event); callers provide locking. Merge
// precedence is last-write-wins by arrival order: while a snapshot
// fetch is in flight, ids already touched by an event keep the event's
// version when the snapshot lands.
type Collection struct {
	order    []string
	byID     map[string]remote.Chat
	touched  map[string]struct{}
	tracking bool
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{
		byID: make(map[string]remote.Chat),
	}
}

// BeginSnapshot marks the start of a snapshot fetch. Events applied
// between BeginSnapshot and ApplySnapshot win over the snapshot for
// their chat id.
func (c *Collection) BeginSnapshot() {
	c.tracking = true
	c.touched = make(map[string]struct{})
}

// AbortSnapshot ends tracking without applying anything, leaving prior
// state untouched (a failed fetch must not clear the collection).
func (c *Collection) AbortSnapshot() {
	c.tracking = false
	c.touched = nil
}

// ApplySnapshot merges a REST snapshot. Ids touched by an event since
// BeginSnapshot keep the event's version; a chat deleted by an event is
// not resurrected. Returns true if anything changed.
func (c *Collection) ApplySnapshot(chats []remote.Chat) bool {
	changed := false
	for _, chat := range chats {
		if _, hit := c.touched[chat.ID]; hit {
			continue
		}
		if _, ok := c.byID[chat.ID]; ok {
			c.byID[chat.ID] = chat
		} else {
			c.order = append(c.order, chat.ID)
			c.byID[chat.ID] = chat
		}
		changed = true
	}
	c.tracking = false
	c.touched = nil
	return changed
}

// ApplyCreated appends a chat. A duplicate delivery (create response
// plus push event, in either order) is a no-op.
func (c *Collection) ApplyCreated(chat remote.Chat) bool {
	c.touch(chat.ID)
	if _, ok := c.byID[chat.ID]; ok {
		return false
	}
	c.order = append(c.order, chat.ID)
	c.byID[chat.ID] = chat
	return true
}

// ApplyUpdated replaces the matching chat's record entirely. Unknown
// ids are ignored: updates never backfill.
func (c *Collection) ApplyUpdated(chat remote.Chat) bool {
	c.touch(chat.ID)
	if _, ok := c.byID[chat.ID]; !ok {
		return false
	}
	c.byID[chat.ID] = chat
	return true
}

// ApplyDeleted removes the matching chat. Returns true if it was present.
func (c *Collection) ApplyDeleted(id string) bool {
	c.touch(id)
	if _, ok := c.byID[id]; !ok {
		return false
	}
	delete(c.byID, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// ApplyLastMessage refreshes the denormalized last-message cache on the
// owning chat. Messages for unknown chats are no-ops: they never create
// a chat.
func (c *Collection) ApplyLastMessage(msg remote.Message) bool {
	c.touch(msg.ChatID)
	chat, ok := c.byID[msg.ChatID]
	if !ok {
		return false
	}
	chat.LastMessage = &msg
	c.byID[msg.ChatID] = chat
	return true
}

// Get returns the chat with the given id.
func (c *Collection) Get(id string) (remote.Chat, bool) {
	chat, ok := c.byID[id]
	return chat, ok
}

// Len returns the number of chats.
func (c *Collection) Len() int {
	return len(c.order)
}

// Chats returns the chats in insertion order.
func (c *Collection) Chats() []remote.Chat {
	out := make([]remote.Chat, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Filter returns the chats whose "first last" name contains the query,
// case-insensitively. A blank query returns everything. The canonical
// collection is never mutated.
func (c *Collection) Filter(query string) []remote.Chat {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return c.Chats()
	}
	var out []remote.Chat
	for _, id := range c.order {
		chat := c.byID[id]
		if strings.Contains(strings.ToLower(chat.FullName()), query) {
			out = append(out, chat)
		}
	}
	return out
}

func (c *Collection) touch(id string) {
	if c.tracking {
		c.touched[id] = struct{}{}
	}
}
