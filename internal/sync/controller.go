package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dmelnik/chatty/internal/bus"
	"github.com/dmelnik/chatty/internal/remote"
)

// Controller owns the canonical chat collection and the selection. It
// merges the seed snapshot with push events and exposes mutation
// intents to the UI. It also owns the push connection for its lifetime;
// the thread controller only borrows join/leave on it.
type Controller struct {
	mu       sync.RWMutex
	coll     *Collection
	selected string

	rest   *remote.Client
	push   *remote.Push
	bus    *bus.Bus
	logger *zap.Logger

	cancel context.CancelFunc

	// onSelectionCleared fires when a remote deletion clears the active
	// selection, so the thread can be torn down.
	onSelectionCleared func(chatID string)
}

// NewController creates a live sync controller. push may be nil in
// REST-only use (chattyctl, tests); events then only arrive via the
// bus.
func NewController(rest *remote.Client, push *remote.Push, b *bus.Bus, logger *zap.Logger) *Controller {
	return &Controller{
		coll:   NewCollection(),
		rest:   rest,
		push:   push,
		bus:    b,
		logger: logger,
	}
}

// SetOnSelectionCleared registers the selection-cleared hook. Must be
// called before Start.
func (c *Controller) SetOnSelectionCleared(fn func(chatID string)) {
	c.onSelectionCleared = fn
}

// Start connects the push channel, subscribes to remote events and
// seeds the collection. A failed push connect degrades silently; a
// failed seed leaves the collection empty but the client alive.
func (c *Controller) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	ch, unsub := c.bus.Subscribe("remote.", 256)
	go func() {
		defer unsub()
		for {
			select {
			case evt := <-ch:
				c.handleEvent(evt)
			case <-ctx.Done():
				return
			}
		}
	}()

	if c.push != nil {
		if err := c.push.Connect(ctx); err != nil {
			c.logger.Warn("push unavailable, live updates disabled", zap.Error(err))
			c.flash("Live updates unavailable")
		}
	}

	c.mu.Lock()
	c.coll.BeginSnapshot()
	c.mu.Unlock()

	go c.seed(ctx)
}

// Stop tears the controller down: the event subscription ends and the
// push connection closes.
func (c *Controller) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	if c.push != nil {
		c.push.Disconnect()
	}
}

func (c *Controller) seed(ctx context.Context) {
	chats, err := c.rest.ListChats(ctx)
	if err != nil {
		c.mu.Lock()
		c.coll.AbortSnapshot()
		c.mu.Unlock()
		c.logger.Error("chat seed failed", zap.Error(err))
		c.flash(fmt.Sprintf("Error loading chats: %v", err))
		return
	}
	c.mu.Lock()
	changed := c.coll.ApplySnapshot(chats)
	c.mu.Unlock()
	c.logger.Info("chat collection seeded", zap.Int("chats", len(chats)))
	if changed {
		c.notify()
	}
}

func (c *Controller) handleEvent(evt bus.Event) {
	switch evt.Kind {
	case bus.KindChatCreated:
		chat, ok := evt.Payload.(remote.Chat)
		if !ok {
			return
		}
		c.mu.Lock()
		changed := c.coll.ApplyCreated(chat)
		c.mu.Unlock()
		if changed {
			c.notify()
		}
	case bus.KindChatUpdated:
		chat, ok := evt.Payload.(remote.Chat)
		if !ok {
			return
		}
		c.mu.Lock()
		changed := c.coll.ApplyUpdated(chat)
		c.mu.Unlock()
		if changed {
			c.notify()
		}
	case bus.KindChatDeleted:
		id, ok := evt.Payload.(string)
		if !ok {
			return
		}
		c.mu.Lock()
		changed := c.coll.ApplyDeleted(id)
		cleared := c.selected == id
		if cleared {
			c.selected = ""
		}
		c.mu.Unlock()
		if cleared && c.onSelectionCleared != nil {
			c.onSelectionCleared(id)
		}
		if changed || cleared {
			c.notify()
		}
	case bus.KindMessageNew, bus.KindMessageRandom:
		msg, ok := evt.Payload.(remote.Message)
		if !ok {
			return
		}
		c.mu.Lock()
		changed := c.coll.ApplyLastMessage(msg)
		c.mu.Unlock()
		if changed {
			c.notify()
		}
		if msg.IsAutoResponse && evt.Kind == bus.KindMessageNew {
			c.flash("Auto reply received")
		}
		if evt.Kind == bus.KindMessageRandom {
			c.flash("New random message sent")
		}
	}
}

// Create issues a chat creation. The collection is updated from the
// response; the matching push event is a tolerated duplicate.
func (c *Controller) Create(ctx context.Context, firstName, lastName string) error {
	chat, err := c.rest.CreateChat(ctx, firstName, lastName)
	if err != nil {
		return err
	}
	c.mu.Lock()
	changed := c.coll.ApplyCreated(*chat)
	c.mu.Unlock()
	if changed {
		c.notify()
	}
	return nil
}

// Update issues a chat edit. Last writer wins, no conflict detection.
func (c *Controller) Update(ctx context.Context, id, firstName, lastName string) error {
	chat, err := c.rest.UpdateChat(ctx, id, firstName, lastName)
	if err != nil {
		return err
	}
	c.mu.Lock()
	changed := c.coll.ApplyUpdated(*chat)
	c.mu.Unlock()
	if changed {
		c.notify()
	}
	return nil
}

// Delete issues a chat deletion and applies it locally; the push event
// confirming it is a tolerated duplicate.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.rest.DeleteChat(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	changed := c.coll.ApplyDeleted(id)
	cleared := c.selected == id
	if cleared {
		c.selected = ""
	}
	c.mu.Unlock()
	if cleared && c.onSelectionCleared != nil {
		c.onSelectionCleared(id)
	}
	if changed || cleared {
		c.notify()
	}
	return nil
}

// ToggleAutoMessages flips the server-global random message switch.
func (c *Controller) ToggleAutoMessages(ctx context.Context, enabled bool) (string, error) {
	return c.rest.ToggleAutoMessages(ctx, enabled)
}

// Select marks a chat as active. Returns false for unknown ids.
func (c *Controller) Select(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.coll.Get(id); !ok {
		return false
	}
	c.selected = id
	return true
}

// Deselect clears the active chat.
func (c *Controller) Deselect() {
	c.mu.Lock()
	c.selected = ""
	c.mu.Unlock()
}

// Selected returns the active chat id, or "" when none.
func (c *Controller) Selected() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// Get returns the chat with the given id.
func (c *Controller) Get(id string) (remote.Chat, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.coll.Get(id)
}

// Chats returns the canonical collection in insertion order.
func (c *Controller) Chats() []remote.Chat {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.coll.Chats()
}

// Filter returns the derived view for a search query.
func (c *Controller) Filter(query string) []remote.Chat {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.coll.Filter(query)
}

func (c *Controller) notify() {
	c.bus.Publish(bus.Event{Kind: bus.KindChatsChanged, Timestamp: time.Now()})
}

func (c *Controller) flash(msg string) {
	c.bus.Publish(bus.Event{Kind: bus.KindFlash, Timestamp: time.Now(), Payload: msg})
}
