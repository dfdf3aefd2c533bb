package thread

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmelnik/chatty/internal/bus"
	"github.com/dmelnik/chatty/internal/remote"
)

// Controller drives the thread of the currently selected chat: it joins
// the push room, fetches history, merges live messages and runs the
// send flow. It never owns the push connection, only room membership.
type Controller struct {
	mu     sync.RWMutex
	thread *Thread
	epoch  string // identifies the current activation; stale fetches are discarded

	rest   *remote.Client
	push   *remote.Push
	bus    *bus.Bus
	logger *zap.Logger

	cancel context.CancelFunc
}

// NewController creates a thread controller. push may be nil; the room
// scoping is then skipped and only bus delivery applies.
func NewController(rest *remote.Client, push *remote.Push, b *bus.Bus, logger *zap.Logger) *Controller {
	return &Controller{
		rest:   rest,
		push:   push,
		bus:    b,
		logger: logger,
	}
}

// Start subscribes to live message events for the controller's lifetime.
func (c *Controller) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	ch, unsub := c.bus.Subscribe("remote.message_", 256)
	go func() {
		defer unsub()
		for {
			select {
			case evt := <-ch:
				msg, ok := evt.Payload.(remote.Message)
				if !ok {
					continue
				}
				c.mu.Lock()
				changed := c.thread != nil && c.thread.Append(msg)
				c.mu.Unlock()
				if changed {
					c.notify()
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the live subscription and deactivates any open thread.
func (c *Controller) Stop() {
	c.Deactivate()
	if c.cancel != nil {
		c.cancel()
	}
}

// Activate switches the controller to the given chat: leaves the
// previous room, joins the new one and fetches history. Events arriving
// before the fetch resolves are kept and deduplicated against it.
func (c *Controller) Activate(ctx context.Context, chatID string) {
	c.mu.Lock()
	if c.thread != nil {
		if c.thread.ChatID() == chatID {
			c.mu.Unlock()
			return
		}
		c.leaveRoom(c.thread.ChatID())
	}
	c.thread = New(chatID)
	epoch := uuid.New().String()
	c.epoch = epoch
	c.mu.Unlock()

	if c.push != nil {
		if err := c.push.JoinChat(ctx, chatID); err != nil {
			c.logger.Warn("join room failed", zap.String("chat_id", chatID), zap.Error(err))
		}
	}
	c.notify()

	go c.fetchHistory(ctx, chatID, epoch)
}

// Deactivate leaves the room and discards all thread state, including
// the pending-auto-reply flag.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	if c.thread == nil {
		c.mu.Unlock()
		return
	}
	chatID := c.thread.ChatID()
	c.thread = nil
	c.epoch = ""
	c.mu.Unlock()

	c.leaveRoom(chatID)
	c.notify()
}

func (c *Controller) fetchHistory(ctx context.Context, chatID, epoch string) {
	msgs, err := c.rest.ListMessages(ctx, chatID)

	c.mu.Lock()
	if c.epoch != epoch || c.thread == nil {
		// Selection moved while the fetch was in flight.
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.mu.Unlock()
		c.logger.Error("history fetch failed", zap.String("chat_id", chatID), zap.Error(err))
		c.flash(fmt.Sprintf("Error loading messages: %v", err))
		return
	}
	changed := c.thread.MergeHistory(msgs)
	c.mu.Unlock()

	c.logger.Info("thread history loaded", zap.String("chat_id", chatID), zap.Int("messages", len(msgs)))
	if changed {
		c.notify()
	}
}

// Send dispatches a message to the active chat. The compose box is the
// caller's; on success the confirmed message feeds the same merge path
// as push delivery, so a double arrival collapses to one entry. On
// failure the pending flag drops and the error surfaces so the caller
// keeps the typed text.
func (c *Controller) Send(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.thread == nil {
		c.mu.Unlock()
		return fmt.Errorf("no active chat")
	}
	chatID := c.thread.ChatID()
	c.thread.SetPendingAuto(true)
	c.mu.Unlock()
	c.notify()

	msg, err := c.rest.SendMessage(ctx, chatID, text)

	c.mu.Lock()
	active := c.thread != nil && c.thread.ChatID() == chatID
	if err != nil {
		if active {
			c.thread.SetPendingAuto(false)
		}
		c.mu.Unlock()
		c.notify()
		return err
	}
	changed := active && c.thread.Append(*msg)
	c.mu.Unlock()
	if changed {
		c.notify()
	}
	return nil
}

// Active returns the active chat id, or "" when no thread is open.
func (c *Controller) Active() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.thread == nil {
		return ""
	}
	return c.thread.ChatID()
}

// Messages returns the active thread's messages.
func (c *Controller) Messages() []remote.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.thread == nil {
		return nil
	}
	return c.thread.Messages()
}

// PendingAuto reports whether the active thread awaits an auto-reply.
func (c *Controller) PendingAuto() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.thread != nil && c.thread.PendingAuto()
}

func (c *Controller) leaveRoom(chatID string) {
	if c.push == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.push.LeaveChat(ctx, chatID); err != nil {
		c.logger.Warn("leave room failed", zap.String("chat_id", chatID), zap.Error(err))
	}
}

func (c *Controller) notify() {
	c.bus.Publish(bus.Event{Kind: bus.KindThreadChanged, Timestamp: time.Now()})
}

func (c *Controller) flash(msg string) {
	c.bus.Publish(bus.Event{Kind: bus.KindFlash, Timestamp: time.Now(), Payload: msg})
}
