package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/dmelnik/chatty/internal/bus"
	"github.com/dmelnik/chatty/internal/status"
)

// envelope is the wire format of every push channel frame.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// command is a client-emitted control frame (room join/leave).
type command struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// randomNotification wraps a random message; semantically it is just a
// new message delivered under a separate event kind.
type randomNotification struct {
	ChatID  string  `json:"chatId"`
	Message Message `json:"message"`
}

// Push is the single process-wide push channel connection. It decodes
// server events onto the bus under the "remote." namespace and lets
// callers scope message delivery with JoinChat/LeaveChat. The live
// sync controller owns it; the thread controller only borrows
// join/leave.
type Push struct {
	url     string
	bus     *bus.Bus
	machine *status.Machine
	logger  *zap.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc
	closed bool
}

// NewPush creates a push client for the given REST base URL. An
// explicit pushURL overrides the derived ws endpoint.
func NewPush(baseURL, pushURL string, b *bus.Bus, m *status.Machine, logger *zap.Logger) *Push {
	u := pushURL
	if u == "" {
		u = deriveWSURL(baseURL)
	}
	return &Push{
		url:     u,
		bus:     b,
		machine: m,
		logger:  logger,
	}
}

// deriveWSURL maps the REST base URL to the websocket endpoint.
func deriveWSURL(baseURL string) string {
	u := strings.Replace(baseURL, "https://", "wss://", 1)
	u = strings.Replace(u, "http://", "ws://", 1)
	return strings.TrimRight(u, "/") + "/ws"
}

// Connect dials the push channel and starts the read loop. A failed
// dial leaves the client Degraded: REST keeps working, live updates
// don't.
func (p *Push) Connect(ctx context.Context) error {
	_ = p.machine.Transition(status.Connecting)

	conn, _, err := websocket.Dial(ctx, p.url, nil)
	if err != nil {
		_ = p.machine.Transition(status.Degraded)
		return fmt.Errorf("push dial %s: %w", p.url, err)
	}

	readCtx, cancel := context.WithCancel(context.Background())
	p.mu.Lock()
	p.conn = conn
	p.cancel = cancel
	p.mu.Unlock()

	_ = p.machine.Transition(status.Ready)
	p.logger.Info("push channel connected", zap.String("url", p.url))

	go p.readLoop(readCtx, conn)
	return nil
}

// Disconnect closes the push channel. Safe to call when never connected.
func (p *Push) Disconnect() {
	p.mu.Lock()
	p.closed = true
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	conn := p.conn
	p.conn = nil
	p.mu.Unlock()

	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "client shutdown")
	}
}

// JoinChat subscribes this connection to a chat's message events.
func (p *Push) JoinChat(ctx context.Context, chatID string) error {
	return p.send(ctx, command{Event: "joinChat", Data: chatID})
}

// LeaveChat unsubscribes this connection from a chat's message events.
// Delivery may not stop immediately; consumers filter by chat id
// regardless.
func (p *Push) LeaveChat(ctx context.Context, chatID string) error {
	return p.send(ctx, command{Event: "leaveChat", Data: chatID})
}

func (p *Push) send(ctx context.Context, cmd command) error {
	p.mu.Lock()
	conn := p.conn
	p.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("push channel not connected")
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

func (p *Push) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			p.mu.Lock()
			intentional := p.closed
			p.conn = nil
			p.mu.Unlock()
			if intentional {
				return
			}
			p.logger.Warn("push channel lost", zap.Error(err))
			_ = p.machine.Transition(status.Degraded)
			return
		}
		p.dispatch(data)
	}
}

// dispatch decodes one push frame and publishes the normalized event.
// Both newMessage and randomMessageNotification land on the same
// message merge path; only the bus kind differs.
func (p *Push) dispatch(data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		p.logger.Warn("malformed push frame", zap.Error(err))
		return
	}

	switch env.Event {
	case "chatCreated":
		var chat Chat
		if json.Unmarshal(env.Data, &chat) != nil {
			return
		}
		p.publish(bus.KindChatCreated, chat)
	case "chatUpdated":
		var chat Chat
		if json.Unmarshal(env.Data, &chat) != nil {
			return
		}
		p.publish(bus.KindChatUpdated, chat)
	case "chatDeleted":
		var id string
		if json.Unmarshal(env.Data, &id) != nil {
			return
		}
		p.publish(bus.KindChatDeleted, id)
	case "newMessage":
		var msg Message
		if json.Unmarshal(env.Data, &msg) != nil {
			return
		}
		p.publish(bus.KindMessageNew, msg)
	case "randomMessageNotification":
		var note randomNotification
		if json.Unmarshal(env.Data, &note) != nil {
			return
		}
		msg := note.Message
		if msg.ChatID == "" {
			msg.ChatID = note.ChatID
		}
		p.publish(bus.KindMessageRandom, msg)
	default:
		p.logger.Debug("ignoring push event", zap.String("event", env.Event))
	}
}

func (p *Push) publish(kind string, payload any) {
	p.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}
