package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds every REST round-trip. Failures surface
// immediately; nothing is retried.
const DefaultTimeout = 15 * time.Second

// Client performs the CRUD calls against the chat service REST API.
// It holds no chat state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a REST client for the given base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListChats fetches the full chat snapshot. No pagination contract.
func (c *Client) ListChats(ctx context.Context) ([]Chat, error) {
	var chats []Chat
	if err := c.do(ctx, "list chats", http.MethodGet, "/chats", nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// CreateChat creates a chat. Names are trimmed; empty-after-trim names
// fail locally with ErrEmptyField, without a network call.
func (c *Client) CreateChat(ctx context.Context, firstName, lastName string) (*Chat, error) {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" {
		return nil, fmt.Errorf("first name: %w", ErrEmptyField)
	}
	if lastName == "" {
		return nil, fmt.Errorf("last name: %w", ErrEmptyField)
	}
	var chat Chat
	body := map[string]string{"firstName": firstName, "lastName": lastName}
	if err := c.do(ctx, "create chat", http.MethodPost, "/chats", body, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// UpdateChat replaces a chat's names. Same trimming rules as CreateChat.
func (c *Client) UpdateChat(ctx context.Context, id, firstName, lastName string) (*Chat, error) {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" {
		return nil, fmt.Errorf("first name: %w", ErrEmptyField)
	}
	if lastName == "" {
		return nil, fmt.Errorf("last name: %w", ErrEmptyField)
	}
	var chat Chat
	body := map[string]string{"firstName": firstName, "lastName": lastName}
	if err := c.do(ctx, "update chat", http.MethodPut, "/chats/"+id, body, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// DeleteChat removes a chat.
func (c *Client) DeleteChat(ctx context.Context, id string) error {
	return c.do(ctx, "delete chat", http.MethodDelete, "/chats/"+id, nil, nil)
}

// ListMessages fetches a chat's history, ascending by creation time.
// The result is not deduplicated against concurrently arriving push
// events; that is the thread controller's job.
func (c *Client) ListMessages(ctx context.Context, chatID string) ([]Message, error) {
	var msgs []Message
	if err := c.do(ctx, "list messages", http.MethodGet, "/messages/"+chatID, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SendMessage posts a message to a chat. The server schedules an
// automated reply that arrives later via push, never in this response.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("text: %w", ErrEmptyField)
	}
	var msg Message
	body := map[string]string{"text": text}
	if err := c.do(ctx, "send message", http.MethodPost, "/messages/"+chatID, body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ToggleAutoMessages flips the server-global random message generator.
// The effect is observed only through later push events.
func (c *Client) ToggleAutoMessages(ctx context.Context, enabled bool) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	body := map[string]bool{"enabled": enabled}
	if err := c.do(ctx, "toggle auto messages", http.MethodPost, "/messages/random/toggle", body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("op", op), zap.Error(err))
		return &RequestError{Op: op, Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("request rejected",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode))
		return &RequestError{Op: op, Method: method, Path: path, Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Op: op, Method: method, Path: path, Err: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: unmarshal response: %w", op, err)
	}
	return nil
}
