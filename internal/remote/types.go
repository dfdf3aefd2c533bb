package remote

import "time"

// Chat is a conversation as the chat service represents it. The id is
// server-assigned and immutable; LastMessage is a denormalized cache
// the server refreshes via push events.
type Chat struct {
	ID          string   `json:"_id"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	LastMessage *Message `json:"lastMessage,omitempty"`
}

// FullName returns "first last" for display and filtering.
func (c Chat) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Message is a single thread entry. IsAutoResponse marks messages the
// server generated instead of the user.
type Message struct {
	ID             string    `json:"_id"`
	ChatID         string    `json:"chatId"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"createdAt"`
	IsAutoResponse bool      `json:"isAutoResponse"`
}
