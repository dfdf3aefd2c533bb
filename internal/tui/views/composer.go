package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Composer is the text input for sending messages. It does not clear
// itself on Enter; the shell clears it once the send succeeds, so a
// failed send keeps the typed text.
type Composer struct {
	*tview.InputField
	onSend func(text string)
}

// NewComposer creates the message composer.
func NewComposer() *Composer {
	input := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)

	c := &Composer{InputField: input}

	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && c.onSend != nil {
			if text := c.GetText(); text != "" {
				c.onSend(text)
			}
		}
	})

	return c
}

// SetOnSend sets the callback when a message is submitted.
func (c *Composer) SetOnSend(fn func(text string)) {
	c.onSend = fn
}
