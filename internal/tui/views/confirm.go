package views

import (
	"github.com/rivo/tview"
)

// Confirm is the delete confirmation dialog.
type Confirm struct {
	*tview.Modal
	onDone func(confirmed bool)
}

// NewConfirm creates the confirmation dialog.
func NewConfirm() *Confirm {
	modal := tview.NewModal().
		AddButtons([]string{"Delete", "Cancel"})

	c := &Confirm{Modal: modal}

	modal.SetDoneFunc(func(_ int, label string) {
		if c.onDone != nil {
			c.onDone(label == "Delete")
		}
	})

	return c
}

// SetPrompt sets the confirmation text.
func (c *Confirm) SetPrompt(text string) {
	c.SetText(text)
}

// SetOnDone sets the result callback.
func (c *Confirm) SetOnDone(fn func(confirmed bool)) {
	c.onDone = fn
}
