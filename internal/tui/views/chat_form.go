package views

import (
	"github.com/rivo/tview"
)

// ChatForm is the add/edit chat dialog. The same form serves both
// flows; the shell tracks which chat (if any) is being edited.
type ChatForm struct {
	*tview.Form
	onSave   func(firstName, lastName string)
	onCancel func()
}

// NewChatForm creates the chat form.
func NewChatForm() *ChatForm {
	form := tview.NewForm()
	form.SetBorder(true)

	f := &ChatForm{Form: form}

	form.AddInputField("First name", "", 30, nil, nil)
	form.AddInputField("Last name", "", 30, nil, nil)
	form.AddButton("Save", func() {
		if f.onSave != nil {
			f.onSave(f.fieldText("First name"), f.fieldText("Last name"))
		}
	})
	form.AddButton("Cancel", func() {
		if f.onCancel != nil {
			f.onCancel()
		}
	})

	return f
}

// Show resets the form for a new add/edit round.
func (f *ChatForm) Show(title, firstName, lastName string) {
	f.SetTitle(" " + title + " ")
	f.field("First name").SetText(firstName)
	f.field("Last name").SetText(lastName)
	f.SetFocus(0)
}

// SetOnSave sets the save callback.
func (f *ChatForm) SetOnSave(fn func(firstName, lastName string)) {
	f.onSave = fn
}

// SetOnCancel sets the cancel callback.
func (f *ChatForm) SetOnCancel(fn func()) {
	f.onCancel = fn
}

func (f *ChatForm) field(label string) *tview.InputField {
	return f.GetFormItemByLabel(label).(*tview.InputField)
}

func (f *ChatForm) fieldText(label string) string {
	return f.field(label).GetText()
}
