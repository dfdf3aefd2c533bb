package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/dmelnik/chatty/internal/remote"
)

// MessageView displays the thread of a single chat.
type MessageView struct {
	*tview.TextView
	chatName string
}

// NewMessageView creates the message view.
func NewMessageView() *MessageView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true).SetTitle(" Messages ")
	return &MessageView{TextView: tv}
}

// SetChatName updates the title with the chat name.
func (mv *MessageView) SetChatName(name string) {
	mv.chatName = name
	mv.SetTitle(fmt.Sprintf(" %s ", name))
}

// Update refreshes the view. pendingAuto renders the waiting indicator
// under the last message until the automated reply lands.
func (mv *MessageView) Update(msgs []remote.Message, pendingAuto bool) {
	mv.Clear()

	if len(msgs) == 0 && !pendingAuto {
		_, _ = fmt.Fprint(mv, "\n [::d]No messages. Start a conversation![-:-:-]\n")
		return
	}

	for _, m := range msgs {
		sender := "You"
		color := ""
		if m.IsAutoResponse {
			sender = mv.chatName
			color = "[green]"
		}
		ts := formatWhen(m.CreatedAt)
		_, _ = fmt.Fprintf(mv, "%s[::b]%s[-:-:-] [::d]%s[-:-:-]\n%s\n\n", color, sender, ts, m.Text)
	}

	if pendingAuto {
		_, _ = fmt.Fprint(mv, "[::d]Waiting for auto-reply...[-:-:-]\n")
	}

	mv.ScrollToEnd()
}
