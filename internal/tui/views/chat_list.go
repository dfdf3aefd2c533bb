package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"

	"github.com/dmelnik/chatty/internal/remote"
)

// ChatList is the main chat list view (K9s-inspired table).
type ChatList struct {
	*tview.Table
	chats []remote.Chat
}

// NewChatList creates the chat list table.
func NewChatList() *ChatList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Chats ")
	return &ChatList{Table: table}
}

// Update refreshes the table. query is the active search filter; it only
// affects the empty-state text, the caller filters the chats.
func (cl *ChatList) Update(chats []remote.Chat, query string) {
	prev := cl.SelectedChat()
	cl.chats = chats
	cl.Clear()

	if len(chats) == 0 {
		text := "No chats available"
		if query != "" {
			text = fmt.Sprintf("No chats found for %q", query)
		}
		cl.SetCell(0, 0, tview.NewTableCell(" "+text).
			SetSelectable(false).
			SetTextColor(tview.Styles.SecondaryTextColor))
		return
	}

	cl.SetCell(0, 0, tview.NewTableCell(" Name").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 1, tview.NewTableCell(" Last Message").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 2, tview.NewTableCell(" Time").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	selectRow := 1
	for i, chat := range chats {
		row := i + 1
		preview, when := "", ""
		if chat.LastMessage != nil {
			preview = chat.LastMessage.Text
			when = formatWhen(chat.LastMessage.CreatedAt)
		}
		if chat.ID == prev {
			selectRow = row
		}

		cl.SetCell(row, 0, tview.NewTableCell(" "+chat.FullName()).SetMaxWidth(30).SetExpansion(1))
		cl.SetCell(row, 1, tview.NewTableCell(" "+preview).SetMaxWidth(40).SetExpansion(2))
		cl.SetCell(row, 2, tview.NewTableCell(" "+when).SetMaxWidth(12))
	}
	cl.Select(selectRow, 0)
}

// SelectedChat returns the id of the currently selected chat.
func (cl *ChatList) SelectedChat() string {
	row, _ := cl.GetSelection()
	idx := row - 1 // account for header
	if idx >= 0 && idx < len(cl.chats) {
		return cl.chats[idx].ID
	}
	return ""
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.Local()
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02")
}
