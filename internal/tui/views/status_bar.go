package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"

	"github.com/dmelnik/chatty/internal/status"
)

// StatusBar displays the push connection state, a clock and the flash.
type StatusBar struct {
	*tview.TextView
	conn  status.State
	flash string
}

// NewStatusBar creates the status bar.
func NewStatusBar() *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)
	return &StatusBar{TextView: tv, conn: status.Booting}
}

// SetConn updates the connection state display.
func (sb *StatusBar) SetConn(s status.State) {
	sb.conn = s
	sb.render()
}

// SetFlash sets a temporary message.
func (sb *StatusBar) SetFlash(msg string) {
	sb.flash = msg
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	var conn string
	switch sb.conn {
	case status.Ready:
		conn = "[green]live[-]"
	case status.Booting, status.Connecting:
		conn = "[yellow]connecting[-]"
	case status.Degraded:
		conn = "[red]offline[-]"
	default:
		conn = "[red]error[-]"
	}

	clock := time.Now().Format("15:04")

	line := fmt.Sprintf(" [::b]chatty[-:-:-] | %s | %s", conn, clock)
	if sb.flash != "" {
		line += fmt.Sprintf(" | [yellow]%s[-]", sb.flash)
	}

	_, _ = fmt.Fprint(sb, line)
}
