// Package ui holds shared look-and-feel for the TUI widgets.
package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Theme holds color constants for the TUI.
type Theme struct {
	BgColor          tcell.Color
	FgColor          tcell.Color
	BorderColor      tcell.Color
	BorderFocusColor tcell.Color
	TitleColor       tcell.Color
	HeaderColor      tcell.Color
	StatusBgColor    tcell.Color
}

// DefaultTheme returns a k9s-inspired dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:          tcell.ColorBlack,
		FgColor:          tcell.ColorCadetBlue,
		BorderColor:      tcell.ColorDodgerBlue,
		BorderFocusColor: tcell.ColorLightSkyBlue,
		TitleColor:       tcell.ColorFuchsia,
		HeaderColor:      tcell.ColorWhite,
		StatusBgColor:    tcell.ColorDarkSlateGray,
	}
}

// Apply installs the theme into tview's global styles. Call once,
// before any widget is created.
func Apply(t *Theme) {
	tview.Styles.PrimitiveBackgroundColor = t.BgColor
	tview.Styles.PrimaryTextColor = t.FgColor
	tview.Styles.BorderColor = t.BorderColor
	tview.Styles.GraphicsColor = t.BorderFocusColor
	tview.Styles.TitleColor = t.TitleColor
	tview.Styles.SecondaryTextColor = t.HeaderColor
	tview.Styles.MoreContrastBackgroundColor = t.StatusBgColor
}
