package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// SearchBar filters the chat list as the user types. It is a derived
// view only; the canonical collection is never mutated by searching.
type SearchBar struct {
	*tview.InputField
	onQuery func(query string)
	onClose func(keepQuery bool)
}

// NewSearchBar creates the search input.
func NewSearchBar() *SearchBar {
	input := tview.NewInputField().
		SetLabel(" / ").
		SetFieldWidth(0)

	s := &SearchBar{InputField: input}

	input.SetChangedFunc(func(text string) {
		if s.onQuery != nil {
			s.onQuery(text)
		}
	})
	input.SetDoneFunc(func(key tcell.Key) {
		if s.onClose == nil {
			return
		}
		// Enter keeps the filter applied, Escape clears it.
		s.onClose(key == tcell.KeyEnter)
	})

	return s
}

// SetOnQuery sets the live filter callback.
func (s *SearchBar) SetOnQuery(fn func(query string)) {
	s.onQuery = fn
}

// SetOnClose sets the callback for leaving the search input.
func (s *SearchBar) SetOnClose(fn func(keepQuery bool)) {
	s.onClose = fn
}
