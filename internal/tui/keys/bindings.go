package keys

import "github.com/gdamore/tcell/v2"

// Action binds one key event to a handler.
type Action struct {
	Key     tcell.Key
	Rune    rune
	Hint    string
	Handler func()
	Visible bool
}

// Matches returns true if the event matches this action.
func (a *Action) Matches(ev *tcell.EventKey) bool {
	if a.Key != tcell.KeyRune {
		return ev.Key() == a.Key
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == a.Rune
}

// Registry holds keybindings per page plus a global fallback scope.
// Page bindings take precedence over global ones.
type Registry struct {
	global []*Action
	pages  map[string][]*Action
}

// NewRegistry creates an empty keybinding registry.
func NewRegistry() *Registry {
	return &Registry{pages: make(map[string][]*Action)}
}

// Global registers a binding active on every page.
func (r *Registry) Global(a *Action) {
	r.global = append(r.global, a)
}

// Page registers a binding active only on the named page.
func (r *Registry) Page(page string, a *Action) {
	r.pages[page] = append(r.pages[page], a)
}

// Hints returns visible binding hints for a page, page-specific first,
// in registration order.
func (r *Registry) Hints(page string) []string {
	var hints []string
	for _, a := range r.pages[page] {
		if a.Visible {
			hints = append(hints, a.Hint)
		}
	}
	for _, a := range r.global {
		if a.Visible {
			hints = append(hints, a.Hint)
		}
	}
	return hints
}

// Handle dispatches a key event to the first matching action on the
// given page. Returns true if a handler ran.
func (r *Registry) Handle(page string, ev *tcell.EventKey) bool {
	for _, a := range r.pages[page] {
		if a.Matches(ev) {
			a.Handler()
			return true
		}
	}
	for _, a := range r.global {
		if a.Matches(ev) {
			a.Handler()
			return true
		}
	}
	return false
}
