package status

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmelnik/chatty/internal/bus"
)

// State represents the push connection lifecycle state.
type State string

const (
	Booting    State = "BOOTING"
	Connecting State = "CONNECTING"
	Ready      State = "READY"
	Degraded   State = "DEGRADED" // push channel lost; REST still works
	Error      State = "ERROR"
)

// validTransitions defines allowed state transitions. There is no
// reconnect path: a lost connection stays Degraded until restart.
var validTransitions = map[State][]State{
	Booting:    {Connecting, Error},
	Connecting: {Ready, Degraded, Error},
	Ready:      {Degraded, Error},
	Degraded:   {Error},
	Error:      {},
}

// Machine tracks and enforces push connection state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a new state machine starting in Booting state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Booting,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns error if transition is invalid.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind:      bus.KindPushStatus,
			Timestamp: time.Now(),
			Payload: Change{
				From: from,
				To:   to,
			},
		})
	}
	return nil
}

// Change is the payload for push status change events.
type Change struct {
	From State
	To   State
}
