package status

import (
	"testing"
	"time"

	"github.com/dmelnik/chatty/internal/bus"
)

func TestValidTransitionChain(t *testing.T) {
	m := NewMachine(nil)

	for _, s := range []State{Connecting, Ready, Degraded} {
		if err := m.Transition(s); err != nil {
			t.Fatalf("transition to %s: %v", s, err)
		}
	}
	if m.Current() != Degraded {
		t.Errorf("current = %s, want %s", m.Current(), Degraded)
	}
}

func TestInvalidTransition(t *testing.T) {
	m := NewMachine(nil)

	if err := m.Transition(Ready); err == nil {
		t.Error("expected error for Booting -> Ready")
	}
	if m.Current() != Booting {
		t.Errorf("state changed on invalid transition: %s", m.Current())
	}
}

func TestNoReconnectFromDegraded(t *testing.T) {
	m := NewMachine(nil)
	mustTransition(t, m, Connecting, Ready, Degraded)

	if err := m.Transition(Connecting); err == nil {
		t.Error("expected error for Degraded -> Connecting")
	}
}

func TestTransitionPublishesChange(t *testing.T) {
	b := bus.New()
	m := NewMachine(b)

	ch, unsub := b.Subscribe("push.", 10)
	defer unsub()

	if err := m.Transition(Connecting); err != nil {
		t.Fatal(err)
	}

	select {
	case evt := <-ch:
		change, ok := evt.Payload.(Change)
		if !ok {
			t.Fatalf("payload type %T, want Change", evt.Payload)
		}
		if change.From != Booting || change.To != Connecting {
			t.Errorf("change = %+v", change)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for status change event")
	}
}

func mustTransition(t *testing.T, m *Machine, states ...State) {
	t.Helper()
	for _, s := range states {
		if err := m.Transition(s); err != nil {
			t.Fatal(err)
		}
	}
}
