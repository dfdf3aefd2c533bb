package sync

import (
	"testing"

	"github.com/dmelnik/chatty/internal/remote"
)

func chat(id, first, last string) remote.Chat {
	return remote.Chat{ID: id, FirstName: first, LastName: last}
}

func TestApplyCreatedDeduplicates(t *testing.T) {
	c := NewCollection()

	if !c.ApplyCreated(chat("1", "Ann", "Lee")) {
		t.Error("first create should change the collection")
	}
	// Duplicate delivery: create response plus push event.
	if c.ApplyCreated(chat("1", "Ann", "Lee")) {
		t.Error("duplicate create should be a no-op")
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestApplyUpdatedReplacesRecord(t *testing.T) {
	c := NewCollection()
	c.ApplyCreated(chat("1", "Ann", "Lee"))

	if !c.ApplyUpdated(chat("1", "Ann", "Smith")) {
		t.Error("update of present id should apply")
	}

	got, _ := c.Get("1")
	if got.LastName != "Smith" {
		t.Errorf("lastName = %q, want Smith", got.LastName)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestApplyUpdatedUnknownIDNoBackfill(t *testing.T) {
	c := NewCollection()
	if c.ApplyUpdated(chat("9", "Ghost", "Chat")) {
		t.Error("update of unknown id should be a no-op")
	}
	if c.Len() != 0 {
		t.Errorf("len = %d, want 0", c.Len())
	}
}

func TestApplyDeleted(t *testing.T) {
	c := NewCollection()
	c.ApplyCreated(chat("1", "Ann", "Lee"))
	c.ApplyCreated(chat("2", "Bob", "Ray"))

	if !c.ApplyDeleted("1") {
		t.Error("delete of present id should apply")
	}
	if c.ApplyDeleted("1") {
		t.Error("second delete should be a no-op")
	}

	chats := c.Chats()
	if len(chats) != 1 || chats[0].ID != "2" {
		t.Errorf("chats = %+v", chats)
	}
}

func TestApplyLastMessageUnknownChatNoOp(t *testing.T) {
	c := NewCollection()
	c.ApplyCreated(chat("1", "Ann", "Lee"))

	if c.ApplyLastMessage(remote.Message{ID: "m1", ChatID: "404", Text: "hi"}) {
		t.Error("message for unknown chat should be a no-op")
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1 (no cross-creation)", c.Len())
	}
}

func TestApplyLastMessageUpdatesCache(t *testing.T) {
	c := NewCollection()
	c.ApplyCreated(chat("1", "Ann", "Lee"))

	if !c.ApplyLastMessage(remote.Message{ID: "m1", ChatID: "1", Text: "hi"}) {
		t.Error("message for known chat should apply")
	}
	got, _ := c.Get("1")
	if got.LastMessage == nil || got.LastMessage.Text != "hi" {
		t.Errorf("lastMessage = %+v", got.LastMessage)
	}
}

func TestSnapshotEventRaceLastArrivalWins(t *testing.T) {
	c := NewCollection()
	c.BeginSnapshot()

	// Events land while the snapshot fetch is in flight.
	c.ApplyCreated(chat("1", "Ann", "Smith")) // newer than the fetch
	c.ApplyCreated(chat("3", "Cat", "Dog"))
	c.ApplyDeleted("3")

	// Fetch resolves with stale data.
	c.ApplySnapshot([]remote.Chat{
		chat("1", "Ann", "Lee"), // stale version of an event-touched id
		chat("2", "Bob", "Ray"), // only in the snapshot
		chat("3", "Cat", "Dog"), // deleted while in flight; must not resurrect
	})

	got, _ := c.Get("1")
	if got.LastName != "Smith" {
		t.Errorf("event version lost: lastName = %q", got.LastName)
	}
	if _, ok := c.Get("2"); !ok {
		t.Error("snapshot-only chat missing")
	}
	if _, ok := c.Get("3"); ok {
		t.Error("deleted chat resurrected by snapshot")
	}
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
}

func TestSnapshotAfterTrackingEndsOverwrites(t *testing.T) {
	c := NewCollection()
	c.BeginSnapshot()
	c.ApplySnapshot([]remote.Chat{chat("1", "Ann", "Lee")})

	// Tracking ended; a later event applies normally.
	c.ApplyUpdated(chat("1", "Ann", "Smith"))
	got, _ := c.Get("1")
	if got.LastName != "Smith" {
		t.Errorf("lastName = %q, want Smith", got.LastName)
	}
}

func TestAbortSnapshotKeepsPriorState(t *testing.T) {
	c := NewCollection()
	c.ApplyCreated(chat("1", "Ann", "Lee"))

	c.BeginSnapshot()
	c.AbortSnapshot()

	if c.Len() != 1 {
		t.Errorf("len = %d, want 1 (failed fetch must not clear state)", c.Len())
	}
}

func TestEachIDAtMostOnceUnderInterleaving(t *testing.T) {
	c := NewCollection()
	c.BeginSnapshot()
	c.ApplyCreated(chat("1", "A", "A"))
	c.ApplySnapshot([]remote.Chat{chat("1", "A", "B"), chat("2", "C", "D")})
	c.ApplyCreated(chat("2", "C", "E"))
	c.ApplyUpdated(chat("2", "C", "F"))
	c.ApplyDeleted("1")
	c.ApplyCreated(chat("1", "A", "G"))

	seen := map[string]int{}
	for _, ch := range c.Chats() {
		seen[ch.ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("id %q appears %d times", id, n)
		}
	}
	// Field values come from whichever write was applied last.
	got, _ := c.Get("2")
	if got.LastName != "F" {
		t.Errorf("chat 2 lastName = %q, want F", got.LastName)
	}
	got, _ = c.Get("1")
	if got.LastName != "G" {
		t.Errorf("chat 1 lastName = %q, want G", got.LastName)
	}
}

func TestFilter(t *testing.T) {
	c := NewCollection()
	c.ApplyCreated(chat("1", "Ann", "Lee"))
	c.ApplyCreated(chat("2", "Bob", "Annet"))
	c.ApplyCreated(chat("3", "Cara", "Smith"))

	got := c.Filter("ann")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("filter 'ann' = %+v", got)
	}

	// Substring over the concatenated "first last".
	if got := c.Filter("n le"); len(got) != 1 || got[0].ID != "1" {
		t.Errorf("filter 'n le' = %+v", got)
	}

	if got := c.Filter("zzz"); len(got) != 0 {
		t.Errorf("filter 'zzz' = %+v, want empty", got)
	}
	// Canonical collection untouched by filtering.
	if c.Len() != 3 {
		t.Errorf("len = %d, want 3", c.Len())
	}

	if got := c.Filter("  "); len(got) != 3 {
		t.Errorf("blank query = %d chats, want all 3", len(got))
	}
}
