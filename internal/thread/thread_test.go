package thread

import (
	"testing"

	"github.com/dmelnik/chatty/internal/remote"
)

func msg(id, chatID, text string, auto bool) remote.Message {
	return remote.Message{ID: id, ChatID: chatID, Text: text, IsAutoResponse: auto}
}

func TestAppendDeduplicatesByID(t *testing.T) {
	th := New("1")

	if !th.Append(msg("m1", "1", "hi", false)) {
		t.Error("first append should change the thread")
	}
	// Send response plus push delivery of the same message.
	if th.Append(msg("m1", "1", "hi", false)) {
		t.Error("duplicate append should be a no-op")
	}
	if th.Len() != 1 {
		t.Errorf("len = %d, want 1", th.Len())
	}
}

func TestSameTextDistinctIDsStaySeparate(t *testing.T) {
	th := New("1")

	// Two rapid sends of the same text get distinct server ids; dedup is
	// by id, never by content.
	th.Append(msg("m1", "1", "hi", false))
	th.Append(msg("m2", "1", "hi", false))

	if th.Len() != 2 {
		t.Errorf("len = %d, want 2", th.Len())
	}
}

func TestAppendDropsForeignChat(t *testing.T) {
	th := New("1")

	// Room leave is not instant; late deliveries for the previous chat
	// must never land here.
	if th.Append(msg("m1", "2", "stray", false)) {
		t.Error("foreign-chat message should be dropped")
	}
	if th.Len() != 0 {
		t.Errorf("len = %d, want 0", th.Len())
	}
}

func TestMergeHistoryKeepsPushArrivalsOnTop(t *testing.T) {
	th := New("1")

	// Push delivery lands before the history fetch resolves.
	th.Append(msg("m3", "1", "live", false))

	th.MergeHistory([]remote.Message{
		msg("m1", "1", "first", false),
		msg("m2", "1", "second", true),
	})

	got := th.Messages()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"m1", "m2", "m3"} {
		if got[i].ID != want {
			t.Errorf("messages[%d] = %q, want %q", i, got[i].ID, want)
		}
	}
}

func TestMergeHistoryDeduplicates(t *testing.T) {
	th := New("1")

	// The push event arrived first; history contains the same message.
	th.Append(msg("m1", "1", "hi", false))

	th.MergeHistory([]remote.Message{
		msg("m1", "1", "hi", false),
		msg("m2", "1", "again", false),
	})

	if th.Len() != 2 {
		t.Errorf("len = %d, want 2", th.Len())
	}
	// Later appends still dedup against merged history ids.
	if th.Append(msg("m2", "1", "again", false)) {
		t.Error("append of history id should be a no-op")
	}
}

func TestMergeHistoryFiltersForeignChat(t *testing.T) {
	th := New("1")
	th.MergeHistory([]remote.Message{
		msg("m1", "1", "mine", false),
		msg("m2", "2", "stray", false),
	})
	if th.Len() != 1 {
		t.Errorf("len = %d, want 1", th.Len())
	}
}

func TestAutoReplyClearsPendingFlag(t *testing.T) {
	th := New("1")
	th.SetPendingAuto(true)

	th.Append(msg("m1", "1", "auto", true))

	if th.PendingAuto() {
		t.Error("auto reply should clear the pending flag")
	}
}

func TestDuplicateAutoReplyStillClearsPending(t *testing.T) {
	th := New("1")
	th.Append(msg("m1", "1", "auto", true))

	// A re-delivered auto reply is deduplicated but must still resolve
	// a pending indicator armed in between.
	th.SetPendingAuto(true)
	if th.Append(msg("m1", "1", "auto", true)) {
		t.Error("duplicate should be a no-op for the sequence")
	}
	if th.PendingAuto() {
		t.Error("pending flag should clear even on duplicate delivery")
	}
}
