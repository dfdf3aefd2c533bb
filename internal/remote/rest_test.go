package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListChats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/chats" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`[
			{"_id":"1","firstName":"Ann","lastName":"Lee"},
			{"_id":"2","firstName":"Bob","lastName":"Ray","lastMessage":{"_id":"m1","chatId":"2","text":"hi","isAutoResponse":false}}
		]`))
	}))
	defer srv.Close()

	chats, err := NewClient(srv.URL).ListChats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(chats) != 2 {
		t.Fatalf("got %d chats, want 2", len(chats))
	}
	if chats[0].ID != "1" || chats[0].FullName() != "Ann Lee" {
		t.Errorf("chat[0] = %+v", chats[0])
	}
	if chats[1].LastMessage == nil || chats[1].LastMessage.ID != "m1" {
		t.Errorf("chat[1].LastMessage = %+v", chats[1].LastMessage)
	}
}

func TestCreateChatTrimsNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body["firstName"] != "Ann" || body["lastName"] != "Lee" {
			t.Errorf("body not trimmed: %v", body)
		}
		_, _ = w.Write([]byte(`{"_id":"1","firstName":"Ann","lastName":"Lee"}`))
	}))
	defer srv.Close()

	chat, err := NewClient(srv.URL).CreateChat(context.Background(), "  Ann ", " Lee  ")
	if err != nil {
		t.Fatal(err)
	}
	if chat.ID != "1" {
		t.Errorf("chat = %+v", chat)
	}
}

func TestEmptyFieldsFailWithoutNetworkCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()

	if _, err := c.CreateChat(ctx, "   ", "Lee"); !errors.Is(err, ErrEmptyField) {
		t.Errorf("CreateChat err = %v, want ErrEmptyField", err)
	}
	if _, err := c.UpdateChat(ctx, "1", "Ann", ""); !errors.Is(err, ErrEmptyField) {
		t.Errorf("UpdateChat err = %v, want ErrEmptyField", err)
	}
	if _, err := c.SendMessage(ctx, "1", " \t "); !errors.Is(err, ErrEmptyField) {
		t.Errorf("SendMessage err = %v, want ErrEmptyField", err)
	}
	if calls != 0 {
		t.Errorf("server was called %d times, want 0", calls)
	}
}

func TestNon2xxYieldsRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ListChats(context.Background())
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err = %v, want RequestError", err)
	}
	if reqErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", reqErr.Status)
	}
}

func TestTransportFailureYieldsRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	err := NewClient(srv.URL).DeleteChat(context.Background(), "1")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err = %v, want RequestError", err)
	}
	if reqErr.Status != 0 || reqErr.Err == nil {
		t.Errorf("reqErr = %+v, want transport failure shape", reqErr)
	}
}

func TestSendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages/42" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["text"] != "hello" {
			t.Errorf("text = %q", body["text"])
		}
		_, _ = w.Write([]byte(`{"_id":"m9","chatId":"42","text":"hello","isAutoResponse":false}`))
	}))
	defer srv.Close()

	msg, err := NewClient(srv.URL).SendMessage(context.Background(), "42", " hello ")
	if err != nil {
		t.Fatal(err)
	}
	if msg.ID != "m9" || msg.ChatID != "42" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestToggleAutoMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages/random/toggle" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]bool
		_ = json.NewDecoder(r.Body).Decode(&body)
		if !body["enabled"] {
			t.Error("enabled = false, want true")
		}
		_, _ = w.Write([]byte(`{"message":"Random messages enabled"}`))
	}))
	defer srv.Close()

	msg, err := NewClient(srv.URL).ToggleAutoMessages(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if msg != "Random messages enabled" {
		t.Errorf("message = %q", msg)
	}
}
