package chat

import (
	"errors"
	"testing"

	"palaver/internal/models"
)

func newTestPrivateLog(online ...string) *PrivateLog {
	set := make(map[string]bool, len(online))
	for _, u := range online {
		set[u] = true
	}
	return NewPrivateLog(PrivateLogConfig{
		IsOnline: func(username string) bool { return set[username] },
	})
}

func TestPrivateLog_RoundTrip(t *testing.T) {
	p := newTestPrivateLog("alice", "bob")

	msg, err := p.Send("alice", "bob", "hi")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if msg.ID == "" || msg.Sender != "alice" || msg.Recipient != "bob" {
		t.Errorf("unexpected message: %+v", msg)
	}

	// The thread is keyed by the unordered pair.
	if got := p.History("alice", "bob"); len(got) != 1 || got[0].Text != "hi" {
		t.Errorf("History(alice, bob) = %+v", got)
	}
	if got := p.History("bob", "alice"); len(got) != 1 {
		t.Errorf("History(bob, alice) = %+v", got)
	}

	// And only in that thread.
	if got := p.History("alice", "carol"); len(got) != 0 {
		t.Errorf("message leaked into unrelated thread: %+v", got)
	}
}

func TestPrivateLog_RecipientNotOnline(t *testing.T) {
	p := newTestPrivateLog("alice")

	_, err := p.Send("alice", "bob", "hi")
	if !errors.Is(err, models.ErrRecipientNotOnline) {
		t.Fatalf("expected ErrRecipientNotOnline, got %v", err)
	}

	if got := p.History("alice", "bob"); len(got) != 0 {
		t.Errorf("failed send left history non-empty: %+v", got)
	}
}

func TestPrivateLog_InvalidInput(t *testing.T) {
	p := newTestPrivateLog("alice", "bob")

	tests := []struct {
		name      string
		recipient string
		text      string
	}{
		{"empty text", "bob", ""},
		{"blank text", "bob", "   "},
		{"empty recipient", "", "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Send("alice", tt.recipient, tt.text); !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestPrivateLog_Ordering(t *testing.T) {
	p := newTestPrivateLog("alice", "bob")

	texts := []string{"one", "two", "three"}
	for _, text := range texts {
		if _, err := p.Send("alice", "bob", text); err != nil {
			t.Fatalf("send failed: %v", err)
		}
	}

	got := p.History("bob", "alice")
	if len(got) != len(texts) {
		t.Fatalf("expected %d messages, got %d", len(texts), len(got))
	}
	for i, text := range texts {
		if got[i].Text != text {
			t.Errorf("message %d = %q, want %q", i, got[i].Text, text)
		}
	}
}
