package chat

import (
	"errors"
	"fmt"
	"testing"

	"palaver/internal/models"
)

func TestRegistry_JoinDistinctUsernames(t *testing.T) {
	r := NewRegistry()

	for i := 0; i < 5; i++ {
		connID := fmt.Sprintf("conn-%d", i)
		r.Register(connID)
		if _, err := r.Join(connID, fmt.Sprintf("user-%d", i), "global"); err != nil {
			t.Fatalf("Join failed for distinct username: %v", err)
		}
	}

	if got := len(r.Sessions()); got != 5 {
		t.Errorf("expected 5 sessions, got %d", got)
	}
}

func TestRegistry_JoinDuplicateUsername(t *testing.T) {
	r := NewRegistry()
	r.Register("c1")
	r.Register("c2")

	if _, err := r.Join("c1", "alice", "global"); err != nil {
		t.Fatalf("first join failed: %v", err)
	}

	// Exact match after trimming is a duplicate.
	_, err := r.Join("c2", "  alice  ", "global")
	if !errors.Is(err, models.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	// The rejected join must not create a session.
	if _, ok := r.Resolve("c2"); ok {
		t.Error("rejected join created a session")
	}

	// Case-sensitive check: a different case is a different user.
	if _, err := r.Join("c2", "Alice", "global"); err != nil {
		t.Errorf("case-different username rejected: %v", err)
	}
}

func TestRegistry_JoinInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		username string
		room     string
	}{
		{"empty username", "", "global"},
		{"blank username", "   ", "global"},
		{"empty room", "alice", ""},
		{"blank room", "alice", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			r.Register("c1")
			if _, err := r.Join("c1", tt.username, tt.room); !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRegistry_SwitchRoom(t *testing.T) {
	r := NewRegistry()
	r.Register("c1")

	if _, _, err := r.SwitchRoom("c1", "den"); !errors.Is(err, models.ErrNotJoined) {
		t.Errorf("expected ErrNotJoined before join, got %v", err)
	}

	if _, err := r.Join("c1", "alice", "global"); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	if _, _, err := r.SwitchRoom("c1", "  "); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for blank room, got %v", err)
	}

	sess, oldRoom, err := r.SwitchRoom("c1", "den")
	if err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if oldRoom != "global" || sess.Room != "den" {
		t.Errorf("expected global -> den, got %s -> %s", oldRoom, sess.Room)
	}

	// Switching to the current room is a reported success.
	sess, oldRoom, err = r.SwitchRoom("c1", "den")
	if err != nil {
		t.Fatalf("same-room switch failed: %v", err)
	}
	if oldRoom != sess.Room {
		t.Errorf("same-room switch should be a no-op, got %s -> %s", oldRoom, sess.Room)
	}
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	r.Register("c1")

	if _, ok := r.Remove("c1"); ok {
		t.Error("removing an anonymous slot should not return a session")
	}

	r.Register("c1")
	if _, err := r.Join("c1", "alice", "global"); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	sess, ok := r.Remove("c1")
	if !ok {
		t.Fatal("expected removed session")
	}
	if sess.Username != "alice" || sess.Room != "global" {
		t.Errorf("unexpected session returned: %+v", sess)
	}

	if _, ok := r.ByUsername("alice"); ok {
		t.Error("username still resolvable after remove")
	}

	// Name is free for reuse now.
	r.Register("c2")
	if _, err := r.Join("c2", "alice", "global"); err != nil {
		t.Errorf("rejoining with a freed username failed: %v", err)
	}
}

func TestRegistry_ByUsername(t *testing.T) {
	r := NewRegistry()
	r.Register("c1")
	if _, err := r.Join("c1", "alice", "den"); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	sess, ok := r.ByUsername("alice")
	if !ok || sess.ConnID != "c1" || sess.Room != "den" {
		t.Errorf("ByUsername returned %+v, %v", sess, ok)
	}

	if _, ok := r.ByUsername("bob"); ok {
		t.Error("unknown username resolved")
	}
}
