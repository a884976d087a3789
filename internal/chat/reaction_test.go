package chat

import (
	"errors"
	"testing"

	"palaver/internal/models"
)

func TestReactions_ToggleCycle(t *testing.T) {
	r := NewReactions()
	r.Register("m1")

	counts, err := r.Toggle("m1", "👍")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if counts["👍"] != 1 {
		t.Errorf("after first toggle got %v, want {👍:1}", counts)
	}

	counts, err = r.Toggle("m1", "👍")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("zero-count symbol retained: %v", counts)
	}
}

func TestReactions_SharedCounter(t *testing.T) {
	// The toggle is count-based: two different callers drive the same
	// counter, so alternating toggles flip it between 1 and empty.
	r := NewReactions()
	r.Register("m1")

	for i := 0; i < 4; i++ {
		counts, err := r.Toggle("m1", "🔥")
		if err != nil {
			t.Fatalf("toggle %d failed: %v", i, err)
		}
		if i%2 == 0 && counts["🔥"] != 1 {
			t.Errorf("toggle %d: got %v, want count 1", i, counts)
		}
		if i%2 == 1 && len(counts) != 0 {
			t.Errorf("toggle %d: got %v, want empty", i, counts)
		}
	}
}

func TestReactions_MultipleSymbols(t *testing.T) {
	r := NewReactions()
	r.Register("m1")

	_, _ = r.Toggle("m1", "👍")
	counts, err := r.Toggle("m1", "🎉")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if counts["👍"] != 1 || counts["🎉"] != 1 {
		t.Errorf("got %v, want both symbols at 1", counts)
	}

	counts, _ = r.Toggle("m1", "👍")
	if _, ok := counts["👍"]; ok {
		t.Errorf("👍 should be removed, got %v", counts)
	}
	if counts["🎉"] != 1 {
		t.Errorf("🎉 should survive, got %v", counts)
	}
}

func TestReactions_UnknownMessage(t *testing.T) {
	r := NewReactions()

	if _, err := r.Toggle("ghost", "👍"); !errors.Is(err, models.ErrUnknownMessage) {
		t.Errorf("expected ErrUnknownMessage, got %v", err)
	}
}

func TestReactions_ReturnedMapIsCopy(t *testing.T) {
	r := NewReactions()
	r.Register("m1")

	counts, _ := r.Toggle("m1", "👍")
	counts["👍"] = 99

	fresh, _ := r.Get("m1")
	if fresh["👍"] != 1 {
		t.Errorf("store mutated through returned map: %v", fresh)
	}
}
