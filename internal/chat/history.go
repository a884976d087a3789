package chat

import (
	"sync"

	"palaver/internal/models"
)

// PageSize is the fixed number of messages per history page.
const PageSize = 20

// History keeps the append-only message sequence of every room and serves
// suffix pages over it. Appending a message also registers its empty
// reaction set, so a reaction toggle can tell a known message from an
// unknown one.
type History struct {
	mu        sync.RWMutex
	messages  map[string][]models.Message
	roomOf    map[string]string
	reactions *Reactions
}

func NewHistory(reactions *Reactions) *History {
	return &History{
		messages:  make(map[string][]models.Message),
		roomOf:    make(map[string]string),
		reactions: reactions,
	}
}

// Append adds the message to the end of the room's sequence, creating the
// sequence lazily.
func (h *History) Append(room string, msg models.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages[room] = append(h.messages[room], msg)
	h.roomOf[msg.ID] = room
	h.reactions.Register(msg.ID)
}

// InitialPage returns the newest PageSize messages of the room and whether
// older messages remain.
func (h *History) InitialPage(room string) ([]models.Message, bool) {
	return h.OlderPage(room, 0)
}

// OlderPage returns the page ending offset messages before the tail. The
// offset is the number of messages the client already holds; the store only
// performs the index arithmetic and clamps at the sequence start.
func (h *History) OlderPage(room string, offset int) ([]models.Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msgs := h.messages[room]

	end := len(msgs) - offset
	if end < 0 {
		end = 0
	}
	start := end - PageSize
	if start < 0 {
		start = 0
	}

	page := make([]models.Message, end-start)
	copy(page, msgs[start:end])

	return page, start > 0
}

// RoomOf returns the room a message was appended to.
func (h *History) RoomOf(messageID string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.roomOf[messageID]
	return room, ok
}

// Len returns the number of messages stored for the room.
func (h *History) Len(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.messages[room])
}
