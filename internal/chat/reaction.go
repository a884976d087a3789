package chat

import (
	"sync"

	"palaver/internal/models"
)

// Reactions maps message ids to symbol counters. The toggle is count-based:
// there is no record of which user contributed which unit, so repeated
// toggles from any user drive the same shared counter.
type Reactions struct {
	mu    sync.RWMutex
	byMsg map[string]map[string]int
}

func NewReactions() *Reactions {
	return &Reactions{
		byMsg: make(map[string]map[string]int),
	}
}

// Register creates an empty reaction set for a newly appended message.
func (r *Reactions) Register(messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byMsg[messageID]; !ok {
		r.byMsg[messageID] = make(map[string]int)
	}
}

// Toggle flips the counter for (messageID, symbol): a zero count becomes 1,
// anything else is decremented and the symbol entry is dropped when it
// reaches zero. It returns a copy of the full updated mapping.
func (r *Reactions) Toggle(messageID, symbol string) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reactions, ok := r.byMsg[messageID]
	if !ok {
		return nil, models.ErrUnknownMessage
	}

	if reactions[symbol] > 0 {
		reactions[symbol]--
		if reactions[symbol] == 0 {
			delete(reactions, symbol)
		}
	} else {
		reactions[symbol] = 1
	}

	return copyCounts(reactions), nil
}

// Get returns a copy of the message's symbol counters.
func (r *Reactions) Get(messageID string) (map[string]int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reactions, ok := r.byMsg[messageID]
	if !ok {
		return nil, false
	}

	return copyCounts(reactions), true
}

func copyCounts(reactions map[string]int) map[string]int {
	out := make(map[string]int, len(reactions))
	for symbol, count := range reactions {
		out[symbol] = count
	}
	return out
}
