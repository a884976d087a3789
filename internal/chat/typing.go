package chat

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/c-pro/geche"
)

// Typing tracks which usernames are currently flagged as typing, per room.
// Entries live in a TTL cache so a flag left behind by a vanished client
// expires on its own; the set carries no state worth rebuilding.
type Typing struct {
	cache geche.Geche[string, string]
}

func NewTyping(ctx context.Context, ttl time.Duration) *Typing {
	return &Typing{
		cache: geche.NewMapTTLCache[string, string](ctx, ttl, time.Second),
	}
}

func (t *Typing) Set(room, username string, isTyping bool) {
	key := typingKey(room, username)
	if isTyping {
		t.cache.Set(key, username)
		return
	}
	_ = t.cache.Del(key)
}

// List returns the usernames currently typing in the room, sorted.
func (t *Typing) List(room string) []string {
	prefix := room + "\x00"

	var users []string
	for key, username := range t.cache.Snapshot() {
		if strings.HasPrefix(key, prefix) {
			users = append(users, username)
		}
	}
	sort.Strings(users)

	return users
}

func typingKey(room, username string) string {
	return room + "\x00" + username
}
