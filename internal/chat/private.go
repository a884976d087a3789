package chat

import (
	"sort"
	"strings"
	"sync"
	"time"

	"palaver/internal/models"

	"github.com/google/uuid"
)

// PrivateLog stores direct messages keyed by the unordered username pair.
// Whether the recipient is online is checked through the IsOnline callback
// so the log itself stays independent of the connection registry.
type PrivateLog struct {
	mu       sync.RWMutex
	threads  map[string][]models.PrivateMessage
	isOnline func(username string) bool
	now      func() time.Time
}

type PrivateLogConfig struct {
	IsOnline func(username string) bool
}

func NewPrivateLog(config PrivateLogConfig) *PrivateLog {
	return &PrivateLog{
		threads:  make(map[string][]models.PrivateMessage),
		isOnline: config.IsOnline,
		now:      time.Now,
	}
}

// Send validates, builds, and appends a private message, returning it so the
// caller can deliver it to both connections. It fails before any write: an
// empty text is models.ErrInvalidInput, an unknown recipient is
// models.ErrRecipientNotOnline.
func (p *PrivateLog) Send(sender, recipient, text string) (models.PrivateMessage, error) {
	recipient = strings.TrimSpace(recipient)
	text = strings.TrimSpace(text)
	if recipient == "" || text == "" {
		return models.PrivateMessage{}, models.ErrInvalidInput
	}
	if !p.isOnline(recipient) {
		return models.PrivateMessage{}, models.ErrRecipientNotOnline
	}

	msg := models.PrivateMessage{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Recipient: recipient,
		Timestamp: p.now().UTC(),
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	key := pairKey(sender, recipient)
	p.threads[key] = append(p.threads[key], msg)

	return msg, nil
}

// History returns the full ordered message sequence between two users.
func (p *PrivateLog) History(userA, userB string) []models.PrivateMessage {
	p.mu.RLock()
	defer p.mu.RUnlock()

	thread := p.threads[pairKey(userA, userB)]
	out := make([]models.PrivateMessage, len(thread))
	copy(out, thread)

	return out
}

func pairKey(userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return pair[0] + "|" + pair[1]
}
