package chat

import (
	"strings"
	"sync"

	"palaver/internal/models"

	"github.com/samber/lo"
)

// Registry tracks the session of every active connection. A connection gets
// an empty slot when it is registered and holds a Session only after a
// successful join. Usernames are unique across all active sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*models.Session),
	}
}

// Register creates an empty slot for a freshly accepted connection.
func (r *Registry) Register(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[connID]; !ok {
		r.sessions[connID] = nil
	}
}

// Join binds the connection to a username and room. The username must be
// unique among active sessions (case-sensitive, compared after trimming).
func (r *Registry) Join(connID, username, room string) (models.Session, error) {
	username = strings.TrimSpace(username)
	room = strings.TrimSpace(room)
	if username == "" || room == "" {
		return models.Session{}, models.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, sess := range r.sessions {
		if id == connID || sess == nil {
			continue
		}
		if sess.Username == username {
			return models.Session{}, models.ErrDuplicateUsername
		}
	}

	sess := &models.Session{ConnID: connID, Username: username, Room: room}
	r.sessions[connID] = sess

	return *sess, nil
}

// SwitchRoom moves the session to newRoom and returns the updated session
// together with the room it was in before. Switching to the current room is
// a no-op reported as success (oldRoom equals the session room).
func (r *Registry) SwitchRoom(connID, newRoom string) (models.Session, string, error) {
	newRoom = strings.TrimSpace(newRoom)

	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	if !ok || sess == nil {
		return models.Session{}, "", models.ErrNotJoined
	}
	if newRoom == "" {
		return models.Session{}, "", models.ErrInvalidInput
	}

	oldRoom := sess.Room
	sess.Room = newRoom

	return *sess, oldRoom, nil
}

// Remove deletes the connection slot and returns the session it held, if
// any, so the caller can perform room-leave side effects.
func (r *Registry) Remove(connID string) (models.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[connID]
	delete(r.sessions, connID)
	if !ok || sess == nil {
		return models.Session{}, false
	}

	return *sess, true
}

// Resolve returns the session of a joined connection.
func (r *Registry) Resolve(connID string) (models.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[connID]
	if !ok || sess == nil {
		return models.Session{}, false
	}

	return *sess, true
}

// ByUsername finds the active session holding the given trimmed username.
func (r *Registry) ByUsername(username string) (models.Session, bool) {
	username = strings.TrimSpace(username)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sess := range r.sessions {
		if sess != nil && sess.Username == username {
			return *sess, true
		}
	}

	return models.Session{}, false
}

// Sessions returns a snapshot of all joined sessions.
func (r *Registry) Sessions() []models.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.FilterMap(lo.Values(r.sessions), func(sess *models.Session, _ int) (models.Session, bool) {
		if sess == nil {
			return models.Session{}, false
		}
		return *sess, true
	})
}
