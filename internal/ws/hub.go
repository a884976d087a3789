package ws

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"palaver/internal/chat"
	"palaver/internal/content"
	"palaver/internal/models"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	defaultSendBuffer = 100
	defaultTypingTTL  = 10 * time.Second
)

var errAlreadyJoined = errors.New("already joined")

// Hub is the orchestrator: it owns every shared store and is the only place
// state is mutated. Each inbound event is processed to completion under the
// hub mutex, so all clients in a room observe broadcasts in the same order.
type Hub struct {
	mu         sync.Mutex
	conns      map[string]chan models.ServerEvent
	sendBuffer int

	registry  *chat.Registry
	rooms     *chat.Rooms
	history   *chat.History
	reactions *chat.Reactions
	private   *chat.PrivateLog
	typing    *chat.Typing
}

type Config struct {
	TypingTTL  time.Duration
	SendBuffer int
}

func NewHub(ctx context.Context, config Config) *Hub {
	if config.SendBuffer <= 0 {
		config.SendBuffer = defaultSendBuffer
	}
	if config.TypingTTL <= 0 {
		config.TypingTTL = defaultTypingTTL
	}

	registry := chat.NewRegistry()
	reactions := chat.NewReactions()

	h := &Hub{
		conns:      make(map[string]chan models.ServerEvent),
		sendBuffer: config.SendBuffer,
		registry:   registry,
		reactions:  reactions,
		history:    chat.NewHistory(reactions),
		typing:     chat.NewTyping(ctx, config.TypingTTL),
	}

	h.rooms = chat.NewRooms(chat.RoomsConfig{
		Resolve: func(connID string) (string, bool) {
			sess, ok := registry.Resolve(connID)
			if !ok {
				return "", false
			}
			return sess.Username, true
		},
	})

	h.private = chat.NewPrivateLog(chat.PrivateLogConfig{
		IsOnline: func(username string) bool {
			_, ok := registry.ByUsername(username)
			return ok
		},
	})

	return h
}

// Connect registers the connection and returns its outbound event channel.
// The channel is closed by Disconnect.
func (h *Hub) Connect(connID string) chan models.ServerEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan models.ServerEvent, h.sendBuffer)
	h.conns[connID] = ch
	h.registry.Register(connID)

	return ch
}

// Disconnect removes the session and performs the room-leave side effects.
func (h *Hub) Disconnect(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sess, joined := h.registry.Remove(connID)

	if ch, ok := h.conns[connID]; ok {
		delete(h.conns, connID)
		close(ch)
	}

	if !joined {
		return
	}

	h.typing.Set(sess.Room, sess.Username, false)
	deleted := h.rooms.RemoveMember(sess.Room, connID)

	h.broadcastRoom(sess.Room, models.ServerEvent{
		Type:     models.ServerEventUserLeft,
		Username: sess.Username,
		Room:     sess.Room,
	})
	h.systemNotice(sess.Room, connID, fmt.Sprintf("%s left the room", sess.Username))

	if deleted {
		h.broadcastAll(models.ServerEvent{
			Type:  models.ServerEventAvailableRooms,
			Rooms: h.rooms.Names(),
		})
		return
	}

	h.broadcastRoom(sess.Room, models.ServerEvent{
		Type:  models.ServerEventOnlineUsers,
		Users: h.rooms.Members(sess.Room),
	})
}

// Dispatch processes one inbound event to completion. Any precondition
// violation is converted to a single error event for the originating
// connection; no state is mutated and nothing is broadcast in that case.
func (h *Hub) Dispatch(connID string, ev models.ClientEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	switch ev.Type {
	case models.ClientEventJoin:
		err = h.handleJoin(connID, ev)
	case models.ClientEventSendMessage:
		err = h.handleSendMessage(connID, ev)
	case models.ClientEventTyping:
		err = h.handleTyping(connID, ev)
	case models.ClientEventSwitchRoom:
		err = h.handleSwitchRoom(connID, ev)
	case models.ClientEventSendPrivate:
		err = h.handleSendPrivate(connID, ev)
	case models.ClientEventAddReaction:
		err = h.handleAddReaction(connID, ev)
	case models.ClientEventLoadOlder:
		err = h.handleLoadOlder(connID, ev)
	default:
		err = fmt.Errorf("%w: unknown event type %q", models.ErrInvalidInput, ev.Type)
	}

	if err != nil {
		h.send(connID, models.ServerEvent{
			Type:  models.ServerEventError,
			Error: err.Error(),
		})
	}
}

func (h *Hub) handleJoin(connID string, ev models.ClientEvent) error {
	if _, ok := h.registry.Resolve(connID); ok {
		return errAlreadyJoined
	}

	username := strings.TrimSpace(ev.Username)
	if username != "" {
		if err := content.ValidateUsername(username); err != nil {
			return fmt.Errorf("%w: %s", models.ErrInvalidInput, err)
		}
	}

	sess, err := h.registry.Join(connID, ev.Username, ev.Room)
	if err != nil {
		return err
	}

	created := h.rooms.AddMember(sess.Room, connID)

	h.broadcastRoomExcept(sess.Room, connID, models.ServerEvent{
		Type:     models.ServerEventUserJoined,
		Username: sess.Username,
		Room:     sess.Room,
	})
	h.systemNotice(sess.Room, connID, fmt.Sprintf("%s joined the room", sess.Username))

	h.broadcastRoom(sess.Room, models.ServerEvent{
		Type:  models.ServerEventOnlineUsers,
		Users: h.rooms.Members(sess.Room),
	})

	rooms := models.ServerEvent{
		Type:  models.ServerEventAvailableRooms,
		Rooms: h.rooms.Names(),
	}
	if created {
		h.broadcastAll(rooms)
	} else {
		h.send(connID, rooms)
	}

	messages, hasMore := h.history.InitialPage(sess.Room)
	h.send(connID, models.ServerEvent{
		Type:     models.ServerEventInitialMessages,
		Messages: messages,
		HasMore:  hasMore,
	})

	return nil
}

func (h *Hub) handleSendMessage(connID string, ev models.ClientEvent) error {
	sess, ok := h.registry.Resolve(connID)
	if !ok {
		return models.ErrNotJoined
	}

	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return models.ErrInvalidInput
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		Text:      content.Sanitize(text),
		HTML:      content.Render(text),
		Sender:    sess.Username,
		Room:      sess.Room,
		Timestamp: time.Now().UTC(),
	}
	h.history.Append(sess.Room, msg)

	h.broadcastRoom(sess.Room, models.ServerEvent{
		Type:    models.ServerEventMessage,
		Message: &msg,
	})
	h.send(connID, models.ServerEvent{
		Type:      models.ServerEventMessageDelivered,
		MessageID: msg.ID,
	})

	return nil
}

func (h *Hub) handleTyping(connID string, ev models.ClientEvent) error {
	sess, ok := h.registry.Resolve(connID)
	if !ok {
		return models.ErrNotJoined
	}

	h.typing.Set(sess.Room, sess.Username, ev.IsTyping)

	h.broadcastRoomExcept(sess.Room, connID, models.ServerEvent{
		Type:     models.ServerEventUserTyping,
		Username: sess.Username,
		IsTyping: ev.IsTyping,
	})

	return nil
}

func (h *Hub) handleSwitchRoom(connID string, ev models.ClientEvent) error {
	sess, oldRoom, err := h.registry.SwitchRoom(connID, ev.Room)
	if err != nil {
		return err
	}

	if oldRoom == sess.Room {
		h.send(connID, models.ServerEvent{
			Type: models.ServerEventRoomSwitched,
			Room: sess.Room,
		})
		return nil
	}

	// Leave the old room.
	h.typing.Set(oldRoom, sess.Username, false)
	deleted := h.rooms.RemoveMember(oldRoom, connID)
	h.broadcastRoom(oldRoom, models.ServerEvent{
		Type:     models.ServerEventUserLeft,
		Username: sess.Username,
		Room:     oldRoom,
	})
	h.systemNotice(oldRoom, connID, fmt.Sprintf("%s left the room", sess.Username))

	// Join the new one.
	created := h.rooms.AddMember(sess.Room, connID)
	h.broadcastRoomExcept(sess.Room, connID, models.ServerEvent{
		Type:     models.ServerEventUserJoined,
		Username: sess.Username,
		Room:     sess.Room,
	})
	h.systemNotice(sess.Room, connID, fmt.Sprintf("%s joined the room", sess.Username))

	h.broadcastRoom(sess.Room, models.ServerEvent{
		Type:  models.ServerEventOnlineUsers,
		Users: h.rooms.Members(sess.Room),
	})
	h.send(connID, models.ServerEvent{
		Type: models.ServerEventRoomSwitched,
		Room: sess.Room,
	})

	messages, hasMore := h.history.InitialPage(sess.Room)
	h.send(connID, models.ServerEvent{
		Type:     models.ServerEventInitialMessages,
		Messages: messages,
		HasMore:  hasMore,
	})

	rooms := models.ServerEvent{
		Type:  models.ServerEventAvailableRooms,
		Rooms: h.rooms.Names(),
	}
	if created || deleted {
		h.broadcastAll(rooms)
	} else {
		h.send(connID, rooms)
	}

	return nil
}

func (h *Hub) handleSendPrivate(connID string, ev models.ClientEvent) error {
	sess, ok := h.registry.Resolve(connID)
	if !ok {
		return models.ErrNotJoined
	}

	msg, err := h.private.Send(sess.Username, ev.Recipient, content.Sanitize(ev.Text))
	if err != nil {
		return err
	}

	out := models.ServerEvent{
		Type:    models.ServerEventPrivateMessage,
		Private: &msg,
	}
	h.send(connID, out)
	if recipient, ok := h.registry.ByUsername(msg.Recipient); ok && recipient.ConnID != connID {
		h.send(recipient.ConnID, out)
	}

	return nil
}

func (h *Hub) handleAddReaction(connID string, ev models.ClientEvent) error {
	if _, ok := h.registry.Resolve(connID); !ok {
		return models.ErrNotJoined
	}

	if ev.MessageID == "" || strings.TrimSpace(ev.Symbol) == "" {
		return models.ErrInvalidInput
	}

	reactions, err := h.reactions.Toggle(ev.MessageID, ev.Symbol)
	if err != nil {
		return err
	}

	room, ok := h.history.RoomOf(ev.MessageID)
	if !ok {
		return models.ErrUnknownMessage
	}

	h.broadcastRoom(room, models.ServerEvent{
		Type:      models.ServerEventReactionUpdate,
		MessageID: ev.MessageID,
		Reactions: reactions,
	})

	return nil
}

func (h *Hub) handleLoadOlder(connID string, ev models.ClientEvent) error {
	sess, ok := h.registry.Resolve(connID)
	if !ok {
		return models.ErrNotJoined
	}
	if ev.Room != "" && ev.Room != sess.Room {
		return models.ErrRoomMismatch
	}
	if ev.Offset < 0 {
		return models.ErrInvalidInput
	}

	messages, hasMore := h.history.OlderPage(sess.Room, ev.Offset)
	h.send(connID, models.ServerEvent{
		Type:     models.ServerEventOlderMessages,
		Messages: messages,
		HasMore:  hasMore,
	})

	return nil
}

// PrivateHistory returns the direct message thread between two users.
func (h *Hub) PrivateHistory(userA, userB string) []models.PrivateMessage {
	return h.private.History(userA, userB)
}

// RoomNames returns a snapshot of all current room names.
func (h *Hub) RoomNames() []string {
	return h.rooms.Names()
}

// OnlineUsers returns the usernames of all joined sessions, sorted.
func (h *Hub) OnlineUsers() []string {
	users := lo.Map(h.registry.Sessions(), func(sess models.Session, _ int) string {
		return sess.Username
	})
	sort.Strings(users)
	return users
}

// TypingUsers returns the usernames currently typing in the room.
func (h *Hub) TypingUsers(room string) []string {
	return h.typing.List(room)
}

// systemNotice broadcasts an ephemeral join/leave notice to the room,
// skipping the acting connection. Notices are not appended to history.
func (h *Hub) systemNotice(room, actorConnID, text string) {
	msg := models.Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    "system",
		Room:      room,
		Timestamp: time.Now().UTC(),
		IsSystem:  true,
	}
	h.broadcastRoomExcept(room, actorConnID, models.ServerEvent{
		Type:    models.ServerEventMessage,
		Message: &msg,
	})
}

// send delivers the event to one connection, dropping it if the outbound
// buffer is full. Callers hold h.mu.
func (h *Hub) send(connID string, ev models.ServerEvent) {
	ch, ok := h.conns[connID]
	if !ok {
		return
	}
	select {
	case ch <- ev:
	default:
	}
}

func (h *Hub) broadcastRoom(room string, ev models.ServerEvent) {
	for _, connID := range h.rooms.ConnIDs(room) {
		h.send(connID, ev)
	}
}

func (h *Hub) broadcastRoomExcept(room, except string, ev models.ServerEvent) {
	for _, connID := range h.rooms.ConnIDs(room) {
		if connID == except {
			continue
		}
		h.send(connID, ev)
	}
}

func (h *Hub) broadcastAll(ev models.ServerEvent) {
	for connID := range h.conns {
		h.send(connID, ev)
	}
}
