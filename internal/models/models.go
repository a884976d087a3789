package models

import (
	"errors"
	"time"
)

// Error taxonomy for event handling. Every failure is reported only to the
// originating connection as an "error" event; none of these are broadcast.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrNotJoined          = errors.New("you must join first")
	ErrRecipientNotOnline = errors.New("user not found")
	ErrUnknownMessage     = errors.New("message not found")
	ErrRoomMismatch       = errors.New("not a member of the requested room")
)

// GlobalRoom is the permanent default room. It is never deleted, even when
// its member set becomes empty.
const GlobalRoom = "global"

// Session is the live association between a connection and a chosen
// username plus the room the connection is currently in.
type Session struct {
	ConnID   string `json:"connId"`
	Username string `json:"username"`
	Room     string `json:"room"`
}

// Message is a single room message. Immutable once created.
// IsSystem marks join/leave notices generated by the server.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	HTML      string    `json:"html,omitempty"`
	Sender    string    `json:"sender"`
	Room      string    `json:"room"`
	Timestamp time.Time `json:"timestamp"`
	IsSystem  bool      `json:"isSystem,omitempty"`
}

// PrivateMessage is a direct message between two users. It is stored under
// the unordered pair {sender, recipient}.
type PrivateMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Timestamp time.Time `json:"timestamp"`
}

type ClientEventType string

const (
	ClientEventJoin        ClientEventType = "join"
	ClientEventSendMessage ClientEventType = "sendMessage"
	ClientEventTyping      ClientEventType = "typing"
	ClientEventSwitchRoom  ClientEventType = "switchRoom"
	ClientEventSendPrivate ClientEventType = "sendPrivateMessage"
	ClientEventAddReaction ClientEventType = "addReaction"
	ClientEventLoadOlder   ClientEventType = "loadOlderMessages"
)

// ClientEvent is the flat inbound envelope. Only the fields relevant to the
// event type are set by the client.
type ClientEvent struct {
	Type      ClientEventType `json:"type"`
	Username  string          `json:"username,omitempty"`
	Room      string          `json:"room,omitempty"`
	Text      string          `json:"text,omitempty"`
	IsTyping  bool            `json:"isTyping,omitempty"`
	Recipient string          `json:"recipient,omitempty"`
	MessageID string          `json:"messageId,omitempty"`
	Symbol    string          `json:"symbol,omitempty"`
	Offset    int             `json:"offset,omitempty"`
}

type ServerEventType string

const (
	ServerEventMessage          ServerEventType = "message"
	ServerEventUserJoined       ServerEventType = "userJoined"
	ServerEventUserLeft         ServerEventType = "userLeft"
	ServerEventOnlineUsers      ServerEventType = "onlineUsers"
	ServerEventUserTyping       ServerEventType = "userTyping"
	ServerEventAvailableRooms   ServerEventType = "availableRooms"
	ServerEventRoomSwitched     ServerEventType = "roomSwitched"
	ServerEventInitialMessages  ServerEventType = "initialMessages"
	ServerEventOlderMessages    ServerEventType = "olderMessages"
	ServerEventMessageDelivered ServerEventType = "messageDelivered"
	ServerEventPrivateMessage   ServerEventType = "privateMessage"
	ServerEventReactionUpdate   ServerEventType = "reactionUpdate"
	ServerEventError            ServerEventType = "error"
)

// ServerEvent is the flat outbound envelope.
type ServerEvent struct {
	Type      ServerEventType `json:"type"`
	Username  string          `json:"username,omitempty"`
	Room      string          `json:"room,omitempty"`
	IsTyping  bool            `json:"isTyping,omitempty"`
	Users     []string        `json:"users,omitempty"`
	Rooms     []string        `json:"rooms,omitempty"`
	Message   *Message        `json:"message,omitempty"`
	Messages  []Message       `json:"messages,omitempty"`
	HasMore   bool            `json:"hasMore,omitempty"`
	MessageID string          `json:"messageId,omitempty"`
	Reactions map[string]int  `json:"reactions,omitempty"`
	Private   *PrivateMessage `json:"privateMessage,omitempty"`
	Error     string          `json:"error,omitempty"`
}
