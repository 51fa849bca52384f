package core

import (
	"encoding/json"
	"time"

	"github.com/avezina/parley/internal/domain"
)

// Event is an immutable outbound payload. Variants carry no ownership,
// only data to serialize and deliver.
type Event interface {
	// Encode renders the wire frame. Called once per Deliver; the same
	// frame is fanned out to every recipient in scope.
	Encode() (Frame, error)
}

// MessageEvent relays one chat message to a conversation.
type MessageEvent struct {
	Message domain.Message
}

func (e MessageEvent) Encode() (Frame, error) {
	return json.Marshal(struct {
		Type           string                `json:"type"`
		ConversationID domain.ConversationID `json:"conversationId"`
		Sender         domain.User           `json:"sender"`
		Content        string                `json:"content"`
		Timestamp      time.Time             `json:"timestamp"`
	}{
		Type:           "newMessage",
		ConversationID: e.Message.ConversationID,
		Sender:         domain.User{ID: e.Message.SenderID, Username: e.Message.SenderName},
		Content:        e.Message.Content,
		Timestamp:      e.Message.SentAt,
	})
}

// TypingEvent signals that a user started or stopped typing in a conversation.
type TypingEvent struct {
	ConversationID domain.ConversationID
	User           domain.User
	IsTyping       bool
}

func (e TypingEvent) Encode() (Frame, error) {
	return json.Marshal(struct {
		Type           string                `json:"type"`
		ConversationID domain.ConversationID `json:"conversationId"`
		UserID         domain.UserID         `json:"userId"`
		Username       string                `json:"username"`
		IsTyping       bool                  `json:"isTyping"`
	}{
		Type:           "userTyping",
		ConversationID: e.ConversationID,
		UserID:         e.User.ID,
		Username:       e.User.Username,
		IsTyping:       e.IsTyping,
	})
}

// PresenceEvent carries the full deduplicated online-user list.
type PresenceEvent struct {
	Users []domain.User
}

func (e PresenceEvent) Encode() (Frame, error) {
	users := e.Users
	if users == nil {
		users = []domain.User{}
	}
	return json.Marshal(struct {
		Type  string        `json:"type"`
		Users []domain.User `json:"users"`
	}{Type: "onlineUsers", Users: users})
}

// ErrorEvent is sent to a single session when one of its commands failed.
type ErrorEvent struct {
	Reason string
}

func (e ErrorEvent) Encode() (Frame, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}{Type: "error", Error: e.Reason})
}

// PongEvent answers a client ping.
type PongEvent struct{}

func (e PongEvent) Encode() (Frame, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
	}{Type: "pong"})
}
