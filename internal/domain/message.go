package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is an immutable chat message, stamped by the server with the
// sender identity and send time. Never mutated after construction.
type Message struct {
	ID             uuid.UUID      `json:"id"`
	ConversationID ConversationID `json:"conversationId"`
	SenderID       UserID         `json:"senderId"`
	SenderName     string         `json:"senderName"`
	Content        string         `json:"content"`
	SentAt         time.Time      `json:"sentAt"`
}

func NewMessage(conv ConversationID, sender User, content string, at time.Time) Message {
	return Message{
		ID:             uuid.New(),
		ConversationID: conv,
		SenderID:       sender.ID,
		SenderName:     sender.Username,
		Content:        content,
		SentAt:         at,
	}
}
