package domain

// ConversationID names a scope of message delivery. Conversations are
// created implicitly on first join; an unknown id simply delivers to nobody.
type ConversationID string

const MaxConversationIDLen = 64
