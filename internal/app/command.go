package app

import (
	"errors"

	"github.com/avezina/parley/internal/domain"
)

var (
	ErrMalformedCommand = errors.New("malformed command")
	ErrNotActive        = errors.New("session not active")
)

// Command is a tagged inbound event, decoded by the transport adapter and
// matched exhaustively in the session.
type Command interface{ isCommand() }

type JoinConversation struct {
	Conversation domain.ConversationID
}

type LeaveConversation struct {
	Conversation domain.ConversationID
}

type SendMessage struct {
	Conversation domain.ConversationID
	Content      string
}

type Typing struct {
	Conversation domain.ConversationID
	IsTyping     bool
}

type Ping struct{}

func (JoinConversation) isCommand()  {}
func (LeaveConversation) isCommand() {}
func (SendMessage) isCommand()       {}
func (Typing) isCommand()            {}
func (Ping) isCommand()              {}
