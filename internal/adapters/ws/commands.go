package ws

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/avezina/parley/internal/app"
	"github.com/avezina/parley/internal/domain"
)

var validate = validator.New()

type joinPayload struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId" validate:"required,max=64"`
}

type sendPayload struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId" validate:"required,max=64"`
	Content        string `json:"content" validate:"required,max=4096"`
}

type typingPayload struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId" validate:"required,max=64"`
	IsTyping       bool   `json:"isTyping"`
}

// decodeCommand turns a raw frame into a tagged command. Shape failures
// wrap app.ErrMalformedCommand; the caller drops the frame with a warning
// and the connection stays active.
func decodeCommand(data []byte) (app.Command, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: bad json: %v", app.ErrMalformedCommand, err)
	}

	switch env.Type {
	case "joinConversation":
		var p joinPayload
		if err := unmarshalValid(data, &p); err != nil {
			return nil, err
		}
		return app.JoinConversation{Conversation: domain.ConversationID(p.ConversationID)}, nil
	case "leaveConversation":
		var p joinPayload
		if err := unmarshalValid(data, &p); err != nil {
			return nil, err
		}
		return app.LeaveConversation{Conversation: domain.ConversationID(p.ConversationID)}, nil
	case "sendMessage":
		var p sendPayload
		if err := unmarshalValid(data, &p); err != nil {
			return nil, err
		}
		return app.SendMessage{Conversation: domain.ConversationID(p.ConversationID), Content: p.Content}, nil
	case "typing":
		var p typingPayload
		if err := unmarshalValid(data, &p); err != nil {
			return nil, err
		}
		return app.Typing{Conversation: domain.ConversationID(p.ConversationID), IsTyping: p.IsTyping}, nil
	case "ping":
		return app.Ping{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", app.ErrMalformedCommand, env.Type)
	}
}

func unmarshalValid(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: bad payload: %v", app.ErrMalformedCommand, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", app.ErrMalformedCommand, err)
	}
	return nil
}
