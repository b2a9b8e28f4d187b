package websocket

import (
	"context"
	"encoding/json"
	"log"
)

// TypingService is the slice of the chat layer the socket needs: keystroke
// and explicit stop-typing signals.
type TypingService interface {
	Keystroke(ctx context.Context, conversationID, userID string)
	SetTyping(ctx context.Context, conversationID, userID string, isTyping bool)
}

// PresenceService receives liveness signals derived from socket activity.
type PresenceService interface {
	SetOnline(ctx context.Context, participantID string, online bool)
}

type inboundFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
	IsTyping       bool   `json:"is_typing,omitempty"`
}

// EventHandler dispatches inbound socket frames to the typing and presence
// services and keeps room membership in sync.
type EventHandler struct {
	manager  *Manager
	typing   TypingService
	presence PresenceService
}

func NewEventHandler(manager *Manager, typing TypingService, presence PresenceService) *EventHandler {
	return &EventHandler{
		manager:  manager,
		typing:   typing,
		presence: presence,
	}
}

func (h *EventHandler) HandleMessage(client *Client, raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		log.Printf("Ignoring malformed frame from %s: %v", client.UserID, err)
		return
	}

	ctx := context.Background()

	switch frame.Type {
	case "join_conversation":
		if frame.ConversationID != "" {
			h.manager.JoinRoom(frame.ConversationID, client.UserID)
		}

	case "leave_conversation":
		if frame.ConversationID != "" {
			h.manager.LeaveRoom(frame.ConversationID, client.UserID)
			h.typing.SetTyping(ctx, frame.ConversationID, client.UserID, false)
		}

	case "typing":
		if frame.ConversationID == "" {
			return
		}
		if frame.IsTyping {
			h.typing.Keystroke(ctx, frame.ConversationID, client.UserID)
		} else {
			h.typing.SetTyping(ctx, frame.ConversationID, client.UserID, false)
		}

	case "heartbeat":
		h.presence.SetOnline(ctx, client.UserID, true)

	default:
		log.Printf("Unknown frame type %q from %s", frame.Type, client.UserID)
	}
}

// HandleDisconnect fires the best-effort teardown write. The socket closing
// is the closest server-side analog of a page unload; the write may be lost
// and the offline threshold covers for it.
func (h *EventHandler) HandleDisconnect(client *Client) {
	h.presence.SetOnline(context.Background(), client.UserID, false)
}
