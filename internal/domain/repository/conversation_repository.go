package repository

import (
	"context"
	"time"

	"teachersgallery/internal/domain/entity"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error)
	Update(ctx context.Context, conversation *entity.Conversation) error

	// Message methods
	CreateMessage(ctx context.Context, message *entity.Message) error
	GetMessagesByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error)
	UpdateMessageReadStatus(ctx context.Context, conversationID, messageID, userID string) error

	// Typing state. SetTyping writes or deletes this participant's entry in
	// the conversation's typing map; at is ignored when typing is false.
	SetTyping(ctx context.Context, conversationID, participantID string, typing bool, at time.Time) error

	// WatchTyping streams the raw typing map on every change until ctx is
	// cancelled, then closes the channel. A nil element signals a push
	// channel failure; consumers fall back to an empty map.
	WatchTyping(ctx context.Context, conversationID string) (<-chan map[string]time.Time, error)
}
