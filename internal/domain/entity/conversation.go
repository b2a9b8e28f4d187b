package entity

import "time"

const (
	// TypingWindow is the read-side staleness tolerance: a typing timestamp
	// older than this no longer counts as typing, even if the clear write
	// never arrived.
	TypingWindow = 5 * time.Second

	// TypingDebounce is the write-side silence timer: after this long without
	// a keystroke the writer clears its own entry. Shorter than TypingWindow
	// so a late clear write is still read as "recently typing" instead of
	// flickering.
	TypingDebounce = 3 * time.Second
)

type Conversation struct {
	ID           string         `json:"id" firestore:"id"`
	Participants []string       `json:"participants" firestore:"participants"`
	TeacherID    string         `json:"teacher_id,omitempty" firestore:"teacherId,omitempty"`
	StudentID    string         `json:"student_id,omitempty" firestore:"studentId,omitempty"`
	CreatedAt    time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time      `json:"updated_at" firestore:"updatedAt"`
	LastMessageAt time.Time     `json:"last_message_at" firestore:"lastMessageAt"`
	LastMessage  string         `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	UnreadCount  map[string]int `json:"unread_count" firestore:"unreadCount"`

	// Typing maps participantId -> last keystroke time. Absence means not
	// typing; readers apply TypingWindow themselves via TypingAt.
	Typing map[string]time.Time `json:"typing,omitempty" firestore:"typing,omitempty"`
}

func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// TypingAt derives "is this participant currently typing" from a raw typing
// map. The derivation is done on the read side because the acceptable
// staleness can differ by consumer.
func TypingAt(typing map[string]time.Time, participantID string, now time.Time) bool {
	ts, ok := typing[participantID]
	if !ok || ts.IsZero() {
		return false
	}
	return now.Sub(ts) < TypingWindow
}

type Message struct {
	ID        string                 `json:"id" firestore:"id"`
	ConversationID string            `json:"conversation_id" firestore:"conversationId"`
	SenderID  string                 `json:"sender_id" firestore:"senderId"`
	Content   string                 `json:"content" firestore:"content"`
	Type      string                 `json:"type" firestore:"type"` // "text", "system"
	Status    string                 `json:"status" firestore:"status"` // "sent", "delivered", "read"
	Metadata  map[string]interface{} `json:"metadata,omitempty" firestore:"metadata,omitempty"`
	ReadBy    []string               `json:"read_by" firestore:"readBy"`
	CreatedAt time.Time              `json:"created_at" firestore:"createdAt"`
}
