package entity

import "time"

const (
	PhoneRequestPending  = "pending"
	PhoneRequestApproved = "approved"
	PhoneRequestRejected = "rejected"

	// PhoneUnavailable is stored as the revealed value when a request is
	// approved but the granter never filled in a number. An approved record
	// is never left with an empty reveal field.
	PhoneUnavailable = "unavailable"
)

// PhoneRequest tracks one "may I see your contact number" request from a
// student or parent to a teacher. It is created pending, decided exactly once
// by the granter, and immutable afterwards.
type PhoneRequest struct {
	ID             string `json:"id" firestore:"id"`
	RequesterID    string `json:"requester_id" firestore:"requesterId"`
	GranterID      string `json:"granter_id" firestore:"granterId"`
	ConversationID string `json:"conversation_id,omitempty" firestore:"conversationId,omitempty"`

	Status string `json:"status" firestore:"status"`

	// PhoneNumber is populated only on the transition to approved. It stays
	// empty while pending and forever on rejected records.
	PhoneNumber string `json:"phone_number,omitempty" firestore:"phoneNumber,omitempty"`

	CreatedAt   time.Time  `json:"created_at" firestore:"createdAt"`
	RespondedAt *time.Time `json:"responded_at,omitempty" firestore:"respondedAt,omitempty"`
}

func (r *PhoneRequest) IsTerminal() bool {
	return r.Status == PhoneRequestApproved || r.Status == PhoneRequestRejected
}
