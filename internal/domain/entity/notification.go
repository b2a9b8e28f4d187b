package entity

import "time"

const (
	NotificationPhoneRequest         = "phone_request"
	NotificationPhoneRequestApproved = "phone_request_approved"
	NotificationPhoneRequestRejected = "phone_request_rejected"
	NotificationNewReview            = "new_review"
	NotificationNewMessage           = "new_message"
)

// Notification is a stored, per-user notice. Creation is always best-effort
// from the caller's point of view: a failed notification never unwinds the
// state change it announces.
type Notification struct {
	ID        string                 `json:"id" firestore:"id"`
	UserID    string                 `json:"user_id" firestore:"userId"`
	Type      string                 `json:"type" firestore:"type"`
	Title     string                 `json:"title" firestore:"title"`
	Body      string                 `json:"body,omitempty" firestore:"body,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" firestore:"metadata,omitempty"`
	Read      bool                   `json:"read" firestore:"read"`
	CreatedAt time.Time              `json:"created_at" firestore:"createdAt"`
}
