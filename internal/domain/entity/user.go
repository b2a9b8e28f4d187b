package entity

import (
	"time"
)

type User struct {
	ID       string `json:"id" firestore:"id"`
	Email    string `json:"email" firestore:"email"`
	FullName string `json:"full_name" firestore:"fullName"`
	Phone    string `json:"phone,omitempty" firestore:"phone,omitempty"`
	Role     string `json:"role" firestore:"role"` // "teacher", "student", "parent", "admin"
	Status   string `json:"status" firestore:"status"`

	AvatarURL string `json:"avatar_url,omitempty" firestore:"avatarUrl,omitempty"`
	Location  string `json:"location,omitempty" firestore:"location,omitempty"`
	Bio       string `json:"bio,omitempty" firestore:"bio,omitempty"`

	// Parents register on behalf of a child; kept on the account record so
	// teachers see who they are actually tutoring.
	ChildName  string `json:"child_name,omitempty" firestore:"childName,omitempty"`
	ChildGrade string `json:"child_grade,omitempty" firestore:"childGrade,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// PublicView strips the phone number. The phone is the gated resource of the
// reveal-request flow and must never ride along on an ordinary profile read.
func (u *User) PublicView() *User {
	clone := *u
	clone.Phone = ""
	return &clone
}
