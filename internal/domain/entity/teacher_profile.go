package entity

import "time"

// TeacherProfile is the public listing card for a teacher. It lives apart
// from the User record so onboarding can be completed in steps and so listing
// queries never touch gated account fields.
type TeacherProfile struct {
	ID       string `json:"id" firestore:"id"`
	UserID   string `json:"user_id" firestore:"userId"`
	Headline string `json:"headline,omitempty" firestore:"headline,omitempty"`
	About    string `json:"about,omitempty" firestore:"about,omitempty"`

	Subjects        []string `json:"subjects" firestore:"subjects"`
	ExperienceYears int      `json:"experience_years" firestore:"experienceYears"`
	FeePerHour      int64    `json:"fee_per_hour" firestore:"feePerHour"`
	TeachingMode    string   `json:"teaching_mode" firestore:"teachingMode"` // "online", "offline", "hybrid"
	Location        string   `json:"location,omitempty" firestore:"location,omitempty"`

	Rating      float64 `json:"rating" firestore:"rating"`
	ReviewCount int     `json:"review_count" firestore:"reviewCount"`

	Featured bool   `json:"featured" firestore:"featured"`
	Status   string `json:"status" firestore:"status"` // "active", "hidden"

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
