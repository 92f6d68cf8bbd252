// internal/domain/models/consultation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Consultation types.
const (
	ConsultationInitial  = "initial"
	ConsultationFollowup = "followup"
	ConsultationReview   = "review"
)

// ValidConsultationType reports whether t is a recognized consultation type.
func ValidConsultationType(t string) bool {
	switch t {
	case ConsultationInitial, ConsultationFollowup, ConsultationReview:
		return true
	}
	return false
}

// Message is one entry in a consultation thread. Messages are append-only;
// neither side edits or removes entries after the fact.
type Message struct {
	Sender string    `bson:"sender" json:"sender"` // user | admin
	Body   string    `bson:"body" json:"body"`
	SentAt time.Time `bson:"sent_at" json:"sent_at"`
}

// Consultation is a request-for-guidance thread between a user and the
// admin team, optionally tied to one of the user's projects.
type Consultation struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID  `bson:"user_id" json:"user_id"`
	ProjectID       *primitive.ObjectID `bson:"project_id,omitempty" json:"project_id,omitempty"`
	Type            string              `bson:"type" json:"type"`
	Messages        []Message           `bson:"messages,omitempty" json:"messages,omitempty"`
	Requirements    string              `bson:"requirements,omitempty" json:"requirements,omitempty"`
	Recommendations string              `bson:"recommendations,omitempty" json:"recommendations,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
