// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project statuses. Submitted projects move through review by admin
// action; payment completion moves an approved project to in_development.
const (
	ProjectSubmitted     = "submitted"
	ProjectInReview      = "in_review"
	ProjectApproved      = "approved"
	ProjectInDevelopment = "in_development"
	ProjectCompleted     = "completed"
	ProjectCancelled     = "cancelled"
)

// ValidProjectStatus reports whether s is a recognized project status.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectSubmitted, ProjectInReview, ProjectApproved,
		ProjectInDevelopment, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// Project is a development project submitted by a user.
type Project struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title      string             `bson:"title" json:"title"`
	TitleCI    string             `bson:"title_ci" json:"title_ci"`
	Summary    string             `bson:"summary,omitempty" json:"summary,omitempty"`
	Category   string             `bson:"category,omitempty" json:"category,omitempty"`
	Status     string             `bson:"status" json:"status"`
	AdminNotes string             `bson:"admin_notes,omitempty" json:"admin_notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
