// internal/domain/models/payment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses. Transitions are driven exclusively by Stripe webhook
// events; local code never moves a completed payment anywhere else without
// a new authoritative event.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment records one Stripe Checkout attempt for a project.
//
// StripeSessionID and StripePaymentID are correlation ids issued by
// Stripe; webhook reconciliation locates rows by them, not by _id.
type Payment struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID  `bson:"user_id" json:"user_id"`
	ProjectID       *primitive.ObjectID `bson:"project_id,omitempty" json:"project_id,omitempty"`
	StripeSessionID string              `bson:"stripe_session_id,omitempty" json:"stripe_session_id,omitempty"`
	StripePaymentID string              `bson:"stripe_payment_id,omitempty" json:"stripe_payment_id,omitempty"`
	Status          string              `bson:"status" json:"status"`
	AmountTotal     int64               `bson:"amount_total" json:"amount_total"` // smallest currency unit
	Currency        string              `bson:"currency,omitempty" json:"currency,omitempty"`
	PaidAt          *time.Time          `bson:"paid_at,omitempty" json:"paid_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
