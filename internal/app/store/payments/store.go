// internal/app/store/payments/store.go
package payments

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/launchdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errNoSessionID = errors.New("payment requires a stripe session id")

// Store manages payment records.
type Store struct {
	c *mongo.Collection
}

// New creates a new payment Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("payments")}
}

// EnsureIndexes creates the correlation-id and listing indexes. The
// correlation ids are sparse because a payment has a session id from
// creation but only gains a payment intent id later.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "stripe_session_id", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("idx_stripe_session"),
		},
		{
			Keys:    bson.D{{Key: "stripe_payment_id", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("idx_stripe_payment"),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a pending payment for a newly created checkout session.
func (s *Store) Create(ctx context.Context, p models.Payment) (models.Payment, error) {
	if p.StripeSessionID == "" {
		return models.Payment{}, errNoSessionID
	}
	p.ID = primitive.NewObjectID()
	p.Status = models.PaymentPending
	p.PaidAt = nil

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Payment{}, err
	}
	return p, nil
}

// GetByID loads a payment by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	var p models.Payment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetBySessionID loads a payment by its Stripe checkout session id.
func (s *Store) GetBySessionID(ctx context.Context, sessionID string) (*models.Payment, error) {
	var p models.Payment
	if err := s.c.FindOne(ctx, bson.M{"stripe_session_id": sessionID}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByPaymentIntentID loads a payment by its Stripe payment intent id.
func (s *Store) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Payment, error) {
	var p models.Payment
	if err := s.c.FindOne(ctx, bson.M{"stripe_payment_id": paymentIntentID}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser returns a user's payments, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Payment
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkCompletedBySession reconciles a checkout.session.completed event.
// All rows carrying the session id are updated with one UpdateMany $set,
// so a replayed webhook rewrites the same values instead of erroring.
// Returns the matched count; 0 means the event did not correspond to any
// payment we created.
func (s *Store) MarkCompletedBySession(ctx context.Context, sessionID, paymentIntentID string, paidAt time.Time) (int64, error) {
	set := bson.M{
		"status":     models.PaymentCompleted,
		"paid_at":    paidAt,
		"updated_at": time.Now(),
	}
	if paymentIntentID != "" {
		set["stripe_payment_id"] = paymentIntentID
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{"stripe_session_id": sessionID},
		bson.M{"$set": set},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// MarkFailedByPaymentIntent reconciles a payment_intent.payment_failed
// event. Correlation is by payment intent id; like the completion path the
// update is an idempotent $set.
func (s *Store) MarkFailedByPaymentIntent(ctx context.Context, paymentIntentID string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"stripe_payment_id": paymentIntentID},
		bson.M{"$set": bson.M{
			"status":     models.PaymentFailed,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// AttachPaymentIntent records the payment intent id for a session before
// the terminal webhook arrives. Failure events correlate by intent id, so
// the link has to exist by then.
func (s *Store) AttachPaymentIntent(ctx context.Context, sessionID, paymentIntentID string) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"stripe_session_id": sessionID},
		bson.M{"$set": bson.M{
			"stripe_payment_id": paymentIntentID,
			"updated_at":        time.Now(),
		}},
	)
	return err
}

// CountByStatus returns the number of payments in the given status.
func (s *Store) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": status})
}

// TotalCompletedAmount sums amount_total over completed payments.
func (s *Store) TotalCompletedAmount(ctx context.Context) (int64, error) {
	cursor, err := s.c.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"status": models.PaymentCompleted}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount_total"},
		}}},
	})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
