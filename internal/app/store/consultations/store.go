// internal/app/store/consultations/store.go
package consultations

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

var (
	errBadType   = errors.New(`consultation type must be "initial"|"followup"|"review"`)
	errBadSender = errors.New(`message sender must be "user"|"admin"`)
	errEmptyBody = errors.New("message body is required")
)

// Store manages consultation threads.
type Store struct {
	c *mongo.Collection
}

// New creates a new consultation Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("consultations")}
}

// EnsureIndexes creates the owner listing index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a new consultation thread.
func (s *Store) Create(ctx context.Context, c models.Consultation) (models.Consultation, error) {
	if !models.ValidConsultationType(c.Type) {
		return models.Consultation{}, errBadType
	}
	c.ID = primitive.NewObjectID()

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	for i := range c.Messages {
		if c.Messages[i].SentAt.IsZero() {
			c.Messages[i].SentAt = now
		}
	}

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Consultation{}, err
	}
	return c, nil
}

// GetByID loads a consultation by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Consultation, error) {
	var c models.Consultation
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListFilter narrows List results.
type ListFilter struct {
	UserID    *primitive.ObjectID
	ProjectID *primitive.ObjectID
	Type      string
	Limit     int64
	Offset    int64
}

// List returns consultations matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]models.Consultation, error) {
	query := bson.M{}
	if filter.UserID != nil {
		query["user_id"] = filter.UserID
	}
	if filter.ProjectID != nil {
		query["project_id"] = filter.ProjectID
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cursor, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Consultation
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns all consultations owned by the given user, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Consultation, error) {
	return s.List(ctx, ListFilter{UserID: &userID})
}

// AppendMessage pushes a message onto a thread. The array is append-only;
// there is no corresponding edit or remove operation. Returns the matched
// count so callers can map 0 to not-found.
func (s *Store) AppendMessage(ctx context.Context, id primitive.ObjectID, msg models.Message) (int64, error) {
	if msg.Sender != "user" && msg.Sender != "admin" {
		return 0, errBadSender
	}
	if msg.Body == "" {
		return 0, errEmptyBody
	}
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}

	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// SetRecommendations records the admin team's recommendations on a thread.
func (s *Store) SetRecommendations(ctx context.Context, id primitive.ObjectID, recommendations string) (int64, error) {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"recommendations": recommendations,
		"updated_at":      time.Now(),
	}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Count returns the total number of consultations.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
