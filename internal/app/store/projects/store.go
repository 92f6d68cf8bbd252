// internal/app/store/projects/store.go
package projects

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/launchdesk/internal/app/system/normalize"
	"github.com/dalemusser/launchdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	errEmptyTitle = errors.New("project title is required")
	errBadStatus  = errors.New("unknown project status")
)

// Store manages project records.
type Store struct {
	c *mongo.Collection
}

// New creates a new project Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

// EnsureIndexes creates the indexes used by owner and admin listings.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
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

// Create inserts a new project in submitted status.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	p.ID = primitive.NewObjectID()
	p.Title = normalize.Name(p.Title)
	if p.Title == "" {
		return models.Project{}, errEmptyTitle
	}
	p.TitleCI = text.Fold(p.Title)
	p.Status = models.ProjectSubmitted

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// GetByID loads a project by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListFilter narrows List results.
type ListFilter struct {
	UserID *primitive.ObjectID
	Status string
	Limit  int64
	Offset int64
}

// List returns projects matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]models.Project, error) {
	query := bson.M{}
	if filter.UserID != nil {
		query["user_id"] = filter.UserID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
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

	var out []models.Project
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns all projects owned by the given user, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	return s.List(ctx, ListFilter{UserID: &userID})
}

// AdminUpdate holds the fields an admin may change on a project.
type AdminUpdate struct {
	Status     string
	AdminNotes *string // nil leaves notes untouched
}

// UpdateByAdmin applies an admin review update. Returns the matched count
// so callers can map 0 to not-found.
func (s *Store) UpdateByAdmin(ctx context.Context, id primitive.ObjectID, upd AdminUpdate) (int64, error) {
	if !models.ValidProjectStatus(upd.Status) {
		return 0, errBadStatus
	}
	set := bson.M{
		"status":     upd.Status,
		"updated_at": time.Now(),
	}
	if upd.AdminNotes != nil {
		set["admin_notes"] = *upd.AdminNotes
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// MarkInDevelopment moves a project to in_development. Called from the
// payment webhook path once a linked payment completes; already-moved
// projects match zero documents, which keeps the webhook idempotent.
func (s *Store) MarkInDevelopment(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":    id,
			"status": bson.M{"$ne": models.ProjectInDevelopment},
		},
		bson.M{"$set": bson.M{
			"status":     models.ProjectInDevelopment,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountByStatus returns the number of projects in the given status.
func (s *Store) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": status})
}

// Count returns the total number of projects.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
