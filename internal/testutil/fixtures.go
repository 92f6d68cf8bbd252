package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/launchdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data directly,
// bypassing store validation where a test needs a record in a state the
// stores would refuse to create.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given role and returns it.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		AuthMethod: "google",
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("fixture user insert: %v", err)
	}
	return u
}

// CreateProject inserts a project in the given status and returns it.
func (f *Fixtures) CreateProject(ctx context.Context, userID primitive.ObjectID, title, status string) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Project{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		TitleCI:   text.Fold(title),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("fixture project insert: %v", err)
	}
	return p
}

// CreatePayment inserts a payment in the given status and returns it.
func (f *Fixtures) CreatePayment(ctx context.Context, userID primitive.ObjectID, sessionID, status string, amount int64) models.Payment {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Payment{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		StripeSessionID: sessionID,
		Status:          status,
		AmountTotal:     amount,
		Currency:        "usd",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := f.db.Collection("payments").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("fixture payment insert: %v", err)
	}
	return p
}
