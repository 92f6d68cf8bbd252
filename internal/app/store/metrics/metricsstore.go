package metricsstore

import (
	"context"

	"github.com/dalemusser/launchdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals used by the admin dashboard.
type Counts struct {
	Users             int64
	Students          int64
	Entrepreneurs     int64
	Projects          int64
	ProjectsSubmitted int64
	ProjectsActive    int64
	Consultations     int64
	PaymentsPending   int64
	PaymentsCompleted int64
}

// FetchDashboardCounts returns the high-level counts used by the admin
// dashboard. Intentionally tolerant: on error it returns 0 for that counter.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database) Counts {
	var out Counts

	// users
	if n, err := db.Collection("users").CountDocuments(ctx, bson.M{}); err == nil {
		out.Users = n
	}
	if n, err := db.Collection("users").CountDocuments(ctx, bson.M{"user_type": "student"}); err == nil {
		out.Students = n
	}
	if n, err := db.Collection("users").CountDocuments(ctx, bson.M{"user_type": "entrepreneur"}); err == nil {
		out.Entrepreneurs = n
	}

	// projects
	if n, err := db.Collection("projects").CountDocuments(ctx, bson.M{}); err == nil {
		out.Projects = n
	}
	if n, err := db.Collection("projects").CountDocuments(ctx, bson.M{"status": models.ProjectSubmitted}); err == nil {
		out.ProjectsSubmitted = n
	}
	if n, err := db.Collection("projects").CountDocuments(ctx, bson.M{"status": models.ProjectInDevelopment}); err == nil {
		out.ProjectsActive = n
	}

	// consultations
	if n, err := db.Collection("consultations").CountDocuments(ctx, bson.M{}); err == nil {
		out.Consultations = n
	}

	// payments
	if n, err := db.Collection("payments").CountDocuments(ctx, bson.M{"status": models.PaymentPending}); err == nil {
		out.PaymentsPending = n
	}
	if n, err := db.Collection("payments").CountDocuments(ctx, bson.M{"status": models.PaymentCompleted}); err == nil {
		out.PaymentsCompleted = n
	}

	return out
}
