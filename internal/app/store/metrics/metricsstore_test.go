package metricsstore_test

import (
	"testing"

	metricsstore "github.com/dalemusser/launchdesk/internal/app/store/metrics"
	"github.com/dalemusser/launchdesk/internal/app/store/payments"
	"github.com/dalemusser/launchdesk/internal/app/store/projects"
	userstore "github.com/dalemusser/launchdesk/internal/app/store/users"
	"github.com/dalemusser/launchdesk/internal/domain/models"
	"github.com/dalemusser/launchdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFetchDashboardCounts_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	counts := metricsstore.FetchDashboardCounts(ctx, db)
	if counts.Users != 0 || counts.Projects != 0 || counts.PaymentsPending != 0 {
		t.Errorf("expected zero counts on empty db, got %+v", counts)
	}
}

func TestFetchDashboardCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	users := userstore.New(db)
	for _, seed := range []models.User{
		{FullName: "S1", Email: "s1@example.com", Role: "user", UserType: "student"},
		{FullName: "S2", Email: "s2@example.com", Role: "user", UserType: "student"},
		{FullName: "E1", Email: "e1@example.com", Role: "user", UserType: "entrepreneur"},
	} {
		if _, err := users.Create(ctx, seed); err != nil {
			t.Fatalf("user Create failed: %v", err)
		}
	}

	projStore := projects.New(db)
	if _, err := projStore.Create(ctx, models.Project{UserID: primitive.NewObjectID(), Title: "P1"}); err != nil {
		t.Fatalf("project Create failed: %v", err)
	}

	payStore := payments.New(db)
	if _, err := payStore.Create(ctx, models.Payment{UserID: primitive.NewObjectID(), StripeSessionID: "cs_m"}); err != nil {
		t.Fatalf("payment Create failed: %v", err)
	}

	counts := metricsstore.FetchDashboardCounts(ctx, db)
	if counts.Users != 3 {
		t.Errorf("Users = %d, want 3", counts.Users)
	}
	if counts.Students != 2 {
		t.Errorf("Students = %d, want 2", counts.Students)
	}
	if counts.Entrepreneurs != 1 {
		t.Errorf("Entrepreneurs = %d, want 1", counts.Entrepreneurs)
	}
	if counts.Projects != 1 || counts.ProjectsSubmitted != 1 {
		t.Errorf("Projects = %d Submitted = %d, want 1/1", counts.Projects, counts.ProjectsSubmitted)
	}
	if counts.PaymentsPending != 1 {
		t.Errorf("PaymentsPending = %d, want 1", counts.PaymentsPending)
	}
}
