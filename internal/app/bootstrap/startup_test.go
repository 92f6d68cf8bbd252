package bootstrap

import (
	"testing"
	"time"

	"github.com/dalemusser/launchdesk/internal/domain/models"
	"github.com/dalemusser/launchdesk/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func testAppConfig(email string) AppConfig {
	return AppConfig{
		SuperAdminEmail: email,
		SuperAdminName:  "Boot Admin",
		AuditLogAuth:    "off",
		AuditLogAdmin:   "db",
		AuditLogPayment: "off",
	}
}

func TestStartup_CreatesSuperAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{LaunchDeskMongoDatabase: db}

	err := Startup(ctx, &config.CoreConfig{}, testAppConfig("boot@test.com"), deps, testLogger())
	if err != nil {
		t.Fatalf("Startup failed: %v", err)
	}

	var user models.User
	err = db.Collection("users").FindOne(ctx, bson.M{"email": "boot@test.com"}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}

	if user.Role != "superadmin" {
		t.Errorf("expected role 'superadmin', got %q", user.Role)
	}
	if user.Status != "active" {
		t.Errorf("expected status 'active', got %q", user.Status)
	}
	if user.FullName != "Boot Admin" {
		t.Errorf("expected full name 'Boot Admin', got %q", user.FullName)
	}

	// The provisioning is audit-logged.
	count, err := db.Collection("audit_events").CountDocuments(ctx, bson.M{
		"event_type": "admin_provisioned",
		"user_id":    user.ID,
	})
	if err != nil {
		t.Fatalf("failed to count audit events: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 admin_provisioned event, got %d", count)
	}
}

func TestStartup_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	existing := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   "Existing User",
		FullNameCI: text.Fold("Existing User"),
		Email:      "existing@test.com",
		AuthMethod: "google",
		Role:       "user",
		Status:     "disabled",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := db.Collection("users").InsertOne(ctx, existing); err != nil {
		t.Fatalf("failed to insert existing user: %v", err)
	}

	deps := DBDeps{LaunchDeskMongoDatabase: db}

	err := Startup(ctx, &config.CoreConfig{}, testAppConfig("existing@test.com"), deps, testLogger())
	if err != nil {
		t.Fatalf("Startup failed: %v", err)
	}

	var user models.User
	err = db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}

	if user.Role != "superadmin" {
		t.Errorf("expected role 'superadmin', got %q", user.Role)
	}
	if user.Status != "active" {
		t.Errorf("expected reactivated status 'active', got %q", user.Status)
	}
}

func TestStartup_SkipsWhenUnconfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{LaunchDeskMongoDatabase: db}

	err := Startup(ctx, &config.CoreConfig{}, testAppConfig(""), deps, testLogger())
	if err != nil {
		t.Fatalf("Startup failed: %v", err)
	}

	count, err := db.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no users, got %d", count)
	}
}
