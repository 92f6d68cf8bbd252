package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/launchdesk/internal/app/store/audit"
	"github.com/dalemusser/launchdesk/internal/app/system/auditlog"
	"github.com/dalemusser/launchdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestLogger_NilLogger(t *testing.T) {
	// nil logger should be a no-op (not panic)
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.SignInSuccess(ctx, req, primitive.NewObjectID(), "founder@example.com")
	logger.SignOut(ctx, req, primitive.NewObjectID().Hex())
	logger.PaymentCompleted(ctx, req, primitive.NewObjectID(), "cs_test_123")
}

func TestLogger_Log_ConfigOff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	zapLog := zap.NewNop()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zapLog, auditlog.Config{
		Auth:    "off",
		Admin:   "off",
		Payment: "off",
	})

	logger.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSignInSuccess,
		Success:   true,
	})

	events, err := store.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(events) != 0 {
		t.Error("expected no events when config is 'off'")
	}
}

func TestLogger_Log_ConfigDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	zapLog := zap.NewNop()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	logger := auditlog.New(store, zapLog, auditlog.Config{
		Auth:    "db",
		Admin:   "db",
		Payment: "db",
	})

	logger.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSignInSuccess,
		UserID:    &userID,
		Success:   true,
	})

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
}

func TestLogger_Log_ConfigLogOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	zapLog := zap.NewNop()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zapLog, auditlog.Config{
		Auth:    "log",
		Admin:   "log",
		Payment: "log",
	})

	logger.Log(ctx, audit.Event{
		Category:  audit.CategoryPayment,
		EventType: audit.EventPaymentCompleted,
		Success:   true,
	})

	// "log" mode must not write to MongoDB
	events, err := store.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(events) != 0 {
		t.Error("expected no DB events when config is 'log'")
	}
}

func TestLogger_PaymentEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	zapLog := zap.NewNop()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	req := httptest.NewRequest("POST", "/payments/webhook", nil)
	logger := auditlog.New(store, zapLog, auditlog.Config{
		Auth:    "all",
		Admin:   "all",
		Payment: "all",
	})

	logger.CheckoutCreated(ctx, req, userID, "cs_test_abc", 4999, "usd")
	logger.PaymentCompleted(ctx, req, userID, "cs_test_abc")
	logger.WebhookSignatureBad(ctx, req, "signature mismatch")

	events, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryPayment})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 payment events, got %d", len(events))
	}

	count, err := store.CountByFilter(ctx, audit.QueryFilter{
		Category:  audit.CategoryPayment,
		EventType: audit.EventWebhookSignatureBad,
	})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 bad-signature event, got %d", count)
	}
}

func TestLogger_AdminEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	zapLog := zap.NewNop()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actorID := primitive.NewObjectID()
	targetID := primitive.NewObjectID()
	req := httptest.NewRequest("PUT", "/admin/users/x/role", nil)
	logger := auditlog.New(store, zapLog, auditlog.Config{
		Auth:    "all",
		Admin:   "all",
		Payment: "all",
	})

	logger.UserRoleChanged(ctx, req, actorID, targetID, "superadmin", "user", "admin")

	events, err := store.GetByUser(ctx, targetID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Details["old_role"] != "user" || events[0].Details["new_role"] != "admin" {
		t.Errorf("role change details wrong: %v", events[0].Details)
	}
}
