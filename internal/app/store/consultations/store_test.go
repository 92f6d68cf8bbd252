package consultations_test

import (
	"testing"

	"github.com/dalemusser/launchdesk/internal/app/store/consultations"
	"github.com/dalemusser/launchdesk/internal/domain/models"
	"github.com/dalemusser/launchdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := consultations.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := store.Create(ctx, models.Consultation{
		UserID:       primitive.NewObjectID(),
		Type:         models.ConsultationInitial,
		Requirements: "need help scoping an MVP",
		Messages: []models.Message{
			{Sender: "user", Body: "Where do I start?"},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.ID.IsZero() {
		t.Error("expected generated ID")
	}
	if len(c.Messages) != 1 || c.Messages[0].SentAt.IsZero() {
		t.Error("expected seed message with sent_at stamped")
	}
}

func TestStore_Create_RejectsUnknownType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := consultations.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.Consultation{
		UserID: primitive.NewObjectID(),
		Type:   "mentoring",
	})
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestStore_AppendMessage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := consultations.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := store.Create(ctx, models.Consultation{
		UserID: primitive.NewObjectID(),
		Type:   models.ConsultationFollowup,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for _, msg := range []models.Message{
		{Sender: "user", Body: "Any update?"},
		{Sender: "admin", Body: "Reviewing this week."},
	} {
		matched, err := store.AppendMessage(ctx, c.ID, msg)
		if err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
		if matched != 1 {
			t.Fatalf("expected 1 match, got %d", matched)
		}
	}

	got, err := store.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.Messages))
	}
	if got.Messages[0].Sender != "user" || got.Messages[1].Sender != "admin" {
		t.Error("messages out of order")
	}
}

func TestStore_AppendMessage_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := consultations.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := primitive.NewObjectID()
	if _, err := store.AppendMessage(ctx, id, models.Message{Sender: "bot", Body: "hi"}); err == nil {
		t.Error("expected error for unknown sender")
	}
	if _, err := store.AppendMessage(ctx, id, models.Message{Sender: "user"}); err == nil {
		t.Error("expected error for empty body")
	}
}

func TestStore_AppendMessage_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := consultations.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	matched, err := store.AppendMessage(ctx, primitive.NewObjectID(), models.Message{Sender: "user", Body: "hello"})
	if err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	if matched != 0 {
		t.Errorf("expected 0 matches, got %d", matched)
	}
}

func TestStore_ListByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := consultations.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	for _, typ := range []string{models.ConsultationInitial, models.ConsultationReview} {
		if _, err := store.Create(ctx, models.Consultation{UserID: owner, Type: typ}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if _, err := store.Create(ctx, models.Consultation{UserID: primitive.NewObjectID(), Type: models.ConsultationInitial}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.ListByUser(ctx, owner)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 consultations, got %d", len(got))
	}
}

func TestStore_List_FilterByProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := consultations.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	projectID := primitive.NewObjectID()
	owner := primitive.NewObjectID()

	if _, err := store.Create(ctx, models.Consultation{
		UserID:    owner,
		ProjectID: &projectID,
		Type:      models.ConsultationReview,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Consultation{UserID: owner, Type: models.ConsultationInitial}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.List(ctx, consultations.ListFilter{ProjectID: &projectID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 consultation, got %d", len(got))
	}
	if got[0].ProjectID == nil || *got[0].ProjectID != projectID {
		t.Error("wrong consultation returned")
	}
}

func TestStore_SetRecommendations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := consultations.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := store.Create(ctx, models.Consultation{
		UserID: primitive.NewObjectID(),
		Type:   models.ConsultationReview,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	matched, err := store.SetRecommendations(ctx, c.ID, "ship a landing page first")
	if err != nil {
		t.Fatalf("SetRecommendations failed: %v", err)
	}
	if matched != 1 {
		t.Fatalf("expected 1 match, got %d", matched)
	}

	got, err := store.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Recommendations != "ship a landing page first" {
		t.Errorf("recommendations = %q", got.Recommendations)
	}
}
