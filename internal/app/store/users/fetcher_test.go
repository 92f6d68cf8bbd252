package userstore_test

import (
	"testing"

	userstore "github.com/dalemusser/launchdesk/internal/app/store/users"
	"github.com/dalemusser/launchdesk/internal/domain/models"
	"github.com/dalemusser/launchdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{
		FullName: "Fetch Me",
		Email:    "fetch@example.com",
		Role:     "admin",
		UserType: "entrepreneur",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	su := fetcher.FetchUser(ctx, u.ID.Hex())
	if su == nil {
		t.Fatal("expected session user")
	}
	if su.Role != "admin" {
		t.Errorf("role = %q, want admin", su.Role)
	}
	if su.Email != "fetch@example.com" {
		t.Errorf("email = %q", su.Email)
	}
}

func TestFetcher_FetchUser_DisabledReturnsNil(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{
		FullName: "Disabled",
		Email:    "disabled-fetch@example.com",
		Role:     "admin",
		Status:   "disabled",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if su := fetcher.FetchUser(ctx, u.ID.Hex()); su != nil {
		t.Error("disabled user must fetch as nil")
	}
}

func TestFetcher_FetchUser_MissingAndMalformed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if su := fetcher.FetchUser(ctx, primitive.NewObjectID().Hex()); su != nil {
		t.Error("unknown id must fetch as nil")
	}
	if su := fetcher.FetchUser(ctx, "not-a-hex-id"); su != nil {
		t.Error("malformed id must fetch as nil")
	}
}
