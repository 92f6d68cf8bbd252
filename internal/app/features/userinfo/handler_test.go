package userinfo_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/launchdesk/internal/app/features/userinfo"
	"github.com/dalemusser/launchdesk/internal/app/system/auth"
)

func TestNewHandler(t *testing.T) {
	if userinfo.NewHandler() == nil {
		t.Fatal("NewHandler() returned nil")
	}
}

func TestServeUserInfo_Unauthenticated(t *testing.T) {
	handler := userinfo.NewHandler()

	req := httptest.NewRequest("GET", "/api/userinfo", nil)
	rec := httptest.NewRecorder()

	handler.ServeUserInfo(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}

	var response map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response JSON: %v", err)
	}

	if isAuth, ok := response["isAuthenticated"].(bool); !ok || isAuth {
		t.Errorf("isAuthenticated: got %v, want false", response["isAuthenticated"])
	}
	if name, ok := response["name"].(string); !ok || name != "" {
		t.Errorf("name: got %q, want empty string", response["name"])
	}
}

func TestServeUserInfo_Authenticated(t *testing.T) {
	handler := userinfo.NewHandler()

	req := httptest.NewRequest("GET", "/api/userinfo", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:       "68b1c2d3e4f5a6b7c8d9e0f1",
		Name:     "Jamie Founder",
		Email:    "jamie@example.edu",
		Role:     "user",
		UserType: "entrepreneur",
	})
	rec := httptest.NewRecorder()

	handler.ServeUserInfo(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response JSON: %v", err)
	}

	if isAuth, ok := response["isAuthenticated"].(bool); !ok || !isAuth {
		t.Errorf("isAuthenticated: got %v, want true", response["isAuthenticated"])
	}
	if response["name"] != "Jamie Founder" {
		t.Errorf("name: got %q, want %q", response["name"], "Jamie Founder")
	}
	if response["email"] != "jamie@example.edu" {
		t.Errorf("email: got %q, want %q", response["email"], "jamie@example.edu")
	}
	if response["role"] != "user" {
		t.Errorf("role: got %q, want %q", response["role"], "user")
	}
	if response["user_type"] != "entrepreneur" {
		t.Errorf("user_type: got %q, want %q", response["user_type"], "entrepreneur")
	}
}
