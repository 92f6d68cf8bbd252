// internal/app/features/authgoogle/handler_test.go
package authgoogle

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/launchdesk/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/launchdesk/internal/app/store/users"
	"github.com/dalemusser/launchdesk/internal/app/system/auditlog"
	"github.com/dalemusser/launchdesk/internal/app/system/auth"
	"github.com/dalemusser/launchdesk/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, clientID, clientSecret string) *Handler {
	t.Helper()

	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager(
		"test-session-key-for-testing-only", "test-session", "",
		time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	return NewHandler(
		userstore.New(db),
		sessionMgr,
		auditlog.NewNopLogger(),
		oauthstate.New(db),
		clientID, clientSecret,
		"http://localhost:8080",
		logger,
	)
}

func TestNewHandler(t *testing.T) {
	h := newTestHandler(t, "client-id", "client-secret")
	if h == nil {
		t.Fatal("expected non-nil handler")
	}
	if h.RedirectURL != "http://localhost:8080/auth/google/callback" {
		t.Errorf("unexpected redirect URL %q", h.RedirectURL)
	}
}

func TestIsConfigured(t *testing.T) {
	h := newTestHandler(t, "client-id", "client-secret")
	if !h.IsConfigured() {
		t.Error("expected handler with credentials to be configured")
	}

	h2 := newTestHandler(t, "", "")
	if h2.IsConfigured() {
		t.Error("expected handler without credentials to be unconfigured")
	}
}

func TestServeLoginNotConfigured(t *testing.T) {
	h := newTestHandler(t, "", "")

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "google_not_configured") {
		t.Errorf("Location = %q, want google_not_configured", loc)
	}
}

func TestServeLoginRedirectsToGoogle(t *testing.T) {
	h := newTestHandler(t, "client-id", "client-secret")

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, req)

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTemporaryRedirect)
	}
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "accounts.google.com") {
		t.Errorf("Location = %q, want accounts.google.com", loc)
	}
	if !strings.Contains(loc, "state=") {
		t.Errorf("Location = %q, want a state parameter", loc)
	}
}

func TestServeCallbackMissingState(t *testing.T) {
	h := newTestHandler(t, "client-id", "client-secret")

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "invalid_state") {
		t.Errorf("Location = %q, want invalid_state", loc)
	}
}

func TestServeCallbackProviderError(t *testing.T) {
	h := newTestHandler(t, "client-id", "client-secret")

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?error=access_denied", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "google_denied") {
		t.Errorf("Location = %q, want google_denied", loc)
	}
}

func TestServeCallbackUnknownState(t *testing.T) {
	h := newTestHandler(t, "client-id", "client-secret")

	req := httptest.NewRequest(http.MethodGet,
		"/auth/google/callback?state=never-issued&code=abc", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "invalid_state") {
		t.Errorf("Location = %q, want invalid_state", loc)
	}
}

func TestGenerateState(t *testing.T) {
	a, err := generateState()
	if err != nil {
		t.Fatalf("generateState: %v", err)
	}
	b, err := generateState()
	if err != nil {
		t.Fatalf("generateState: %v", err)
	}
	if a == b {
		t.Error("expected distinct states")
	}
	if len(a) < 40 {
		t.Errorf("state %q is suspiciously short", a)
	}
}

func TestRoutes(t *testing.T) {
	h := newTestHandler(t, "client-id", "client-secret")
	if r := Routes(h, nil); r == nil {
		t.Fatal("expected non-nil router")
	}
}
