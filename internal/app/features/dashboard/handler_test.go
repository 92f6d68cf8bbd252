package dashboard_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/launchdesk/internal/app/features/dashboard"
	"github.com/dalemusser/launchdesk/internal/app/store/audit"
	metricsstore "github.com/dalemusser/launchdesk/internal/app/store/metrics"
	projectstore "github.com/dalemusser/launchdesk/internal/app/store/projects"
	"github.com/dalemusser/launchdesk/internal/domain/models"
	"github.com/dalemusser/launchdesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*dashboard.Handler, *projectstore.Store, *audit.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	prs := projectstore.New(db)
	as := audit.New(db)
	return dashboard.NewHandler(db, prs, as, zap.NewNop()), prs, as
}

func TestServeDashboard_RequiresAdmin(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	// Anonymous.
	req := httptest.NewRequest("GET", "/admin/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeDashboard(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	// Signed-in non-admin.
	req = testutil.NewAuthenticatedRequest("GET", "/admin/dashboard", testutil.StudentUser())
	rec = httptest.NewRecorder()
	handler.ServeDashboard(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("user status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestServeDashboard(t *testing.T) {
	handler, prs, as := newTestHandler(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	ownerID := primitive.NewObjectID()
	for _, title := range []string{"One", "Two"} {
		if _, err := prs.Create(ctx, models.Project{UserID: ownerID, Title: title}); err != nil {
			t.Fatalf("seed project: %v", err)
		}
	}
	if err := seedEvent(ctx, as); err != nil {
		t.Fatalf("seed audit event: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("GET", "/admin/dashboard", testutil.AdminUser())
	rec := httptest.NewRecorder()
	handler.ServeDashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Counts         metricsstore.Counts `json:"counts"`
		RecentProjects []models.Project    `json:"recent_projects"`
		RecentEvents   []audit.Event       `json:"recent_events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.Counts.Projects != 2 {
		t.Errorf("counts.projects = %d, want 2", resp.Counts.Projects)
	}
	if resp.Counts.ProjectsSubmitted != 2 {
		t.Errorf("counts.projects_submitted = %d, want 2", resp.Counts.ProjectsSubmitted)
	}
	if len(resp.RecentProjects) != 2 {
		t.Errorf("got %d recent projects, want 2", len(resp.RecentProjects))
	}
	if len(resp.RecentEvents) != 1 {
		t.Errorf("got %d recent events, want 1", len(resp.RecentEvents))
	}
}

func seedEvent(ctx context.Context, as *audit.Store) error {
	uid := primitive.NewObjectID()
	return as.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSignInSuccess,
		UserID:    &uid,
		IP:        "127.0.0.1",
		Success:   true,
	})
}

func TestRoutes(t *testing.T) {
	handler, _, _ := newTestHandler(t)
	if r := dashboard.Routes(handler); r == nil {
		t.Fatal("expected non-nil router")
	}
}
