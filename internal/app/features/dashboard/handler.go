// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/launchdesk/internal/app/store/audit"
	metricsstore "github.com/dalemusser/launchdesk/internal/app/store/metrics"
	projectstore "github.com/dalemusser/launchdesk/internal/app/store/projects"
	"github.com/dalemusser/launchdesk/internal/app/system/apperr"
	"github.com/dalemusser/launchdesk/internal/app/system/gates"
	"github.com/dalemusser/launchdesk/internal/app/system/httpjson"
	"github.com/dalemusser/launchdesk/internal/app/system/timeouts"
	"github.com/dalemusser/launchdesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB       *mongo.Database
	Projects *projectstore.Store
	Audit    *audit.Store
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, projects *projectstore.Store, auditStore *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Projects: projects,
		Audit:    auditStore,
		Log:      logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/dashboard                                                         |
| Admin overview: user/project/consultation/payment counts, the newest        |
| submitted projects, and the most recent audit events.                        |
*─────────────────────────────────────────────────────────────────────────────*/

type dashboardResponse struct {
	Counts         metricsstore.Counts `json:"counts"`
	RecentProjects []models.Project    `json:"recent_projects"`
	RecentEvents   []audit.Event       `json:"recent_events"`
}

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r); !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	counts := metricsstore.FetchDashboardCounts(ctx, h.DB)

	recent, err := h.Projects.List(ctx, projectstore.ListFilter{Limit: 10})
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not load recent projects", err))
		return
	}
	if recent == nil {
		recent = []models.Project{}
	}

	events, err := h.Audit.GetRecent(ctx, 20)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not load recent events", err))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}

	httpjson.OK(w, dashboardResponse{
		Counts:         counts,
		RecentProjects: recent,
		RecentEvents:   events,
	})
}
