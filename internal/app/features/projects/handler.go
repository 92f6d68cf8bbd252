// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	projectstore "github.com/dalemusser/launchdesk/internal/app/store/projects"
	"github.com/dalemusser/launchdesk/internal/app/system/apperr"
	"github.com/dalemusser/launchdesk/internal/app/system/auditlog"
	"github.com/dalemusser/launchdesk/internal/app/system/authz"
	"github.com/dalemusser/launchdesk/internal/app/system/gates"
	"github.com/dalemusser/launchdesk/internal/app/system/htmlsanitize"
	"github.com/dalemusser/launchdesk/internal/app/system/httpjson"
	"github.com/dalemusser/launchdesk/internal/app/system/timeouts"
	"github.com/dalemusser/launchdesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Projects *projectstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(projects *projectstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Projects: projects,
		AuditLog: audit,
		Log:      logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /projects                                                               |
| Submits a new project for the signed-in user. New projects always start in  |
| submitted status regardless of what the payload claims.                      |
*─────────────────────────────────────────────────────────────────────────────*/

type createRequest struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
}

func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	var in createRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		httpjson.Error(w, h.Log, apperr.E(apperr.Validation, "project title is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Projects.Create(ctx, models.Project{
		UserID:   res.UserID,
		Title:    in.Title,
		Summary:  htmlsanitize.Sanitize(in.Summary),
		Category: htmlsanitize.Sanitize(in.Category),
	})
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not create project", err))
		return
	}

	httpjson.Created(w, created)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /projects                                                                |
| Lists the caller's own projects. Admins see every project and may narrow    |
| by ?status= and ?user_id=.                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	filter := projectstore.ListFilter{
		Limit:  parseInt64(query.Get(r, "limit")),
		Offset: parseInt64(query.Get(r, "offset")),
	}

	if authz.IsAdmin(r) {
		filter.Status = query.Get(r, "status")
		if raw := query.Get(r, "user_id"); raw != "" {
			uid, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				httpjson.Error(w, h.Log, apperr.E(apperr.Validation, "invalid user_id"))
				return
			}
			filter.UserID = &uid
		}
	} else {
		// Non-admins only ever see their own projects.
		filter.UserID = &res.UserID
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Projects.List(ctx, filter)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not list projects", err))
		return
	}
	if list == nil {
		list = []models.Project{}
	}
	httpjson.OK(w, map[string]any{"projects": list})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /projects/{projectID}                                                    |
| Returns one project to its owner or to an admin. Everyone else gets a 404   |
| so existence cannot be probed.                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.E(apperr.NotFound, "project not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, apperr.E(apperr.NotFound, "project not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not load project", err))
		return
	}

	if res := gates.RequireAdminOrOwner(w, r, p.UserID); !res.OK {
		return
	}

	httpjson.OK(w, p)
}

/*─────────────────────────────────────────────────────────────────────────────*
| PUT /projects/{projectID}                                                    |
| Admin review update: status transition and/or admin notes. Every status     |
| change lands in the audit trail with the old and new values.                 |
*─────────────────────────────────────────────────────────────────────────────*/

type adminUpdateRequest struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"admin_notes"`
}

func (h *Handler) ServeAdminUpdate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAdmin(w, r)
	if !res.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.E(apperr.NotFound, "project not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	before, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, apperr.E(apperr.NotFound, "project not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not load project", err))
		return
	}

	var in adminUpdateRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if in.Status == "" {
		in.Status = before.Status
	}
	if !models.ValidProjectStatus(in.Status) {
		httpjson.Error(w, h.Log, apperr.Errorf(apperr.Validation, "unknown project status %q", in.Status))
		return
	}

	upd := projectstore.AdminUpdate{Status: in.Status}
	if in.AdminNotes != nil {
		clean := htmlsanitize.Sanitize(*in.AdminNotes)
		upd.AdminNotes = &clean
	}

	matched, err := h.Projects.UpdateByAdmin(ctx, id, upd)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not update project", err))
		return
	}
	if matched == 0 {
		httpjson.Error(w, h.Log, apperr.E(apperr.NotFound, "project not found"))
		return
	}

	if in.Status != before.Status {
		h.AuditLog.ProjectStatusChanged(ctx, r, res.UserID, before.UserID, id, res.Role, before.Status, in.Status)
	} else if in.AdminNotes != nil {
		h.AuditLog.ProjectNotesUpdated(ctx, r, res.UserID, before.UserID, id, res.Role)
	}

	after, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not reload project", err))
		return
	}
	httpjson.OK(w, after)
}

func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
