// internal/app/features/systemusers/handler.go
package systemusers

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/launchdesk/internal/app/store/users"
	"github.com/dalemusser/launchdesk/internal/app/system/apperr"
	"github.com/dalemusser/launchdesk/internal/app/system/auditlog"
	"github.com/dalemusser/launchdesk/internal/app/system/authz"
	"github.com/dalemusser/launchdesk/internal/app/system/gates"
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
	Users    *userstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		AuditLog: audit,
		Log:      logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/users                                                             |
| Lists accounts for the admin console; narrows by ?role=, ?status=, and     |
| ?user_type=.                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r); !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Users.List(ctx, userstore.ListFilter{
		Role:     query.Get(r, "role"),
		Status:   query.Get(r, "status"),
		UserType: query.Get(r, "user_type"),
	})
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not list users", err))
		return
	}
	if list == nil {
		list = []models.User{}
	}
	httpjson.OK(w, map[string]any{"users": list})
}

/*─────────────────────────────────────────────────────────────────────────────*
| PUT /admin/users/{userID}/role                                               |
| Superadmin-only. Role changes go through here or provision-admin, never     |
| through self-service paths, and every change lands in the audit trail.       |
*─────────────────────────────────────────────────────────────────────────────*/

type roleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) ServeSetRole(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAdmin(w, r)
	if !res.OK {
		return
	}
	if !authz.IsSuperAdmin(r) {
		httpjson.Error(w, h.Log, apperr.E(apperr.Forbidden, "superadmin access required"))
		return
	}

	target := h.loadUser(w, r)
	if target == nil {
		return
	}

	var in roleRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	switch in.Role {
	case "user", "admin", "superadmin":
	default:
		httpjson.Error(w, h.Log, apperr.Errorf(apperr.Validation, "unknown role %q", in.Role))
		return
	}
	if target.ID == res.UserID {
		// Demoting yourself would lock the last superadmin out mid-session.
		httpjson.Error(w, h.Log, apperr.E(apperr.Validation, "cannot change your own role"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	matched, err := h.Users.SetRole(ctx, target.ID, in.Role)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not update role", err))
		return
	}
	if matched == 0 {
		httpjson.Error(w, h.Log, apperr.E(apperr.NotFound, "user not found"))
		return
	}

	h.AuditLog.UserRoleChanged(ctx, r, res.UserID, target.ID, res.Role, target.Role, in.Role)

	updated, err := h.Users.GetByID(ctx, target.ID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not reload user", err))
		return
	}
	httpjson.OK(w, updated)
}

/*─────────────────────────────────────────────────────────────────────────────*
| PUT /admin/users/{userID}/status                                             |
| Disables or re-enables an account. A disabled user's next request loses     |
| its session context, so this takes effect immediately.                       |
*─────────────────────────────────────────────────────────────────────────────*/

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) ServeSetStatus(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAdmin(w, r)
	if !res.OK {
		return
	}

	target := h.loadUser(w, r)
	if target == nil {
		return
	}

	var in statusRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if in.Status != "active" && in.Status != "disabled" {
		httpjson.Error(w, h.Log, apperr.Errorf(apperr.Validation, "unknown status %q", in.Status))
		return
	}
	if target.ID == res.UserID {
		httpjson.Error(w, h.Log, apperr.E(apperr.Validation, "cannot change your own status"))
		return
	}
	// Admins cannot disable superadmins; only another superadmin can.
	if target.Role == "superadmin" && !authz.IsSuperAdmin(r) {
		httpjson.Error(w, h.Log, apperr.E(apperr.Forbidden, "superadmin access required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	matched, err := h.Users.SetStatus(ctx, target.ID, in.Status)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not update status", err))
		return
	}
	if matched == 0 {
		httpjson.Error(w, h.Log, apperr.E(apperr.NotFound, "user not found"))
		return
	}

	if in.Status == "disabled" {
		h.AuditLog.UserDisabled(ctx, r, res.UserID, target.ID, res.Role)
	} else {
		h.AuditLog.UserEnabled(ctx, r, res.UserID, target.ID, res.Role)
	}

	updated, err := h.Users.GetByID(ctx, target.ID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not reload user", err))
		return
	}
	httpjson.OK(w, updated)
}

// loadUser resolves {userID} and loads the account, writing the 404
// response itself when either step fails.
func (h *Handler) loadUser(w http.ResponseWriter, r *http.Request) *models.User {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.E(apperr.NotFound, "user not found"))
		return nil
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, apperr.E(apperr.NotFound, "user not found"))
			return nil
		}
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not load user", err))
		return nil
	}
	return u
}
