// internal/app/features/consultations/handler.go
package consultations

import (
	"context"
	"errors"
	"net/http"
	"strings"

	consultstore "github.com/dalemusser/launchdesk/internal/app/store/consultations"
	projectstore "github.com/dalemusser/launchdesk/internal/app/store/projects"
	"github.com/dalemusser/launchdesk/internal/app/system/apperr"
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
	Consultations *consultstore.Store
	Projects      *projectstore.Store
	Log           *zap.Logger
}

func NewHandler(consultations *consultstore.Store, projects *projectstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Consultations: consultations,
		Projects:      projects,
		Log:           logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /consultations                                                          |
| Opens a consultation thread for the signed-in user, optionally linked to    |
| one of their projects, with the opening message as the first entry.          |
*─────────────────────────────────────────────────────────────────────────────*/

type createRequest struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	Requirements string `json:"requirements"`
	Message      string `json:"message"`
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
	if !models.ValidConsultationType(in.Type) {
		httpjson.Error(w, h.Log, apperr.Errorf(apperr.Validation, "unknown consultation type %q", in.Type))
		return
	}
	if strings.TrimSpace(in.Message) == "" {
		httpjson.Error(w, h.Log, apperr.E(apperr.Validation, "an opening message is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c := models.Consultation{
		UserID:       res.UserID,
		Type:         in.Type,
		Requirements: htmlsanitize.Sanitize(in.Requirements),
		Messages: []models.Message{{
			Sender: "user",
			Body:   htmlsanitize.Sanitize(in.Message),
		}},
	}

	if in.ProjectID != "" {
		pid, err := primitive.ObjectIDFromHex(in.ProjectID)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.E(apperr.Validation, "invalid project_id"))
			return
		}
		p, err := h.Projects.GetByID(ctx, pid)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				httpjson.Error(w, h.Log, apperr.E(apperr.NotFound, "project not found"))
				return
			}
			httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not load project", err))
			return
		}
		// The linked project must belong to the caller. Others get the
		// same 404 shape an unknown id would.
		if p.UserID != res.UserID {
			httpjson.Error(w, h.Log, apperr.E(apperr.NotFound, "project not found"))
			return
		}
		c.ProjectID = &pid
	}

	created, err := h.Consultations.Create(ctx, c)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not create consultation", err))
		return
	}
	httpjson.Created(w, created)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /consultations                                                           |
| Lists the caller's threads. Admins see every thread and may narrow by       |
| ?type=, ?user_id=, and ?project_id=.                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	filter := consultstore.ListFilter{Type: query.Get(r, "type")}

	if authz.IsAdmin(r) {
		if raw := query.Get(r, "user_id"); raw != "" {
			uid, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				httpjson.Error(w, h.Log, apperr.E(apperr.Validation, "invalid user_id"))
				return
			}
			filter.UserID = &uid
		}
		if raw := query.Get(r, "project_id"); raw != "" {
			pid, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				httpjson.Error(w, h.Log, apperr.E(apperr.Validation, "invalid project_id"))
				return
			}
			filter.ProjectID = &pid
		}
	} else {
		filter.UserID = &res.UserID
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Consultations.List(ctx, filter)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not list consultations", err))
		return
	}
	if list == nil {
		list = []models.Consultation{}
	}
	httpjson.OK(w, map[string]any{"consultations": list})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /consultations/{consultationID}                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	c := h.loadConsultation(w, r)
	if c == nil {
		return
	}
	if res := gates.RequireAdminOrOwner(w, r, c.UserID); !res.OK {
		return
	}
	httpjson.OK(w, c)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /consultations/{consultationID}/messages                                |
| Appends to the thread. The sender is derived from the caller's role, never  |
| taken from the payload.                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

type messageRequest struct {
	Body string `json:"body"`
}

func (h *Handler) ServeAppendMessage(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	c := h.loadConsultation(w, r)
	if c == nil {
		return
	}
	if res := gates.RequireAdminOrOwner(w, r, c.UserID); !res.OK {
		return
	}

	var in messageRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	body := htmlsanitize.Sanitize(in.Body)
	if strings.TrimSpace(body) == "" {
		httpjson.Error(w, h.Log, apperr.E(apperr.Validation, "message body is required"))
		return
	}

	sender := "user"
	if authz.IsAdmin(r) {
		sender = "admin"
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	matched, err := h.Consultations.AppendMessage(ctx, c.ID, models.Message{
		Sender: sender,
		Body:   body,
	})
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not append message", err))
		return
	}
	if matched == 0 {
		httpjson.Error(w, h.Log, apperr.E(apperr.NotFound, "consultation not found"))
		return
	}

	updated, err := h.Consultations.GetByID(ctx, c.ID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not reload consultation", err))
		return
	}
	httpjson.OK(w, updated)
}

/*─────────────────────────────────────────────────────────────────────────────*
| PUT /consultations/{consultationID}/recommendations                          |
| Admin-only: records the outcome of the consultation.                         |
*─────────────────────────────────────────────────────────────────────────────*/

type recommendationsRequest struct {
	Recommendations string `json:"recommendations"`
}

func (h *Handler) ServeSetRecommendations(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r); !res.OK {
		return
	}

	c := h.loadConsultation(w, r)
	if c == nil {
		return
	}

	var in recommendationsRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	matched, err := h.Consultations.SetRecommendations(ctx, c.ID, htmlsanitize.Sanitize(in.Recommendations))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not save recommendations", err))
		return
	}
	if matched == 0 {
		httpjson.Error(w, h.Log, apperr.E(apperr.NotFound, "consultation not found"))
		return
	}

	updated, err := h.Consultations.GetByID(ctx, c.ID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not reload consultation", err))
		return
	}
	httpjson.OK(w, updated)
}

// loadConsultation resolves {consultationID} and loads the document,
// writing the 404 response itself when either step fails.
func (h *Handler) loadConsultation(w http.ResponseWriter, r *http.Request) *models.Consultation {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "consultationID"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.E(apperr.NotFound, "consultation not found"))
		return nil
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Consultations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, apperr.E(apperr.NotFound, "consultation not found"))
			return nil
		}
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not load consultation", err))
		return nil
	}
	return c
}
