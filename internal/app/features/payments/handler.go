// internal/app/features/payments/handler.go
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	paymentstore "github.com/dalemusser/launchdesk/internal/app/store/payments"
	projectstore "github.com/dalemusser/launchdesk/internal/app/store/projects"
	"github.com/dalemusser/launchdesk/internal/app/system/apperr"
	"github.com/dalemusser/launchdesk/internal/app/system/auditlog"
	"github.com/dalemusser/launchdesk/internal/app/system/gates"
	"github.com/dalemusser/launchdesk/internal/app/system/httpjson"
	"github.com/dalemusser/launchdesk/internal/app/system/timeouts"
	"github.com/dalemusser/launchdesk/internal/domain/models"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxWebhookBody caps how much of a webhook payload we will read, per
// Stripe's own recommendation.
const maxWebhookBody = int64(65536)

// CheckoutCreator creates a Stripe Checkout session. The one-method
// interface exists so tests can stand in for the Stripe API.
type CheckoutCreator interface {
	CreateSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// stripeCheckout is the production CheckoutCreator backed by the Stripe SDK.
type stripeCheckout struct{}

func (stripeCheckout) CreateSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

type Handler struct {
	Payments *paymentstore.Store
	Projects *projectstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger

	Checkout      CheckoutCreator
	WebhookSecret string

	// Amount is the development fee in the smallest currency unit.
	Amount    int64
	Currency  string
	ClientURL string
}

func NewHandler(
	payments *paymentstore.Store,
	projects *projectstore.Store,
	audit *auditlog.Logger,
	stripeSecretKey, webhookSecret string,
	amount int64, currency, clientURL string,
	logger *zap.Logger,
) *Handler {
	stripe.Key = stripeSecretKey
	return &Handler{
		Payments:      payments,
		Projects:      projects,
		AuditLog:      audit,
		Log:           logger,
		Checkout:      stripeCheckout{},
		WebhookSecret: webhookSecret,
		Amount:        amount,
		Currency:      currency,
		ClientURL:     clientURL,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /payments/checkout                                                      |
| Creates a Stripe Checkout session for an approved project the caller owns  |
| and records a pending payment carrying the session id. The webhook, not    |
| this handler, decides when the payment is complete.                         |
*─────────────────────────────────────────────────────────────────────────────*/

type checkoutRequest struct {
	ProjectID string `json:"project_id"`
}

type checkoutResponse struct {
	PaymentID   string `json:"payment_id"`
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

func (h *Handler) ServeCheckout(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	var in checkoutRequest
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	pid, err := primitive.ObjectIDFromHex(in.ProjectID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.E(apperr.Validation, "invalid project_id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	p, err := h.Projects.GetByID(ctx, pid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, apperr.E(apperr.NotFound, "project not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not load project", err))
		return
	}
	if p.UserID != res.UserID {
		// Same shape as an unknown id, so strangers learn nothing.
		httpjson.Error(w, h.Log, apperr.E(apperr.NotFound, "project not found"))
		return
	}
	if p.Status != models.ProjectApproved {
		httpjson.Error(w, h.Log, apperr.Errorf(apperr.Validation, "project in status %q cannot be paid for", p.Status))
		return
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(h.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Development: " + p.Title),
				},
				UnitAmount: stripe.Int64(h.Amount),
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL:        stripe.String(h.ClientURL + "/payments/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(h.ClientURL + "/payments/cancel"),
		ClientReferenceID: stripe.String(res.UserID.Hex()),
	}
	params.AddMetadata("projectId", p.ID.Hex())
	params.AddMetadata("userId", res.UserID.Hex())
	params.SetIdempotencyKey(uuid.NewString())

	sess, err := h.Checkout.CreateSession(params)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not create checkout session", err))
		return
	}

	payment, err := h.Payments.Create(ctx, models.Payment{
		UserID:          res.UserID,
		ProjectID:       &p.ID,
		StripeSessionID: sess.ID,
		AmountTotal:     h.Amount,
		Currency:        h.Currency,
	})
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not record payment", err))
		return
	}

	h.AuditLog.CheckoutCreated(ctx, r, res.UserID, sess.ID, h.Amount, h.Currency)

	httpjson.Created(w, checkoutResponse{
		PaymentID:   payment.ID.Hex(),
		CheckoutURL: sess.URL,
		SessionID:   sess.ID,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /payments/webhook                                                       |
| Stripe calls this. Authentication is the payload signature; the session     |
| layer never runs here. Verified events are always acknowledged with 200,    |
| even when processing fails, so Stripe does not retry forever.               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBody)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Validation, "could not read payload", err))
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.WebhookSecret)
	if err != nil {
		h.AuditLog.WebhookSignatureBad(r.Context(), r, err.Error())
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.SignatureInvalid, "webhook signature verification failed", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	switch event.Type {
	case "checkout.session.completed":
		h.handleCheckoutCompleted(ctx, r, event)
	case "payment_intent.payment_failed":
		h.handlePaymentFailed(ctx, r, event)
	default:
		h.Log.Info("unhandled webhook event", zap.String("type", string(event.Type)))
		h.AuditLog.WebhookUnmatchedEvent(ctx, r, string(event.Type), event.ID)
	}

	httpjson.OK(w, map[string]bool{"received": true})
}

func (h *Handler) handleCheckoutCompleted(ctx context.Context, r *http.Request, event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		h.Log.Error("webhook: decode checkout session", zap.Error(err))
		return
	}

	paymentIntentID := ""
	if sess.PaymentIntent != nil {
		paymentIntentID = sess.PaymentIntent.ID
	}

	matched, err := h.Payments.MarkCompletedBySession(ctx, sess.ID, paymentIntentID, time.Now())
	if err != nil {
		h.Log.Error("webhook: mark payment completed",
			zap.String("session_id", sess.ID), zap.Error(err))
		return
	}
	if matched == 0 {
		// Not an error: a replay after cleanup or a session created
		// outside this system.
		h.Log.Warn("webhook: no payment for session", zap.String("session_id", sess.ID))
		h.AuditLog.WebhookUnmatchedEvent(ctx, r, string(event.Type), sess.ID)
		return
	}

	if p, err := h.Payments.GetBySessionID(ctx, sess.ID); err == nil {
		h.AuditLog.PaymentCompleted(ctx, r, p.UserID, sess.ID)
	}

	// Independent side-effect: move the linked project into development.
	// A failure here leaves the payment completed and is only logged; the
	// webhook still acknowledges the event.
	if projectID := sess.Metadata["projectId"]; projectID != "" {
		pid, err := primitive.ObjectIDFromHex(projectID)
		if err != nil {
			h.Log.Error("webhook: bad projectId metadata", zap.String("project_id", projectID))
			return
		}
		if _, err := h.Projects.MarkInDevelopment(ctx, pid); err != nil {
			h.Log.Error("webhook: mark project in development",
				zap.String("project_id", projectID), zap.Error(err))
		}
	}
}

func (h *Handler) handlePaymentFailed(ctx context.Context, r *http.Request, event stripe.Event) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		h.Log.Error("webhook: decode payment intent", zap.Error(err))
		return
	}

	matched, err := h.Payments.MarkFailedByPaymentIntent(ctx, pi.ID)
	if err != nil {
		h.Log.Error("webhook: mark payment failed",
			zap.String("payment_intent_id", pi.ID), zap.Error(err))
		return
	}
	if matched == 0 {
		h.Log.Warn("webhook: no payment for payment intent", zap.String("payment_intent_id", pi.ID))
		h.AuditLog.WebhookUnmatchedEvent(ctx, r, string(event.Type), pi.ID)
		return
	}

	reason := "payment failed"
	if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
		reason = pi.LastPaymentError.Msg
	}
	userID := primitive.NilObjectID
	if p, err := h.Payments.GetByPaymentIntentID(ctx, pi.ID); err == nil {
		userID = p.UserID
	}
	h.AuditLog.PaymentFailed(ctx, r, userID, pi.ID, reason)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /payments                                                                |
| Lists the caller's own payments, newest first.                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Payments.ListByUser(ctx, res.UserID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Wrap(apperr.Internal, "could not list payments", err))
		return
	}
	if list == nil {
		list = []models.Payment{}
	}
	httpjson.OK(w, map[string]any{"payments": list})
}
