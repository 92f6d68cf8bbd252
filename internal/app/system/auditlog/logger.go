// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/launchdesk/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for sign-in and sign-out events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin action events (role changes, project status changes).
	// Values: "all", "db", "log", "off"
	Admin string
	// Payment controls logging for checkout and webhook events.
	// Values: "all", "db", "log", "off"
	Payment string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// NewNopLogger returns a nil Logger. Log and every event helper treat a
// nil receiver as a no-op, which keeps handler tests free of audit wiring.
func NewNopLogger() *Logger { return nil }

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	case audit.CategoryPayment:
		setting = l.config.Payment
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// SignInSuccess logs a successful Google sign-in.
func (l *Logger) SignInSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSignInSuccess,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"auth_method": "google",
			"email":       email,
		},
	})
}

// SignInNewUser logs the first sign-in that created a user record.
func (l *Logger) SignInNewUser(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSignInNewUser,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"auth_method": "google",
			"email":       email,
		},
	})
}

// SignInFailedDisabled logs a sign-in attempt for a disabled account.
func (l *Logger) SignInFailedDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventSignInFailedDisabled,
		UserID:        &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "account disabled",
		Details: map[string]string{
			"email": email,
		},
	})
}

// SignInFailedOAuthState logs a callback whose state token did not validate.
func (l *Logger) SignInFailedOAuthState(ctx context.Context, r *http.Request, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventSignInFailedOAuthState,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: reason,
	})
}

// SignInFailedRateLimit logs a sign-in request blocked by the rate limiter.
func (l *Logger) SignInFailedRateLimit(ctx context.Context, r *http.Request) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventSignInFailedRateLimit,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "rate limit exceeded",
	})
}

// SignOut logs a user sign-out.
// Accepts the string ID from SessionUser and converts it to an ObjectID.
func (l *Logger) SignOut(ctx context.Context, r *http.Request, userIDStr string) {
	var userID *primitive.ObjectID
	if oid, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
		userID = &oid
	}

	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSignOut,
		UserID:    userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// --- Admin Events ---

// UserRoleChanged logs when an admin changes a user's role.
func (l *Logger) UserRoleChanged(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, actorRole, oldRole, newRole string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserRoleChanged,
		UserID:    &targetUserID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
			"old_role":   oldRole,
			"new_role":   newRole,
		},
	})
}

// UserDisabled logs when an admin disables a user account.
func (l *Logger) UserDisabled(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, actorRole string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserDisabled,
		UserID:    &targetUserID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
		},
	})
}

// UserEnabled logs when an admin re-enables a user account.
func (l *Logger) UserEnabled(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, actorRole string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserEnabled,
		UserID:    &targetUserID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
		},
	})
}

// AdminProvisioned logs an admin account created or promoted by the
// provisioning tool. There is no HTTP request in that path, so the IP is
// recorded as the fixed marker "cli".
func (l *Logger) AdminProvisioned(ctx context.Context, targetUserID primitive.ObjectID, email, role string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventAdminProvisioned,
		UserID:    &targetUserID,
		IP:        "cli",
		Success:   true,
		Details: map[string]string{
			"email": email,
			"role":  role,
		},
	})
}

// ProjectStatusChanged logs when an admin moves a project between statuses.
func (l *Logger) ProjectStatusChanged(ctx context.Context, r *http.Request, actorID, projectOwnerID, projectID primitive.ObjectID, actorRole, oldStatus, newStatus string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventProjectStatusChanged,
		UserID:    &projectOwnerID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
			"project_id": projectID.Hex(),
			"old_status": oldStatus,
			"new_status": newStatus,
		},
	})
}

// ProjectNotesUpdated logs an admin editing a project's review notes
// without changing its status.
func (l *Logger) ProjectNotesUpdated(ctx context.Context, r *http.Request, actorID, projectOwnerID, projectID primitive.ObjectID, actorRole string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventProjectNotesUpdated,
		UserID:    &projectOwnerID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
			"project_id": projectID.Hex(),
		},
	})
}

// --- Payment Events ---

// CheckoutCreated logs a Stripe checkout session created for a user.
func (l *Logger) CheckoutCreated(ctx context.Context, r *http.Request, userID primitive.ObjectID, sessionID string, amount int64, currency string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryPayment,
		EventType: audit.EventCheckoutCreated,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"stripe_session_id": sessionID,
			"amount":            amountString(amount),
			"currency":          currency,
		},
	})
}

// PaymentCompleted logs a webhook-confirmed successful payment.
func (l *Logger) PaymentCompleted(ctx context.Context, r *http.Request, userID primitive.ObjectID, sessionID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryPayment,
		EventType: audit.EventPaymentCompleted,
		UserID:    &userID,
		IP:        getClientIP(r),
		Success:   true,
		Details: map[string]string{
			"stripe_session_id": sessionID,
		},
	})
}

// PaymentFailed logs a webhook-confirmed failed payment.
func (l *Logger) PaymentFailed(ctx context.Context, r *http.Request, userID primitive.ObjectID, paymentIntentID, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryPayment,
		EventType:     audit.EventPaymentFailed,
		UserID:        &userID,
		IP:            getClientIP(r),
		Success:       false,
		FailureReason: reason,
		Details: map[string]string{
			"stripe_payment_id": paymentIntentID,
		},
	})
}

// WebhookSignatureBad logs a webhook delivery that failed signature
// verification. These are worth watching; repeated failures from one IP
// usually mean probing.
func (l *Logger) WebhookSignatureBad(ctx context.Context, r *http.Request, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryPayment,
		EventType:     audit.EventWebhookSignatureBad,
		IP:            getClientIP(r),
		Success:       false,
		FailureReason: reason,
	})
}

// WebhookUnmatchedEvent logs a verified webhook whose correlation id did
// not match any payment record.
func (l *Logger) WebhookUnmatchedEvent(ctx context.Context, r *http.Request, eventType, correlationID string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryPayment,
		EventType:     audit.EventWebhookUnmatchedEvent,
		IP:            getClientIP(r),
		Success:       false,
		FailureReason: "no matching payment record",
		Details: map[string]string{
			"stripe_event_type": eventType,
			"correlation_id":    correlationID,
		},
	})
}

func amountString(v int64) string {
	return strconv.FormatInt(v, 10)
}
