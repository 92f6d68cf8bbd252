// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and request body size limits. AppConfig is
// where everything specific to LaunchDesk lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: launchdesk-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Session lifetime

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Stripe configuration
	StripeSecretKey     string
	StripeWebhookSecret string
	CheckoutAmount      int64  // development fee in the smallest currency unit
	CheckoutCurrency    string // three-letter ISO code, lowercase

	// Base URL of this API (OAuth redirect URIs are derived from it) and
	// the URL of the browser frontend (checkout success/cancel pages,
	// CORS allowlist).
	BaseURL   string
	ClientURL string

	// Rate limiting for the OAuth entry point
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// Audit logging settings: "all" (db+log), "db", "log", or "off"
	AuditLogAuth    string
	AuditLogAdmin   string
	AuditLogPayment string

	// SuperAdmin bootstrap
	SuperAdminEmail string
	SuperAdminName  string
}
