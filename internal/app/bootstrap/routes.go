// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authgooglefeature "github.com/dalemusser/launchdesk/internal/app/features/authgoogle"
	consultationsfeature "github.com/dalemusser/launchdesk/internal/app/features/consultations"
	dashboardfeature "github.com/dalemusser/launchdesk/internal/app/features/dashboard"
	healthfeature "github.com/dalemusser/launchdesk/internal/app/features/health"
	logoutfeature "github.com/dalemusser/launchdesk/internal/app/features/logout"
	paymentsfeature "github.com/dalemusser/launchdesk/internal/app/features/payments"
	projectsfeature "github.com/dalemusser/launchdesk/internal/app/features/projects"
	systemusersfeature "github.com/dalemusser/launchdesk/internal/app/features/systemusers"
	userinfofeature "github.com/dalemusser/launchdesk/internal/app/features/userinfo"
	"github.com/dalemusser/launchdesk/internal/app/store/audit"
	consultstore "github.com/dalemusser/launchdesk/internal/app/store/consultations"
	"github.com/dalemusser/launchdesk/internal/app/store/oauthstate"
	paymentstore "github.com/dalemusser/launchdesk/internal/app/store/payments"
	projectstore "github.com/dalemusser/launchdesk/internal/app/store/projects"
	userstore "github.com/dalemusser/launchdesk/internal/app/store/users"
	"github.com/dalemusser/launchdesk/internal/app/system/auditlog"
	"github.com/dalemusser/launchdesk/internal/app/system/auth"
	"github.com/dalemusser/launchdesk/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. LaunchDesk builds its stores once,
// shares them across features, applies CORS for the browser frontend, and
// mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.LaunchDeskMongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser fetches fresh user data on each request, so role
	// changes and disabled accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	users := userstore.New(db)
	projects := projectstore.New(db)
	consultations := consultstore.New(db)
	payments := paymentstore.New(db)
	auditStore := audit.New(db)
	stateStore := oauthstate.New(db)

	auditLog := auditlog.New(auditStore, logger, auditlogConfig(appCfg))
	loginLimiter := ratelimit.New(appCfg.LoginRateLimit, appCfg.LoginRateWindow)

	r := chi.NewRouter()

	// The browser frontend lives on another origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{appCfg.ClientURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.LaunchDeskMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	googleHandler := authgooglefeature.NewHandler(users, sessionMgr, auditLog, stateStore,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler, loginLimiter))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	userinfofeature.MountRoutes(r, userinfofeature.NewHandler())

	// Admin dashboard
	dashboardHandler := dashboardfeature.NewHandler(db, projects, auditStore, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

	// Projects and consultations
	projectsHandler := projectsfeature.NewHandler(projects, auditLog, logger)
	r.Mount("/projects", projectsfeature.Routes(projectsHandler))

	consultationsHandler := consultationsfeature.NewHandler(consultations, projects, logger)
	r.Mount("/consultations", consultationsfeature.Routes(consultationsHandler))

	// Payments: checkout for signed-in owners, webhook for Stripe
	paymentsHandler := paymentsfeature.NewHandler(payments, projects, auditLog,
		appCfg.StripeSecretKey, appCfg.StripeWebhookSecret,
		appCfg.CheckoutAmount, appCfg.CheckoutCurrency, appCfg.ClientURL, logger)
	r.Mount("/payments", paymentsfeature.Routes(paymentsHandler))

	// Admin console. RequireRole guards the subtree; the handlers gate
	// again so they fail closed if ever mounted elsewhere.
	sysUsersHandler := systemusersfeature.NewHandler(users, auditLog, logger)
	r.Route("/admin", func(ar chi.Router) {
		ar.Use(sessionMgr.RequireRole("admin", "superadmin"))
		ar.Mount("/users", systemusersfeature.Routes(sysUsersHandler))
	})

	return r, nil
}
