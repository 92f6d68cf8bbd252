// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/launchdesk/internal/app/store/audit"
	userstore "github.com/dalemusser/launchdesk/internal/app/store/users"
	"github.com/dalemusser/launchdesk/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// LaunchDesk uses it to guarantee the configured superadmin exists: the
// account is created active, or promoted and reactivated if the email is
// already registered. Without this there is no first admin to reach the
// admin console with.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SuperAdminEmail == "" {
		return nil
	}

	users := userstore.New(deps.LaunchDeskMongoDatabase)
	u, created, err := users.UpsertAdmin(ctx, appCfg.SuperAdminName, appCfg.SuperAdminEmail, "superadmin")
	if err != nil {
		logger.Error("superadmin bootstrap failed",
			zap.String("email", appCfg.SuperAdminEmail), zap.Error(err))
		return err
	}

	auditLog := auditlog.New(audit.New(deps.LaunchDeskMongoDatabase), logger, auditlogConfig(appCfg))
	auditLog.AdminProvisioned(ctx, u.ID, u.Email, u.Role)

	logger.Info("superadmin ready",
		zap.String("email", u.Email),
		zap.String("user_id", u.ID.Hex()),
		zap.Bool("created", created))
	return nil
}

// auditlogConfig maps the config values onto the audit logger settings.
func auditlogConfig(appCfg AppConfig) auditlog.Config {
	return auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Admin:   appCfg.AuditLogAdmin,
		Payment: appCfg.AuditLogPayment,
	}
}
