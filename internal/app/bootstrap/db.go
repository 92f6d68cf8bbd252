// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/launchdesk/internal/app/store/audit"
	consultstore "github.com/dalemusser/launchdesk/internal/app/store/consultations"
	"github.com/dalemusser/launchdesk/internal/app/store/oauthstate"
	paymentstore "github.com/dalemusser/launchdesk/internal/app/store/payments"
	projectstore "github.com/dalemusser/launchdesk/internal/app/store/projects"
	userstore "github.com/dalemusser/launchdesk/internal/app/store/users"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and verifies it with a ping
// before the rest of startup proceeds.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		LaunchDeskMongoClient:   client,
		LaunchDeskMongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes every store depends on. Index creation
// is idempotent, so this runs unconditionally on every startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.LaunchDeskMongoDatabase

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"users", userstore.New(db).EnsureIndexes},
		{"oauth_states", oauthstate.New(db).EnsureIndexes},
		{"projects", projectstore.New(db).EnsureIndexes},
		{"consultations", consultstore.New(db).EnsureIndexes},
		{"payments", paymentstore.New(db).EnsureIndexes},
		{"audit_events", audit.New(db).EnsureIndexes},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			logger.Error("index creation failed", zap.String("collection", s.name), zap.Error(err))
			return fmt.Errorf("ensure indexes for %s: %w", s.name, err)
		}
	}
	return nil
}
