// Command provision-admin creates or promotes an admin account directly in
// MongoDB. It is the bootstrap path for the very first administrator, before
// anyone can sign in and use the admin console.
//
// Usage:
//
//	provision-admin -email ops@example.com -name "Ops Admin" [-role admin|superadmin]
//
// Connection settings come from flags, falling back to LAUNCHDESK_MONGO_URI
// and LAUNCHDESK_MONGO_DATABASE (a .env file is loaded if present).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/dalemusser/launchdesk/internal/app/store/audit"
	userstore "github.com/dalemusser/launchdesk/internal/app/store/users"
	"github.com/dalemusser/launchdesk/internal/app/system/auditlog"
)

func main() {
	// Best effort; a missing .env is fine.
	_ = godotenv.Load()

	var (
		mongoURI = flag.String("mongo-uri", os.Getenv("LAUNCHDESK_MONGO_URI"), "MongoDB connection URI")
		mongoDB  = flag.String("mongo-db", os.Getenv("LAUNCHDESK_MONGO_DATABASE"), "MongoDB database name")
		email    = flag.String("email", "", "email address of the admin account (required)")
		name     = flag.String("name", "", "full name of the admin account (required)")
		role     = flag.String("role", "admin", "role to grant: admin or superadmin")
	)
	flag.Parse()

	if err := run(*mongoURI, *mongoDB, *email, *name, *role); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(mongoURI, mongoDB, email, name, role string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" {
		return fmt.Errorf("-email is required")
	}
	if name == "" {
		return fmt.Errorf("-name is required")
	}
	if role != "admin" && role != "superadmin" {
		return fmt.Errorf("invalid -role %q: must be admin or superadmin", role)
	}
	if mongoURI == "" {
		return fmt.Errorf("mongo URI not set: pass -mongo-uri or set LAUNCHDESK_MONGO_URI")
	}
	if mongoDB == "" {
		return fmt.Errorf("mongo database not set: pass -mongo-db or set LAUNCHDESK_MONGO_DATABASE")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return fmt.Errorf("connect to mongodb: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(mongoDB)
	users := userstore.New(db)

	u, created, err := users.UpsertAdmin(ctx, name, email, role)
	if err != nil {
		return fmt.Errorf("upsert admin: %w", err)
	}

	logger := zap.NewNop()
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{Admin: "db"})
	auditLog.AdminProvisioned(ctx, u.ID, u.Email, u.Role)

	if created {
		fmt.Printf("created %s %s <%s> (id %s)\n", u.Role, u.FullName, u.Email, u.ID.Hex())
	} else {
		fmt.Printf("updated %s %s <%s> (id %s)\n", u.Role, u.FullName, u.Email, u.ID.Hex())
	}
	return nil
}
