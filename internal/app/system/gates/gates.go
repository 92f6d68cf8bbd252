// Package gates provides authorization gate functions for HTTP handlers.
// Gates check authentication and authorization and, for the Require*
// variants, write the matching JSON error response when a check fails.
//
// # Two-Tier Authorization Pattern
//
// LaunchDesk uses a two-tier authorization approach:
//
//  1. Route-Level Middleware (auth.RequireSignedIn, auth.RequireRole)
//     Applied in routes.go files for coarse-grained access control.
//     Example: sm.RequireRole("admin", "superadmin") protects a subtree.
//     When middleware handles role checking, handlers don't need gates.
//
//  2. Handler-Level Gates (this package)
//     Used in handlers that need role checks WITHOUT route-level middleware,
//     or that combine a role check with an ownership check on the loaded
//     resource. Gates write the error response and return user context.
//
// Don't use gates in handlers that are behind role-specific middleware;
// use authz.UserCtx(r) there to get user context without re-checking.
package gates

import (
	"net/http"

	"github.com/dalemusser/launchdesk/internal/app/system/apperr"
	"github.com/dalemusser/launchdesk/internal/app/system/auth"
	"github.com/dalemusser/launchdesk/internal/app/system/authz"
	"github.com/dalemusser/launchdesk/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result contains the result of an authorization gate check.
type Result struct {
	Role   string
	Name   string
	UserID primitive.ObjectID
	OK     bool
}

// AdminCheck is the tri-state outcome of CheckAdmin. "Not logged in" is a
// value, not an error; callers decide how to respond.
type AdminCheck struct {
	Authenticated bool
	Admin         bool
	User          *auth.SessionUser
	// RedirectURL suggests where an unauthenticated browser should go.
	RedirectURL string
}

// CheckAdmin resolves the caller through the session layer (which has
// already re-read the user row) and classifies admin eligibility. It
// never writes to the ResponseWriter and never errors for the anonymous
// case. Missing, disabled, or malformed identities classify as not
// authenticated and are never auto-elevated.
func CheckAdmin(r *http.Request) AdminCheck {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return AdminCheck{RedirectURL: auth.LoginURL}
	}
	return AdminCheck{
		Authenticated: true,
		Admin:         authz.IsAdmin(r),
		User:          u,
	}
}

// RequireAuth ensures a user is authenticated.
// If not authenticated, it writes a 401 JSON error and returns OK=false.
func RequireAuth(w http.ResponseWriter, r *http.Request) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, nil, apperr.E(apperr.Unauthenticated, "sign in required"))
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}

// RequireAdmin ensures the user is authenticated and has the admin or
// superadmin role. Writes 401 for anonymous callers, 403 for signed-in
// non-admins.
func RequireAdmin(w http.ResponseWriter, r *http.Request) Result {
	check := CheckAdmin(r)
	if !check.Authenticated {
		httpjson.Error(w, nil, apperr.E(apperr.Unauthenticated, "sign in required"))
		return Result{OK: false}
	}
	if !check.Admin {
		httpjson.Error(w, nil, apperr.E(apperr.Forbidden, "admin access required"))
		return Result{OK: false}
	}
	role, name, uid, _ := authz.UserCtx(r)
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}

// RequireAdminOrOwner ensures the user is an admin or owns the resource
// with the given owner id. Non-owners without admin rights get a 404-shaped
// response so strangers cannot probe for resource existence.
func RequireAdminOrOwner(w http.ResponseWriter, r *http.Request, ownerID primitive.ObjectID) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, nil, apperr.E(apperr.Unauthenticated, "sign in required"))
		return Result{OK: false}
	}
	if !authz.IsAdmin(r) && uid != ownerID {
		httpjson.Error(w, nil, apperr.E(apperr.NotFound, "not found"))
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}
