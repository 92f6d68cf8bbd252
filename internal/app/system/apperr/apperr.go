// Package apperr defines the closed set of error kinds the HTTP surface
// recognizes. Handlers and stores wrap causes in one of these kinds;
// httpjson maps each kind to a status code. Anything unclassified is
// treated as Internal: logged in full server-side, generic to the client.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for response mapping.
type Kind int

const (
	// Internal is the zero kind: unexpected failures (database errors,
	// upstream faults). Clients see a generic message only.
	Internal Kind = iota

	// Unauthenticated means no valid signed-in user. Maps to 401.
	Unauthenticated

	// Forbidden means the caller is signed in but not allowed. Maps to 403.
	Forbidden

	// NotFound means the requested resource does not exist (or the caller
	// may not learn that it does). Maps to 404.
	NotFound

	// Validation means the request payload failed a check. Maps to 400.
	Validation

	// SignatureInvalid means a webhook payload failed signature
	// verification; nothing was processed. Maps to 400.
	SignatureInvalid
)

// Error carries a kind, a client-safe message, and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

// Unwrap exposes the cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Err }

// E builds an Error of the given kind.
func E(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an Error of the given kind around a cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Errorf builds an Error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, walking the wrap chain. Errors that are
// not *Error classify as Internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the client-safe message for err. Internal errors get a
// generic message so no detail leaks.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != Internal {
		return ae.Msg
	}
	return "internal server error"
}
