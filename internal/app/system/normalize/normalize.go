// Package normalize provides canonical forms for user-supplied identity
// fields. Stores normalize before writing; lookups normalize before
// querying, so comparisons never depend on caller casing or whitespace.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name. Case is preserved; the folded form lives in
// the *_ci fields.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// AuthMethod lowercases and trims an auth method identifier.
func AuthMethod(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role lowercases and trims a role string.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status lowercases and trims a status string.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// UserType lowercases and trims a user type string.
func UserType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
