// Package status defines account status values shared by stores and the
// auth layer. A user whose status is anything but active is never treated
// as authenticated for privileged access.
package status

// Account statuses.
const (
	Active   = "active"
	Disabled = "disabled"
)

// IsValid reports whether s is a recognized account status.
func IsValid(s string) bool {
	return s == Active || s == Disabled
}
