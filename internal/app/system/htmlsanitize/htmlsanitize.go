// Package htmlsanitize strips dangerous markup from user-supplied rich
// text before it is stored. Consultation messages, requirements, and
// recommendations pass through Sanitize on every write.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

// policy allows basic formatting, links, and tables; scripts, event
// handlers, and javascript: URLs are removed.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowTables()
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	return p
}()

// Sanitize returns s with disallowed HTML removed. Plain text passes
// through unchanged.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
