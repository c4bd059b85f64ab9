// Package check implements small anti-automation checks for HTML form
// submissions: a honeypot field, a minimum-elapsed-time check, and a
// rotating hidden field name. Each check inspects one inbound request
// plus prior state carried in the session or an echoed hidden field and
// reports whether the submission looks human.
//
// Checks are advisory signals, never hard failures: missing or
// malformed input degrades to "not a request" rather than an error.
package check

// Check is the common surface of the three form checks. A check
// evaluates on construction; after mutating configuration, call Reload
// before re-reading the flags.
type Check interface {
	// IsRequest reports whether the inbound request carried the data
	// this check needs, independent of validity.
	IsRequest() bool
	// IsValidRequest reports whether the check's pass condition holds.
	// Always false when IsRequest is false.
	IsValidRequest() bool
	// Reload recomputes both flags from the request and session state.
	Reload()
}

// Source abstracts the request-parameter store a check reads from,
// keyed by method (http.MethodPost or http.MethodGet) and field name.
type Source interface {
	// HasField reports whether the named field was submitted via method.
	HasField(method, name string) bool
	// Field returns the submitted value, or "" if absent.
	Field(method, name string) string
}
