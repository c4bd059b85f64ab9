package api

import (
	"context"
	"net/http"

	"github.com/formsentry/formsentry/check"
	"github.com/formsentry/formsentry/session"
)

type sessionCtxKey struct{}

// SessionFromContext returns the session accessor Guard attached to the
// request, or nil when the request did not pass through Guard.
func SessionFromContext(ctx context.Context) *session.Accessor {
	sess, _ := ctx.Value(sessionCtxKey{}).(*session.Accessor)
	return sess
}

// Guard runs the configured checks against the request. A request a
// check recognizes but fails is rejected with 403; everything else —
// including requests no check recognizes, such as the initial form
// render — passes through with the visitor session on the context.
//
// Every check reloads on construction, so rotating state (timer stamps,
// dynamic field names) advances even on render requests. Handlers that
// emit form markup must build it from the same checks Guard ran; use a
// plain handler with API.Session for render-only routes instead.
func (a *API) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := a.Session(w, r)
		src := check.NewFormSource(r)

		evaluated := false
		for _, factory := range a.factories {
			c := factory(sess, src)
			if !c.IsRequest() {
				continue
			}
			evaluated = true
			if !c.IsValidRequest() {
				a.audit.log(eventFor(c), r)
				writeError(w, http.StatusForbidden, "submission rejected")
				return
			}
		}
		if evaluated {
			a.audit.log(AuditCheckPassed, r)
		}

		ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// eventFor maps a failed check to its audit event.
func eventFor(c check.Check) AuditEvent {
	switch c.(type) {
	case *check.Honeypot:
		return AuditHoneypotTriggered
	case *check.FormTimer:
		return AuditTimerTooFast
	case *check.DynamicField:
		return AuditFieldMismatch
	default:
		return AuditCheckFailed
	}
}
