package api

import (
	"log/slog"
	"net/http"
	"time"
)

// AuditEvent identifies the type of security-relevant outcome being logged.
type AuditEvent string

const (
	AuditHoneypotTriggered AuditEvent = "honeypot_triggered"
	AuditTimerTooFast      AuditEvent = "timer_too_fast"
	AuditFieldMismatch     AuditEvent = "field_mismatch"
	AuditCheckFailed       AuditEvent = "check_failed"
	AuditCheckPassed       AuditEvent = "check_passed"
)

// auditLogger wraps slog.Logger for structured audit logging of check
// outcomes.
type auditLogger struct {
	logger *slog.Logger
}

func newAuditLogger(logger *slog.Logger) *auditLogger {
	return &auditLogger{
		logger: logger.With("component", "audit"),
	}
}

// log writes a structured audit log entry for the given request.
func (al *auditLogger) log(event AuditEvent, r *http.Request, attrs ...slog.Attr) {
	baseAttrs := []slog.Attr{
		slog.String("event", string(event)),
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("path", r.URL.Path),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}
	baseAttrs = append(baseAttrs, attrs...)
	al.logger.LogAttrs(r.Context(), slog.LevelInfo, "audit", baseAttrs...)
}
