// Package api binds the form checks to net/http: visitor sessions ride
// a cookie, and the Guard middleware runs a configured set of checks
// against every request before the protected handler sees it.
package api

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/formsentry/formsentry/check"
	"github.com/formsentry/formsentry/session"
)

const defaultCookieName = "formsentry_session"

// Provider resolves a visitor session ID to its backing Store.
type Provider interface {
	Store(sessionID string) session.Store
}

// MemoryProvider keeps one in-memory store per session ID.
type MemoryProvider struct {
	mu     sync.Mutex
	stores map[string]*session.Memory
}

var _ Provider = (*MemoryProvider)(nil)

// NewMemoryProvider creates an in-memory session provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{stores: make(map[string]*session.Memory)}
}

func (p *MemoryProvider) Store(sessionID string) session.Store {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.stores[sessionID]
	if !ok {
		s = session.NewMemory()
		p.stores[sessionID] = s
	}
	return s
}

// BoltProvider backs each session with a bucket in a shared BBolt
// database, so sessions survive restarts.
type BoltProvider struct {
	db *bbolt.DB
}

var _ Provider = (*BoltProvider)(nil)

// NewBoltProvider creates a persistent session provider over db.
func NewBoltProvider(db *bbolt.DB) *BoltProvider {
	return &BoltProvider{db: db}
}

func (p *BoltProvider) Store(sessionID string) session.Store {
	return session.NewBolt(p.db, sessionID)
}

// CheckFactory constructs one check against the request at hand.
// Construction evaluates the check, so the returned value is ready to
// be queried.
type CheckFactory func(sess *session.Accessor, src check.Source) check.Check

// API holds the dependencies needed by the HTTP binding.
type API struct {
	provider   Provider
	cookieName string
	factories  []CheckFactory
	audit      *auditLogger
}

// Option configures the API instance.
type Option func(*API)

// WithLogger sets the structured logger for audit events.
// If not set, a default JSON logger writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.audit = newAuditLogger(logger)
	}
}

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) Option {
	return func(a *API) {
		a.cookieName = name
	}
}

// WithChecks sets the checks Guard runs, in order.
func WithChecks(factories ...CheckFactory) Option {
	return func(a *API) {
		a.factories = factories
	}
}

// New creates a new API instance.
func New(provider Provider, opts ...Option) *API {
	a := &API{
		provider:   provider,
		cookieName: defaultCookieName,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.audit == nil {
		a.audit = newAuditLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}
	return a
}

// Session resolves the visitor's session, minting a new cookie when the
// request carries none.
func (a *API) Session(w http.ResponseWriter, r *http.Request) *session.Accessor {
	token := ""
	if c, err := r.Cookie(a.cookieName); err == nil && c.Value != "" {
		token = c.Value
	}
	if token == "" {
		token = uuid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     a.cookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			Secure:   requestIsSecure(r),
			SameSite: http.SameSiteLaxMode,
		})
	}
	return session.NewAccessor(a.provider.Store(token))
}

func requestIsSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
