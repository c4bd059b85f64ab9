package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formsentry/formsentry/check"
	"github.com/formsentry/formsentry/session"
)

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotNil(t, SessionFromContext(r.Context()), "session missing from context")
		w.WriteHeader(http.StatusOK)
	})
}

func honeypotFactory(field string) CheckFactory {
	return func(sess *session.Accessor, src check.Source) check.Check {
		return check.NewHoneypot(src, field, http.MethodPost)
	}
}

func postForm(handler http.Handler, cookies []*http.Cookie, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGuardSetsSessionCookie(t *testing.T) {
	a := New(NewMemoryProvider())
	handler := a.Guard(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, defaultCookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestGuardHoneypot(t *testing.T) {
	a := New(NewMemoryProvider(), WithChecks(honeypotFactory("website")))
	handler := a.Guard(okHandler(t))

	t.Run("EmptyTrapPasses", func(t *testing.T) {
		rec := postForm(handler, nil, url.Values{"website": {""}, "name": {"alice"}})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("FilledTrapRejected", func(t *testing.T) {
		rec := postForm(handler, nil, url.Values{"website": {"http://spam.example"}})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"submission rejected"}`, rec.Body.String())
	})

	t.Run("NonSubmissionPasses", func(t *testing.T) {
		rec := postForm(handler, nil, url.Values{"name": {"alice"}})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestGuardFormTimer(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	a := New(NewMemoryProvider(), WithChecks(
		func(sess *session.Accessor, src check.Source) check.Check {
			return check.NewSessionFormTimer(sess, src, "form[stamp]", check.WithClock(clock))
		},
	))
	handler := a.Guard(okHandler(t))

	// First request primes the session stamp and passes.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	// An immediate resubmission is too fast.
	rec = postForm(handler, cookies, url.Values{"name": {"alice"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The rejected attempt re-primed the stamp; waiting past the
	// minimum makes the next one valid.
	now = now.Add(2 * time.Second)
	rec = postForm(handler, cookies, url.Values{"name": {"alice"}})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardDynamicField(t *testing.T) {
	provider := NewMemoryProvider()
	a := New(provider, WithChecks(
		func(sess *session.Accessor, src check.Source) check.Check {
			return check.NewDynamicField(sess, src, "form[field]", "1")
		},
	))
	handler := a.Guard(okHandler(t))

	// Render request rotates a name into the session.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	sess := session.NewAccessor(provider.Store(cookies[0].Value))
	name, _ := sess.GetFieldValue("form[field]", "").(string)
	require.NotEmpty(t, name)

	t.Run("CurrentNamePasses", func(t *testing.T) {
		rec := postForm(handler, cookies, url.Values{name: {"1"}})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("StaleNameRejected", func(t *testing.T) {
		// The previous submission rotated the name; replaying is rejected.
		rec := postForm(handler, cookies, url.Values{name: {"1"}})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestMemoryProviderReusesStores(t *testing.T) {
	p := NewMemoryProvider()
	s1 := p.Store("visitor-1")
	s1.Set("k", "v")
	s2 := p.Store("visitor-1")
	v, ok := s2.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok = p.Store("visitor-2").Get("k")
	assert.False(t, ok)
}

func TestSessionReusesCookieToken(t *testing.T) {
	a := New(NewMemoryProvider())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: defaultCookieName, Value: "tok-existing"})
	rec := httptest.NewRecorder()
	a.Session(rec, req)
	assert.Empty(t, rec.Result().Cookies(), "existing cookie must not be reissued")
}
