package check

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/formsentry/formsentry/session"
)

// DefaultMinRequestTime is the minimum elapsed time, in seconds, a
// FormTimer requires between render and submission. It is also a hard
// floor: a shorter configured time would make the check ineffective.
const DefaultMinRequestTime = 1.5

// stampPrefix tags encoded timer payloads on the wire. Kept verbatim
// for compatibility with existing forms.
const stampPrefix = "Uk7"

// FormTimer flags submissions that arrive implausibly fast after the
// form was rendered. The render timestamp travels either through the
// session or through an echoed hidden field, selected once at
// construction.
type FormTimer struct {
	sess *session.Accessor
	src  Source

	useSession       bool
	sessionFieldName string
	formFieldName    string
	minRequestTime   float64

	currentFormStamp float64
	lastFormStamp    float64

	isRequest      bool
	isValidRequest bool

	now func() time.Time
}

var _ Check = (*FormTimer)(nil)

// TimerOption configures a FormTimer before its first evaluation.
type TimerOption func(*FormTimer)

// WithMinRequestTime sets the minimum elapsed seconds, floored at
// DefaultMinRequestTime.
func WithMinRequestTime(seconds float64) TimerOption {
	return func(t *FormTimer) { t.SetMinRequestTime(seconds) }
}

// WithClock overrides the wall-clock source. Intended for tests.
func WithClock(now func() time.Time) TimerOption {
	return func(t *FormTimer) { t.now = now }
}

// NewSessionFormTimer builds a timer that carries the render timestamp
// in the session under sessionFieldName (compound-addressable) and
// evaluates it immediately.
func NewSessionFormTimer(sess *session.Accessor, src Source, sessionFieldName string, opts ...TimerOption) *FormTimer {
	t := &FormTimer{
		sess:             sess,
		src:              src,
		useSession:       true,
		sessionFieldName: sessionFieldName,
		minRequestTime:   DefaultMinRequestTime,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.currentFormStamp = stampOf(t.now())
	t.Reload()
	return t
}

// NewFieldFormTimer builds a timer that carries the render timestamp in
// an encoded hidden field named formFieldName, echoed back by the
// client on submission, and evaluates it immediately.
func NewFieldFormTimer(src Source, formFieldName string, opts ...TimerOption) *FormTimer {
	t := &FormTimer{
		src:            src,
		formFieldName:  formFieldName,
		minRequestTime: DefaultMinRequestTime,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.currentFormStamp = stampOf(t.now())
	t.Reload()
	return t
}

// SetMinRequestTime sets the minimum elapsed seconds, floored at
// DefaultMinRequestTime. Call Reload afterwards.
func (t *FormTimer) SetMinRequestTime(seconds float64) {
	if seconds < DefaultMinRequestTime {
		seconds = DefaultMinRequestTime
	}
	t.minRequestTime = seconds
}

// MinRequestTime returns the effective minimum elapsed seconds.
func (t *FormTimer) MinRequestTime() float64 { return t.minRequestTime }

// LastFormStamp returns the previously recorded render timestamp, zero
// when the current request carried none.
func (t *FormTimer) LastFormStamp() float64 { return t.lastFormStamp }

func (t *FormTimer) IsRequest() bool      { return t.isRequest }
func (t *FormTimer) IsValidRequest() bool { return t.isValidRequest }

// Reload reevaluates the check. In session mode the session slot is
// unconditionally overwritten with the current timestamp afterwards,
// priming the next render/submission cycle.
func (t *FormTimer) Reload() {
	t.isRequest = false
	t.isValidRequest = false
	t.lastFormStamp = 0

	if t.useSession {
		if t.sess.FieldExists(t.sessionFieldName) {
			t.isRequest = true
			t.lastFormStamp = stampValue(t.sess.GetFieldValue(t.sessionFieldName, ""))
			t.isValidRequest = t.lastFormStamp+t.minRequestTime <= t.currentFormStamp
		}
		t.sess.SetFieldValue(t.sessionFieldName, t.currentFormStamp)
		return
	}

	if t.formFieldName == "" || !t.src.HasField(http.MethodPost, t.formFieldName) {
		return
	}
	stamp, ok := decodeStamp(t.src.Field(http.MethodPost, t.formFieldName))
	if !ok {
		return
	}
	t.isRequest = true
	t.lastFormStamp = stamp
	t.isValidRequest = stamp+t.minRequestTime <= t.currentFormStamp
}

// BuildHiddenFieldHTML emits the encoded timestamp carrier for
// hidden-field mode. Session mode transports nothing through markup and
// returns "".
func (t *FormTimer) BuildHiddenFieldHTML(asXHTML bool, id string) string {
	if t.useSession || t.formFieldName == "" {
		return ""
	}
	payload := stampPrefix + base64.StdEncoding.EncodeToString([]byte(formatStamp(t.currentFormStamp)))
	out := `<input type="hidden" name="` + t.formFieldName + `" value="` + payload + `"`
	if id != "" {
		out += ` id="` + id + `"`
	}
	if asXHTML {
		return out + " />"
	}
	return out + ">"
}

func stampOf(now time.Time) float64 {
	return float64(now.UnixNano()) / float64(time.Second)
}

func formatStamp(stamp float64) string {
	return strconv.FormatFloat(stamp, 'f', -1, 64)
}

// decodeStamp reverses the hidden-field encoding: fixed prefix tag,
// base64 payload, locale-tolerant float.
func decodeStamp(raw string) (float64, bool) {
	if len(raw) < len(stampPrefix) || !strings.HasPrefix(raw, stampPrefix) {
		return 0, false
	}
	decoded, err := base64.StdEncoding.DecodeString(raw[len(stampPrefix):])
	if err != nil {
		return 0, false
	}
	stamp, err := parseStamp(string(decoded))
	if err != nil {
		return 0, false
	}
	return stamp, true
}

// parseStamp parses a float, tolerating a comma decimal separator from
// locale-formatted producers.
func parseStamp(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}

// stampValue normalizes a session-stored stamp, which may round-trip as
// a float64 or a string depending on the backing store.
func stampValue(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		stamp, err := parseStamp(val)
		if err != nil {
			return 0
		}
		return stamp
	default:
		stamp, err := parseStamp(fmt.Sprint(val))
		if err != nil {
			return 0
		}
		return stamp
	}
}
