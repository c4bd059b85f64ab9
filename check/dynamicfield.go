package check

import (
	"crypto/subtle"
	"fmt"
	"html"
	"net/http"

	"github.com/formsentry/formsentry/session"
)

const (
	dynamicNameMinLength = 6
	dynamicNameMaxLength = 12
)

// DynamicField flags submissions that do not know the current name of a
// rotating hidden field. The field's name changes on every render and
// the expected name is kept in the session, so a replayed stale form or
// a guessed fixed name cannot supply the correct key.
type DynamicField struct {
	sess *session.Accessor
	src  Source
	gen  *TokenGenerator

	value            string
	sessionFieldName string

	outName string
	inName  string

	isRequest      bool
	isValidRequest bool
}

var _ Check = (*DynamicField)(nil)

// NewDynamicField builds a rotating-field check. The expected field
// name travels through the session under sessionFieldName
// (compound-addressable); value is the payload the hidden field must
// carry back. Evaluates immediately.
func NewDynamicField(sess *session.Accessor, src Source, sessionFieldName, value string) *DynamicField {
	d := &DynamicField{
		sess:             sess,
		src:              src,
		gen:              NewTokenGenerator(),
		sessionFieldName: sessionFieldName,
		value:            value,
	}
	d.Reload()
	return d
}

// SetValue changes the expected payload. Call Reload afterwards.
func (d *DynamicField) SetValue(value string) { d.value = value }

// Value returns the expected payload.
func (d *DynamicField) Value() string { return d.value }

// OutName returns the freshly rotated field name for the next render.
func (d *DynamicField) OutName() string { return d.outName }

// InName returns the field name this submission was expected to carry,
// "" when there was none.
func (d *DynamicField) InName() string { return d.inName }

func (d *DynamicField) IsRequest() bool      { return d.isRequest }
func (d *DynamicField) IsValidRequest() bool { return d.isValidRequest }

// Reload rotates the field name and reevaluates the check. The session
// always ends up holding the new name; the name it held before becomes
// the one this submission must have used.
func (d *DynamicField) Reload() {
	d.isRequest = false
	d.isValidRequest = false
	d.inName = ""

	name, err := d.gen.BuildRandomWord(dynamicNameMinLength, dynamicNameMaxLength)
	if err != nil {
		// Without a fresh name there is nothing to rotate; leave the
		// session untouched so the previous name stays usable.
		return
	}
	d.outName = name

	had := d.sess.FieldExists(d.sessionFieldName)
	if had {
		d.inName = fieldName(d.sess.GetFieldValue(d.sessionFieldName, ""))
	}
	d.sess.SetFieldValue(d.sessionFieldName, d.outName)
	if !had || d.inName == "" {
		// First render: nothing to validate yet.
		return
	}

	d.isRequest = true
	submitted := d.src.Field(http.MethodPost, d.inName)
	if d.src.HasField(http.MethodPost, d.inName) &&
		subtle.ConstantTimeCompare([]byte(submitted), []byte(d.value)) == 1 {
		d.isValidRequest = true
	}
}

// BuildHiddenFieldHTML emits the hidden input named with the freshly
// rotated name, carrying the HTML-escaped expected value.
func (d *DynamicField) BuildHiddenFieldHTML(asXHTML bool, id string) string {
	out := `<input type="hidden" name="` + d.outName + `" value="` + html.EscapeString(d.value) + `"`
	if id != "" {
		out += ` id="` + id + `"`
	}
	if asXHTML {
		return out + " />"
	}
	return out + ">"
}

func fieldName(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
