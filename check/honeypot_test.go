package check

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHoneypotFieldAbsent(t *testing.T) {
	src := NewValues(nil, nil)
	h := NewHoneypot(src, "website", http.MethodPost)
	assert.False(t, h.IsRequest())
	assert.False(t, h.IsValidRequest())
}

func TestHoneypotEmptyFieldIsValid(t *testing.T) {
	src := NewValues(url.Values{"website": {""}}, nil)
	h := NewHoneypot(src, "website", http.MethodPost)
	assert.True(t, h.IsRequest())
	assert.True(t, h.IsValidRequest())
}

func TestHoneypotFilledFieldIsInvalid(t *testing.T) {
	src := NewValues(url.Values{"website": {"http://spam.example"}}, nil)
	h := NewHoneypot(src, "website", http.MethodPost)
	assert.True(t, h.IsRequest())
	assert.False(t, h.IsValidRequest())
}

func TestHoneypotGetSource(t *testing.T) {
	src := NewValues(url.Values{"website": {"filled"}}, url.Values{"website": {""}})
	h := NewHoneypot(src, "website", http.MethodGet)
	assert.True(t, h.IsRequest())
	assert.True(t, h.IsValidRequest(), "GET source must not see the POST value")
}

func TestHoneypotSettersNeedReload(t *testing.T) {
	src := NewValues(url.Values{"email2": {""}}, nil)
	h := NewHoneypot(src, "website", http.MethodPost)
	assert.False(t, h.IsRequest())

	h.SetFieldName("email2")
	// Flags are recomputed only by Reload.
	assert.False(t, h.IsRequest())
	h.Reload()
	assert.True(t, h.IsRequest())
	assert.True(t, h.IsValidRequest())
}

func TestHoneypotMarkup(t *testing.T) {
	h := NewHoneypot(NewValues(nil, nil), "website", http.MethodPost)

	assert.Equal(t,
		`<textarea name="website" class="hide-me" rows="5"></textarea>`,
		h.BuildFormField(true, "hide-me"))
	assert.Equal(t,
		`<input type="text" name="website" class="hide-me" value="">`,
		h.BuildFormField(false, "hide-me"))
	assert.Equal(t,
		`.hide-me { display: none; visibility: hidden; }`,
		h.BuildCSS("hide-me"))
}
