package check

// Honeypot flags submissions that fill in a decoy field. The field is
// hidden from humans via CSS, so any non-empty value signals an
// automated submitter that populates every input it finds.
type Honeypot struct {
	src       Source
	fieldName string
	method    string

	isRequest      bool
	isValidRequest bool
}

var _ Check = (*Honeypot)(nil)

// NewHoneypot builds a honeypot check reading fieldName from the given
// method source (http.MethodPost or http.MethodGet) and evaluates it
// immediately.
func NewHoneypot(src Source, fieldName, method string) *Honeypot {
	h := &Honeypot{src: src, fieldName: fieldName, method: method}
	h.Reload()
	return h
}

// SetFieldName changes the trap field's submission key. Call Reload
// afterwards.
func (h *Honeypot) SetFieldName(name string) { h.fieldName = name }

// SetMethod changes the request-method source. Call Reload afterwards.
func (h *Honeypot) SetMethod(method string) { h.method = method }

func (h *Honeypot) IsRequest() bool      { return h.isRequest }
func (h *Honeypot) IsValidRequest() bool { return h.isValidRequest }

// Reload reevaluates the check. The submission is valid iff the trap
// field was submitted empty: humans never see it, automation fills it.
func (h *Honeypot) Reload() {
	h.isRequest = false
	h.isValidRequest = false
	if !h.src.HasField(h.method, h.fieldName) {
		return
	}
	h.isRequest = true
	h.isValidRequest = h.src.Field(h.method, h.fieldName) == ""
}

// BuildFormField emits the trap field markup, tagged with hideClassName
// so BuildCSS can hide it. A text area is preferred over a text input
// because browser autofill is less likely to populate it.
func (h *Honeypot) BuildFormField(asTextArea bool, hideClassName string) string {
	if asTextArea {
		return `<textarea name="` + h.fieldName + `" class="` + hideClassName + `" rows="5"></textarea>`
	}
	return `<input type="text" name="` + h.fieldName + `" class="` + hideClassName + `" value="">`
}

// BuildCSS emits the rule hiding elements of hideClassName.
func (h *Honeypot) BuildCSS(hideClassName string) string {
	return "." + hideClassName + " { display: none; visibility: hidden; }"
}
