package check

import (
	"net/http"
	"net/url"
)

// FormSource adapts an *http.Request into a Source. POST fields come
// from the parsed request body, GET fields from the URL query.
type FormSource struct {
	post url.Values
	get  url.Values
}

var _ Source = (*FormSource)(nil)

// NewFormSource parses r's form data and wraps it as a Source. Parse
// errors yield an empty source: the request simply carries no fields.
func NewFormSource(r *http.Request) *FormSource {
	_ = r.ParseForm()
	return &FormSource{post: r.PostForm, get: r.URL.Query()}
}

// NewValues builds a Source from raw value maps, useful outside an
// http.Request context.
func NewValues(post, get url.Values) *FormSource {
	if post == nil {
		post = url.Values{}
	}
	if get == nil {
		get = url.Values{}
	}
	return &FormSource{post: post, get: get}
}

func (s *FormSource) values(method string) url.Values {
	if method == http.MethodGet {
		return s.get
	}
	return s.post
}

func (s *FormSource) HasField(method, name string) bool {
	return s.values(method).Has(name)
}

func (s *FormSource) Field(method, name string) string {
	return s.values(method).Get(name)
}
