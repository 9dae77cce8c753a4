package connection

import (
	"net/http"
	"net/url"
)

// Request describes one call against the REST API. Path is relative to the
// api root ("collection/users") and already escaped per segment. Body is
// encoded as JSON when non nil.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}

	// Unscoped requests skip the /_db/<name> prefix
	Unscoped bool
}

func Get(path string) *Request {
	return &Request{Method: http.MethodGet, Path: path}
}

func Post(path string, body interface{}) *Request {
	return &Request{Method: http.MethodPost, Path: path, Body: body}
}

func Put(path string, body interface{}) *Request {
	return &Request{Method: http.MethodPut, Path: path, Body: body}
}

func Patch(path string, body interface{}) *Request {
	return &Request{Method: http.MethodPatch, Path: path, Body: body}
}

func Delete(path string) *Request {
	return &Request{Method: http.MethodDelete, Path: path}
}

// WithQuery adds a query parameter and returns the request
func (r *Request) WithQuery(key, value string) *Request {
	if r.Query == nil {
		r.Query = url.Values{}
	}
	r.Query.Set(key, value)
	return r
}

// AsUnscoped marks the request as addressed to the server root
func (r *Request) AsUnscoped() *Request {
	r.Unscoped = true
	return r
}
