// Package testkit drives an http.Handler through a real httptest.Server
// with chainable request builders and response assertions.
package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// Server is an httptest.Server whose client does not follow redirects, so
// 303 responses and their Location can be asserted.
type Server struct {
	*httptest.Server
	t      *testing.T
	client *http.Client
}

// NewServer starts h and closes it when the test ends.
func NewServer(t *testing.T, h http.Handler) *Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return &Server{Server: srv, t: t, client: client}
}

// Request starts a request builder.
func (s *Server) Request(method, path string) *RequestBuilder {
	return &RequestBuilder{s: s, method: method, path: path, header: make(http.Header), query: make(url.Values)}
}

// Get starts a GET.
func (s *Server) Get(path string) *RequestBuilder { return s.Request(http.MethodGet, path) }

// Post starts a POST.
func (s *Server) Post(path string) *RequestBuilder { return s.Request(http.MethodPost, path) }

// RequestBuilder accumulates headers, query and body for one request.
type RequestBuilder struct {
	s      *Server
	method string
	path   string
	header http.Header
	query  url.Values
	body   io.Reader
}

// Header sets a request header.
func (rb *RequestBuilder) Header(key, value string) *RequestBuilder {
	rb.header.Set(key, value)
	return rb
}

// Query sets a query parameter.
func (rb *RequestBuilder) Query(key, value string) *RequestBuilder {
	rb.query.Set(key, value)
	return rb
}

// BodyString sends s as the body verbatim.
func (rb *RequestBuilder) BodyString(s string) *RequestBuilder {
	rb.body = strings.NewReader(s)
	return rb
}

// JSON marshals v as the body and sets Content-Type.
func (rb *RequestBuilder) JSON(v any) *RequestBuilder {
	b, err := json.Marshal(v)
	if err != nil {
		rb.s.t.Fatalf("marshal request: %v", err)
	}
	rb.body = bytes.NewReader(b)
	rb.header.Set("Content-Type", "application/json")
	return rb
}

// Form sends data urlencoded and sets Content-Type.
func (rb *RequestBuilder) Form(data url.Values) *RequestBuilder {
	rb.body = strings.NewReader(data.Encode())
	rb.header.Set("Content-Type", "application/x-www-form-urlencoded")
	return rb
}

// Do sends the request and reads the whole response.
func (rb *RequestBuilder) Do() *Response {
	t := rb.s.t
	t.Helper()

	u := rb.s.URL + rb.path
	if len(rb.query) > 0 {
		u += "?" + rb.query.Encode()
	}
	req, err := http.NewRequest(rb.method, u, rb.body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header = rb.header

	resp, err := rb.s.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", rb.method, rb.path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return &Response{Response: resp, Body: body, t: t}
}

// Response is a fully read response with assertion helpers. Assertions
// report with t.Errorf and return the receiver for chaining.
type Response struct {
	*http.Response
	Body []byte
	t    *testing.T
}

// Status asserts the status code.
func (r *Response) Status(code int) *Response {
	r.t.Helper()
	if r.StatusCode != code {
		r.t.Errorf("status = %d, want %d\nbody: %s", r.StatusCode, code, r.Body)
	}
	return r
}

// HeaderEquals asserts an exact header value.
func (r *Response) HeaderEquals(key, want string) *Response {
	r.t.Helper()
	if got := r.Header.Get(key); got != want {
		r.t.Errorf("header %s = %q, want %q", key, got, want)
	}
	return r
}

// HeaderContains asserts a header contains substr.
func (r *Response) HeaderContains(key, substr string) *Response {
	r.t.Helper()
	if got := r.Header.Get(key); !strings.Contains(got, substr) {
		r.t.Errorf("header %s = %q, want it to contain %q", key, got, substr)
	}
	return r
}

// Location returns the Location header.
func (r *Response) Location() string {
	return r.Header.Get("Location")
}

// BodyContains asserts the body contains substr.
func (r *Response) BodyContains(substr string) *Response {
	r.t.Helper()
	if !bytes.Contains(r.Body, []byte(substr)) {
		r.t.Errorf("body does not contain %q\nbody: %s", substr, r.Body)
	}
	return r
}

// BodyNotContains asserts the body lacks substr.
func (r *Response) BodyNotContains(substr string) *Response {
	r.t.Helper()
	if bytes.Contains(r.Body, []byte(substr)) {
		r.t.Errorf("body unexpectedly contains %q", substr)
	}
	return r
}

// JSON decodes the body into v, failing the test on error.
func (r *Response) JSON(v any) *Response {
	r.t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		r.t.Fatalf("decode JSON: %v\nbody: %s", err, r.Body)
	}
	return r
}

// String returns the body.
func (r *Response) String() string { return string(r.Body) }
