package easemob

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Verb is an HTTP method accepted by the dispatcher.
type Verb string

const (
	VerbGet     Verb = http.MethodGet
	VerbPost    Verb = http.MethodPost
	VerbPut     Verb = http.MethodPut
	VerbPatch   Verb = http.MethodPatch
	VerbDelete  Verb = http.MethodDelete
	VerbHead    Verb = http.MethodHead
	VerbOptions Verb = http.MethodOptions
)

// Verbs lists every supported verb.
var Verbs = []Verb{VerbGet, VerbPost, VerbPut, VerbPatch, VerbDelete, VerbHead, VerbOptions}

// Valid reports whether v is one of Verbs.
func (v Verb) Valid() bool {
	switch v {
	case VerbGet, VerbPost, VerbPut, VerbPatch, VerbDelete, VerbHead, VerbOptions:
		return true
	}
	return false
}

func (v Verb) String() string { return string(v) }

// ParseVerb maps a case-insensitive method name to a Verb.
func ParseVerb(s string) (Verb, error) {
	v := Verb(strings.ToUpper(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedOperation, s)
	}
	return v, nil
}

// Request describes one authenticated call.
type Request struct {
	Verb Verb
	// Path is relative to BaseURL, or an absolute http(s) URL.
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
}

// RequestOptions are the optional parts of a Dispatch call.
type RequestOptions struct {
	Query url.Values
	// Body is JSON-encoded whatever the verb.
	Body   any
	Header http.Header
}

// Dispatch sends an authenticated request. opts may be nil.
func (c *Client) Dispatch(ctx context.Context, verb Verb, path string, opts *RequestOptions) (*Response, error) {
	req := Request{Verb: verb, Path: path}
	if opts != nil {
		req.Query = opts.Query
		req.Body = opts.Body
		req.Header = opts.Header
	}
	return c.Do(ctx, req)
}

// Do sends an authenticated request.
//
// A response with any status is returned without error; only failures that
// produce no response (transport, token, body encoding, unsupported verb)
// return an error. The response is also recorded as LastResponse.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if !req.Verb.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperation, string(req.Verb))
	}

	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, string(req.Verb), req.Path, req.Query, req.Body, req.Header, token)
	if err != nil {
		c.logger.DebugContext(ctx, "easemob request failed",
			"method", req.Verb,
			"path", req.Path,
			"error", err,
		)
		return nil, err
	}

	c.logger.DebugContext(ctx, "easemob request",
		"method", req.Verb,
		"path", req.Path,
		"status", resp.StatusCode,
	)
	return resp, nil
}

// call dispatches and reports the status == 200 rule.
func (c *Client) call(ctx context.Context, verb Verb, path string, body any) (bool, error) {
	var opts *RequestOptions
	if body != nil {
		opts = &RequestOptions{Body: body}
	}
	resp, err := c.Dispatch(ctx, verb, path, opts)
	if err != nil {
		return false, err
	}
	return resp.OK(), nil
}
