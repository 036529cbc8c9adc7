// Package httpx holds http.RoundTripper middleware shared by the EaseMob
// client: rate limiting, Prometheus instrumentation and composition helpers.
package httpx

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

// Middleware decorates an outbound transport.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Chain wraps base with mws. The first middleware is the outermost, so it
// sees the request first and the response last.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = cleanhttp.DefaultPooledTransport()
	}
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		base = mws[i](base)
	}
	return base
}

// NewClient returns a pooled http.Client whose transport is wrapped in mws.
func NewClient(timeout time.Duration, mws ...Middleware) *http.Client {
	c := cleanhttp.DefaultPooledClient()
	c.Timeout = timeout
	c.Transport = Chain(c.Transport, mws...)
	return c
}
