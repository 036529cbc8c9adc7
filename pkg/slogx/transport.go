package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/easemob/pkg/idx"
)

// RequestIDHeader carries the correlation id on outbound requests.
const RequestIDHeader = "X-Request-ID"

// TransportMiddleware wraps an http.RoundTripper so that every outbound
// request is tagged with a request id and logged once it completes. A
// logger found on the request context takes precedence over base.
func TransportMiddleware(base *slog.Logger) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()

			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = idx.New().String()
				// RoundTrippers must not mutate the caller's request.
				r = r.Clone(r.Context())
				r.Header.Set(RequestIDHeader, reqID)
			}

			logger := base
			if l, ok := r.Context().Value(ctxKey{}).(*slog.Logger); ok {
				logger = l
			}
			if logger == nil {
				logger = slog.Default()
			}
			logger = logger.With(
				"req_id", reqID,
				"method", r.Method,
				"host", r.URL.Host,
				"path", r.URL.Path,
			)

			resp, err := next.RoundTrip(r)
			duration := time.Since(start).Milliseconds()
			if err != nil {
				logger.Warn("http_client_request",
					"duration_ms", duration,
					"error", err,
				)
				return resp, err
			}

			level := slog.LevelDebug
			if resp.StatusCode >= http.StatusBadRequest {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "http_client_request",
				"status", resp.StatusCode,
				"duration_ms", duration,
			)
			return resp, nil
		})
	}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
