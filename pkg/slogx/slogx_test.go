package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/easemob/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		require.Equal(t, want, slogx.ParseLevel(in), "level %q", in)
	}
}

func TestNewLoggerWritesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slogx.NewLogger(slogx.Config{
		Service: "easemob",
		Version: "test",
		Env:     "prod",
		Level:   "info",
		Writer:  &buf,
	})
	logger.Info("hello", "k", "v")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "hello", line["msg"])
	require.Equal(t, "easemob", line["service"])
	require.Equal(t, "v", line["k"])
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.Default(), slogx.FromContext(context.Background()))

	l := slogx.Discard()
	ctx := slogx.WithContext(context.Background(), l)
	require.Equal(t, l, slogx.FromContext(ctx))
}

func TestTransportMiddleware(t *testing.T) {
	t.Parallel()

	var seenID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = r.Header.Get(slogx.RequestIDHeader)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := slogx.NewLogger(slogx.Config{Level: "debug", Format: "text", Writer: &buf})

	client := &http.Client{Transport: slogx.TransportMiddleware(logger)(http.DefaultTransport)}

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/users/alice", nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.NotEmpty(t, seenID)
	require.Empty(t, req.Header.Get(slogx.RequestIDHeader), "caller request must not be mutated")

	out := buf.String()
	require.True(t, strings.Contains(out, "http_client_request"), out)
	require.True(t, strings.Contains(out, "status=404"), out)
	require.True(t, strings.Contains(out, "req_id="+seenID), out)
}
