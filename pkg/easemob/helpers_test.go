package easemob_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/easemob/pkg/easemob"
	"github.com/aussiebroadwan/easemob/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const (
	testOrg   = "acme"
	testApp   = "chat"
	testToken = "YWMt-test-token"
)

type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

type fakeConfig struct {
	// Token answers POST /{org}/{app}/token. Defaults to a fixed token.
	Token http.HandlerFunc
	// Resource answers everything else. Defaults to 200 {}.
	Resource http.HandlerFunc
}

// fakeServer mimics the EaseMob REST API.
type fakeServer struct {
	*httptest.Server

	tokenCalls atomic.Int32

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeServer(t *testing.T, cfg fakeConfig) *fakeServer {
	t.Helper()

	if cfg.Token == nil {
		cfg.Token = func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"access_token": testToken,
				"expires_in":   5184000,
				"application":  "8be024f0-e978-11e8-b697-5d598d5f8402",
			})
		}
	}
	if cfg.Resource == nil {
		cfg.Resource = func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{})
		}
	}

	fs := &fakeServer{}
	tokenPath := "/" + testOrg + "/" + testApp + "/token"
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		fs.mu.Lock()
		fs.requests = append(fs.requests, recordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})
		fs.mu.Unlock()

		r.Body = io.NopCloser(strings.NewReader(string(body)))
		if r.Method == http.MethodPost && r.URL.Path == tokenPath {
			fs.tokenCalls.Add(1)
			cfg.Token(w, r)
			return
		}
		cfg.Resource(w, r)
	}))
	t.Cleanup(fs.Close)
	return fs
}

// last returns the most recent request.
func (fs *fakeServer) last(t *testing.T) recordedRequest {
	t.Helper()
	fs.mu.Lock()
	defer fs.mu.Unlock()
	require.NotEmpty(t, fs.requests, "no request reached the server")
	return fs.requests[len(fs.requests)-1]
}

func (fs *fakeServer) config() easemob.Config {
	return easemob.Config{
		ClientID:     "YXA6client",
		ClientSecret: "YXA6secret",
		OrgName:      testOrg,
		AppName:      testApp,
		ServerURL:    fs.URL,
		Logger:       slogx.Discard(),
	}
}

func newTestClient(t *testing.T, fs *fakeServer, mutate ...func(*easemob.Config)) *easemob.Client {
	t.Helper()
	cfg := fs.config()
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := easemob.New(context.Background(), cfg)
	require.NoError(t, err)
	return c
}

func withToken(tok string) func(*easemob.Config) {
	return func(c *easemob.Config) { c.Token = tok }
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusHandler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, map[string]any{"action": r.Method})
	}
}

// doerFunc is a Doer that counts calls.
type doerFunc struct {
	calls atomic.Int32
	fn    func(*http.Request) (*http.Response, error)
}

func (d *doerFunc) Do(r *http.Request) (*http.Response, error) {
	d.calls.Add(1)
	return d.fn(r)
}

func doerConfig(d easemob.Doer) easemob.Config {
	return easemob.Config{
		OrgName:    testOrg,
		AppName:    testApp,
		ServerURL:  "https://a1.easemob.test",
		Token:      testToken,
		HTTPClient: d,
		Logger:     slogx.Discard(),
	}
}

func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m), "body: %s", body)
	return m
}
