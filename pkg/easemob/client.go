package easemob

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/sync/singleflight"
)

// DefaultServerURL is the public EaseMob REST endpoint.
const DefaultServerURL = "https://a1.easemob.com"

// DefaultTimeout applies to the default HTTP client.
const DefaultTimeout = 10 * time.Second

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Config holds the credentials and collaborators of a Client.
type Config struct {
	// ClientID and ClientSecret are the application's client credentials.
	// They may be empty when Token is set.
	ClientID     string
	ClientSecret string

	// OrgName and AppName identify the EaseMob application.
	OrgName string
	AppName string

	// ServerURL is the REST host, e.g. https://a1.easemob.com
	ServerURL string

	// Token is an access token obtained earlier. When set, New does not
	// contact the token endpoint.
	Token string

	// HTTPClient defaults to a pooled go-cleanhttp client with DefaultTimeout.
	HTTPClient Doer

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// UserAgent defaults to "easemob-go/<version>".
	UserAgent string

	// OnTokenFetched is called after every successful client_credentials
	// grant. It is not called for tokens set with SetToken.
	OnTokenFetched func(context.Context, *TokenResponse)
}

// Validate reports missing or malformed fields.
func (c Config) Validate() error {
	if strings.TrimSpace(c.OrgName) == "" {
		return fmt.Errorf("%w: org name is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.AppName) == "" {
		return fmt.Errorf("%w: app name is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.ServerURL) == "" {
		return fmt.Errorf("%w: server url is required", ErrInvalidConfig)
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("%w: server url: %v", ErrInvalidConfig, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: server url must be an absolute http(s) url", ErrInvalidConfig)
	}
	if c.Token == "" && (c.ClientID == "" || c.ClientSecret == "") {
		return fmt.Errorf("%w: client id and secret are required without a token", ErrInvalidConfig)
	}
	return nil
}

// AppKey returns "{org}#{app}", the EaseMob application identifier.
func (c Config) AppKey() string {
	return c.OrgName + "#" + c.AppName
}

// Client is an authenticated EaseMob REST client. It is safe for
// concurrent use.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   Doer
	logger       *slog.Logger
	userAgent    string
	onToken      func(context.Context, *TokenResponse)

	mu           sync.RWMutex
	token        string
	lastResponse *Response

	tokenGroup singleflight.Group
}

// New validates cfg and returns a Client. Unless cfg.Token is set, the
// access token is fetched before New returns so bad credentials fail here.
func New(ctx context.Context, cfg Config) (*Client, error) {
	c, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	if c.token == "" {
		if _, err := c.Token(ctx); err != nil {
			return nil, fmt.Errorf("fetch access token: %w", err)
		}
	}
	return c, nil
}

func newClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		hc := cleanhttp.DefaultPooledClient()
		hc.Timeout = DefaultTimeout
		httpClient = hc
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "easemob-go/" + versioninfo.Short()
	}

	return &Client{
		baseURL:      strings.TrimSuffix(cfg.ServerURL, "/") + "/" + cfg.OrgName + "/" + cfg.AppName + "/",
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   httpClient,
		logger:       logger.With("app_key", cfg.AppKey()),
		userAgent:    userAgent,
		onToken:      cfg.OnTokenFetched,
		token:        cfg.Token,
	}, nil
}

// BaseURL returns "{server}/{org}/{app}/".
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LastResponse returns the response of the most recent dispatched call,
// the token grant included. It is nil before the first call and after a
// call that produced no response.
func (c *Client) LastResponse() *Response {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastResponse
}

func (c *Client) setLastResponse(resp *Response) {
	c.mu.Lock()
	c.lastResponse = resp
	c.mu.Unlock()
}
