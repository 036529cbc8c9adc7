package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/easemob/internal/tokenstore"
	"github.com/aussiebroadwan/easemob/internal/tokenstore/drivers/sqlite"
	"github.com/aussiebroadwan/easemob/pkg/cryptox"
	"github.com/aussiebroadwan/easemob/pkg/easemob"
	"github.com/aussiebroadwan/easemob/pkg/httpx"
	"github.com/aussiebroadwan/easemob/pkg/slogx"
	"github.com/carlmjohnson/versioninfo"
	"github.com/prometheus/client_golang/prometheus"
)

const sealInfo = "easemob token cache v1"

// Application wires configuration, logging, the token cache and the
// EaseMob client together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    tokenstore.Store // nil when persistence is disabled
	cache *tokenstore.Cache

	registry *prometheus.Registry
	client   *easemob.Client
}

// New builds the application. Unless a token is configured or cached, it
// performs a client_credentials grant before returning.
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.NewLogger(slogx.Config{
			Service: "easemob",
			Version: versioninfo.Short(),
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Writer:  cfg.LogWriter,
		}),
		registry: prometheus.NewRegistry(),
	}

	if err := app.initTokenStore(ctx); err != nil {
		return nil, err
	}

	if err := app.initClient(ctx); err != nil {
		_ = app.closeStore()
		return nil, err
	}

	return app, nil
}

func (app *Application) initTokenStore(ctx context.Context) error {
	if app.cfg.TokenDB == "" {
		return nil
	}
	if len(app.cfg.sealingKey()) == 0 {
		app.logger.Warn("token cache disabled: no client secret or EASEMOB_TOKEN_KEY to seal tokens with")
		return nil
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.TokenDB)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to open token store: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to migrate token store: %w", err)
	}

	sealer, err := cryptox.NewSealer(app.cfg.sealingKey(), sealInfo)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to create token sealer: %w", err)
	}

	if n, err := db.Tokens().DeleteExpiredTokens(ctx, time.Now()); err != nil {
		app.logger.Warn("failed to prune expired tokens", "error", err)
	} else if n > 0 {
		app.logger.Debug("pruned expired tokens", "count", n)
	}

	app.db = db
	app.cache = tokenstore.NewCache(db.Tokens(), sealer)
	return nil
}

func (app *Application) initClient(ctx context.Context) error {
	metrics := httpx.NewMetrics(app.registry)
	httpClient := httpx.NewClient(app.cfg.HTTPTimeout,
		slogx.TransportMiddleware(app.logger),
		httpx.RateLimitByHost(app.cfg.RateLimit),
		metrics.Middleware(),
	)

	token := app.cfg.Token
	if token == "" && app.cache != nil {
		cached, expiresAt, err := app.cache.Load(ctx, app.cfg.AppKey())
		switch {
		case err == nil:
			token = cached
			app.logger.Debug("using cached token",
				"token_fp", cryptox.ShortFingerprint(cached),
				"expires_at", expiresAt,
			)
		case errors.Is(err, tokenstore.ErrNotFound):
		default:
			app.logger.Warn("failed to read cached token", "error", err)
		}
	}

	client, err := easemob.New(ctx, easemob.Config{
		ClientID:       app.cfg.ClientID,
		ClientSecret:   app.cfg.ClientSecret,
		OrgName:        app.cfg.OrgName,
		AppName:        app.cfg.AppName,
		ServerURL:      app.cfg.ServerURL,
		Token:          token,
		HTTPClient:     httpClient,
		Logger:         app.logger,
		OnTokenFetched: app.persistToken,
	})
	if err != nil {
		return err
	}

	app.client = client
	return nil
}

// persistToken stores freshly granted tokens. Failures are logged only; the
// in-memory token is still valid.
func (app *Application) persistToken(ctx context.Context, tr *easemob.TokenResponse) {
	if app.cache == nil {
		return
	}
	if err := app.cache.Save(ctx, app.cfg.AppKey(), tr.AccessToken, tr.ExpiresIn); err != nil {
		app.logger.Warn("failed to cache token", "error", err)
	}
}

func (app *Application) Client() *easemob.Client { return app.client }

func (app *Application) Logger() *slog.Logger { return app.logger }

// Registry exposes the client metrics.
func (app *Application) Registry() *prometheus.Registry { return app.registry }

// RefreshToken discards any cached token and performs a new grant.
func (app *Application) RefreshToken(ctx context.Context) (*easemob.TokenResponse, error) {
	if err := app.ForgetToken(ctx); err != nil {
		return nil, err
	}
	return app.client.FetchToken(ctx)
}

// ForgetToken drops the token from memory and from the persistent cache.
func (app *Application) ForgetToken(ctx context.Context) error {
	app.client.ResetToken()
	if app.cache == nil {
		return nil
	}
	if err := app.cache.Forget(ctx, app.cfg.AppKey()); err != nil {
		return fmt.Errorf("failed to forget cached token: %w", err)
	}
	return nil
}

// Close writes the metrics textfile, if configured, and closes the store.
func (app *Application) Close() error {
	var errs []error
	if app.cfg.MetricsTextfile != "" {
		if err := prometheus.WriteToTextfile(app.cfg.MetricsTextfile, app.registry); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
		}
	}
	if err := app.closeStore(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (app *Application) closeStore() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}
