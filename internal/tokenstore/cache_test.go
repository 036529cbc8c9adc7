package tokenstore_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/easemob/internal/tokenstore"
	"github.com/aussiebroadwan/easemob/internal/tokenstore/drivers/sqlite"
	"github.com/aussiebroadwan/easemob/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, secret string) (*tokenstore.Cache, tokenstore.Tokens) {
	t.Helper()

	s, err := sqlite.NewStore(fmt.Sprintf("file:%s", filepath.Join(t.TempDir(), "cache.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	sealer, err := cryptox.NewSealer([]byte(secret), "easemob token cache")
	require.NoError(t, err)
	return tokenstore.NewCache(s.Tokens(), sealer), s.Tokens()
}

func TestCacheSaveLoad(t *testing.T) {
	t.Parallel()

	now := time.Unix(1800000000, 0).UTC()
	cache, tokens := newCache(t, "secret")
	cache.WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "acme#chat", "YWMt-token", 3600))

	stored, err := tokens.GetToken(ctx, "acme#chat")
	require.NoError(t, err)
	require.NotContains(t, string(stored.Sealed), "YWMt-token")
	require.Equal(t, now.Add(time.Hour-tokenstore.DefaultExpirySkew), stored.ExpiresAt)

	tok, exp, err := cache.Load(ctx, "acme#chat")
	require.NoError(t, err)
	require.Equal(t, "YWMt-token", tok)
	require.Equal(t, stored.ExpiresAt, exp)
}

func TestCacheShortLifetimeKeepsHalf(t *testing.T) {
	t.Parallel()

	now := time.Unix(1800000000, 0).UTC()
	cache, tokens := newCache(t, "secret")
	cache.WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "acme#chat", "tok", 60))
	stored, err := tokens.GetToken(ctx, "acme#chat")
	require.NoError(t, err)
	require.Equal(t, now.Add(30*time.Second), stored.ExpiresAt)
}

func TestCacheExpiredIsDropped(t *testing.T) {
	t.Parallel()

	now := time.Unix(1800000000, 0).UTC()
	cache, tokens := newCache(t, "secret")
	cache.WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "acme#chat", "tok", 3600))

	cache.WithClock(func() time.Time { return now.Add(2 * time.Hour) })
	_, _, err := cache.Load(ctx, "acme#chat")
	require.ErrorIs(t, err, tokenstore.ErrNotFound)

	_, err = tokens.GetToken(ctx, "acme#chat")
	require.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestCacheWrongKeyIsDropped(t *testing.T) {
	t.Parallel()

	cache, tokens := newCache(t, "old-secret")
	ctx := context.Background()
	require.NoError(t, cache.Save(ctx, "acme#chat", "tok", 0))

	sealer, err := cryptox.NewSealer([]byte("new-secret"), "easemob token cache")
	require.NoError(t, err)
	rotated := tokenstore.NewCache(tokens, sealer)

	_, _, err = rotated.Load(ctx, "acme#chat")
	require.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestCacheForget(t *testing.T) {
	t.Parallel()

	cache, _ := newCache(t, "secret")
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "acme#chat", "tok", 0))
	require.NoError(t, cache.Forget(ctx, "acme#chat"))

	_, _, err := cache.Load(ctx, "acme#chat")
	require.ErrorIs(t, err, tokenstore.ErrNotFound)
	require.Error(t, cache.Save(ctx, "acme#chat", "", 0))
}
