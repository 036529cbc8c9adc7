package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/easemob/internal/tokenstore"
	"github.com/aussiebroadwan/easemob/internal/tokenstore/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", filepath.Join(t.TempDir(), "tokens.db"))
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestTokensRoundTrip(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()
	tokens := s.Tokens()

	_, err := tokens.GetToken(ctx, "acme#chat")
	require.ErrorIs(t, err, tokenstore.ErrNotFound)

	expires := time.Unix(1900000000, 0).UTC()
	created := time.Unix(1800000000, 0).UTC()
	require.NoError(t, tokens.PutToken(ctx, tokenstore.Token{
		AppKey:    "acme#chat",
		Sealed:    []byte{0x01, 0x02, 0x03},
		ExpiresAt: expires,
		CreatedAt: created,
	}))

	got, err := tokens.GetToken(ctx, "acme#chat")
	require.NoError(t, err)
	require.Equal(t, "acme#chat", got.AppKey)
	require.Equal(t, []byte{0x01, 0x02, 0x03}, got.Sealed)
	require.Equal(t, expires, got.ExpiresAt)
	require.Equal(t, created, got.CreatedAt)

	t.Run("put replaces", func(t *testing.T) {
		require.NoError(t, tokens.PutToken(ctx, tokenstore.Token{
			AppKey: "acme#chat",
			Sealed: []byte{0x09},
		}))
		got, err := tokens.GetToken(ctx, "acme#chat")
		require.NoError(t, err)
		require.Equal(t, []byte{0x09}, got.Sealed)
		require.True(t, got.ExpiresAt.IsZero())
		require.False(t, got.CreatedAt.IsZero())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, tokens.DeleteToken(ctx, "acme#chat"))
		require.NoError(t, tokens.DeleteToken(ctx, "acme#chat"))
		_, err := tokens.GetToken(ctx, "acme#chat")
		require.ErrorIs(t, err, tokenstore.ErrNotFound)
	})
}

func TestDeleteExpiredTokens(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()
	tokens := s.Tokens()
	now := time.Unix(1800000000, 0).UTC()

	for key, exp := range map[string]time.Time{
		"a#expired": now.Add(-time.Hour),
		"b#edge":    now,
		"c#fresh":   now.Add(time.Hour),
		"d#forever": {},
	} {
		require.NoError(t, tokens.PutToken(ctx, tokenstore.Token{AppKey: key, Sealed: []byte("x"), ExpiresAt: exp}))
	}

	n, err := tokens.DeleteExpiredTokens(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	for _, key := range []string{"c#fresh", "d#forever"} {
		_, err := tokens.GetToken(ctx, key)
		require.NoError(t, err, key)
	}
}
