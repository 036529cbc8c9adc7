// Package tokenstore persists EaseMob access tokens between process runs so
// short-lived tools do not perform a client_credentials grant every time.
package tokenstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("tokenstore: not found")

// Token is a persisted access token. The token itself is stored sealed;
// see Cache for the plaintext view.
type Token struct {
	// AppKey is "{org}#{app}".
	AppKey string
	// Sealed is the encrypted access token.
	Sealed []byte
	// ExpiresAt is zero when the provider reported no lifetime.
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past ExpiresAt at now.
func (t Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// Store is the root data access interface implemented by drivers.
type Store interface {
	Tokens() Tokens

	ApplyMigrations() error

	// Close releases the underlying database.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Tokens interface {
	// GetToken returns the token stored for appKey or ErrNotFound.
	GetToken(ctx context.Context, appKey string) (Token, error)

	// PutToken inserts or replaces the token for t.AppKey.
	PutToken(ctx context.Context, t Token) error

	// DeleteToken removes the token for appKey. Deleting a missing token is
	// not an error.
	DeleteToken(ctx context.Context, appKey string) error

	// DeleteExpiredTokens removes tokens expired at now and returns how many
	// were removed.
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}
