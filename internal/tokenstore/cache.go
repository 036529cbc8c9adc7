package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/easemob/pkg/cryptox"
)

// DefaultExpirySkew is subtracted from the provider's lifetime so a cached
// token is dropped before EaseMob stops accepting it.
const DefaultExpirySkew = 5 * time.Minute

// Cache seals tokens on the way into Tokens and opens them on the way out.
type Cache struct {
	tokens Tokens
	sealer *cryptox.Sealer
	now    func() time.Time
	skew   time.Duration
}

func NewCache(tokens Tokens, sealer *cryptox.Sealer) *Cache {
	return &Cache{
		tokens: tokens,
		sealer: sealer,
		now:    time.Now,
		skew:   DefaultExpirySkew,
	}
}

// WithClock overrides the time source.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Load returns the plaintext token for appKey. Expired or undecryptable
// entries are deleted and reported as ErrNotFound.
func (c *Cache) Load(ctx context.Context, appKey string) (string, time.Time, error) {
	t, err := c.tokens.GetToken(ctx, appKey)
	if err != nil {
		return "", time.Time{}, err
	}

	if t.Expired(c.now()) {
		if err := c.tokens.DeleteToken(ctx, appKey); err != nil {
			return "", time.Time{}, fmt.Errorf("delete expired token: %w", err)
		}
		return "", time.Time{}, ErrNotFound
	}

	plain, err := c.sealer.Open(t.Sealed, []byte(appKey))
	if err != nil {
		// Sealed with another key, e.g. after a secret rotation.
		if err := c.tokens.DeleteToken(ctx, appKey); err != nil {
			return "", time.Time{}, fmt.Errorf("delete unreadable token: %w", err)
		}
		return "", time.Time{}, ErrNotFound
	}
	return string(plain), t.ExpiresAt, nil
}

// Save stores token for appKey. expiresIn is the provider's lifetime in
// seconds; zero or negative stores a token without expiry.
func (c *Cache) Save(ctx context.Context, appKey, token string, expiresIn int64) error {
	if token == "" {
		return errors.New("tokenstore: empty token")
	}

	sealed, err := c.sealer.Seal([]byte(token), []byte(appKey))
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}

	now := c.now().UTC()
	var expiresAt time.Time
	if expiresIn > 0 {
		lifetime := time.Duration(expiresIn) * time.Second
		expiresAt = now.Add(lifetime - min(c.skew, lifetime/2))
	}

	return c.tokens.PutToken(ctx, Token{
		AppKey:    appKey,
		Sealed:    sealed,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	})
}

// Forget deletes the token for appKey.
func (c *Cache) Forget(ctx context.Context, appKey string) error {
	return c.tokens.DeleteToken(ctx, appKey)
}
