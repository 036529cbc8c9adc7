package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/easemob/internal/tokenstore"
)

type tokensRepo struct {
	db *sql.DB
}

const getToken = `
SELECT app_key, token, expires_at, created_at
FROM access_tokens
WHERE app_key = ?`

func (r *tokensRepo) GetToken(ctx context.Context, appKey string) (tokenstore.Token, error) {
	var (
		t                    tokenstore.Token
		expiresAt, createdAt int64
	)
	err := r.db.QueryRowContext(ctx, getToken, appKey).Scan(&t.AppKey, &t.Sealed, &expiresAt, &createdAt)
	if err != nil {
		return tokenstore.Token{}, mapNotFound(err)
	}
	t.ExpiresAt = fromUnix(expiresAt)
	t.CreatedAt = fromUnix(createdAt)
	return t, nil
}

const putToken = `
INSERT INTO access_tokens (app_key, token, expires_at, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (app_key) DO UPDATE SET
	token = excluded.token,
	expires_at = excluded.expires_at,
	created_at = excluded.created_at`

func (r *tokensRepo) PutToken(ctx context.Context, t tokenstore.Token) error {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, putToken, t.AppKey, t.Sealed, toUnix(t.ExpiresAt), toUnix(createdAt))
	return err
}

const deleteToken = `DELETE FROM access_tokens WHERE app_key = ?`

func (r *tokensRepo) DeleteToken(ctx context.Context, appKey string) error {
	_, err := r.db.ExecContext(ctx, deleteToken, appKey)
	return err
}

const deleteExpiredTokens = `DELETE FROM access_tokens WHERE expires_at > 0 AND expires_at <= ?`

func (r *tokensRepo) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteExpiredTokens, now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
