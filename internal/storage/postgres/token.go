package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskart/campuskart/internal/domain/auth"
)

var _ auth.Repository = (*TokenRepository)(nil)

// TokenRepository provides bearer-token lookups backed by PostgreSQL.
type TokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository returns a TokenRepository that uses the given pool.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// FindByHash looks up a token by its SHA-256 hash. Returns an error wrapping
// pgx.ErrNoRows when no matching token exists.
func (r *TokenRepository) FindByHash(ctx context.Context, hash string) (*auth.TokenInfo, error) {
	row := from(ctx, r.pool).QueryRow(ctx,
		`SELECT token_hash, user_id FROM auth_tokens WHERE token_hash = $1`, hash)

	var info auth.TokenInfo
	if err := row.Scan(&info.TokenHash, &info.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrap(err, "token not found")
		}
		return nil, errors.Wrap(err, "finding token by hash")
	}
	return &info, nil
}

// Insert stores a token hash for a user. Used by the seeding tools; the API
// itself never writes tokens.
func (r *TokenRepository) Insert(ctx context.Context, info auth.TokenInfo) error {
	_, err := from(ctx, r.pool).Exec(ctx,
		`INSERT INTO auth_tokens (token_hash, user_id) VALUES ($1, $2)
		 ON CONFLICT (token_hash) DO NOTHING`,
		info.TokenHash, info.UserID)
	if err != nil {
		return errors.Wrap(err, "insert token")
	}
	return nil
}
