package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskart/campuskart/internal/domain/user"
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID returns a single user. Returns user.ErrNotFound when the identifier
// does not resolve.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	row := from(ctx, r.pool).QueryRow(ctx,
		`SELECT id, first_name, last_name, email, reviews FROM users WHERE id = $1`, id)

	var u user.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Reviews)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get user %q", id)
	}
	return &u, nil
}

// Create persists a new user account.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := from(ctx, r.pool).Exec(ctx,
		`INSERT INTO users (id, first_name, last_name, email) VALUES ($1, $2, $3, $4)`,
		u.ID, u.FirstName, u.LastName, u.Email)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(err, "user %q already exists", u.Email)
		}
		return errors.Wrapf(err, "create user %q", u.ID)
	}
	return nil
}

// Upsert inserts or refreshes a user account. Used by the seeding tools.
func (r *UserRepository) Upsert(ctx context.Context, u *user.User) error {
	_, err := from(ctx, r.pool).Exec(ctx,
		`INSERT INTO users (id, first_name, last_name, email) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email`,
		u.ID, u.FirstName, u.LastName, u.Email)
	if err != nil {
		return errors.Wrapf(err, "upsert user %q", u.ID)
	}
	return nil
}

// AddReview appends a review to the seller's review list.
func (r *UserRepository) AddReview(ctx context.Context, sellerID, review string) error {
	tag, err := from(ctx, r.pool).Exec(ctx,
		`UPDATE users SET reviews = array_append(reviews, $2) WHERE id = $1`,
		sellerID, review)
	if err != nil {
		return errors.Wrapf(err, "add review for %q", sellerID)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}
