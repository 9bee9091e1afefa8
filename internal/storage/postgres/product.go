package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskart/campuskart/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, seller_id, name, description, category, price, created_at`

// List returns all products in the catalog, newest first.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := from(ctx, r.pool).Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return collectProducts(rows)
}

// GetByID returns a single product by its identifier. Returns
// product.ErrNotFound when no matching product exists.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	row := from(ctx, r.pool).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %q", id)
	}
	return p, nil
}

// GetByIDs returns the products matching the given identifiers in a single
// query. Missing IDs are simply absent from the result; callers decide
// whether that is an error.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	rows, err := from(ctx, r.pool).Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get products by ids")
	}

	out, err := collectProducts(rows)
	if err != nil {
		// A malformed ID in the list fails the cast server-side; treat it the
		// same as an unknown product.
		if isInvalidUUID(err) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// Create persists a new product listing.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := from(ctx, r.pool).Exec(ctx,
		`INSERT INTO products (id, seller_id, name, description, category, price, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.SellerID, p.Name, p.Description, p.Category, p.Price, p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.Wrapf(err, "seller %q does not exist", p.SellerID)
		}
		return errors.Wrapf(err, "create product %q", p.ID)
	}
	return nil
}

// Upsert inserts or refreshes a product listing. Used by the seeding and
// ingest tools; the API itself only inserts.
func (r *ProductRepository) Upsert(ctx context.Context, p *product.Product) error {
	_, err := from(ctx, r.pool).Exec(ctx,
		`INSERT INTO products (id, seller_id, name, description, category, price, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			price = EXCLUDED.price`,
		p.ID, p.SellerID, p.Name, p.Description, p.Category, p.Price, p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.Wrapf(err, "seller %q does not exist", p.SellerID)
		}
		return errors.Wrapf(err, "upsert product %q", p.ID)
	}
	return nil
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.SellerID, &p.Name, &p.Description,
		&p.Category, &p.Price, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]product.Product, error) {
	defer rows.Close()

	var out []product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate products")
	}
	return out, nil
}
