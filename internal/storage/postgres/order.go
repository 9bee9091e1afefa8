package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskart/campuskart/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// WithTx runs fn inside a single database transaction. Cart operations made
// with the same context join the transaction.
func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// LockCheckout takes a transaction-scoped advisory lock keyed on the buyer,
// serializing concurrent checkouts by the same buyer. Released on commit or
// rollback.
func (r *OrderRepository) LockCheckout(ctx context.Context, buyerID string) error {
	_, err := from(ctx, r.pool).Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, buyerID)
	if err != nil {
		return errors.Wrap(err, "advisory lock")
	}
	return nil
}

// CreateBatch inserts all orders in one statement batch. Callers wrap this in
// WithTx so the insert is atomic with the cart clear.
func (r *OrderRepository) CreateBatch(ctx context.Context, orders []order.Order) error {
	const stmt = `
INSERT INTO orders (id, buyer_id, product_id, seller_id, quantity, code_hash, delivered, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	batch := &pgx.Batch{}
	for _, o := range orders {
		batch.Queue(stmt,
			o.ID, o.BuyerID, o.ProductID, o.SellerID,
			o.Quantity, o.CodeHash, o.Delivered, o.CreatedAt,
		)
	}

	br := from(ctx, r.pool).SendBatch(ctx, batch)
	defer br.Close()

	for range orders {
		if _, err := br.Exec(); err != nil {
			return errors.Wrap(err, "insert order")
		}
	}
	return nil
}

const orderColumns = `id, buyer_id, product_id, seller_id, quantity, code_hash, delivered, created_at`

// GetByID returns a single order. Returns order.ErrOrderNotFound when the
// identifier does not resolve.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	row := from(ctx, r.pool).QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, order.ErrOrderNotFound
		}
		return nil, errors.Wrapf(err, "get order %q", id)
	}
	return o, nil
}

// ListByBuyer returns the buyer's orders, newest first.
func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]order.Order, error) {
	rows, err := from(ctx, r.pool).Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`,
		buyerID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders by buyer")
	}
	return collectOrders(rows)
}

// ListBySeller returns the seller's orders filtered by delivery status,
// newest first.
func (r *OrderRepository) ListBySeller(ctx context.Context, sellerID string, delivered bool) ([]order.Order, error) {
	rows, err := from(ctx, r.pool).Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE seller_id = $1 AND delivered = $2 ORDER BY created_at DESC`,
		sellerID, delivered)
	if err != nil {
		return nil, errors.Wrap(err, "list orders by seller")
	}
	return collectOrders(rows)
}

// SetDelivered flips the delivery flag to true. The WHERE clause refuses to
// touch already-delivered rows, so the false-to-true transition happens at
// most once even under concurrent confirmations.
func (r *OrderRepository) SetDelivered(ctx context.Context, id string) error {
	tag, err := from(ctx, r.pool).Exec(ctx,
		`UPDATE orders SET delivered = TRUE WHERE id = $1 AND delivered = FALSE`, id)
	if err != nil {
		return errors.Wrapf(err, "set delivered %q", id)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

// SetCodeHash replaces the order's stored delivery-code hash.
func (r *OrderRepository) SetCodeHash(ctx context.Context, id, hash string) error {
	tag, err := from(ctx, r.pool).Exec(ctx,
		`UPDATE orders SET code_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return errors.Wrapf(err, "set code hash %q", id)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.BuyerID, &o.ProductID, &o.SellerID,
		&o.Quantity, &o.CodeHash, &o.Delivered, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]order.Order, error) {
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate orders")
	}
	return out, nil
}
