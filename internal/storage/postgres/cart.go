package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskart/campuskart/internal/domain/cart"
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL. Its
// DeleteAllForBuyer joins the checkout transaction when the context carries
// one.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// ListForBuyer returns the buyer's current cart line items.
func (r *CartRepository) ListForBuyer(ctx context.Context, buyerID string) ([]cart.Item, error) {
	rows, err := from(ctx, r.pool).Query(ctx,
		`SELECT buyer_id, product_id, quantity FROM cart_items WHERE buyer_id = $1`,
		buyerID)
	if err != nil {
		return nil, errors.Wrap(err, "list cart items")
	}
	defer rows.Close()

	var out []cart.Item
	for rows.Next() {
		var item cart.Item
		if err := rows.Scan(&item.BuyerID, &item.ProductID, &item.Quantity); err != nil {
			return nil, errors.Wrap(err, "scan cart item")
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate cart items")
	}
	return out, nil
}

// Upsert adds the item to the cart, accumulating quantity when the product is
// already present.
func (r *CartRepository) Upsert(ctx context.Context, item cart.Item) error {
	_, err := from(ctx, r.pool).Exec(ctx,
		`INSERT INTO cart_items (buyer_id, product_id, quantity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (buyer_id, product_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		item.BuyerID, item.ProductID, item.Quantity)
	if err != nil {
		return errors.Wrap(err, "upsert cart item")
	}
	return nil
}

// UpdateQuantity sets the quantity of an existing cart entry. Returns
// cart.ErrItemNotFound when the buyer has no entry for the product.
func (r *CartRepository) UpdateQuantity(ctx context.Context, buyerID, productID string, quantity int) (*cart.Item, error) {
	row := from(ctx, r.pool).QueryRow(ctx,
		`UPDATE cart_items SET quantity = $3
		 WHERE buyer_id = $1 AND product_id = $2
		 RETURNING buyer_id, product_id, quantity`,
		buyerID, productID, quantity)

	var item cart.Item
	if err := row.Scan(&item.BuyerID, &item.ProductID, &item.Quantity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, cart.ErrItemNotFound
		}
		return nil, errors.Wrap(err, "update cart quantity")
	}
	return &item, nil
}

// Remove deletes a single cart entry. Returns cart.ErrItemNotFound when
// nothing was removed.
func (r *CartRepository) Remove(ctx context.Context, buyerID, productID string) error {
	tag, err := from(ctx, r.pool).Exec(ctx,
		`DELETE FROM cart_items WHERE buyer_id = $1 AND product_id = $2`,
		buyerID, productID)
	if err != nil {
		if isInvalidUUID(err) {
			return cart.ErrItemNotFound
		}
		return errors.Wrap(err, "remove cart item")
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// DeleteAllForBuyer removes every cart entry owned by the buyer. Called with
// a transaction-carrying context during checkout so it commits or rolls back
// with the order batch.
func (r *CartRepository) DeleteAllForBuyer(ctx context.Context, buyerID string) error {
	_, err := from(ctx, r.pool).Exec(ctx,
		`DELETE FROM cart_items WHERE buyer_id = $1`, buyerID)
	if err != nil {
		return errors.Wrap(err, "clear cart")
	}
	return nil
}
