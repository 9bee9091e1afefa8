package cart

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrItemNotFound is returned when a buyer has no cart entry for a product.
var ErrItemNotFound = errors.New("cart item not found")

// Item is one (product, quantity) line in a buyer's cart.
type Item struct {
	BuyerID   string
	ProductID string
	Quantity  int
}

// Repository defines persistence operations for cart line items.
//
// DeleteAllForBuyer participates in the checkout transaction: when called
// inside an order.Repository WithTx scope it must commit or roll back
// together with the order batch.
type Repository interface {
	ListForBuyer(ctx context.Context, buyerID string) ([]Item, error)
	Upsert(ctx context.Context, item Item) error
	UpdateQuantity(ctx context.Context, buyerID, productID string, quantity int) (*Item, error)
	Remove(ctx context.Context, buyerID, productID string) error
	DeleteAllForBuyer(ctx context.Context, buyerID string) error
}
