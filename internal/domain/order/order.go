package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
)

// Sentinel errors for the order workflows.
var (
	ErrEmptyItems       = errors.New("items required")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidCode      = errors.New("invalid delivery code")
	ErrAlreadyDelivered = errors.New("order already delivered")
	ErrForbidden        = errors.New("caller is not a party to this order")
)

// ProductNotFoundError indicates a requested product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// PlacementError wraps any failure inside the checkout unit of work: hashing,
// the order batch insert, or the cart clear. The transaction is fully rolled
// back before this surfaces, so zero orders exist and the cart is unchanged.
type PlacementError struct {
	Err error
}

func (e *PlacementError) Error() string {
	return "order placement failed: " + e.Err.Error()
}

func (e *PlacementError) Unwrap() error {
	return e.Err
}

// Order records a single purchased line item awaiting physical delivery.
// CodeHash is the bcrypt digest of the delivery code; the plaintext is only
// returned at creation and regeneration time, never stored.
type Order struct {
	ID        string
	BuyerID   string
	ProductID string
	SellerID  string
	Quantity  int
	CodeHash  string
	Delivered bool
	CreatedAt time.Time
}

// LineItem is a (product, quantity) pair from the buyer's cart at checkout.
type LineItem struct {
	ProductID string
	Quantity  int
}

// PlacedOrder pairs a created order with its plaintext delivery code for the
// caller to relay to the buyer out-of-band.
type PlacedOrder struct {
	Order Order
	Code  string
}

// Repository defines persistence operations for orders.
//
// WithTx runs fn inside one atomic unit of work: repository calls made with
// the context it passes to fn commit or roll back together, including cart
// deletions issued through the same transaction scope. LockCheckout takes a
// transaction-scoped advisory lock serializing checkouts for one buyer.
type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	LockCheckout(ctx context.Context, buyerID string) error
	CreateBatch(ctx context.Context, orders []Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]Order, error)
	ListBySeller(ctx context.Context, sellerID string, delivered bool) ([]Order, error)
	SetDelivered(ctx context.Context, id string) error
	SetCodeHash(ctx context.Context, id, hash string) error
}
