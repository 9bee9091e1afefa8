package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/campuskart/campuskart/internal/clock"
	"github.com/campuskart/campuskart/internal/domain/cart"
	"github.com/campuskart/campuskart/internal/domain/product"
	"github.com/campuskart/campuskart/internal/otp"
)

// Service encapsulates the order placement, delivery confirmation, and code
// regeneration workflows.
type Service struct {
	products product.Repository
	carts    cart.Repository
	orders   Repository
	codes    otp.Codec
	clock    clock.Clock
}

// NewService creates an order Service with the required domain dependencies.
func NewService(
	products product.Repository,
	carts cart.Repository,
	orders Repository,
	codes otp.Codec,
	clk clock.Clock,
) *Service {
	return &Service{
		products: products,
		carts:    carts,
		orders:   orders,
		codes:    codes,
		clock:    clk,
	}
}

// PlaceOrders creates one order per line item and clears the buyer's cart,
// all inside one atomic unit of work. Every product must resolve before
// anything is written; a failure anywhere rolls the whole checkout back.
// The returned PlacedOrders carry the plaintext delivery codes, which are
// never persisted.
func (s *Service) PlaceOrders(ctx context.Context, buyerID string, items []LineItem) ([]PlacedOrder, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}

	// Validate quantities and collect product IDs.
	ids := make([]string, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
		ids[i] = item.ProductID
	}

	// Batch fetch all products in a single query.
	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}

	productMap := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		productMap[p.ID] = p
	}

	// Verify every requested product was found before generating anything.
	for _, item := range items {
		if _, ok := productMap[item.ProductID]; !ok {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
	}

	// Build one order per line item. Code generation and bcrypt hashing are
	// independent per item, so hashing fans out across a group; each item
	// writes only its own slot, keeping generated codes item-local.
	now := s.clock.Now()
	placed := make([]PlacedOrder, len(items))

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			code, err := s.codes.Generate()
			if err != nil {
				return errors.Wrap(err, "generate code")
			}
			hash, err := s.codes.Hash(code)
			if err != nil {
				return errors.Wrap(err, "hash code")
			}

			placed[i] = PlacedOrder{
				Order: Order{
					ID:        uuid.New().String(),
					BuyerID:   buyerID,
					ProductID: item.ProductID,
					SellerID:  productMap[item.ProductID].SellerID,
					Quantity:  item.Quantity,
					CodeHash:  hash,
					Delivered: false,
					CreatedAt: now,
				},
				Code: code,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &PlacementError{Err: err}
	}

	batch := make([]Order, len(placed))
	for i, p := range placed {
		batch[i] = p.Order
	}

	// Atomic unit: order batch + cart clear commit or roll back together.
	// The advisory lock serializes concurrent checkouts by the same buyer.
	err = s.orders.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.orders.LockCheckout(txCtx, buyerID); err != nil {
			return errors.Wrap(err, "lock checkout")
		}
		if err := s.orders.CreateBatch(txCtx, batch); err != nil {
			return errors.Wrap(err, "create orders")
		}
		if err := s.carts.DeleteAllForBuyer(txCtx, buyerID); err != nil {
			return errors.Wrap(err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, &PlacementError{Err: err}
	}

	return placed, nil
}

// ConfirmDelivery verifies the submitted code against the order's stored
// hash and marks the order delivered. The delivered flag only ever moves
// false to true; confirming an already-delivered order fails without
// touching the record.
func (s *Service) ConfirmDelivery(ctx context.Context, orderID, code string) error {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Delivered {
		return ErrAlreadyDelivered
	}
	if !s.codes.Verify(code, o.CodeHash) {
		return ErrInvalidCode
	}
	return s.orders.SetDelivered(ctx, orderID)
}

// RegenerateCode replaces the order's stored code hash with a fresh one and
// returns the new plaintext for the caller to relay to the buyer. Only the
// order's buyer or seller may regenerate.
func (s *Service) RegenerateCode(ctx context.Context, actorID, orderID string) (string, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if actorID != o.BuyerID && actorID != o.SellerID {
		return "", ErrForbidden
	}
	if o.Delivered {
		return "", ErrAlreadyDelivered
	}

	code, err := s.codes.Generate()
	if err != nil {
		return "", errors.Wrap(err, "generate code")
	}
	hash, err := s.codes.Hash(code)
	if err != nil {
		return "", errors.Wrap(err, "hash code")
	}

	if err := s.orders.SetCodeHash(ctx, orderID, hash); err != nil {
		return "", errors.Wrap(err, "store code hash")
	}
	return code, nil
}

// ListBought returns the buyer's orders, newest first.
func (s *Service) ListBought(ctx context.Context, buyerID string) ([]Order, error) {
	orders, err := s.orders.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, errors.Wrap(err, "list bought orders")
	}
	return orders, nil
}

// ListSold returns the seller's orders filtered by delivery status, newest
// first. delivered=false is the seller's pending-handoff queue.
func (s *Service) ListSold(ctx context.Context, sellerID string, delivered bool) ([]Order, error) {
	orders, err := s.orders.ListBySeller(ctx, sellerID, delivered)
	if err != nil {
		return nil, errors.Wrap(err, "list sold orders")
	}
	return orders, nil
}
