// Package handler exposes the marketplace over HTTP. Handlers are plain
// net/http funcs registered on a method-and-path mux; business logic lives in
// the domain services and repositories injected here.
package handler

import (
	"context"
	"net/http"

	"github.com/campuskart/campuskart/internal/domain/auth"
	"github.com/campuskart/campuskart/internal/domain/cart"
	"github.com/campuskart/campuskart/internal/domain/order"
	"github.com/campuskart/campuskart/internal/domain/product"
	"github.com/campuskart/campuskart/internal/domain/user"
)

// OrderService is the order workflow surface the handlers invoke.
type OrderService interface {
	PlaceOrders(ctx context.Context, buyerID string, items []order.LineItem) ([]order.PlacedOrder, error)
	ConfirmDelivery(ctx context.Context, orderID, code string) error
	RegenerateCode(ctx context.Context, actorID, orderID string) (string, error)
	ListBought(ctx context.Context, buyerID string) ([]order.Order, error)
	ListSold(ctx context.Context, sellerID string, delivered bool) ([]order.Order, error)
}

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	orders   OrderService
	products product.Repository
	carts    cart.Repository
	users    user.Repository
	tokens   auth.Repository
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	orders OrderService,
	products product.Repository,
	carts cart.Repository,
	users user.Repository,
	tokens auth.Repository,
) *Handler {
	return &Handler{
		orders:   orders,
		products: products,
		carts:    carts,
		users:    users,
		tokens:   tokens,
	}
}

// Register mounts all API routes on the mux. Catalog reads are public;
// everything else requires a bearer token.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{productID}", h.getProduct)
	mux.HandleFunc("POST /api/products", h.requireAuth(h.createProduct))

	mux.HandleFunc("GET /api/cart", h.requireAuth(h.getCart))
	mux.HandleFunc("POST /api/cart", h.requireAuth(h.addToCart))
	mux.HandleFunc("PATCH /api/cart", h.requireAuth(h.updateCart))
	mux.HandleFunc("DELETE /api/cart/{productID}", h.requireAuth(h.removeFromCart))

	mux.HandleFunc("POST /api/orders", h.requireAuth(h.placeOrders))
	mux.HandleFunc("GET /api/orders/bought", h.requireAuth(h.listBought))
	mux.HandleFunc("GET /api/orders/sold", h.requireAuth(h.listSold))
	mux.HandleFunc("GET /api/orders/sold/undelivered", h.requireAuth(h.listSoldUndelivered))
	mux.HandleFunc("POST /api/orders/{orderID}/confirm", h.requireAuth(h.confirmDelivery))
	mux.HandleFunc("POST /api/orders/{orderID}/regenerate-code", h.requireAuth(h.regenerateCode))

	mux.HandleFunc("POST /api/reviews", h.requireAuth(h.addReview))
}
