package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/campuskart/campuskart/internal/domain/cart"
	"github.com/campuskart/campuskart/internal/domain/product"
)

type cartItemResponse struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// getCart returns the authenticated buyer's cart line items.
func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.carts.ListForBuyer(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	out := make([]cartItemResponse, len(items))
	for i, item := range items {
		out[i] = cartItemResponse{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	writeJSON(w, http.StatusOK, out)
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// addToCart adds a product to the buyer's cart, accumulating quantity for
// repeated adds of the same product.
func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "quantity must be at least 1")
		return
	}

	// The product must exist before it can be carted.
	if _, err := h.products.GetByID(r.Context(), req.ProductID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, codeNotFound, "product not found")
			return
		}
		writeInternalError(w, r, err)
		return
	}

	item := cart.Item{
		BuyerID:   UserIDFromContext(r.Context()),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}
	if err := h.carts.Upsert(r.Context(), item); err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "added to cart"})
}

// updateCart sets the quantity of an existing cart entry.
func (h *Handler) updateCart(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "quantity must be at least 1")
		return
	}

	item, err := h.carts.UpdateQuantity(r.Context(), UserIDFromContext(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, codeNotFound, "cart item not found")
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartItemResponse{ProductID: item.ProductID, Quantity: item.Quantity})
}

// removeFromCart deletes a single cart entry.
func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	err := h.carts.Remove(r.Context(), UserIDFromContext(r.Context()), r.PathValue("productID"))
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, codeNotFound, "cart item not found")
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "removed from cart"})
}
