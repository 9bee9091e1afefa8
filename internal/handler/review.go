package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/campuskart/campuskart/internal/domain/order"
	"github.com/campuskart/campuskart/internal/domain/user"
)

type addReviewRequest struct {
	OrderID string `json:"orderId"`
	Review  string `json:"review"`
}

// addReview appends a buyer's review to the seller of a completed order. The
// order is resolved through the service's listing surface so the seller ID
// comes from the record, not the client.
func (h *Handler) addReview(w http.ResponseWriter, r *http.Request) {
	var req addReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Review == "" {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "review required")
		return
	}

	buyerID := UserIDFromContext(r.Context())
	bought, err := h.orders.ListBought(r.Context(), buyerID)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	var target *order.Order
	for i := range bought {
		if bought[i].ID == req.OrderID {
			target = &bought[i]
			break
		}
	}
	if target == nil {
		writeError(w, http.StatusNotFound, codeNotFound, "order not found")
		return
	}

	if err := h.users.AddReview(r.Context(), target.SellerID, req.Review); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusNotFound, codeNotFound, "seller not found")
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "review added"})
}
