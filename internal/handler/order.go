package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/campuskart/campuskart/internal/domain/order"
)

type lineItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type placeOrdersRequest struct {
	Items []lineItemRequest `json:"cartItems"`
}

type orderResponse struct {
	ID          string    `json:"id"`
	BuyerID     string    `json:"buyerId"`
	ProductID   string    `json:"productId"`
	SellerID    string    `json:"sellerId"`
	Quantity    int       `json:"quantity"`
	IsDelivered bool      `json:"isDelivered"`
	OrderDate   time.Time `json:"orderDate"`
}

type placedOrderResponse struct {
	orderResponse
	// DeliveryCode is the plaintext code for the buyer, returned only at
	// creation time.
	DeliveryCode string `json:"deliveryCode"`
}

func toOrderResponse(o order.Order) orderResponse {
	return orderResponse{
		ID:          o.ID,
		BuyerID:     o.BuyerID,
		ProductID:   o.ProductID,
		SellerID:    o.SellerID,
		Quantity:    o.Quantity,
		IsDelivered: o.Delivered,
		OrderDate:   o.CreatedAt,
	}
}

// placeOrders creates one order per submitted line item and clears the
// buyer's cart atomically. The response carries the plaintext delivery codes;
// they are not retrievable afterwards.
func (h *Handler) placeOrders(w http.ResponseWriter, r *http.Request) {
	var req placeOrdersRequest
	if !decodeBody(w, r, &req) {
		return
	}

	items := make([]order.LineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.LineItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	buyerID := UserIDFromContext(r.Context())
	placed, err := h.orders.PlaceOrders(r.Context(), buyerID, items)
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	resp := make([]placedOrderResponse, len(placed))
	for i, p := range placed {
		resp[i] = placedOrderResponse{
			orderResponse: toOrderResponse(p.Order),
			DeliveryCode:  p.Code,
		}
	}
	writeJSON(w, http.StatusCreated, map[string]any{"orders": resp})
}

type confirmDeliveryRequest struct {
	Code string `json:"code"`
}

// confirmDelivery verifies the buyer-provided code and marks the order
// delivered.
func (h *Handler) confirmDelivery(w http.ResponseWriter, r *http.Request) {
	var req confirmDeliveryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.orders.ConfirmDelivery(r.Context(), r.PathValue("orderID"), req.Code)
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "delivery confirmed"})
}

// regenerateCode replaces the order's delivery code and returns the new
// plaintext for the caller to relay to the buyer. Only the order's buyer or
// seller may call it.
func (h *Handler) regenerateCode(w http.ResponseWriter, r *http.Request) {
	actorID := UserIDFromContext(r.Context())
	code, err := h.orders.RegenerateCode(r.Context(), actorID, r.PathValue("orderID"))
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deliveryCode": code})
}

// listBought returns the authenticated buyer's orders, newest first.
func (h *Handler) listBought(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListBought(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

// listSold returns the authenticated seller's orders. The delivered query
// parameter filters by status and defaults to completed sales.
func (h *Handler) listSold(w http.ResponseWriter, r *http.Request) {
	delivered := r.URL.Query().Get("delivered") != "false"
	orders, err := h.orders.ListSold(r.Context(), UserIDFromContext(r.Context()), delivered)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

// listSoldUndelivered returns the seller's pending-handoff queue.
func (h *Handler) listSoldUndelivered(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListSold(r.Context(), UserIDFromContext(r.Context()), false)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func toOrderResponses(orders []order.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	return out
}

// writeOrderError maps order workflow errors to HTTP responses.
func (h *Handler) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrEmptyItems):
		writeError(w, http.StatusBadRequest, codeInvalidInput, err.Error())
	case errors.Is(err, order.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "order not found")
	case errors.Is(err, order.ErrInvalidCode):
		writeError(w, http.StatusBadRequest, codeInvalidCode, "invalid delivery code")
	case errors.Is(err, order.ErrAlreadyDelivered):
		writeError(w, http.StatusConflict, codeAlreadyDelivered, "order already delivered")
	case errors.Is(err, order.ErrForbidden):
		writeError(w, http.StatusForbidden, codeForbidden, "not a party to this order")
	default:
		var iqErr *order.InvalidQuantityError
		if errors.As(err, &iqErr) {
			writeError(w, http.StatusUnprocessableEntity, codeInvalidInput, iqErr.Error())
			return
		}
		var pnfErr *order.ProductNotFoundError
		if errors.As(err, &pnfErr) {
			writeError(w, http.StatusUnprocessableEntity, codeNotFound, pnfErr.Error())
			return
		}
		var pErr *order.PlacementError
		if errors.As(err, &pErr) {
			// The transaction rolled back; nothing was written. Details stay
			// in the log.
			writeInternalErrorWithCode(w, r, err, codePlacementFailed, "order placement failed")
			return
		}
		writeInternalError(w, r, err)
	}
}
