//go:build integration

package integration

import (
	"net/http"
	"regexp"
	"testing"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func TestPlaceOrders_NoAuth(t *testing.T) {
	req := placeOrdersRequest{
		Items: []lineItemRequest{{ProductID: productCalculator, Quantity: 1}},
	}
	resp := doPost(t, "/api/orders", "", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestPlaceOrders_InvalidToken(t *testing.T) {
	req := placeOrdersRequest{
		Items: []lineItemRequest{{ProductID: productCalculator, Quantity: 1}},
	}
	resp := doPost(t, "/api/orders", "wrong-token", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestPlaceOrders_EmptyItems(t *testing.T) {
	resp := doPost(t, "/api/orders", tokenAsha, placeOrdersRequest{Items: []lineItemRequest{}})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPlaceOrders_UnknownProduct(t *testing.T) {
	req := placeOrdersRequest{
		Items: []lineItemRequest{{ProductID: "00000000-0000-0000-0000-000000000000", Quantity: 1}},
	}
	resp := doPost(t, "/api/orders", tokenAsha, req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestPlaceOrders_InvalidQuantity(t *testing.T) {
	req := placeOrdersRequest{
		Items: []lineItemRequest{{ProductID: productCalculator, Quantity: 0}},
	}
	resp := doPost(t, "/api/orders", tokenAsha, req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

// placeOrder is a helper that places a single-item order and returns it.
func placeOrder(t *testing.T, token, productID string, quantity int) orderResponse {
	t.Helper()

	req := placeOrdersRequest{
		Items: []lineItemRequest{{ProductID: productID, Quantity: quantity}},
	}
	resp := doPost(t, "/api/orders", token, req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("place order: expected 201, got %d", resp.StatusCode)
	}

	placed := decodeJSON[placeOrdersResponse](t, resp)
	if len(placed.Orders) != 1 {
		t.Fatalf("expected 1 placed order, got %d", len(placed.Orders))
	}
	return placed.Orders[0]
}

func TestOrderLifecycle(t *testing.T) {
	// Asha buys Rohan's calculator.
	placed := placeOrder(t, tokenAsha, productCalculator, 1)

	if !uuidPattern.MatchString(placed.ID) {
		t.Errorf("order ID %q is not a valid UUID", placed.ID)
	}
	if placed.SellerID != sellerRohan {
		t.Errorf("sellerId: got %q, want %q", placed.SellerID, sellerRohan)
	}
	if placed.IsDelivered {
		t.Error("new order must not be delivered")
	}
	if len(placed.DeliveryCode) != 6 {
		t.Fatalf("delivery code %q: want 6 digits", placed.DeliveryCode)
	}

	// The order shows up in the buyer's history without the code.
	resp := doGet(t, "/api/orders/bought", tokenAsha)
	bought := decodeJSON[[]orderResponse](t, resp)
	resp.Body.Close()

	var found bool
	for _, o := range bought {
		if o.ID == placed.ID {
			found = true
			if o.DeliveryCode != "" {
				t.Error("bought listing must not expose the delivery code")
			}
		}
	}
	if !found {
		t.Fatalf("order %s missing from bought list", placed.ID)
	}

	// And in the seller's pending queue.
	resp = doGet(t, "/api/orders/sold/undelivered", tokenRohan)
	pending := decodeJSON[[]orderResponse](t, resp)
	resp.Body.Close()

	found = false
	for _, o := range pending {
		if o.ID == placed.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("order %s missing from seller's pending queue", placed.ID)
	}

	// Wrong code is rejected.
	resp = doPost(t, "/api/orders/"+placed.ID+"/confirm", tokenRohan, map[string]string{"code": "000000"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("wrong code: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Correct code completes the handoff.
	resp = doPost(t, "/api/orders/"+placed.ID+"/confirm", tokenRohan, map[string]string{"code": placed.DeliveryCode})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Confirming twice conflicts.
	resp = doPost(t, "/api/orders/"+placed.ID+"/confirm", tokenRohan, map[string]string{"code": placed.DeliveryCode})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("re-confirm: expected 409, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The delivered order moved to the seller's completed sales.
	resp = doGet(t, "/api/orders/sold", tokenRohan)
	sold := decodeJSON[[]orderResponse](t, resp)
	resp.Body.Close()

	found = false
	for _, o := range sold {
		if o.ID == placed.ID {
			found = true
			if !o.IsDelivered {
				t.Error("completed sale must be delivered")
			}
		}
	}
	if !found {
		t.Fatalf("order %s missing from seller's completed sales", placed.ID)
	}
}

func TestRegenerateCode(t *testing.T) {
	placed := placeOrder(t, tokenAsha, productLamp, 1)

	// A stranger to the order may not regenerate.
	resp := doPost(t, "/api/orders/"+placed.ID+"/regenerate-code", tokenPriya, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("stranger regenerate: expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The buyer regenerates; the old code stops working.
	resp = doPost(t, "/api/orders/"+placed.ID+"/regenerate-code", tokenAsha, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("regenerate: expected 200, got %d", resp.StatusCode)
	}
	regen := decodeJSON[map[string]string](t, resp)
	resp.Body.Close()

	newCode := regen["deliveryCode"]
	if len(newCode) != 6 {
		t.Fatalf("regenerated code %q: want 6 digits", newCode)
	}

	resp = doPost(t, "/api/orders/"+placed.ID+"/confirm", tokenRohan, map[string]string{"code": placed.DeliveryCode})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("old code: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doPost(t, "/api/orders/"+placed.ID+"/confirm", tokenRohan, map[string]string{"code": newCode})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("new code: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Regenerating a delivered order conflicts.
	resp = doPost(t, "/api/orders/"+placed.ID+"/regenerate-code", tokenAsha, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("regenerate delivered: expected 409, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestPlaceOrders_ClearsCart(t *testing.T) {
	// Put the lamp into Priya's cart, then order the calculator directly; the
	// checkout clears the whole cart.
	resp := doPost(t, "/api/cart", tokenPriya, map[string]any{"productId": productLamp, "quantity": 1})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add to cart: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	placeOrder(t, tokenPriya, productCalculator, 1)

	resp = doGet(t, "/api/cart", tokenPriya)
	items := decodeJSON[[]map[string]any](t, resp)
	resp.Body.Close()

	if len(items) != 0 {
		t.Fatalf("cart after checkout: got %d items, want 0", len(items))
	}
}
