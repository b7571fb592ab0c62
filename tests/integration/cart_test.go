//go:build integration

package integration

import (
	"net/http"
	"testing"
)

// clearCart resets server-side cart state between tests.
func clearCart(t *testing.T) {
	t.Helper()
	resp := doJSON(t, http.MethodDelete, "/api/cart", "")
	resp.Body.Close()
}

func TestCart_AddUpdateRemove(t *testing.T) {
	clearCart(t)

	// Add product 1 twice.
	resp := doJSON(t, http.MethodPost, "/api/cart/items", `{"productId":1}`)
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, "/api/cart/items", `{"productId":1}`)
	cart := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()

	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 2 {
		t.Errorf("quantity: got %d, want 2", cart.Items[0].Quantity)
	}
	if cart.TotalItems != 2 {
		t.Errorf("totalItems: got %d, want 2", cart.TotalItems)
	}
	if want := 2 * 109.95; cart.TotalPrice != want {
		t.Errorf("totalPrice: got %v, want %v", cart.TotalPrice, want)
	}
	if cart.TotalPriceFormatted == "" {
		t.Error("totalPriceFormatted is empty")
	}

	// Overwrite the quantity.
	resp = doJSON(t, http.MethodPatch, "/api/cart/items/1", `{"quantity":5}`)
	cart = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()

	if cart.Items[0].Quantity != 5 {
		t.Errorf("quantity after update: got %d, want 5", cart.Items[0].Quantity)
	}

	// Non-positive quantity is a no-op.
	resp = doJSON(t, http.MethodPatch, "/api/cart/items/1", `{"quantity":0}`)
	cart = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()

	if cart.Items[0].Quantity != 5 {
		t.Errorf("quantity after zero update: got %d, want 5 (no-op)", cart.Items[0].Quantity)
	}

	// Remove the line item.
	resp = doJSON(t, http.MethodDelete, "/api/cart/items/1", "")
	cart = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()

	if len(cart.Items) != 0 {
		t.Errorf("items after remove: got %d, want 0", len(cart.Items))
	}
	if cart.TotalItems != 0 || cart.TotalPrice != 0 {
		t.Errorf("totals after remove: got %d/%v, want 0/0", cart.TotalItems, cart.TotalPrice)
	}
}

func TestCart_InsertionOrder(t *testing.T) {
	clearCart(t)

	for _, body := range []string{`{"productId":2}`, `{"productId":1}`} {
		resp := doJSON(t, http.MethodPost, "/api/cart/items", body)
		resp.Body.Close()
	}

	resp := doGet(t, "/api/cart")
	cart := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()

	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(cart.Items))
	}
	if cart.Items[0].Product.ID != 2 || cart.Items[1].Product.ID != 1 {
		t.Errorf("order: got [%d %d], want [2 1]",
			cart.Items[0].Product.ID, cart.Items[1].Product.ID)
	}
}

func TestCart_AddUnknownProduct(t *testing.T) {
	resp := doJSON(t, http.MethodPost, "/api/cart/items", `{"productId":4040}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCart_Toggle(t *testing.T) {
	clearCart(t)

	resp := doJSON(t, http.MethodPost, "/api/cart/toggle", "")
	cart := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	wasOpen := cart.IsOpen

	resp = doJSON(t, http.MethodPost, "/api/cart/toggle", "")
	cart = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()

	if cart.IsOpen == wasOpen {
		t.Error("toggle did not flip isOpen")
	}
}

func TestTheme_SetAndToggle(t *testing.T) {
	resp := doJSON(t, http.MethodPut, "/api/theme", `{"mode":"dark"}`)
	mode := decodeJSON[themeResponse](t, resp)
	resp.Body.Close()
	if mode.Mode != "dark" {
		t.Fatalf("mode after set: got %q, want dark", mode.Mode)
	}

	resp = doJSON(t, http.MethodPost, "/api/theme/toggle", "")
	mode = decodeJSON[themeResponse](t, resp)
	resp.Body.Close()
	if mode.Mode != "light" {
		t.Fatalf("mode after toggle: got %q, want light", mode.Mode)
	}

	resp = doJSON(t, http.MethodPut, "/api/theme", `{"mode":"sepia"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid mode, got %d", resp.StatusCode)
	}
}
