package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront-gateway/internal/domain/catalog"
	"github.com/xenking/storefront-gateway/internal/fetch"
)

// GetCart returns the current cart snapshot.
func (h *Handler) GetCart(w http.ResponseWriter, _ *http.Request) {
	writeCartState(w, h.cart.Snapshot())
}

// AddToCart resolves the product for the posted id and adds one unit of it.
// The engine keeps the first-seen product snapshot, so re-adding an id whose
// catalog entry has since changed does not alter the stored line item.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	id, err := decodeProductIDBody(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.resolveProduct(r, id)
	if err != nil {
		h.writeCatalogError(w, r, err)
		return
	}

	writeCartState(w, h.cart.AddToCart(*p))
}

// UpdateQuantity overwrites a line item's quantity. The engine treats
// non-positive quantities and unknown ids as no-ops; either way the
// resulting state is returned, so the response always reflects the cart as
// it stands.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "product id must be an integer")
		return
	}

	quantity, err := decodeQuantityBody(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeCartState(w, h.cart.UpdateQuantity(id, quantity))
}

// RemoveFromCart deletes a line item. Removing an id that is not in the
// cart is not an error.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "product id must be an integer")
		return
	}

	writeCartState(w, h.cart.RemoveFromCart(id))
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, _ *http.Request) {
	writeCartState(w, h.cart.ClearCart())
}

// ToggleCart flips the slide-out panel visibility.
func (h *Handler) ToggleCart(w http.ResponseWriter, r *http.Request) {
	st := h.cart.ToggleCart()
	zctx.From(r.Context()).Debug("cart panel toggled", zap.Bool("is_open", st.IsOpen))
	writeCartState(w, st)
}

// resolveProduct finds the product to add: from the ready snapshot when
// possible, read-through from the remote catalog otherwise.
func (h *Handler) resolveProduct(r *http.Request, id int) (*catalog.Product, error) {
	if res := h.products.Result(); res.State() == fetch.StateReady {
		for _, p := range res.Data() {
			if p.ID == id {
				return &p, nil
			}
		}
	}
	return h.source.GetByID(r.Context(), id)
}

func decodeProductIDBody(body io.Reader) (int, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return 0, errors.Wrap(err, "read body")
	}

	id, seen := 0, false
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "productId" {
			return d.Skip()
		}
		v, err := d.Int()
		if err != nil {
			return err
		}
		id, seen = v, true
		return nil
	}); err != nil {
		return 0, errors.New("body must be a JSON object with an integer productId")
	}
	if !seen {
		return 0, errors.New("productId is required")
	}
	return id, nil
}

func decodeQuantityBody(body io.Reader) (int, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return 0, errors.Wrap(err, "read body")
	}

	quantity, seen := 0, false
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "quantity" {
			return d.Skip()
		}
		v, err := d.Int()
		if err != nil {
			return err
		}
		quantity, seen = v, true
		return nil
	}); err != nil {
		return 0, errors.New("body must be a JSON object with an integer quantity")
	}
	if !seen {
		return 0, errors.New("quantity is required")
	}
	return quantity, nil
}
