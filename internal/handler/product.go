package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront-gateway/internal/domain/catalog"
	"github.com/xenking/storefront-gateway/internal/fakestore"
	"github.com/xenking/storefront-gateway/internal/fetch"
)

// ListProducts serves the product grid data. The optional category query
// parameter filters the already-fetched snapshot by exact match; no
// selection returns everything.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	res := h.products.Result()
	switch res.State() {
	case fetch.StateLoading:
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, "catalog is loading")
	case fetch.StateFailed:
		writeError(w, http.StatusBadGateway, "catalog unavailable: "+res.Err().Error())
	case fetch.StateReady:
		e := &jx.Encoder{}
		encodeProducts(e, catalog.FilterByCategory(res.Data(), r.URL.Query().Get("category")))
		writeJSON(w, http.StatusOK, e)
	}
}

// ListCategories serves the category selector data.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	res := h.categories.Result()
	switch res.State() {
	case fetch.StateLoading:
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, "catalog is loading")
	case fetch.StateFailed:
		writeError(w, http.StatusBadGateway, "catalog unavailable: "+res.Err().Error())
	case fetch.StateReady:
		e := &jx.Encoder{}
		e.ArrStart()
		for _, c := range res.Data() {
			e.Str(c)
		}
		e.ArrEnd()
		writeJSON(w, http.StatusOK, e)
	}
}

// GetProduct reads a single product straight through from the remote
// catalog.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "product id must be an integer")
		return
	}

	p, err := h.source.GetByID(r.Context(), id)
	if err != nil {
		h.writeCatalogError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	encodeProduct(e, *p)
	writeJSON(w, http.StatusOK, e)
}

// ListProductsByCategory is a read-through of the remote category resource,
// mirroring the upstream API shape for clients that skip the snapshot.
func (h *Handler) ListProductsByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.source.ListByCategory(r.Context(), r.PathValue("category"))
	if err != nil {
		h.writeCatalogError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	encodeProducts(e, products)
	writeJSON(w, http.StatusOK, e)
}

// writeCatalogError maps catalog read errors onto the error envelope.
func (h *Handler) writeCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	var reqErr *fakestore.RequestError
	if errors.As(err, &reqErr) {
		writeError(w, http.StatusBadGateway, reqErr.Error())
		return
	}

	zctx.From(r.Context()).Error("catalog read failed", zap.Error(err))
	writeError(w, http.StatusBadGateway, "catalog unavailable")
}
