// Package handler exposes the storefront views over HTTP: the catalog view
// (read-only product grid data), the cart view (cart state plus its mutating
// controls), and the theme preference endpoints.
package handler

import (
	"net/http"

	"github.com/xenking/storefront-gateway/internal/domain/cart"
	"github.com/xenking/storefront-gateway/internal/domain/catalog"
	"github.com/xenking/storefront-gateway/internal/domain/theme"
	"github.com/xenking/storefront-gateway/internal/fetch"
)

// Handler serves the storefront API. Views read snapshots and invoke the
// engines' operations; they never reach into state directly.
type Handler struct {
	source     catalog.Source
	products   *fetch.Task[[]catalog.Product]
	categories *fetch.Task[[]string]
	cart       *cart.Engine
	theme      *theme.Store
}

// NewHandler constructs a Handler with the required collaborators.
func NewHandler(
	source catalog.Source,
	products *fetch.Task[[]catalog.Product],
	categories *fetch.Task[[]string],
	cartEngine *cart.Engine,
	themeStore *theme.Store,
) *Handler {
	return &Handler{
		source:     source,
		products:   products,
		categories: categories,
		cart:       cartEngine,
		theme:      themeStore,
	}
}

// Register mounts all storefront routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/category/{category}", h.ListProductsByCategory)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /api/categories", h.ListCategories)

	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart/items", h.AddToCart)
	mux.HandleFunc("PATCH /api/cart/items/{id}", h.UpdateQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.RemoveFromCart)
	mux.HandleFunc("DELETE /api/cart", h.ClearCart)
	mux.HandleFunc("POST /api/cart/toggle", h.ToggleCart)

	mux.HandleFunc("GET /api/theme", h.GetTheme)
	mux.HandleFunc("PUT /api/theme", h.SetTheme)
	mux.HandleFunc("POST /api/theme/toggle", h.ToggleTheme)
}
