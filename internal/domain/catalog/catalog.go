package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist upstream.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item as served by the remote store API.
// Price is captured as a decimal so cart totals stay exact.
type Product struct {
	ID          int
	Title       string
	Price       decimal.Decimal
	Description string
	Category    string
	Image       string
	Rating      Rating
}

// Rating holds the aggregate review score for a product.
type Rating struct {
	Rate  float64
	Count int
}

// Source defines the four read operations the storefront needs from the
// remote catalog. Implementations perform no retries or caching.
type Source interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int) (*Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// FilterByCategory returns the products whose category exactly matches the
// given selection, preserving the original order. An empty selection means
// no filter and returns the input unchanged.
func FilterByCategory(products []Product, category string) []Product {
	if category == "" {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
