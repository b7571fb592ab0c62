package cart

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xenking/storefront-gateway/internal/domain/catalog"
)

// LineItem is a cart entry: the product as it looked when first added, plus
// the quantity currently in the cart. Quantity is always >= 1 for a stored
// item.
type LineItem struct {
	catalog.Product
	Quantity int
}

// State is an immutable snapshot of the cart. Totals are derived from Items
// and are never set independently, so a snapshot is always internally
// consistent.
type State struct {
	Items      []LineItem
	TotalItems int
	TotalPrice decimal.Decimal
	IsOpen     bool
}

// Engine is the sole owner and mutator of the cart. All mutating operations
// are atomic: items and both derived totals change as one unit under the
// engine's lock, and readers only ever see completed states via Snapshot.
//
// The engine never fails: unknown ids and non-positive quantities are
// handled by no-op policy, matching the storefront contract where the view
// layer decides about removal, not the engine.
type Engine struct {
	mu         sync.Mutex
	items      []LineItem
	isOpen     bool
	totalItems int
	totalPrice decimal.Decimal

	ops metric.Int64Counter
}

// New creates an empty cart engine. The cart lives for the process lifetime
// and is never persisted; a restart starts empty.
func New() *Engine {
	return &Engine{totalPrice: decimal.Zero}
}

// InstrumentWith registers an operation counter on the given meter. Each
// mutating operation increments it with an "operation" attribute.
func (e *Engine) InstrumentWith(m metric.Meter) error {
	ops, err := m.Int64Counter("storefront.cart.operations",
		metric.WithDescription("Number of cart mutating operations, by operation name."),
	)
	if err != nil {
		return err
	}
	e.ops = ops
	return nil
}

// AddToCart adds one unit of the given product. If a line item with the same
// product id already exists its quantity is incremented by one and its stored
// product fields are left untouched, so the first-seen snapshot of a product
// wins even when the argument carries updated fields. Otherwise a new line
// item with quantity 1 is appended at the end.
func (e *Engine) AddToCart(p catalog.Product) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	found := false
	for i := range e.items {
		if e.items[i].ID == p.ID {
			e.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		e.items = append(e.items, LineItem{Product: p, Quantity: 1})
	}
	e.recompute()
	e.record("add")
	return e.snapshotLocked()
}

// RemoveFromCart deletes the line item with the given product id. Removing
// an absent id is a no-op, not an error.
func (e *Engine) RemoveFromCart(productID int) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].ID == productID {
			e.items = append(e.items[:i], e.items[i+1:]...)
			break
		}
	}
	e.recompute()
	e.record("remove")
	return e.snapshotLocked()
}

// UpdateQuantity overwrites the quantity of an existing line item to exactly
// the given value. A quantity of zero or less leaves the cart unchanged:
// removal is a distinct operation and the engine never auto-removes on the
// caller's behalf. Unknown ids are also a no-op.
func (e *Engine) UpdateQuantity(productID, quantity int) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	if quantity >= 1 {
		for i := range e.items {
			if e.items[i].ID == productID {
				e.items[i].Quantity = quantity
				break
			}
		}
		e.recompute()
	}
	e.record("update_quantity")
	return e.snapshotLocked()
}

// ToggleCart flips the cart panel visibility flag. Items and totals are not
// touched.
func (e *Engine) ToggleCart() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.isOpen = !e.isOpen
	e.record("toggle")
	return e.snapshotLocked()
}

// ClearCart empties the cart and zeroes both totals. The panel visibility
// flag keeps its current value.
func (e *Engine) ClearCart() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = nil
	e.recompute()
	e.record("clear")
	return e.snapshotLocked()
}

// Snapshot returns a consistent copy of the current cart state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// recompute rebuilds both derived totals from the line items. Must be called
// with e.mu held after every change to e.items. Each line uses the price
// captured at add time, so later catalog price changes never move the cart
// total.
func (e *Engine) recompute() {
	total := 0
	price := decimal.Zero
	for _, item := range e.items {
		total += item.Quantity
		price = price.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	e.totalItems = total
	e.totalPrice = price
}

// snapshotLocked copies the current state. Must be called with e.mu held.
func (e *Engine) snapshotLocked() State {
	items := make([]LineItem, len(e.items))
	copy(items, e.items)
	return State{
		Items:      items,
		TotalItems: e.totalItems,
		TotalPrice: e.totalPrice,
		IsOpen:     e.isOpen,
	}
}

func (e *Engine) record(op string) {
	if e.ops == nil {
		return
	}
	e.ops.Add(context.Background(), 1, metric.WithAttributes(attribute.String("operation", op)))
}
