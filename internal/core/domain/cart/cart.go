package cart

import (
	"errors"
	"time"

	"github.com/nivaran/storefront/internal/core/domain/catalog"
)

// ErrNotInitialized is returned when a cart operation runs before the engine
// has reached the Ready state. This indicates a wiring bug, not a user error.
var ErrNotInitialized = errors.New("cart: engine not initialized")

// State tracks the engine lifecycle: Uninitialized -> Recovering -> Ready.
// A forced reset moves a Ready engine back to Recovering.
type State int

const (
	StateUninitialized State = iota
	StateRecovering
	StateReady
)

func (s State) String() string {
	switch s {
	case StateRecovering:
		return "recovering"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// ProductSummary is the slice of product data carried on a cart line for
// display purposes.
type ProductSummary struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	Handle string         `json:"handle"`
	Image  *catalog.Image `json:"image,omitempty"`
}

// Merchandise is the purchasable variant referenced by a cart line.
type Merchandise struct {
	catalog.Variant
	Product ProductSummary `json:"product"`
}

// Line is one merchandise entry within a cart. Quantity is always >= 1; a
// request to set it lower is treated as removal by the engine.
type Line struct {
	ID          string        `json:"id"`
	Quantity    int           `json:"quantity"`
	Merchandise Merchandise   `json:"merchandise"`
	LineTotal   catalog.Money `json:"line_total"`
}

type CostSummary struct {
	Subtotal catalog.Money `json:"subtotal"`
	Tax      catalog.Money `json:"tax"`
	Total    catalog.Money `json:"total"`
}

// Cart is the normalized cart shape. Lines are an ordered flat sequence; the
// upstream edge/node pagination never leaks past the gateway.
type Cart struct {
	ID          string      `json:"id"`
	CheckoutURL string      `json:"checkout_url"`
	Lines       []Line      `json:"lines"`
	Cost        CostSummary `json:"cost"`
	CreatedAt   time.Time   `json:"created_at,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at,omitempty"`
}

// ItemCount sums line quantities.
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Subtotal returns the upstream-reported subtotal.
func (c *Cart) Subtotal() catalog.Money {
	if c == nil {
		return catalog.Money{}
	}
	return c.Cost.Subtotal
}
