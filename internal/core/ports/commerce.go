package ports

import (
	"context"

	"github.com/nivaran/storefront/internal/core/domain/cart"
	"github.com/nivaran/storefront/internal/core/domain/catalog"
)

// CartService is the cart synchronization engine. It owns the single active
// cart, recovers or creates it during Initialize, and serializes mutations.
// Operations on an unready engine retry recovery first and fail with an
// error wrapping cart.ErrNotInitialized only when that retry also fails.
type CartService interface {
	Initialize(ctx context.Context) error
	// Reset drops the held cart and runs recovery again.
	Reset(ctx context.Context) error
	State() cart.State
	// Cart returns the currently held cart; callers must treat it as read-only.
	Cart() *cart.Cart
	AddItem(ctx context.Context, variantID string, quantity int) (*cart.Cart, error)
	// UpdateQuantity treats quantity <= 0 as removal.
	UpdateQuantity(ctx context.Context, lineID string, quantity int) (*cart.Cart, error)
	RemoveItem(ctx context.Context, lineID string) (*cart.Cart, error)
	// CheckoutURL returns the upstream checkout URL; navigation is the caller's job.
	CheckoutURL(ctx context.Context) (string, error)
	ItemCount() int
	Subtotal() catalog.Money
}

// CatalogService exposes read-only catalog queries.
type CatalogService interface {
	ListProducts(ctx context.Context, limit int) ([]catalog.Product, error)
	ProductByHandle(ctx context.Context, handle string) (*catalog.Product, error)
	Collections(ctx context.Context) ([]catalog.Collection, error)
	ShopInfo(ctx context.Context) (*catalog.Shop, error)
	Search(ctx context.Context, query string) ([]catalog.Product, error)
}
