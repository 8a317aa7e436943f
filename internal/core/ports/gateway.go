package ports

import (
	"context"

	"github.com/nivaran/storefront/internal/core/domain/cart"
	"github.com/nivaran/storefront/internal/core/domain/catalog"
)

// CatalogGateway executes read-only catalog operations against the upstream
// commerce API, returning flat domain types.
type CatalogGateway interface {
	FetchProducts(ctx context.Context, limit int) ([]catalog.Product, error)
	// FetchProductByHandle returns (nil, nil) when the handle is unknown.
	FetchProductByHandle(ctx context.Context, handle string) (*catalog.Product, error)
	FetchCollections(ctx context.Context) ([]catalog.Collection, error)
	FetchShop(ctx context.Context) (*catalog.Shop, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]catalog.Product, error)
}

// CartLineInput adds a variant to a cart.
type CartLineInput struct {
	MerchandiseID string `json:"merchandise_id"`
	Quantity      int    `json:"quantity"`
}

// CartLineUpdate changes the quantity of an existing line.
type CartLineUpdate struct {
	LineID   string `json:"line_id"`
	Quantity int    `json:"quantity"`
}

// CartGateway executes cart mutations and uncached cart reads. Every returned
// cart is already normalized.
type CartGateway interface {
	CreateCart(ctx context.Context) (*cart.Cart, error)
	// FetchCart returns (nil, nil) when the cart id is unknown upstream.
	FetchCart(ctx context.Context, cartID string) (*cart.Cart, error)
	AddToCart(ctx context.Context, cartID string, lines []CartLineInput) (*cart.Cart, error)
	UpdateCartLines(ctx context.Context, cartID string, lines []CartLineUpdate) (*cart.Cart, error)
	RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*cart.Cart, error)
}
