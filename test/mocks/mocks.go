package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nivaran/storefront/internal/core/domain/cart"
	"github.com/nivaran/storefront/internal/core/domain/catalog"
	"github.com/nivaran/storefront/internal/core/domain/newsletter"
	"github.com/nivaran/storefront/internal/core/ports"
)

// CatalogGatewayMock is a lightweight mock for CatalogGateway
type CatalogGatewayMock struct {
	FetchProductsFn        func(ctx context.Context, limit int) ([]catalog.Product, error)
	FetchProductByHandleFn func(ctx context.Context, handle string) (*catalog.Product, error)
	FetchCollectionsFn     func(ctx context.Context) ([]catalog.Collection, error)
	FetchShopFn            func(ctx context.Context) (*catalog.Shop, error)
	SearchProductsFn       func(ctx context.Context, query string, limit int) ([]catalog.Product, error)
}

func (m *CatalogGatewayMock) FetchProducts(ctx context.Context, limit int) ([]catalog.Product, error) {
	if m.FetchProductsFn != nil {
		return m.FetchProductsFn(ctx, limit)
	}
	return nil, nil
}
func (m *CatalogGatewayMock) FetchProductByHandle(ctx context.Context, handle string) (*catalog.Product, error) {
	if m.FetchProductByHandleFn != nil {
		return m.FetchProductByHandleFn(ctx, handle)
	}
	return nil, nil
}
func (m *CatalogGatewayMock) FetchCollections(ctx context.Context) ([]catalog.Collection, error) {
	if m.FetchCollectionsFn != nil {
		return m.FetchCollectionsFn(ctx)
	}
	return nil, nil
}
func (m *CatalogGatewayMock) FetchShop(ctx context.Context) (*catalog.Shop, error) {
	if m.FetchShopFn != nil {
		return m.FetchShopFn(ctx)
	}
	return nil, nil
}
func (m *CatalogGatewayMock) SearchProducts(ctx context.Context, query string, limit int) ([]catalog.Product, error) {
	if m.SearchProductsFn != nil {
		return m.SearchProductsFn(ctx, query, limit)
	}
	return nil, nil
}

// CartGatewayMock is a lightweight mock for CartGateway
type CartGatewayMock struct {
	CreateCartFn      func(ctx context.Context) (*cart.Cart, error)
	FetchCartFn       func(ctx context.Context, cartID string) (*cart.Cart, error)
	AddToCartFn       func(ctx context.Context, cartID string, lines []ports.CartLineInput) (*cart.Cart, error)
	UpdateCartLinesFn func(ctx context.Context, cartID string, lines []ports.CartLineUpdate) (*cart.Cart, error)
	RemoveFromCartFn  func(ctx context.Context, cartID string, lineIDs []string) (*cart.Cart, error)
}

func (m *CartGatewayMock) CreateCart(ctx context.Context) (*cart.Cart, error) {
	if m.CreateCartFn != nil {
		return m.CreateCartFn(ctx)
	}
	return &cart.Cart{ID: "gid://shopify/Cart/mock"}, nil
}
func (m *CartGatewayMock) FetchCart(ctx context.Context, cartID string) (*cart.Cart, error) {
	if m.FetchCartFn != nil {
		return m.FetchCartFn(ctx, cartID)
	}
	return nil, nil
}
func (m *CartGatewayMock) AddToCart(ctx context.Context, cartID string, lines []ports.CartLineInput) (*cart.Cart, error) {
	if m.AddToCartFn != nil {
		return m.AddToCartFn(ctx, cartID, lines)
	}
	return &cart.Cart{ID: cartID}, nil
}
func (m *CartGatewayMock) UpdateCartLines(ctx context.Context, cartID string, lines []ports.CartLineUpdate) (*cart.Cart, error) {
	if m.UpdateCartLinesFn != nil {
		return m.UpdateCartLinesFn(ctx, cartID, lines)
	}
	return &cart.Cart{ID: cartID}, nil
}
func (m *CartGatewayMock) RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*cart.Cart, error) {
	if m.RemoveFromCartFn != nil {
		return m.RemoveFromCartFn(ctx, cartID, lineIDs)
	}
	return &cart.Cart{ID: cartID}, nil
}

// KeyValueStoreMock is a lightweight in-memory KeyValueStore with optional
// function overrides for failure injection.
type KeyValueStoreMock struct {
	GetFn    func(ctx context.Context, key string) (string, bool)
	SetFn    func(ctx context.Context, key, value string)
	RemoveFn func(ctx context.Context, key string)
	KeysFn   func(ctx context.Context) []string

	mu   sync.Mutex
	data map[string]string
}

func (m *KeyValueStoreMock) Get(ctx context.Context, key string) (string, bool) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}
func (m *KeyValueStoreMock) Set(ctx context.Context, key, value string) {
	if m.SetFn != nil {
		m.SetFn(ctx, key, value)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string]string)
	}
	m.data[key] = value
}
func (m *KeyValueStoreMock) Remove(ctx context.Context, key string) {
	if m.RemoveFn != nil {
		m.RemoveFn(ctx, key)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}
func (m *KeyValueStoreMock) Keys(ctx context.Context) []string {
	if m.KeysFn != nil {
		return m.KeysFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}
func (m *KeyValueStoreMock) Subscribe(fn func(key string)) func() { return func() {} }

// NewsletterRepositoryMock is a lightweight mock for NewsletterRepository
type NewsletterRepositoryMock struct {
	CreateFn       func(ctx context.Context, s *newsletter.Subscriber) error
	GetByEmailFn   func(ctx context.Context, email string) (*newsletter.Subscriber, error)
	MarkWelcomedFn func(ctx context.Context, id uuid.UUID, at time.Time) error
	CountFn        func(ctx context.Context) (int, error)
}

func (m *NewsletterRepositoryMock) Create(ctx context.Context, s *newsletter.Subscriber) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}
func (m *NewsletterRepositoryMock) GetByEmail(ctx context.Context, email string) (*newsletter.Subscriber, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, nil
}
func (m *NewsletterRepositoryMock) MarkWelcomed(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.MarkWelcomedFn != nil {
		return m.MarkWelcomedFn(ctx, id, at)
	}
	return nil
}
func (m *NewsletterRepositoryMock) Count(ctx context.Context) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return 0, nil
}

// EmailServiceMock is a lightweight mock for EmailService
type EmailServiceMock struct {
	SendWelcomeEmailFn func(ctx context.Context, email string) error
}

func (m *EmailServiceMock) SendWelcomeEmail(ctx context.Context, email string) error {
	if m.SendWelcomeEmailFn != nil {
		return m.SendWelcomeEmailFn(ctx, email)
	}
	return nil
}

// CatalogServiceMock is a lightweight mock for CatalogService
type CatalogServiceMock struct {
	ListProductsFn    func(ctx context.Context, limit int) ([]catalog.Product, error)
	ProductByHandleFn func(ctx context.Context, handle string) (*catalog.Product, error)
	CollectionsFn     func(ctx context.Context) ([]catalog.Collection, error)
	ShopInfoFn        func(ctx context.Context) (*catalog.Shop, error)
	SearchFn          func(ctx context.Context, query string) ([]catalog.Product, error)
}

func (m *CatalogServiceMock) ListProducts(ctx context.Context, limit int) ([]catalog.Product, error) {
	if m.ListProductsFn != nil {
		return m.ListProductsFn(ctx, limit)
	}
	return nil, nil
}
func (m *CatalogServiceMock) ProductByHandle(ctx context.Context, handle string) (*catalog.Product, error) {
	if m.ProductByHandleFn != nil {
		return m.ProductByHandleFn(ctx, handle)
	}
	return nil, nil
}
func (m *CatalogServiceMock) Collections(ctx context.Context) ([]catalog.Collection, error) {
	if m.CollectionsFn != nil {
		return m.CollectionsFn(ctx)
	}
	return nil, nil
}
func (m *CatalogServiceMock) ShopInfo(ctx context.Context) (*catalog.Shop, error) {
	if m.ShopInfoFn != nil {
		return m.ShopInfoFn(ctx)
	}
	return &catalog.Shop{Name: "Mock Shop"}, nil
}
func (m *CatalogServiceMock) Search(ctx context.Context, query string) ([]catalog.Product, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query)
	}
	return nil, nil
}

// CartServiceMock is a lightweight mock for CartService
type CartServiceMock struct {
	InitializeFn     func(ctx context.Context) error
	ResetFn          func(ctx context.Context) error
	StateFn          func() cart.State
	CartFn           func() *cart.Cart
	AddItemFn        func(ctx context.Context, variantID string, quantity int) (*cart.Cart, error)
	UpdateQuantityFn func(ctx context.Context, lineID string, quantity int) (*cart.Cart, error)
	RemoveItemFn     func(ctx context.Context, lineID string) (*cart.Cart, error)
	CheckoutURLFn    func(ctx context.Context) (string, error)
	ItemCountFn      func() int
	SubtotalFn       func() catalog.Money
}

func (m *CartServiceMock) Initialize(ctx context.Context) error {
	if m.InitializeFn != nil {
		return m.InitializeFn(ctx)
	}
	return nil
}
func (m *CartServiceMock) Reset(ctx context.Context) error {
	if m.ResetFn != nil {
		return m.ResetFn(ctx)
	}
	return nil
}
func (m *CartServiceMock) State() cart.State {
	if m.StateFn != nil {
		return m.StateFn()
	}
	return cart.StateReady
}
func (m *CartServiceMock) Cart() *cart.Cart {
	if m.CartFn != nil {
		return m.CartFn()
	}
	return nil
}
func (m *CartServiceMock) AddItem(ctx context.Context, variantID string, quantity int) (*cart.Cart, error) {
	if m.AddItemFn != nil {
		return m.AddItemFn(ctx, variantID, quantity)
	}
	return nil, cart.ErrNotInitialized
}
func (m *CartServiceMock) UpdateQuantity(ctx context.Context, lineID string, quantity int) (*cart.Cart, error) {
	if m.UpdateQuantityFn != nil {
		return m.UpdateQuantityFn(ctx, lineID, quantity)
	}
	return nil, cart.ErrNotInitialized
}
func (m *CartServiceMock) RemoveItem(ctx context.Context, lineID string) (*cart.Cart, error) {
	if m.RemoveItemFn != nil {
		return m.RemoveItemFn(ctx, lineID)
	}
	return nil, cart.ErrNotInitialized
}
func (m *CartServiceMock) CheckoutURL(ctx context.Context) (string, error) {
	if m.CheckoutURLFn != nil {
		return m.CheckoutURLFn(ctx)
	}
	return "", cart.ErrNotInitialized
}
func (m *CartServiceMock) ItemCount() int {
	if m.ItemCountFn != nil {
		return m.ItemCountFn()
	}
	return 0
}
func (m *CartServiceMock) Subtotal() catalog.Money {
	if m.SubtotalFn != nil {
		return m.SubtotalFn()
	}
	return catalog.Money{}
}

// NewsletterServiceMock is a lightweight mock for NewsletterService
type NewsletterServiceMock struct {
	SubscribeFn func(ctx context.Context, email string) (bool, error)
}

func (m *NewsletterServiceMock) Subscribe(ctx context.Context, email string) (bool, error) {
	if m.SubscribeFn != nil {
		return m.SubscribeFn(ctx, email)
	}
	return true, nil
}

var (
	_ ports.CatalogGateway       = (*CatalogGatewayMock)(nil)
	_ ports.CartGateway          = (*CartGatewayMock)(nil)
	_ ports.KeyValueStore        = (*KeyValueStoreMock)(nil)
	_ ports.NewsletterRepository = (*NewsletterRepositoryMock)(nil)
	_ ports.EmailService         = (*EmailServiceMock)(nil)
	_ ports.CatalogService       = (*CatalogServiceMock)(nil)
	_ ports.CartService          = (*CartServiceMock)(nil)
	_ ports.NewsletterService    = (*NewsletterServiceMock)(nil)
)
