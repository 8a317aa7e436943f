package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nivaran/storefront/internal/core/domain/cart"
	"github.com/nivaran/storefront/internal/core/domain/catalog"
	"github.com/nivaran/storefront/internal/core/domain/commerce"
	store_http "github.com/nivaran/storefront/internal/infrastructure/httpserver"
	"github.com/nivaran/storefront/test/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, deps store_http.ServerDeps) *httptest.Server {
	t.Helper()
	srv := store_http.NewServer(&store_http.ServerConfig{
		Host:         "127.0.0.1",
		Port:         "0",
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		IdleTimeout:  time.Second,
	}, logrus.New(), deps)

	ts := httptest.NewServer(srv.Echo())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var b []byte
	if body != nil {
		var err error
		b, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req, err := http.NewRequest(method, ts.URL+path, bytes.NewReader(b))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, respBody
}

func testCart() *cart.Cart {
	return &cart.Cart{
		ID:          "gid://shopify/Cart/abc",
		CheckoutURL: "https://shop.example/checkout/abc",
		Lines:       []cart.Line{{ID: "line-1", Quantity: 2}},
		Cost:        cart.CostSummary{Subtotal: catalog.Money{Amount: "1598.00", CurrencyCode: "INR"}},
	}
}

func TestGetCart_ReadyAndUnready(t *testing.T) {
	cartMock := &mocks.CartServiceMock{}
	cartMock.CartFn = func() *cart.Cart { return testCart() }
	ts := newTestServer(t, store_http.ServerDeps{
		CatalogService:    &mocks.CatalogServiceMock{},
		CartService:       cartMock,
		NewsletterService: &mocks.NewsletterServiceMock{},
	})

	resp, body := doJSON(t, ts, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		ItemCount int `json:"item_count"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, 2, out.ItemCount)

	// Unready engine answers 503.
	cartMock.CartFn = func() *cart.Cart { return nil }
	resp, _ = doJSON(t, ts, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestGetCart_ReinitializesUnreadyEngine(t *testing.T) {
	// An engine whose boot-time initialization failed becomes ready again the
	// first time a cart read succeeds at re-running recovery.
	var held *cart.Cart
	cartMock := &mocks.CartServiceMock{}
	cartMock.CartFn = func() *cart.Cart { return held }
	cartMock.InitializeFn = func(ctx context.Context) error {
		held = testCart()
		return nil
	}
	ts := newTestServer(t, store_http.ServerDeps{
		CatalogService:    &mocks.CatalogServiceMock{},
		CartService:       cartMock,
		NewsletterService: &mocks.NewsletterServiceMock{},
	})

	resp, body := doJSON(t, ts, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		ItemCount int `json:"item_count"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, 2, out.ItemCount)
}

func TestAddCartLine_ValidatesInput(t *testing.T) {
	cartMock := &mocks.CartServiceMock{}
	cartMock.AddItemFn = func(ctx context.Context, variantID string, quantity int) (*cart.Cart, error) {
		return testCart(), nil
	}
	ts := newTestServer(t, store_http.ServerDeps{
		CatalogService:    &mocks.CatalogServiceMock{},
		CartService:       cartMock,
		NewsletterService: &mocks.NewsletterServiceMock{},
	})

	resp, _ := doJSON(t, ts, http.MethodPost, "/api/v1/cart/lines", map[string]any{"variant_id": "v1", "quantity": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, ts, http.MethodPost, "/api/v1/cart/lines", map[string]any{"quantity": 2})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, ts, http.MethodPost, "/api/v1/cart/lines", map[string]any{"variant_id": "v1", "quantity": 0})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCartErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"user input", &commerce.UserInputError{Operation: "CartLinesAdd", Errors: []commerce.UserError{{Message: "sold out"}}}, http.StatusUnprocessableEntity},
		{"api error", &commerce.APIError{Operation: "CartLinesAdd"}, http.StatusBadGateway},
		{"transport", &commerce.TransportError{StatusCode: 500, Status: "500 oops"}, http.StatusBadGateway},
		{"empty response", &commerce.EmptyResponseError{Operation: "CartLinesAdd"}, http.StatusBadGateway},
		{"not initialized", cart.ErrNotInitialized, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cartMock := &mocks.CartServiceMock{}
			cartMock.AddItemFn = func(ctx context.Context, variantID string, quantity int) (*cart.Cart, error) {
				return nil, tc.err
			}
			ts := newTestServer(t, store_http.ServerDeps{
				CatalogService:    &mocks.CatalogServiceMock{},
				CartService:       cartMock,
				NewsletterService: &mocks.NewsletterServiceMock{},
			})

			resp, _ := doJSON(t, ts, http.MethodPost, "/api/v1/cart/lines", map[string]any{"variant_id": "v1", "quantity": 1})
			require.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestUpdateCartLine_PassesQuantityThrough(t *testing.T) {
	var gotLine string
	var gotQty int
	cartMock := &mocks.CartServiceMock{}
	cartMock.UpdateQuantityFn = func(ctx context.Context, lineID string, quantity int) (*cart.Cart, error) {
		gotLine, gotQty = lineID, quantity
		return testCart(), nil
	}
	ts := newTestServer(t, store_http.ServerDeps{
		CatalogService:    &mocks.CatalogServiceMock{},
		CartService:       cartMock,
		NewsletterService: &mocks.NewsletterServiceMock{},
	})

	resp, _ := doJSON(t, ts, http.MethodPatch, "/api/v1/cart/lines/line-1", map[string]any{"quantity": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "line-1", gotLine)
	require.Equal(t, 0, gotQty)
}

func TestRemoveCartLine(t *testing.T) {
	removed := ""
	cartMock := &mocks.CartServiceMock{}
	cartMock.RemoveItemFn = func(ctx context.Context, lineID string) (*cart.Cart, error) {
		removed = lineID
		return testCart(), nil
	}
	ts := newTestServer(t, store_http.ServerDeps{
		CatalogService:    &mocks.CatalogServiceMock{},
		CartService:       cartMock,
		NewsletterService: &mocks.NewsletterServiceMock{},
	})

	resp, _ := doJSON(t, ts, http.MethodDelete, "/api/v1/cart/lines/line-9", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "line-9", removed)
}

func TestCheckout(t *testing.T) {
	cartMock := &mocks.CartServiceMock{}
	cartMock.CheckoutURLFn = func(ctx context.Context) (string, error) {
		return "https://shop.example/checkout/abc", nil
	}
	ts := newTestServer(t, store_http.ServerDeps{
		CatalogService:    &mocks.CatalogServiceMock{},
		CartService:       cartMock,
		NewsletterService: &mocks.NewsletterServiceMock{},
	})

	resp, body := doJSON(t, ts, http.MethodPost, "/api/v1/cart/checkout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		CheckoutURL string `json:"checkout_url"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, "https://shop.example/checkout/abc", out.CheckoutURL)
}
