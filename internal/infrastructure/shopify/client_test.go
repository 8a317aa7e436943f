package shopify_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nivaran/storefront/internal/core/domain/commerce"
	"github.com/nivaran/storefront/internal/infrastructure/cache"
	"github.com/nivaran/storefront/internal/infrastructure/shopify"
	"github.com/nivaran/storefront/internal/infrastructure/storage"
)

func testTTLs() shopify.TTLConfig {
	return shopify.TTLConfig{
		Products:      time.Minute,
		ProductDetail: time.Minute,
		Collections:   time.Minute,
		Shop:          time.Minute,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*shopify.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	manager := cache.NewManager(storage.NewMemoryStore(), "test", nil)
	client := shopify.NewClient(&shopify.Config{
		Endpoint: srv.URL,
		Token:    "test-token",
		Timeout:  5 * time.Second,
		TTLs:     testTTLs(),
	}, manager, nil)
	return client, srv
}

func respond(t *testing.T, w http.ResponseWriter, data string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(`{"data":` + data + `}`)); err != nil {
		t.Fatalf("failed to write response: %v", err)
	}
}

func TestFetchShop_SendsTokenAndNormalizes(t *testing.T) {
	var gotToken, gotContentType string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Shopify-Storefront-Access-Token")
		gotContentType = r.Header.Get("Content-Type")

		var payload struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("malformed request body: %v", err)
		}
		if payload.Query == "" {
			t.Errorf("expected a query document")
		}

		respond(t, w, `{"shop":{
			"name":"Nivaran Upcyclers",
			"description":"Upcycled goods",
			"currencyCode":"INR",
			"primaryDomain":{"url":"https://nivaranupcyclers.myshopify.com","host":"nivaranupcyclers.myshopify.com"},
			"paymentSettings":{"acceptedCardBrands":["VISA","MASTERCARD"]}
		}}`)
	})

	shop, err := client.FetchShop(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotToken != "test-token" {
		t.Fatalf("expected access token header, got %q", gotToken)
	}
	if gotContentType != "application/json" {
		t.Fatalf("expected json content type, got %q", gotContentType)
	}
	if shop.Name != "Nivaran Upcyclers" || shop.CurrencyCode != "INR" {
		t.Fatalf("unexpected shop: %+v", shop)
	}
	if shop.PrimaryDomain != "https://nivaranupcyclers.myshopify.com" {
		t.Fatalf("primary domain must be flattened to its URL, got %q", shop.PrimaryDomain)
	}
	if len(shop.CardBrands) != 2 {
		t.Fatalf("expected card brands, got %v", shop.CardBrands)
	}
}

func TestFetchProducts_SecondCallServedFromCache(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		respond(t, w, `{"products":{"edges":[{"node":{
			"id":"gid://shopify/Product/1",
			"title":"Denim Tote",
			"handle":"denim-tote",
			"priceRange":{
				"minVariantPrice":{"amount":"799.00","currencyCode":"INR"},
				"maxVariantPrice":{"amount":"799.00","currencyCode":"INR"}
			},
			"images":{"edges":[{"node":{"url":"https://cdn.example/tote.jpg"}}]},
			"variants":{"edges":[{"node":{
				"id":"gid://shopify/ProductVariant/11",
				"title":"Default",
				"price":{"amount":"799.00","currencyCode":"INR"},
				"availableForSale":true
			}}]}
		}}]}}`)
	})

	first, err := client.FetchProducts(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := client.FetchProducts(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Fatalf("second identical read must be a cache hit, upstream calls=%d", calls)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one product from both reads")
	}
	p := second[0]
	if p.Handle != "denim-tote" {
		t.Fatalf("unexpected product: %+v", p)
	}
	if len(p.Images) != 1 || p.Images[0].URL != "https://cdn.example/tote.jpg" {
		t.Fatalf("images must be flattened, got %+v", p.Images)
	}
	if len(p.Variants) != 1 || !p.Variants[0].AvailableForSale {
		t.Fatalf("variants must be flattened, got %+v", p.Variants)
	}

	// A different limit is a different cache entry.
	if _, err := client.FetchProducts(context.Background(), 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("different variables must bypass the previous entry, calls=%d", calls)
	}
}

func TestFetchProducts_ConcurrentIdenticalReadsShareOneUpstreamCall(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		<-release // hold the response until every reader is in flight
		respond(t, w, `{"products":{"edges":[]}}`)
	})

	const readers = 4
	errs := make([]error, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.FetchProducts(context.Background(), 10)
		}(i)
	}

	// Give the readers time to miss the cache and pile onto the same key
	// before the single upstream call is allowed to complete.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("reader %d failed: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("concurrent identical reads must coalesce into one upstream call, got %d", got)
	}
}

func TestSearchProducts_NeverCached(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		respond(t, w, `{"search":{"edges":[]}}`)
	})

	for i := 0; i < 2; i++ {
		if _, err := client.SearchProducts(context.Background(), "denim", 5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("search must hit upstream every time, calls=%d", calls)
	}
}

func TestFetchProductByHandle_UnknownHandle(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, `{"productByHandle":null}`)
	})

	p, err := client.FetchProductByHandle(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unknown handle must not be an error: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil product, got %+v", p)
	}
}

func TestDoPost_NonSuccessStatusIsTransportError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	_, err := client.FetchShop(context.Background())
	var transport *commerce.TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transport.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", transport.StatusCode)
	}
}

func TestDoPost_NetworkFailureIsTransportError(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := client.FetchShop(context.Background())
	var transport *commerce.TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestDoPost_ErrorsArrayIsAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null,"errors":[{"message":"Field 'shop' doesn't exist"}]}`))
	})

	_, err := client.FetchShop(context.Background())
	var apiErr *commerce.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Operation != "GetShop" {
		t.Fatalf("expected operation name on the error, got %q", apiErr.Operation)
	}
}

func TestDoPost_NullDataIsEmptyResponseError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null}`))
	})

	_, err := client.FetchShop(context.Background())
	var empty *commerce.EmptyResponseError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyResponseError, got %v", err)
	}
}

func TestDoPost_MalformedBodyIsTransportError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway timeout</html>`))
	})

	_, err := client.FetchShop(context.Background())
	var transport *commerce.TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError for malformed body, got %v", err)
	}
}

func TestFailedReadIsNotCached(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		respond(t, w, `{"shop":{"name":"Recovered","currencyCode":"INR"}}`)
	})

	if _, err := client.FetchShop(context.Background()); err == nil {
		t.Fatalf("expected first call to fail")
	}
	shop, err := client.FetchShop(context.Background())
	if err != nil {
		t.Fatalf("retry must reach upstream: %v", err)
	}
	if shop.Name != "Recovered" {
		t.Fatalf("unexpected shop: %+v", shop)
	}
	if calls != 2 {
		t.Fatalf("expected two upstream calls, got %d", calls)
	}
}

const cartResponse = `{
	"id":"gid://shopify/Cart/abc",
	"checkoutUrl":"https://shop.example/checkout/abc",
	"lines":{"edges":[{"node":{
		"id":"gid://shopify/CartLine/1",
		"quantity":2,
		"merchandise":{
			"id":"gid://shopify/ProductVariant/11",
			"title":"Default",
			"price":{"amount":"799.00","currencyCode":"INR"},
			"availableForSale":true,
			"product":{
				"id":"gid://shopify/Product/1",
				"title":"Denim Tote",
				"handle":"denim-tote",
				"images":{"edges":[{"node":{"url":"https://cdn.example/tote.jpg"}}]}
			}
		},
		"cost":{"totalAmount":{"amount":"1598.00","currencyCode":"INR"}}
	}}]},
	"cost":{
		"subtotalAmount":{"amount":"1598.00","currencyCode":"INR"},
		"totalAmount":{"amount":"1886.00","currencyCode":"INR"},
		"totalTaxAmount":{"amount":"288.00","currencyCode":"INR"}
	}
}`

func TestCreateCart_NormalizesLines(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, `{"cartCreate":{"cart":`+cartResponse+`,"userErrors":[]}}`)
	})

	c, err := client.CreateCart(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != "gid://shopify/Cart/abc" {
		t.Fatalf("unexpected cart id %q", c.ID)
	}
	if len(c.Lines) != 1 {
		t.Fatalf("expected one flattened line, got %d", len(c.Lines))
	}
	line := c.Lines[0]
	if line.Quantity != 2 || line.LineTotal.Amount != "1598.00" {
		t.Fatalf("unexpected line: %+v", line)
	}
	if line.Merchandise.Product.Handle != "denim-tote" {
		t.Fatalf("merchandise product summary missing: %+v", line.Merchandise)
	}
	if line.Merchandise.Product.Image == nil || line.Merchandise.Product.Image.URL != "https://cdn.example/tote.jpg" {
		t.Fatalf("product image must be flattened to the first image")
	}
	if c.Cost.Tax.Amount != "288.00" || c.Cost.Total.Amount != "1886.00" {
		t.Fatalf("unexpected cost summary: %+v", c.Cost)
	}
	if c.ItemCount() != 2 {
		t.Fatalf("expected item count 2, got %d", c.ItemCount())
	}
}

func TestCartMutation_UserErrorsSurfaceAsUserInputError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, `{"cartLinesAdd":{"cart":null,"userErrors":[
			{"field":["lines","0","merchandiseId"],"message":"Variant is sold out"}
		]}}`)
	})

	_, err := client.AddToCart(context.Background(), "gid://shopify/Cart/abc", nil)
	var userInput *commerce.UserInputError
	if !errors.As(err, &userInput) {
		t.Fatalf("expected UserInputError, got %v", err)
	}
	if len(userInput.Errors) != 1 || userInput.Errors[0].Message != "Variant is sold out" {
		t.Fatalf("unexpected user errors: %+v", userInput.Errors)
	}
}

func TestCartMutation_NilCartWithoutErrorsIsEmptyResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, `{"cartLinesRemove":{"cart":null,"userErrors":[]}}`)
	})

	_, err := client.RemoveFromCart(context.Background(), "gid://shopify/Cart/abc", []string{"line-1"})
	var empty *commerce.EmptyResponseError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyResponseError, got %v", err)
	}
}

func TestFetchCart_UnknownIDIsNilNil(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, `{"cart":null}`)
	})

	c, err := client.FetchCart(context.Background(), "gid://shopify/Cart/stale")
	if err != nil {
		t.Fatalf("unknown cart must not be an error: %v", err)
	}
	if c != nil {
		t.Fatalf("expected nil cart, got %+v", c)
	}
}
