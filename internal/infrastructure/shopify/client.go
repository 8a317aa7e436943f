// Package shopify is the request gateway to the Storefront GraphQL API. It
// consults the cache manager before any network call for cacheable
// operations, stores successful results, and maps failures onto the commerce
// error taxonomy. Mutations always bypass the cache and are never retried or
// coalesced; duplicate-submission protection belongs to the caller.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nivaran/storefront/internal/core/domain/cart"
	"github.com/nivaran/storefront/internal/core/domain/catalog"
	"github.com/nivaran/storefront/internal/core/domain/commerce"
	"github.com/nivaran/storefront/internal/core/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const accessTokenHeader = "X-Shopify-Storefront-Access-Token"

var (
	gatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_gateway_requests_total",
			Help: "Upstream GraphQL calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	gatewayDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "storefront_gateway_request_duration_seconds",
			Help: "Upstream GraphQL call latencies in seconds",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(gatewayRequests)
	prometheus.MustRegister(gatewayDuration)
}

// TTLConfig carries the per-operation cache lifetimes. Cart reads are never
// cached and have no TTL here.
type TTLConfig struct {
	Products      time.Duration
	ProductDetail time.Duration
	Collections   time.Duration
	Shop          time.Duration
}

type Config struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
	TTLs     TTLConfig
}

type Client struct {
	endpoint string
	token    string
	http     *http.Client
	cache    ports.CacheManager
	ttls     TTLConfig
	logger   *logrus.Logger
	sf       singleflight.Group
}

func NewClient(cfg *Config, cacheManager ports.CacheManager, logger *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		http:     &http.Client{Timeout: timeout},
		cache:    cacheManager,
		ttls:     cfg.TTLs,
		logger:   logger,
	}
}

type callOptions struct {
	cacheable bool
	ttl       time.Duration
}

// execute runs one GraphQL call, going through the cache for cacheable
// operations. Concurrent cacheable calls for the same (operation, variables)
// are coalesced into a single upstream request via singleflight.
func (c *Client) execute(ctx context.Context, op Operation, variables map[string]any, out any, opts callOptions) error {
	if !opts.cacheable || c.cache == nil {
		data, err := c.post(ctx, op, variables)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, out)
	}

	if data, ok := c.cache.Get(ctx, op.Name, variables); ok {
		return json.Unmarshal(data, out)
	}

	key := requestKey(op.Name, variables)
	res, err, _ := c.sf.Do(key, func() (any, error) {
		if data, ok := c.cache.Get(ctx, op.Name, variables); ok {
			return data, nil
		}
		data, err := c.post(ctx, op, variables)
		if err != nil {
			return nil, err
		}
		c.cache.Set(ctx, op.Name, variables, data, opts.ttl)
		return data, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(res.(json.RawMessage), out)
}

func requestKey(operation string, variables map[string]any) string {
	vars := ""
	if len(variables) > 0 {
		if b, err := json.Marshal(variables); err == nil {
			vars = string(b)
		}
	}
	return operation + ":" + vars
}

func (c *Client) post(ctx context.Context, op Operation, variables map[string]any) (json.RawMessage, error) {
	start := time.Now()
	data, err := c.doPost(ctx, op, variables)
	gatewayDuration.WithLabelValues(op.Name).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
		if c.logger != nil {
			c.logger.WithField("operation", op.Name).WithError(err).Warn("gateway: upstream call failed")
		}
	}
	gatewayRequests.WithLabelValues(op.Name, outcome).Inc()
	return data, err
}

func (c *Client) doPost(ctx context.Context, op Operation, variables map[string]any) (json.RawMessage, error) {
	payload := struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables,omitempty"`
	}{Query: op.Document, Variables: variables}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accessTokenHeader, c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &commerce.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &commerce.TransportError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &commerce.TransportError{Err: err}
	}

	var envelope struct {
		Data   json.RawMessage         `json:"data"`
		Errors []commerce.GraphQLError `json:"errors"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &commerce.TransportError{Err: fmt.Errorf("malformed response body: %w", err)}
	}

	// A non-empty errors array is an API error regardless of HTTP status.
	if len(envelope.Errors) > 0 {
		return nil, &commerce.APIError{Operation: op.Name, Errors: envelope.Errors}
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, &commerce.EmptyResponseError{Operation: op.Name}
	}
	return envelope.Data, nil
}

// --- CatalogGateway ---

func (c *Client) FetchProducts(ctx context.Context, limit int) ([]catalog.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	var out struct {
		Products connection[wireProduct] `json:"products"`
	}
	err := c.execute(ctx, OpGetProducts, map[string]any{"first": limit}, &out,
		callOptions{cacheable: true, ttl: c.ttls.Products})
	if err != nil {
		return nil, err
	}
	return normalizeProducts(out.Products), nil
}

func (c *Client) FetchProductByHandle(ctx context.Context, handle string) (*catalog.Product, error) {
	var out struct {
		ProductByHandle *wireProduct `json:"productByHandle"`
	}
	err := c.execute(ctx, OpGetProductByHandle, map[string]any{"handle": handle}, &out,
		callOptions{cacheable: true, ttl: c.ttls.ProductDetail})
	if err != nil {
		return nil, err
	}
	if out.ProductByHandle == nil {
		return nil, nil
	}
	p := normalizeProduct(*out.ProductByHandle)
	return &p, nil
}

func (c *Client) FetchCollections(ctx context.Context) ([]catalog.Collection, error) {
	var out struct {
		Collections connection[wireCollection] `json:"collections"`
	}
	err := c.execute(ctx, OpGetCollections, map[string]any{"first": 50}, &out,
		callOptions{cacheable: true, ttl: c.ttls.Collections})
	if err != nil {
		return nil, err
	}
	collections := make([]catalog.Collection, 0, len(out.Collections.Edges))
	for _, col := range out.Collections.nodes() {
		collections = append(collections, normalizeCollection(col))
	}
	return collections, nil
}

func (c *Client) FetchShop(ctx context.Context) (*catalog.Shop, error) {
	var out struct {
		Shop wireShop `json:"shop"`
	}
	err := c.execute(ctx, OpGetShop, nil, &out,
		callOptions{cacheable: true, ttl: c.ttls.Shop})
	if err != nil {
		return nil, err
	}
	shop := normalizeShop(out.Shop)
	return &shop, nil
}

func (c *Client) SearchProducts(ctx context.Context, query string, limit int) ([]catalog.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	var out struct {
		Search connection[wireProduct] `json:"search"`
	}
	// Search results are too query-specific to be worth caching.
	err := c.execute(ctx, OpSearchProducts, map[string]any{"query": query, "first": limit}, &out,
		callOptions{cacheable: false})
	if err != nil {
		return nil, err
	}
	return normalizeProducts(out.Search), nil
}

// --- CartGateway ---

type cartPayload struct {
	Cart       *wireCart            `json:"cart"`
	UserErrors []commerce.UserError `json:"userErrors"`
}

func (c *Client) cartMutation(ctx context.Context, op Operation, field string, variables map[string]any) (*cart.Cart, error) {
	out := map[string]*cartPayload{}
	if err := c.execute(ctx, op, variables, &out, callOptions{cacheable: false}); err != nil {
		return nil, err
	}
	payload := out[field]
	if payload == nil {
		return nil, &commerce.EmptyResponseError{Operation: op.Name}
	}
	if len(payload.UserErrors) > 0 {
		return nil, &commerce.UserInputError{Operation: op.Name, Errors: payload.UserErrors}
	}
	if payload.Cart == nil {
		return nil, &commerce.EmptyResponseError{Operation: op.Name}
	}
	return normalizeCart(payload.Cart), nil
}

// invalidateCartRead drops any cached cart read for the cart about to be
// mutated. Cart reads are uncached today, so this is defensive; it keeps
// mutations correct if that policy ever changes.
func (c *Client) invalidateCartRead(ctx context.Context, cartID string) {
	if c.cache != nil {
		c.cache.Invalidate(ctx, OpGetCart.Name, map[string]any{"cartId": cartID})
	}
}

func (c *Client) CreateCart(ctx context.Context) (*cart.Cart, error) {
	return c.cartMutation(ctx, OpCartCreate, "cartCreate", map[string]any{"input": map[string]any{}})
}

// FetchCart returns (nil, nil) when the upstream no longer knows the cart id.
func (c *Client) FetchCart(ctx context.Context, cartID string) (*cart.Cart, error) {
	var out struct {
		Cart *wireCart `json:"cart"`
	}
	err := c.execute(ctx, OpGetCart, map[string]any{"cartId": cartID}, &out,
		callOptions{cacheable: false})
	if err != nil {
		return nil, err
	}
	return normalizeCart(out.Cart), nil
}

func (c *Client) AddToCart(ctx context.Context, cartID string, lines []ports.CartLineInput) (*cart.Cart, error) {
	c.invalidateCartRead(ctx, cartID)
	wireLines := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		wireLines = append(wireLines, map[string]any{
			"merchandiseId": l.MerchandiseID,
			"quantity":      l.Quantity,
		})
	}
	return c.cartMutation(ctx, OpCartLinesAdd, "cartLinesAdd",
		map[string]any{"cartId": cartID, "lines": wireLines})
}

func (c *Client) UpdateCartLines(ctx context.Context, cartID string, lines []ports.CartLineUpdate) (*cart.Cart, error) {
	c.invalidateCartRead(ctx, cartID)
	wireLines := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		wireLines = append(wireLines, map[string]any{
			"id":       l.LineID,
			"quantity": l.Quantity,
		})
	}
	return c.cartMutation(ctx, OpCartLinesUpdate, "cartLinesUpdate",
		map[string]any{"cartId": cartID, "lines": wireLines})
}

func (c *Client) RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*cart.Cart, error) {
	c.invalidateCartRead(ctx, cartID)
	return c.cartMutation(ctx, OpCartLinesRemove, "cartLinesRemove",
		map[string]any{"cartId": cartID, "lineIds": lineIDs})
}

var (
	_ ports.CatalogGateway = (*Client)(nil)
	_ ports.CartGateway    = (*Client)(nil)
)
