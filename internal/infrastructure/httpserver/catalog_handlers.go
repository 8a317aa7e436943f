package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/nivaran/storefront/internal/core/domain/cart"
	"github.com/nivaran/storefront/internal/core/domain/catalog"
	"github.com/nivaran/storefront/internal/core/domain/commerce"
	"github.com/labstack/echo/v4"
)

// upstreamHTTPError maps commerce-layer failures onto HTTP status codes.
// Invalid input reported by the upstream API is the caller's fault; anything
// else wrong with the upstream is a bad gateway. An unready cart engine is a
// temporary condition, not an error in the request.
func upstreamHTTPError(err error) error {
	var userInput *commerce.UserInputError
	if errors.As(err, &userInput) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, userInput.Error())
	}
	if errors.Is(err, cart.ErrNotInitialized) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "cart is not ready")
	}

	var (
		apiErr    *commerce.APIError
		transport *commerce.TransportError
		empty     *commerce.EmptyResponseError
	)
	if errors.As(err, &apiErr) || errors.As(err, &transport) || errors.As(err, &empty) {
		return echo.NewHTTPError(http.StatusBadGateway, "upstream commerce API request failed")
	}

	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

// Catalog handlers
func (s *Server) getShop(c echo.Context) error {
	shop, err := s.catalogSvc.ShopInfo(c.Request().Context())
	if err != nil {
		return upstreamHTTPError(err)
	}
	return c.JSON(http.StatusOK, shop)
}

func (s *Server) listProducts(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		limit = parsed
	}

	products, err := s.catalogSvc.ListProducts(c.Request().Context(), limit)
	if err != nil {
		return upstreamHTTPError(err)
	}

	// Filtering and sorting happen over the fetched list, so they compose
	// freely without extra upstream round trips.
	if handle := c.QueryParam("collection"); handle != "" {
		products = catalog.FilterByCollection(products, handle)
	}
	if tag := c.QueryParam("tag"); tag != "" {
		products = catalog.FilterByTag(products, tag)
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		ceiling, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "max_price must be a number")
		}
		products = catalog.FilterByMaxPrice(products, ceiling)
	}
	if name := c.QueryParam("option_name"); name != "" {
		products = catalog.FilterByOption(products, name, c.QueryParam("option_value"))
	}
	if q := c.QueryParam("q"); q != "" {
		products = catalog.Search(products, q)
	}
	products = catalog.Sort(products, catalog.ParseSortKey(c.QueryParam("sort")))

	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

func (s *Server) getProduct(c echo.Context) error {
	handle := c.Param("handle")
	if handle == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "handle is required")
	}

	product, err := s.catalogSvc.ProductByHandle(c.Request().Context(), handle)
	if err != nil {
		return upstreamHTTPError(err)
	}
	if product == nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	return c.JSON(http.StatusOK, product)
}

func (s *Server) listCollections(c echo.Context) error {
	collections, err := s.catalogSvc.Collections(c.Request().Context())
	if err != nil {
		return upstreamHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"collections": collections,
		"count":       len(collections),
	})
}

func (s *Server) searchProducts(c echo.Context) error {
	query := c.QueryParam("q")

	products, err := s.catalogSvc.Search(c.Request().Context(), query)
	if err != nil {
		return upstreamHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}
