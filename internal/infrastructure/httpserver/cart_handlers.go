package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Cart handlers
func (s *Server) getCart(c echo.Context) error {
	current := s.cartSvc.Cart()
	if current == nil {
		// An engine that missed its boot-time initialization gets another
		// chance on every read.
		if err := s.cartSvc.Initialize(c.Request().Context()); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "cart is not ready")
		}
		current = s.cartSvc.Cart()
	}
	if current == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "cart is not ready")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"cart":       current,
		"item_count": current.ItemCount(),
		"subtotal":   current.Subtotal(),
	})
}

func (s *Server) addCartLine(c echo.Context) error {
	var req struct {
		VariantID string `json:"variant_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.VariantID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "variant_id is required")
	}
	if req.Quantity <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be positive")
	}

	updated, err := s.cartSvc.AddItem(c.Request().Context(), req.VariantID, req.Quantity)
	if err != nil {
		return upstreamHTTPError(err)
	}

	return c.JSON(http.StatusOK, updated)
}

func (s *Server) updateCartLine(c echo.Context) error {
	lineID := c.Param("id")
	if lineID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "line id is required")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	updated, err := s.cartSvc.UpdateQuantity(c.Request().Context(), lineID, req.Quantity)
	if err != nil {
		return upstreamHTTPError(err)
	}

	return c.JSON(http.StatusOK, updated)
}

func (s *Server) removeCartLine(c echo.Context) error {
	lineID := c.Param("id")
	if lineID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "line id is required")
	}

	updated, err := s.cartSvc.RemoveItem(c.Request().Context(), lineID)
	if err != nil {
		return upstreamHTTPError(err)
	}

	return c.JSON(http.StatusOK, updated)
}

func (s *Server) checkout(c echo.Context) error {
	url, err := s.cartSvc.CheckoutURL(c.Request().Context())
	if err != nil {
		return upstreamHTTPError(err)
	}
	if url == "" {
		return echo.NewHTTPError(http.StatusConflict, "cart has no checkout URL")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"checkout_url": url,
	})
}
