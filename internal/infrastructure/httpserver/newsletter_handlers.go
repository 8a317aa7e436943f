package httpserver

import (
	"errors"
	"net/http"

	"github.com/nivaran/storefront/internal/core/domain/newsletter"
	"github.com/labstack/echo/v4"
)

// Newsletter handlers
func (s *Server) subscribeNewsletter(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	isNew, err := s.newsletterSvc.Subscribe(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, newsletter.ErrInvalidEmail) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid email address")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to subscribe")
	}

	status := http.StatusCreated
	if !isNew {
		status = http.StatusOK
	}
	return c.JSON(status, map[string]interface{}{
		"subscribed": true,
		"new":        isNew,
	})
}
