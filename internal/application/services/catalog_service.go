package services

import (
	"context"
	"strings"

	"github.com/nivaran/storefront/internal/core/domain/catalog"
	"github.com/nivaran/storefront/internal/core/ports"
	"github.com/sirupsen/logrus"
)

const defaultProductLimit = 100

// CatalogService exposes read-only catalog queries. It holds no state of its
// own; freshness comes entirely from the gateway's cache policy.
type CatalogService struct {
	gateway ports.CatalogGateway
	logger  *logrus.Logger
}

func NewCatalogService(gateway ports.CatalogGateway, logger *logrus.Logger) ports.CatalogService {
	return &CatalogService{gateway: gateway, logger: logger}
}

func (s *CatalogService) ListProducts(ctx context.Context, limit int) ([]catalog.Product, error) {
	if limit <= 0 {
		limit = defaultProductLimit
	}
	return s.gateway.FetchProducts(ctx, limit)
}

func (s *CatalogService) ProductByHandle(ctx context.Context, handle string) (*catalog.Product, error) {
	return s.gateway.FetchProductByHandle(ctx, handle)
}

func (s *CatalogService) Collections(ctx context.Context) ([]catalog.Collection, error) {
	return s.gateway.FetchCollections(ctx)
}

func (s *CatalogService) ShopInfo(ctx context.Context) (*catalog.Shop, error) {
	return s.gateway.FetchShop(ctx)
}

// Search runs an upstream product search. Blank queries short-circuit to an
// empty result instead of hitting the API.
func (s *CatalogService) Search(ctx context.Context, query string) ([]catalog.Product, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	return s.gateway.SearchProducts(ctx, query, 20)
}
