package services_test

import (
	"context"
	"testing"

	impl "github.com/nivaran/storefront/internal/application/services"
	"github.com/nivaran/storefront/internal/core/domain/catalog"
	"github.com/nivaran/storefront/test/mocks"
)

func TestListProducts_DefaultsLimit(t *testing.T) {
	var gotLimit int
	gw := &mocks.CatalogGatewayMock{
		FetchProductsFn: func(ctx context.Context, limit int) ([]catalog.Product, error) {
			gotLimit = limit
			return []catalog.Product{{ID: "p1"}}, nil
		},
	}

	svc := impl.NewCatalogService(gw, nil)
	products, err := svc.ListProducts(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 100 {
		t.Fatalf("expected default limit 100, got %d", gotLimit)
	}
	if len(products) != 1 {
		t.Fatalf("expected one product, got %d", len(products))
	}
}

func TestProductByHandle_UnknownHandleIsNilNil(t *testing.T) {
	gw := &mocks.CatalogGatewayMock{
		FetchProductByHandleFn: func(ctx context.Context, handle string) (*catalog.Product, error) {
			return nil, nil
		},
	}

	svc := impl.NewCatalogService(gw, nil)
	p, err := svc.ProductByHandle(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil product for unknown handle")
	}
}

func TestSearch_BlankQueryShortCircuits(t *testing.T) {
	called := false
	gw := &mocks.CatalogGatewayMock{
		SearchProductsFn: func(ctx context.Context, query string, limit int) ([]catalog.Product, error) {
			called = true
			return nil, nil
		},
	}

	svc := impl.NewCatalogService(gw, nil)
	for _, q := range []string{"", "   ", "\t"} {
		out, err := svc.Search(context.Background(), q)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != nil {
			t.Fatalf("blank query must return no results")
		}
	}
	if called {
		t.Fatalf("blank query must not hit the gateway")
	}
}

func TestSearch_PassesQueryThrough(t *testing.T) {
	gw := &mocks.CatalogGatewayMock{
		SearchProductsFn: func(ctx context.Context, query string, limit int) ([]catalog.Product, error) {
			if query != "denim" {
				t.Fatalf("unexpected query %q", query)
			}
			return []catalog.Product{{ID: "p1", Title: "Denim Jacket"}}, nil
		},
	}

	svc := impl.NewCatalogService(gw, nil)
	out, err := svc.Search(context.Background(), "denim")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected one result, got %d", len(out))
	}
}
