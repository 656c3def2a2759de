package service

import (
	"context"
	"log/slog"

	"github.com/jwaldorf05/fhp-storefront/internal/domain"
	"github.com/jwaldorf05/fhp-storefront/internal/repository"
)

// CatalogService fronts the configured catalog backend for read endpoints.
type CatalogService struct {
	catalog repository.Catalog
	logger  *slog.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(catalog repository.Catalog, logger *slog.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, logger: logger}
}

// ListProducts returns a page of products plus the cursor for the next one.
func (s *CatalogService) ListProducts(ctx context.Context, query string, first int, after string) ([]domain.Product, string, error) {
	return s.catalog.ListProducts(ctx, query, first, after)
}

// GetProduct returns one product by handle.
func (s *CatalogService) GetProduct(ctx context.Context, handle string) (*domain.Product, error) {
	return s.catalog.GetProductByHandle(ctx, handle)
}

// ListCollections returns all collections.
func (s *CatalogService) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	return s.catalog.ListCollections(ctx)
}

// GetCollection returns a collection and its products.
func (s *CatalogService) GetCollection(ctx context.Context, handle string) (*domain.Collection, []domain.Product, error) {
	return s.catalog.GetCollectionByHandle(ctx, handle)
}
