package repository

import (
	"context"

	"github.com/jwaldorf05/fhp-storefront/internal/domain"
)

// Catalog provides read access to the product catalog. Implementations are
// the in-process static catalog, the commerce-platform client, and the
// Redis read-through cache that wraps either.
type Catalog interface {
	// ListProducts returns a page of products, optionally filtered by a
	// search query. after is an opaque cursor from a previous page; empty
	// means the first page.
	ListProducts(ctx context.Context, query string, first int, after string) ([]domain.Product, string, error)

	// GetProductByHandle returns the product with the given handle, or
	// ErrNotFound.
	GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error)

	// ListCollections returns all browseable collections.
	ListCollections(ctx context.Context) ([]domain.Collection, error)

	// GetCollectionByHandle returns a collection and its member products.
	GetCollectionByHandle(ctx context.Context, handle string) (*domain.Collection, []domain.Product, error)
}
