package commerce

import (
	"context"

	"github.com/jwaldorf05/fhp-storefront/internal/domain"
	apperrors "github.com/jwaldorf05/fhp-storefront/pkg/errors"
)

const imageFragment = `
  fragment ImageFields on Image {
    url
    altText
    width
    height
  }
`

const getCollectionsQuery = `
  query GetCollections($first: Int!) {
    collections(first: $first) {
      edges {
        node {
          id
          handle
          title
          description
          image { ...ImageFields }
        }
        cursor
      }
      pageInfo { hasNextPage endCursor }
    }
  }
` + imageFragment

const getCollectionByHandleQuery = `
  query GetCollectionByHandle($handle: String!, $productsFirst: Int!) {
    collectionByHandle(handle: $handle) {
      id
      handle
      title
      description
      image { ...ImageFields }
      products(first: $productsFirst) {
        edges { node { ...ProductFields } cursor }
        pageInfo { hasNextPage endCursor }
      }
    }
  }
` + productFragment + imageFragment

// ListCollections returns the platform's collections.
func (c *Client) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	var out struct {
		Collections connection[wireCollection] `json:"collections"`
	}
	if err := c.execute(ctx, getCollectionsQuery, map[string]any{"first": 20}, &out); err != nil {
		return nil, err
	}

	collections := make([]domain.Collection, 0, len(out.Collections.Edges))
	for _, e := range out.Collections.Edges {
		collections = append(collections, domain.Collection{
			Handle:      e.Node.Handle,
			Title:       e.Node.Title,
			Description: e.Node.Description,
		})
	}
	return collections, nil
}

// GetCollectionByHandle returns a collection and its first page of products.
func (c *Client) GetCollectionByHandle(ctx context.Context, handle string) (*domain.Collection, []domain.Product, error) {
	var out struct {
		CollectionByHandle *wireCollection `json:"collectionByHandle"`
	}
	vars := map[string]any{"handle": handle, "productsFirst": 20}
	if err := c.execute(ctx, getCollectionByHandleQuery, vars, &out); err != nil {
		return nil, nil, err
	}
	if out.CollectionByHandle == nil {
		return nil, nil, apperrors.NotFound("collection", handle)
	}

	col := domain.Collection{
		Handle:      out.CollectionByHandle.Handle,
		Title:       out.CollectionByHandle.Title,
		Description: out.CollectionByHandle.Description,
	}
	products := make([]domain.Product, 0, len(out.CollectionByHandle.Products.Edges))
	for _, e := range out.CollectionByHandle.Products.Edges {
		products = append(products, toDomainProduct(e.Node))
	}
	return &col, products, nil
}
