package commerce

import (
	"context"
	"strconv"
	"strings"

	"github.com/jwaldorf05/fhp-storefront/internal/domain"
	apperrors "github.com/jwaldorf05/fhp-storefront/pkg/errors"
)

const productFragment = `
  fragment ProductFields on Product {
    id
    handle
    title
    description
    availableForSale
    priceRange {
      minVariantPrice { amount currencyCode }
      maxVariantPrice { amount currencyCode }
    }
    images(first: 10) {
      edges { node { url altText width height } cursor }
      pageInfo { hasNextPage endCursor }
    }
    variants(first: 50) {
      edges {
        node {
          id
          title
          availableForSale
          price { amount currencyCode }
          compareAtPrice { amount currencyCode }
          selectedOptions { name value }
          image { url altText width height }
        }
        cursor
      }
      pageInfo { hasNextPage endCursor }
    }
    options { id name values }
    tags
  }
`

const getProductsQuery = `
  query GetProducts($first: Int!, $after: String) {
    products(first: $first, after: $after) {
      edges { node { ...ProductFields } cursor }
      pageInfo { hasNextPage endCursor }
    }
  }
` + productFragment

const searchProductsQuery = `
  query SearchProducts($query: String!, $first: Int!) {
    products(first: $first, query: $query) {
      edges { node { ...ProductFields } cursor }
      pageInfo { hasNextPage endCursor }
    }
  }
` + productFragment

const getProductByHandleQuery = `
  query GetProductByHandle($handle: String!) {
    productByHandle(handle: $handle) {
      ...ProductFields
    }
  }
` + productFragment

// ListProducts pages through the platform catalog. Search queries use the
// platform's own query syntax and do not paginate past the first page.
func (c *Client) ListProducts(ctx context.Context, query string, first int, after string) ([]domain.Product, string, error) {
	if first <= 0 {
		first = 20
	}

	var out struct {
		Products connection[wireProduct] `json:"products"`
	}

	if query != "" {
		err := c.execute(ctx, searchProductsQuery, map[string]any{"query": query, "first": first}, &out)
		if err != nil {
			return nil, "", err
		}
	} else {
		vars := map[string]any{"first": first}
		if after != "" {
			vars["after"] = after
		}
		if err := c.execute(ctx, getProductsQuery, vars, &out); err != nil {
			return nil, "", err
		}
	}

	products := make([]domain.Product, 0, len(out.Products.Edges))
	for _, e := range out.Products.Edges {
		products = append(products, toDomainProduct(e.Node))
	}

	next := ""
	if out.Products.PageInfo.HasNextPage && out.Products.PageInfo.EndCursor != nil {
		next = *out.Products.PageInfo.EndCursor
	}
	return products, next, nil
}

// GetProductByHandle fetches a single product.
func (c *Client) GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	var out struct {
		ProductByHandle *wireProduct `json:"productByHandle"`
	}
	if err := c.execute(ctx, getProductByHandleQuery, map[string]any{"handle": handle}, &out); err != nil {
		return nil, err
	}
	if out.ProductByHandle == nil {
		return nil, apperrors.NotFound("product", handle)
	}
	p := toDomainProduct(*out.ProductByHandle)
	return &p, nil
}

// toDomainProduct maps a platform product onto the storefront's catalog
// shape. The default price is the cheapest variant; sizes come from the
// "Size" option, with per-variant price overrides kept only when a sized
// variant charges differently from the default.
func toDomainProduct(p wireProduct) domain.Product {
	defaultPrice := formatDisplayPrice(p.PriceRange.MinVariantPrice.Amount)

	var image *string
	gallery := make([]domain.GalleryFrame, 0, len(p.Images.Edges))
	for i, e := range p.Images.Edges {
		url := e.Node.URL
		if i == 0 {
			image = &url
			continue
		}
		title := ""
		if e.Node.AltText != nil {
			title = *e.Node.AltText
		}
		gallery = append(gallery, domain.GalleryFrame{
			ID:    p.Handle + "-" + strconv.Itoa(i),
			Title: title,
			Image: &url,
		})
	}

	category := ""
	if len(p.Tags) > 0 {
		category = p.Tags[0]
	}

	return domain.Product{
		ID:               p.ID,
		Handle:           p.Handle,
		Name:             p.Title,
		DefaultPrice:     defaultPrice,
		Image:            image,
		Category:         category,
		ShortDescription: shortDescription(p.Description),
		Description:      p.Description,
		Materials:        p.Tags,
		SizeOptions:      sizeOptions(p, defaultPrice),
		Gallery:          gallery,
	}
}

func sizeOptions(p wireProduct, defaultPrice string) []domain.SizeOption {
	var values []string
	for _, opt := range p.Options {
		if strings.EqualFold(opt.Name, "Size") {
			values = opt.Values
			break
		}
	}
	if len(values) == 0 {
		return nil
	}

	priceBySize := make(map[string]string)
	for _, e := range p.Variants.Edges {
		for _, sel := range e.Node.SelectedOptions {
			if strings.EqualFold(sel.Name, "Size") {
				priceBySize[sel.Value] = formatDisplayPrice(e.Node.Price.Amount)
			}
		}
	}

	options := make([]domain.SizeOption, 0, len(values))
	for _, v := range values {
		opt := domain.SizeOption{Size: v}
		if price, ok := priceBySize[v]; ok && price != defaultPrice {
			p := price
			opt.Price = &p
		}
		options = append(options, opt)
	}
	return options
}

// shortDescription takes the first sentence of the long description, capped
// for card layouts.
func shortDescription(description string) string {
	s := description
	if i := strings.IndexAny(s, ".\n"); i >= 0 {
		s = s[:i+1]
	}
	s = strings.TrimSpace(s)
	if len(s) > 140 {
		s = s[:140]
	}
	return s
}

// formatDisplayPrice renders a decimal amount string the way the storefront
// shows prices: "$65" for whole dollars, "$65.50" otherwise.
func formatDisplayPrice(amount string) string {
	f, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return "$" + amount
	}
	if f == float64(int64(f)) {
		return "$" + strconv.FormatInt(int64(f), 10)
	}
	return "$" + strconv.FormatFloat(f, 'f', 2, 64)
}
