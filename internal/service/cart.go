package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwaldorf05/fhp-storefront/internal/domain"
	"github.com/jwaldorf05/fhp-storefront/internal/repository"
	apperrors "github.com/jwaldorf05/fhp-storefront/pkg/errors"
)

const (
	// MaxQuantityPerLine caps a single line after merging.
	MaxQuantityPerLine = 100

	// MaxLinesPerCart caps distinct lines in one cart. The cart lives in a
	// cookie and cookies have a 4KB ceiling.
	MaxLinesPerCart = 50
)

// CartService applies cart mutations against the catalog. It owns
// validation; the domain state operations stay unconditional.
type CartService struct {
	catalog repository.Catalog
	logger  *slog.Logger
}

// NewCartService creates a cart service.
func NewCartService(catalog repository.Catalog, logger *slog.Logger) *CartService {
	return &CartService{catalog: catalog, logger: logger}
}

// AddItem validates the product and size, resolves the charge price, and
// returns the cart with the item added.
func (s *CartService) AddItem(ctx context.Context, cart domain.CartState, handle string, quantity int, selectedSize *string) (domain.CartState, error) {
	if quantity < 1 {
		return cart, apperrors.InvalidInput("quantity must be a positive integer")
	}

	product, err := s.catalog.GetProductByHandle(ctx, handle)
	if err != nil {
		return cart, err
	}

	if err := validateSizeSelection(product, selectedSize); err != nil {
		return cart, err
	}
	if !product.HasSizes() {
		selectedSize = nil
	}

	updated := cart.AddLine(domain.NewLine{
		Handle:       product.Handle,
		Name:         product.Name,
		SelectedSize: selectedSize,
		Quantity:     quantity,
		UnitPrice:    product.PriceFor(selectedSize),
		Image:        product.Image,
	})

	if len(updated.Items) > MaxLinesPerCart {
		return cart, apperrors.InvalidInput(fmt.Sprintf("cart cannot hold more than %d distinct items", MaxLinesPerCart))
	}
	for _, line := range updated.Items {
		if line.Quantity > MaxQuantityPerLine {
			return cart, apperrors.InvalidInput(fmt.Sprintf("quantity per item cannot exceed %d", MaxQuantityPerLine))
		}
	}

	s.logger.InfoContext(ctx, "cart item added",
		slog.String("handle", product.Handle),
		slog.Int("quantity", quantity),
		slog.Int("total_quantity", updated.TotalQuantity()),
	)
	return updated, nil
}

// UpdateLineQuantity replaces a line's quantity. Unknown line ids are a 404;
// the caller's cookie may be stale relative to another tab.
func (s *CartService) UpdateLineQuantity(ctx context.Context, cart domain.CartState, lineID string, quantity int) (domain.CartState, error) {
	if quantity < 1 {
		return cart, apperrors.InvalidInput("quantity must be a positive integer")
	}
	if quantity > MaxQuantityPerLine {
		return cart, apperrors.InvalidInput(fmt.Sprintf("quantity per item cannot exceed %d", MaxQuantityPerLine))
	}
	if cart.FindLine(lineID) < 0 {
		return cart, apperrors.NotFound("cart line", lineID)
	}
	return cart.UpdateLineQuantity(lineID, quantity), nil
}

// RemoveLine drops a line from the cart. Unknown line ids are a 404.
func (s *CartService) RemoveLine(ctx context.Context, cart domain.CartState, lineID string) (domain.CartState, error) {
	if cart.FindLine(lineID) < 0 {
		return cart, apperrors.NotFound("cart line", lineID)
	}
	return cart.RemoveLine(lineID), nil
}

// validateSizeSelection mirrors the product page rules: sized products
// require a size that actually exists, unsized products ignore sizes.
func validateSizeSelection(product *domain.Product, selectedSize *string) error {
	if !product.HasSizes() {
		return nil
	}
	if selectedSize == nil || *selectedSize == "" {
		return apperrors.InvalidInput("please select a size before adding to cart")
	}
	if product.SizeOption(*selectedSize) == nil {
		return apperrors.InvalidInput("selected size is not available for this product")
	}
	return nil
}
