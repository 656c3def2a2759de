// Package static serves the built-in product catalog. It is the default
// backend when no commerce platform is configured and is also the seed data
// for local development.
package static

import (
	"context"
	"strings"

	"github.com/jwaldorf05/fhp-storefront/internal/domain"
	apperrors "github.com/jwaldorf05/fhp-storefront/pkg/errors"
	"github.com/jwaldorf05/fhp-storefront/pkg/slug"
)

// Catalog is an immutable in-process catalog.
type Catalog struct {
	products    []domain.Product
	byHandle    map[string]int
	collections []domain.Collection
	members     map[string][]string
}

// NewCatalog builds the catalog from the built-in inventory.
func NewCatalog() *Catalog {
	products := inventory()
	byHandle := make(map[string]int, len(products))
	for i, p := range products {
		byHandle[p.Handle] = i
	}

	allHandles := make([]string, len(products))
	for i, p := range products {
		allHandles[i] = p.Handle
	}

	return &Catalog{
		products: products,
		byHandle: byHandle,
		collections: []domain.Collection{
			{Handle: "all", Title: "All", Description: "Every piece in the current drop."},
			{Handle: "harvard-collection", Title: "Harvard Collection", Description: "Crimson colorways and yard-ready cuts."},
		},
		members: map[string][]string{
			"all":                allHandles,
			"harvard-collection": {"tagged-crewneck", "canvas-jacket", "stencil-cap"},
		},
	}
}

// ListProducts returns a page of products. The cursor is the handle of the
// last product on the previous page.
func (c *Catalog) ListProducts(ctx context.Context, query string, first int, after string) ([]domain.Product, string, error) {
	if first <= 0 {
		first = len(c.products)
	}

	matched := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if matchesQuery(&p, query) {
			matched = append(matched, p)
		}
	}

	start := 0
	if after != "" {
		for i, p := range matched {
			if p.Handle == after {
				start = i + 1
				break
			}
		}
	}
	if start >= len(matched) {
		return []domain.Product{}, "", nil
	}

	end := start + first
	if end > len(matched) {
		end = len(matched)
	}

	page := matched[start:end]
	next := ""
	if end < len(matched) {
		next = page[len(page)-1].Handle
	}
	return page, next, nil
}

// GetProductByHandle returns the product with the given handle.
func (c *Catalog) GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	i, ok := c.byHandle[handle]
	if !ok {
		return nil, apperrors.NotFound("product", handle)
	}
	p := c.products[i]
	return &p, nil
}

// ListCollections returns all collections.
func (c *Catalog) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	out := make([]domain.Collection, len(c.collections))
	copy(out, c.collections)
	return out, nil
}

// GetCollectionByHandle returns a collection and its member products.
func (c *Catalog) GetCollectionByHandle(ctx context.Context, handle string) (*domain.Collection, []domain.Product, error) {
	for _, col := range c.collections {
		if col.Handle == handle {
			handles := c.members[handle]
			products := make([]domain.Product, 0, len(handles))
			for _, h := range handles {
				if i, ok := c.byHandle[h]; ok {
					products = append(products, c.products[i])
				}
			}
			return &col, products, nil
		}
	}
	return nil, nil, apperrors.NotFound("collection", handle)
}

func matchesQuery(p *domain.Product, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Category), q) ||
		strings.Contains(p.Handle, q)
}

func ptr(s string) *string { return &s }

// inventory is the editable source of truth for the built-in storefront.
// Handles are derived from product names so links and cart lines stay
// stable as copy changes.
func inventory() []domain.Product {
	apparelSizes := []domain.SizeOption{
		{Size: "S"}, {Size: "M"}, {Size: "L"}, {Size: "XL"},
	}

	return []domain.Product{
		{
			ID:               "1",
			Name:             "NEON DRIP TEE",
			Handle:           slug.Generate("NEON DRIP TEE"),
			DefaultPrice:     "$65",
			Image:            nil,
			Category:         "Tees",
			ShortDescription: "Heavyweight tee with a hand-pulled neon drip print.",
			Description:      "Oversized heavyweight cotton tee. Each neon drip front print is pulled by hand, so no two shirts bleed the same way.",
			Materials:        []string{"100% heavyweight cotton", "Water-based neon ink"},
			SizeOptions: []domain.SizeOption{
				{Size: "S"}, {Size: "M"}, {Size: "L", Price: ptr("$69")}, {Size: "XL"},
			},
			Gallery: []domain.GalleryFrame{
				{ID: "neon-drip-tee-front", Title: "Front print", Image: nil},
				{ID: "neon-drip-tee-back", Title: "Back tag", Image: nil},
			},
		},
		{
			ID:               "2",
			Name:             "SPLATTER HOODIE",
			Handle:           slug.Generate("SPLATTER HOODIE"),
			DefaultPrice:     "$120",
			Image:            nil,
			Category:         "Hoodies",
			ShortDescription: "Fleece hoodie caught in the crossfire of a paint session.",
			Description:      "Midweight fleece hoodie splattered panel by panel before assembly. The splatter wraps the seams instead of stopping at them.",
			Materials:        []string{"80% cotton, 20% polyester fleece", "Acrylic paint splatter"},
			SizeOptions:      apparelSizes,
		},
		{
			ID:               "3",
			Name:             "TAGGED CREWNECK",
			Handle:           slug.Generate("TAGGED CREWNECK"),
			DefaultPrice:     "$95",
			Image:            nil,
			Category:         "Crewnecks",
			ShortDescription: "Crewneck covered in throwie tags from the crew.",
			Description:      "Classic fit crewneck tagged front and back. The tag layout is printed from a scanned wall, dents and drips included.",
			Materials:        []string{"French terry cotton", "Plastisol print"},
			SizeOptions:      apparelSizes,
		},
		{
			ID:               "4",
			Name:             "STENCIL CAP",
			Handle:           slug.Generate("STENCIL CAP"),
			DefaultPrice:     "$45",
			Image:            nil,
			Category:         "Headwear",
			ShortDescription: "One-size snapback with a cut-stencil crown hit.",
			Description:      "Structured snapback sprayed through a hand-cut stencil. One size, no size selection needed.",
			Materials:        []string{"Cotton twill", "Spray enamel"},
		},
		{
			ID:               "5",
			Name:             "MURAL JOGGERS",
			Handle:           slug.Generate("MURAL JOGGERS"),
			DefaultPrice:     "$85",
			Image:            nil,
			Category:         "Bottoms",
			ShortDescription: "Joggers printed with a full-leg mural panel.",
			Description:      "Tapered joggers with a mural section running ankle to hip on the left leg. Elastic cuff, deep pockets.",
			Materials:        []string{"Brushed fleece", "Sublimation print"},
			SizeOptions:      apparelSizes,
		},
		{
			ID:               "6",
			Name:             "CANVAS JACKET",
			Handle:           slug.Generate("CANVAS JACKET"),
			DefaultPrice:     "$180",
			Image:            nil,
			Category:         "Outerwear",
			ShortDescription: "Work jacket treated as a stretched canvas.",
			Description:      "Boxy canvas work jacket painted one at a time. Expect brush texture you can feel and colors that ignore the panel lines.",
			Materials:        []string{"12oz cotton canvas", "Acrylic paint"},
			SizeOptions:      apparelSizes,
		},
		{
			ID:               "7",
			Name:             "THROW-UP SHORTS",
			Handle:           slug.Generate("THROW-UP SHORTS"),
			DefaultPrice:     "$55",
			Image:            nil,
			Category:         "Bottoms",
			ShortDescription: "Mesh shorts with a two-color bubble throw-up.",
			Description:      "Lightweight mesh shorts with an oversized bubble-letter throw-up across the right thigh. Above-the-knee cut.",
			Materials:        []string{"Polyester mesh", "Screen print"},
			SizeOptions:      apparelSizes,
		},
		{
			ID:               "8",
			Name:             "WILDSTYLE TANK",
			Handle:           slug.Generate("WILDSTYLE TANK"),
			DefaultPrice:     "$50",
			Image:            nil,
			Category:         "Tees",
			ShortDescription: "Tank with an unreadable wildstyle burner.",
			Description:      "Athletic cut tank carrying a full wildstyle burner. If you can read it, you earned it.",
			Materials:        []string{"Ring-spun cotton", "Discharge print"},
			SizeOptions:      apparelSizes,
		},
	}
}
