package domain

// SizeOption is one selectable size for a product. Price is set only when
// the size charges differently from the product's default price.
type SizeOption struct {
	Size  string  `json:"size"`
	Price *string `json:"price,omitempty"`
}

// GalleryFrame is one image slot in a product's detail gallery.
type GalleryFrame struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Image *string `json:"image"`
}

// Product is a catalog entry. Prices are display strings like "$65"; they
// are only converted to charge amounts at checkout time.
type Product struct {
	ID               string         `json:"id"`
	Handle           string         `json:"handle"`
	Name             string         `json:"name"`
	DefaultPrice     string         `json:"defaultPrice"`
	Image            *string        `json:"image"`
	Category         string         `json:"category"`
	ShortDescription string         `json:"shortDescription"`
	Description      string         `json:"description"`
	Materials        []string       `json:"materials"`
	SizeOptions      []SizeOption   `json:"sizeOptions,omitempty"`
	Gallery          []GalleryFrame `json:"gallery,omitempty"`
}

// Collection groups products for browse pages.
type Collection struct {
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// HasSizes reports whether the product requires a size selection.
func (p *Product) HasSizes() bool {
	return len(p.SizeOptions) > 0
}

// SizeOption returns the option matching the given size, or nil.
func (p *Product) SizeOption(size string) *SizeOption {
	for i := range p.SizeOptions {
		if p.SizeOptions[i].Size == size {
			return &p.SizeOptions[i]
		}
	}
	return nil
}

// PriceFor resolves the display price for a size selection. A size-specific
// override wins over the product default. An unknown or empty size falls
// back to the default price.
func (p *Product) PriceFor(selectedSize *string) string {
	if selectedSize == nil || *selectedSize == "" {
		return p.DefaultPrice
	}
	if opt := p.SizeOption(*selectedSize); opt != nil && opt.Price != nil && *opt.Price != "" {
		return *opt.Price
	}
	return p.DefaultPrice
}
