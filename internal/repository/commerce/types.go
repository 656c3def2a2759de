package commerce

// Wire types for the storefront GraphQL API. These stay private to the
// package except where the remote cart surfaces them directly.

// Money is an amount plus ISO currency code, amount as a decimal string.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Image is a hosted product image.
type Image struct {
	URL     string  `json:"url"`
	AltText *string `json:"altText"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
}

type pageInfo struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

type edge[T any] struct {
	Node   T      `json:"node"`
	Cursor string `json:"cursor"`
}

type connection[T any] struct {
	Edges    []edge[T] `json:"edges"`
	PageInfo pageInfo  `json:"pageInfo"`
}

type wireVariant struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	AvailableForSale bool    `json:"availableForSale"`
	Price            Money   `json:"price"`
	CompareAtPrice   *Money  `json:"compareAtPrice"`
	SelectedOptions  []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"selectedOptions"`
	Image *Image `json:"image"`
}

type wireProduct struct {
	ID               string `json:"id"`
	Handle           string `json:"handle"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	AvailableForSale bool   `json:"availableForSale"`
	PriceRange       struct {
		MinVariantPrice Money `json:"minVariantPrice"`
		MaxVariantPrice Money `json:"maxVariantPrice"`
	} `json:"priceRange"`
	Images   connection[Image]       `json:"images"`
	Variants connection[wireVariant] `json:"variants"`
	Options  []struct {
		ID     string   `json:"id"`
		Name   string   `json:"name"`
		Values []string `json:"values"`
	} `json:"options"`
	Tags []string `json:"tags"`
}

type wireCollection struct {
	ID          string                  `json:"id"`
	Handle      string                  `json:"handle"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Image       *Image                  `json:"image"`
	Products    connection[wireProduct] `json:"products"`
}

// CartLine is a line in a platform-hosted cart.
type CartLine struct {
	ID          string `json:"id"`
	Quantity    int    `json:"quantity"`
	Merchandise struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Product struct {
			ID     string `json:"id"`
			Handle string `json:"handle"`
			Title  string `json:"title"`
		} `json:"product"`
		Price Money  `json:"price"`
		Image *Image `json:"image"`
	} `json:"merchandise"`
	Cost struct {
		TotalAmount Money `json:"totalAmount"`
	} `json:"cost"`
}

// Cart is a platform-hosted cart with server-computed totals and a hosted
// checkout URL.
type Cart struct {
	ID            string `json:"id"`
	CheckoutURL   string `json:"checkoutUrl"`
	TotalQuantity int    `json:"totalQuantity"`
	Cost          struct {
		SubtotalAmount Money  `json:"subtotalAmount"`
		TotalAmount    Money  `json:"totalAmount"`
		TotalTaxAmount *Money `json:"totalTaxAmount"`
	} `json:"cost"`
	Lines connection[CartLine] `json:"lines"`
}

// LineInput adds a variant to a remote cart.
type LineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// LineUpdateInput changes the quantity of an existing remote cart line.
type LineUpdateInput struct {
	ID            string `json:"id"`
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// LineItems flattens the cart's line connection.
func (c *Cart) LineItems() []CartLine {
	items := make([]CartLine, 0, len(c.Lines.Edges))
	for _, e := range c.Lines.Edges {
		items = append(items, e.Node)
	}
	return items
}
