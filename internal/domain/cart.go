package domain

import "github.com/google/uuid"

// CartLine represents one distinct purchasable entry in a cart: a product,
// size, and price combination with a quantity. The JSON field names are the
// cart cookie wire format and must stay stable across deploys, since live
// carts round-trip through client cookies.
type CartLine struct {
	ID           string  `json:"id"`
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	SelectedSize *string `json:"selectedSize"`
	Quantity     int     `json:"quantity"`
	UnitPrice    string  `json:"unitPrice"`
	Image        *string `json:"image"`
}

// CartState is an ordered collection of cart lines. It is a value type:
// every mutation returns a new state and leaves the receiver untouched,
// so a request-scoped state can never leak partial writes.
type CartState struct {
	Items []CartLine `json:"items"`
}

// NewLine holds the fields for a line being added to a cart. The line ID is
// generated when the line is first created and is never supplied by callers.
type NewLine struct {
	Handle       string
	Name         string
	SelectedSize *string
	Quantity     int
	UnitPrice    string
	Image        *string
}

// EmptyCart returns a cart state with zero lines.
func EmptyCart() CartState {
	return CartState{Items: []CartLine{}}
}

// newLineID generates a unique ID for a new cart line. The ID only needs to
// be unique within one cart's lifetime.
func newLineID() string {
	return uuid.NewString()
}

// sameSize compares two optional size selections for exact equality.
func sameSize(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// AddLine returns a new state with the item added. When an existing line
// matches the incoming (handle, selected size, unit price) triple exactly,
// the quantities merge instead of appending a duplicate line, and no new
// line ID is generated.
func (c CartState) AddLine(item NewLine) CartState {
	for i, line := range c.Items {
		if line.Handle == item.Handle && sameSize(line.SelectedSize, item.SelectedSize) && line.UnitPrice == item.UnitPrice {
			items := make([]CartLine, len(c.Items))
			copy(items, c.Items)
			items[i].Quantity += item.Quantity
			return CartState{Items: items}
		}
	}

	items := make([]CartLine, len(c.Items), len(c.Items)+1)
	copy(items, c.Items)
	items = append(items, CartLine{
		ID:           newLineID(),
		Handle:       item.Handle,
		Name:         item.Name,
		SelectedSize: item.SelectedSize,
		Quantity:     item.Quantity,
		UnitPrice:    item.UnitPrice,
		Image:        item.Image,
	})
	return CartState{Items: items}
}

// UpdateLineQuantity returns a new state with the matching line's quantity
// replaced. When no line matches the ID the state is returned unchanged;
// callers that need a not-found signal should check FindLine first.
func (c CartState) UpdateLineQuantity(lineID string, quantity int) CartState {
	items := make([]CartLine, len(c.Items))
	copy(items, c.Items)
	for i := range items {
		if items[i].ID == lineID {
			items[i].Quantity = quantity
		}
	}
	return CartState{Items: items}
}

// RemoveLine returns a new state with the matching line removed. No-op when
// no line matches the ID.
func (c CartState) RemoveLine(lineID string) CartState {
	items := make([]CartLine, 0, len(c.Items))
	for _, line := range c.Items {
		if line.ID != lineID {
			items = append(items, line)
		}
	}
	return CartState{Items: items}
}

// FindLine returns the index of the line with the given ID, or -1.
func (c CartState) FindLine(lineID string) int {
	for i := range c.Items {
		if c.Items[i].ID == lineID {
			return i
		}
	}
	return -1
}

// TotalQuantity returns the sum of all line quantities. Used for display
// badges and response payload totals.
func (c CartState) TotalQuantity() int {
	var total int
	for _, line := range c.Items {
		total += line.Quantity
	}
	return total
}
