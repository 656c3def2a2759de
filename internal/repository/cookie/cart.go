// Package cookie persists cart state in a client-side cookie. The browser is
// the cart database: every request carries the full cart in, every mutation
// writes the full cart back out. There is nothing to look up server-side and
// nothing to expire beyond the cookie's own max age.
package cookie

import (
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/jwaldorf05/fhp-storefront/internal/domain"
)

const (
	// DefaultName matches the cookie written by earlier releases so live
	// carts survive the cutover.
	DefaultName = "fhp-cart"

	// DefaultMaxAge is 30 days in seconds.
	DefaultMaxAge = 30 * 24 * 60 * 60
)

// Store reads and writes cart state through a named cookie.
type Store struct {
	name   string
	maxAge int
}

// NewStore creates a cookie store. Empty name and zero maxAge fall back to
// the defaults.
func NewStore(name string, maxAge int) *Store {
	if name == "" {
		name = DefaultName
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Store{name: name, maxAge: maxAge}
}

// Name returns the cookie name the store reads and writes.
func (s *Store) Name() string {
	return s.name
}

// Load reads the cart from the request's cookie. Decoding is deliberately
// forgiving: a missing cookie, undecodable value, or malformed envelope
// yields an empty cart, and individually invalid lines are dropped while
// valid ones survive. A customer must never be locked out of the store by
// a corrupt cart cookie.
func (s *Store) Load(r *http.Request) domain.CartState {
	ck, err := r.Cookie(s.name)
	if err != nil || ck.Value == "" {
		return domain.EmptyCart()
	}

	raw, err := url.PathUnescape(ck.Value)
	if err != nil {
		return domain.EmptyCart()
	}

	var envelope struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return domain.EmptyCart()
	}

	items := make([]domain.CartLine, 0, len(envelope.Items))
	for _, rawLine := range envelope.Items {
		if line, ok := decodeLine(rawLine); ok {
			items = append(items, line)
		}
	}
	return domain.CartState{Items: items}
}

// maxLineQuantity bounds the quantity a cookie line may carry. Anything
// larger than this cannot come from the storefront and would overflow the
// int conversion below.
const maxLineQuantity = math.MaxInt32

// decodeLine validates a single serialized line. Required string fields must
// be present and non-empty, quantity must be a positive whole number within
// bounds, and the optional fields must be strings or null.
func decodeLine(raw json.RawMessage) (domain.CartLine, bool) {
	var loose struct {
		ID           *string  `json:"id"`
		Handle       *string  `json:"handle"`
		Name         *string  `json:"name"`
		SelectedSize any      `json:"selectedSize"`
		Quantity     *float64 `json:"quantity"`
		UnitPrice    *string  `json:"unitPrice"`
		Image        any      `json:"image"`
	}
	if err := json.Unmarshal(raw, &loose); err != nil {
		return domain.CartLine{}, false
	}

	if loose.ID == nil || *loose.ID == "" ||
		loose.Handle == nil || *loose.Handle == "" ||
		loose.Name == nil ||
		loose.UnitPrice == nil || *loose.UnitPrice == "" {
		return domain.CartLine{}, false
	}
	if loose.Quantity == nil || *loose.Quantity <= 0 || *loose.Quantity > maxLineQuantity ||
		*loose.Quantity != math.Trunc(*loose.Quantity) {
		return domain.CartLine{}, false
	}

	size, ok := optionalString(loose.SelectedSize)
	if !ok {
		return domain.CartLine{}, false
	}
	image, ok := optionalString(loose.Image)
	if !ok {
		return domain.CartLine{}, false
	}

	return domain.CartLine{
		ID:           *loose.ID,
		Handle:       *loose.Handle,
		Name:         *loose.Name,
		SelectedSize: size,
		Quantity:     int(*loose.Quantity),
		UnitPrice:    *loose.UnitPrice,
		Image:        image,
	}, true
}

// optionalString accepts null, absent, or string values and rejects
// everything else.
func optionalString(v any) (*string, bool) {
	switch t := v.(type) {
	case nil:
		return nil, true
	case string:
		return &t, true
	default:
		return nil, false
	}
}

// Serialize renders the cart as a cookie value. The JSON payload is
// percent-encoded the way browsers expect (encodeURIComponent compatible,
// spaces as %20 rather than +).
func (s *Store) Serialize(cart domain.CartState) (string, error) {
	if cart.Items == nil {
		cart.Items = []domain.CartLine{}
	}
	payload, err := json.Marshal(cart)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(url.QueryEscape(string(payload)), "+", "%20"), nil
}

// Write sets the cart cookie on the response. The cookie spans the whole
// site, is unreadable from scripts, and rides along on top-level navigation
// so the cart badge survives external payment redirects.
func (s *Store) Write(w http.ResponseWriter, cart domain.CartState) error {
	value, err := s.Serialize(cart)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     "/",
		MaxAge:   s.maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
