package domain

import (
	"math"
	"strconv"
	"strings"

	apperrors "github.com/jwaldorf05/fhp-storefront/pkg/errors"
)

// CheckoutLineItem is the payment-provider projection of a cart line. The
// amount is in the currency's minor unit (cents for USD).
type CheckoutLineItem struct {
	Name        string
	Description string
	AmountCents int64
	Quantity    int
	Currency    string
	Metadata    map[string]string
}

// DefaultCurrency is the only currency the storefront charges in.
const DefaultCurrency = "usd"

// ParsePriceToCents converts a display price string such as "$58" or
// "$1,204.50" into an integer amount of cents. Currency symbols and
// thousands separators are stripped before parsing. It returns an error for
// any string that does not contain a parseable amount: charging is the one
// place where a malformed price must stop the flow rather than default.
func ParsePriceToCents(price string) (int64, error) {
	var b strings.Builder
	for _, r := range price {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	numeric := b.String()
	if numeric == "" {
		return 0, apperrors.BadPrice(price)
	}

	amount, err := strconv.ParseFloat(numeric, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, apperrors.BadPrice(price)
	}

	return int64(math.Round(amount * 100)), nil
}

// checkoutName renders the line-item name shown on the payment page. The
// selected size is appended so "NEON DRIP TEE" bought in L reads
// "NEON DRIP TEE (L)".
func checkoutName(name string, selectedSize *string) string {
	if selectedSize == nil || *selectedSize == "" {
		return name
	}
	return name + " (" + *selectedSize + ")"
}

// CheckoutLineItems projects every cart line into a payment line item.
// It fails on the first unparseable price and returns nothing, so a cart
// with one corrupt line never produces a partial charge.
func (c CartState) CheckoutLineItems() ([]CheckoutLineItem, error) {
	items := make([]CheckoutLineItem, 0, len(c.Items))
	for _, line := range c.Items {
		cents, err := ParsePriceToCents(line.UnitPrice)
		if err != nil {
			return nil, err
		}

		metadata := map[string]string{"handle": line.Handle}
		if line.SelectedSize != nil && *line.SelectedSize != "" {
			metadata["size"] = *line.SelectedSize
		}

		items = append(items, CheckoutLineItem{
			Name:        checkoutName(line.Name, line.SelectedSize),
			AmountCents: cents,
			Quantity:    line.Quantity,
			Currency:    DefaultCurrency,
			Metadata:    metadata,
		})
	}
	return items, nil
}
