package commerce

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/jwaldorf05/fhp-storefront/pkg/errors"
)

const cartFragment = `
  fragment CartFields on Cart {
    id
    checkoutUrl
    totalQuantity
    cost {
      subtotalAmount { amount currencyCode }
      totalAmount { amount currencyCode }
      totalTaxAmount { amount currencyCode }
    }
    lines(first: 100) {
      edges {
        node {
          id
          quantity
          merchandise {
            ... on ProductVariant {
              id
              title
              product { id handle title }
              price { amount currencyCode }
              image { url altText width height }
            }
          }
          cost { totalAmount { amount currencyCode } }
        }
        cursor
      }
      pageInfo { hasNextPage endCursor }
    }
  }
`

const createCartMutation = `
  mutation CreateCart($lines: [CartLineInput!]!) {
    cartCreate(input: { lines: $lines }) {
      cart { ...CartFields }
      userErrors { field message }
    }
  }
` + cartFragment

const addCartLinesMutation = `
  mutation AddToCart($cartId: ID!, $lines: [CartLineInput!]!) {
    cartLinesAdd(cartId: $cartId, lines: $lines) {
      cart { ...CartFields }
      userErrors { field message }
    }
  }
` + cartFragment

const updateCartLinesMutation = `
  mutation UpdateCartLines($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
    cartLinesUpdate(cartId: $cartId, lines: $lines) {
      cart { ...CartFields }
      userErrors { field message }
    }
  }
` + cartFragment

const removeCartLinesMutation = `
  mutation RemoveCartLines($cartId: ID!, $lineIds: [ID!]!) {
    cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
      cart { ...CartFields }
      userErrors { field message }
    }
  }
` + cartFragment

const getCartQuery = `
  query GetCart($cartId: ID!) {
    cart(id: $cartId) { ...CartFields }
  }
` + cartFragment

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type cartPayload struct {
	Cart       *Cart       `json:"cart"`
	UserErrors []userError `json:"userErrors"`
}

// checkUserErrors converts platform validation errors into 400s for the
// client; the cart id and merchandise ids came from them.
func checkUserErrors(errs []userError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return apperrors.InvalidInput(fmt.Sprintf("cart rejected: %s", strings.Join(msgs, ", ")))
}

// CreateCart creates a platform-hosted cart with the given lines.
func (c *Client) CreateCart(ctx context.Context, lines []LineInput) (*Cart, error) {
	if lines == nil {
		lines = []LineInput{}
	}
	var out struct {
		CartCreate cartPayload `json:"cartCreate"`
	}
	if err := c.execute(ctx, createCartMutation, map[string]any{"lines": lines}, &out); err != nil {
		return nil, err
	}
	if err := checkUserErrors(out.CartCreate.UserErrors); err != nil {
		return nil, err
	}
	return out.CartCreate.Cart, nil
}

// GetCart fetches a hosted cart by id, or ErrNotFound when expired.
func (c *Client) GetCart(ctx context.Context, cartID string) (*Cart, error) {
	var out struct {
		Cart *Cart `json:"cart"`
	}
	if err := c.execute(ctx, getCartQuery, map[string]any{"cartId": cartID}, &out); err != nil {
		return nil, err
	}
	if out.Cart == nil {
		return nil, apperrors.NotFound("cart", cartID)
	}
	return out.Cart, nil
}

// AddCartLines adds variants to a hosted cart.
func (c *Client) AddCartLines(ctx context.Context, cartID string, lines []LineInput) (*Cart, error) {
	var out struct {
		CartLinesAdd cartPayload `json:"cartLinesAdd"`
	}
	vars := map[string]any{"cartId": cartID, "lines": lines}
	if err := c.execute(ctx, addCartLinesMutation, vars, &out); err != nil {
		return nil, err
	}
	if err := checkUserErrors(out.CartLinesAdd.UserErrors); err != nil {
		return nil, err
	}
	return out.CartLinesAdd.Cart, nil
}

// UpdateCartLines changes quantities on a hosted cart.
func (c *Client) UpdateCartLines(ctx context.Context, cartID string, lines []LineUpdateInput) (*Cart, error) {
	var out struct {
		CartLinesUpdate cartPayload `json:"cartLinesUpdate"`
	}
	vars := map[string]any{"cartId": cartID, "lines": lines}
	if err := c.execute(ctx, updateCartLinesMutation, vars, &out); err != nil {
		return nil, err
	}
	if err := checkUserErrors(out.CartLinesUpdate.UserErrors); err != nil {
		return nil, err
	}
	return out.CartLinesUpdate.Cart, nil
}

// RemoveCartLines removes lines from a hosted cart.
func (c *Client) RemoveCartLines(ctx context.Context, cartID string, lineIDs []string) (*Cart, error) {
	var out struct {
		CartLinesRemove cartPayload `json:"cartLinesRemove"`
	}
	vars := map[string]any{"cartId": cartID, "lineIds": lineIDs}
	if err := c.execute(ctx, removeCartLinesMutation, vars, &out); err != nil {
		return nil, err
	}
	if err := checkUserErrors(out.CartLinesRemove.UserErrors); err != nil {
		return nil, err
	}
	return out.CartLinesRemove.Cart, nil
}
