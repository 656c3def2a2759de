package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwaldorf05/fhp-storefront/pkg/errors"
	"github.com/jwaldorf05/fhp-storefront/pkg/httpclient"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testHTTPClient() *httpclient.Client {
	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	cfg.Timeout = 5 * time.Second
	return httpclient.New(cfg)
}

// newTestClient points a commerce client at the given handler. The client's
// endpoint is rewritten to the test server because NewClient always builds
// an https URL from the store domain.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Config{StoreDomain: "test-store.example.com", AccessToken: "token-123"}, testHTTPClient(), testLogger())
	c.endpoint = srv.URL
	return c, srv
}

func graphqlResponse(data string) string {
	return `{"data":` + data + `}`
}

const wireProductJSON = `{
	"id": "gid://product/1",
	"handle": "neon-drip-tee",
	"title": "NEON DRIP TEE",
	"description": "Oversized heavyweight tee. Hand-pulled print.",
	"availableForSale": true,
	"priceRange": {
		"minVariantPrice": {"amount": "65.0", "currencyCode": "USD"},
		"maxVariantPrice": {"amount": "69.0", "currencyCode": "USD"}
	},
	"images": {"edges": [
		{"node": {"url": "https://cdn.example.com/front.jpg", "altText": "Front", "width": 800, "height": 800}, "cursor": "a"},
		{"node": {"url": "https://cdn.example.com/back.jpg", "altText": "Back", "width": 800, "height": 800}, "cursor": "b"}
	], "pageInfo": {"hasNextPage": false, "endCursor": null}},
	"variants": {"edges": [
		{"node": {"id": "gid://variant/1", "title": "S", "availableForSale": true, "price": {"amount": "65.0", "currencyCode": "USD"}, "compareAtPrice": null, "selectedOptions": [{"name": "Size", "value": "S"}], "image": null}, "cursor": "a"},
		{"node": {"id": "gid://variant/2", "title": "L", "availableForSale": true, "price": {"amount": "69.0", "currencyCode": "USD"}, "compareAtPrice": null, "selectedOptions": [{"name": "Size", "value": "L"}], "image": null}, "cursor": "b"}
	], "pageInfo": {"hasNextPage": false, "endCursor": null}},
	"options": [{"id": "gid://option/1", "name": "Size", "values": ["S", "L"]}],
	"tags": ["Tees"]
}`

// ============================================================================
// Client.execute Tests
// ============================================================================

func TestExecute_SendsAuthHeaderAndBody(t *testing.T) {
	var gotToken, gotContentType string
	var gotBody map[string]any

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Shopify-Storefront-Access-Token")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(graphqlResponse(`{"productByHandle": null}`)))
	})

	_, err := c.GetProductByHandle(context.Background(), "missing")
	require.Error(t, err)

	assert.Equal(t, "token-123", gotToken)
	assert.Equal(t, "application/json", gotContentType)
	assert.Contains(t, gotBody["query"], "GetProductByHandle")
	vars := gotBody["variables"].(map[string]any)
	assert.Equal(t, "missing", vars["handle"])
}

func TestExecute_GraphQLErrors(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": null, "errors": [{"message": "throttled"}]}`))
	})

	_, _, err := c.ListProducts(context.Background(), "", 10, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestExecute_HTTPErrorStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": "FORBIDDEN", "message": "bad token"}}`, http.StatusForbidden)
	})

	_, _, err := c.ListProducts(context.Background(), "", 10, "")
	require.Error(t, err)
}

// ============================================================================
// Product Mapping Tests
// ============================================================================

func TestGetProductByHandle_MapsToDomain(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(graphqlResponse(`{"productByHandle": ` + wireProductJSON + `}`)))
	})

	p, err := c.GetProductByHandle(context.Background(), "neon-drip-tee")
	require.NoError(t, err)

	assert.Equal(t, "neon-drip-tee", p.Handle)
	assert.Equal(t, "NEON DRIP TEE", p.Name)
	assert.Equal(t, "$65", p.DefaultPrice)
	require.NotNil(t, p.Image)
	assert.Equal(t, "https://cdn.example.com/front.jpg", *p.Image)
	assert.Equal(t, "Tees", p.Category)
	assert.Equal(t, "Oversized heavyweight tee.", p.ShortDescription)

	// Second image becomes the gallery
	require.Len(t, p.Gallery, 1)
	assert.Equal(t, "https://cdn.example.com/back.jpg", *p.Gallery[0].Image)

	// Size L charges more than the default, so it carries an override
	require.Len(t, p.SizeOptions, 2)
	assert.Equal(t, "S", p.SizeOptions[0].Size)
	assert.Nil(t, p.SizeOptions[0].Price)
	assert.Equal(t, "L", p.SizeOptions[1].Size)
	require.NotNil(t, p.SizeOptions[1].Price)
	assert.Equal(t, "$69", *p.SizeOptions[1].Price)
}

func TestGetProductByHandle_NotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(graphqlResponse(`{"productByHandle": null}`)))
	})

	_, err := c.GetProductByHandle(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestListProducts_CursorFromPageInfo(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(graphqlResponse(`{"products": {
			"edges": [{"node": ` + wireProductJSON + `, "cursor": "cur-1"}],
			"pageInfo": {"hasNextPage": true, "endCursor": "cur-1"}
		}}`)))
	})

	products, next, err := c.ListProducts(context.Background(), "", 1, "")
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, "cur-1", next)
}

func TestListProducts_SearchUsesQueryOperation(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		gotQuery = body["query"].(string)
		w.Write([]byte(graphqlResponse(`{"products": {"edges": [], "pageInfo": {"hasNextPage": false, "endCursor": null}}}`)))
	})

	_, _, err := c.ListProducts(context.Background(), "tee", 10, "")
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "SearchProducts")
}

// ============================================================================
// Remote Cart Tests
// ============================================================================

const wireCartJSON = `{
	"id": "gid://cart/1",
	"checkoutUrl": "https://test-store.example.com/checkout/1",
	"totalQuantity": 2,
	"cost": {
		"subtotalAmount": {"amount": "130.0", "currencyCode": "USD"},
		"totalAmount": {"amount": "130.0", "currencyCode": "USD"},
		"totalTaxAmount": null
	},
	"lines": {"edges": [{"node": {
		"id": "gid://cartline/1",
		"quantity": 2,
		"merchandise": {
			"id": "gid://variant/1",
			"title": "S",
			"product": {"id": "gid://product/1", "handle": "neon-drip-tee", "title": "NEON DRIP TEE"},
			"price": {"amount": "65.0", "currencyCode": "USD"},
			"image": null
		},
		"cost": {"totalAmount": {"amount": "130.0", "currencyCode": "USD"}}
	}, "cursor": "a"}], "pageInfo": {"hasNextPage": false, "endCursor": null}}
}`

func TestCreateCart_Success(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(graphqlResponse(`{"cartCreate": {"cart": ` + wireCartJSON + `, "userErrors": []}}`)))
	})

	cart, err := c.CreateCart(context.Background(), []LineInput{{MerchandiseID: "gid://variant/1", Quantity: 2}})
	require.NoError(t, err)

	assert.Equal(t, "gid://cart/1", cart.ID)
	assert.Equal(t, 2, cart.TotalQuantity)
	require.Len(t, cart.LineItems(), 1)
	assert.Equal(t, "neon-drip-tee", cart.LineItems()[0].Merchandise.Product.Handle)
}

func TestAddCartLines_UserErrorsBecomeInvalidInput(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(graphqlResponse(`{"cartLinesAdd": {"cart": null, "userErrors": [{"field": ["lines"], "message": "variant sold out"}]}}`)))
	})

	_, err := c.AddCartLines(context.Background(), "gid://cart/1", []LineInput{{MerchandiseID: "gid://variant/9", Quantity: 1}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.True(t, strings.Contains(err.Error(), "variant sold out"))
}

func TestGetCart_Expired(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(graphqlResponse(`{"cart": null}`)))
	})

	_, err := c.GetCart(context.Background(), "gid://cart/expired")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

// ============================================================================
// formatDisplayPrice Tests
// ============================================================================

func TestFormatDisplayPrice(t *testing.T) {
	assert.Equal(t, "$65", formatDisplayPrice("65.0"))
	assert.Equal(t, "$65.50", formatDisplayPrice("65.5"))
	assert.Equal(t, "$1204.50", formatDisplayPrice("1204.5"))
	assert.Equal(t, "$oops", formatDisplayPrice("oops"))
}
