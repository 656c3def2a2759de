package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwaldorf05/fhp-storefront/internal/domain"
	"github.com/jwaldorf05/fhp-storefront/internal/payment"
	"github.com/jwaldorf05/fhp-storefront/internal/repository/cookie"
	"github.com/jwaldorf05/fhp-storefront/internal/repository/static"
	"github.com/jwaldorf05/fhp-storefront/internal/service"
	"github.com/jwaldorf05/fhp-storefront/pkg/health"
	"github.com/jwaldorf05/fhp-storefront/pkg/httpclient"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// testRouter wires the full stack against the static catalog and a stubbed
// payment endpoint.
func testRouter(t *testing.T, stripeHandler http.HandlerFunc) http.Handler {
	t.Helper()
	logger := testLogger()

	stripeURL := ""
	secretKey := ""
	if stripeHandler != nil {
		srv := httptest.NewServer(stripeHandler)
		t.Cleanup(srv.Close)
		stripeURL = srv.URL
		secretKey = "sk_test_123"
	}

	hcCfg := httpclient.DefaultConfig()
	hcCfg.MaxRetries = 0
	hcCfg.Timeout = 5 * time.Second
	cbc := httpclient.NewCircuitBreakerClient(
		httpclient.New(hcCfg),
		httpclient.DefaultCircuitBreakerConfig("stripe-handler-test-"+t.Name()),
		logger,
	)

	catalog := static.NewCatalog()
	cookies := cookie.NewStore("fhp-cart", 2592000)
	payments := payment.NewClient(secretKey, stripeURL, cbc, logger)

	return NewRouter(RouterDeps{
		Cookies:       cookies,
		Carts:         service.NewCartService(catalog, logger),
		Catalog:       service.NewCatalogService(catalog, logger),
		Checkout:      service.NewCheckoutService(catalog, payments, nil, "https://shop.example.com", logger),
		Health:        health.NewHandler(),
		Logger:        logger,
		CatalogMaxAge: 300,
	})
}

type cartBody struct {
	Data struct {
		Items         []domain.CartLine `json:"items"`
		TotalQuantity int               `json:"totalQuantity"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, cookies []*http.Cookie) (*httptest.ResponseRecorder, cartBody) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var parsed cartBody
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

// cartCookie pulls the cart cookie out of a recorded response.
func cartCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "fhp-cart" {
			return c
		}
	}
	t.Fatal("no cart cookie in response")
	return nil
}

// ============================================================================
// GET /api/v1/cart Tests
// ============================================================================

func TestGetCart_NoCookie(t *testing.T) {
	router := testRouter(t, nil)

	w, body := doJSON(t, router, http.MethodGet, "/api/v1/cart", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, body.Data.Items)
	assert.Empty(t, body.Data.Items)
	assert.Equal(t, 0, body.Data.TotalQuantity)
}

func TestGetCart_GarbageCookieFailsOpen(t *testing.T) {
	router := testRouter(t, nil)
	garbage := []*http.Cookie{{Name: "fhp-cart", Value: "definitely-not-a-cart"}}

	w, body := doJSON(t, router, http.MethodGet, "/api/v1/cart", "", garbage)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body.Data.Items)
}

// ============================================================================
// POST /api/v1/cart/items Tests
// ============================================================================

func TestAddItem_SetsCookieAndReturnsCart(t *testing.T) {
	router := testRouter(t, nil)

	w, body := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"handle": "neon-drip-tee", "quantity": 2, "selectedSize": "L"}`, nil)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, "NEON DRIP TEE", body.Data.Items[0].Name)
	assert.Equal(t, "$69", body.Data.Items[0].UnitPrice)
	assert.Equal(t, 2, body.Data.TotalQuantity)

	ck := cartCookie(t, w)
	assert.Equal(t, "/", ck.Path)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, 2592000, ck.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
}

func TestAddItem_CookieRoundTripMerges(t *testing.T) {
	router := testRouter(t, nil)

	w1, _ := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"handle": "stencil-cap", "quantity": 1}`, nil)
	require.Equal(t, http.StatusCreated, w1.Code)

	w2, body := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"handle": "stencil-cap", "quantity": 2}`, []*http.Cookie{cartCookie(t, w1)})

	require.Equal(t, http.StatusCreated, w2.Code)
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, 3, body.Data.Items[0].Quantity)
	assert.Equal(t, 3, body.Data.TotalQuantity)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	router := testRouter(t, nil)

	w, body := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"handle": "no-such-thing", "quantity": 1}`, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestAddItem_MissingSizeForSizedProduct(t *testing.T) {
	router := testRouter(t, nil)

	w, body := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"handle": "neon-drip-tee", "quantity": 1}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, body.Error)
}

func TestAddItem_ValidationRejectsZeroQuantity(t *testing.T) {
	router := testRouter(t, nil)

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"handle": "stencil-cap", "quantity": 0}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddItem_WrongContentType(t *testing.T) {
	router := testRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader("handle=stencil-cap"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

// ============================================================================
// PUT /api/v1/cart/items/{lineID} Tests
// ============================================================================

func TestUpdateLine_Success(t *testing.T) {
	router := testRouter(t, nil)

	w1, body1 := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"handle": "stencil-cap", "quantity": 1}`, nil)
	lineID := body1.Data.Items[0].ID

	w2, body2 := doJSON(t, router, http.MethodPut, "/api/v1/cart/items/"+lineID,
		`{"quantity": 7}`, []*http.Cookie{cartCookie(t, w1)})

	require.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, 7, body2.Data.Items[0].Quantity)
	assert.Equal(t, 7, body2.Data.TotalQuantity)
	cartCookie(t, w2)
}

func TestUpdateLine_UnknownLine(t *testing.T) {
	router := testRouter(t, nil)

	w, body := doJSON(t, router, http.MethodPut, "/api/v1/cart/items/no-such-line",
		`{"quantity": 2}`, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, body.Error)
}

// ============================================================================
// DELETE /api/v1/cart/items/{lineID} Tests
// ============================================================================

func TestRemoveLine_Success(t *testing.T) {
	router := testRouter(t, nil)

	w1, body1 := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"handle": "stencil-cap", "quantity": 1}`, nil)
	lineID := body1.Data.Items[0].ID

	w2, body2 := doJSON(t, router, http.MethodDelete, "/api/v1/cart/items/"+lineID,
		"", []*http.Cookie{cartCookie(t, w1)})

	require.Equal(t, http.StatusOK, w2.Code)
	assert.Empty(t, body2.Data.Items)
	assert.Equal(t, 0, body2.Data.TotalQuantity)
}

func TestRemoveLine_UnknownLine(t *testing.T) {
	router := testRouter(t, nil)

	w, _ := doJSON(t, router, http.MethodDelete, "/api/v1/cart/items/no-such-line", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
