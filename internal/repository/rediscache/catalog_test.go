package rediscache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwaldorf05/fhp-storefront/internal/domain"
	apperrors "github.com/jwaldorf05/fhp-storefront/pkg/errors"
)

// mockCatalog counts calls through to the backend.
type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) ListProducts(ctx context.Context, query string, first int, after string) ([]domain.Product, string, error) {
	args := m.Called(ctx, query, first, after)
	return args.Get(0).([]domain.Product), args.String(1), args.Error(2)
}

func (m *mockCatalog) GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalog) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Collection), args.Error(1)
}

func (m *mockCatalog) GetCollectionByHandle(ctx context.Context, handle string) (*domain.Collection, []domain.Product, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Collection), args.Get(1).([]domain.Product), args.Error(2)
}

func setup(t *testing.T) (*Catalog, *mockCatalog, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	next := new(mockCatalog)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return New(next, client, 5*time.Minute, logger), next, mr
}

func testProduct() *domain.Product {
	return &domain.Product{ID: "1", Handle: "neon-drip-tee", Name: "NEON DRIP TEE", DefaultPrice: "$65"}
}

// ============================================================================
// GetProductByHandle Tests
// ============================================================================

func TestGetProductByHandle_MissFetchesAndCaches(t *testing.T) {
	cache, next, _ := setup(t)
	next.On("GetProductByHandle", mock.Anything, "neon-drip-tee").Return(testProduct(), nil).Once()

	p1, err := cache.GetProductByHandle(context.Background(), "neon-drip-tee")
	require.NoError(t, err)
	assert.Equal(t, "NEON DRIP TEE", p1.Name)

	// Second read is served from cache; the backend is called once.
	p2, err := cache.GetProductByHandle(context.Background(), "neon-drip-tee")
	require.NoError(t, err)
	assert.Equal(t, p1, p2)

	next.AssertNumberOfCalls(t, "GetProductByHandle", 1)
}

func TestGetProductByHandle_NotFoundNotCached(t *testing.T) {
	cache, next, _ := setup(t)
	next.On("GetProductByHandle", mock.Anything, "missing").Return(nil, apperrors.NotFound("product", "missing")).Twice()

	_, err := cache.GetProductByHandle(context.Background(), "missing")
	require.Error(t, err)
	_, err = cache.GetProductByHandle(context.Background(), "missing")
	require.Error(t, err)

	next.AssertNumberOfCalls(t, "GetProductByHandle", 2)
}

func TestGetProductByHandle_CorruptEntryFallsThrough(t *testing.T) {
	cache, next, mr := setup(t)
	require.NoError(t, mr.Set("catalog:product:neon-drip-tee", "not json"))
	next.On("GetProductByHandle", mock.Anything, "neon-drip-tee").Return(testProduct(), nil).Once()

	p, err := cache.GetProductByHandle(context.Background(), "neon-drip-tee")
	require.NoError(t, err)
	assert.Equal(t, "NEON DRIP TEE", p.Name)
}

func TestGetProductByHandle_RedisDownDegradesToBackend(t *testing.T) {
	cache, next, mr := setup(t)
	mr.Close()
	next.On("GetProductByHandle", mock.Anything, "neon-drip-tee").Return(testProduct(), nil).Once()

	p, err := cache.GetProductByHandle(context.Background(), "neon-drip-tee")
	require.NoError(t, err)
	assert.Equal(t, "NEON DRIP TEE", p.Name)
}

func TestGetProductByHandle_EntryExpires(t *testing.T) {
	cache, next, mr := setup(t)
	next.On("GetProductByHandle", mock.Anything, "neon-drip-tee").Return(testProduct(), nil).Twice()

	_, err := cache.GetProductByHandle(context.Background(), "neon-drip-tee")
	require.NoError(t, err)

	mr.FastForward(10 * time.Minute)

	_, err = cache.GetProductByHandle(context.Background(), "neon-drip-tee")
	require.NoError(t, err)

	next.AssertNumberOfCalls(t, "GetProductByHandle", 2)
}

// ============================================================================
// ListProducts Tests
// ============================================================================

func TestListProducts_CacheKeyIncludesQueryAndPage(t *testing.T) {
	cache, next, _ := setup(t)
	next.On("ListProducts", mock.Anything, "", 10, "").Return([]domain.Product{*testProduct()}, "", nil).Once()
	next.On("ListProducts", mock.Anything, "tee", 10, "").Return([]domain.Product{}, "", nil).Once()

	all, _, err := cache.ListProducts(context.Background(), "", 10, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	filtered, _, err := cache.ListProducts(context.Background(), "tee", 10, "")
	require.NoError(t, err)
	assert.Empty(t, filtered)

	// Repeat reads stay cached
	_, _, err = cache.ListProducts(context.Background(), "", 10, "")
	require.NoError(t, err)
	next.AssertExpectations(t)
}

func TestListProducts_PreservesCursor(t *testing.T) {
	cache, next, _ := setup(t)
	next.On("ListProducts", mock.Anything, "", 3, "").Return([]domain.Product{*testProduct()}, "cur-1", nil).Once()

	_, next1, err := cache.ListProducts(context.Background(), "", 3, "")
	require.NoError(t, err)
	assert.Equal(t, "cur-1", next1)

	_, next2, err := cache.ListProducts(context.Background(), "", 3, "")
	require.NoError(t, err)
	assert.Equal(t, "cur-1", next2)
}

// ============================================================================
// Collection Tests
// ============================================================================

func TestListCollections_Cached(t *testing.T) {
	cache, next, _ := setup(t)
	cols := []domain.Collection{{Handle: "all", Title: "All"}}
	next.On("ListCollections", mock.Anything).Return(cols, nil).Once()

	got1, err := cache.ListCollections(context.Background())
	require.NoError(t, err)
	got2, err := cache.ListCollections(context.Background())
	require.NoError(t, err)

	assert.Equal(t, got1, got2)
	next.AssertNumberOfCalls(t, "ListCollections", 1)
}

func TestGetCollectionByHandle_CachesProductsTogether(t *testing.T) {
	cache, next, _ := setup(t)
	col := &domain.Collection{Handle: "all", Title: "All"}
	next.On("GetCollectionByHandle", mock.Anything, "all").Return(col, []domain.Product{*testProduct()}, nil).Once()

	_, products1, err := cache.GetCollectionByHandle(context.Background(), "all")
	require.NoError(t, err)
	gotCol, products2, err := cache.GetCollectionByHandle(context.Background(), "all")
	require.NoError(t, err)

	assert.Equal(t, "All", gotCol.Title)
	assert.Equal(t, products1, products2)
	next.AssertNumberOfCalls(t, "GetCollectionByHandle", 1)
}

// ============================================================================
// Ping Tests
// ============================================================================

func TestPing(t *testing.T) {
	cache, _, mr := setup(t)
	require.NoError(t, cache.Ping(context.Background()))

	mr.Close()
	assert.Error(t, cache.Ping(context.Background()))
}
