package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealscope/backend/internal/domain"
)

type stubSource struct {
	mu       sync.Mutex
	products []domain.Product
	err      error
	loads    atomic.Int32
}

func (s *stubSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	s.loads.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *stubSource) set(products []domain.Product) {
	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	v, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (c *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func serviceCatalog() []domain.Product {
	headphones := sampleProduct(1)
	headphones.Title = "Sony Wireless Headphones"
	headphones.Brand = "Sony"
	headphones.CurrentPrice = 80
	headphones.UnitPrice = 80

	earbuds := sampleProduct(2)
	earbuds.Title = "Anker Wireless Earbuds"
	earbuds.CurrentPrice = 40
	earbuds.UnitPrice = 40

	speaker := sampleProduct(3)
	speaker.Title = "Sony Bluetooth Speaker"
	speaker.Brand = "Sony"
	speaker.CurrentPrice = 60
	speaker.UnitPrice = 60

	coffee := sampleProduct(4)
	coffee.Title = "Whole Bean Coffee"
	coffee.Brand = "Lavazza"
	coffee.Category = domain.CategoryGrocery
	coffee.CurrentPrice = 15
	coffee.UnitPrice = 0.6
	coffee.UnitType = "oz"

	for _, p := range []*domain.Product{&headphones, &earbuds, &speaker, &coffee} {
		p.DealScore = 0
		p.DealLabel = nil
		p.ListPrice = p.CurrentPrice
		p.PriceHistory = domain.PriceSummary{Lowest: p.CurrentPrice, Highest: p.CurrentPrice, Average: p.CurrentPrice}
	}
	return []domain.Product{headphones, earbuds, speaker, coffee}
}

func newTestService(source domain.CatalogSource, cache domain.CacheRepository) *CatalogService {
	return NewCatalogService(
		source,
		cache,
		NewDealScorer(),
		NewRecommender(RecommenderConfig{}, zerolog.Nop()),
		NewQueryParser(QueryParserConfig{}, zerolog.Nop()),
		CatalogServiceConfig{CacheTTL: time.Hour, DefaultLimit: 2},
		zerolog.Nop(),
	)
}

func TestCatalogService_SnapshotLoadsOnce(t *testing.T) {
	source := &stubSource{products: serviceCatalog()}
	svc := newTestService(source, nil)
	ctx := context.Background()

	first, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	second, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), source.loads.Load())
	assert.Len(t, first.Products, 4)
	for _, p := range first.Products {
		assert.NotNil(t, p.DealLabel, "product %d should be labeled", p.ID)
	}
}

func TestCatalogService_RefreshAndInvalidate(t *testing.T) {
	source := &stubSource{products: serviceCatalog()}
	svc := newTestService(source, nil)
	ctx := context.Background()

	first, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	updated := serviceCatalog()
	updated[1].UnitPrice = 20
	source.set(updated)

	refreshed, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.Fingerprint, refreshed.Fingerprint)
	assert.Equal(t, 60.0, refreshed.Medians[domain.CategoryElectronics])

	svc.Invalidate()
	_, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(3), source.loads.Load())
}

func TestCatalogService_MediansCached(t *testing.T) {
	products := serviceCatalog()
	cache := newMapCache()
	svc := newTestService(&stubSource{products: products}, cache)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	data, err := cache.Get(context.Background(), mediansCacheKey(CatalogFingerprint(products)))
	require.NoError(t, err)

	var cached domain.CategoryMedians
	require.NoError(t, json.Unmarshal(data, &cached))
	assert.Equal(t, snap.Medians, cached)
	assert.Equal(t, 60.0, cached[domain.CategoryElectronics])
	assert.Equal(t, 0.6, cached[domain.CategoryGrocery])
}

func TestCatalogService_UsesCachedMedians(t *testing.T) {
	products := serviceCatalog()
	cache := newMapCache()
	seeded := domain.CategoryMedians{domain.CategoryElectronics: 1000, domain.CategoryGrocery: 1000}
	data, err := json.Marshal(seeded)
	require.NoError(t, err)
	require.NoError(t, cache.Set(context.Background(), mediansCacheKey(CatalogFingerprint(products)), data, time.Hour))

	svc := newTestService(&stubSource{products: products}, cache)
	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, seeded, snap.Medians)
}

func TestCatalogService_CacheFailureFallsBack(t *testing.T) {
	cache := newMapCache()
	cache.err = errors.New("connection refused")
	svc := newTestService(&stubSource{products: serviceCatalog()}, cache)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 60.0, snap.Medians[domain.CategoryElectronics])
}

func TestCatalogService_SourceFailure(t *testing.T) {
	svc := newTestService(&stubSource{err: errors.New("disk gone")}, nil)

	_, err := svc.Snapshot(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestCatalogService_GetProduct(t *testing.T) {
	svc := newTestService(&stubSource{products: serviceCatalog()}, nil)
	ctx := context.Background()

	p, err := svc.GetProduct(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Sony Bluetooth Speaker", p.Title)

	_, err = svc.GetProduct(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCatalogService_Search(t *testing.T) {
	svc := newTestService(&stubSource{products: serviceCatalog()}, nil)
	ctx := context.Background()

	res, err := svc.Search(ctx, "sony under $70", 0)
	require.NoError(t, err)
	assert.Equal(t, `Searching for "sony" | Under $70 | Brand: Sony`, res.Summary)
	assert.Equal(t, []int{3}, ids(res.Products))
	assert.Equal(t, 1, res.Total)

	res, err = svc.Search(ctx, "wireless", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Len(t, res.Products, 1)
}

func TestCatalogService_Recommendations(t *testing.T) {
	svc := newTestService(&stubSource{products: serviceCatalog()}, nil)
	ctx := context.Background()

	recs, err := svc.Recommendations(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.NotEqual(t, 1, rec.Product.ID)
		assert.NotEmpty(t, rec.Explanation)
	}
	assert.Equal(t, 3, recs[0].Product.ID)

	_, err = svc.Recommendations(ctx, 42, 3)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCatalogService_RecommendFromMultiple(t *testing.T) {
	svc := newTestService(&stubSource{products: serviceCatalog()}, nil)
	ctx := context.Background()

	recs, err := svc.RecommendFromMultiple(ctx, []int{1, 3}, 5)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.NotContains(t, []int{1, 3}, rec.Product.ID)
	}

	_, err = svc.RecommendFromMultiple(ctx, []int{1, 77}, 5)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCatalogService_Compare(t *testing.T) {
	svc := newTestService(&stubSource{products: serviceCatalog()}, nil)
	ctx := context.Background()

	cmp, err := svc.Compare(ctx, 1, 3)
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	a, _ := snap.Product(1)
	b, _ := snap.Product(3)
	engine := NewSimilarityEngine(DefaultSimilarityWeights())
	assert.Equal(t, engine.Similarity(a, b), cmp.Similarity)
	assert.Equal(t, 30, cmp.Breakdown.Category)
	assert.Contains(t, cmp.Explanation, "Same category")

	_, err = svc.Compare(ctx, 1, 500)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCatalogService_CategoryStats(t *testing.T) {
	svc := newTestService(&stubSource{products: serviceCatalog()}, nil)

	stats, err := svc.CategoryStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, domain.CategoryElectronics, stats[0].Category)
	assert.Equal(t, 3, stats[0].ProductCount)
	assert.Equal(t, domain.CategoryGrocery, stats[1].Category)
}

func TestCatalogFingerprint(t *testing.T) {
	a := serviceCatalog()
	b := serviceCatalog()
	assert.Equal(t, CatalogFingerprint(a), CatalogFingerprint(b))

	b[0].Title = "Renamed"
	assert.Equal(t, CatalogFingerprint(a), CatalogFingerprint(b), "titles do not affect medians")

	b[0].Category = domain.CategoryHomeKitchen
	assert.NotEqual(t, CatalogFingerprint(a), CatalogFingerprint(b))

	assert.NotEqual(t, CatalogFingerprint(a), CatalogFingerprint(a[:3]))
}

func TestCatalogService_ParseQuery(t *testing.T) {
	svc := newTestService(&stubSource{}, nil)

	q, summary := svc.ParseQuery("top rated coffee")
	assert.True(t, domain.IsSet(q.SortHighestRated))
	assert.Equal(t, `Searching for "coffee" | Categories: Grocery | Sorted by: Highest Rated`, summary)
}
