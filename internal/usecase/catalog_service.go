package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/dealscope/backend/internal/domain"
)

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL           time.Duration
	DefaultLimit       int
	EnableDebugLogging bool
}

// CatalogSnapshot is one scored catalog. Every product in it was scored
// against Medians, which were computed from exactly these products.
type CatalogSnapshot struct {
	Products    []domain.Product
	Medians     domain.CategoryMedians
	Fingerprint string
	LoadedAt    time.Time

	byID map[int]int
}

// Product looks up a product by id
func (s *CatalogSnapshot) Product(id int) (domain.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.Products[i], true
}

// SearchResult is the response of a free-text catalog search
type SearchResult struct {
	Query    domain.ParsedQuery `json:"query"`
	Summary  string             `json:"summary"`
	Products []domain.Product   `json:"products"`
	Total    int                `json:"total"`
}

// Comparison explains the similarity between two products
type Comparison struct {
	Similarity  int                        `json:"similarity"`
	Breakdown   domain.SimilarityBreakdown `json:"breakdown"`
	Explanation string                     `json:"explanation"`
}

// CatalogService owns the scored catalog snapshot and answers deal,
// recommendation and search requests against it. The snapshot is held by the
// service, not by package state, and is replaced as a whole on refresh.
type CatalogService struct {
	source      domain.CatalogSource
	cache       domain.CacheRepository
	scorer      *DealScorer
	recommender *Recommender
	parser      *QueryParser

	cacheTTL     time.Duration
	defaultLimit int
	logger       zerolog.Logger

	mu       sync.RWMutex
	snapshot *CatalogSnapshot
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(
	source domain.CatalogSource,
	cache domain.CacheRepository,
	scorer *DealScorer,
	recommender *Recommender,
	parser *QueryParser,
	config CatalogServiceConfig,
	logger zerolog.Logger,
) *CatalogService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	defaultLimit := config.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = DefaultRecommendationLimit
	}

	return &CatalogService{
		source:       source,
		cache:        cache,
		scorer:       scorer,
		recommender:  recommender,
		parser:       parser,
		cacheTTL:     cacheTTL,
		defaultLimit: defaultLimit,
		logger:       logger.With().Str("component", "catalog_service").Logger(),
	}
}

// Snapshot returns the current scored catalog, loading it on first use
func (s *CatalogService) Snapshot(ctx context.Context) (*CatalogSnapshot, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()

	if snap != nil {
		return snap, nil
	}
	return s.Refresh(ctx)
}

// Refresh reloads the catalog from its source and rescores every product
// against a fresh median snapshot.
func (s *CatalogService) Refresh(ctx context.Context) (*CatalogSnapshot, error) {
	products, err := s.source.LoadProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	fingerprint := CatalogFingerprint(products)
	medians := s.loadMedians(ctx, products, fingerprint)
	scored := s.scorer.ScoreWithMedians(products, medians)

	snap := &CatalogSnapshot{
		Products:    scored,
		Medians:     medians,
		Fingerprint: fingerprint,
		LoadedAt:    time.Now(),
		byID:        make(map[int]int, len(scored)),
	}
	for i, p := range scored {
		snap.byID[p.ID] = i
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	s.logger.Info().
		Int("products", len(scored)).
		Int("categories", len(medians)).
		Str("fingerprint", fingerprint).
		Msg("catalog refreshed")

	return snap, nil
}

// Invalidate drops the current snapshot; the next read reloads the catalog
func (s *CatalogService) Invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()
}

// GetProduct returns a scored product by id
func (s *CatalogService) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	p, ok := snap.Product(id)
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: id %d", domain.ErrProductNotFound, id)
	}
	return p, nil
}

// ParseQuery parses a raw query and returns it with its summary
func (s *CatalogService) ParseQuery(raw string) (domain.ParsedQuery, string) {
	q := s.parser.Parse(raw)
	return q, Summarize(q)
}

// Search parses a free-text query and applies it to the scored catalog.
// A non-positive limit returns every match.
func (s *CatalogService) Search(ctx context.Context, raw string, limit int) (*SearchResult, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	q, summary := s.ParseQuery(raw)
	matches := FilterCatalog(snap.Products, q)
	total := len(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return &SearchResult{
		Query:    q,
		Summary:  summary,
		Products: matches,
		Total:    total,
	}, nil
}

// Recommendations returns products similar to the given one, each with an explanation
func (s *CatalogService) Recommendations(ctx context.Context, id, limit int) ([]domain.Recommendation, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	source, ok := snap.Product(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrProductNotFound, id)
	}

	if limit <= 0 {
		limit = s.defaultLimit
	}
	recs := s.recommender.Recommend(source, snap.Products, limit)
	for i := range recs {
		recs[i].Explanation = s.recommender.ExplainRecommendation(source, recs[i].Product)
	}
	return recs, nil
}

// RecommendFromMultiple ranks the catalog by average similarity to several products
func (s *CatalogService) RecommendFromMultiple(ctx context.Context, ids []int, limit int) ([]domain.Recommendation, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	sources := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := snap.Product(id)
		if !ok {
			return nil, fmt.Errorf("%w: id %d", domain.ErrProductNotFound, id)
		}
		sources = append(sources, p)
	}

	if limit <= 0 {
		limit = s.defaultLimit
	}
	return s.recommender.RecommendFromMultiple(sources, snap.Products, limit), nil
}

// Compare explains how similar two catalog products are
func (s *CatalogService) Compare(ctx context.Context, id, otherID int) (*Comparison, error) {
	a, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := s.GetProduct(ctx, otherID)
	if err != nil {
		return nil, err
	}

	engine := s.recommender.Engine()
	return &Comparison{
		Similarity:  engine.Similarity(a, b),
		Breakdown:   engine.Breakdown(a, b),
		Explanation: s.recommender.ExplainRecommendation(a, b),
	}, nil
}

// CategoryStats summarizes the current catalog per category
func (s *CatalogService) CategoryStats(ctx context.Context) ([]domain.CategoryStats, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeCategoryStats(snap.Products), nil
}

// loadMedians returns cached medians for this exact catalog composition, or
// computes and caches them. Cache failures only cost a recomputation.
func (s *CatalogService) loadMedians(ctx context.Context, products []domain.Product, fingerprint string) domain.CategoryMedians {
	key := mediansCacheKey(fingerprint)

	if s.cache != nil {
		data, err := s.cache.Get(ctx, key)
		if err == nil {
			var medians domain.CategoryMedians
			if err := json.Unmarshal(data, &medians); err == nil {
				s.logger.Debug().Str("key", key).Msg("category medians cache hit")
				return medians
			}
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn().Err(err).Str("key", key).Msg("category medians cache read failed")
		}
	}

	medians := ComputeCategoryMedians(products)

	if s.cache != nil {
		data, err := json.Marshal(medians)
		if err == nil {
			err = s.cache.Set(ctx, key, data, s.cacheTTL)
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("category medians cache write failed")
		}
	}

	return medians
}

// mediansCacheKey creates the cache key for a catalog's medians.
// Format: "medians:{fingerprint}"
func mediansCacheKey(fingerprint string) string {
	return "medians:" + fingerprint
}

// CatalogFingerprint hashes the fields that determine category medians.
// Any change in membership, category or unit price changes the fingerprint.
func CatalogFingerprint(products []domain.Product) string {
	d := xxhash.New()
	buf := make([]byte, 0, 64)
	for _, p := range products {
		buf = buf[:0]
		buf = strconv.AppendInt(buf, int64(p.ID), 10)
		buf = append(buf, '|')
		buf = append(buf, p.Category...)
		buf = append(buf, '|')
		buf = strconv.AppendUint(buf, math.Float64bits(p.UnitPrice), 16)
		buf = append(buf, '\n')
		_, _ = d.Write(buf)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
