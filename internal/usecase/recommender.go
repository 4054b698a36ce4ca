package usecase

import (
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dealscope/backend/internal/domain"
)

// DefaultRecommendationLimit is used when callers pass a non-positive limit
const DefaultRecommendationLimit = 6

// Explanation thresholds as a fraction of the factor's weight
const (
	explainPriceFraction     = 0.7
	explainRatingFraction    = 0.8
	explainDealScoreFraction = 0.8
	maxExplanationReasons    = 2
)

const defaultExplanation = "Similar product"

// RecommenderConfig holds configuration for the recommender
type RecommenderConfig struct {
	Weights            SimilarityWeights
	EnableDebugLogging bool
}

// Recommender ranks candidate products by similarity to one or more sources
type Recommender struct {
	engine             *SimilarityEngine
	weights            SimilarityWeights
	logger             zerolog.Logger
	enableDebugLogging bool
}

// NewRecommender creates a new recommender with the given configuration
func NewRecommender(config RecommenderConfig, logger zerolog.Logger) *Recommender {
	engine := NewSimilarityEngine(config.Weights)
	return &Recommender{
		engine:             engine,
		weights:            engine.weights,
		logger:             logger.With().Str("component", "recommender").Logger(),
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Engine returns the underlying similarity engine
func (r *Recommender) Engine() *SimilarityEngine {
	return r.engine
}

// Recommend returns up to limit candidates ordered by descending similarity to
// source. The source is excluded by id; ties keep candidate order.
func (r *Recommender) Recommend(source domain.Product, candidates []domain.Product, limit int) []domain.Recommendation {
	limit = normalizeLimit(limit)

	ranked := make([]domain.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == source.ID {
			continue
		}
		ranked = append(ranked, domain.Recommendation{
			Product:    c,
			Similarity: r.engine.Similarity(source, c),
		})
	}

	return r.topK(ranked, limit)
}

// RecommendFromMultiple ranks candidates by their rounded average similarity
// across all sources. Every source is excluded from the result.
func (r *Recommender) RecommendFromMultiple(sources []domain.Product, candidates []domain.Product, limit int) []domain.Recommendation {
	if len(sources) == 0 {
		return []domain.Recommendation{}
	}
	limit = normalizeLimit(limit)

	sourceIDs := make(map[int]bool, len(sources))
	for _, s := range sources {
		sourceIDs[s.ID] = true
	}

	ranked := make([]domain.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		if sourceIDs[c.ID] {
			continue
		}
		total := 0
		for _, s := range sources {
			total += r.engine.Similarity(s, c)
		}
		ranked = append(ranked, domain.Recommendation{
			Product:    c,
			Similarity: int(math.Round(float64(total) / float64(len(sources)))),
		})
	}

	return r.topK(ranked, limit)
}

// ExplainRecommendation describes why recommended resembles source using at
// most two reasons, checked in a fixed priority order.
func (r *Recommender) ExplainRecommendation(source, recommended domain.Product) string {
	bd := r.engine.Breakdown(source, recommended)
	w := r.weights

	var reasons []string
	if w.Category > 0 && float64(bd.Category) >= w.Category {
		reasons = append(reasons, "Same category")
	}
	if w.Brand > 0 && float64(bd.Brand) >= w.Brand {
		reasons = append(reasons, "Same brand")
	}
	if float64(bd.Price) > w.Price*explainPriceFraction {
		reasons = append(reasons, "Similar price")
	}
	if float64(bd.Rating) > w.Rating*explainRatingFraction {
		reasons = append(reasons, "Similar rating")
	}
	if float64(bd.DealScore) > w.DealScore*explainDealScoreFraction {
		reasons = append(reasons, "Comparable deal quality")
	}

	if len(reasons) == 0 {
		return defaultExplanation
	}
	if len(reasons) > maxExplanationReasons {
		reasons = reasons[:maxExplanationReasons]
	}
	return strings.Join(reasons, " • ")
}

func (r *Recommender) topK(ranked []domain.Recommendation, limit int) []domain.Recommendation {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	if r.enableDebugLogging {
		for i, rec := range ranked {
			r.logger.Debug().
				Int("rank", i+1).
				Int("product_id", rec.Product.ID).
				Int("similarity", rec.Similarity).
				Msg("recommendation")
		}
	}

	return ranked
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecommendationLimit
	}
	return limit
}
