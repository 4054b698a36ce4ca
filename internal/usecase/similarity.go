package usecase

import (
	"math"
	"strings"

	"github.com/dealscope/backend/internal/domain"
)

// SimilarityWeights holds the maximum contribution of each similarity factor.
// The production weights sum to 100 so the score reads as a percentage.
type SimilarityWeights struct {
	Category  float64
	Price     float64
	Rating    float64
	DealScore float64
	Brand     float64
	UnitPrice float64
	BulkMatch float64
}

// DefaultSimilarityWeights returns the production similarity weights
func DefaultSimilarityWeights() SimilarityWeights {
	return SimilarityWeights{
		Category:  30,
		Price:     20,
		Rating:    15,
		DealScore: 15,
		Brand:     10,
		UnitPrice: 5,
		BulkMatch: 5,
	}
}

// Distance at which a proximity factor drops to zero
const (
	priceSpan     = 500.0
	ratingSpan    = 4.0
	dealScoreSpan = 100.0
	unitPriceSpan = 50.0
)

// SimilarityEngine scores how alike two products are
type SimilarityEngine struct {
	weights SimilarityWeights
}

// NewSimilarityEngine creates a similarity engine. A zero-value weights struct
// falls back to the production weights.
func NewSimilarityEngine(weights SimilarityWeights) *SimilarityEngine {
	if weights == (SimilarityWeights{}) {
		weights = DefaultSimilarityWeights()
	}
	return &SimilarityEngine{weights: weights}
}

// similarityTerms holds the unrounded contribution of every factor
type similarityTerms struct {
	category, price, rating, dealScore, brand, unitPrice, bulkMatch float64
}

func (t similarityTerms) sum() float64 {
	return t.category + t.price + t.rating + t.dealScore + t.brand + t.unitPrice + t.bulkMatch
}

func (e *SimilarityEngine) terms(a, b domain.Product) similarityTerms {
	w := e.weights
	var t similarityTerms

	if a.Category == b.Category {
		t.category = w.Category
	}

	t.price = w.Price * proximity(a.CurrentPrice, b.CurrentPrice, priceSpan)
	t.rating = w.Rating * proximity(a.Rating, b.Rating, ratingSpan)
	t.dealScore = w.DealScore * proximity(float64(a.DealScore), float64(b.DealScore), dealScoreSpan)

	if strings.EqualFold(a.Brand, b.Brand) {
		t.brand = w.Brand
	}

	// Different unit types cannot be compared; give half credit
	if a.UnitType == b.UnitType {
		t.unitPrice = w.UnitPrice * proximity(a.UnitPrice, b.UnitPrice, unitPriceSpan)
	} else {
		t.unitPrice = w.UnitPrice / 2
	}

	if a.IsBulk() == b.IsBulk() {
		t.bulkMatch = w.BulkMatch
	}

	return t
}

// Similarity returns a 0-100 score. Comparing a product with itself yields 0.
// Terms are summed unrounded and the total is rounded once.
func (e *SimilarityEngine) Similarity(a, b domain.Product) int {
	if a.ID == b.ID {
		return 0
	}
	return int(math.Round(e.terms(a, b).sum()))
}

// Breakdown exposes each factor rounded on its own; Total is the sum of the
// rounded factors and may differ from Similarity by a few points.
func (e *SimilarityEngine) Breakdown(a, b domain.Product) domain.SimilarityBreakdown {
	if a.ID == b.ID {
		return domain.SimilarityBreakdown{}
	}

	t := e.terms(a, b)
	bd := domain.SimilarityBreakdown{
		Category:  roundTerm(t.category),
		Price:     roundTerm(t.price),
		Rating:    roundTerm(t.rating),
		DealScore: roundTerm(t.dealScore),
		Brand:     roundTerm(t.brand),
		UnitPrice: roundTerm(t.unitPrice),
		BulkMatch: roundTerm(t.bulkMatch),
	}
	bd.Total = bd.Category + bd.Price + bd.Rating + bd.DealScore + bd.Brand + bd.UnitPrice + bd.BulkMatch
	return bd
}

// proximity is 1 for equal values, falling linearly to 0 at span apart
func proximity(x, y, span float64) float64 {
	return math.Max(0, 1-math.Abs(x-y)/span)
}

func roundTerm(v float64) int {
	return int(math.Round(v))
}
