package usecase

import (
	"math"
	"strconv"
	"strings"

	"github.com/dealscope/backend/internal/domain"
)

// DealWeights caps each additive term of the deal score
type DealWeights struct {
	Discount      float64
	UnitPrice     float64
	BulkSavings   float64
	Rating        float64
	BelowAvgPrice float64
}

// DefaultDealWeights returns the production deal score weights (sum 100)
func DefaultDealWeights() DealWeights {
	return DealWeights{
		Discount:      30,
		UnitPrice:     25,
		BulkSavings:   20,
		Rating:        15,
		BelowAvgPrice: 10,
	}
}

// Hidden gem side conditions
const (
	hiddenGemMinRating  = 4.5
	hiddenGemMaxReviews = 5000
)

// LabelThresholds are the score boundaries of the label decision list
type LabelThresholds struct {
	TopDeal   int // score >= TopDeal
	GoodValue int // GoodValue <= score < TopDeal
	Decent    int // score < Decent is overpriced; also the hidden gem floor
}

// DefaultLabelThresholds returns the production label boundaries
func DefaultLabelThresholds() LabelThresholds {
	return LabelThresholds{TopDeal: 80, GoodValue: 60, Decent: 50}
}

// defaultLabels holds the static display data for each tier
var defaultLabels = map[string]domain.DealLabel{
	domain.LabelTopDeal: {
		Emoji:       "🔥",
		Text:        domain.LabelTopDeal,
		Color:       "red",
		Description: "Exceptional price for this category",
	},
	domain.LabelHiddenGem: {
		Emoji:       "💎",
		Text:        domain.LabelHiddenGem,
		Color:       "purple",
		Description: "Highly rated but not widely discovered yet",
	},
	domain.LabelGoodValue: {
		Emoji:       "✅",
		Text:        domain.LabelGoodValue,
		Color:       "green",
		Description: "Solid price compared to similar products",
	},
	domain.LabelDecentValue: {
		Emoji:       "📊",
		Text:        domain.LabelDecentValue,
		Color:       "blue",
		Description: "Fair price, nothing special",
	},
	domain.LabelOverpriced: {
		Emoji:       "⚠️",
		Text:        domain.LabelOverpriced,
		Color:       "orange",
		Description: "Cheaper alternatives are likely available",
	},
}

// DealScorer computes deal scores and labels against a category median snapshot
type DealScorer struct {
	weights    DealWeights
	thresholds LabelThresholds
	labels     map[string]domain.DealLabel
}

// DealScorerOption customizes a DealScorer
type DealScorerOption func(*DealScorer)

// WithDealWeights replaces the deal score weights
func WithDealWeights(w DealWeights) DealScorerOption {
	return func(s *DealScorer) { s.weights = w }
}

// WithLabelThresholds replaces the label boundaries
func WithLabelThresholds(t LabelThresholds) DealScorerOption {
	return func(s *DealScorer) { s.thresholds = t }
}

// NewDealScorer creates a deal scorer with the production tables unless overridden
func NewDealScorer(opts ...DealScorerOption) *DealScorer {
	s := &DealScorer{
		weights:    DefaultDealWeights(),
		thresholds: DefaultLabelThresholds(),
		labels:     defaultLabels,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoreDeal returns the 0-100 deal score of a product.
// Missing medians, bulk data or ratings contribute zero; there is no error path.
func (s *DealScorer) ScoreDeal(p domain.Product, medians domain.CategoryMedians) int {
	score := 0.0

	// Discount
	score += (clampPercent(p.DiscountPercent) / 100) * s.weights.Discount

	// Unit price relative to the category median
	if m, ok := medians[p.Category]; ok && m > 0 {
		score += math.Max(0, s.weights.UnitPrice*(1-p.UnitPrice/m))
	}

	// Bulk savings
	if p.Bulk != nil {
		if pct, ok := parseSavingsPercent(p.Bulk.SavingsPercent); ok {
			score += (pct / 100) * s.weights.BulkSavings
		}
	}

	// Rating
	score += (p.Rating / 5) * s.weights.Rating

	// Below the 90 day average
	if p.CurrentPrice < p.PriceHistory.Average {
		score += s.weights.BelowAvgPrice
	}

	return clampScore(int(math.Round(score)))
}

// AssignLabel maps a score plus rating and review count to a deal label.
// The first matching rule wins.
func (s *DealScorer) AssignLabel(p domain.Product, score int) domain.DealLabel {
	t := s.thresholds
	switch {
	case score >= t.TopDeal:
		return s.labels[domain.LabelTopDeal]
	case score >= t.Decent && p.Rating >= hiddenGemMinRating && p.ReviewCount < hiddenGemMaxReviews:
		return s.labels[domain.LabelHiddenGem]
	case score >= t.GoodValue:
		return s.labels[domain.LabelGoodValue]
	case score < t.Decent:
		return s.labels[domain.LabelOverpriced]
	default:
		return s.labels[domain.LabelDecentValue]
	}
}

// ScoreCatalog runs one scoring pass: a single median snapshot is computed and
// every returned product carries a score and label derived from it.
// The input slice is not modified.
func (s *DealScorer) ScoreCatalog(products []domain.Product) ([]domain.Product, domain.CategoryMedians) {
	medians := ComputeCategoryMedians(products)
	return s.ScoreWithMedians(products, medians), medians
}

// ScoreWithMedians scores products against an existing median snapshot
func (s *DealScorer) ScoreWithMedians(products []domain.Product, medians domain.CategoryMedians) []domain.Product {
	scored := make([]domain.Product, len(products))
	for i, p := range products {
		score := s.ScoreDeal(p, medians)
		label := s.AssignLabel(p, score)
		p.DealScore = score
		p.DealLabel = &label
		scored[i] = p
	}
	return scored
}

// parseSavingsPercent reads values like "18%", "18.5 %" or "18", capped at 100
func parseSavingsPercent(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return math.Min(v, 100), true
}

// clampPercent bounds a percentage to [0, 100]; non-finite values count as 0
func clampPercent(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return math.Min(v, 100)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
