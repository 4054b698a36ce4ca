package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dealscope/backend/internal/domain"
)

func sampleProduct(id int) domain.Product {
	return domain.Product{
		ID:           id,
		Title:        "Sample",
		Brand:        "Anker",
		Category:     domain.CategoryElectronics,
		CurrentPrice: 50,
		UnitPrice:    50,
		UnitType:     "item",
		Rating:       4.5,
		DealScore:    60,
	}
}

func TestSimilarity_SelfIsZero(t *testing.T) {
	engine := NewSimilarityEngine(DefaultSimilarityWeights())
	p := sampleProduct(1)

	assert.Equal(t, 0, engine.Similarity(p, p))
	assert.Equal(t, domain.SimilarityBreakdown{}, engine.Breakdown(p, p))
}

func TestSimilarity_IdenticalAttributesIs100(t *testing.T) {
	engine := NewSimilarityEngine(SimilarityWeights{})

	assert.Equal(t, 100, engine.Similarity(sampleProduct(1), sampleProduct(2)))
}

func TestSimilarity_Factors(t *testing.T) {
	engine := NewSimilarityEngine(DefaultSimilarityWeights())
	a := sampleProduct(1)

	tests := []struct {
		name   string
		mutate func(p *domain.Product)
		want   int
	}{
		{"different category", func(p *domain.Product) { p.Category = domain.CategoryGrocery }, 70},
		{"brand compared case-insensitively", func(p *domain.Product) { p.Brand = "ANKER" }, 100},
		{"different brand", func(p *domain.Product) { p.Brand = "Sony" }, 90},
		{"price 250 apart", func(p *domain.Product) { p.CurrentPrice = 300 }, 90},
		{"price beyond span", func(p *domain.Product) { p.CurrentPrice = 900 }, 80},
		{"rating 2 apart", func(p *domain.Product) { p.Rating = 2.5 }, 93},
		{"deal score 50 apart", func(p *domain.Product) { p.DealScore = 10 }, 93},
		{"unit types differ", func(p *domain.Product) { p.UnitType = "oz" }, 98},
		{"unit price beyond span", func(p *domain.Product) { p.UnitPrice = 150 }, 95},
		{"bulk mismatch", func(p *domain.Product) { p.Bulk = &domain.BulkPack{PackSize: 4} }, 95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sampleProduct(2)
			tt.mutate(&b)
			assert.Equal(t, tt.want, engine.Similarity(a, b))
		})
	}
}

func TestSimilarity_UnitTypeMismatchIgnoresUnitPrice(t *testing.T) {
	engine := NewSimilarityEngine(DefaultSimilarityWeights())
	a := sampleProduct(1)
	b := sampleProduct(2)
	b.UnitType = "oz"
	c := sampleProduct(3)
	c.UnitType = "oz"
	c.UnitPrice = 0.01

	assert.Equal(t, engine.Similarity(a, b), engine.Similarity(a, c))
}

func TestSimilarity_Symmetric(t *testing.T) {
	engine := NewSimilarityEngine(DefaultSimilarityWeights())
	a := sampleProduct(1)
	b := sampleProduct(2)
	b.CurrentPrice = 120
	b.Rating = 3.9
	b.Brand = "JBL"

	assert.Equal(t, engine.Similarity(a, b), engine.Similarity(b, a))
}

func TestBreakdown_TotalIsSumOfTerms(t *testing.T) {
	engine := NewSimilarityEngine(DefaultSimilarityWeights())
	a := sampleProduct(1)

	others := []domain.Product{sampleProduct(2), sampleProduct(3), sampleProduct(4)}
	others[0].CurrentPrice = 77.77
	others[0].Rating = 3.3
	others[1].Category = domain.CategoryGrocery
	others[1].UnitType = "oz"
	others[1].DealScore = 13
	others[2].Bulk = &domain.BulkPack{PackSize: 2}
	others[2].UnitPrice = 31.4

	for _, b := range others {
		bd := engine.Breakdown(a, b)
		sum := bd.Category + bd.Price + bd.Rating + bd.DealScore + bd.Brand + bd.UnitPrice + bd.BulkMatch
		assert.Equal(t, sum, bd.Total)
		assert.InDelta(t, engine.Similarity(a, b), bd.Total, 4)
	}
}

func TestBreakdown_RoundsPerTerm(t *testing.T) {
	engine := NewSimilarityEngine(DefaultSimilarityWeights())
	a := sampleProduct(1)
	b := sampleProduct(2)
	b.UnitType = "oz"

	bd := engine.Breakdown(a, b)

	assert.Equal(t, 30, bd.Category)
	assert.Equal(t, 20, bd.Price)
	assert.Equal(t, 3, bd.UnitPrice, "half of 5 rounds up per term")
	assert.Equal(t, 98, bd.Total)
}
