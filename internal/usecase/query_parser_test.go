package usecase

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealscope/backend/internal/domain"
)

func newTestParser() *QueryParser {
	return NewQueryParser(QueryParserConfig{EnableDebugLogging: true}, zerolog.Nop())
}

func TestParse_EmptyInput(t *testing.T) {
	parser := newTestParser()

	for _, raw := range []string{"", "   ", "\t\n"} {
		assert.Equal(t, domain.ParsedQuery{}, parser.Parse(raw), "input %q", raw)
	}
}

func TestParse_BestProteinPowder(t *testing.T) {
	q := newTestParser().Parse("best protein powder under $40")

	require.NotNil(t, q.MaxPrice)
	assert.Equal(t, 40.0, *q.MaxPrice)
	assert.Nil(t, q.MinPrice)
	assert.Contains(t, q.Categories, domain.CategoryGrocery)
	assert.True(t, domain.IsSet(q.PreferDealScore))
	assert.Equal(t, "protein powder", q.SearchTerm)
}

func TestParse_CheapSonyHeadphonesPrimeOnly(t *testing.T) {
	q := newTestParser().Parse("cheap Sony headphones prime only")

	assert.True(t, domain.IsSet(q.SortCheapest))
	require.NotNil(t, q.Brand)
	assert.Equal(t, "Sony", *q.Brand)
	assert.Contains(t, q.Categories, domain.CategoryElectronics)
	assert.True(t, domain.IsSet(q.RequirePrime))
	assert.Equal(t, "Sony headphones", q.SearchTerm)
	assert.Nil(t, q.PreferDealScore)
}

func TestParse_HiddenGemVitamins(t *testing.T) {
	q := newTestParser().Parse("hidden gem vitamins under $30 no sponsored")

	assert.True(t, domain.IsSet(q.RequireHiddenGem))
	assert.Contains(t, q.Categories, domain.CategoryHealth)
	require.NotNil(t, q.MaxPrice)
	assert.Equal(t, 30.0, *q.MaxPrice)
	assert.True(t, domain.IsSet(q.ExcludeSponsored))
	assert.Equal(t, "vitamins", q.SearchTerm)
}

func TestParse_PriceForms(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantMin *float64
		wantMax *float64
	}{
		{"under", "headphones under $100", nil, floatPtr(100)},
		{"below without dollar sign", "blender below 80", nil, floatPtr(80)},
		{"or less", "coffee $15 or less", nil, floatPtr(15)},
		{"over", "monitor over $200", floatPtr(200), nil},
		{"plus suffix", "laptop $500+", floatPtr(500), nil},
		{"at least", "tv at least $300", floatPtr(300), nil},
		{"between", "headphones between $50 and $100", floatPtr(50), floatPtr(100)},
		{"reversed range", "headphones $100 to $50", floatPtr(50), floatPtr(100)},
		{"dash range", "shampoo $5-$12", floatPtr(5), floatPtr(12)},
		{"decimal", "snacks under $9.99", nil, floatPtr(9.99)},
		{"no price", "yoga mat", nil, nil},
	}

	parser := newTestParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := parser.Parse(tt.raw)
			assert.Equal(t, tt.wantMin, q.MinPrice)
			assert.Equal(t, tt.wantMax, q.MaxPrice)
		})
	}
}

func TestParse_ApproximatePrice(t *testing.T) {
	parser := newTestParser()

	for _, raw := range []string{"headphones around $50", "headphones ~$50", "headphones about 50"} {
		q := parser.Parse(raw)
		require.NotNil(t, q.MinPrice, raw)
		require.NotNil(t, q.MaxPrice, raw)
		assert.InDelta(t, 40, *q.MinPrice, 1e-9, raw)
		assert.InDelta(t, 60, *q.MaxPrice, 1e-9, raw)
	}
}

func TestParse_StarCountIsNotAPrice(t *testing.T) {
	q := newTestParser().Parse("rating over 4 stars headphones under $50")

	assert.Nil(t, q.MinPrice)
	require.NotNil(t, q.MaxPrice)
	assert.Equal(t, 50.0, *q.MaxPrice)
	require.NotNil(t, q.MinRating)
	assert.Equal(t, 4.0, *q.MinRating)
}

func TestParse_Rating(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{"stars", "headphones 4 stars", floatPtr(4)},
		{"plus stars", "headphones 4.5+ stars", floatPtr(4.5)},
		{"star rating", "coffee 4 star rating", floatPtr(4)},
		{"rating of", "vitamins rating of 3.5", floatPtr(3.5)},
		{"last match wins", "rating of 4 headphones 3 stars", floatPtr(3)},
		{"high rating default", "headphones with high ratings", floatPtr(4)},
		{"explicit beats high rating", "high rating 4.5 stars speaker", floatPtr(4.5)},
		{"out of range ignored", "blender 10 stars", nil},
		{"decimal out of range ignored", "headphones 10.5 stars", nil},
		{"rating of out of range ignored", "blender rating of 10", nil},
		{"parenthesized", "speaker (4 stars)", floatPtr(4)},
		{"none", "blender", nil},
	}

	parser := newTestParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.Parse(tt.raw).MinRating)
		})
	}
}

func TestParse_DecimalRatingKeepsResidualIntact(t *testing.T) {
	q := newTestParser().Parse("headphones 10.5 stars")

	assert.Nil(t, q.MinRating)
	assert.Equal(t, "headphones 10.5 stars", q.SearchTerm)
}

func TestParse_Categories(t *testing.T) {
	parser := newTestParser()

	t.Run("first occurrence order", func(t *testing.T) {
		q := parser.Parse("dog food and coffee")
		assert.Equal(t, []string{domain.CategoryPetSupplies, domain.CategoryGrocery}, q.Categories)
	})

	t.Run("deduplicated", func(t *testing.T) {
		q := parser.Parse("protein bars and coffee")
		assert.Equal(t, []string{domain.CategoryGrocery}, q.Categories)
	})

	t.Run("ties follow table order", func(t *testing.T) {
		q := parser.Parse("coffee maker")
		assert.Equal(t, []string{domain.CategoryGrocery, domain.CategoryHomeKitchen}, q.Categories)
	})

	t.Run("plural and case", func(t *testing.T) {
		q := parser.Parse("DIAPERS")
		assert.Equal(t, []string{domain.CategoryBaby}, q.Categories)
		assert.Equal(t, "DIAPERS", q.SearchTerm)
	})

	t.Run("no category", func(t *testing.T) {
		assert.Nil(t, parser.Parse("something unusual").Categories)
	})
}

func TestParse_Brand(t *testing.T) {
	parser := newTestParser()

	t.Run("list order beats text order", func(t *testing.T) {
		q := parser.Parse("apple or sony earbuds")
		require.NotNil(t, q.Brand)
		assert.Equal(t, "Sony", *q.Brand)
	})

	t.Run("multi-word brand", func(t *testing.T) {
		q := parser.Parse("optimum nutrition whey")
		require.NotNil(t, q.Brand)
		assert.Equal(t, "Optimum Nutrition", *q.Brand)
	})

	t.Run("whole word only", func(t *testing.T) {
		assert.Nil(t, parser.Parse("sonyx speaker").Brand)
	})
}

func TestParse_DealIntentsAreIndependent(t *testing.T) {
	q := newTestParser().Parse("top deal cheap headphones")

	assert.True(t, domain.IsSet(q.RequireTopDeal))
	assert.True(t, domain.IsSet(q.SortCheapest))
	assert.Equal(t, "headphones", q.SearchTerm)
}

func TestParse_DealIntents(t *testing.T) {
	tests := []struct {
		raw  string
		flag func(q domain.ParsedQuery) *bool
	}{
		{"top deals on headphones", func(q domain.ParsedQuery) *bool { return q.RequireTopDeal }},
		{"underrated blender", func(q domain.ParsedQuery) *bool { return q.RequireHiddenGem }},
		{"good value shampoo", func(q domain.ParsedQuery) *bool { return q.RequireGoodValue }},
		{"top rated coffee", func(q domain.ParsedQuery) *bool { return q.SortHighestRated }},
		{"budget laptop", func(q domain.ParsedQuery) *bool { return q.SortCheapest }},
		{"coffee on sale", func(q domain.ParsedQuery) *bool { return q.PreferDealScore }},
	}

	parser := newTestParser()
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.True(t, domain.IsSet(tt.flag(parser.Parse(tt.raw))))
		})
	}
}

func TestParse_BestRatedIsNotPreferDeal(t *testing.T) {
	q := newTestParser().Parse("best rated coffee")

	assert.True(t, domain.IsSet(q.SortHighestRated))
	assert.Nil(t, q.PreferDealScore)
	assert.Equal(t, "coffee", q.SearchTerm)
}

func TestParse_FilterFlags(t *testing.T) {
	q := newTestParser().Parse("paper towels bulk prime no ads")

	assert.True(t, domain.IsSet(q.PreferBulkSavings))
	assert.True(t, domain.IsSet(q.RequirePrime))
	assert.True(t, domain.IsSet(q.ExcludeSponsored))
	assert.Equal(t, "paper towels", q.SearchTerm)
}

func TestParse_UnsetFieldsStayNil(t *testing.T) {
	q := newTestParser().Parse("coffee")

	assert.Equal(t, "coffee", q.SearchTerm)
	assert.Nil(t, q.MinPrice)
	assert.Nil(t, q.MaxPrice)
	assert.Nil(t, q.Brand)
	assert.Nil(t, q.MinRating)
	assert.Nil(t, q.PreferDealScore)
	assert.Nil(t, q.RequirePrime)
}

func TestParse_ResidualFallsBackToInput(t *testing.T) {
	q := newTestParser().Parse("  top deals  ")

	assert.True(t, domain.IsSet(q.RequireTopDeal))
	assert.Equal(t, "top deals", q.SearchTerm)
}

func TestParse_ToleratesGarbage(t *testing.T) {
	parser := newTestParser()

	for _, raw := range []string{"$$$", "🔥🔥", "under $", "-- + ~", "between and"} {
		assert.NotPanics(t, func() { parser.Parse(raw) }, raw)
	}
}

func TestParse_CustomVocabulary(t *testing.T) {
	parser := NewQueryParser(QueryParserConfig{
		CategoryKeywords: []CategoryKeyword{{Keyword: "kayak", Category: domain.CategorySports}},
		Brands:           []string{"Pelican"},
	}, zerolog.Nop())

	q := parser.Parse("pelican kayak")

	assert.Equal(t, []string{domain.CategorySports}, q.Categories)
	require.NotNil(t, q.Brand)
	assert.Equal(t, "Pelican", *q.Brand)
	assert.Nil(t, parser.Parse("sony headphones").Brand)
}

func TestCleanResidual(t *testing.T) {
	assert.Equal(t, "coffee beans", cleanResidual("  the coffee  , and beans $ "))
	assert.Equal(t, "", cleanResidual(" a an the "))
}
