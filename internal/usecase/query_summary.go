package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dealscope/backend/internal/domain"
)

const summarySeparator = " | "

// Summarize renders the detected parts of a parsed query as one line, in a
// fixed order: term, categories, price, brand, deal intent, sort, flags, rating.
func Summarize(q domain.ParsedQuery) string {
	var parts []string

	if q.SearchTerm != "" {
		parts = append(parts, fmt.Sprintf("Searching for %q", q.SearchTerm))
	}

	if len(q.Categories) > 0 {
		parts = append(parts, "Categories: "+strings.Join(q.Categories, ", "))
	}

	switch {
	case q.MinPrice != nil && q.MaxPrice != nil:
		parts = append(parts, fmt.Sprintf("Price: %s - %s", formatPrice(*q.MinPrice), formatPrice(*q.MaxPrice)))
	case q.MaxPrice != nil:
		parts = append(parts, "Under "+formatPrice(*q.MaxPrice))
	case q.MinPrice != nil:
		parts = append(parts, "Over "+formatPrice(*q.MinPrice))
	}

	if q.Brand != nil {
		parts = append(parts, "Brand: "+*q.Brand)
	}

	switch {
	case domain.IsSet(q.RequireTopDeal):
		parts = append(parts, "🔥 Top Deals only")
	case domain.IsSet(q.RequireHiddenGem):
		parts = append(parts, "💎 Hidden Gems")
	case domain.IsSet(q.RequireGoodValue):
		parts = append(parts, "✅ Good Value")
	case domain.IsSet(q.PreferDealScore):
		parts = append(parts, "Best Deals")
	}

	switch {
	case domain.IsSet(q.SortCheapest):
		parts = append(parts, "Sorted by: Lowest Price")
	case domain.IsSet(q.SortHighestRated):
		parts = append(parts, "Sorted by: Highest Rated")
	}

	if domain.IsSet(q.ExcludeSponsored) {
		parts = append(parts, "No Sponsored")
	}
	if domain.IsSet(q.RequirePrime) {
		parts = append(parts, "Prime Only")
	}
	if domain.IsSet(q.PreferBulkSavings) {
		parts = append(parts, "Bulk Savings")
	}

	if q.MinRating != nil {
		parts = append(parts, strconv.FormatFloat(*q.MinRating, 'f', -1, 64)+"+ Stars")
	}

	return strings.Join(parts, summarySeparator)
}

func formatPrice(v float64) string {
	return "$" + strconv.FormatFloat(roundTo(v, 2), 'f', -1, 64)
}
