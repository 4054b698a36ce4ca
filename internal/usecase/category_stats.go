package usecase

import (
	"math"
	"sort"

	"github.com/dealscope/backend/internal/domain"
)

// ComputeCategoryMedians returns the median unit price for every category in
// domain.Categories that has at least one member. Empty categories are omitted.
func ComputeCategoryMedians(products []domain.Product) domain.CategoryMedians {
	return computeCategoryMedians(products, domain.Categories)
}

func computeCategoryMedians(products []domain.Product, categories []string) domain.CategoryMedians {
	unitPrices := make(map[string][]float64, len(categories))
	for _, p := range products {
		unitPrices[p.Category] = append(unitPrices[p.Category], p.UnitPrice)
	}

	medians := make(domain.CategoryMedians, len(categories))
	for _, category := range categories {
		values := unitPrices[category]
		if len(values) == 0 {
			continue
		}
		medians[category] = median(values)
	}

	return medians
}

// ComputeCategoryStats summarizes each non-empty category: member count,
// median price, median unit price and average rating.
func ComputeCategoryStats(products []domain.Product) []domain.CategoryStats {
	byCategory := make(map[string][]domain.Product)
	for _, p := range products {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	stats := make([]domain.CategoryStats, 0, len(byCategory))
	for _, category := range domain.Categories {
		members := byCategory[category]
		if len(members) == 0 {
			continue
		}

		prices := make([]float64, len(members))
		unitPrices := make([]float64, len(members))
		ratingSum := 0.0
		for i, p := range members {
			prices[i] = p.CurrentPrice
			unitPrices[i] = p.UnitPrice
			ratingSum += p.Rating
		}

		stats = append(stats, domain.CategoryStats{
			Category:        category,
			ProductCount:    len(members),
			MedianPrice:     roundTo(median(prices), 2),
			MedianUnitPrice: roundTo(median(unitPrices), 4),
			AvgRating:       roundTo(ratingSum/float64(len(members)), 2),
		})
	}

	return stats
}

// median sorts a copy of values and returns the middle element, or the mean of
// the two middle elements for an even count. values must be non-empty.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
