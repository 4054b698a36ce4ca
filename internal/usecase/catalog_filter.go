package usecase

import (
	"sort"
	"strings"

	"github.com/dealscope/backend/internal/domain"
)

// FilterCatalog applies a parsed query to a scored catalog and orders the
// result: cheapest first, highest rated first, or by deal score. Constraints
// that are absent from the query are not applied.
func FilterCatalog(products []domain.Product, q domain.ParsedQuery) []domain.Product {
	terms := tokenize(q.SearchTerm)

	categories := make(map[string]bool, len(q.Categories))
	for _, c := range q.Categories {
		categories[c] = true
	}

	result := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if len(categories) > 0 && !categories[p.Category] {
			continue
		}
		if q.MinPrice != nil && p.CurrentPrice < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && p.CurrentPrice > *q.MaxPrice {
			continue
		}
		if q.Brand != nil && !strings.EqualFold(p.Brand, *q.Brand) {
			continue
		}
		if q.MinRating != nil && p.Rating < *q.MinRating {
			continue
		}
		if domain.IsSet(q.ExcludeSponsored) && p.IsSponsored {
			continue
		}
		if domain.IsSet(q.RequirePrime) && !p.IsPrime {
			continue
		}
		if !matchesLabelIntent(p, q) {
			continue
		}
		// Categories and brand already narrow the set; the free text only has
		// to match when neither was recognized.
		if len(categories) == 0 && q.Brand == nil && !matchesTerms(p, terms) {
			continue
		}
		result = append(result, p)
	}

	sortFiltered(result, q)
	return result
}

func matchesLabelIntent(p domain.Product, q domain.ParsedQuery) bool {
	label := ""
	if p.DealLabel != nil {
		label = p.DealLabel.Text
	}
	switch {
	case domain.IsSet(q.RequireTopDeal):
		return label == domain.LabelTopDeal
	case domain.IsSet(q.RequireHiddenGem):
		return label == domain.LabelHiddenGem
	case domain.IsSet(q.RequireGoodValue):
		return label == domain.LabelGoodValue || label == domain.LabelTopDeal
	}
	return true
}

// matchesTerms requires every search token to appear in the title, brand or category
func matchesTerms(p domain.Product, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	haystack := strings.ToLower(p.Title + " " + p.Brand + " " + p.Category)
	for _, t := range terms {
		if !strings.Contains(haystack, t) {
			return false
		}
	}
	return true
}

func sortFiltered(products []domain.Product, q domain.ParsedQuery) {
	switch {
	case domain.IsSet(q.SortCheapest):
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CurrentPrice < products[j].CurrentPrice
		})
	case domain.IsSet(q.SortHighestRated):
		sort.SliceStable(products, func(i, j int) bool {
			if products[i].Rating != products[j].Rating {
				return products[i].Rating > products[j].Rating
			}
			return products[i].ReviewCount > products[j].ReviewCount
		})
	case domain.IsSet(q.PreferBulkSavings):
		sort.SliceStable(products, func(i, j int) bool {
			bi, bj := products[i].IsBulk(), products[j].IsBulk()
			if bi != bj {
				return bi
			}
			return products[i].DealScore > products[j].DealScore
		})
	default:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].DealScore > products[j].DealScore
		})
	}
}
