package domain

// ParsedQuery is the structured form of a free-text search.
// A nil field means the query placed no constraint on it.
type ParsedQuery struct {
	SearchTerm string   `json:"searchTerm"`
	MinPrice   *float64 `json:"minPrice,omitempty"`
	MaxPrice   *float64 `json:"maxPrice,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Brand      *string  `json:"brand,omitempty"`
	MinRating  *float64 `json:"minRating,omitempty"`

	PreferDealScore   *bool `json:"preferDealScore,omitempty"`
	RequireTopDeal    *bool `json:"requireTopDeal,omitempty"`
	RequireHiddenGem  *bool `json:"requireHiddenGem,omitempty"`
	RequireGoodValue  *bool `json:"requireGoodValue,omitempty"`
	SortCheapest      *bool `json:"sortCheapest,omitempty"`
	SortHighestRated  *bool `json:"sortHighestRated,omitempty"`
	ExcludeSponsored  *bool `json:"excludeSponsored,omitempty"`
	RequirePrime      *bool `json:"requirePrime,omitempty"`
	PreferBulkSavings *bool `json:"preferBulkSavings,omitempty"`
}

// IsSet reports whether an optional flag was detected
func IsSet(flag *bool) bool {
	return flag != nil && *flag
}
