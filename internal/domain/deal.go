package domain

// DealLabel is the qualitative tier attached to a scored product
type DealLabel struct {
	Emoji       string `json:"emoji"`
	Text        string `json:"text"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// Label texts
const (
	LabelTopDeal     = "TOP DEAL"
	LabelHiddenGem   = "HIDDEN GEM"
	LabelGoodValue   = "GOOD VALUE"
	LabelDecentValue = "DECENT VALUE"
	LabelOverpriced  = "OVERPRICED"
)

// CategoryMedians maps a category name to the median unit price of its members.
// A missing key means the category had no members when the snapshot was taken.
type CategoryMedians map[string]float64

// CategoryStats summarizes one category of the catalog
type CategoryStats struct {
	Category        string  `json:"category"`
	ProductCount    int     `json:"productCount"`
	MedianPrice     float64 `json:"medianPrice"`
	MedianUnitPrice float64 `json:"medianUnitPrice"`
	AvgRating       float64 `json:"avgRating"`
}

// SimilarityBreakdown explains a similarity score factor by factor.
// Each factor is rounded on its own, so Total can differ slightly from the aggregate score.
type SimilarityBreakdown struct {
	Category  int `json:"category"`
	Price     int `json:"price"`
	Rating    int `json:"rating"`
	DealScore int `json:"dealScore"`
	Brand     int `json:"brand"`
	UnitPrice int `json:"unitPrice"`
	BulkMatch int `json:"bulkMatch"`
	Total     int `json:"total"`
}

// Recommendation pairs a candidate product with its similarity to the source(s)
type Recommendation struct {
	Product     Product `json:"product"`
	Similarity  int     `json:"similarity"`
	Explanation string  `json:"explanation,omitempty"`
}
