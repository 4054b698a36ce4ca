package domain

// Category names form a closed set; every catalog product belongs to one of them.
const (
	CategoryElectronics    = "Electronics"
	CategoryGrocery        = "Grocery"
	CategoryHealth         = "Health & Personal Care"
	CategoryHomeKitchen    = "Home & Kitchen"
	CategoryBeauty         = "Beauty & Personal Care"
	CategorySports         = "Sports & Outdoors"
	CategoryPetSupplies    = "Pet Supplies"
	CategoryBaby           = "Baby"
	CategoryHousehold      = "Household Supplies"
	CategoryOfficeProducts = "Office Products"
)

// Categories lists every known category in display order
var Categories = []string{
	CategoryElectronics,
	CategoryGrocery,
	CategoryHealth,
	CategoryHomeKitchen,
	CategoryBeauty,
	CategorySports,
	CategoryPetSupplies,
	CategoryBaby,
	CategoryHousehold,
	CategoryOfficeProducts,
}

// Product represents a catalog item as supplied by the catalog source.
// DealScore and DealLabel are attached by the scoring pass and are never read from input.
type Product struct {
	ID         int    `json:"id" db:"id"`
	ASIN       string `json:"asin,omitempty" db:"asin"`
	Title      string `json:"title" db:"title"`
	Brand      string `json:"brand" db:"brand"`
	Category   string `json:"category" db:"category"`
	ImageURL   string `json:"imageUrl,omitempty" db:"image_url"`
	ProductURL string `json:"productUrl,omitempty" db:"product_url"`

	CurrentPrice    float64 `json:"currentPrice" db:"current_price"`
	ListPrice       float64 `json:"listPrice" db:"list_price"`
	DiscountPercent float64 `json:"discountPercent" db:"discount_pct"`
	UnitPrice       float64 `json:"unitPrice" db:"unit_price"`
	UnitType        string  `json:"unitType" db:"unit_type"`

	Rating      float64 `json:"rating" db:"rating"`
	ReviewCount int     `json:"reviewCount" db:"review_count"`

	IsPrime              bool    `json:"isPrime" db:"is_prime"`
	IsSponsored          bool    `json:"isSponsored" db:"is_sponsored"`
	SubscribeSavePercent float64 `json:"subscribeSavePercent" db:"subscribe_save_pct"`

	PriceHistory PriceSummary `json:"priceHistory"`
	Bulk         *BulkPack    `json:"bulk,omitempty"`

	DealScore int        `json:"dealScore"`
	DealLabel *DealLabel `json:"dealLabel,omitempty"`
}

// PriceSummary holds the lowest, highest and average price over the 90 day lookback window
type PriceSummary struct {
	Lowest  float64 `json:"lowest90d"`
	Highest float64 `json:"highest90d"`
	Average float64 `json:"average90d"`
}

// BulkPack annotates multi-pack listings
type BulkPack struct {
	PackSize        int     `json:"packSize"`
	PerUnitPrice    float64 `json:"perUnitPrice"`
	SingleUnitPrice float64 `json:"singleUnitPrice"`
	SavingsAmount   float64 `json:"savingsAmount"`
	SavingsPercent  string  `json:"savingsPercent"` // formatted, e.g. "18%"
}

// IsBulk reports whether the product is sold as a multi-pack
func (p *Product) IsBulk() bool {
	return p.Bulk != nil
}
