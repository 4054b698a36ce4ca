package catalog

import (
	"math"

	"github.com/dealscope/backend/internal/domain"
)

// Defaults applied to records that omit the field
const (
	defaultSubscribeSavePct = 10.0
)

// FeedProduct is the wire shape of a catalog record, shared by the JSON file
// and the remote feed.
type FeedProduct struct {
	ID               int               `json:"id"`
	ASIN             string            `json:"asin"`
	Title            string            `json:"title"`
	Brand            string            `json:"brand"`
	Category         string            `json:"category"`
	CurrentPrice     float64           `json:"current_price"`
	ListPrice        float64           `json:"list_price"`
	DiscountPct      *float64          `json:"discount_pct,omitempty"`
	UnitPrice        float64           `json:"unit_price"`
	UnitType         string            `json:"unit_type"`
	Rating           float64           `json:"rating"`
	ReviewCount      int               `json:"review_count"`
	IsPrime          *bool             `json:"is_prime,omitempty"`
	IsSponsored      bool              `json:"is_sponsored"`
	SubscribeSavePct *float64          `json:"subscribe_save_pct,omitempty"`
	ImageURL         string            `json:"image_url"`
	ProductURL       string            `json:"product_url"`
	PriceHistory     *FeedPriceHistory `json:"price_history,omitempty"`
	Bulk             *FeedBulkPack     `json:"bulk,omitempty"`
}

// FeedPriceHistory is the 90 day price summary of a record
type FeedPriceHistory struct {
	Lowest  float64 `json:"lowest_90d"`
	Highest float64 `json:"highest_90d"`
	Average float64 `json:"avg_90d"`
}

// FeedBulkPack is the multi-pack annotation of a record
type FeedBulkPack struct {
	PackSize        int     `json:"pack_size"`
	PerUnitPrice    float64 `json:"per_unit_price"`
	SingleUnitPrice float64 `json:"single_unit_price"`
	SavingsAmount   float64 `json:"savings_amount"`
	SavingsPercent  string  `json:"savings_pct"`
}

// FeedDocument is the top-level JSON document: {"products": [...]}
type FeedDocument struct {
	Products   []FeedProduct `json:"products"`
	Page       int           `json:"page,omitempty"`
	TotalPages int           `json:"totalPages,omitempty"`
}

// MapToProduct converts a feed record to the domain model. Records without an
// id get fallbackID. Missing history collapses to the current price.
func MapToProduct(r FeedProduct, fallbackID int) domain.Product {
	id := r.ID
	if id == 0 {
		id = fallbackID
	}

	p := domain.Product{
		ID:                   id,
		ASIN:                 r.ASIN,
		Title:                r.Title,
		Brand:                r.Brand,
		Category:             r.Category,
		ImageURL:             r.ImageURL,
		ProductURL:           r.ProductURL,
		CurrentPrice:         r.CurrentPrice,
		ListPrice:            r.ListPrice,
		DiscountPercent:      discountPercent(r),
		UnitPrice:            r.UnitPrice,
		UnitType:             r.UnitType,
		Rating:               r.Rating,
		ReviewCount:          r.ReviewCount,
		IsPrime:              r.IsPrime == nil || *r.IsPrime,
		IsSponsored:          r.IsSponsored,
		SubscribeSavePercent: defaultSubscribeSavePct,
	}

	if r.SubscribeSavePct != nil {
		p.SubscribeSavePercent = *r.SubscribeSavePct
	}

	if p.ProductURL == "" && r.ASIN != "" {
		p.ProductURL = "https://amazon.com/dp/" + r.ASIN
	}

	if r.PriceHistory != nil {
		p.PriceHistory = domain.PriceSummary{
			Lowest:  r.PriceHistory.Lowest,
			Highest: r.PriceHistory.Highest,
			Average: r.PriceHistory.Average,
		}
	} else {
		p.PriceHistory = domain.PriceSummary{
			Lowest:  r.CurrentPrice,
			Highest: r.CurrentPrice,
			Average: r.CurrentPrice,
		}
	}

	if r.Bulk != nil && r.Bulk.PackSize > 1 {
		p.Bulk = &domain.BulkPack{
			PackSize:        r.Bulk.PackSize,
			PerUnitPrice:    r.Bulk.PerUnitPrice,
			SingleUnitPrice: r.Bulk.SingleUnitPrice,
			SavingsAmount:   r.Bulk.SavingsAmount,
			SavingsPercent:  r.Bulk.SavingsPercent,
		}
	}

	return p
}

// MapAll converts a whole catalog. Records without an id get ids above the
// largest explicit id, so they never collide with another record.
func MapAll(records []FeedProduct) []domain.Product {
	nextID := 0
	for _, r := range records {
		if r.ID > nextID {
			nextID = r.ID
		}
	}

	products := make([]domain.Product, len(records))
	for i, r := range records {
		fallback := 0
		if r.ID == 0 {
			nextID++
			fallback = nextID
		}
		products[i] = MapToProduct(r, fallback)
	}
	return products
}

// discountPercent uses the explicit value when present, otherwise derives it
// from list and current price.
func discountPercent(r FeedProduct) float64 {
	if r.DiscountPct != nil {
		return *r.DiscountPct
	}
	if r.ListPrice <= 0 || r.CurrentPrice >= r.ListPrice {
		return 0
	}
	pct := (r.ListPrice - r.CurrentPrice) / r.ListPrice * 100
	return math.Round(pct*10) / 10
}
