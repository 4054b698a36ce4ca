package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/dealscope/backend/internal/domain"
)

// productsQuery joins each product with its 90 day price history summary
const productsQuery = `
SELECT
  p.id, p.asin, p.title, p.brand, p.category,
  p.current_price, p.list_price, p.discount_pct, p.unit_price, p.unit_type,
  p.rating, p.review_count, p.is_prime, p.is_sponsored, p.subscribe_save_pct,
  p.image_url, p.amazon_url,
  h.lowest AS lowest_90d, h.highest AS highest_90d, h.average AS avg_90d,
  p.bulk_pack_size, p.bulk_per_unit_price, p.bulk_single_unit_price,
  p.bulk_savings_amount, p.bulk_savings_pct
FROM products p
LEFT JOIN (
  SELECT product_id, MIN(price) AS lowest, MAX(price) AS highest, AVG(price) AS average
  FROM price_history
  WHERE recorded_at >= NOW() - INTERVAL '90 days'
  GROUP BY product_id
) h ON h.product_id = p.id
ORDER BY p.id`

// productRow mirrors one row of productsQuery
type productRow struct {
	ID               int             `db:"id"`
	ASIN             sql.NullString  `db:"asin"`
	Title            string          `db:"title"`
	Brand            sql.NullString  `db:"brand"`
	Category         string          `db:"category"`
	CurrentPrice     float64         `db:"current_price"`
	ListPrice        float64         `db:"list_price"`
	DiscountPct      sql.NullFloat64 `db:"discount_pct"`
	UnitPrice        float64         `db:"unit_price"`
	UnitType         sql.NullString  `db:"unit_type"`
	Rating           float64         `db:"rating"`
	ReviewCount      int             `db:"review_count"`
	IsPrime          bool            `db:"is_prime"`
	IsSponsored      bool            `db:"is_sponsored"`
	SubscribeSavePct sql.NullFloat64 `db:"subscribe_save_pct"`
	ImageURL         sql.NullString  `db:"image_url"`
	ProductURL       sql.NullString  `db:"amazon_url"`

	Lowest90d  sql.NullFloat64 `db:"lowest_90d"`
	Highest90d sql.NullFloat64 `db:"highest_90d"`
	Avg90d     sql.NullFloat64 `db:"avg_90d"`

	BulkPackSize        sql.NullInt64   `db:"bulk_pack_size"`
	BulkPerUnitPrice    sql.NullFloat64 `db:"bulk_per_unit_price"`
	BulkSingleUnitPrice sql.NullFloat64 `db:"bulk_single_unit_price"`
	BulkSavingsAmount   sql.NullFloat64 `db:"bulk_savings_amount"`
	BulkSavingsPct      sql.NullString  `db:"bulk_savings_pct"`
}

// PostgresSource reads the catalog from the products and price_history tables
type PostgresSource struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

// OpenPostgres connects to databaseURL using the lib/pq driver
func OpenPostgres(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// NewPostgresSource creates a Postgres-backed catalog source
func NewPostgresSource(db *sqlx.DB, logger zerolog.Logger) *PostgresSource {
	return &PostgresSource{
		db:     db,
		logger: logger.With().Str("component", "catalog_postgres").Logger(),
	}
}

// LoadProducts reads every product with its price history summary
func (s *PostgresSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, productsQuery); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}

	products := make([]domain.Product, len(rows))
	for i, r := range rows {
		products[i] = r.toProduct()
	}

	s.logger.Info().Int("products", len(products)).Msg("catalog loaded from postgres")
	return products, nil
}

// toProduct maps a row through the shared feed mapper so defaults match the
// other sources.
func (r productRow) toProduct() domain.Product {
	rec := FeedProduct{
		ID:           r.ID,
		ASIN:         r.ASIN.String,
		Title:        r.Title,
		Brand:        r.Brand.String,
		Category:     r.Category,
		CurrentPrice: r.CurrentPrice,
		ListPrice:    r.ListPrice,
		UnitPrice:    r.UnitPrice,
		UnitType:     r.UnitType.String,
		Rating:       r.Rating,
		ReviewCount:  r.ReviewCount,
		IsPrime:      &r.IsPrime,
		IsSponsored:  r.IsSponsored,
		ImageURL:     r.ImageURL.String,
		ProductURL:   r.ProductURL.String,
	}

	if r.DiscountPct.Valid {
		rec.DiscountPct = &r.DiscountPct.Float64
	}
	if r.SubscribeSavePct.Valid {
		rec.SubscribeSavePct = &r.SubscribeSavePct.Float64
	}
	if r.Avg90d.Valid {
		rec.PriceHistory = &FeedPriceHistory{
			Lowest:  r.Lowest90d.Float64,
			Highest: r.Highest90d.Float64,
			Average: r.Avg90d.Float64,
		}
	}
	if r.BulkPackSize.Valid {
		rec.Bulk = &FeedBulkPack{
			PackSize:        int(r.BulkPackSize.Int64),
			PerUnitPrice:    r.BulkPerUnitPrice.Float64,
			SingleUnitPrice: r.BulkSingleUnitPrice.Float64,
			SavingsAmount:   r.BulkSavingsAmount.Float64,
			SavingsPercent:  r.BulkSavingsPct.String,
		}
	}

	return MapToProduct(rec, r.ID)
}
