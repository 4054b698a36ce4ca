package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `{
  "products": [
    {"id": 1, "asin": "B0001", "title": "Wireless Earbuds", "brand": "Sony", "category": "Electronics",
     "current_price": 49.99, "list_price": 79.99, "unit_price": 49.99, "unit_type": "item",
     "rating": 4.4, "review_count": 1200,
     "price_history": {"lowest_90d": 45.0, "highest_90d": 80.0, "avg_90d": 60.0}},
    {"id": 2, "asin": "B0002", "title": "Whey Protein 5lb", "brand": "Optimum Nutrition", "category": "Grocery",
     "current_price": 54.99, "list_price": 64.99, "unit_price": 0.69, "unit_type": "oz",
     "rating": 4.7, "review_count": 80000, "is_prime": false,
     "bulk": {"pack_size": 2, "per_unit_price": 27.5, "single_unit_price": 32.0, "savings_amount": 9.0, "savings_pct": "14%"}}
  ]
}`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSource_LoadProducts(t *testing.T) {
	source := NewFileSource(writeCatalog(t, sampleCatalog), zerolog.Nop())

	products, err := source.LoadProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Wireless Earbuds", products[0].Title)
	assert.True(t, products[0].IsPrime)
	assert.Equal(t, 60.0, products[0].PriceHistory.Average)
	assert.False(t, products[1].IsPrime)
	require.NotNil(t, products[1].Bulk)
	assert.Equal(t, 2, products[1].Bulk.PackSize)
}

func TestFileSource_MissingFile(t *testing.T) {
	source := NewFileSource(filepath.Join(t.TempDir(), "missing.json"), zerolog.Nop())

	_, err := source.LoadProducts(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read catalog file")
}

func TestFileSource_InvalidJSON(t *testing.T) {
	source := NewFileSource(writeCatalog(t, "{"), zerolog.Nop())

	_, err := source.LoadProducts(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode catalog file")
}

func TestFileSource_CanceledContext(t *testing.T) {
	source := NewFileSource(writeCatalog(t, sampleCatalog), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.LoadProducts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
