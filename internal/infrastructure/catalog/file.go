package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/dealscope/backend/internal/domain"
)

// FileSource reads the catalog from a JSON document on disk
type FileSource struct {
	path   string
	logger zerolog.Logger
}

// NewFileSource creates a file-backed catalog source
func NewFileSource(path string, logger zerolog.Logger) *FileSource {
	return &FileSource{
		path:   path,
		logger: logger.With().Str("component", "catalog_file").Logger(),
	}
}

// LoadProducts reads and maps every record in the file. The file is re-read
// on every call so a refresh picks up edits.
func (s *FileSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var doc FeedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog file %s: %w", s.path, err)
	}

	products := MapAll(doc.Products)
	s.logger.Info().Str("path", s.path).Int("products", len(products)).Msg("catalog file loaded")
	return products, nil
}
