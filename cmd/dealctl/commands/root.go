// Package commands implements the dealctl command tree.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dealscope/backend/internal/infrastructure/catalog"
	"github.com/dealscope/backend/internal/infrastructure/logging"
	"github.com/dealscope/backend/internal/usecase"
)

type rootOptions struct {
	catalogPath string
	output      string
	logLevel    string
}

// NewRootCmd builds the dealctl command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "dealctl",
		Short: "Score deals, parse searches and recommend products offline",
		Long: `dealctl runs the DealScope scoring, query parsing and recommendation
engines against a local catalog file, without starting the API server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "text" && opts.output != "json" {
				return fmt.Errorf("output must be 'text' or 'json', got: %s", opts.output)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "data/products.json", "catalog JSON file")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		newParseCmd(opts),
		newScoreCmd(opts),
		newRecommendCmd(opts),
		newStatsCmd(opts),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) logger() zerolog.Logger {
	return logging.New(logging.Config{
		Level:   o.logLevel,
		Format:  "console",
		Output:  os.Stderr,
		Service: "dealctl",
	})
}

// catalogService builds a service over the catalog file with no shared cache
func (o *rootOptions) catalogService() *usecase.CatalogService {
	logger := o.logger()
	return usecase.NewCatalogService(
		catalog.NewFileSource(o.catalogPath, logger),
		nil,
		usecase.NewDealScorer(),
		usecase.NewRecommender(usecase.RecommenderConfig{}, logger),
		usecase.NewQueryParser(usecase.QueryParserConfig{}, logger),
		usecase.CatalogServiceConfig{},
		logger,
	)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
