package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dealscope/backend/internal/usecase"
)

func newParseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <query>",
		Short: "Parse a free-text search into structured filters",
		Example: `  dealctl parse "best protein powder under $40"
  dealctl parse -o json cheap sony headphones prime only`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := usecase.NewQueryParser(usecase.QueryParserConfig{}, opts.logger())
			q := parser.Parse(strings.Join(args, " "))

			if opts.output == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"query":   q,
					"summary": usecase.Summarize(q),
				})
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), usecase.Summarize(q))
			return err
		},
	}
}
