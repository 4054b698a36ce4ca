package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dealscope/backend/internal/domain"
)

func newScoreCmd(opts *rootOptions) *cobra.Command {
	var (
		query string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score every product in the catalog and print the best deals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := opts.catalogService().Search(cmd.Context(), query, limit)
			if err != nil {
				return err
			}

			if opts.output == "json" {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			if query != "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.Summary)
			}
			return printProducts(cmd, result.Products)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "optional free-text filter")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum products to print (0 for all)")
	return cmd
}

func printProducts(cmd *cobra.Command, products []domain.Product) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSCORE\tLABEL\tPRICE\tCATEGORY\tTITLE")
	for _, p := range products {
		label := ""
		if p.DealLabel != nil {
			label = p.DealLabel.Emoji + " " + p.DealLabel.Text
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t$%.2f\t%s\t%s\n", p.ID, p.DealScore, label, p.CurrentPrice, p.Category, p.Title)
	}
	return tw.Flush()
}
