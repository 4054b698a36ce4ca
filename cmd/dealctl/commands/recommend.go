package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dealscope/backend/internal/domain"
)

func newRecommendCmd(opts *rootOptions) *cobra.Command {
	var (
		ids   []int
		limit int
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend products similar to one or more catalog products",
		Example: `  dealctl recommend --id 12
  dealctl recommend --id 12 --id 40 --limit 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service := opts.catalogService()

			var (
				recs []domain.Recommendation
				err  error
			)
			if len(ids) == 1 {
				recs, err = service.Recommendations(cmd.Context(), ids[0], limit)
			} else {
				recs, err = service.RecommendFromMultiple(cmd.Context(), ids, limit)
			}
			if err != nil {
				return err
			}

			if opts.output == "json" {
				return writeJSON(cmd.OutOrStdout(), recs)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSIMILARITY\tPRICE\tTITLE\tWHY")
			for _, r := range recs {
				fmt.Fprintf(tw, "%d\t%d%%\t$%.2f\t%s\t%s\n",
					r.Product.ID, r.Similarity, r.Product.CurrentPrice, r.Product.Title, r.Explanation)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntSliceVar(&ids, "id", nil, "source product id (repeatable)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of recommendations (default 6)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
