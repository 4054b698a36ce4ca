package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print per-category catalog statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := opts.catalogService().CategoryStats(cmd.Context())
			if err != nil {
				return err
			}

			if opts.output == "json" {
				return writeJSON(cmd.OutOrStdout(), stats)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tPRODUCTS\tMEDIAN PRICE\tMEDIAN UNIT PRICE\tAVG RATING")
			for _, s := range stats {
				fmt.Fprintf(tw, "%s\t%d\t$%.2f\t%.4f\t%.2f\n",
					s.Category, s.ProductCount, s.MedianPrice, s.MedianUnitPrice, s.AvgRating)
			}
			return tw.Flush()
		},
	}
}
