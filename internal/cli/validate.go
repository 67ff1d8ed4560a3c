package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a catalog file against the data invariants",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := opts.dataset()
			if err != nil {
				return err
			}
			credits := 0
			for _, c := range data.Credits {
				credits += c.TotalAmount
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog ok: %d projects, %d credit lots (%s tCO2e), %d emissions\n",
				len(data.Projects), len(data.Credits), humanize.Comma(int64(credits)), len(data.Emissions))
			return nil
		},
	}
}
