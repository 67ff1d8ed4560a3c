package cli

import (
	"fmt"
	"strings"

	onboardingsvc "carbonpay/internal/service/onboarding"
	"github.com/spf13/cobra"
)

func newStepsCmd(_ *options) *cobra.Command {
	var showOptions bool
	cmd := &cobra.Command{
		Use:   "steps",
		Short: "Print the onboarding wizard steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, s := range onboardingsvc.Steps() {
				fmt.Fprintf(out, "%d. %-17s %s - %s\n", i+1, s.ID, s.Title, s.Description)
			}
			if !showOptions {
				return nil
			}
			o := onboardingsvc.FieldOptions()
			fmt.Fprintln(out)
			fmt.Fprintf(out, "companySize:            %s\n", strings.Join(o.CompanySizes, "; "))
			fmt.Fprintf(out, "industry:               %s\n", strings.Join(o.Industries, "; "))
			fmt.Fprintf(out, "primaryEmissionSources: %s\n", strings.Join(o.EmissionSources, "; "))
			fmt.Fprintf(out, "sustainabilityPrograms: %s\n", strings.Join(o.SustainabilityPrograms, "; "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&showOptions, "options", false, "Also print the select and checkbox choices")
	return cmd
}
