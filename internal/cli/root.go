package cli

import (
	"fmt"
	"io"
	"os"

	"carbonpay/internal/catalog"
	"carbonpay/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	logLevel    string
	catalogFile string
	logger      *zap.Logger
}

// NewRootCommand builds the carbonctl command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "carbonctl",
		Short: "carbonctl - offline tools for the carbon credit catalog",
		Long: `carbonctl inspects the onboarding steps and exports the catalog's
credit and emission tables without a running API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(opts.logLevel, "console")
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.catalogFile, "catalog", "", "YAML catalog to use instead of the built-in one")

	root.AddCommand(newStepsCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newValidateCmd(opts))
	return root
}

// Execute runs carbonctl against os.Args.
func Execute() error {
	return NewRootCommand(os.Stdout).Execute()
}

func (o *options) dataset() (catalog.Dataset, error) {
	if o.catalogFile == "" {
		return catalog.Default(), nil
	}
	f, err := os.Open(o.catalogFile)
	if err != nil {
		return catalog.Dataset{}, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return catalog.Read(f)
}
