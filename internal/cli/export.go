package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	catalogrepo "carbonpay/internal/repository/catalog"
	exportsvc "carbonpay/internal/service/export"
	portfoliosvc "carbonpay/internal/service/portfolio"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:       "export credits|emissions",
		Short:     "Export the credit or emission table",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"credits", "emissions"},
		Long: `Export a catalog table as csv, xlsx or pdf.

Examples:
  carbonctl export credits
  carbonctl export emissions --format xlsx --out emissions.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exportsvc.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := opts.dataset()
			if err != nil {
				return err
			}
			svc := portfoliosvc.New(catalogrepo.NewStatic(data), nil, nil, opts.logger)
			table, err := buildTable(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				return exportsvc.Write(cmd.OutOrStdout(), f, table)
			}
			n, err := writeFile(out, f, table)
			if err != nil {
				return err
			}
			opts.logger.Info("export written", zap.String("file", out), zap.String("format", string(f)), zap.Int("rows", len(table.Rows)))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d rows, %s)\n", out, len(table.Rows), humanize.Bytes(uint64(n)))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv, xlsx or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func buildTable(ctx context.Context, svc *portfoliosvc.Service, which string) (exportsvc.Table, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	switch which {
	case "credits":
		a, err := svc.Assets(ctx)
		if err != nil {
			return exportsvc.Table{}, err
		}
		return exportsvc.CreditsTable(a), nil
	case "emissions":
		e, err := svc.Emissions(ctx)
		if err != nil {
			return exportsvc.Table{}, err
		}
		return exportsvc.EmissionsTable(e), nil
	default:
		return exportsvc.Table{}, fmt.Errorf("unknown table %q", which)
	}
}

func writeFile(path string, f exportsvc.Format, t exportsvc.Table) (int64, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	cw := &countingWriter{w: file}
	if err := exportsvc.Write(cw, f, t); err != nil {
		file.Close()
		return 0, err
	}
	if err := file.Close(); err != nil {
		return 0, err
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
