package main

import (
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/propertycalc/internal/report"
)

var (
	exportShareID string
	exportFormat  string
	exportOutput  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a shared report as CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("export"); err != nil {
			return err
		}
		if exportFormat != report.FormatCSV && exportFormat != report.FormatXLSX {
			return eris.Errorf("unsupported export format %q (want csv or xlsx)", exportFormat)
		}
		if exportFormat == report.FormatXLSX && exportOutput == "" {
			return eris.New("--output is required for xlsx exports")
		}

		st, err := initMigratedStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rep, err := st.GetSharedReport(ctx, exportShareID)
		if err != nil {
			return eris.Wrap(err, "fetch shared report")
		}
		if rep == nil {
			return eris.Errorf("report %s not found", exportShareID)
		}
		if rep.Expired(time.Now()) {
			return eris.Errorf("report %s has expired", exportShareID)
		}

		var out io.Writer = os.Stdout
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return eris.Wrapf(err, "create %s", exportOutput)
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		if err := report.Write(out, exportFormat, rep.PropertyData); err != nil {
			return err
		}

		if exportOutput != "" {
			zap.L().Info("export complete",
				zap.String("share_id", exportShareID),
				zap.String("format", exportFormat),
				zap.String("path", exportOutput),
			)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportShareID, "share-id", "", "shared report ID (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", report.FormatCSV, "csv or xlsx")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output path (default stdout, required for xlsx)")
	_ = exportCmd.MarkFlagRequired("share-id")
	rootCmd.AddCommand(exportCmd)
}
