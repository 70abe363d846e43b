package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/propertycalc/internal/fetcher"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import comparable properties from a CSV or XLSX file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("import"); err != nil {
			return err
		}

		batch, err := fetcher.ReadProperties(ctx, importFile)
		if err != nil {
			return eris.Wrap(err, "read properties")
		}
		for _, rej := range batch.Rejected {
			zap.L().Warn("skipping invalid row",
				zap.Int("row", rej.Row),
				zap.Error(rej.Err),
			)
		}

		st, err := initMigratedStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := st.ImportProperties(ctx, batch.Properties)
		if err != nil {
			return eris.Wrap(err, "import properties")
		}

		zap.L().Info("import complete",
			zap.Int64("imported", n),
			zap.Int("rejected", len(batch.Rejected)),
			zap.String("file", importFile),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "path to a .csv or .xlsx file (required)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
