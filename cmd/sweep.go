package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/propertycalc/internal/sweeper"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired shared reports once",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("sweep"); err != nil {
			return err
		}

		st, err := initMigratedStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		job := sweeper.NewJob(st, time.Duration(cfg.Sweeper.TimeoutSecs)*time.Second)
		n, err := job.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "sweep")
		}

		zap.L().Info("sweep complete", zap.Int("deleted", n))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
