package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/propertycalc/internal/api"
	"github.com/sells-group/propertycalc/internal/sweeper"
)

var (
	servePort      int
	serveNoSweeper bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the expired report sweeper",
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initMigratedStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		riskModel, err := initRiskModel()
		if err != nil {
			return err
		}

		gen := initInsights()
		if gen == nil {
			zap.L().Warn("anthropic key not set, property insights disabled")
		}

		srv := api.New(api.Config{
			Port:           cfg.Server.Port,
			Timeout:        cfg.Server.Timeout(),
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Store:          st,
			Insights:       gen,
			Risk:           riskModel,
			ShareTTL:       cfg.Share.TTL(),
		})

		var sw *sweeper.Sweeper
		if !serveNoSweeper {
			job := sweeper.NewJob(st, time.Duration(cfg.Sweeper.TimeoutSecs)*time.Second)
			if sw, err = sweeper.New(cfg.Sweeper.Schedule, job); err != nil {
				return err
			}
		}

		g, gctx := errgroup.WithContext(ctx)

		g.Go(srv.Start)

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if sw != nil {
			g.Go(func() error { return sw.Run(gctx) })
		}

		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "serve")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().BoolVar(&serveNoSweeper, "no-sweeper", false, "do not purge expired shared reports")
	rootCmd.AddCommand(serveCmd)
}
