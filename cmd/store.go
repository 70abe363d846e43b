package main

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/sells-group/propertycalc/internal/insights"
	"github.com/sells-group/propertycalc/internal/resilience"
	"github.com/sells-group/propertycalc/internal/risk"
	"github.com/sells-group/propertycalc/internal/store"
	"github.com/sells-group/propertycalc/pkg/anthropic"
)

// initStore opens the configured backend. Callers own Close.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "propcalc.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initMigratedStore opens the store and applies the schema.
func initMigratedStore(ctx context.Context) (store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initRiskModel loads the risk weights override, if any.
func initRiskModel() (risk.Model, error) {
	m, err := risk.LoadModel(cfg.Risk.WeightsFile)
	if err != nil {
		return risk.Model{}, eris.Wrap(err, "load risk weights")
	}
	return m, nil
}

// initInsights returns nil when no Anthropic key is configured.
func initInsights() insights.Generator {
	if cfg.Anthropic.Key == "" {
		return nil
	}

	var opts []option.RequestOption
	if cfg.Anthropic.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.Anthropic.BaseURL))
	}
	client := anthropic.NewClient(cfg.Anthropic.Key, opts...)

	return insights.NewAnthropicGenerator(client, insights.Config{
		Model:             cfg.Anthropic.Model,
		MaxTokens:         int64(cfg.Anthropic.MaxTokens),
		RequestsPerMinute: cfg.Anthropic.RequestsPerMinute,
		Retry:             resilience.DefaultPolicy(),
	})
}
