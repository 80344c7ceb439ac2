package app

import (
	"fmt"
	"os"

	"github.com/blackwell-systems/healthwatch/internal/completion"
	"github.com/blackwell-systems/healthwatch/internal/config"
	"github.com/blackwell-systems/healthwatch/internal/health"
	"github.com/blackwell-systems/healthwatch/internal/output"
	"github.com/blackwell-systems/healthwatch/internal/store"
	"go.uber.org/zap"
)

// runtime holds what every command needs: configuration, logger and the
// open sample database.
type runtime struct {
	cfg *config.Config
	log *zap.Logger
	db  *store.DB
}

func setup() (*runtime, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	output.SetNoColor(!output.ColorEnabled(os.Stdout, cfg.Output.Color, flagNoColor))
	log := newLogger(os.Stderr, flagVerbose)

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	log.Debug("database opened", zap.String("path", cfg.DBPath))

	return &runtime{cfg: cfg, log: log, db: db}, nil
}

func (r *runtime) close() {
	_ = r.db.Close()
	_ = r.log.Sync()
}

// aggregator returns an Aggregator over src configured from the query and
// calorie settings.
func (r *runtime) aggregator(src health.Source) (*health.Aggregator, error) {
	loc, err := r.cfg.Calories.Location()
	if err != nil {
		return nil, err
	}
	agg := health.NewAggregator(src, r.log.Named("aggregate"))
	agg.WindowMonths = r.cfg.Query.WindowMonths
	agg.SampleLimit = r.cfg.Query.SampleLimit
	agg.DayLayout = r.cfg.Calories.DayLayout
	agg.Location = loc
	return agg, nil
}

// completer returns the completion client for the configured endpoint.
func (r *runtime) completer() (*completion.Client, error) {
	if err := r.cfg.RequireEndpoint(); err != nil {
		return nil, err
	}
	c := r.cfg.Completion
	return completion.New(completion.Options{
		Endpoint:     c.Endpoint,
		APIKey:       c.APIKey,
		APIKeyHeader: c.APIKeyHeader,
		Model:        c.Model,
		SystemPrompt: c.SystemPrompt,
		Timeout:      c.Timeout,
	}, r.log.Named("completion")), nil
}
