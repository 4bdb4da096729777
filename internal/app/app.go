package app

import (
	"context"
	"log/slog"

	"pagelens/internal/config"
	"pagelens/internal/infrastructure/analyze"
	"pagelens/internal/infrastructure/chart"
	"pagelens/internal/infrastructure/extract"
	"pagelens/internal/infrastructure/fetch"
	"pagelens/internal/infrastructure/storage"
	"pagelens/internal/logging"
	"pagelens/internal/server"
	"pagelens/internal/usecase"
)

// Application wires config into the pipeline, store, and HTTP server.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *storage.SQLStore
	pipeline *usecase.Pipeline
}

// New opens the record store and builds the full pipeline.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	store, err := storage.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	fetcher := fetch.New(nil, fetch.Options{
		Timeout:      cfg.Fetch.Timeout.Std(),
		MaxRetries:   cfg.Fetch.MaxRetries,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
		UserAgent:    cfg.Fetch.UserAgent,
	})

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Fetcher:         fetcher,
		Extractor:       extract.New(),
		Sentiment:       analyze.NewVaderAnalyzer(cfg.Analysis.PositiveThreshold, cfg.Analysis.NegativeThreshold),
		Readability:     analyze.NewFleschScorer(),
		Lexical:         analyze.NewLexical(cfg.Analysis.TopWords),
		Summarizer:      analyze.NewSummarizer(),
		Charts:          chart.New(cfg.Charts.Width, cfg.Charts.Height),
		Store:           store,
		Logger:          baseLogger.With("component", "pipeline"),
		ContentMaxChars: cfg.Analysis.ContentMaxChars,
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		store:    store,
		pipeline: pipeline,
	}, nil
}

// Pipeline exposes the analysis use case for one-shot CLI runs.
func (a *Application) Pipeline() *usecase.Pipeline {
	return a.pipeline
}

// Store exposes the record store for history queries.
func (a *Application) Store() *storage.SQLStore {
	return a.store
}

// Close releases the record store.
func (a *Application) Close() error {
	return a.store.Close()
}

// Run serves the HTTP API until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	srv := server.New(a.cfg.Server.Addr, a.pipeline, a.store, a.logger.With("component", "server"))
	return srv.Run(ctx, a.cfg.Server.ShutdownTimeout.Std())
}
