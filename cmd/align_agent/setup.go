package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-aligner/internal/alignment"
	"github.com/jonathan/resume-aligner/internal/calibration"
	"github.com/jonathan/resume-aligner/internal/config"
	"github.com/jonathan/resume-aligner/internal/db"
	"github.com/jonathan/resume-aligner/internal/embedding"
	"github.com/jonathan/resume-aligner/internal/engine"
	"github.com/jonathan/resume-aligner/internal/feedback"
	"github.com/jonathan/resume-aligner/internal/rewriting"
	"github.com/jonathan/resume-aligner/internal/types"
)

// stack holds the wired application components shared by the CLI commands
// and the server.
type stack struct {
	engine     *engine.Engine
	publisher  *calibration.Publisher
	calibrator *calibration.Calibrator
	logger     *zap.Logger
	cleanup    func()
}

// resolveConfig merges the optional config file with environment credentials.
func resolveConfig(flags config.Config) (*config.Config, error) {
	cfg := flags
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// newLogger builds the process logger.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildStack wires the embedding provider, feedback store, calibration, and
// engine from configuration. The returned cleanup must be called on exit.
func buildStack(ctx context.Context, cfg *config.Config) (*stack, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		_ = logger.Sync()
	}

	// Embedding provider: Gemini when a key is configured, the lexical
	// fallback otherwise. Either way vectors go through the LRU cache.
	var inner embedding.Provider
	if cfg.APIKey != "" {
		model := cfg.EmbeddingModel
		if model == "" {
			model = embedding.DefaultEmbeddingModel
		}
		gemini, err := embedding.NewGeminiProvider(ctx, cfg.APIKey, model)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to create embedding provider: %w", err)
		}
		closers = append(closers, func() { _ = gemini.Close() })
		inner = gemini
	} else {
		fmt.Fprintln(os.Stderr, "Warning: no API key configured, using lexical matching for semantic scoring")
		inner = embedding.NewLexicalProvider()
	}

	cacheSize := cfg.EmbedCacheSize
	if cacheSize == 0 {
		cacheSize = embedding.DefaultCacheSize
	}
	provider, err := embedding.NewCachedProvider(inner, cacheSize)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to create embedding cache: %w", err)
	}

	// Persistence: Postgres when configured, in-memory otherwise.
	var store feedback.Store = feedback.NewMemoryStore()
	var saver calibration.Saver
	var initial *types.CalibrationState

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		closers = append(closers, database.Close)

		if err := database.Migrate(ctx); err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		store = db.NewFeedbackStore(database)
		saver = database

		state, err := database.LatestCalibrationState(ctx)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to load calibration state: %w", err)
		}
		initial = state
	}

	publisher := calibration.NewPublisher(initial)
	agg := feedback.NewAggregator(store, logger)

	calOpts := calibration.DefaultOptions()
	if cfg.CalibrationIntervalHours > 0 {
		calOpts.Interval = time.Duration(cfg.CalibrationIntervalHours) * time.Hour
	}
	if cfg.CalibrationVolume > 0 {
		calOpts.VolumeThreshold = cfg.CalibrationVolume
	}
	if cfg.CalibrationMinSample > 0 {
		calOpts.MinSampleSize = cfg.CalibrationMinSample
	}
	calibrator := calibration.NewCalibrator(agg, publisher, saver, calOpts, logger)

	scorer := alignment.NewScorer(provider, publisher, alignment.DefaultOptions(), logger)
	eng := engine.New(scorer, agg, publisher, logger)

	// Text generation needs the API key; without it the rewrite command and
	// endpoint report themselves unavailable.
	if cfg.APIKey != "" {
		gen, err := rewriting.NewGeminiGenerator(ctx, cfg.APIKey, cfg.GenerationModel)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to create text generator: %w", err)
		}
		closers = append(closers, func() { _ = gen.Close() })
		eng.WithGenerator(gen)
	}

	return &stack{
		engine:     eng,
		publisher:  publisher,
		calibrator: calibrator,
		logger:     logger,
		cleanup:    cleanup,
	}, nil
}

// readTextFile reads an input file, erroring on empty content.
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("file %s is empty", path)
	}
	return string(data), nil
}
