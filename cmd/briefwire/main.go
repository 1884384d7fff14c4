package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/briefwire/briefwire/internal/config"
	"github.com/briefwire/briefwire/internal/dedupe"
	"github.com/briefwire/briefwire/internal/fetch"
	"github.com/briefwire/briefwire/internal/logging"
	"github.com/briefwire/briefwire/internal/metrics"
	"github.com/briefwire/briefwire/internal/pipeline"
	"github.com/briefwire/briefwire/internal/store"
	"github.com/briefwire/briefwire/internal/summarize"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults to $BRIEFWIRE_CONFIG)")
	flag.Parse()

	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	fallback := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallback.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stdout, cfg.Logging)
	if err != nil {
		fallback.Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting briefwire",
		"sources", len(cfg.Sources),
		"provider", cfg.Summarizer.Provider,
		"index_backend", cfg.Index.Backend,
		"store_backend", cfg.Store.Backend,
	)

	collector, err := metrics.NewPipelineCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}
	if cfg.Metrics.Addr != "" {
		go serveMetrics(cfg.Metrics.Addr, collector, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.Store.Backend == "postgres" || cfg.Index.Backend == "postgres" {
		db, err = sql.Open("postgres", cfg.Store.DSN)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
	}

	index, err := buildIndex(ctx, cfg, db, logger)
	if err != nil {
		logger.Error("failed to init fingerprint index", "error", err)
		os.Exit(1)
	}

	resultStore, err := buildStore(ctx, cfg, db)
	if err != nil {
		logger.Error("failed to init result store", "error", err)
		os.Exit(1)
	}

	summarizer := summarize.New(buildCompleter(cfg), logger, collector, summarize.Options{
		MaxTokens:       cfg.Summarizer.MaxTokens,
		MaxSummaryChars: cfg.Summarizer.MaxSummaryChars,
		CallTimeout:     cfg.Summarizer.CallTimeout,
		Retry: summarize.RetryPolicy{
			MaxAttempts:     cfg.Summarizer.Retry.MaxAttempts,
			InitialBackoff:  cfg.Summarizer.Retry.InitialBackoff,
			MaxBackoff:      cfg.Summarizer.Retry.MaxBackoff,
			BackoffFactor:   2.0,
			MaxTotalBackoff: cfg.Summarizer.Retry.MaxTotalBackoff,
			Jitter:          true,
		},
	})

	reader := fetch.NewReader(logger, collector, cfg.Pipeline.FetchTimeout)

	p := pipeline.New(reader, index, summarizer, resultStore, logger, collector, pipeline.Config{
		Workers:                cfg.Pipeline.Workers,
		MaxConcurrentSummaries: cfg.Pipeline.MaxConcurrentSummaries,
		Platforms:              cfg.Platforms(),
	})

	report, err := p.Run(ctx, cfg.Sources)
	if err != nil {
		logger.Error("batch run failed", "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Error("failed to encode report", "error", err)
		os.Exit(1)
	}
	os.Stdout.Write(append(out, '\n'))
}

func buildCompleter(cfg config.Config) summarize.Completer {
	switch cfg.Summarizer.Provider {
	case "anthropic":
		return summarize.NewAnthropicClient(summarize.AnthropicConfig{
			APIKey:      cfg.Summarizer.APIKey,
			Model:       cfg.Summarizer.Model,
			Temperature: float64(cfg.Summarizer.Temperature),
		})
	default:
		return summarize.NewOpenAIClient(summarize.OpenAIConfig{
			APIKey:      cfg.Summarizer.APIKey,
			BaseURL:     cfg.Summarizer.BaseURL,
			Model:       cfg.Summarizer.Model,
			Temperature: cfg.Summarizer.Temperature,
		})
	}
}

func buildIndex(ctx context.Context, cfg config.Config, db *sql.DB, logger *slog.Logger) (pipeline.Index, error) {
	switch cfg.Index.Backend {
	case "redis":
		return dedupe.NewRedisIndex(dedupe.RedisConfig{
			Addr:     cfg.Index.Redis.Addr,
			Password: cfg.Index.Redis.Password,
			DB:       cfg.Index.Redis.DB,
			Key:      cfg.Index.Redis.Key,
		})
	case "postgres":
		index := dedupe.NewPostgresIndex(db)
		if err := index.Migrate(ctx); err != nil {
			return nil, err
		}
		return index, nil
	default:
		logger.Warn("using in-memory fingerprint index; deduplication will not survive restarts")
		return dedupe.NewMemoryIndex(), nil
	}
}

func buildStore(ctx context.Context, cfg config.Config, db *sql.DB) (pipeline.Store, error) {
	switch cfg.Store.Backend {
	case "postgres":
		pg := store.NewPostgres(db)
		if err := pg.Migrate(ctx); err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return store.NewMemory(), nil
	}
}

func serveMetrics(addr string, collector *metrics.PipelineCollector, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	logger.Info("metrics listener started", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics listener stopped", "error", err)
	}
}
