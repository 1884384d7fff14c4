package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/briefwire/briefwire/internal/models"
)

// Config represents runtime configuration, read from an optional YAML file
// with environment variable overrides applied on top.
type Config struct {
	Logging    LoggingConfig             `yaml:"logging"`
	Summarizer SummarizerConfig          `yaml:"summarizer"`
	Pipeline   PipelineConfig            `yaml:"pipeline"`
	Index      IndexConfig               `yaml:"index"`
	Store      StoreConfig               `yaml:"store"`
	Metrics    MetricsConfig             `yaml:"metrics"`
	Sources    []models.SourceDescriptor `yaml:"sources"`
}

// LoggingConfig represents structured logging configuration.
type LoggingConfig struct {
	Level    slog.Level `yaml:"-"`
	RawLevel string     `yaml:"level"`
	Format   string     `yaml:"format"`
}

// SummarizerConfig selects the completion provider and its call parameters.
type SummarizerConfig struct {
	Provider        string        `yaml:"provider"` // openai | anthropic
	Model           string        `yaml:"model"`
	APIKey          string        `yaml:"apiKey"`
	BaseURL         string        `yaml:"baseUrl"` // OpenAI-compatible endpoints only
	MaxTokens       int           `yaml:"maxTokens"`
	Temperature     float32       `yaml:"temperature"`
	MaxSummaryChars int           `yaml:"maxSummaryChars"`
	CallTimeout     time.Duration `yaml:"-"`
	RawCallTimeout  int           `yaml:"callTimeoutSeconds"`
	Retry           RetryConfig   `yaml:"retry"`
}

// RetryConfig bounds retries of transient summarization failures.
type RetryConfig struct {
	MaxAttempts       int           `yaml:"maxAttempts"`
	InitialBackoff    time.Duration `yaml:"-"`
	RawInitialBackoff int           `yaml:"initialBackoffMillis"`
	MaxBackoff        time.Duration `yaml:"-"`
	RawMaxBackoff     int           `yaml:"maxBackoffMillis"`
	MaxTotalBackoff   time.Duration `yaml:"-"`
	RawTotalBackoff   int           `yaml:"maxTotalBackoffMillis"`
}

// PipelineConfig tunes the orchestrator worker pool.
type PipelineConfig struct {
	Workers                int           `yaml:"workers"`
	MaxConcurrentSummaries int           `yaml:"maxConcurrentSummaries"`
	Platforms              []string      `yaml:"platforms"`
	FetchTimeout           time.Duration `yaml:"-"`
	RawFetchTimeout        int           `yaml:"fetchTimeoutSeconds"`
}

// IndexConfig selects the fingerprint index backend.
type IndexConfig struct {
	Backend string      `yaml:"backend"` // memory | redis | postgres
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig describes the Redis connection for the fingerprint set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// StoreConfig selects the result store backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // memory | postgres
	DSN     string `yaml:"dsn"`
}

// MetricsConfig controls the optional Prometheus listener.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the listener
}

const (
	configPathEnv = "BRIEFWIRE_CONFIG"

	defaultProvider        = "openai"
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultAnthropicModel  = "claude-3-5-haiku-latest"
	defaultMaxTokens       = 1500
	defaultTemperature     = 0.4
	defaultMaxSummaryChars = 1200
	defaultCallTimeout     = 60 * time.Second

	defaultMaxAttempts     = 3
	defaultInitialBackoff  = 1 * time.Second
	defaultMaxBackoff      = 30 * time.Second
	defaultMaxTotalBackoff = 2 * time.Minute

	defaultWorkers         = 4
	defaultMaxSummaries    = 2
	defaultFetchTimeout    = 30 * time.Second
	defaultSourceItemLimit = 50

	defaultLogFormat = "json"
)

// Load reads configuration from the YAML file named by BRIEFWIRE_CONFIG (or
// the explicit path, if given), applies environment overrides, and validates
// the result. Configuration errors abort the batch before any work starts.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.resolve(); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  slog.LevelInfo,
			Format: defaultLogFormat,
		},
		Summarizer: SummarizerConfig{
			Provider:        defaultProvider,
			MaxTokens:       defaultMaxTokens,
			Temperature:     defaultTemperature,
			MaxSummaryChars: defaultMaxSummaryChars,
			CallTimeout:     defaultCallTimeout,
			Retry: RetryConfig{
				MaxAttempts:     defaultMaxAttempts,
				InitialBackoff:  defaultInitialBackoff,
				MaxBackoff:      defaultMaxBackoff,
				MaxTotalBackoff: defaultMaxTotalBackoff,
			},
		},
		Pipeline: PipelineConfig{
			Workers:                defaultWorkers,
			MaxConcurrentSummaries: defaultMaxSummaries,
			Platforms:              []string{"social_post", "video_script", "newsletter"},
			FetchTimeout:           defaultFetchTimeout,
		},
		Index: IndexConfig{
			Backend: "memory",
			Redis: RedisConfig{
				Addr: "localhost:6379",
				Key:  "briefwire:seen",
			},
		},
		Store: StoreConfig{
			Backend: "memory",
		},
	}
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.RawLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("SUMMARIZER_PROVIDER"); v != "" {
		c.Summarizer.Provider = v
	}
	if v := os.Getenv("SUMMARIZER_MODEL"); v != "" {
		c.Summarizer.Model = v
	}
	if v := os.Getenv("SUMMARIZER_BASE_URL"); v != "" {
		c.Summarizer.BaseURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.Summarizer.Provider == "openai" {
		c.Summarizer.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && c.Summarizer.Provider == "anthropic" {
		c.Summarizer.APIKey = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Index.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Index.Redis.Password = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("PIPELINE_WORKERS"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return fmt.Errorf("invalid PIPELINE_WORKERS: %w", err)
		}
		c.Pipeline.Workers = n
	}
	if v := os.Getenv("PIPELINE_MAX_CONCURRENT_SUMMARIES"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return fmt.Errorf("invalid PIPELINE_MAX_CONCURRENT_SUMMARIES: %w", err)
		}
		c.Pipeline.MaxConcurrentSummaries = n
	}
	return nil
}

// resolve converts raw YAML scalars (seconds, millis, level names) into their
// typed counterparts, keeping defaults when a raw value is absent.
func (c *Config) resolve() error {
	if c.Logging.RawLevel != "" {
		level, err := parseLogLevel(c.Logging.RawLevel)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		c.Logging.Level = level
	}

	if c.Summarizer.RawCallTimeout > 0 {
		c.Summarizer.CallTimeout = time.Duration(c.Summarizer.RawCallTimeout) * time.Second
	}
	if c.Summarizer.Retry.RawInitialBackoff > 0 {
		c.Summarizer.Retry.InitialBackoff = time.Duration(c.Summarizer.Retry.RawInitialBackoff) * time.Millisecond
	}
	if c.Summarizer.Retry.RawMaxBackoff > 0 {
		c.Summarizer.Retry.MaxBackoff = time.Duration(c.Summarizer.Retry.RawMaxBackoff) * time.Millisecond
	}
	if c.Summarizer.Retry.RawTotalBackoff > 0 {
		c.Summarizer.Retry.MaxTotalBackoff = time.Duration(c.Summarizer.Retry.RawTotalBackoff) * time.Millisecond
	}
	if c.Pipeline.RawFetchTimeout > 0 {
		c.Pipeline.FetchTimeout = time.Duration(c.Pipeline.RawFetchTimeout) * time.Second
	}

	if c.Summarizer.Model == "" {
		switch c.Summarizer.Provider {
		case "anthropic":
			c.Summarizer.Model = defaultAnthropicModel
		default:
			c.Summarizer.Model = defaultOpenAIModel
		}
	}

	for i := range c.Sources {
		if c.Sources[i].Limit <= 0 {
			c.Sources[i].Limit = defaultSourceItemLimit
		}
	}

	return nil
}

func (c *Config) validate() error {
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: must be 'json' or 'text'")
	}

	switch c.Summarizer.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("invalid summarizer provider: %q", c.Summarizer.Provider)
	}
	if c.Summarizer.APIKey == "" {
		return fmt.Errorf("missing API key for summarizer provider %q", c.Summarizer.Provider)
	}
	if c.Summarizer.Retry.MaxAttempts < 1 {
		return fmt.Errorf("summarizer retry maxAttempts must be at least 1")
	}

	switch c.Index.Backend {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("invalid index backend: %q", c.Index.Backend)
	}
	switch c.Store.Backend {
	case "memory", "postgres":
	default:
		return fmt.Errorf("invalid store backend: %q", c.Store.Backend)
	}
	if (c.Store.Backend == "postgres" || c.Index.Backend == "postgres") && c.Store.DSN == "" {
		return fmt.Errorf("postgres backend selected but no DSN configured")
	}

	if len(c.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}
	for _, src := range c.Sources {
		if src.URL == "" {
			return fmt.Errorf("source %q has no URL", src.Name)
		}
		switch src.Type {
		case models.SourceTypeRSS, models.SourceTypeWebpage:
		default:
			return fmt.Errorf("source %q has invalid type %q", src.Name, src.Type)
		}
	}

	if len(c.Pipeline.Platforms) == 0 {
		return fmt.Errorf("no platforms configured")
	}
	for _, p := range c.Pipeline.Platforms {
		if _, err := models.ParsePlatform(p); err != nil {
			return err
		}
	}

	return nil
}

// Platforms returns the configured platforms as typed values. validate has
// already checked every name, so parse errors are impossible here.
func (c *Config) Platforms() []models.Platform {
	platforms := make([]models.Platform, 0, len(c.Pipeline.Platforms))
	for _, p := range c.Pipeline.Platforms {
		platform, _ := models.ParsePlatform(p)
		platforms = append(platforms, platform)
	}
	return platforms
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("must be a positive integer")
	}
	return n, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch raw {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("must be one of debug, info, warn, error")
	}
}
