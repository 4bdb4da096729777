package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	databaseDriverEnv = "PAGELENS_DB_DRIVER"
	databaseDSNEnv    = "PAGELENS_DB_DSN"
	listenAddrEnv     = "PAGELENS_ADDR"
	logLevelEnv       = "PAGELENS_LOG_LEVEL"
)

// Duration wraps time.Duration so config files can spell durations as
// "10s" or "1m30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds all settings required across the application. It is built
// once at startup and passed explicitly to the pipeline entry point; there
// is no global state.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Charts   ChartConfig    `yaml:"charts"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig describes the HTTP API listener.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
}

// DatabaseConfig selects the record-store backend.
// Driver is "sqlite" or "postgres".
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// FetchConfig bounds the single outbound network call of the pipeline.
type FetchConfig struct {
	Timeout      Duration `yaml:"timeout"`
	MaxRetries   uint64   `yaml:"maxRetries"`
	MaxBodyBytes int64    `yaml:"maxBodyBytes"`
	UserAgent    string   `yaml:"userAgent"`
}

// AnalysisConfig carries the tunable constants of the metric stages.
// Zero values mean "use the default": an explicit `positiveThreshold: 0`
// in the file snaps back to the conventional ±0.05 cutoffs.
type AnalysisConfig struct {
	TopWords          int     `yaml:"topWords"`
	PositiveThreshold float64 `yaml:"positiveThreshold"`
	NegativeThreshold float64 `yaml:"negativeThreshold"`
	ContentMaxChars   int     `yaml:"contentMaxChars"`
}

// ChartConfig sizes the rendered chart images.
type ChartConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LoggingConfig selects handler format and minimum level.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Load reads YAML configuration from path (optional) and applies
// environment overrides on top of built-in defaults. A .env file in the
// working directory is honoured if present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		expanded := os.ExpandEnv(string(raw))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.setDefaults()

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDriverEnv); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

// setDefaults fills any field left zero by the file or overrides, so a
// partially specified config still yields a runnable application.
func (c *Config) setDefaults() {
	d := defaultConfig()

	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if c.Database.Driver == "" {
		c.Database.Driver = d.Database.Driver
	}
	if c.Database.DSN == "" {
		c.Database.DSN = d.Database.DSN
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = d.Fetch.Timeout
	}
	if c.Fetch.MaxBodyBytes == 0 {
		c.Fetch.MaxBodyBytes = d.Fetch.MaxBodyBytes
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = d.Fetch.UserAgent
	}
	if c.Analysis.TopWords == 0 {
		c.Analysis.TopWords = d.Analysis.TopWords
	}
	if c.Analysis.PositiveThreshold == 0 {
		c.Analysis.PositiveThreshold = d.Analysis.PositiveThreshold
	}
	if c.Analysis.NegativeThreshold == 0 {
		c.Analysis.NegativeThreshold = d.Analysis.NegativeThreshold
	}
	if c.Analysis.ContentMaxChars == 0 {
		c.Analysis.ContentMaxChars = d.Analysis.ContentMaxChars
	}
	if c.Charts.Width == 0 {
		c.Charts.Width = d.Charts.Width
	}
	if c.Charts.Height == 0 {
		c.Charts.Height = d.Charts.Height
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "pagelens.db",
		},
		Fetch: FetchConfig{
			Timeout:      Duration(10 * time.Second),
			MaxRetries:   0,
			MaxBodyBytes: 10 << 20,
			UserAgent:    "PageLens/1.0 (+https://github.com/pagelens)",
		},
		Analysis: AnalysisConfig{
			TopWords:          10,
			PositiveThreshold: 0.05,
			NegativeThreshold: -0.05,
			ContentMaxChars:   20000,
		},
		Charts: ChartConfig{
			Width:  800,
			Height: 512,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
