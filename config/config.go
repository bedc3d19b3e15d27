package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied to any value left unset.
const (
	DefaultGroupSize      = 4
	DefaultTopByPoints    = 10
	DefaultTopByNet       = 5
	DefaultWorkers        = 4
	DefaultHTTPAddress    = ":8080"
	DefaultMaxUploadBytes = 10 << 20
	DefaultRateLimit      = 5
	DefaultRateBurst      = 10
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultServiceName    = "peoria-stableford"
)

// Config struct to hold the configuration settings
type Config struct {
	Scoring       ScoringConfig       `yaml:"scoring"`
	HTTP          HTTPConfig          `yaml:"http"`
	Report        ReportConfig        `yaml:"report"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ScoringConfig holds engine and ranking settings.
type ScoringConfig struct {
	// ReferenceHoles is the default hole selection when a request does not name one.
	ReferenceHoles []int `yaml:"reference_holes"`
	Workers        int   `yaml:"workers"`
	GroupSize      int   `yaml:"group_size"`
	TopByPoints    int   `yaml:"top_by_points"`
	TopByNet       int   `yaml:"top_by_net"`
}

// HTTPConfig holds API server configuration.
type HTTPConfig struct {
	Address        string   `yaml:"address"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	RateLimit      float64  `yaml:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ReportConfig holds report rendering defaults.
type ReportConfig struct {
	Charts bool `yaml:"charts"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	ServiceName    string `yaml:"service_name"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"` // text|json
	MetricsAddress string `yaml:"metrics_address"`
}

// LoadConfig loads the configuration from a YAML file. A missing file falls back to
// environment variables; environment variables always override file values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return loadConfigFromEnv()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PEORIA_REFERENCE_HOLES"); v != "" {
		holes, err := parseIntList(v)
		if err != nil {
			return fmt.Errorf("invalid PEORIA_REFERENCE_HOLES value: %w", err)
		}
		cfg.Scoring.ReferenceHoles = holes
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"PEORIA_WORKERS", &cfg.Scoring.Workers},
		{"PEORIA_GROUP_SIZE", &cfg.Scoring.GroupSize},
		{"PEORIA_TOP_BY_POINTS", &cfg.Scoring.TopByPoints},
		{"PEORIA_TOP_BY_NET", &cfg.Scoring.TopByNet},
		{"HTTP_RATE_BURST", &cfg.HTTP.RateBurst},
	}
	for _, e := range ints {
		if v := os.Getenv(e.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s value: %v", e.key, err)
			}
			*e.dst = n
		}
	}

	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid HTTP_MAX_UPLOAD_BYTES value: %v", err)
		}
		cfg.HTTP.MaxUploadBytes = n
	}
	if v := os.Getenv("HTTP_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid HTTP_RATE_LIMIT value: %v", err)
		}
		cfg.HTTP.RateLimit = f
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("REPORT_CHARTS"); v != "" {
		cfg.Report.Charts = v == "true"
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Scoring.Workers <= 0 {
		c.Scoring.Workers = DefaultWorkers
	}
	if c.Scoring.GroupSize <= 0 {
		c.Scoring.GroupSize = DefaultGroupSize
	}
	if c.Scoring.TopByPoints <= 0 {
		c.Scoring.TopByPoints = DefaultTopByPoints
	}
	if c.Scoring.TopByNet <= 0 {
		c.Scoring.TopByNet = DefaultTopByNet
	}
	if c.HTTP.Address == "" {
		c.HTTP.Address = DefaultHTTPAddress
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		c.HTTP.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.HTTP.RateLimit <= 0 {
		c.HTTP.RateLimit = DefaultRateLimit
	}
	if c.HTTP.RateBurst <= 0 {
		c.HTTP.RateBurst = DefaultRateBurst
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = DefaultServiceName
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = DefaultLogLevel
	}
	if c.Observability.LogFormat == "" {
		c.Observability.LogFormat = DefaultLogFormat
	}
}

func parseIntList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// NewLogger builds the process logger from the observability settings.
func NewLogger(o ObservabilityConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", o.LogLevel, err)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(o.LogFormat) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format %q", o.LogFormat)
	}

	logger := slog.New(handler).With(slog.String("service", o.ServiceName))
	if o.Environment != "" {
		logger = logger.With(slog.String("env", o.Environment))
	}
	return logger, nil
}
