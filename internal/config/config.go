// Package config loads finsight's settings from flags, the environment and
// defaults, in that order of precedence.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tinoosan/finsight/internal/errs"
)

// Snapshot sources.
const (
	SourceMemory   = "memory"
	SourceUpstream = "upstream"
	SourcePostgres = "postgres"
)

type Config struct {
	// HTTP server
	Addr string

	LogLevel  string
	LogFormat string

	// Source selects where snapshots are read from.
	Source          string
	UpstreamURL     string
	UpstreamToken   string
	UpstreamTimeout time.Duration
	DatabaseURL     string

	CacheSize          int
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration

	// AMQP change notifications; disabled when AMQPURL is empty.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	DevSeed bool
}

// keys maps viper keys to their flag names. The environment variable for a
// key is the key upper-cased.
var keys = map[string]string{
	"addr":                 "addr",
	"log_level":            "log-level",
	"log_format":           "log-format",
	"source":               "source",
	"upstream_url":         "upstream-url",
	"upstream_token":       "upstream-token",
	"upstream_timeout":     "upstream-timeout",
	"database_url":         "database-url",
	"cache_size":           "cache-size",
	"cache_ttl":            "cache-ttl",
	"cache_sweep_interval": "cache-sweep-interval",
	"amqp_url":             "amqp-url",
	"amqp_exchange":        "amqp-exchange",
	"amqp_queue":           "amqp-queue",
	"dev_seed":             "dev-seed",
}

// RegisterFlags adds every setting as a flag on fs. Flags only override the
// environment when set explicitly.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("addr", ":8080", "HTTP listen address")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-format", "json", "log format (json, text)")
	fs.String("source", SourceMemory, "snapshot source (memory, upstream, postgres)")
	fs.String("upstream-url", "", "base URL of the finance API")
	fs.String("upstream-token", "", "bearer token sent to the finance API")
	fs.Duration("upstream-timeout", 10*time.Second, "finance API request timeout")
	fs.String("database-url", "", "Postgres DSN of the finance database")
	fs.Int("cache-size", 1024, "maximum number of cached user snapshots")
	fs.Duration("cache-ttl", 5*time.Minute, "snapshot cache TTL")
	fs.Duration("cache-sweep-interval", time.Minute, "how often expired snapshots are swept")
	fs.String("amqp-url", "", "AMQP URL for change notifications (empty disables)")
	fs.String("amqp-exchange", "finance", "AMQP exchange for change notifications")
	fs.String("amqp-queue", "finsight.invalidate", "AMQP queue for change notifications")
	fs.Bool("dev-seed", true, "seed demo data into the memory source")
}

// Load resolves the configuration. fs may be nil, in which case only the
// environment and defaults are consulted.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	defaults := pflag.NewFlagSet("defaults", pflag.ContinueOnError)
	RegisterFlags(defaults)
	for key, flag := range keys {
		v.SetDefault(key, defaults.Lookup(flag).DefValue)
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
		if fs == nil {
			continue
		}
		if f := fs.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}

	cfg := Config{
		Addr:               v.GetString("addr"),
		LogLevel:           strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		LogFormat:          strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
		Source:             strings.ToLower(strings.TrimSpace(v.GetString("source"))),
		UpstreamURL:        strings.TrimSpace(v.GetString("upstream_url")),
		UpstreamToken:      v.GetString("upstream_token"),
		UpstreamTimeout:    v.GetDuration("upstream_timeout"),
		DatabaseURL:        strings.TrimSpace(v.GetString("database_url")),
		CacheSize:          v.GetInt("cache_size"),
		CacheTTL:           v.GetDuration("cache_ttl"),
		CacheSweepInterval: v.GetDuration("cache_sweep_interval"),
		AMQPURL:            strings.TrimSpace(v.GetString("amqp_url")),
		AMQPExchange:       v.GetString("amqp_exchange"),
		AMQPQueue:          v.GetString("amqp_queue"),
		DevSeed:            v.GetBool("dev_seed"),
	}
	return cfg, cfg.Validate()
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var problems []string

	switch c.Source {
	case SourceMemory:
	case SourceUpstream:
		if u, err := url.Parse(c.UpstreamURL); c.UpstreamURL == "" || err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("UPSTREAM_URL %q must be an absolute URL when SOURCE=upstream", c.UpstreamURL))
		}
		if c.UpstreamTimeout <= 0 {
			problems = append(problems, "UPSTREAM_TIMEOUT must be positive")
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required when SOURCE=postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("SOURCE %q must be one of memory, upstream, postgres", c.Source))
	}

	if _, ok := parseLevel(c.LogLevel); !ok {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q must be one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		problems = append(problems, fmt.Sprintf("LOG_FORMAT %q must be json or text", c.LogFormat))
	}
	if c.CacheSize < 1 {
		problems = append(problems, "CACHE_SIZE must be at least 1")
	}
	if c.CacheTTL <= 0 {
		problems = append(problems, "CACHE_TTL must be positive")
	}
	if c.CacheSweepInterval <= 0 {
		problems = append(problems, "CACHE_SWEEP_INTERVAL must be positive")
	}
	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		problems = append(problems, "AMQP_EXCHANGE and AMQP_QUEUE are required when AMQP_URL is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: config: %s", errs.ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// NewLogger builds the process logger. Unknown levels fall back to info.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error", "err":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
