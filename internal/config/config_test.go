package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/finsight/internal/errs"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for key := range keys {
		t.Setenv(strings.ToUpper(key), "")
	}
}

func TestLoadDefaults(t *testing.T) {
	// empty variables count as unset
	clearEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, SourceMemory, cfg.Source)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 1024, cfg.CacheSize)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, time.Minute, cfg.CacheSweepInterval)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "finance", cfg.AMQPExchange)
	assert.True(t, cfg.DevSeed)
	assert.Empty(t, cfg.AMQPURL)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOURCE", "upstream")
	t.Setenv("UPSTREAM_URL", "https://finance.example.com/api")
	t.Setenv("UPSTREAM_TOKEN", "s3cret")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("CACHE_SIZE", "50")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("CACHE_SWEEP_INTERVAL", "10s")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("ADDR", ":9000")
	t.Setenv("AMQP_URL", "")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, SourceUpstream, cfg.Source)
	assert.Equal(t, "https://finance.example.com/api", cfg.UpstreamURL)
	assert.Equal(t, "s3cret", cfg.UpstreamToken)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 50, cfg.CacheSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9000", cfg.Addr)
}

func TestFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOURCE", "memory")
	t.Setenv("ADDR", ":9000")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--addr=:7000"}))

	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, SourceMemory, cfg.Source)
}

func TestValidateGathersProblems(t *testing.T) {
	cfg := Config{
		Source:             SourcePostgres,
		LogLevel:           "loud",
		LogFormat:          "xml",
		CacheSize:          0,
		CacheTTL:           time.Minute,
		CacheSweepInterval: time.Minute,
		AMQPURL:            "amqp://localhost",
	}
	err := cfg.Validate()
	require.ErrorIs(t, err, errs.ErrInvalid)
	for _, want := range []string{"DATABASE_URL", "LOG_LEVEL", "LOG_FORMAT", "CACHE_SIZE", "AMQP_EXCHANGE"} {
		assert.Contains(t, err.Error(), want)
	}

	bad := Config{Source: SourceUpstream, UpstreamURL: "finance:8080", UpstreamTimeout: time.Second,
		LogFormat: "json", CacheSize: 1, CacheTTL: time.Second, CacheSweepInterval: time.Second}
	assert.ErrorContains(t, bad.Validate(), "UPSTREAM_URL")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := Config{LogLevel: "warn", LogFormat: "json"}.NewLogger(&buf)
	l.Info("hidden")
	l.Warn("shown", "k", "v")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)

	buf.Reset()
	Config{LogFormat: "text"}.NewLogger(&buf).Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}
