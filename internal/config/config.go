package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

type Config struct {
	Primary   Primary         `koanf:"primary"`
	Server    ServerConfig    `koanf:"server"`
	PayOS     PayOSConfig     `koanf:"payos"`
	Directory DirectoryConfig `koanf:"directory"`
	Listing   ListingConfig   `koanf:"listing"`
	Logger    LoggerConfig    `koanf:"logger"`
	Tracing   TracingConfig   `koanf:"tracing"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout    time.Duration `koanf:"idle_timeout" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
}

// PayOSConfig holds the processor endpoint and the credentials every call is signed with.
type PayOSConfig struct {
	BaseURL        string        `koanf:"base_url" validate:"required,url"`
	ClientID       string        `koanf:"client_id" validate:"required"`
	APIKey         string        `koanf:"api_key" validate:"required"`
	ChecksumKey    string        `koanf:"checksum_key" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
	PayoutTimeout  time.Duration `koanf:"payout_timeout" validate:"required"`
}

type DirectoryConfig struct {
	FallbackPath string        `koanf:"fallback_path" validate:"required"`
	CacheTTL     time.Duration `koanf:"cache_ttl" validate:"required"`
	ProbeTimeout time.Duration `koanf:"probe_timeout" validate:"required"`
	// WarmInterval of zero disables the background warm-up.
	WarmInterval time.Duration `koanf:"warm_interval"`
}

type ListingConfig struct {
	URL      string        `koanf:"url" validate:"required,url"`
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"required"`
	Timeout  time.Duration `koanf:"timeout" validate:"required"`
}

// TracingConfig selects where finished spans go. "none" still installs a recording
// provider so trace context is propagated, it just exports nothing.
type TracingConfig struct {
	Exporter    string  `koanf:"exporter" validate:"required,oneof=none stdout"`
	ServiceName string  `koanf:"service_name" validate:"required"`
	SampleRatio float64 `koanf:"sample_ratio" validate:"min=0,max=1"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"primary.env":             "development",
		"server.port":             "3000",
		"server.read_timeout":     "15s",
		"server.write_timeout":    "90s",
		"server.idle_timeout":     "60s",
		"server.request_timeout":  "75s",
		"payos.base_url":          "https://api-merchant.payos.vn",
		"payos.request_timeout":   "10s",
		"payos.payout_timeout":    "15s",
		"directory.fallback_path": "data/bankcodes.json",
		"directory.cache_ttl":     "5m",
		"directory.probe_timeout": "10s",
		"directory.warm_interval": "0s",
		"listing.url":             "https://api.vietqr.io/v2/banks",
		"listing.cache_ttl":       "6h",
		"listing.timeout":         "10s",
		"logger.level":            "info",
		"logger.format":           "json",
		"tracing.exporter":        "none",
		"tracing.service_name":    "payout-gateway",
		"tracing.sample_ratio":    1.0,
	}
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		logger.Error("failed to load default configuration", "error", err)
		return nil, err
	}

	err := k.Load(env.Provider("GATEWAY_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "GATEWAY_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}
