package config

import (
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration for the web and terminal hosts.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"3000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Predictor
	PredictorProvider string `env:"PREDICTOR_PROVIDER" envDefault:"http"` // "http" (live backend) or "stub" (mock mode, no network)
	PredictURL        string `env:"PREDICT_URL"`                          // overrides host-based selection when set
	DevPredictURL     string `env:"DEV_PREDICT_URL" envDefault:"http://127.0.0.1:8080/predict"`
	ProdPredictURL    string `env:"PROD_PREDICT_URL" envDefault:"https://ai-calorie.onrender.com/predict"`

	// Cold start tolerance
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"20s"`
	RetryDelay     time.Duration `env:"RETRY_DELAY" envDefault:"1500ms"`
	StubDelay      time.Duration `env:"STUB_DELAY" envDefault:"600ms"`

	// Same-origin rewrite
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}

// ResolvePredictURL picks the prediction endpoint for a page served from host.
// Loopback hosts talk to the development backend, everything else to production.
func (c Config) ResolvePredictURL(host string) string {
	if c.PredictURL != "" {
		return c.PredictURL
	}
	if isLoopback(host) {
		return c.DevPredictURL
	}
	return c.ProdPredictURL
}

func isLoopback(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)
	return host == "localhost" || host == "127.0.0.1"
}
