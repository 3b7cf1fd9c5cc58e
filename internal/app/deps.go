package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"

	"calorie-predictor/internal/config"
	"calorie-predictor/internal/logger"
	"calorie-predictor/internal/predict"
)

// Deps bundles common runtime dependencies for the hosts.
type Deps struct {
	Config config.Config
	Log    *slog.Logger
}

// Build loads an optional .env file, config and the logger.
func Build() (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	return Deps{
		Config: cfg,
		Log:    logger.New(cfg.LogLevel),
	}, nil
}

// NewPredictor selects the predictor for a page served from host.
func NewPredictor(cfg config.Config, log *slog.Logger, host string) (predict.Predictor, error) {
	switch cfg.PredictorProvider {
	case "http":
		url := cfg.ResolvePredictURL(host)
		p, err := predict.NewHTTPPredictor(url, log,
			predict.WithTimeout(cfg.RequestTimeout),
			predict.WithRetryDelay(cfg.RetryDelay),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize HTTP predictor: %w", err)
		}
		log.Debug("using HTTP predictor", "url", url)
		return p, nil
	case "stub":
		log.Debug("using stub predictor", "delay", cfg.StubDelay)
		return predict.NewStubPredictor(cfg.StubDelay), nil
	default:
		return nil, fmt.Errorf("invalid PREDICTOR_PROVIDER: %s (valid options: http, stub)", cfg.PredictorProvider)
	}
}
