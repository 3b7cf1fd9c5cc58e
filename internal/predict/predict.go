package predict

import (
	"context"
	"math"
)

// Payload is the request body the prediction backend expects.
type Payload struct {
	Age       float64 `json:"Age"`
	Gender    string  `json:"Gender"`
	Height    float64 `json:"Height"`
	Weight    float64 `json:"Weight"`
	Duration  float64 `json:"Duration"`
	HeartRate float64 `json:"Heart_Rate"`
	BodyTemp  float64 `json:"Body_Temp"`
}

// Result is the only part of the response body that is interpreted.
type Result struct {
	Calories float64 `json:"calories"`
}

// StatusFunc receives transient progress messages meant for the user.
type StatusFunc func(msg string)

// WarmingUpStatus is surfaced before the single cold-start retry.
const WarmingUpStatus = "Warming up the server… retrying…"

// Predictor turns a validated payload into a calorie estimate.
type Predictor interface {
	Predict(ctx context.Context, p Payload, status StatusFunc) (Result, error)
	// Endpoint names where predictions are sent, for status display.
	Endpoint() string
}

// Warmer can nudge a sleeping backend awake ahead of the first prediction.
type Warmer interface {
	Warm(ctx context.Context) error
}

// Estimate is the deterministic synthetic estimate used in mock mode.
func Estimate(p Payload) float64 {
	base := 0.05 * p.Weight * p.Duration
	hrBoost := (p.HeartRate - 100) * 0.8
	return math.Max(20, base+hrBoost)
}
