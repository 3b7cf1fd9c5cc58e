package predict

import (
	"context"
	"time"
)

// DefaultStubDelay imitates network latency in mock mode.
const DefaultStubDelay = 600 * time.Millisecond

// StubPredictor answers without any network I/O, for exercising the interface
// when no backend is running.
type StubPredictor struct {
	Delay time.Duration
}

func NewStubPredictor(delay time.Duration) *StubPredictor {
	return &StubPredictor{Delay: delay}
}

func (s *StubPredictor) Endpoint() string { return "mock" }

func (s *StubPredictor) Predict(ctx context.Context, p Payload, _ StatusFunc) (Result, error) {
	if s.Delay > 0 {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(s.Delay):
		}
	}
	return Result{Calories: Estimate(p)}, nil
}
