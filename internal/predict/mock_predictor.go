package predict

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPredictor is a mock implementation of Predictor using testify/mock.
type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(ctx context.Context, p Payload, status StatusFunc) (Result, error) {
	args := m.Called(ctx, p, status)
	return args.Get(0).(Result), args.Error(1)
}

func (m *MockPredictor) Endpoint() string {
	args := m.Called()
	return args.String(0)
}
