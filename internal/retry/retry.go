package retry

import (
	"context"
	"errors"
	"time"
)

// Kind classifies a failure for retry purposes.
type Kind int

const (
	Other Kind = iota
	Timeout
	ServerUnavailable
)

func (k Kind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case ServerUnavailable:
		return "server_unavailable"
	default:
		return "other"
	}
}

// Retryable reports whether a failure of this kind earns the single retry.
func (k Kind) Retryable() bool {
	return k == Timeout || k == ServerUnavailable
}

// Classified is implemented by errors that know their own Kind.
type Classified interface {
	RetryKind() Kind
}

// KindOf returns the Kind carried by err, or Other when nothing in the chain is classified.
func KindOf(err error) Kind {
	var c Classified
	if errors.As(err, &c) {
		return c.RetryKind()
	}
	return Other
}

// Once runs fn and, if it fails with a retryable error, calls onRetry, waits delay
// and runs fn exactly one more time. The second result is returned as is.
func Once[T any](ctx context.Context, delay time.Duration, fn func(context.Context) (T, error), onRetry func(error)) (T, error) {
	v, err := fn(ctx)
	if err == nil || !KindOf(err).Retryable() {
		return v, err
	}
	if onRetry != nil {
		onRetry(err)
	}
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-time.After(delay):
	}
	return fn(ctx)
}
