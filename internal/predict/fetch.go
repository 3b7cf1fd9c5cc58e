package predict

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"calorie-predictor/internal/retry"
)

// DefaultTimeout tolerates a serverless backend waking from idle.
const DefaultTimeout = 20 * time.Second

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FetchWithTimeout sends req through d and cancels it if the response headers do
// not arrive within timeout. The guard timer is stopped on every return path; once
// headers arrive the body is no longer time-limited and its context is released
// when the body is closed.
func FetchWithTimeout(d Doer, req *http.Request, timeout time.Duration) (*http.Response, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithCancel(req.Context())
	var fired atomic.Bool
	timer := time.AfterFunc(timeout, func() {
		fired.Store(true)
		cancel()
	})

	resp, err := d.Do(req.WithContext(ctx))
	timer.Stop()

	if err != nil {
		cancel()
		if fired.Load() {
			return nil, &Error{Kind: retry.Timeout, Err: err}
		}
		return nil, &Error{Kind: retry.Other, Err: err}
	}
	if fired.Load() {
		// Headers raced the timer; the body is already cancelled.
		resp.Body.Close()
		cancel()
		return nil, &Error{Kind: retry.Timeout, Err: context.Canceled}
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
