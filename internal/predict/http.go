package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"calorie-predictor/internal/retry"
)

const (
	// DefaultRetryDelay is the pause before the single cold-start retry.
	DefaultRetryDelay = 1500 * time.Millisecond

	maxErrorBody = 64 << 10
)

// HTTPPredictor posts payloads to a remote prediction endpoint.
type HTTPPredictor struct {
	url        string
	doer       Doer
	timeout    time.Duration
	retryDelay time.Duration
	log        *slog.Logger
}

// Option customizes an HTTPPredictor.
type Option func(*HTTPPredictor)

// WithDoer replaces the transport; tests inject fakes here.
func WithDoer(d Doer) Option { return func(p *HTTPPredictor) { p.doer = d } }

// WithTimeout sets the per-attempt timeout guard.
func WithTimeout(d time.Duration) Option { return func(p *HTTPPredictor) { p.timeout = d } }

// WithRetryDelay sets the wait before the retry.
func WithRetryDelay(d time.Duration) Option { return func(p *HTTPPredictor) { p.retryDelay = d } }

// NewHTTPPredictor builds a predictor for predictURL with default timings.
func NewHTTPPredictor(predictURL string, log *slog.Logger, opts ...Option) (*HTTPPredictor, error) {
	if predictURL == "" {
		return nil, fmt.Errorf("predict url required")
	}
	if _, err := url.Parse(predictURL); err != nil {
		return nil, fmt.Errorf("invalid predict url: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	p := &HTTPPredictor{
		url:        predictURL,
		doer:       http.DefaultClient,
		timeout:    DefaultTimeout,
		retryDelay: DefaultRetryDelay,
		log:        log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *HTTPPredictor) Endpoint() string { return p.url }

// Predict sends the payload, retrying once on a timeout or a 502/503/504.
func (p *HTTPPredictor) Predict(ctx context.Context, payload Payload, status StatusFunc) (Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, &Error{Kind: retry.Other, Err: fmt.Errorf("marshal payload: %w", err)}
	}
	attempt := func(ctx context.Context) (Result, error) {
		return p.attempt(ctx, body)
	}
	return retry.Once(ctx, p.retryDelay, attempt, func(err error) {
		p.log.Warn("prediction attempt failed, retrying once", "url", p.url, "kind", retry.KindOf(err).String(), "err", err)
		if status != nil {
			status(WarmingUpStatus)
		}
	})
}

func (p *HTTPPredictor) attempt(ctx context.Context, body []byte) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, &Error{Kind: retry.Other, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := FetchWithTimeout(p.doer, req, p.timeout)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return Result{}, err
	}
	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, &Error{Kind: retry.Other, Err: fmt.Errorf("decode response: %w", err)}
	}
	return out, nil
}

// Warm probes the backend's health endpoint so a cold instance starts booting.
func (p *HTTPPredictor) Warm(ctx context.Context) error {
	healthURL, err := siblingURL(p.url, "health")
	if err != nil {
		return &Error{Kind: retry.Other, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return &Error{Kind: retry.Other, Err: err}
	}
	resp, err := FetchWithTimeout(p.doer, req, p.timeout)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// checkStatus turns a non-2xx response into an *Error. Reading the body is best effort.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	text, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		text = nil
	}
	msg := strings.TrimSpace(string(text))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &Error{Kind: kindForStatus(resp.StatusCode), Status: resp.StatusCode, Body: msg}
}

// siblingURL replaces the last path segment of base with name.
func siblingURL(base, name string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	return u.ResolveReference(&url.URL{Path: name}).String(), nil
}
