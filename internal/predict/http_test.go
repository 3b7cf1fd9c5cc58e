package predict

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calorie-predictor/internal/retry"
)

var samplePayload = Payload{
	Age: 50, Gender: "male", Height: 170, Weight: 70, Duration: 30, HeartRate: 120, BodyTemp: 37,
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedDoer replays one step per attempt and counts attempts.
type scriptedDoer struct {
	steps    []func(*http.Request) (*http.Response, error)
	attempts atomic.Int32
}

func (d *scriptedDoer) Do(req *http.Request) (*http.Response, error) {
	n := int(d.attempts.Add(1)) - 1
	if n >= len(d.steps) {
		return nil, errors.New("unexpected extra attempt")
	}
	return d.steps[n](req)
}

func respond(status int, body string) func(*http.Request) (*http.Response, error) {
	return func(*http.Request) (*http.Response, error) {
		return textResponse(status, body), nil
	}
}

func newTestPredictor(t *testing.T, d Doer) *HTTPPredictor {
	t.Helper()
	p, err := NewHTTPPredictor("http://backend/predict", quietLogger(),
		WithDoer(d), WithTimeout(20*time.Millisecond), WithRetryDelay(time.Millisecond))
	require.NoError(t, err)
	return p
}

func TestHTTPPredictorPredict(t *testing.T) {
	tests := []struct {
		name         string
		steps        []func(*http.Request) (*http.Response, error)
		wantAttempts int32
		wantWarmup   int
		wantCalories float64
		wantErr      bool
		wantKind     retry.Kind
		wantStatus   int
		wantErrText  string
	}{
		{
			name:         "success on first attempt",
			steps:        []func(*http.Request) (*http.Response, error){respond(http.StatusOK, `{"calories": 123.456}`)},
			wantAttempts: 1,
			wantCalories: 123.456,
		},
		{
			name: "timeout then success retries once",
			steps: []func(*http.Request) (*http.Response, error){
				blockUntilCancelled,
				respond(http.StatusOK, `{"calories": 88}`),
			},
			wantAttempts: 2,
			wantWarmup:   1,
			wantCalories: 88,
		},
		{
			name: "503 then success retries once",
			steps: []func(*http.Request) (*http.Response, error){
				respond(http.StatusServiceUnavailable, "waking up"),
				respond(http.StatusOK, `{"calories": 99.5}`),
			},
			wantAttempts: 2,
			wantWarmup:   1,
			wantCalories: 99.5,
		},
		{
			name: "502 twice gives up after second attempt",
			steps: []func(*http.Request) (*http.Response, error){
				respond(http.StatusBadGateway, "bad gateway"),
				respond(http.StatusBadGateway, "still bad"),
			},
			wantAttempts: 2,
			wantWarmup:   1,
			wantErr:      true,
			wantKind:     retry.ServerUnavailable,
			wantStatus:   http.StatusBadGateway,
			wantErrText:  "API 502: still bad",
		},
		{
			name: "504 then 400 surfaces the second failure",
			steps: []func(*http.Request) (*http.Response, error){
				respond(http.StatusGatewayTimeout, ""),
				respond(http.StatusBadRequest, `{"detail":"Age out of range"}`),
			},
			wantAttempts: 2,
			wantWarmup:   1,
			wantErr:      true,
			wantKind:     retry.Other,
			wantStatus:   http.StatusBadRequest,
			wantErrText:  `API 400: {"detail":"Age out of range"}`,
		},
		{
			name:         "400 is not retried",
			steps:        []func(*http.Request) (*http.Response, error){respond(http.StatusBadRequest, "bad input")},
			wantAttempts: 1,
			wantErr:      true,
			wantKind:     retry.Other,
			wantStatus:   http.StatusBadRequest,
			wantErrText:  "API 400: bad input",
		},
		{
			name:         "500 with empty body uses status text and is not retried",
			steps:        []func(*http.Request) (*http.Response, error){respond(http.StatusInternalServerError, "")},
			wantAttempts: 1,
			wantErr:      true,
			wantKind:     retry.Other,
			wantStatus:   http.StatusInternalServerError,
			wantErrText:  "API 500: Internal Server Error",
		},
		{
			name: "network error is not retried",
			steps: []func(*http.Request) (*http.Response, error){
				func(*http.Request) (*http.Response, error) { return nil, errors.New("no such host") },
			},
			wantAttempts: 1,
			wantErr:      true,
			wantKind:     retry.Other,
		},
		{
			name:         "malformed JSON is not retried",
			steps:        []func(*http.Request) (*http.Response, error){respond(http.StatusOK, `{"calories": `)},
			wantAttempts: 1,
			wantErr:      true,
			wantKind:     retry.Other,
		},
		{
			name:         "timeout twice propagates the timeout",
			steps:        []func(*http.Request) (*http.Response, error){blockUntilCancelled, blockUntilCancelled},
			wantAttempts: 2,
			wantWarmup:   1,
			wantErr:      true,
			wantKind:     retry.Timeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &scriptedDoer{steps: tt.steps}
			p := newTestPredictor(t, d)

			var statuses []string
			res, err := p.Predict(context.Background(), samplePayload, func(msg string) {
				statuses = append(statuses, msg)
			})

			assert.Equal(t, tt.wantAttempts, d.attempts.Load())
			assert.Len(t, statuses, tt.wantWarmup)
			for _, s := range statuses {
				assert.Equal(t, WarmingUpStatus, s)
			}

			if !tt.wantErr {
				require.NoError(t, err)
				assert.InDelta(t, tt.wantCalories, res.Calories, 1e-9)
				return
			}

			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.wantKind, perr.Kind)
			assert.Equal(t, tt.wantStatus, perr.Status)
			if tt.wantErrText != "" {
				assert.Equal(t, tt.wantErrText, err.Error())
			}
		})
	}
}

func TestHTTPPredictorSendsWireContract(t *testing.T) {
	var got map[string]any
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			http.Error(w, "unexpected route", http.StatusNotFound)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"calories": 150.25, "model": "xgb"}`))
	}))
	defer srv.Close()

	p, err := NewHTTPPredictor(srv.URL+"/predict", quietLogger(), WithDoer(srv.Client()))
	require.NoError(t, err)

	res, err := p.Predict(context.Background(), samplePayload, nil)
	require.NoError(t, err)

	assert.InDelta(t, 150.25, res.Calories, 1e-9)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, map[string]any{
		"Age": 50.0, "Gender": "male", "Height": 170.0, "Weight": 70.0,
		"Duration": 30.0, "Heart_Rate": 120.0, "Body_Temp": 37.0,
	}, got)
	assert.Equal(t, srv.URL+"/predict", p.Endpoint())
}

func TestHTTPPredictorRetryWaitHonorsContext(t *testing.T) {
	d := &scriptedDoer{steps: []func(*http.Request) (*http.Response, error){
		respond(http.StatusServiceUnavailable, ""),
	}}
	p, err := NewHTTPPredictor("http://backend/predict", quietLogger(), WithDoer(d), WithRetryDelay(time.Hour))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	_, err = p.Predict(ctx, samplePayload, func(string) { cancel() })

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int32(1), d.attempts.Load())
}

func TestNewHTTPPredictorRequiresURL(t *testing.T) {
	_, err := NewHTTPPredictor("", quietLogger())
	assert.Error(t, err)
}

func TestHTTPPredictorWarm(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantKind retry.Kind
		wantErr  bool
	}{
		{"healthy", http.StatusOK, retry.Other, false},
		{"cold backend", http.StatusServiceUnavailable, retry.ServerUnavailable, true},
		{"missing route", http.StatusNotFound, retry.Other, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path, method string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				path, method = r.URL.Path, r.Method
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"ok": true}`))
			}))
			defer srv.Close()

			p, err := NewHTTPPredictor(srv.URL+"/predict", quietLogger(), WithDoer(srv.Client()))
			require.NoError(t, err)

			err = p.Warm(context.Background())
			assert.Equal(t, "/health", path)
			assert.Equal(t, http.MethodGet, method)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, retry.KindOf(err))
		})
	}
}

func TestSiblingURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"https://ai-calorie.onrender.com/predict", "https://ai-calorie.onrender.com/health"},
		{"http://127.0.0.1:8080/predict", "http://127.0.0.1:8080/health"},
		{"http://host/v1/predict", "http://host/v1/health"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			got, err := siblingURL(tt.base, "health")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
