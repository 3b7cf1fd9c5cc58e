package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"calorie-predictor/internal/form"
	"calorie-predictor/internal/predict"
	"calorie-predictor/internal/retry"
)

// Outcome is where a submission ended up.
type Outcome int

const (
	OutcomeInvalid   Outcome = iota // validation failed, nothing sent
	OutcomeDisplayed                // estimate shown
	OutcomeFailed                   // generic failure message shown
	OutcomeBusy                     // another submission was still in flight
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeDisplayed:
		return "displayed"
	case OutcomeFailed:
		return "failed"
	case OutcomeBusy:
		return "busy"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

const (
	StatusDone   = "Done."
	StatusFailed = "Something went wrong. Please try again."
)

// PredictionClient runs one form submission at a time against a Predictor.
type PredictionClient struct {
	predictor predict.Predictor
	src       form.Source
	view      View
	log       *slog.Logger
	inFlight  atomic.Bool
}

// New binds a client to its form controls and view.
func New(p predict.Predictor, src form.Source, view View, log *slog.Logger) *PredictionClient {
	if log == nil {
		log = slog.Default()
	}
	return &PredictionClient{predictor: p, src: src, view: view, log: log}
}

// Submit validates the form, requests an estimate and renders the outcome.
// Errors are logged, the user only sees a generic message.
func (c *PredictionClient) Submit(ctx context.Context) Outcome {
	if !c.inFlight.CompareAndSwap(false, true) {
		return OutcomeBusy
	}
	defer c.inFlight.Store(false)

	c.view.HideResult()
	c.view.SetStatus("")

	payload, err := form.Build(form.Read(c.src))
	if err != nil {
		c.view.SetStatus(err.Error())
		return OutcomeInvalid
	}

	log := c.log.With("submission_id", uuid.NewString())
	setBusy(c.view, true)
	defer setBusy(c.view, false)

	c.view.SetStatus(fmt.Sprintf("Sending to %s …", c.predictor.Endpoint()))
	res, err := c.predictor.Predict(ctx, payload, c.view.SetStatus)
	if err != nil {
		log.Error("prediction failed", "err", err, "kind", retry.KindOf(err).String())
		c.view.SetStatus(StatusFailed)
		return OutcomeFailed
	}

	log.Info("prediction displayed", "calories", res.Calories)
	c.view.ShowResult("Estimated calories: " + FormatCalories(res.Calories))
	c.view.SetStatus(StatusDone)
	return OutcomeDisplayed
}

// Reset clears the result and status and restores form defaults.
func (c *PredictionClient) Reset() {
	c.view.ResetForm()
	c.view.HideResult()
	c.view.SetStatus("")
}
