// Predict estimates calories burnt during a workout from the terminal.
//
// Usage:
//
//	predict estimate --age 50 --height 170 --weight 70 --duration 30 --hr 120 --temp 37 --gender male
//	predict --mock estimate ...
//	predict warm
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"calorie-predictor/internal/app"
	"calorie-predictor/internal/client"
	"calorie-predictor/internal/form"
	"calorie-predictor/internal/logger"
	"calorie-predictor/internal/predict"
)

// Exit codes for scripting
const (
	exitFailed  = 1
	exitInvalid = 2
)

var fieldUsage = []struct {
	id    string
	usage string
}{
	{form.FieldAge, "age in years (10-100)"},
	{form.FieldHeight, "height in cm (120-220)"},
	{form.FieldWeight, "weight in kg (30-200)"},
	{form.FieldDuration, "workout duration in minutes (1-240)"},
	{form.FieldHR, "average heart rate in bpm (40-220)"},
	{form.FieldTemp, "body temperature in °C (30-45)"},
	{form.FieldGender, "male or female"},
}

func main() {
	err := newApp(os.Stdout, os.Stderr).Run(os.Args)
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(exitErr.ExitCode())
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailed)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	estimateFlags := make([]cli.Flag, 0, len(fieldUsage))
	for _, f := range fieldUsage {
		estimateFlags = append(estimateFlags, &cli.StringFlag{Name: f.id, Usage: f.usage})
	}

	return &cli.App{
		Name:           "predict",
		Usage:          "Estimate calories burnt during a workout",
		Writer:         stdout,
		ErrWriter:      stderr,
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "Prediction endpoint; overrides host-based selection",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host the form is served from; loopback selects the development backend",
			},
			&cli.BoolFlag{
				Name:  "mock",
				Usage: "Answer with a synthetic estimate instead of calling the backend",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "estimate",
				Usage:  "Validate the workout and request an estimate",
				Flags:  estimateFlags,
				Action: estimateAction,
			},
			{
				Name:   "warm",
				Usage:  "Probe the backend health endpoint so a cold instance starts booting",
				Action: warmAction,
			},
		},
	}
}

func buildDeps(c *cli.Context) (app.Deps, error) {
	deps, err := app.Build()
	if err != nil {
		return app.Deps{}, err
	}
	if lvl := c.String("log-level"); lvl != "" {
		deps.Config.LogLevel = lvl
	}
	if u := c.String("url"); u != "" {
		deps.Config.PredictURL = u
	}
	if c.Bool("mock") {
		deps.Config.PredictorProvider = "stub"
	}
	deps.Log = logger.NewWithWriter(c.App.ErrWriter, deps.Config.LogLevel)
	return deps, nil
}

func estimateAction(c *cli.Context) error {
	deps, err := buildDeps(c)
	if err != nil {
		return err
	}
	predictor, err := app.NewPredictor(deps.Config, deps.Log, c.String("host"))
	if err != nil {
		return err
	}

	values := make(form.Values, len(fieldUsage))
	for _, f := range fieldUsage {
		values[f.id] = c.String(f.id)
	}
	view := &terminalView{out: c.App.Writer, status: c.App.ErrWriter}

	switch client.New(predictor, values, view, deps.Log).Submit(c.Context) {
	case client.OutcomeDisplayed:
		return nil
	case client.OutcomeInvalid:
		return cli.Exit("", exitInvalid)
	default:
		return cli.Exit("", exitFailed)
	}
}

func warmAction(c *cli.Context) error {
	deps, err := buildDeps(c)
	if err != nil {
		return err
	}
	predictor, err := app.NewPredictor(deps.Config, deps.Log, c.String("host"))
	if err != nil {
		return err
	}
	warmer, ok := predictor.(predict.Warmer)
	if !ok {
		fmt.Fprintln(c.App.Writer, "mock mode: nothing to warm")
		return nil
	}
	if err := warmer.Warm(c.Context); err != nil {
		deps.Log.Error("warm-up failed", "endpoint", predictor.Endpoint(), "err", err)
		return cli.Exit("backend not ready", exitFailed)
	}
	fmt.Fprintf(c.App.Writer, "backend ready: %s\n", predictor.Endpoint())
	return nil
}
