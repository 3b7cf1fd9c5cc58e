// Package form reads the prediction form controls, validates them against the
// static range table and reshapes valid input into the backend payload.
package form

import (
	"math"
	"strconv"
	"strings"

	"calorie-predictor/internal/predict"
)

// Control identifiers shared by every host rendering the form.
const (
	FieldAge      = "age"
	FieldHeight   = "height"
	FieldWeight   = "weight"
	FieldDuration = "duration"
	FieldHR       = "hr"
	FieldTemp     = "temp"
	FieldGender   = "gender"
)

// Source exposes the current value of a form control by identifier.
type Source interface {
	Value(id string) string
}

// SourceFunc adapts a lookup such as url.Values.Get to Source.
type SourceFunc func(id string) string

func (f SourceFunc) Value(id string) string { return f(id) }

// Values is an in-memory Source.
type Values map[string]string

func (v Values) Value(id string) string { return v[id] }

// Input is a snapshot of the controls at submit time. Numeric controls that
// cannot be parsed hold NaN.
type Input struct {
	Age       float64
	Height    float64
	Weight    float64
	Duration  float64
	HeartRate float64
	BodyTemp  float64
	Gender    string
}

// Read snapshots all controls from src.
func Read(src Source) Input {
	return Input{
		Age:       number(src, FieldAge),
		Height:    number(src, FieldHeight),
		Weight:    number(src, FieldWeight),
		Duration:  number(src, FieldDuration),
		HeartRate: number(src, FieldHR),
		BodyTemp:  number(src, FieldTemp),
		Gender:    strings.TrimSpace(src.Value(FieldGender)),
	}
}

func number(src Source, id string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(src.Value(id)), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Build validates in and only then returns the wire payload.
func Build(in Input) (predict.Payload, error) {
	if err := Validate(in); err != nil {
		return predict.Payload{}, err
	}
	return predict.Payload{
		Age:       in.Age,
		Gender:    in.Gender,
		Height:    in.Height,
		Weight:    in.Weight,
		Duration:  in.Duration,
		HeartRate: in.HeartRate,
		BodyTemp:  in.BodyTemp,
	}, nil
}
