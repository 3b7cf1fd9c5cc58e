package form

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Range is an inclusive bound for one numeric control.
type Range struct {
	Field string
	Min   float64
	Max   float64
}

// Ranges is checked in order; the first failing field decides the message.
var Ranges = []Range{
	{FieldAge, 10, 100},
	{FieldHeight, 120, 220},
	{FieldWeight, 30, 200},
	{FieldDuration, 1, 240},
	{FieldHR, 40, 220},
	{FieldTemp, 30, 45},
}

const genderMessage = "Please select a gender."

// ValidationError names the first control that failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (r Range) tag() string {
	return fmt.Sprintf("min=%g,max=%g", r.Min, r.Max)
}

func (r Range) message() string {
	return fmt.Sprintf("Please enter a valid %s between %g and %g.", r.Field, r.Min, r.Max)
}

// Validate returns a *ValidationError for the first failing check, or nil.
// NaN fails every bound.
func Validate(in Input) error {
	values := in.numbers()
	for _, r := range Ranges {
		if err := validate.Var(values[r.Field], r.tag()); err != nil {
			return &ValidationError{Field: r.Field, Message: r.message()}
		}
	}
	if err := validate.Var(in.Gender, "required"); err != nil {
		return &ValidationError{Field: FieldGender, Message: genderMessage}
	}
	return nil
}

func (in Input) numbers() map[string]float64 {
	return map[string]float64{
		FieldAge:      in.Age,
		FieldHeight:   in.Height,
		FieldWeight:   in.Weight,
		FieldDuration: in.Duration,
		FieldHR:       in.HeartRate,
		FieldTemp:     in.BodyTemp,
	}
}
