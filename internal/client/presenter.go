package client

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	SubmitLabel = "Predict"
	BusyLabel   = "Predicting..."
)

// FormatCalories renders x with one decimal place and the kcal unit.
// Halves round away from zero.
func FormatCalories(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', 1, 64) + " kcal"
	}
	return decimal.NewFromFloat(x).StringFixed(1) + " kcal"
}

func setBusy(v View, busy bool) {
	if busy {
		v.SetSubmit(false, BusyLabel)
		return
	}
	v.SetSubmit(true, SubmitLabel)
}
