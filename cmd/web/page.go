package main

import (
	"calorie-predictor/internal/client"
	"calorie-predictor/internal/form"
)

// page is the server-rendered form. It implements client.View.
type page struct {
	Values        form.Values
	Status        string
	Result        string
	ResultShown   bool
	SubmitEnabled bool
	SubmitLabel   string
}

var _ client.View = (*page)(nil)

func newPage(values form.Values) *page {
	return &page{
		Values:        values,
		SubmitEnabled: true,
		SubmitLabel:   client.SubmitLabel,
	}
}

func (p *page) SetStatus(msg string) { p.Status = msg }

func (p *page) ShowResult(text string) {
	p.Result = text
	p.ResultShown = true
}

func (p *page) HideResult() {
	p.Result = ""
	p.ResultShown = false
}

func (p *page) SetSubmit(enabled bool, label string) {
	p.SubmitEnabled = enabled
	p.SubmitLabel = label
}

func (p *page) ResetForm() { p.Values = form.Values{} }

type field struct {
	ID    string
	Label string
	Min   float64
	Max   float64
	Value string
}

var labels = map[string]string{
	form.FieldAge:      "Age (years)",
	form.FieldHeight:   "Height (cm)",
	form.FieldWeight:   "Weight (kg)",
	form.FieldDuration: "Duration (min)",
	form.FieldHR:       "Heart rate (bpm)",
	form.FieldTemp:     "Body temperature (°C)",
}

// Fields lists the numeric controls in validation order.
func (p *page) Fields() []field {
	out := make([]field, 0, len(form.Ranges))
	for _, r := range form.Ranges {
		out = append(out, field{
			ID:    r.Field,
			Label: labels[r.Field],
			Min:   r.Min,
			Max:   r.Max,
			Value: p.Values[r.Field],
		})
	}
	return out
}

// Gender is the selected gender control value.
func (p *page) Gender() string { return p.Values[form.FieldGender] }

// formValues copies every known control out of a request form.
func formValues(get func(string) string) form.Values {
	ids := []string{
		form.FieldAge, form.FieldHeight, form.FieldWeight, form.FieldDuration,
		form.FieldHR, form.FieldTemp, form.FieldGender,
	}
	values := make(form.Values, len(ids))
	for _, id := range ids {
		values[id] = get(id)
	}
	return values
}
