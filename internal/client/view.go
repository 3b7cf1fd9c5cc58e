package client

// View is the set of UI handles a PredictionClient drives. Hosts implement it
// over whatever surface they render: an HTML page, a terminal, a test double.
type View interface {
	SetStatus(msg string)
	ShowResult(text string)
	HideResult()
	SetSubmit(enabled bool, label string)
	// ResetForm restores every control to its default value.
	ResetForm()
}
