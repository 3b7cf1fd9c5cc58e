package main

import (
	"fmt"
	"io"
)

// terminalView prints status lines to one writer and the result to another so
// the estimate can be piped. The submit control has no terminal counterpart.
type terminalView struct {
	out    io.Writer
	status io.Writer
}

func (v *terminalView) SetStatus(msg string) {
	if msg != "" {
		fmt.Fprintln(v.status, msg)
	}
}

func (v *terminalView) ShowResult(text string) { fmt.Fprintln(v.out, text) }
func (v *terminalView) HideResult()            {}
func (v *terminalView) SetSubmit(bool, string) {}
func (v *terminalView) ResetForm()             {}
