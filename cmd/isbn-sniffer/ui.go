package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// UI prints diagnostics on stderr. stdout only ever carries the result.
type UI struct {
	out     io.Writer
	noColor bool
}

// newUI creates a UI writing to stderr.
func newUI(noColor bool) *UI {
	if noColor {
		color.NoColor = true
	}
	return &UI{out: os.Stderr, noColor: noColor}
}

// Error prints an error message.
func (ui *UI) Error(format string, args ...interface{}) {
	ui.print(color.FgRed, format, args...)
}

// Warning prints a warning message.
func (ui *UI) Warning(format string, args ...interface{}) {
	ui.print(color.FgYellow, format, args...)
}

func (ui *UI) print(attr color.Attribute, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if ui.noColor {
		fmt.Fprintln(ui.out, msg)
		return
	}
	color.New(attr).Fprintln(ui.out, msg)
}
