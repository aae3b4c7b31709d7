package ui

import (
	"fmt"
	"io"
)

// ConsoleDialog implements domain.Dialog on a writer, usually stderr.
type ConsoleDialog struct {
	out io.Writer
}

// NewConsoleDialog creates a dialog printing to out.
func NewConsoleDialog(out io.Writer) *ConsoleDialog {
	return &ConsoleDialog{out: out}
}

// Fatal prints the message and its cause.
func (d *ConsoleDialog) Fatal(message string, cause error) {
	fmt.Fprintf(d.out, "\n*** %s ***\n", message)
	if cause != nil {
		fmt.Fprintf(d.out, "%v\n", cause)
	}
	fmt.Fprintf(d.out, "See the log file for details.\n")
}
