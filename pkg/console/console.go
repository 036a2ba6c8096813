// Package console implements the user-facing output and prompting
// surface of a migration run.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Console writes progress, warnings and errors, and asks for
// interactive confirmation.
//
// A Console is not safe for concurrent use; a migration run is
// single-threaded and owns its console.
type Console struct {
	out      io.Writer
	in       *bufio.Reader
	progress *color.Color
	warn     *color.Color
	errc     *color.Color
}

// Option configures a Console
type Option func(*Console)

// WithOutput redirects console output
func WithOutput(w io.Writer) Option {
	return func(c *Console) {
		c.out = w
	}
}

// WithInput sets the reader answers are read from
func WithInput(r io.Reader) Option {
	return func(c *Console) {
		c.in = bufio.NewReader(r)
	}
}

// NoColor disables terminal colors, e.g. when output is not a TTY
func NoColor() Option {
	return func(c *Console) {
		c.progress.DisableColor()
		c.warn.DisableColor()
		c.errc.DisableColor()
	}
}

// New builds a console writing to stdout and reading from stdin
func New(opts ...Option) *Console {
	c := &Console{
		out:      os.Stdout,
		in:       bufio.NewReader(os.Stdin),
		progress: color.New(color.FgGreen),
		warn:     color.New(color.FgYellow),
		errc:     color.New(color.FgRed),
	}
	for _, apply := range opts {
		apply(c)
	}
	return c
}

// Progress reports a step of the current task
func (c *Console) Progress(msg string) {
	_, _ = c.progress.Fprint(c.out, "Task ")
	_, _ = fmt.Fprintln(c.out, msg)
}

// Info prints an informational message
func (c *Console) Info(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(c.out, format+"\n", args...)
}

// Warn prints a warning
func (c *Console) Warn(format string, args ...interface{}) {
	_, _ = c.warn.Fprint(c.out, "WARNING: ")
	_, _ = fmt.Fprintf(c.out, format+"\n", args...)
}

// Error prints an error message
func (c *Console) Error(format string, args ...interface{}) {
	_, _ = c.errc.Fprint(c.out, "ERROR: ")
	_, _ = fmt.Fprintf(c.out, format+"\n", args...)
}

// Confirm asks a yes/no question and reads one answer line.
//
// Only "y" or "yes", in any case, counts as yes; anything else,
// including an empty answer or end of input, counts as no.
func (c *Console) Confirm(prompt string) (bool, error) {
	_, _ = fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
