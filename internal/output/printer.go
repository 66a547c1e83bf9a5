// Package output renders command results on the terminal and as .docx
// reports.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// ColorMode represents color output mode
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode parses a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto", "":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always, or never", s)
	}
}

// ResolveColors decides whether to color output. In auto mode NO_COLOR and
// TERM=dumb turn colors off, otherwise isTerminal decides.
func ResolveColors(mode ColorMode, isTerminal bool) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		return isTerminal
	}
}

// Printer writes results to out and status messages to err.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

func NewPrinter(out, err io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: err, useColors: useColors}
}

func (p *Printer) paint(w io.Writer, attrs []color.Attribute, format string, args ...any) {
	c := color.New(attrs...)
	if p.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	c.Fprintf(w, format+"\n", args...)
}

// Info prints a progress message on the error stream.
func (p *Printer) Info(format string, args ...any) {
	p.paint(p.err, []color.Attribute{color.FgCyan}, format, args...)
}

func (p *Printer) Success(format string, args ...any) {
	p.paint(p.out, []color.Attribute{color.FgGreen}, format, args...)
}

func (p *Printer) Warning(format string, args ...any) {
	p.paint(p.out, []color.Attribute{color.FgYellow}, format, args...)
}

// Error prints on the error stream.
func (p *Printer) Error(format string, args ...any) {
	p.paint(p.err, []color.Attribute{color.FgRed}, format, args...)
}

// Print prints a plain line.
func (p *Printer) Print(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Header prints a "=== title ===" section header preceded by a blank line.
func (p *Printer) Header(title string) {
	fmt.Fprintln(p.out)
	p.paint(p.out, []color.Attribute{color.Bold}, "=== %s ===", title)
}

// Table starts a grid table on the printer's output.
func (p *Printer) Table(headers ...string) *Table {
	return NewTableWithWriter(p.out, headers)
}
