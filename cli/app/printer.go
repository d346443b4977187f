package app

import (
	"fmt"
	"io"
	"os"

	"github.com/bit101/go-ansi"
	"golang.org/x/term"
)

// Printer writes command output, coloured when it goes to a terminal.
type Printer struct {
	w     io.Writer
	color bool
}

func NewPrinter(w io.Writer) *Printer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &Printer{w: w, color: color}
}

func (p *Printer) Writer() io.Writer { return p.w }

func (p *Printer) Plain(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) Heading(format string, args ...any) {
	if p.color {
		ansi.Fprintf(p.w, ansi.Yellow, format, args...)
		return
	}
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) Author(format string, args ...any) {
	if p.color {
		ansi.Fprintf(p.w, ansi.Red, format, args...)
		return
	}
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) Meta(format string, args ...any) {
	if p.color {
		ansi.Fprintf(p.w, ansi.Cyan, format, args...)
		return
	}
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) Tag(format string, args ...any) {
	if p.color {
		ansi.Fprintf(p.w, ansi.Purple, format, args...)
		return
	}
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) Rule(line string) {
	if p.color {
		ansi.Fprintln(p.w, ansi.Blue, line)
		return
	}
	fmt.Fprintln(p.w, line)
}

// Success and Error make Printer an api.Notifier.
func (p *Printer) Success(message string) {
	if p.color {
		ansi.Fprintf(p.w, ansi.Green, "%s\n", message)
		return
	}
	fmt.Fprintln(p.w, message)
}

func (p *Printer) Error(message string) {
	if p.color {
		ansi.Fprintf(p.w, ansi.Red, "%s\n", message)
		return
	}
	fmt.Fprintln(p.w, message)
}
