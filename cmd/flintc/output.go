package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/tos-network/flint/flint/config"
	"github.com/tos-network/flint/flint/diag"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

type diagPrinter struct {
	w     io.Writer
	color bool
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newDiagPrinter(f *os.File, cfg *config.Config) *diagPrinter {
	return &diagPrinter{w: f, color: cfg.UseColor(isTerminal(f))}
}

func (p *diagPrinter) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + ansiReset
}

func (p *diagPrinter) severity(s diag.Severity) string {
	switch s {
	case diag.SeverityError:
		return p.paint(ansiBold+ansiRed, s.String())
	case diag.SeverityWarning:
		return p.paint(ansiBold+ansiYellow, s.String())
	default:
		return p.paint(ansiCyan, s.String())
	}
}

func (p *diagPrinter) print(d diag.Diagnostic, indent string) {
	code := ""
	if d.Code != "" {
		code = "[" + d.Code + "] "
	}
	if d.Span.IsZero() {
		fmt.Fprintf(p.w, "%s%s: %s%s\n", indent, p.severity(d.Severity), code, d.Message)
	} else {
		fmt.Fprintf(p.w, "%s%s: %s: %s%s\n", indent, d.Span, p.severity(d.Severity), code, d.Message)
	}
	for _, n := range d.Notes {
		p.print(n, indent+"  ")
	}
}

// printAll writes every diagnostic and a summary line. It returns the
// number of errors.
func (p *diagPrinter) printAll(ds diag.Diagnostics) int {
	errs, warnings := 0, 0
	for _, d := range ds {
		p.print(d, "")
		switch d.Severity {
		case diag.SeverityError:
			errs++
		case diag.SeverityWarning:
			warnings++
		}
	}
	if errs+warnings > 0 {
		fmt.Fprintf(p.w, "%d error(s), %d warning(s)\n", errs, warnings)
	}
	return errs
}
