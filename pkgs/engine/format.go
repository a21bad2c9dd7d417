package engine

import (
	"strings"

	"github.com/anita-prover/anita/pkgs/errors"
	"github.com/anita-prover/anita/pkgs/locale"
)

// errorFormatter renders a structured error as the classic excerpt form:
// a header, the offending source line, and a caret pointing at the
// column followed by the localised message.
type errorFormatter struct {
	script string
	cat    *locale.Catalog

	lines []string
}

func (f *errorFormatter) sourceLine(n int) string {
	if f.lines == nil {
		f.lines = strings.Split(f.script, "\n")
	}
	if n < 1 || n > len(f.lines) {
		return ""
	}
	return f.lines[n-1]
}

func (f *errorFormatter) format(e *errors.ProofError) string {
	switch e.Code {
	case errors.SyntaxError:
		return f.formatSyntax(e)
	case errors.NonSequentialLineNumbering:
		return f.sourceLine(e.Line) + "\n^, " + f.cat.Format(e.Code, e.Args...)
	default:
		var b strings.Builder
		b.WriteString(f.cat.Format("error.header", e.Line))
		b.WriteString("\n")
		b.WriteString(f.sourceLine(e.Line))
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", max(e.Column-1, 0)))
		b.WriteString("^, ")
		b.WriteString(f.cat.Format(e.Code, e.Args...))
		return b.String()
	}
}

func (f *errorFormatter) formatSyntax(e *errors.ProofError) string {
	anchor := ""
	if len(e.Args) == 1 {
		anchor, _ = e.Args[0].(string)
	}
	switch anchor {
	case "empty":
		return f.cat.Message("error.no_proof")
	case "eof":
		// Input ended mid-definition; there is no token to point at.
		return f.cat.Message("error.syntax_help")
	}

	var b strings.Builder
	b.WriteString(f.cat.Message("error.syntax_help"))
	b.WriteString("\n")
	b.WriteString(f.cat.Message("error.syntax"))
	b.WriteString("\n")
	b.WriteString(f.sourceLine(e.Line))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", max(e.Column-1, 0)))
	b.WriteString("^")
	if anchor == "out" {
		b.WriteString(" ")
		b.WriteString(f.cat.Message("error.out_symbol"))
	}
	return b.String()
}
