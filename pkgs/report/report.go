// Package report renders an analysis result as the plain-text verdict:
// one of three headings, the theorem in infix notation, and the optional
// countermodel, branch and LaTeX sections.
package report

import (
	"strings"

	"github.com/anita-prover/anita/pkgs/engine"
	"github.com/anita-prover/anita/pkgs/locale"
	"github.com/anita-prover/anita/pkgs/proof"
)

// Flags selects the optional output sections.
type Flags struct {
	ShowLatex         bool
	ShowTheorem       bool
	ShowCounterModels bool
}

// Render produces the full report for a result.
func Render(res *engine.Result, cat *locale.Catalog, flags Flags) string {
	var b strings.Builder

	if len(res.Errors) > 0 {
		b.WriteString(cat.Message("report.errors_found"))
		b.WriteString("\n\n")
		b.WriteString(strings.Join(res.Errors, "\n"))
		return b.String()
	}

	if flags.ShowTheorem {
		b.WriteString(cat.Format("report.theorem", res.Theorem))
		b.WriteString("\n")
	}
	if res.TheoremMatch != nil && !*res.TheoremMatch {
		b.WriteString(cat.Format("report.theorem_mismatch", res.ExpectedTheorem))
		b.WriteString("\n")
	}

	switch {
	case res.IsClosed:
		b.WriteString(cat.Message("report.valid"))
		b.WriteString("\n")
		b.WriteString(res.Theorem)

	case len(res.Saturated) > 0:
		b.WriteString(cat.Message("report.not_valid"))
		b.WriteString("\n")
		b.WriteString(res.Theorem)
		// The countermodels define this verdict, so they are always
		// listed here; the flag only matters for the other verdicts.
		b.WriteString("\n")
		b.WriteString(cat.Message("report.countermodels"))
		for _, cm := range res.CounterExamples {
			b.WriteString("\n  ")
			b.WriteString(cm)
		}

	default:
		b.WriteString(cat.Message("report.not_complete"))
		b.WriteString("\n")
		b.WriteString(res.Theorem)
		b.WriteString("\n")
		b.WriteString(cat.Message("report.unsaturated"))
		for _, branch := range res.Unsaturated {
			b.WriteString("\n")
			b.WriteString(cat.Message("report.branch"))
			b.WriteString("\n  ")
			b.WriteString(branchListing(branch))
		}
		if flags.ShowCounterModels && len(res.CounterExamples) > 0 {
			b.WriteString("\n")
			b.WriteString(cat.Message("report.countermodels"))
			for _, cm := range res.CounterExamples {
				b.WriteString("\n  ")
				b.WriteString(cm)
			}
		}
	}

	if flags.ShowLatex {
		b.WriteString("\n")
		b.WriteString(cat.Message("report.latex"))
		b.WriteString("\n")
		b.WriteString(res.Latex)
		b.WriteString("\n")
		b.WriteString(cat.Message("report.colored_latex"))
		b.WriteString("\n")
		b.WriteString(res.ColoredLatex)
	}
	return b.String()
}

// branchListing prints a branch's visible rules root to leaf, one per
// line, in proof-script syntax. The analyser hands them leaf to root.
func branchListing(rules []*proof.Rule) string {
	lines := make([]string, len(rules))
	for i := len(rules) - 1; i >= 0; i-- {
		lines[len(rules)-1-i] = rules[i].String()
	}
	return strings.Join(lines, "\n  ")
}
