package engine

import (
	"sort"
	"strings"

	"github.com/anita-prover/anita/pkgs/errors"
	"github.com/anita-prover/anita/pkgs/formula"
	"github.com/anita-prover/anita/pkgs/proof"
)

// Result is the complete outcome of analysing a proof script. When
// Errors is non-empty only the error fields are populated; the verdict
// fields are filled only for well-formed proofs.
type Result struct {
	// Errors holds the formatted, locale-rendered messages in report
	// order; ErrorDetails carries the structured values behind them.
	Errors       []string
	ErrorDetails []*errors.ProofError

	// IsClosed is true when every branch closes: the proof is valid.
	IsClosed bool

	Premises     []*formula.Formula
	Conclusion   *formula.Formula
	Theorem      string
	LatexTheorem string

	Latex        string
	ColoredLatex string

	// CounterExamples holds one "v(A)=T, v(B)=F" assignment per
	// saturated open branch.
	CounterExamples []string
	Saturated       [][]*proof.Rule
	Unsaturated     [][]*proof.Rule

	// TheoremMatch is set only when an expected theorem was supplied.
	TheoremMatch    *bool
	ExpectedTheorem string
}

// TheoremString renders a sequent in proof-script syntax.
func TheoremString(premises []*formula.Formula, conclusion *formula.Formula, parenthesised bool) string {
	if conclusion == nil {
		return ""
	}
	if len(premises) == 0 {
		return "|- " + conclusion.Text(parenthesised)
	}
	parts := make([]string, len(premises))
	for i, p := range premises {
		parts[i] = p.Text(parenthesised)
	}
	return strings.Join(parts, ", ") + " |- " + conclusion.Text(parenthesised)
}

// TheoremLatex renders a sequent as LaTeX with \vdash.
func TheoremLatex(premises []*formula.Formula, conclusion *formula.Formula, parenthesised bool) string {
	if conclusion == nil {
		return ""
	}
	if len(premises) == 0 {
		return "\\vdash " + conclusion.Latex(parenthesised)
	}
	parts := make([]string, len(premises))
	for i, p := range premises {
		parts[i] = p.Latex(parenthesised)
	}
	return strings.Join(parts, ", ") + " \\vdash " + conclusion.Latex(parenthesised)
}

// formatCounterExample renders an atom assignment sorted by atom name.
func formatCounterExample(v map[string]proof.Sign) string {
	atoms := make([]string, 0, len(v))
	for a := range v {
		atoms = append(atoms, a)
	}
	sort.Strings(atoms)
	parts := make([]string, len(atoms))
	for i, a := range atoms {
		parts[i] = "v(" + a + ")=" + v[a].String()
	}
	return strings.Join(parts, ", ")
}
