// Package engine orchestrates the analysis pipeline: lexing and parsing
// the script, building the tableau, validating every rule, analysing the
// branches and assembling the final result. The engine itself is
// stateless; everything the caller needs travels in Options and Result.
package engine

import (
	"go.uber.org/zap"

	"github.com/anita-prover/anita/pkgs/errors"
	"github.com/anita-prover/anita/pkgs/formula"
	"github.com/anita-prover/anita/pkgs/latex"
	"github.com/anita-prover/anita/pkgs/locale"
	"github.com/anita-prover/anita/pkgs/parser"
	"github.com/anita-prover/anita/pkgs/proof"
)

// Options configures a single Check call.
type Options struct {
	// Catalog supplies the user-facing messages. Defaults to Portuguese.
	Catalog *locale.Catalog
	// Logger receives debug traces of the pipeline stages. Defaults to a
	// no-op logger.
	Logger *zap.Logger
	// Theorem, when non-empty, is parsed as "premises |- conclusion" and
	// compared against the proof's premises (as a set) and conclusion.
	Theorem string
}

// Check analyses a proof script and returns the complete result. The
// returned value is immutable and safe to share across goroutines.
func Check(script string, opts Options) *Result {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cat := opts.Catalog
	if cat == nil {
		cat = locale.MustLoad(locale.Portuguese)
	}

	res := &Result{}
	fmtr := errorFormatter{script: script, cat: cat}

	log.Debug("parsing proof script", zap.Int("bytes", len(script)))
	tableau, parseErrs, synErr := proof.ParseScript(script)
	if synErr != nil {
		log.Debug("syntax error", zap.String("code", synErr.Code),
			zap.Int("line", synErr.Line), zap.Int("column", synErr.Column))
		res.ErrorDetails = []*errors.ProofError{synErr}
		res.Errors = []string{fmtr.format(synErr)}
		return res
	}

	errs := parseErrs
	errs = append(errs, proof.Validate(tableau, script)...)
	log.Debug("validation finished", zap.Int("errors", len(errs)))

	res.ErrorDetails = errs
	for _, e := range errs {
		res.Errors = append(res.Errors, fmtr.format(e))
	}

	if len(errs) == 0 {
		analysis := proof.Analyze(tableau)
		res.IsClosed = analysis.IsClosed
		res.Premises = tableau.Premises()
		res.Conclusion = tableau.Conclusion()
		res.Theorem = TheoremString(res.Premises, res.Conclusion, false)
		res.LatexTheorem = TheoremLatex(res.Premises, res.Conclusion, false)
		res.Saturated = analysis.Saturated
		res.Unsaturated = analysis.Unsaturated
		for _, cm := range analysis.CounterExamples {
			res.CounterExamples = append(res.CounterExamples, formatCounterExample(cm))
		}
		res.Latex = latex.Render(tableau)
		res.ColoredLatex = coloredLatex(tableau, analysis)
		log.Debug("analysis complete",
			zap.Bool("closed", analysis.IsClosed),
			zap.Int("saturated", len(analysis.Saturated)),
			zap.Int("unsaturated", len(analysis.Unsaturated)))
	}

	if opts.Theorem != "" && len(errs) == 0 {
		res.checkExpectedTheorem(opts.Theorem)
	}
	return res
}

// coloredLatex picks the highlight set the way the verdict is shown:
// saturated branches first, then unsaturated open branches (both red),
// otherwise the closure participants in blue.
func coloredLatex(t *proof.Tableau, analysis *proof.Analysis) string {
	switch {
	case len(analysis.Saturated) > 0:
		return latex.RenderColored(t, flatten(analysis.Saturated), "red")
	case len(analysis.Unsaturated) > 0:
		return latex.RenderColored(t, flatten(analysis.Unsaturated), "red")
	default:
		return latex.RenderColored(t, analysis.ClosureRefs, "blue")
	}
}

func flatten(branches [][]*proof.Rule) []*proof.Rule {
	var rules []*proof.Rule
	for _, b := range branches {
		rules = append(rules, b...)
	}
	return rules
}

// checkExpectedTheorem compares the proof's sequent against an expected
// one. Premises compare as sets; the conclusion must match exactly.
func (res *Result) checkExpectedTheorem(input string) {
	premises, conclusion, err := parser.Theorem(input)
	if err != nil {
		match := false
		res.TheoremMatch = &match
		res.ExpectedTheorem = input
		return
	}
	res.ExpectedTheorem = TheoremString(premises, conclusion, false)
	match := res.Conclusion != nil && res.Conclusion.Equal(conclusion) &&
		formulaSetEqual(res.Premises, premises)
	res.TheoremMatch = &match
}

// formulaSetEqual compares two formula slices as sets under structural
// equality.
func formulaSetEqual(a, b []*formula.Formula) bool {
	contains := func(list []*formula.Formula, f *formula.Formula) bool {
		for _, g := range list {
			if g.Equal(f) {
				return true
			}
		}
		return false
	}
	for _, f := range a {
		if !contains(b, f) {
			return false
		}
	}
	for _, f := range b {
		if !contains(a, f) {
			return false
		}
	}
	return true
}
