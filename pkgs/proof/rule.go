// Package proof implements the proof-script analyser: the line parser,
// the tableau of branches, the rule validation engine and the branch
// analyser that produces verdicts and countermodels.
package proof

import (
	"fmt"

	"github.com/anita-prover/anita/pkgs/formula"
	"github.com/anita-prover/anita/pkgs/lexer"
)

// Sign is the truth-value marker of a signed formula. Closure lines carry
// no sign.
type Sign byte

const (
	NoSign Sign = iota
	SignT
	SignF
)

func (s Sign) String() string {
	switch s {
	case SignT:
		return "T"
	case SignF:
		return "F"
	}
	return ""
}

// Opposite returns the flipped sign; NoSign flips to itself.
func (s Sign) Opposite() Sign {
	switch s {
	case SignT:
		return SignF
	case SignF:
		return SignT
	}
	return NoSign
}

// RuleKind classifies a proof line by its justification.
type RuleKind int

const (
	// KindGeneric marks a line that parsed but could not be classified as
	// a usable rule (wrong bracket shape, unclassifiable reference, ...).
	// Generic lines are recorded in the tableau for display and scoping
	// but skipped by the kind-specific validators; the classification
	// error has already been reported.
	KindGeneric RuleKind = iota
	KindPremise
	KindConclusion
	KindClosed
	KindNegT
	KindNegF
	KindAndT
	KindAndF
	KindOrT
	KindOrF
	KindImpT
	KindImpF
	KindAllT
	KindAllF
	KindExT
	KindExF
)

var ruleNames = map[RuleKind]string{
	KindPremise:    "pre",
	KindConclusion: "conclusion",
	KindClosed:     "closed",
	KindNegT:       "~T",
	KindNegF:       "~F",
	KindAndT:       "&T",
	KindAndF:       "&F",
	KindOrT:        "|T",
	KindOrF:        "|F",
	KindImpT:       "->T",
	KindImpF:       "->F",
	KindAllT:       "AT",
	KindAllF:       "AF",
	KindExT:        "ET",
	KindExF:        "EF",
}

func (k RuleKind) String() string {
	if name, ok := ruleNames[k]; ok {
		return name
	}
	return "?"
}

// IsAlpha reports whether the kind is a non-branching decomposition.
func (k RuleKind) IsAlpha() bool {
	switch k {
	case KindNegT, KindNegF, KindAndT, KindOrF, KindImpF, KindAllT, KindExF:
		return true
	default:
		return false
	}
}

// IsBeta reports whether the kind is a branching decomposition.
func (k RuleKind) IsBeta() bool {
	switch k {
	case KindAndF, KindOrT, KindImpT:
		return true
	default:
		return false
	}
}

// Rule is one proof line: its number, signed formula, justification kind
// and references. The token fields anchor validation errors to the exact
// source position of the offending part.
type Rule struct {
	Line    int
	Sign    Sign
	Formula *formula.Formula
	Kind    RuleKind
	Ref1    int // 0 when absent
	Ref2    int // 0 when absent
	Named   bool

	LineTok    lexer.Token
	SignTok    lexer.Token
	FormulaTok lexer.Token
	NameTok    lexer.Token
	Ref1Tok    lexer.Token
	Ref2Tok    lexer.Token
}

// String renders the rule back in proof-script syntax.
func (r *Rule) String() string {
	switch r.Kind {
	case KindPremise:
		return fmt.Sprintf("%d. %s %s pre", r.Line, r.Sign, r.Formula)
	case KindConclusion:
		return fmt.Sprintf("%d. %s %s conclusion", r.Line, r.Sign, r.Formula)
	case KindClosed:
		if r.Named {
			return fmt.Sprintf("%d. %s closed %d,%d", r.Line, r.Formula, r.Ref1, r.Ref2)
		}
		return fmt.Sprintf("%d. %s %d,%d", r.Line, r.Formula, r.Ref1, r.Ref2)
	default:
		if r.Named {
			return fmt.Sprintf("%d. %s %s %s %d", r.Line, r.Sign, r.Formula, r.Kind, r.Ref1)
		}
		return fmt.Sprintf("%d. %s %s %d", r.Line, r.Sign, r.Formula, r.Ref1)
	}
}

// Latex renders the signed formula for a tableau node.
func (r *Rule) Latex() string {
	if r.Kind == KindClosed {
		return "\\times"
	}
	return fmt.Sprintf("%s~%s", r.Sign, r.Formula.Latex(false))
}
