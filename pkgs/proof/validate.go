package proof

import (
	"strconv"
	"strings"

	"github.com/anita-prover/anita/pkgs/errors"
	"github.com/anita-prover/anita/pkgs/formula"
	"github.com/anita-prover/anita/pkgs/lexer"
)

// Validate runs every whole-proof and per-rule check against a built
// tableau. The raw script text is needed for the line-numbering check,
// which works on physical lines. Errors accumulate in report order:
// numbering, undisposed branches, initial tableau, then rule checks in
// line order.
func Validate(t *Tableau, script string) []*errors.ProofError {
	v := &validator{t: t}
	v.checkSequentialNumbering(script)
	v.checkBranchesDisposed()
	v.checkInitialTableau()
	for _, line := range t.Lines() {
		r := t.RuleAt(line)
		if check := ruleChecks[r.Kind]; check != nil {
			check(v, r)
		}
	}
	return v.errs
}

// ruleChecks dispatches the kind-specific validation. Premises,
// conclusions and unclassified lines have nothing to check locally.
var ruleChecks = map[RuleKind]func(*validator, *Rule){
	KindNegT:   (*validator).checkNeg,
	KindNegF:   (*validator).checkNeg,
	KindClosed: (*validator).checkClosed,
	KindAndT:   (*validator).checkAndT,
	KindOrF:    (*validator).checkOrF,
	KindImpF:   (*validator).checkImpF,
	KindAndF:   (*validator).checkAndF,
	KindOrT:    (*validator).checkOrT,
	KindImpT:   (*validator).checkImpT,
	KindAllT:   (*validator).checkAllT,
	KindAllF:   (*validator).checkAllF,
	KindExT:    (*validator).checkExT,
	KindExF:    (*validator).checkExF,
}

type validator struct {
	t    *Tableau
	errs []*errors.ProofError
}

func (v *validator) add(code string, tok lexer.Token, args ...any) {
	v.errs = append(v.errs, errors.New(code, tok.Line, tok.Column, args...))
}

// checkSequentialNumbering verifies the physical numbering 1, 2, 3, ...
// across the whole script. Only the first offence is reported.
func (v *validator) checkSequentialNumbering(script string) {
	want := 1
	for idx, text := range strings.Split(script, "\n") {
		prefix := text
		if dot := strings.IndexByte(text, '.'); dot >= 0 {
			prefix = text[:dot]
		}
		if prefix == "" || !allDigits(prefix) {
			continue
		}
		n, _ := strconv.Atoi(prefix)
		if n != want {
			v.errs = append(v.errs, errors.New(errors.NonSequentialLineNumbering, idx+1, 1, n, want))
			return
		}
		want++
	}
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// checkBranchesDisposed reports every branch still open at end of input,
// anchored at the branch's opening rule.
func (v *validator) checkBranchesDisposed() {
	for _, b := range v.t.Branches[1:] {
		if b.EndLine != 0 || len(b.Rules) == 0 {
			continue
		}
		v.add(errors.BoxMustBeDisposed, b.Rules[0].FormulaTok)
	}
}

// checkInitialTableau enforces the root shape: a prefix of premises
// followed by exactly one conclusion, with premises and conclusions
// nowhere else.
func (v *validator) checkInitialTableau() {
	valid := true
	conclusions := 0
	for _, r := range v.t.Root().Rules {
		switch r.Kind {
		case KindPremise:
			if conclusions > 0 {
				valid = false
			}
		case KindConclusion:
			conclusions++
		default:
			if conclusions == 0 {
				valid = false
			}
		}
	}
	if conclusions != 1 {
		valid = false
	}
	for _, b := range v.t.Branches[1:] {
		for _, r := range b.Rules {
			if r.Kind == KindPremise || r.Kind == KindConclusion {
				valid = false
			}
		}
	}
	if valid {
		return
	}
	anchor := lexer.Token{Line: 1, Column: 1}
	if first := v.firstRule(); first != nil {
		anchor = first.FormulaTok
	}
	v.add(errors.InvalidInitialTableau, anchor)
}

func (v *validator) firstRule() *Rule {
	if rules := v.t.Root().Rules; len(rules) > 0 {
		return rules[0]
	}
	for _, b := range v.t.Branches[1:] {
		if len(b.Rules) > 0 {
			return b.Rules[0]
		}
	}
	return nil
}

// refsBefore checks that every reference points strictly upward.
func (v *validator) refsBefore(r *Rule) bool {
	ok := true
	if r.Ref1 != 0 && r.Ref1 >= r.Line {
		v.add(errors.ReferencedLineNotDefined, r.Ref1Tok, r.Ref1)
		ok = false
	}
	if r.Ref2 != 0 && r.Ref2 >= r.Line {
		v.add(errors.ReferencedLineNotDefined, r.Ref2Tok, r.Ref2)
		ok = false
	}
	return ok
}

// refsVisible checks that references resolve within this branch or an
// ancestor; referencing a discarded sibling branch is an error.
func (v *validator) refsVisible(r *Rule, both bool) {
	if v.t.Visible(r.Line, r.Ref1) == nil {
		v.add(errors.UsingDiscardedRule, r.Ref1Tok, r.Ref1)
	}
	if both && v.t.Visible(r.Line, r.Ref2) == nil {
		v.add(errors.UsingDiscardedRule, r.Ref2Tok, r.Ref2)
	}
}

// lookupRef resolves the first reference after the common order and
// visibility checks have run.
func (v *validator) lookupRef(r *Rule) *Rule {
	if v.refsBefore(r) {
		v.refsVisible(r, false)
	}
	return v.t.Visible(r.Line, r.Ref1)
}

func (v *validator) checkNeg(r *Rule) {
	if ref := v.lookupRef(r); ref != nil {
		switch {
		case !ref.Formula.Equal(formula.Not(r.Formula)):
			v.add(errors.InvalidResult, r.Ref1Tok, r.Formula)
		case ref.Sign == SignF && r.Kind == KindNegT:
			v.add(errors.IsNotNegationTrue, r.Ref1Tok, r.Ref1)
		case ref.Sign == SignT && r.Kind == KindNegF:
			v.add(errors.IsNotNegationFalse, r.Ref1Tok, r.Ref1)
		}
	}
	if v.t.UsageCount(r) > 1 {
		v.add(errors.AlreadyUsedRuleInBranch, r.Ref1Tok, r.Line)
	}
}

func (v *validator) checkClosed(r *Rule) {
	if v.refsBefore(r) {
		v.refsVisible(r, true)
	}
	ref1 := v.t.Visible(r.Line, r.Ref1)
	ref2 := v.t.Visible(r.Line, r.Ref2)
	if ref1 == nil || ref2 == nil || r.Formula == nil {
		return
	}
	if !r.Formula.IsBottom() {
		v.add(errors.InvalidResult, r.FormulaTok, r.Formula)
		return
	}
	if !ref1.Formula.Equal(ref2.Formula) || ref1.Sign == ref2.Sign {
		v.add(errors.InvalidNegation, r.Ref1Tok)
	}
}

func (v *validator) checkAndT(r *Rule) {
	if ref := v.lookupRef(r); ref != nil {
		if !ref.Formula.IsConjunction() || ref.Sign != SignT {
			v.add(errors.IsNotConjunctionTrue, r.Ref1Tok, r.Ref1)
		} else if !ref.Formula.Left.Equal(r.Formula) && !ref.Formula.Right.Equal(r.Formula) {
			v.add(errors.InvalidLeftOrRightConjunction, r.Ref1Tok, r.Formula, r.Ref1)
		}
	}
	v.checkAlphaPair(r, KindAndT, errors.InvalidTrueConjunctionNext, errors.InvalidTrueConjunctionPrevious)
	if v.t.UsageCount(r) > 2 {
		v.add(errors.AlreadyUsedRuleInBranch, r.Ref1Tok, r.Line)
	}
}

func (v *validator) checkOrF(r *Rule) {
	if ref := v.lookupRef(r); ref != nil {
		if !ref.Formula.IsDisjunction() || ref.Sign != SignF {
			v.add(errors.IsNotDisjunctionFalse, r.Ref1Tok, r.Ref1)
		} else if !ref.Formula.Left.Equal(r.Formula) && !ref.Formula.Right.Equal(r.Formula) {
			v.add(errors.InvalidLeftOrRightDisjunction, r.Ref1Tok, r.Ref1)
		}
	}
	v.checkAlphaPair(r, KindOrF, errors.InvalidFalseDisjunctionNext, errors.InvalidFalseDisjunctionPrevious)
	if v.t.UsageCount(r) > 2 {
		v.add(errors.AlreadyUsedRuleInBranch, r.Ref1Tok, r.Line)
	}
}

func (v *validator) checkImpF(r *Rule) {
	ref := v.lookupRef(r)
	if ref != nil {
		if !ref.Formula.IsImplication() {
			v.add(errors.IsNotImplication, r.Ref1Tok, r.Ref1)
		} else if r.Sign == SignT && !ref.Formula.Left.Equal(r.Formula) {
			// Antecedent instances carry T, consequent instances carry F:
			// F(a->b) decomposes into T a and F b.
			v.add(errors.InvalidLeftImplication, r.LineTok, r.Formula)
		} else if r.Sign == SignF && !ref.Formula.Right.Equal(r.Formula) {
			v.add(errors.InvalidRightImplication, r.SignTok, r.Formula)
		}
	}
	v.checkImpFPair(r, ref)
	if v.t.UsageCount(r) > 2 {
		v.add(errors.AlreadyUsedRuleInBranch, r.Ref1Tok, r.Line)
	}
}

func (v *validator) checkAndF(r *Rule) {
	if ref := v.lookupRef(r); ref != nil {
		if !ref.Formula.IsConjunction() || ref.Sign != SignF {
			v.add(errors.IsNotConjunctionFalse, r.Ref1Tok, r.Ref1)
		} else if !ref.Formula.Left.Equal(r.Formula) && !ref.Formula.Right.Equal(r.Formula) {
			v.add(errors.InvalidLeftOrRightConjunction, r.FormulaTok, r.Formula, r.Ref1)
		}
	}
	v.checkBetaStructure(r, KindAndF, errors.InvalidFalseConjunctionNext, errors.InvalidFalseConjunctionPrevious)
	if v.t.UsageCount(r) > 1 {
		v.add(errors.AlreadyUsedRuleInBranch, r.Ref1Tok, r.Line)
	}
}

func (v *validator) checkOrT(r *Rule) {
	if ref := v.lookupRef(r); ref != nil {
		if !ref.Formula.IsDisjunction() || ref.Sign != SignT {
			v.add(errors.IsNotDisjunctionTrue, r.Ref1Tok, r.Ref1)
		} else if !ref.Formula.Left.Equal(r.Formula) && !ref.Formula.Right.Equal(r.Formula) {
			v.add(errors.InvalidLeftOrRightDisjunction, r.FormulaTok, r.Ref1)
		}
	}
	v.checkBetaStructure(r, KindOrT, errors.InvalidTrueDisjunctionNext, errors.InvalidTrueDisjunctionPrevious)
	if v.t.UsageCount(r) > 1 {
		v.add(errors.AlreadyUsedRuleInBranch, r.Ref1Tok, r.Line)
	}
}

func (v *validator) checkImpT(r *Rule) {
	if ref := v.lookupRef(r); ref != nil {
		if !ref.Formula.IsImplication() {
			v.add(errors.IsNotImplication, r.Ref1Tok, r.Ref1)
		} else if ref.Formula.Left.Equal(r.Formula) {
			// T(a->b) branches into F a | T b, so the antecedent child
			// must flip the sign of the referenced line.
			if ref.Sign == r.Sign {
				v.add(errors.InvalidLeftImplication, r.LineTok, r.Formula)
			}
		} else if ref.Formula.Right.Equal(r.Formula) {
			if ref.Sign != r.Sign {
				v.add(errors.InvalidRightImplication, r.SignTok, r.Formula)
			}
		} else {
			v.add(errors.InvalidLeftRightImplication, r.SignTok, r.Formula)
		}
	}
	v.checkBetaStructure(r, KindImpT, errors.InvalidTrueImplicationNext, errors.InvalidTrueImplicationPrevious)
	if v.t.UsageCount(r) > 1 {
		v.add(errors.AlreadyUsedRuleInBranch, r.Ref1Tok, r.Line)
	}
}

// checkAlphaPair verifies the two-line shape of the alpha pair kinds: the
// left instance must be followed by the right instance on the next line,
// unless the left instance is itself the tail of an existing pair.
// Neighbours are looked up in the flat line index.
func (v *validator) checkAlphaPair(r *Rule, kind RuleKind, nextCode, prevCode string) {
	ref := v.t.Visible(r.Line, r.Ref1)
	if ref == nil || ref.Formula.Kind != formula.KindBinary {
		return
	}
	prev := v.t.RuleAt(r.Line - 1)
	next := v.t.RuleAt(r.Line + 1)
	switch {
	case ref.Formula.Left.Equal(r.Formula):
		if prev != nil && prev.Kind == kind && ref.Formula.Left.Equal(prev.Formula) {
			return
		}
		if next == nil || next.Kind != kind || !ref.Formula.Right.Equal(next.Formula) {
			v.add(nextCode, r.LineTok, ref.Formula.Right)
		}
	case ref.Formula.Right.Equal(r.Formula):
		if prev == nil || prev.Kind != kind || !ref.Formula.Left.Equal(prev.Formula) {
			v.add(prevCode, r.LineTok, ref.Formula.Left)
		}
	}
}

// checkImpFPair is the ->F variant of the pair check: the antecedent
// instance is recognised by its T sign and the consequent by F.
func (v *validator) checkImpFPair(r *Rule, ref *Rule) {
	if ref == nil || ref.Formula.Kind != formula.KindBinary {
		return
	}
	switch {
	case ref.Formula.Left.Equal(r.Formula) && r.Sign == SignT:
		next := v.t.RuleAt(r.Line + 1)
		if next == nil || next.Kind != KindImpF || !ref.Formula.Right.Equal(next.Formula) {
			v.add(errors.InvalidFalseImplicationNext, r.LineTok, ref.Formula.Right)
		}
	case ref.Formula.Right.Equal(r.Formula) && r.Sign == SignF:
		prev := v.t.RuleAt(r.Line - 1)
		if prev == nil || prev.Kind != KindImpF || !ref.Formula.Left.Equal(prev.Formula) {
			v.add(errors.InvalidFalseImplicationPrevious, r.LineTok, ref.Formula.Left)
		}
	}
}

// checkBetaStructure verifies that a beta line heads one of exactly two
// sibling branches opened right after the parent's last line, and that
// the sibling holds the other half of the decomposition.
func (v *validator) checkBetaStructure(r *Rule, kind RuleKind, nextCode, prevCode string) {
	b := v.t.BranchOf(r.Line)
	parent := v.t.Branches[b].Parent
	if parent < 0 {
		v.add(errors.InvalidBetaRule, r.LineTok)
		return
	}
	siblings := v.t.Branches[parent].Children
	lastParent := v.t.Branches[parent].LastRule()
	var firstChild *Rule
	if len(siblings) > 0 && len(v.t.Branches[siblings[0]].Rules) > 0 {
		firstChild = v.t.Branches[siblings[0]].Rules[0]
	}
	if lastParent == nil || firstChild == nil ||
		lastParent.Line != firstChild.Line-1 || len(siblings) != 2 {
		v.add(errors.InvalidBetaRule, r.LineTok)
		return
	}

	ref := v.t.Visible(r.Line, r.Ref1)
	if ref == nil || ref.Formula.Kind != formula.KindBinary {
		return
	}
	switch {
	case ref.Formula.Left.Equal(r.Formula):
		next := firstRuleOf(v.t, siblings[1])
		if next == nil || next.Kind != kind || !ref.Formula.Right.Equal(next.Formula) {
			v.add(nextCode, r.LineTok, ref.Formula.Right)
		}
	case ref.Formula.Right.Equal(r.Formula):
		prev := firstRuleOf(v.t, siblings[0])
		if prev == nil || prev.Kind != kind || !ref.Formula.Left.Equal(prev.Formula) {
			v.add(prevCode, r.LineTok, ref.Formula.Left)
		}
	}
}

func firstRuleOf(t *Tableau, branch int) *Rule {
	if len(t.Branches[branch].Rules) == 0 {
		return nil
	}
	return t.Branches[branch].Rules[0]
}

func (v *validator) checkAllT(r *Rule) {
	ref := v.lookupRef(r)
	if ref == nil {
		return
	}
	if !ref.Formula.IsUniversal() || ref.Sign != r.Sign {
		v.add(errors.InvalidUniversalFormula, r.Ref1Tok, r.Ref1, r.Sign)
	}
	if ref.Formula.Kind == formula.KindQuantifier && !ref.Formula.ValidSubstitution(r.Formula) {
		v.add(errors.InvalidSubstitutionUniversal, r.FormulaTok, r.Formula, r.Ref1)
	}
}

func (v *validator) checkExF(r *Rule) {
	ref := v.lookupRef(r)
	if ref == nil {
		return
	}
	if !ref.Formula.IsExistential() || ref.Sign != r.Sign {
		v.add(errors.InvalidExistentialFormula, r.FormulaTok, r.Ref1, r.Sign)
	}
	if ref.Formula.Kind == formula.KindQuantifier && !ref.Formula.ValidSubstitution(r.Formula) {
		v.add(errors.InvalidSubstitutionExistential, r.FormulaTok, r.Formula, r.Ref1)
	}
}

func (v *validator) checkAllF(r *Rule) {
	ref := v.lookupRef(r)
	if ref == nil {
		return
	}
	if !ref.Formula.IsUniversal() || ref.Sign != r.Sign {
		v.add(errors.InvalidUniversalFormula, r.Ref1Tok, r.Ref1, r.Sign)
	}
	if ref.Formula.Kind != formula.KindQuantifier {
		return
	}
	if !ref.Formula.ValidSubstitution(r.Formula) {
		v.add(errors.InvalidSubstitutionUniversal, r.FormulaTok, r.Formula, r.Ref1)
		return
	}
	v.checkFreshWitness(r, ref)
}

func (v *validator) checkExT(r *Rule) {
	ref := v.lookupRef(r)
	if ref == nil {
		return
	}
	if !ref.Formula.IsExistential() || ref.Sign != r.Sign {
		v.add(errors.InvalidExistentialFormula, r.Ref1Tok, r.Ref1, r.Sign)
	}
	if ref.Formula.Kind != formula.KindQuantifier {
		return
	}
	if !ref.Formula.ValidSubstitution(r.Formula) {
		v.add(errors.InvalidSubstitutionExistential, r.FormulaTok, r.Formula, r.Ref1)
		return
	}
	v.checkFreshWitness(r, ref)
}

// checkFreshWitness recovers the variable actually substituted for the
// bound variable and requires it to be fresh for the branch. A vacuous
// binding yields no witness and nothing to check.
func (v *validator) checkFreshWitness(r, ref *Rule) {
	witnesses := ref.Formula.Body.SubstitutionWitnesses(ref.Formula.Name, r.Formula)
	if len(witnesses) == 0 {
		return
	}
	if !v.t.IsFresh(r.Line, witnesses.Sorted()[0]) {
		v.add(errors.VariableIsNotFresh, r.FormulaTok, r.Formula)
	}
}
