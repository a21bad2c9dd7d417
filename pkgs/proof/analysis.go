package proof

import "github.com/anita-prover/anita/pkgs/formula"

// Analysis is the classification of every leaf branch of a tableau,
// together with the countermodels read off the saturated open branches.
type Analysis struct {
	// IsClosed is true when every leaf branch ends in a closure rule: the
	// proof is valid.
	IsClosed bool

	// Saturated holds the visible rules (leaf to root) of every open
	// branch in which all decomposable rules have been used and no
	// contradiction appears.
	Saturated [][]*Rule

	// Unsaturated holds the visible rules of the remaining open branches.
	Unsaturated [][]*Rule

	// CounterExamples holds one truth assignment per saturated branch,
	// mapping atom names to their sign on the branch.
	CounterExamples []map[string]Sign

	// ClosureRefs lists the rules referenced by closing rules, first
	// occurrence order, for highlighting.
	ClosureRefs []*Rule
}

// Analyze classifies the leaf branches of a finished tableau. It is a
// pure function of the tree.
func Analyze(t *Tableau) *Analysis {
	a := &Analysis{}

	var open []*Branch
	var closings []*Rule
	for _, id := range t.Leaves() {
		b := t.Branches[id]
		last := b.LastRule()
		if last == nil {
			continue
		}
		if last.Kind == KindClosed {
			closings = append(closings, last)
		} else {
			open = append(open, b)
		}
	}
	a.IsClosed = len(open) == 0

	for _, b := range open {
		rules := t.VisibleRules(b.LastRule().Line)
		// Quantifier rules are never automatically exhausted, so any
		// first-order formula keeps the branch conservatively unsaturated.
		if branchIsFirstOrder(rules) {
			a.Unsaturated = append(a.Unsaturated, rules)
			continue
		}
		if len(unusedRules(rules)) == 0 && !hasContradiction(rules) {
			a.Saturated = append(a.Saturated, rules)
			a.CounterExamples = append(a.CounterExamples, truthValues(rules))
		} else {
			a.Unsaturated = append(a.Unsaturated, rules)
		}
	}

	seen := make(map[*Rule]bool)
	for _, c := range closings {
		for _, line := range []int{c.Ref1, c.Ref2} {
			if r := t.RuleAt(line); r != nil && !seen[r] {
				seen[r] = true
				a.ClosureRefs = append(a.ClosureRefs, r)
			}
		}
	}
	return a
}

func branchIsFirstOrder(rules []*Rule) bool {
	for _, r := range rules {
		if r.Formula != nil && r.Formula.IsFirstOrder() {
			return true
		}
	}
	return false
}

// unusedRules returns the decomposable rules of the branch that no later
// rule references. Atoms, predicates and closure lines have nothing left
// to decompose.
func unusedRules(rules []*Rule) []*Rule {
	var unused []*Rule
	for _, r := range rules {
		if r.Kind == KindClosed || r.Formula == nil ||
			r.Formula.Kind == formula.KindAtom || r.Formula.Kind == formula.KindPredicate {
			continue
		}
		used := false
		for _, other := range rules {
			if other.Kind == KindPremise || other.Kind == KindConclusion {
				continue
			}
			if other.Ref1 == r.Line || (other.Kind == KindClosed && other.Ref2 == r.Line) {
				used = true
				break
			}
		}
		if !used {
			unused = append(unused, r)
		}
	}
	return unused
}

// hasContradiction reports whether two signed rules on the branch carry
// the same formula under opposite signs.
func hasContradiction(rules []*Rule) bool {
	for _, r := range rules {
		if r.Sign == NoSign {
			continue
		}
		for _, other := range rules {
			if other.Sign == NoSign {
				continue
			}
			if r.Formula.Equal(other.Formula) && r.Sign != other.Sign {
				return true
			}
		}
	}
	return false
}

// truthValues reads the atom assignment off a saturated branch.
func truthValues(rules []*Rule) map[string]Sign {
	v := make(map[string]Sign)
	for _, r := range rules {
		if r.Kind == KindClosed || r.Formula == nil {
			continue
		}
		if r.Formula.Kind == formula.KindAtom {
			v[r.Formula.Name] = r.Sign
		}
	}
	return v
}

// Premises returns the distinct premise formulas in appearance order.
func (t *Tableau) Premises() []*formula.Formula {
	var premises []*formula.Formula
	for _, b := range t.Branches {
		for _, r := range b.Rules {
			if r.Kind != KindPremise {
				continue
			}
			duplicate := false
			for _, p := range premises {
				if p.Equal(r.Formula) {
					duplicate = true
					break
				}
			}
			if !duplicate {
				premises = append(premises, r.Formula)
			}
		}
	}
	return premises
}

// Conclusion returns the root branch's conclusion formula, or nil.
func (t *Tableau) Conclusion() *formula.Formula {
	for _, r := range t.Root().Rules {
		if r.Kind == KindConclusion {
			return r.Formula
		}
	}
	return nil
}
