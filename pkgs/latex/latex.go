// Package latex renders a tableau as a qtree \Tree expression, with an
// optional colour highlight over a set of rules (red for open or
// saturated branches, blue for closure participants).
package latex

import (
	"strings"

	"github.com/anita-prover/anita/pkgs/proof"
)

// Render returns the plain qtree source for the tableau.
func Render(t *proof.Tableau) string {
	return "\\Tree " + renderBranch(t, t.Root(), nil, "")
}

// RenderColored highlights the given rules in the given colour.
func RenderColored(t *proof.Tableau, rules []*proof.Rule, color string) string {
	set := make(map[*proof.Rule]bool, len(rules))
	for _, r := range rules {
		set[r] = true
	}
	return "\\Tree " + renderBranch(t, t.Root(), set, color)
}

// renderBranch lays out one branch's rules as nested qtree nodes. The
// premise prefix and the conclusion collapse into a single root node;
// the two lines of an alpha pair sharing a reference collapse into one
// node separated by a line break.
func renderBranch(t *proof.Tableau, b *proof.Branch, set map[*proof.Rule]bool, color string) string {
	var nodes []string
	initial := "[.{"
	rules := b.Rules
	for i := 0; i < len(rules); i++ {
		r := rules[i]
		switch {
		case r.Kind == proof.KindPremise:
			initial += nodeText(r, set, color) + " \\\\ "
		case r.Kind == proof.KindConclusion:
			initial += nodeText(r, set, color) + "}"
			nodes = append(nodes, initial)
		case isAlphaPair(r.Kind):
			s := "[.{" + nodeText(r, set, color)
			if i+1 < len(rules) && rules[i+1].Kind == r.Kind && rules[i+1].Ref1 == r.Ref1 {
				s += " \\\\ " + nodeText(rules[i+1], set, color)
				i++
			}
			nodes = append(nodes, s+"}")
		default:
			nodes = append(nodes, "[.{"+nodeText(r, set, color)+"}")
		}
	}
	s := strings.Join(nodes, " ")
	for _, child := range b.Children {
		s += " " + renderBranch(t, t.Branches[child], set, color)
	}
	s += strings.Repeat(" ]", len(nodes))
	return s
}

func nodeText(r *proof.Rule, set map[*proof.Rule]bool, color string) string {
	if set[r] {
		return "{\\color{" + color + "}$" + r.Latex() + "$}"
	}
	return "$" + r.Latex() + "$"
}

func isAlphaPair(k proof.RuleKind) bool {
	return k == proof.KindAndT || k == proof.KindOrF || k == proof.KindImpF
}
