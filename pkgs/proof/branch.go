package proof

import (
	"sort"

	"github.com/anita-prover/anita/pkgs/formula"
)

// Branch is one node of the tableau tree. Branches live in an arena
// indexed by ID; Parent and Children hold arena indices, so the tree has
// no cyclic ownership.
type Branch struct {
	ID        int
	Parent    int // -1 for the root
	Children  []int
	Rules     []*Rule
	Variable  string
	StartLine int
	EndLine   int // 0 while the branch is open
}

// LastRule returns the branch's final rule, or nil when it has none.
func (b *Branch) LastRule() *Rule {
	if len(b.Rules) == 0 {
		return nil
	}
	return b.Rules[len(b.Rules)-1]
}

type lineRef struct {
	branch int
	pos    int
}

// Tableau is the branch arena plus a flat line index. It is built
// append-only during parsing; validation and analysis never mutate it,
// so a finished Tableau may be shared across goroutines.
type Tableau struct {
	Branches []*Branch

	current   int // cursor used during construction
	lineIndex map[int]lineRef
}

func newTableau() *Tableau {
	root := &Branch{ID: 0, Parent: -1, StartLine: 1}
	return &Tableau{Branches: []*Branch{root}}
}

// Root returns the initial branch.
func (t *Tableau) Root() *Branch {
	return t.Branches[0]
}

func (t *Tableau) currentBranch() *Branch {
	return t.Branches[t.current]
}

// insert appends a rule to the current branch.
func (t *Tableau) insert(r *Rule) {
	b := t.currentBranch()
	b.Rules = append(b.Rules, r)
}

// openBranch creates a child of the current branch and moves the cursor
// into it.
func (t *Tableau) openBranch(startLine int) {
	b := &Branch{
		ID:        len(t.Branches),
		Parent:    t.current,
		StartLine: startLine,
	}
	t.Branches = append(t.Branches, b)
	t.currentBranch().Children = append(t.currentBranch().Children, b.ID)
	t.current = b.ID
}

// closeBranch seals the current branch and moves the cursor back to its
// parent.
func (t *Tableau) closeBranch(endLine int) {
	b := t.currentBranch()
	b.EndLine = endLine
	if b.Parent >= 0 {
		t.current = b.Parent
	}
}

// buildLineIndex memoises line number -> (branch, position) after the
// tree is complete.
func (t *Tableau) buildLineIndex() {
	t.lineIndex = make(map[int]lineRef)
	for _, b := range t.Branches {
		for i, r := range b.Rules {
			if _, exists := t.lineIndex[r.Line]; !exists {
				t.lineIndex[r.Line] = lineRef{branch: b.ID, pos: i}
			}
		}
	}
}

// RuleAt returns the rule numbered line anywhere in the tree, or nil.
func (t *Tableau) RuleAt(line int) *Rule {
	ref, ok := t.lineIndex[line]
	if !ok {
		return nil
	}
	return t.Branches[ref.branch].Rules[ref.pos]
}

// BranchOf returns the arena index of the branch holding the given line,
// or -1 when the line does not exist.
func (t *Tableau) BranchOf(line int) int {
	ref, ok := t.lineIndex[line]
	if !ok {
		return -1
	}
	return ref.branch
}

// Visible returns the rule at target if it is visible from the branch of
// the from line, i.e. sits in the same branch or a proper ancestor.
func (t *Tableau) Visible(from, target int) *Rule {
	b := t.BranchOf(from)
	for b >= 0 {
		for _, r := range t.Branches[b].Rules {
			if r.Line == target {
				return r
			}
		}
		b = t.Branches[b].Parent
	}
	return nil
}

// VisibleRules collects every rule visible from the given line, ordered
// leaf to root: the line's own branch newest-first, then its ancestors.
func (t *Tableau) VisibleRules(line int) []*Rule {
	var rules []*Rule
	b := t.BranchOf(line)
	for b >= 0 {
		branch := t.Branches[b]
		for i := len(branch.Rules) - 1; i >= 0; i-- {
			if branch.Rules[i].Line <= line {
				rules = append(rules, branch.Rules[i])
			}
		}
		b = branch.Parent
	}
	return rules
}

// FreeVarsBefore returns every variable occurring free in a rule strictly
// before the given line in its branch or an ancestor, together with any
// branch-introduced variable already in scope.
func (t *Tableau) FreeVarsBefore(line int) formula.VarSet {
	free := formula.VarSet{}
	b := t.BranchOf(line)
	for b >= 0 {
		branch := t.Branches[b]
		for _, r := range branch.Rules {
			if r.Line < line && r.Formula != nil {
				for v := range r.Formula.FreeVars() {
					free[v] = true
				}
			}
		}
		if branch.Variable != "" && branch.StartLine < line {
			free[branch.Variable] = true
		}
		b = branch.Parent
	}
	return free
}

// IsFresh reports whether the variable does not occur free anywhere
// visible before the given line.
func (t *Tableau) IsFresh(line int, variable string) bool {
	return !t.FreeVarsBefore(line)[variable]
}

// UsageCount counts the rules visible from r that share r's first
// reference (r itself included). Closure lines count: their first
// reference competes for the same budget.
func (t *Tableau) UsageCount(r *Rule) int {
	if r.Ref1 == 0 {
		return 0
	}
	n := 0
	for _, other := range t.VisibleRules(r.Line) {
		if other.Ref1 != 0 && other.Ref1 == r.Ref1 {
			n++
		}
	}
	return n
}

// Leaves returns the arena indices of branches with no children, in
// creation order.
func (t *Tableau) Leaves() []int {
	var leaves []int
	for _, b := range t.Branches {
		if len(b.Children) == 0 {
			leaves = append(leaves, b.ID)
		}
	}
	return leaves
}

// Lines returns every line number present in the tableau in ascending
// order.
func (t *Tableau) Lines() []int {
	lines := make([]int, 0, len(t.lineIndex))
	for n := range t.lineIndex {
		lines = append(lines, n)
	}
	sort.Ints(lines)
	return lines
}
