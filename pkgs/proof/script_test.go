package proof

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anita-prover/anita/pkgs/errors"
)

// validImplicationProof is a complete proof of A->B, A |- B using the
// inline sibling form for the second branch.
const validImplicationProof = `1. T A->B pre
2. T A pre
3. F B conclusion
4. { F A ->T 1
5. @ closed 2,4
6. } T B ->T 1
7. @ closed 3,6
`

// validImplicationProofBraced is the same proof with both branches
// explicitly delimited.
const validImplicationProofBraced = `1. T A->B pre
2. T A pre
3. F B conclusion
4. { F A ->T 1
5. @ closed 2,4
}
6. { T B ->T 1
7. @ closed 3,6
}
`

func mustParseScript(t *testing.T, script string) (*Tableau, []*errors.ProofError) {
	t.Helper()
	tab, errs, syn := ParseScript(script)
	require.Nil(t, syn, "unexpected syntax error")
	require.NotNil(t, tab)
	return tab, errs
}

func errorCodes(errs []*errors.ProofError) []string {
	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	return codes
}

func TestBuildBranchTree(t *testing.T) {
	for name, script := range map[string]string{
		"inline siblings": validImplicationProof,
		"explicit braces": validImplicationProofBraced,
	} {
		t.Run(name, func(t *testing.T) {
			tab, errs := mustParseScript(t, script)
			require.Empty(t, errs)

			require.Len(t, tab.Branches, 3)

			root := tab.Root()
			require.Len(t, root.Rules, 3)
			require.Equal(t, []int{1, 2}, root.Children)

			left := tab.Branches[1]
			require.Equal(t, 0, left.Parent)
			require.Equal(t, 4, left.StartLine)
			require.Equal(t, 5, left.EndLine)
			require.Len(t, left.Rules, 2)

			right := tab.Branches[2]
			require.Equal(t, 0, right.Parent)
			require.Equal(t, 6, right.StartLine)
			require.Equal(t, 7, right.EndLine)
			require.Len(t, right.Rules, 2)
		})
	}
}

func TestRuleKindsAndReferences(t *testing.T) {
	tab, _ := mustParseScript(t, validImplicationProof)

	r1 := tab.RuleAt(1)
	require.Equal(t, KindPremise, r1.Kind)
	require.Equal(t, SignT, r1.Sign)

	r3 := tab.RuleAt(3)
	require.Equal(t, KindConclusion, r3.Kind)
	require.Equal(t, SignF, r3.Sign)

	r4 := tab.RuleAt(4)
	require.Equal(t, KindImpT, r4.Kind)
	require.Equal(t, 1, r4.Ref1)
	require.True(t, r4.Named)

	r5 := tab.RuleAt(5)
	require.Equal(t, KindClosed, r5.Kind)
	require.Equal(t, 2, r5.Ref1)
	require.Equal(t, 4, r5.Ref2)
	require.True(t, r5.Named)
	require.Equal(t, NoSign, r5.Sign)
}

func TestClosedLineWithoutKeyword(t *testing.T) {
	tab, errs := mustParseScript(t, `1. T A pre
2. F A conclusion
3. @ 1,2
`)
	require.Empty(t, errs)
	r := tab.RuleAt(3)
	require.Equal(t, KindClosed, r.Kind)
	require.False(t, r.Named)
	require.Equal(t, "3. @ 1,2", r.String())
}

func TestInferredRuleKinds(t *testing.T) {
	tab, errs := mustParseScript(t, `1. T A&B pre
2. F B conclusion
3. T A 1
4. T B 1
5. @ 2,4
`)
	require.Empty(t, errs)
	require.Equal(t, KindAndT, tab.RuleAt(3).Kind)
	require.False(t, tab.RuleAt(3).Named)
	require.Equal(t, "3. T A 1", tab.RuleAt(3).String())
}

func TestInferredBetaWithoutBrace(t *testing.T) {
	tab, errs := mustParseScript(t, `1. F A&B pre
2. F C conclusion
3. F A 1
`)
	require.Contains(t, errorCodes(errs), errors.RuleMustBeBeta)
	require.Equal(t, KindGeneric, tab.RuleAt(3).Kind)
	// No branch was opened for the rejected beta.
	require.Len(t, tab.Branches, 1)
}

func TestInferredAlphaWithBrace(t *testing.T) {
	tab, errs := mustParseScript(t, `1. T A&B pre
2. F A conclusion
3. { T A 1
`)
	require.Contains(t, errorCodes(errs), errors.RuleMustBeAlpha)
	require.Equal(t, KindGeneric, tab.RuleAt(3).Kind)
	// The brace still opens a branch, which is then left undisposed.
	require.Len(t, tab.Branches, 2)
}

func TestUnclassifiableReference(t *testing.T) {
	_, errs := mustParseScript(t, `1. T A pre
2. F B conclusion
3. T A 1
`)
	require.Contains(t, errorCodes(errs), errors.RuleCannotBeApplied)
}

func TestOrFalseWithTrueSignParsesButFlags(t *testing.T) {
	tab, errs := mustParseScript(t, `1. F A|B pre
2. F C conclusion
3. T A |F 1
`)
	require.Contains(t, errorCodes(errs), errors.RuleMustBeBeta)
	require.Equal(t, KindGeneric, tab.RuleAt(3).Kind)
}

func TestCloseBracketWithoutBox(t *testing.T) {
	_, errs := mustParseScript(t, `1. T A pre
2. F A conclusion
}
`)
	require.Contains(t, errorCodes(errs), errors.CloseBracketWithoutBox)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"missing dot", `1 T A pre`},
		{"named alpha with brace", "1. T A&B pre\n2. F A conclusion\n3. { T A &T 1"},
		{"named beta without brace", "1. T A|B pre\n2. F A conclusion\n3. T A |T 1"},
		{"justification missing", `1. T A`},
		{"foreign symbol", `1. T A $ pre`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, syn := ParseScript(tt.script)
			require.NotNil(t, syn)
			require.Equal(t, errors.SyntaxError, syn.Code)
		})
	}
}

func TestEmptyScript(t *testing.T) {
	_, _, syn := ParseScript("")
	require.NotNil(t, syn)
	require.Equal(t, errors.SyntaxError, syn.Code)
}

func TestVisibility(t *testing.T) {
	tab, _ := mustParseScript(t, validImplicationProof)

	// Line 5 sees its own branch and the root.
	require.NotNil(t, tab.Visible(5, 4))
	require.NotNil(t, tab.Visible(5, 1))
	// The sibling branch is not visible.
	require.Nil(t, tab.Visible(7, 4))
	require.NotNil(t, tab.Visible(7, 6))
}

func TestVisibleRulesOrder(t *testing.T) {
	tab, _ := mustParseScript(t, validImplicationProof)
	rules := tab.VisibleRules(5)
	lines := make([]int, len(rules))
	for i, r := range rules {
		lines[i] = r.Line
	}
	require.Equal(t, []int{5, 4, 3, 2, 1}, lines)
}
