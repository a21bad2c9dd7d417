package proof

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// invalidDistributionProof is a saturated proof attempt for the invalid
// sequent A|B |- A&B; both open branches yield countermodels.
const invalidDistributionProof = `1. T A|B pre
2. F A&B conclusion
3. { T A |T 1
4. { F A &F 2
5. @ closed 3,4
6. } F B &F 2
}
7. } T B |T 1
8. { F A &F 2
9. } F B &F 2
10. @ closed 7,9
`

func TestClosedTableau(t *testing.T) {
	tab, errs := mustParseScript(t, validImplicationProof)
	require.Empty(t, errs)
	require.Empty(t, Validate(tab, validImplicationProof))

	a := Analyze(tab)
	require.True(t, a.IsClosed)
	require.Empty(t, a.Saturated)
	require.Empty(t, a.Unsaturated)
	require.Empty(t, a.CounterExamples)

	refs := make([]int, len(a.ClosureRefs))
	for i, r := range a.ClosureRefs {
		refs[i] = r.Line
	}
	require.ElementsMatch(t, []int{2, 3, 4, 6}, refs)
}

func TestSaturatedOpenBranches(t *testing.T) {
	tab, errs := mustParseScript(t, invalidDistributionProof)
	require.Empty(t, errs)
	require.Empty(t, Validate(tab, invalidDistributionProof))

	a := Analyze(tab)
	require.False(t, a.IsClosed)
	require.Len(t, a.Saturated, 2)
	require.Empty(t, a.Unsaturated)
	require.Len(t, a.CounterExamples, 2)

	require.Equal(t, map[string]Sign{"A": SignT, "B": SignF}, a.CounterExamples[0])
	require.Equal(t, map[string]Sign{"A": SignF, "B": SignT}, a.CounterExamples[1])
}

func TestUnsaturatedBranch(t *testing.T) {
	script := `1. T A&B pre
2. F A conclusion
`
	tab, errs := mustParseScript(t, script)
	require.Empty(t, errs)
	require.Empty(t, Validate(tab, script))

	a := Analyze(tab)
	require.False(t, a.IsClosed)
	require.Empty(t, a.Saturated)
	require.Len(t, a.Unsaturated, 1)
}

func TestFirstOrderBranchesNeverSaturate(t *testing.T) {
	script := `1. T Ax P(x) pre
2. F Q conclusion
3. T P(y) AT 1
`
	tab, errs := mustParseScript(t, script)
	require.Empty(t, errs)
	require.Empty(t, Validate(tab, script))

	a := Analyze(tab)
	require.False(t, a.IsClosed)
	require.Empty(t, a.Saturated)
	require.Len(t, a.Unsaturated, 1)
	require.Empty(t, a.CounterExamples)
}

func TestContradictionBlocksSaturation(t *testing.T) {
	// The branch decomposes everything but holds T A and F A without a
	// closure line: open, yet not a countermodel.
	script := `1. T A pre
2. T ~A pre
3. F B conclusion
4. F A ~T 2
`
	tab, errs := mustParseScript(t, script)
	require.Empty(t, errs)
	require.Empty(t, Validate(tab, script))

	a := Analyze(tab)
	require.False(t, a.IsClosed)
	require.Empty(t, a.Saturated)
	require.Len(t, a.Unsaturated, 1)
}

func TestPremisesAndConclusion(t *testing.T) {
	tab, _ := mustParseScript(t, validImplicationProof)

	premises := tab.Premises()
	require.Len(t, premises, 2)
	require.Equal(t, "A->B", premises[0].String())
	require.Equal(t, "A", premises[1].String())
	require.Equal(t, "B", tab.Conclusion().String())
}

func TestFreshVariableScope(t *testing.T) {
	tab, _ := mustParseScript(t, `1. T P(x) pre
2. F Ay Q(y) conclusion
3. F Q(z) AF 2
`)
	require.False(t, tab.IsFresh(3, "x"))
	require.True(t, tab.IsFresh(3, "w"))
}
