package proof

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anita-prover/anita/pkgs/errors"
)

// checkScript parses and validates, returning all accumulated error
// codes in report order.
func checkScript(t *testing.T, script string) []string {
	t.Helper()
	tab, parseErrs := mustParseScript(t, script)
	all := append([]*errors.ProofError{}, parseErrs...)
	all = append(all, Validate(tab, script)...)
	return errorCodes(all)
}

func TestValidProofHasNoErrors(t *testing.T) {
	require.Empty(t, checkScript(t, validImplicationProof))
	require.Empty(t, checkScript(t, validImplicationProofBraced))
}

func TestValidConjunctionProof(t *testing.T) {
	require.Empty(t, checkScript(t, `1. T A&B pre
2. F B conclusion
3. T A &T 1
4. T B &T 1
5. @ closed 2,4
`))
}

func TestValidImplicationFalsePair(t *testing.T) {
	require.Empty(t, checkScript(t, `1. T C pre
2. F A->B conclusion
3. T A ->F 2
4. F B ->F 2
`))
}

func TestPremiseAndConclusionSigns(t *testing.T) {
	codes := checkScript(t, `1. F A pre
2. T A conclusion
`)
	require.Contains(t, codes, errors.PremiseShouldBeTrue)
	require.Contains(t, codes, errors.ConclusionShouldBeFalse)
}

func TestWrongTrueValue(t *testing.T) {
	codes := checkScript(t, `1. T A&B pre
2. F A conclusion
3. F A &T 1
`)
	require.Contains(t, codes, errors.WrongTrueValue)
}

func TestAlreadyUsedRule(t *testing.T) {
	codes := checkScript(t, `1. T A&B pre
2. F B conclusion
3. T A &T 1
4. T B &T 1
5. T A &T 1
`)
	require.Contains(t, codes, errors.AlreadyUsedRuleInBranch)
}

func TestAlphaPairOrder(t *testing.T) {
	// The left conjunct must be followed by the right conjunct.
	codes := checkScript(t, `1. T A&B pre
2. F B conclusion
3. T A &T 1
`)
	require.Contains(t, codes, errors.InvalidTrueConjunctionNext)

	codes = checkScript(t, `1. T A&B pre
2. F B conclusion
3. T B &T 1
`)
	require.Contains(t, codes, errors.InvalidTrueConjunctionPrevious)
}

func TestImplicationFalsePairMissing(t *testing.T) {
	codes := checkScript(t, `1. T C pre
2. F A->B conclusion
3. T A ->F 2
`)
	require.Contains(t, codes, errors.InvalidFalseImplicationNext)
}

func TestNegationRules(t *testing.T) {
	require.Empty(t, checkScript(t, `1. T ~A pre
2. F B conclusion
3. F A ~T 1
`))

	codes := checkScript(t, `1. T B pre
2. F ~A conclusion
3. T A ~T 2
`)
	require.Contains(t, codes, errors.IsNotNegationTrue)
	require.Contains(t, codes, errors.WrongTrueValue)
}

func TestNegationInvalidResult(t *testing.T) {
	codes := checkScript(t, `1. T ~A pre
2. F B conclusion
3. F B ~T 1
`)
	require.Contains(t, codes, errors.InvalidResult)
}

func TestReferenceMustComeBefore(t *testing.T) {
	codes := checkScript(t, `1. T A&B pre
2. F B conclusion
3. T A &T 5
`)
	require.Contains(t, codes, errors.ReferencedLineNotDefined)
}

func TestReferenceMustBeVisible(t *testing.T) {
	codes := checkScript(t, `1. T (A&B)|C pre
2. F D conclusion
3. { T A&B |T 1
4. T A &T 3
5. T B &T 3
6. } T C |T 1
7. T A &T 3
`)
	require.Contains(t, codes, errors.UsingDiscardedRule)
}

func TestClosedRuleChecks(t *testing.T) {
	// Closure formula must be bottom.
	codes := checkScript(t, `1. T A pre
2. F A conclusion
3. B closed 1,2
`)
	require.Contains(t, codes, errors.InvalidResult)

	// Referenced formulas must be equal under opposite signs.
	codes = checkScript(t, `1. T A pre
2. F B conclusion
3. @ closed 1,2
`)
	require.Contains(t, codes, errors.InvalidNegation)

	// Equal formula with equal signs does not close either.
	codes = checkScript(t, `1. T A pre
2. T A pre
3. F B conclusion
4. @ closed 1,2
`)
	require.Contains(t, codes, errors.InvalidNegation)
}

func TestSequentialNumbering(t *testing.T) {
	tab, parseErrs := mustParseScript(t, `1. T A pre
3. F A conclusion
`)
	require.Empty(t, parseErrs)
	errs := Validate(tab, "1. T A pre\n3. F A conclusion\n")
	require.NotEmpty(t, errs)
	require.Equal(t, errors.NonSequentialLineNumbering, errs[0].Code)
	require.Equal(t, 2, errs[0].Line)
}

func TestInitialTableauShape(t *testing.T) {
	// A premise after the conclusion is rejected.
	codes := checkScript(t, `1. T A pre
2. F B conclusion
3. T C pre
`)
	require.Contains(t, codes, errors.InvalidInitialTableau)

	// A proof without a conclusion is rejected.
	codes = checkScript(t, `1. T A pre
2. T B pre
`)
	require.Contains(t, codes, errors.InvalidInitialTableau)
}

func TestUnclosedBranch(t *testing.T) {
	codes := checkScript(t, `1. T A|B pre
2. F A conclusion
3. { T A |T 1
`)
	require.Contains(t, codes, errors.BoxMustBeDisposed)
}

func TestBetaNeedsTwoBranches(t *testing.T) {
	codes := checkScript(t, `1. T A|B pre
2. F C conclusion
3. { T A |T 1
}
`)
	require.Equal(t, []string{errors.InvalidBetaRule}, codes)
}

func TestFreshnessViolation(t *testing.T) {
	codes := checkScript(t, `1. T P(x) pre
2. F Ax P(x) conclusion
3. F P(x) AF 2
`)
	require.Contains(t, codes, errors.VariableIsNotFresh)
}

func TestFreshVariableAccepted(t *testing.T) {
	require.Empty(t, checkScript(t, `1. T P(y) pre
2. F Ax P(x) conclusion
3. F P(z) AF 2
`))
}

func TestUniversalSubstitution(t *testing.T) {
	// A closed instance has no candidate terms.
	codes := checkScript(t, `1. T Ax P(x) pre
2. F Q conclusion
3. T Q AT 1
`)
	require.Contains(t, codes, errors.InvalidSubstitutionUniversal)

	require.Empty(t, checkScript(t, `1. T Ax P(x) pre
2. F P(y) conclusion
3. T P(y) AT 1
4. @ closed 2,3
`))
}

func TestUniversalReferenceShape(t *testing.T) {
	codes := checkScript(t, `1. T A pre
2. F B conclusion
3. T A AT 1
`)
	require.Contains(t, codes, errors.InvalidUniversalFormula)
}

func TestExistentialRules(t *testing.T) {
	require.Empty(t, checkScript(t, `1. T Ex P(x) pre
2. F Q conclusion
3. T P(y) ET 1
`))

	codes := checkScript(t, `1. T Ex P(x) pre
2. F P(y) conclusion
3. T P(y) ET 1
`)
	require.Contains(t, codes, errors.VariableIsNotFresh)
}
