package proof

import (
	"strconv"

	"github.com/anita-prover/anita/pkgs/errors"
	"github.com/anita-prover/anita/pkgs/formula"
	"github.com/anita-prover/anita/pkgs/lexer"
	"github.com/anita-prover/anita/pkgs/parser"
)

// ParseScript parses a proof script into a tableau. Classification
// problems (wrong sign, alpha written as beta, ...) are accumulated and
// returned alongside the tableau; a genuine syntax error aborts parsing
// and is returned as the third value with no tableau.
func ParseScript(input string) (*Tableau, []*errors.ProofError, *errors.ProofError) {
	s := &scriptParser{
		p:      parser.New(lexer.Tokenize(input)),
		t:      newTableau(),
		rules:  make(map[int]*Rule),
		elided: make(map[int]bool),
	}

	if s.p.AtEnd() {
		tok := s.p.Peek()
		return nil, nil, errors.New(errors.SyntaxError, tok.Line, tok.Column, "empty")
	}
	for !s.p.AtEnd() {
		if err := s.parseStep(); err != nil {
			return nil, nil, err
		}
	}
	// Branches opened by the "N. } ..." sibling form have no closing
	// delimiter of their own: they end with the script (or an enclosing
	// '}'), so seal any still open at their last rule.
	for id := range s.elided {
		if b := s.t.Branches[id]; b.EndLine == 0 && len(b.Rules) > 0 {
			b.EndLine = b.LastRule().Line
		}
	}
	s.t.buildLineIndex()
	return s.t, s.errs, nil
}

type scriptParser struct {
	p     *parser.Parser
	t     *Tableau
	rules map[int]*Rule
	errs  []*errors.ProofError

	// elided records branches opened by an inline '}' sibling step; they
	// are auto-closed at end of input.
	elided       map[int]bool
	elidePending bool
}

func (s *scriptParser) addError(code string, tok lexer.Token, args ...any) {
	s.errs = append(s.errs, errors.New(code, tok.Line, tok.Column, args...))
}

// openBranch opens a child branch, remembering whether it came from the
// inline sibling form and therefore closes implicitly.
func (s *scriptParser) openBranch(line int) {
	s.t.openBranch(line)
	if s.elidePending {
		s.elided[s.t.current] = true
	}
}

// insert records the rule in the current branch and the line lookup used
// by rule-kind inference.
func (s *scriptParser) insert(r *Rule) {
	s.t.insert(r)
	if _, exists := s.rules[r.Line]; !exists {
		s.rules[r.Line] = r
	}
}

// parseStep consumes one proof step: a numbered line or a closing brace.
func (s *scriptParser) parseStep() *errors.ProofError {
	if s.p.Check(lexer.RBRACE) {
		tok := s.p.Next()
		s.closeBox(tok)
		return nil
	}

	lineTok, err := s.p.Expect(lexer.NUM)
	if err != nil {
		return err
	}
	if _, err := s.p.Expect(lexer.DOT); err != nil {
		return err
	}
	line, _ := strconv.Atoi(lineTok.Value)

	// "N. { rule" opens the first branch of a split; "N. } rule" closes
	// the current branch and opens its sibling in one step.
	opened := false
	s.elidePending = false
	switch {
	case s.p.Check(lexer.LBRACE):
		s.p.Next()
		opened = true
	case s.p.Check(lexer.RBRACE):
		tok := s.p.Next()
		s.closeBox(tok)
		opened = true
		s.elidePending = true
	}

	switch s.p.Peek().Type {
	case lexer.TRUE, lexer.FALSE:
		return s.parseSignedLine(lineTok, line, opened)
	default:
		// Closure lines carry no sign and never open a branch.
		if opened {
			return s.p.SyntaxError()
		}
		return s.parseClosedLine(lineTok, line)
	}
}

func (s *scriptParser) parseSignedLine(lineTok lexer.Token, line int, opened bool) *errors.ProofError {
	signTok := s.p.Next()
	sign := SignT
	if signTok.Type == lexer.FALSE {
		sign = SignF
	}

	formulaTok := s.p.Peek()
	f, err := s.p.ParseFormula()
	if err != nil {
		return err
	}

	r := &Rule{
		Line:       line,
		Sign:       sign,
		Formula:    f,
		LineTok:    lineTok,
		SignTok:    signTok,
		FormulaTok: formulaTok,
	}

	switch tok := s.p.Peek(); tok.Type {
	case lexer.PREMISE:
		if opened {
			return s.p.SyntaxError()
		}
		s.p.Next()
		r.Kind = KindPremise
		r.Named = true
		s.insert(r)
		if sign == SignF {
			s.addError(errors.PremiseShouldBeTrue, signTok)
		}
		return nil

	case lexer.CONCLUSION:
		if opened {
			return s.p.SyntaxError()
		}
		s.p.Next()
		r.Kind = KindConclusion
		r.Named = true
		s.insert(r)
		if sign == SignT {
			s.addError(errors.ConclusionShouldBeFalse, signTok)
		}
		return nil

	case lexer.NUM:
		refTok := s.p.Next()
		r.Ref1Tok = refTok
		r.Ref1, _ = strconv.Atoi(refTok.Value)
		s.inferRuleKind(r, opened)
		return nil

	default:
		if !lexer.IsRuleName(tok.Type) {
			return s.p.SyntaxError()
		}
		nameTok := s.p.Next()
		refTok, err := s.p.Expect(lexer.NUM)
		if err != nil {
			return err
		}
		r.Named = true
		r.NameTok = nameTok
		r.Ref1Tok = refTok
		r.Ref1, _ = strconv.Atoi(refTok.Value)
		return s.classifyNamedRule(r, nameTok, opened)
	}
}

// classifyNamedRule applies the grammar's bracket constraints and the
// parse-time sign checks for an explicitly named rule.
func (s *scriptParser) classifyNamedRule(r *Rule, nameTok lexer.Token, opened bool) *errors.ProofError {
	type namedShape struct {
		kind      RuleKind
		branching bool
		wrongSign Sign // sign that triggers WrongTrueValue; NoSign disables
	}
	shapes := map[lexer.TokenType]namedShape{
		lexer.AND_TRUE:  {KindAndT, false, SignF},
		lexer.AND_FALSE: {KindAndF, true, SignT},
		lexer.OR_TRUE:   {KindOrT, true, SignF},
		lexer.IMP_TRUE:  {KindImpT, true, NoSign},
		lexer.IMP_FALSE: {KindImpF, false, NoSign},
		lexer.NEG_TRUE:  {KindNegT, false, SignT},
		lexer.NEG_FALSE: {KindNegF, false, SignF},
		lexer.ALL_TRUE:  {KindAllT, false, SignF},
		lexer.ALL_FALSE: {KindAllF, false, SignT},
		lexer.EXT_TRUE:  {KindExT, false, SignF},
		lexer.EXT_FALSE: {KindExF, false, SignT},
	}

	// |F has its own degenerate path: with sign T the line still parses,
	// but as an unclassified rule flagged "must be beta".
	if nameTok.Type == lexer.OR_FALSE {
		if opened {
			return s.p.SyntaxError()
		}
		if r.Sign == SignT {
			r.Kind = KindGeneric
			s.insert(r)
			s.addError(errors.RuleMustBeBeta, r.Ref1Tok)
			return nil
		}
		r.Kind = KindOrF
		s.insert(r)
		return nil
	}

	shape, ok := shapes[nameTok.Type]
	if !ok || shape.branching != opened {
		return s.p.SyntaxError()
	}
	r.Kind = shape.kind
	if shape.branching {
		s.openBranch(r.Line)
	}
	s.insert(r)
	if shape.wrongSign != NoSign && r.Sign == shape.wrongSign {
		s.addError(errors.WrongTrueValue, r.SignTok, r.Sign.Opposite())
	}
	return nil
}

// inferRuleKind classifies a bare-reference line from the shape and sign
// of the referenced formula.
func (s *scriptParser) inferRuleKind(r *Rule, opened bool) {
	var refFormula *formula.Formula
	refSign := NoSign
	if ref := s.rules[r.Ref1]; ref != nil {
		refFormula = ref.Formula
		if ref.Kind != KindClosed {
			refSign = ref.Sign
		}
	}

	kind := inferredKind(refFormula, refSign)

	if !opened {
		switch {
		case kind == KindGeneric:
			r.Kind = KindGeneric
			s.insert(r)
			s.addError(errors.RuleCannotBeApplied, r.Ref1Tok)
		case kind.IsBeta():
			r.Kind = KindGeneric
			s.insert(r)
			s.addError(errors.RuleMustBeBeta, r.Ref1Tok)
		default:
			r.Kind = kind
			s.insert(r)
			if w := inferredWrongSign(kind); w != NoSign && r.Sign == w {
				s.addError(errors.WrongTrueValue, r.SignTok, r.Sign.Opposite())
			}
		}
		return
	}

	switch {
	case kind == KindGeneric:
		// An unclassifiable reference under '{' records the line without
		// opening a branch; the brace is effectively dangling.
		r.Kind = KindGeneric
		s.insert(r)
		s.addError(errors.RuleCannotBeApplied, r.Ref1Tok)
	case kind.IsBeta():
		r.Kind = kind
		s.openBranch(r.Line)
		s.insert(r)
		if w := inferredWrongSign(kind); w != NoSign && r.Sign == w {
			s.addError(errors.WrongTrueValue, r.SignTok, r.Sign.Opposite())
		}
	default:
		r.Kind = KindGeneric
		s.openBranch(r.Line)
		s.insert(r)
		s.addError(errors.RuleMustBeAlpha, r.Ref1Tok)
	}
}

// inferredKind maps (referenced formula shape, referenced sign) to the
// rule kind it decomposes under.
func inferredKind(f *formula.Formula, sign Sign) RuleKind {
	if f == nil {
		return KindGeneric
	}
	switch {
	case f.IsConjunction() && sign == SignT:
		return KindAndT
	case f.IsConjunction() && sign == SignF:
		return KindAndF
	case f.IsDisjunction() && sign == SignF:
		return KindOrF
	case f.IsDisjunction() && sign == SignT:
		return KindOrT
	case f.IsImplication() && sign == SignF:
		return KindImpF
	case f.IsImplication() && sign == SignT:
		return KindImpT
	case f.Kind == formula.KindNot && sign == SignT:
		return KindNegT
	case f.Kind == formula.KindNot && sign == SignF:
		return KindNegF
	case f.IsUniversal() && sign == SignT:
		return KindAllT
	case f.IsUniversal() && sign == SignF:
		return KindAllF
	case f.IsExistential() && sign == SignT:
		return KindExT
	case f.IsExistential() && sign == SignF:
		return KindExF
	}
	return KindGeneric
}

// inferredWrongSign returns the sign that is flagged WrongTrueValue when
// the rule kind was inferred. Implication rules skip the check, matching
// the named-rule grammar.
func inferredWrongSign(k RuleKind) Sign {
	switch k {
	case KindNegT:
		return SignT
	case KindNegF:
		return SignF
	case KindAndT, KindAllT, KindExT:
		return SignF
	case KindOrF, KindAndF, KindAllF, KindExF:
		return SignT
	case KindOrT:
		return SignF
	}
	return NoSign
}

func (s *scriptParser) parseClosedLine(lineTok lexer.Token, line int) *errors.ProofError {
	formulaTok := s.p.Peek()
	f, err := s.p.ParseFormula()
	if err != nil {
		return err
	}

	named := false
	if s.p.Check(lexer.CLOSED) {
		s.p.Next()
		named = true
	}
	ref1Tok, err := s.p.Expect(lexer.NUM)
	if err != nil {
		return err
	}
	if _, err := s.p.Expect(lexer.COMMA); err != nil {
		return err
	}
	ref2Tok, err := s.p.Expect(lexer.NUM)
	if err != nil {
		return err
	}

	r := &Rule{
		Line:       line,
		Kind:       KindClosed,
		Formula:    f,
		Named:      named,
		LineTok:    lineTok,
		FormulaTok: formulaTok,
		Ref1Tok:    ref1Tok,
		Ref2Tok:    ref2Tok,
	}
	r.Ref1, _ = strconv.Atoi(ref1Tok.Value)
	r.Ref2, _ = strconv.Atoi(ref2Tok.Value)
	s.insert(r)
	return nil
}

// closeBox handles a bare '}' step: it seals the current branch at its
// last rule's line.
func (s *scriptParser) closeBox(tok lexer.Token) {
	last := s.t.currentBranch().LastRule()
	if last == nil {
		s.addError(errors.BoxMustBeDisposedByRule, tok)
		return
	}
	if s.t.current != 0 {
		s.t.closeBranch(last.Line)
		return
	}
	s.addError(errors.CloseBracketWithoutBox, tok)
}
