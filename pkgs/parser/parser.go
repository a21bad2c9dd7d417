// Package parser implements a recursive descent parser for formulas and
// theorems over the proof-script token stream. The proof-line parser in
// pkgs/proof drives the same Parser type for the formulas embedded in
// proof lines, so all three surfaces share one grammar.
package parser

import (
	"github.com/anita-prover/anita/pkgs/errors"
	"github.com/anita-prover/anita/pkgs/formula"
	"github.com/anita-prover/anita/pkgs/lexer"
)

// Parser walks a token slice. It reports the first syntax error and
// stops; unlike validation errors, syntax errors do not accumulate.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New creates a parser over a token slice (normally lexer.Tokenize output,
// ending in EOF).
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Peek returns the current token without consuming it.
func (p *Parser) Peek() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

// Next consumes and returns the current token.
func (p *Parser) Next() lexer.Token {
	tok := p.Peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// Check reports whether the current token has the given type.
func (p *Parser) Check(tt lexer.TokenType) bool {
	return p.Peek().Type == tt
}

// Expect consumes a token of the given type or reports a syntax error.
func (p *Parser) Expect(tt lexer.TokenType) (lexer.Token, *errors.ProofError) {
	if !p.Check(tt) {
		return lexer.Token{}, p.SyntaxError()
	}
	return p.Next(), nil
}

// AtEnd reports whether only EOF remains.
func (p *Parser) AtEnd() bool {
	return p.Peek().Type == lexer.EOF
}

// SyntaxError builds a syntax error anchored at the current token.
// The args mark end-of-input and out-of-language anchors so the report
// layer can adjust the rendering.
func (p *Parser) SyntaxError() *errors.ProofError {
	tok := p.Peek()
	switch tok.Type {
	case lexer.EOF:
		return errors.New(errors.SyntaxError, tok.Line, tok.Column, "eof")
	case lexer.OUT:
		return errors.New(errors.SyntaxError, tok.Line, tok.Column, "out")
	default:
		return errors.New(errors.SyntaxError, tok.Line, tok.Column)
	}
}

// ParseFormula parses one formula at the current position, stopping at
// the first token that cannot extend it. Precedence from weakest to
// strongest: <->, ->, |, &, quantifiers, ~. All binary connectives are
// right-associative.
func (p *Parser) ParseFormula() (*formula.Formula, *errors.ProofError) {
	return p.parseIff()
}

func (p *Parser) parseIff() (*formula.Formula, *errors.ProofError) {
	left, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	if p.Check(lexer.IFF) {
		p.Next()
		right, err := p.parseIff()
		if err != nil {
			return nil, err
		}
		return formula.Iff(left, right), nil
	}
	return left, nil
}

func (p *Parser) parseImplies() (*formula.Formula, *errors.ProofError) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.Check(lexer.IMPLIES) {
		p.Next()
		right, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		return formula.Implies(left, right), nil
	}
	return left, nil
}

func (p *Parser) parseOr() (*formula.Formula, *errors.ProofError) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	if p.Check(lexer.OR) {
		p.Next()
		right, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		return formula.Or(left, right), nil
	}
	return left, nil
}

func (p *Parser) parseAnd() (*formula.Formula, *errors.ProofError) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.Check(lexer.AND) {
		p.Next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		return formula.And(left, right), nil
	}
	return left, nil
}

// parseUnary handles the prefix operators: negation and the quantifier
// tokens, whose bound variable rides in the token value (Ax, Ey).
func (p *Parser) parseUnary() (*formula.Formula, *errors.ProofError) {
	switch p.Peek().Type {
	case lexer.NOT:
		p.Next()
		body, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return formula.Not(body), nil
	case lexer.ALL:
		tok := p.Next()
		body, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return formula.ForAll(tok.Value[1:], body), nil
	case lexer.EXT:
		tok := p.Next()
		body, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return formula.Exists(tok.Value[1:], body), nil
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() (*formula.Formula, *errors.ProofError) {
	switch p.Peek().Type {
	case lexer.ATOM:
		tok := p.Next()
		if p.Check(lexer.LPAREN) {
			p.Next()
			args, err := p.parseVarList()
			if err != nil {
				return nil, err
			}
			if _, err := p.Expect(lexer.RPAREN); err != nil {
				return nil, err
			}
			return formula.Pred(tok.Value, args...), nil
		}
		return formula.Atom(tok.Value), nil
	case lexer.BOTTOM:
		p.Next()
		return formula.Bottom(), nil
	case lexer.LPAREN:
		p.Next()
		f, err := p.ParseFormula()
		if err != nil {
			return nil, err
		}
		if _, err := p.Expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, p.SyntaxError()
	}
}

func (p *Parser) parseVarList() ([]string, *errors.ProofError) {
	tok, err := p.Expect(lexer.VAR)
	if err != nil {
		return nil, err
	}
	args := []string{tok.Value}
	for p.Check(lexer.COMMA) {
		p.Next()
		tok, err := p.Expect(lexer.VAR)
		if err != nil {
			return nil, err
		}
		args = append(args, tok.Value)
	}
	return args, nil
}

// Formula parses a standalone formula string.
func Formula(input string) (*formula.Formula, *errors.ProofError) {
	p := New(lexer.Tokenize(input))
	f, err := p.ParseFormula()
	if err != nil {
		return nil, err
	}
	if !p.AtEnd() {
		return nil, p.SyntaxError()
	}
	return f, nil
}

// Theorem parses "phi1, ..., phin |- psi" (or "|=" for the turnstile).
// An empty premise list is written "|- psi".
func Theorem(input string) ([]*formula.Formula, *formula.Formula, *errors.ProofError) {
	p := New(lexer.Tokenize(input))

	var premises []*formula.Formula
	if !p.Check(lexer.VDASH) {
		for {
			f, err := p.ParseFormula()
			if err != nil {
				return nil, nil, err
			}
			premises = append(premises, f)
			if !p.Check(lexer.COMMA) {
				break
			}
			p.Next()
		}
	}

	if _, err := p.Expect(lexer.VDASH); err != nil {
		return nil, nil, err
	}
	conclusion, err := p.ParseFormula()
	if err != nil {
		return nil, nil, err
	}
	if !p.AtEnd() {
		return nil, nil, p.SyntaxError()
	}
	return premises, conclusion, nil
}
