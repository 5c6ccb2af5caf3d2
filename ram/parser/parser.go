package parser

import (
	"strconv"
	"strings"

	"github.com/ramlens/ramlens/ram"
)

// Parser parses RAM tokens into the typed tree.
type Parser struct {
	lexer *Lexer
}

// NewParser creates a parser over a lexed input.
func NewParser(lexer *Lexer) *Parser {
	return &Parser{lexer: lexer}
}

// Parse lexes and parses a full RAM program.
func Parse(input string) (*ram.Program, error) {
	lexer := NewLexer(input)
	if err := lexer.Lex(); err != nil {
		return nil, err
	}
	return NewParser(lexer).ParseProgram()
}

// ParseProgram reads PROGRAM ... END PROGRAM.
func (p *Parser) ParseProgram() (*ram.Program, error) {
	if err := p.expectKeyword("PROGRAM"); err != nil {
		return nil, err
	}

	prog := &ram.Program{}
	for !p.peekKeyword("END") {
		sub, err := p.parseSubroutine()
		if err != nil {
			return nil, err
		}
		prog.Subroutines = append(prog.Subroutines, sub)
	}

	p.lexer.NextToken() // END
	if err := p.expectKeyword("PROGRAM"); err != nil {
		return nil, err
	}
	if tok := p.lexer.PeekToken(); tok.Type != TokenEOF {
		return nil, errorf(tok, "trailing input after END PROGRAM")
	}
	return prog, nil
}

func (p *Parser) parseSubroutine() (ram.Subroutine, error) {
	if err := p.expectKeyword("SUBROUTINE"); err != nil {
		return ram.Subroutine{}, err
	}
	nameTok := p.lexer.NextToken()
	if nameTok.Type != TokenIdent {
		return ram.Subroutine{}, errorf(nameTok, "expected subroutine name, got %s", nameTok)
	}
	stratum, err := ram.StratumFromName(nameTok.Value)
	if err != nil {
		return ram.Subroutine{}, errorf(nameTok, "%v", err)
	}

	sub := ram.Subroutine{Name: nameTok.Value, Stratum: stratum}
	for !p.peekKeyword("END") {
		stmt, err := p.parseStatement()
		if err != nil {
			return ram.Subroutine{}, err
		}
		sub.Statements = append(sub.Statements, stmt)
	}

	p.lexer.NextToken() // END
	if err := p.expectKeyword("SUBROUTINE"); err != nil {
		return ram.Subroutine{}, err
	}
	return sub, nil
}

func (p *Parser) parseStatement() (ram.Statement, error) {
	tok := p.lexer.PeekToken()
	if tok.Type != TokenIdent {
		return nil, errorf(tok, "expected statement, got %s", tok)
	}

	switch tok.Value {
	case "LOOP":
		p.lexer.NextToken()
		var body []ram.Statement
		for !p.peekKeyword("END") {
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			body = append(body, stmt)
		}
		p.lexer.NextToken() // END
		if err := p.expectKeyword("LOOP"); err != nil {
			return nil, err
		}
		return ram.Loop{Body: body}, nil

	case "QUERY":
		p.lexer.NextToken()
		op, err := p.parseOperation()
		if err != nil {
			return nil, err
		}
		return ram.Query{Op: op}, nil

	case "DEBUG":
		p.lexer.NextToken()
		info, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		inner, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return ram.Debug{Info: info, Inner: inner}, nil

	case "CLEAR":
		p.lexer.NextToken()
		rel, err := p.parseRelationRef()
		if err != nil {
			return nil, err
		}
		return ram.Clear{Relation: rel}, nil

	case "SWAP":
		p.lexer.NextToken()
		if err := p.expect(TokenLParen, "("); err != nil {
			return nil, err
		}
		a, err := p.parseRelationRef()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenComma, ","); err != nil {
			return nil, err
		}
		b, err := p.parseRelationRef()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen, ")"); err != nil {
			return nil, err
		}
		return ram.Swap{A: a, B: b}, nil

	case "EXIT":
		p.lexer.NextToken()
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		return ram.Exit{Cond: cond}, nil

	case "IO":
		p.lexer.NextToken()
		rel, err := p.parseRelationRef()
		if err != nil {
			return nil, err
		}
		opts, err := p.parseMappingLiteral()
		if err != nil {
			return nil, err
		}
		return ram.IO{Relation: rel, Options: opts}, nil

	default:
		return nil, errorf(tok, "unrecognized statement %q", tok.Value)
	}
}

func (p *Parser) parseOperation() (ram.Operation, error) {
	tok := p.lexer.PeekToken()
	if tok.Type != TokenIdent {
		return nil, errorf(tok, "expected operation, got %s", tok)
	}

	switch tok.Value {
	case "FOR":
		p.lexer.NextToken()
		boundTok := p.lexer.NextToken()
		if boundTok.Type != TokenIdent {
			return nil, errorf(boundTok, "expected tuple variable, got %s", boundTok)
		}
		if err := p.expectKeyword("IN"); err != nil {
			return nil, err
		}
		rel, err := p.parseRelationRef()
		if err != nil {
			return nil, err
		}
		var onIndex ram.Condition
		if p.peekKeyword("ON") {
			p.lexer.NextToken()
			if err := p.expectKeyword("INDEX"); err != nil {
				return nil, err
			}
			if onIndex, err = p.parseCondition(); err != nil {
				return nil, err
			}
		}
		inner, err := p.parseOperation()
		if err != nil {
			return nil, err
		}
		return ram.ForLoop{BoundVar: boundTok.Value, Relation: rel, OnIndex: onIndex, Inner: inner}, nil

	case "IF":
		p.lexer.NextToken()
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		var onIndex ram.Condition
		if p.peekKeyword("ON") {
			p.lexer.NextToken()
			if err := p.expectKeyword("INDEX"); err != nil {
				return nil, err
			}
			if onIndex, err = p.parseCondition(); err != nil {
				return nil, err
			}
		}
		breaks := false
		if p.peekKeyword("BREAK") {
			p.lexer.NextToken()
			breaks = true
		}
		inner, err := p.parseOperation()
		if err != nil {
			return nil, err
		}
		return ram.If{Cond: cond, OnIndex: onIndex, Breaks: breaks, Inner: inner}, nil

	case "UNPACK":
		p.lexer.NextToken()
		identTok := p.lexer.NextToken()
		if identTok.Type != TokenIdent {
			return nil, errorf(identTok, "expected identifier, got %s", identTok)
		}
		if err := p.expectKeyword("FROM"); err != nil {
			return nil, err
		}
		ref, err := p.parseRef()
		if err != nil {
			return nil, err
		}
		inner, err := p.parseOperation()
		if err != nil {
			return nil, err
		}
		return ram.Unpack{Ident: identTok.Value, Ref: ref, Inner: inner}, nil

	case "DECLARE":
		p.lexer.NextToken()
		target, err := p.parseRef()
		if err != nil {
			return nil, err
		}
		if err := p.expectOp("="); err != nil {
			return nil, err
		}
		aggTok := p.lexer.NextToken()
		agg, ok := aggregators[aggTok.Value]
		if !ok {
			return nil, errorf(aggTok, "unrecognized aggregator %q", aggTok.Value)
		}
		boundTok := p.lexer.NextToken()
		if boundTok.Type != TokenIdent {
			return nil, errorf(boundTok, "expected tuple variable, got %s", boundTok)
		}
		if err := p.expectKeyword("IN"); err != nil {
			return nil, err
		}
		rel, err := p.parseRelationRef()
		if err != nil {
			return nil, err
		}
		inner, err := p.parseOperation()
		if err != nil {
			return nil, err
		}
		return ram.Declare{Target: target, Aggregator: agg, BoundVar: boundTok.Value, Source: rel, Inner: inner}, nil

	case "INSERT":
		p.lexer.NextToken()
		tuple, err := p.parseTupleExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("INTO"); err != nil {
			return nil, err
		}
		rel, err := p.parseRelationRef()
		if err != nil {
			return nil, err
		}
		return ram.Insert{Tuple: tuple, Relation: rel}, nil

	case "ERASE":
		p.lexer.NextToken()
		tuple, err := p.parseTupleExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("FROM"); err != nil {
			return nil, err
		}
		rel, err := p.parseRelationRef()
		if err != nil {
			return nil, err
		}
		return ram.Erase{Tuple: tuple, Relation: rel}, nil

	default:
		return nil, errorf(tok, "unrecognized operation %q", tok.Value)
	}
}

var aggregators = map[string]ram.Aggregator{
	"COUNT": ram.AggCount,
	"SUM":   ram.AggSum,
	"MIN":   ram.AggMin,
	"MAX":   ram.AggMax,
	"MEAN":  ram.AggMean,
}

// generationTags maps the tag spellings glued to relation names.
var generationTags = map[string]ram.GenerationTag{
	"@delta_":  ram.TagCurrent,
	"@new_":    ram.TagNext,
	"@delete_": ram.TagDelete,
	"@reject_": ram.TagReject,
}

func (p *Parser) parseRelationRef() (ram.RelationRef, error) {
	tok := p.lexer.NextToken()
	if tok.Type != TokenIdent {
		return ram.RelationRef{}, errorf(tok, "expected relation name, got %s", tok)
	}

	name := tok.Value
	tag := ram.TagNone
	if strings.HasPrefix(name, "@") {
		found := false
		for spelling, t := range generationTags {
			if strings.HasPrefix(name, spelling) {
				tag = t
				name = name[len(spelling):]
				found = true
				break
			}
		}
		if !found {
			return ram.RelationRef{}, errorf(tok, "unrecognized relation tag in %q", tok.Value)
		}
		if name == "" {
			return ram.RelationRef{}, errorf(tok, "relation tag %q without a name", tok.Value)
		}
	}

	// Qualified name: dot-separated identifier segments. A dot followed by a
	// number is a tuple element reference, never part of a relation name.
	for p.lexer.PeekToken().Type == TokenDot && p.peekAfterDot().Type == TokenIdent {
		p.lexer.NextToken() // .
		seg := p.lexer.NextToken()
		name += "." + seg.Value
	}
	return ram.RelationRef{Tag: tag, Name: name}, nil
}

// parseRef reads a tuple element reference t.i.
func (p *Parser) parseRef() (ram.TupleElement, error) {
	tok := p.lexer.NextToken()
	if tok.Type != TokenIdent {
		return nil, errorf(tok, "expected tuple reference, got %s", tok)
	}
	if err := p.expect(TokenDot, "."); err != nil {
		return nil, err
	}
	idxTok := p.lexer.NextToken()
	if idxTok.Type != TokenNumber {
		return nil, errorf(idxTok, "expected column index, got %s", idxTok)
	}
	idx, err := strconv.Atoi(idxTok.Value)
	if err != nil {
		return nil, errorf(idxTok, "bad column index %q", idxTok.Value)
	}
	return ram.Ref{Tuple: tok.Value, Column: idx}, nil
}

// parseTupleExpr reads a parenthesized, comma-separated element list.
func (p *Parser) parseTupleExpr() ([]ram.TupleElement, error) {
	if err := p.expect(TokenLParen, "("); err != nil {
		return nil, err
	}
	var elems []ram.TupleElement
	for p.lexer.PeekToken().Type != TokenRParen {
		elem, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		if p.lexer.PeekToken().Type == TokenComma {
			p.lexer.NextToken()
		} else {
			break
		}
	}
	if err := p.expect(TokenRParen, ")"); err != nil {
		return nil, err
	}
	return elems, nil
}

// Conditions. OR binds loosest, then AND, then NOT.

func (p *Parser) parseCondition() (ram.Condition, error) {
	first, err := p.parseAndCondition()
	if err != nil {
		return nil, err
	}
	list := []ram.Condition{first}
	for p.peekKeyword("OR") {
		p.lexer.NextToken()
		next, err := p.parseAndCondition()
		if err != nil {
			return nil, err
		}
		list = append(list, next)
	}
	if len(list) == 1 {
		return first, nil
	}
	return ram.Or{List: list}, nil
}

func (p *Parser) parseAndCondition() (ram.Condition, error) {
	first, err := p.parseNotCondition()
	if err != nil {
		return nil, err
	}
	list := []ram.Condition{first}
	for p.peekKeyword("AND") {
		p.lexer.NextToken()
		next, err := p.parseNotCondition()
		if err != nil {
			return nil, err
		}
		list = append(list, next)
	}
	if len(list) == 1 {
		return first, nil
	}
	return ram.And{List: list}, nil
}

func (p *Parser) parseNotCondition() (ram.Condition, error) {
	if p.peekKeyword("NOT") {
		p.lexer.NextToken()
		inner, err := p.parseNotCondition()
		if err != nil {
			return nil, err
		}
		return ram.Not{Cond: inner}, nil
	}
	return p.parseAtomCondition()
}

func (p *Parser) parseAtomCondition() (ram.Condition, error) {
	tok := p.lexer.PeekToken()

	switch {
	case tok.Type == TokenIdent && tok.Value == "EXISTS":
		p.lexer.NextToken()
		boundTok := p.lexer.NextToken()
		if boundTok.Type != TokenIdent {
			return nil, errorf(boundTok, "expected tuple variable, got %s", boundTok)
		}
		if err := p.expectKeyword("IN"); err != nil {
			return nil, err
		}
		rel, err := p.parseRelationRef()
		if err != nil {
			return nil, err
		}
		return ram.Exists{BoundVar: boundTok.Value, Relation: rel}, nil

	case tok.Type == TokenIdent && tok.Value == "ISEMPTY":
		p.lexer.NextToken()
		if err := p.expect(TokenLParen, "("); err != nil {
			return nil, err
		}
		rel, err := p.parseRelationRef()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen, ")"); err != nil {
			return nil, err
		}
		return ram.IsEmpty{Relation: rel}, nil

	case tok.Type == TokenLParen:
		return p.parseParenCondition()

	default:
		return p.parseComparison()
	}
}

// parseParenCondition disambiguates the three condition shapes that open
// with a parenthesis: tuple membership `(e, ...) IN rel`, a comparison whose
// left side is bracketed, and an explicitly bracketed condition.
func (p *Parser) parseParenCondition() (ram.Condition, error) {
	after := p.tokenAfterMatchingParen()
	if after.Type == TokenIdent && after.Value == "IN" {
		elems, err := p.parseTupleExpr()
		if err != nil {
			return nil, err
		}
		p.lexer.NextToken() // IN
		rel, err := p.parseRelationRef()
		if err != nil {
			return nil, err
		}
		return ram.In{Elems: elems, Relation: rel}, nil
	}
	if after.Type == TokenOp && comparators[after.Value] {
		return p.parseComparison()
	}

	p.lexer.NextToken() // (
	inner, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenRParen, ")"); err != nil {
		return nil, err
	}
	return ram.BracketedCond{Cond: inner}, nil
}

var comparators = map[string]bool{
	"=": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

func (p *Parser) parseComparison() (ram.Condition, error) {
	lhs, err := p.parseElement()
	if err != nil {
		return nil, err
	}
	opTok := p.lexer.NextToken()
	if opTok.Type != TokenOp || !comparators[opTok.Value] {
		return nil, errorf(opTok, "expected comparison operator, got %s", opTok)
	}
	rhs, err := p.parseElement()
	if err != nil {
		return nil, err
	}
	return ram.Compare{LHS: lhs, Op: ram.CompareOp(opTok.Value), RHS: rhs}, nil
}

// Tuple elements. + and - chain left-associatively; a change of operator
// nests the chain built so far.

func (p *Parser) parseElement() (ram.TupleElement, error) {
	first, err := p.parsePrimaryElement()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.lexer.PeekToken()
		if tok.Type != TokenOp || (tok.Value != "+" && tok.Value != "-") {
			return first, nil
		}
		op := tok.Value
		list := []ram.TupleElement{first}
		for p.lexer.PeekToken().Type == TokenOp && p.lexer.PeekToken().Value == op {
			p.lexer.NextToken()
			next, err := p.parsePrimaryElement()
			if err != nil {
				return nil, err
			}
			list = append(list, next)
		}
		if op == "+" {
			first = ram.Add{List: list}
		} else {
			first = ram.Sub{List: list}
		}
	}
}

func (p *Parser) parsePrimaryElement() (ram.TupleElement, error) {
	tok := p.lexer.PeekToken()

	switch tok.Type {
	case TokenNumber, TokenFloat, TokenString:
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return ram.Literal{Value: v}, nil

	case TokenOp:
		if tok.Value == "-" {
			v, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			return ram.Literal{Value: v}, nil
		}
		return nil, errorf(tok, "unexpected %q in tuple element", tok.Value)

	case TokenLParen:
		p.lexer.NextToken()
		inner, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen, ")"); err != nil {
			return nil, err
		}
		return ram.BracketedElem{Elem: inner}, nil

	case TokenLBracket:
		p.lexer.NextToken()
		var list []ram.TupleElement
		for p.lexer.PeekToken().Type != TokenRBracket {
			elem, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			list = append(list, elem)
			if p.lexer.PeekToken().Type == TokenComma {
				p.lexer.NextToken()
			} else {
				break
			}
		}
		if err := p.expect(TokenRBracket, "]"); err != nil {
			return nil, err
		}
		return ram.Record{List: list}, nil

	case TokenIdent:
		switch tok.Value {
		case "UNDEF":
			p.lexer.NextToken()
			return ram.Undefined{}, nil
		case "true", "false", "null":
			v, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			return ram.Literal{Value: v}, nil
		}
		if p.peekAfterIdent().Type == TokenLParen {
			return p.parseFunctorCall()
		}
		return p.parseRef()

	default:
		return nil, errorf(tok, "expected tuple element, got %s", tok)
	}
}

func (p *Parser) parseFunctorCall() (ram.TupleElement, error) {
	nameTok := p.lexer.NextToken()
	functor := ram.Functor{Name: nameTok.Value}
	if strings.HasPrefix(functor.Name, "@") {
		functor = ram.Functor{Name: functor.Name[1:], UserDefined: true}
		if functor.Name == "" {
			return nil, errorf(nameTok, "user-defined functor without a name")
		}
	}

	if err := p.expect(TokenLParen, "("); err != nil {
		return nil, err
	}
	var args []ram.TupleElement
	for p.lexer.PeekToken().Type != TokenRParen {
		arg, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.lexer.PeekToken().Type == TokenComma {
			p.lexer.NextToken()
		} else {
			break
		}
	}
	if err := p.expect(TokenRParen, ")"); err != nil {
		return nil, err
	}
	return ram.FunctorCall{Functor: functor, Args: args}, nil
}

// Token helpers.

func (p *Parser) expect(typ TokenType, what string) error {
	tok := p.lexer.NextToken()
	if tok.Type != typ {
		return errorf(tok, "expected %q, got %s", what, tok)
	}
	return nil
}

func (p *Parser) expectKeyword(kw string) error {
	tok := p.lexer.NextToken()
	if tok.Type != TokenIdent || tok.Value != kw {
		return errorf(tok, "expected %s, got %s", kw, tok)
	}
	return nil
}

func (p *Parser) expectOp(op string) error {
	tok := p.lexer.NextToken()
	if tok.Type != TokenOp || tok.Value != op {
		return errorf(tok, "expected %q, got %s", op, tok)
	}
	return nil
}

func (p *Parser) peekKeyword(kw string) bool {
	tok := p.lexer.PeekToken()
	return tok.Type == TokenIdent && tok.Value == kw
}

func (p *Parser) peekAt(offset int) Token {
	idx := p.lexer.current + offset
	if idx >= len(p.lexer.tokens) {
		idx = len(p.lexer.tokens) - 1
	}
	return p.lexer.tokens[idx]
}

func (p *Parser) peekAfterDot() Token {
	return p.peekAt(1)
}

func (p *Parser) peekAfterIdent() Token {
	return p.peekAt(1)
}

// tokenAfterMatchingParen returns the token following the parenthesized
// group that starts at the current token, without consuming anything.
func (p *Parser) tokenAfterMatchingParen() Token {
	depth := 0
	for offset := 0; ; offset++ {
		tok := p.peekAt(offset)
		switch tok.Type {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
			if depth == 0 {
				return p.peekAt(offset + 1)
			}
		case TokenEOF:
			return tok
		}
	}
}
