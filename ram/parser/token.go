// Package parser turns the compiler's textual RAM dump into the typed tree
// of package ram. The dialect is keyword-led, so a recursive-descent parser
// over a flat token stream covers it without lookahead beyond one token.
package parser

import "fmt"

// TokenType classifies a lexical token of the RAM dialect.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenNumber
	TokenFloat
	TokenString
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenDot
	TokenColon
	TokenOp // = != < <= > >= + -
)

// Token is one lexical token with its source position.
type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
}

// String returns a diagnostic rendering of the token.
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return fmt.Sprintf("EOF[%d:%d]", t.Line, t.Col)
	case TokenString:
		return fmt.Sprintf("String[%d:%d]:%q", t.Line, t.Col, t.Value)
	case TokenIdent:
		return fmt.Sprintf("Ident[%d:%d]:%s", t.Line, t.Col, t.Value)
	case TokenNumber:
		return fmt.Sprintf("Number[%d:%d]:%s", t.Line, t.Col, t.Value)
	case TokenFloat:
		return fmt.Sprintf("Float[%d:%d]:%s", t.Line, t.Col, t.Value)
	case TokenOp:
		return fmt.Sprintf("Op[%d:%d]:%s", t.Line, t.Col, t.Value)
	default:
		return fmt.Sprintf("Punct[%d:%d]:%s", t.Line, t.Col, t.Value)
	}
}

// ParseError reports a grammar mismatch in the RAM text: either a lexical
// error or a node shape the tree model does not recognize.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ram parse error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func errorf(tok Token, format string, args ...interface{}) error {
	return &ParseError{Line: tok.Line, Col: tok.Col, Msg: fmt.Sprintf(format, args...)}
}
