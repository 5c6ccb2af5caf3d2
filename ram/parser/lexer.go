package parser

import (
	"strings"
	"unicode"
)

// Lexer tokenizes RAM IR text.
type Lexer struct {
	input   string
	pos     int
	line    int
	col     int
	tokens  []Token
	current int
}

// NewLexer creates a lexer over the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
		col:   1,
	}
}

// Lex tokenizes the entire input.
func (l *Lexer) Lex() error {
	for l.pos < len(l.input) {
		l.skipWhitespaceAndComments()
		if l.pos >= len(l.input) {
			break
		}

		startLine := l.line
		startCol := l.col

		ch := l.peek()
		switch {
		case ch == '"':
			str, err := l.readString()
			if err != nil {
				return err
			}
			l.emit(Token{Type: TokenString, Value: str, Line: startLine, Col: startCol})

		case ch == '(':
			l.advance()
			l.emit(Token{Type: TokenLParen, Value: "(", Line: startLine, Col: startCol})
		case ch == ')':
			l.advance()
			l.emit(Token{Type: TokenRParen, Value: ")", Line: startLine, Col: startCol})
		case ch == '[':
			l.advance()
			l.emit(Token{Type: TokenLBracket, Value: "[", Line: startLine, Col: startCol})
		case ch == ']':
			l.advance()
			l.emit(Token{Type: TokenRBracket, Value: "]", Line: startLine, Col: startCol})
		case ch == '{':
			l.advance()
			l.emit(Token{Type: TokenLBrace, Value: "{", Line: startLine, Col: startCol})
		case ch == '}':
			l.advance()
			l.emit(Token{Type: TokenRBrace, Value: "}", Line: startLine, Col: startCol})
		case ch == ',':
			l.advance()
			l.emit(Token{Type: TokenComma, Value: ",", Line: startLine, Col: startCol})
		case ch == '.':
			l.advance()
			l.emit(Token{Type: TokenDot, Value: ".", Line: startLine, Col: startCol})
		case ch == ':':
			l.advance()
			l.emit(Token{Type: TokenColon, Value: ":", Line: startLine, Col: startCol})

		case ch == '=' || ch == '+' || ch == '-':
			l.advance()
			l.emit(Token{Type: TokenOp, Value: string(ch), Line: startLine, Col: startCol})
		case ch == '!':
			l.advance()
			if l.pos < len(l.input) && l.peek() == '=' {
				l.advance()
				l.emit(Token{Type: TokenOp, Value: "!=", Line: startLine, Col: startCol})
			} else {
				return &ParseError{Line: startLine, Col: startCol, Msg: "unexpected character '!'"}
			}
		case ch == '<' || ch == '>':
			l.advance()
			op := string(ch)
			if l.pos < len(l.input) && l.peek() == '=' {
				l.advance()
				op += "="
			}
			l.emit(Token{Type: TokenOp, Value: op, Line: startLine, Col: startCol})

		case ch >= '0' && ch <= '9':
			value, isFloat := l.readNumber()
			typ := TokenNumber
			if isFloat {
				typ = TokenFloat
			}
			l.emit(Token{Type: typ, Value: value, Line: startLine, Col: startCol})

		case isIdentStart(ch):
			l.emit(Token{Type: TokenIdent, Value: l.readIdent(), Line: startLine, Col: startCol})

		default:
			return &ParseError{Line: startLine, Col: startCol, Msg: "unexpected character " + string(ch)}
		}
	}

	l.emit(Token{Type: TokenEOF, Line: l.line, Col: l.col})
	return nil
}

// NextToken consumes and returns the next token.
func (l *Lexer) NextToken() Token {
	tok := l.tokens[l.current]
	if l.current < len(l.tokens)-1 {
		l.current++
	}
	return tok
}

// PeekToken returns the next token without consuming it.
func (l *Lexer) PeekToken() Token {
	return l.tokens[l.current]
}

func (l *Lexer) emit(tok Token) {
	l.tokens = append(l.tokens, tok)
}

func (l *Lexer) peek() byte {
	return l.input[l.pos]
}

func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.peek()
		if unicode.IsSpace(rune(ch)) {
			l.advance()
			continue
		}
		if ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '/' {
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		break
	}
}

func (l *Lexer) readString() (string, error) {
	startLine, startCol := l.line, l.col
	l.advance() // opening quote

	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '"' {
			l.advance()
			return sb.String(), nil
		}
		if ch == '\\' {
			l.advance()
			if l.pos >= len(l.input) {
				break
			}
			esc := l.peek()
			l.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				return "", &ParseError{Line: l.line, Col: l.col, Msg: "invalid escape \\" + string(esc)}
			}
			continue
		}
		sb.WriteByte(ch)
		l.advance()
	}
	return "", &ParseError{Line: startLine, Col: startCol, Msg: "unterminated string"}
}

func (l *Lexer) readNumber() (string, bool) {
	start := l.pos
	for l.pos < len(l.input) && l.peek() >= '0' && l.peek() <= '9' {
		l.advance()
	}
	// A dot only continues the number when a digit follows; t0.1 must stay
	// three tokens.
	isFloat := false
	if l.pos+1 < len(l.input) && l.peek() == '.' && l.input[l.pos+1] >= '0' && l.input[l.pos+1] <= '9' {
		isFloat = true
		l.advance()
		for l.pos < len(l.input) && l.peek() >= '0' && l.peek() <= '9' {
			l.advance()
		}
	}
	return l.input[start:l.pos], isFloat
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch == '@' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

func (l *Lexer) readIdent() string {
	start := l.pos
	for l.pos < len(l.input) && isIdentChar(l.peek()) {
		l.advance()
	}
	return l.input[start:l.pos]
}
