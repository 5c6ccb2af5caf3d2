package parser

import (
	"strconv"

	"github.com/ramlens/ramlens/ram"
)

// parseLiteral reads one embedded literal value: string, number, bool, null,
// array or mapping. The RAM dump embeds these inside debug statements and IO
// options; they are parsed into tagged values, never evaluated.
func (p *Parser) parseLiteral() (ram.Value, error) {
	tok := p.lexer.NextToken()
	switch tok.Type {
	case TokenString:
		return ram.Value{Kind: ram.ValueString, Str: tok.Value}, nil

	case TokenNumber:
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return ram.Value{}, errorf(tok, "bad number literal %q", tok.Value)
		}
		return ram.Value{Kind: ram.ValueInt, Int: n}, nil

	case TokenFloat:
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return ram.Value{}, errorf(tok, "bad float literal %q", tok.Value)
		}
		return ram.Value{Kind: ram.ValueFloat, Float: f}, nil

	case TokenOp:
		if tok.Value != "-" {
			return ram.Value{}, errorf(tok, "unexpected %q in literal", tok.Value)
		}
		inner, err := p.parseLiteral()
		if err != nil {
			return ram.Value{}, err
		}
		switch inner.Kind {
		case ram.ValueInt:
			inner.Int = -inner.Int
		case ram.ValueFloat:
			inner.Float = -inner.Float
		default:
			return ram.Value{}, errorf(tok, "negation applies to number literals only")
		}
		return inner, nil

	case TokenIdent:
		switch tok.Value {
		case "true":
			return ram.Value{Kind: ram.ValueBool, Bool: true}, nil
		case "false":
			return ram.Value{Kind: ram.ValueBool, Bool: false}, nil
		case "null":
			return ram.Value{Kind: ram.ValueNull}, nil
		}
		return ram.Value{}, errorf(tok, "unexpected identifier %q in literal", tok.Value)

	case TokenLBracket:
		var items []ram.Value
		for p.lexer.PeekToken().Type != TokenRBracket {
			item, err := p.parseLiteral()
			if err != nil {
				return ram.Value{}, err
			}
			items = append(items, item)
			if p.lexer.PeekToken().Type == TokenComma {
				p.lexer.NextToken()
			}
		}
		p.lexer.NextToken() // ]
		return ram.Value{Kind: ram.ValueArray, Items: items}, nil

	case TokenLBrace:
		var entries []ram.MapEntry
		for p.lexer.PeekToken().Type != TokenRBrace {
			key := p.lexer.NextToken()
			if key.Type != TokenString {
				return ram.Value{}, errorf(key, "mapping key must be a string, got %s", key)
			}
			if colon := p.lexer.NextToken(); colon.Type != TokenColon {
				return ram.Value{}, errorf(colon, "expected ':' after mapping key %q", key.Value)
			}
			val, err := p.parseLiteral()
			if err != nil {
				return ram.Value{}, err
			}
			entries = append(entries, ram.MapEntry{Key: key.Value, Val: val})
			if p.lexer.PeekToken().Type == TokenComma {
				p.lexer.NextToken()
			}
		}
		p.lexer.NextToken() // }
		return ram.Value{Kind: ram.ValueMap, Entries: entries}, nil

	default:
		return ram.Value{}, errorf(tok, "expected literal, got %s", tok)
	}
}

// parseMappingLiteral reads a mapping literal into a Go map, keeping only the
// last value for a repeated key. IO options use this shape.
func (p *Parser) parseMappingLiteral() (map[string]ram.Value, error) {
	tok := p.lexer.PeekToken()
	if tok.Type != TokenLBrace {
		return nil, errorf(tok, "expected '{', got %s", tok)
	}
	v, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	m := make(map[string]ram.Value, len(v.Entries))
	for _, e := range v.Entries {
		m[e.Key] = e.Val
	}
	return m, nil
}
