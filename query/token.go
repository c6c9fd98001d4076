package query

import "fmt"

// TokenKind classifies a token produced by the Tokenizer.
type TokenKind int

const (
	TokenNone       TokenKind = iota // zero value, marks the empty token
	TokenLiteral                     // run of ordinary characters
	TokenIdentifier                  // run of identifier characters inside a capture
	TokenSymbol                      // single structural character: { } ( ) : ,
	TokenEOF                         // end of input
)

func (k TokenKind) String() string {
	switch k {
	case TokenNone:
		return "None"
	case TokenLiteral:
		return "Literal"
	case TokenIdentifier:
		return "Identifier"
	case TokenSymbol:
		return "Symbol"
	case TokenEOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// Token is a single lexical token with its kind, text, and starting offset
// in the format string.
//
// The zero Token is the "empty" token. It is distinct from a zero-length
// literal because its kind is TokenNone.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

func (t Token) IsEmpty() bool { return t.Kind == TokenNone }

// Is reports whether t is the symbol s.
func (t Token) Is(s string) bool {
	return t.Kind == TokenSymbol && t.Text == s
}

func (t Token) String() string {
	if t.IsEmpty() {
		return "Token()"
	}
	return fmt.Sprintf("Token(%q, %d, %s)", t.Text, t.Pos, t.Kind)
}
