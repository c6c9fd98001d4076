package query

import (
	"github.com/gnolang/fq/internal/stack"
)

// Tokenizer lexes a format string lazily, one token per Next call, under the
// mode on top of its mode stack.
type Tokenizer struct {
	pattern string // the format being lexed
	pos     int    // current reading position
	modes   *stack.Stack[Mode]
	last    Token
	tracer  Tracer
}

// NewTokenizer returns a Tokenizer positioned at the start of pattern in
// ModeLiteral. Only WithTracer is meaningful here.
func NewTokenizer(pattern string, opts ...Option) *Tokenizer {
	cfg := newConfig(opts)
	return &Tokenizer{
		pattern: pattern,
		modes:   stack.New(ModeLiteral),
		tracer:  cfg.tracer,
	}
}

// HasNext reports whether unconsumed characters remain.
func (t *Tokenizer) HasNext() bool {
	return t.pos < len(t.pattern)
}

// Next advances and returns the next token.
func (t *Tokenizer) Next() Token {
	before := t.modes.Top()
	t.last = t.next()
	if t.tracer != nil {
		t.tracer.Token(before, t.modes.Top(), t.last)
	}
	return t.last
}

// Last returns the token most recently returned by Next.
func (t *Tokenizer) Last() Token {
	return t.last
}

// Mode returns the current lexical mode.
func (t *Tokenizer) Mode() Mode {
	return t.modes.Top()
}

// Depth returns the size of the mode stack. It is 1 at the outer level.
func (t *Tokenizer) Depth() int {
	return t.modes.Len()
}

// Modes returns a copy of the mode stack, bottom first.
func (t *Tokenizer) Modes() []Mode {
	return t.modes.Snapshot()
}

// Tokenize consumes the whole input and returns every token, the
// trailing EOF included.
func (t *Tokenizer) Tokenize() []Token {
	var tokens []Token
	for t.HasNext() {
		tok := t.Next()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
	return append(tokens, t.Next())
}

func (t *Tokenizer) next() Token {
	switch mode := t.modes.Top(); mode {
	case ModeLiteral, ModeLimitLiteralBrace, ModeLimitLiteral:
		return t.lexLiteral()
	case ModeMatch:
		return t.lexMatch()
	case ModeMatchParams:
		return t.lexParams()
	default:
		return Token{}
	}
}

// lexLiteral scans an ordinary run until a control character of the current mode.
func (t *Tokenizer) lexLiteral() Token {
	mode := t.modes.Top()
	pos := t.pos
	for pos < len(t.pattern) {
		c := t.pattern[pos]
		if isControl(c, mode) {
			if pos > t.pos {
				return t.emit(TokenLiteral, pos)
			}
			tok := t.emit(TokenSymbol, pos+1)
			t.switchLiteralMode(mode, c)
			return tok
		}
		if c == '\\' {
			// the escaped character stays in the run verbatim
			pos += 2
			continue
		}
		pos++
	}
	if pos > len(t.pattern) {
		// dangling escape at the end of input
		pos = len(t.pattern)
	}
	if pos > t.pos {
		return t.emit(TokenLiteral, pos)
	}
	return Token{Kind: TokenEOF, Pos: t.pos}
}

// switchLiteralMode applies the mode change for control character c seen in mode.
func (t *Tokenizer) switchLiteralMode(mode Mode, c byte) {
	switch {
	case c == '{':
		t.modes.Push(ModeMatch)
	case mode == ModeLimitLiteralBrace && c == ')':
		t.modes.Pop() // back to ModeLimitLiteral
	case mode == ModeLimitLiteral && c == ',':
		t.modes.Pop() // back to ModeMatchParams
	case mode == ModeLimitLiteral && c == ')':
		t.modes.Pop() // ModeMatchParams
		t.modes.Pop() // ModeMatch
	}
}

// lexMatch scans the inside of a capture: {name:type}, {Decl(...)},
// {name:type:Decl(...)}.
func (t *Tokenizer) lexMatch() Token {
	t.skipWhitespace()

	pos := t.pos
	for pos < len(t.pattern) && isIdentifierChar(t.pattern[pos]) {
		pos++
	}
	if pos > t.pos {
		return t.emit(TokenIdentifier, pos)
	}
	if pos == len(t.pattern) {
		return Token{Kind: TokenEOF, Pos: t.pos}
	}

	tok := t.emit(TokenSymbol, pos+1)
	switch tok.Text {
	case "(":
		t.modes.Push(ModeMatchParams)
	case "}":
		// return to the mode that opened this capture
		t.modes.Pop()
	}
	return tok
}

// lexParams starts a new parameter of a declaration.
func (t *Tokenizer) lexParams() Token {
	t.skipWhitespace()
	t.modes.Push(ModeLimitLiteral)
	if t.pos < len(t.pattern) && t.pattern[t.pos] == '(' {
		t.modes.Push(ModeLimitLiteralBrace)
	}
	return t.lexLiteral()
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.pattern) {
		switch t.pattern[t.pos] {
		case ' ', '\t', '\n':
			t.pos++
		default:
			return
		}
	}
}

// emit returns the token spanning [t.pos, end) and moves past it.
func (t *Tokenizer) emit(kind TokenKind, end int) Token {
	tok := Token{Kind: kind, Text: t.pattern[t.pos:end], Pos: t.pos}
	t.pos = end
	return tok
}

func isControl(c byte, mode Mode) bool {
	switch c {
	case '{', '}':
		return true
	case '(', ')', ',':
		return mode.isLimit()
	default:
		return false
	}
}

// isIdentifierChar reports whether c may appear in an identifier. Besides
// alphanumerics and '_' the type markers '<', '>', '+' and '-' are allowed so
// tags such as vector<int> lex as one identifier.
func isIdentifierChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '_', c == '<', c == '>', c == '+', c == '-':
		return true
	default:
		return false
	}
}
