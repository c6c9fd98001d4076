package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lit(text string, pos int) Token   { return Token{Kind: TokenLiteral, Text: text, Pos: pos} }
func ident(text string, pos int) Token { return Token{Kind: TokenIdentifier, Text: text, Pos: pos} }
func sym(text string, pos int) Token   { return Token{Kind: TokenSymbol, Text: text, Pos: pos} }

func TestTokenizer(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		pattern string
		want    []Token
	}{
		{
			name:    "simple literal",
			pattern: "abc",
			want:    []Token{lit("abc", 0)},
		},
		{
			name:    "literal with params characters outside a declaration",
			pattern: "abc\n\t\r\v()[];,.",
			want:    []Token{lit("abc\n\t\r\v()[];,.", 0)},
		},
		{
			name:    "simple match",
			pattern: "{name}",
			want:    []Token{sym("{", 0), ident("name", 1), sym("}", 5)},
		},
		{
			name:    "name and type",
			pattern: "{name:type}",
			want: []Token{
				sym("{", 0), ident("name", 1), sym(":", 5), ident("type", 6), sym("}", 10),
			},
		},
		{
			name:    "nested declaration after fields",
			pattern: "{name:type:FKV()}",
			want: []Token{
				sym("{", 0), ident("name", 1), sym(":", 5), ident("type", 6), sym(":", 10),
				ident("FKV", 11), sym("(", 14), sym(")", 15), sym("}", 16),
			},
		},
		{
			name:    "empty declaration",
			pattern: "{FKV()}",
			want:    []Token{sym("{", 0), ident("FKV", 1), sym("(", 4), sym(")", 5), sym("}", 6)},
		},
		{
			name:    "declaration with one literal",
			pattern: "{FKV(102)}",
			want: []Token{
				sym("{", 0), ident("FKV", 1), sym("(", 4), lit("102", 5), sym(")", 8), sym("}", 9),
			},
		},
		{
			name:    "declaration with two literals",
			pattern: "{FKV(102, other)}",
			want: []Token{
				sym("{", 0), ident("FKV", 1), sym("(", 4), lit("102", 5), sym(",", 8),
				lit("other", 10), sym(")", 15), sym("}", 16),
			},
		},
		{
			name:    "declaration with nested captures",
			pattern: "{FKV(102, {docid}, {value})}",
			want: []Token{
				sym("{", 0), ident("FKV", 1), sym("(", 4), lit("102", 5), sym(",", 8),
				sym("{", 10), ident("docid", 11), sym("}", 16), sym(",", 17),
				sym("{", 19), ident("value", 20), sym("}", 25), sym(")", 26), sym("}", 27),
			},
		},
		{
			name:    "parenthesized group keeps commas",
			pattern: "{F((a,b),c)}",
			want: []Token{
				sym("{", 0), ident("F", 1), sym("(", 2), sym("(", 3), lit("a", 4), sym(",", 5),
				lit("b", 6), sym(")", 7), sym(",", 8), lit("c", 9), sym(")", 10), sym("}", 11),
			},
		},
		{
			name:    "escaped brace stays in the literal",
			pattern: `a\{b}`,
			want:    []Token{lit(`a\{b`, 0), sym("}", 4)},
		},
		{
			name:    "dangling escape",
			pattern: `ab\`,
			want:    []Token{lit(`ab\`, 0)},
		},
		{
			name:    "type markers are identifier characters",
			pattern: "{v:vector<int>}",
			want: []Token{
				sym("{", 0), ident("v", 1), sym(":", 2), ident("vector<int>", 3), sym("}", 14),
			},
		},
		{
			name:    "whitespace inside capture is skipped",
			pattern: "{ name }",
			want:    []Token{sym("{", 0), ident("name", 2), sym("}", 7)},
		},
		{
			name:    "literals around a capture",
			pattern: "a={x};",
			want:    []Token{lit("a=", 0), sym("{", 2), ident("x", 3), sym("}", 4), lit(";", 5)},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tok := NewTokenizer(tt.pattern)
			var got []Token
			for tok.HasNext() {
				got = append(got, tok.Next())
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, tok.Depth(), "mode stack should be back at the outer level")
			assert.Equal(t, ModeLiteral, tok.Mode())
		})
	}
}

func TestTokenizerEOF(t *testing.T) {
	t.Parallel()

	tok := NewTokenizer("")
	assert.False(t, tok.HasNext())
	assert.Equal(t, Token{Kind: TokenEOF, Pos: 0}, tok.Next())
	assert.False(t, tok.HasNext())

	tok = NewTokenizer("abc")
	assert.Equal(t, lit("abc", 0), tok.Next())
	assert.Equal(t, Token{Kind: TokenEOF, Pos: 3}, tok.Next())
	assert.Equal(t, Token{Kind: TokenEOF, Pos: 3}, tok.Next())

	tok = NewTokenizer("{na")
	tok.Next()
	assert.Equal(t, ident("na", 1), tok.Next())
	assert.Equal(t, Token{Kind: TokenEOF, Pos: 3}, tok.Next())
}

func TestTokenizerLast(t *testing.T) {
	t.Parallel()

	tok := NewTokenizer("{x}")
	assert.True(t, tok.Last().IsEmpty())
	tok.Next()
	tok.Next()
	assert.Equal(t, ident("x", 1), tok.Last())
}

func TestTokenizerModeStack(t *testing.T) {
	t.Parallel()

	tok := NewTokenizer("{Raw((a,b){x})}")
	steps := []struct {
		want  Token
		mode  Mode
		depth int
	}{
		{sym("{", 0), ModeMatch, 2},
		{ident("Raw", 1), ModeMatch, 2},
		{sym("(", 4), ModeMatchParams, 3},
		{sym("(", 5), ModeLimitLiteralBrace, 5},
		{lit("a", 6), ModeLimitLiteralBrace, 5},
		{sym(",", 7), ModeLimitLiteralBrace, 5},
		{lit("b", 8), ModeLimitLiteralBrace, 5},
		{sym(")", 9), ModeLimitLiteral, 4},
		{sym("{", 10), ModeMatch, 5},
		{ident("x", 11), ModeMatch, 5},
		{sym("}", 12), ModeLimitLiteral, 4},
		{sym(")", 13), ModeMatch, 2},
		{sym("}", 14), ModeLiteral, 1},
	}
	for i, step := range steps {
		require.True(t, tok.HasNext(), "step %d", i)
		assert.Equal(t, step.want, tok.Next(), "step %d", i)
		assert.Equal(t, step.mode, tok.Mode(), "step %d", i)
		assert.Equal(t, step.depth, tok.Depth(), "step %d", i)
	}
	assert.False(t, tok.HasNext())
}

func TestTokenizerModes(t *testing.T) {
	t.Parallel()

	tok := NewTokenizer("{F((a")
	tok.Next() // {
	tok.Next() // F
	tok.Next() // (
	tok.Next() // ( opens a group
	assert.Equal(t, []Mode{
		ModeLiteral, ModeMatch, ModeMatchParams, ModeLimitLiteral, ModeLimitLiteralBrace,
	}, tok.Modes())
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tokens := NewTokenizer("a{b}").Tokenize()
	require.Len(t, tokens, 5)
	assert.Equal(t, TokenEOF, tokens[len(tokens)-1].Kind)
}

func TestTokenEmpty(t *testing.T) {
	t.Parallel()

	var empty Token
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, "Token()", empty.String())

	zeroLength := Token{Kind: TokenLiteral}
	assert.False(t, zeroLength.IsEmpty())
	assert.False(t, sym("}", 0).Is("{"))
	assert.True(t, sym("{", 0).Is("{"))
	assert.False(t, lit("{", 0).Is("{"))
}
