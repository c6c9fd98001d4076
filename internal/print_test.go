package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/gnolang/fq/internal/types"
	"github.com/gnolang/fq/query"
)

func TestFormatRecords(t *testing.T) {
	t.Parallel()

	records := []tt.Record{
		{
			Rule:     "kv",
			Filename: "app.log",
			Line:     12,
			Text:     "user=bob",
			Fields: []query.Field{
				{Name: "key", Value: "user"},
				{Name: "value", Type: "string", Value: "bob"},
			},
		},
		{Rule: "kv", Line: 1, Text: "a=b"},
	}

	expected := `match: kv
 --> app.log:12
   |
12 | user=bob
   | key = user
   | value <string> = bob

match: kv
 --> <source>:1
  |
1 | a=b

`
	assert.Equal(t, expected, FormatRecords(records))
	assert.Equal(t, "", FormatRecords(nil))
}

func TestPrintResult(t *testing.T) {
	t.Parallel()

	r, ok := query.MustParse("{b:ab}|{a}").Match("1|2")
	require.True(t, ok)

	var sb strings.Builder
	PrintResult(&sb, r)
	assert.Equal(t, "a = 2\nb <ab> = 1\n", sb.String())
}

func TestFormatSyntaxError(t *testing.T) {
	t.Parallel()

	_, err := query.Parse("ab}")
	require.Error(t, err)

	expected := "error: " + err.Error() + "\n" +
		"  | ab}\n" +
		"  |   ^ unexpected symbol\n"
	assert.Equal(t, expected, FormatSyntaxError("ab}", err))

	plain := &query.SyntaxError{Code: query.ErrUnclosedParams}
	assert.Equal(t, "error: "+plain.Error()+"\n", FormatSyntaxError("{F(", plain))
}

func TestExpandTabs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		line     string
		expanded string
	}{
		{"single tab", "a\tb", "a       b"},
		{"consecutive tabs", "a\t\t{", "a               {"},
		{"tab after full stop", "12345678\tx", "12345678        x"},
		{"no tabs", "plain", "plain"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expanded, expandTabs(tt.line))
		})
	}

	assert.Equal(t, 8, calculateVisualColumn("\tx", 2))
}

func TestFormatSyntaxErrorCaretAfterTabs(t *testing.T) {
	t.Parallel()

	format := "a\t\t{"
	err := &query.SyntaxError{
		Code:  query.ErrUnexpectedSymbol,
		Token: query.Token{Kind: query.TokenSymbol, Text: "{", Pos: 3},
	}

	lines := strings.Split(FormatSyntaxError(format, err), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	source := strings.TrimPrefix(lines[1], "  | ")
	caret := strings.TrimPrefix(lines[2], "  | ")
	assert.Equal(t, strings.Index(source, "{"), strings.Index(caret, "^"))
}
