package query

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultLastWriteWins(t *testing.T) {
	t.Parallel()

	var r Result // zero value is usable
	r.Set(Field{Name: "x", Type: "int", Value: "1"})
	r.Set(Field{Name: "x", Value: "2"})

	assert.Equal(t, 1, r.Len())
	f, ok := r.Get("x")
	require.True(t, ok)
	assert.Equal(t, Field{Name: "x", Value: "2"}, f)

	_, ok = r.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "", r.Value("missing"))
}

func TestResultFieldsSorted(t *testing.T) {
	t.Parallel()

	r := NewResult()
	r.Set(Field{Name: "b", Value: "2"})
	r.Set(Field{Name: "a", Value: "1"})
	r.Set(Field{Name: "c", Type: "str", Value: "3"})

	fields := r.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, "a", fields[0].Name)
	assert.Equal(t, "b", fields[1].Name)
	assert.Equal(t, "c", fields[2].Name)

	var sb strings.Builder
	r.Dump(&sb)
	assert.Equal(t, "ResultItem 'a' '' '1'\nResultItem 'b' '' '2'\nResultItem 'c' 'str' '3'\n", sb.String())

	r.Reset()
	assert.Equal(t, 0, r.Len())
}

func TestResultJSON(t *testing.T) {
	t.Parallel()

	var empty Result
	d, err := json.Marshal(&empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(d))

	r := NewResult()
	r.Set(Field{Name: "n", Type: "int", Spec: "dc", Value: "7"})
	d, err = json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":{"name":"n","type":"int","spec":"dc","value":"7"}}`, string(d))
}

func TestFieldTag(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Field{}.Tag())
	assert.Equal(t, "ab", Field{Spec: "ab"}.Tag())
	assert.Equal(t, "long", Field{Type: "long", Spec: "ab"}.Tag())
}
