package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	tt "github.com/gnolang/fq/internal/types"
	"github.com/gnolang/fq/query"
)

// createTempDir creates a temporary directory and returns its path.
// It also registers a cleanup function to remove the directory after the test.
func createTempDir(t testing.TB, prefix string) string {
	tempDir, err := os.MkdirTemp("", prefix)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	return tempDir
}

func writeFile(t testing.TB, path, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

var testRules = []tt.Rule{
	{Name: "access", Format: `{ip} - {user} [{time}] "{req}" {status:int}`},
	{Name: "kv", Format: "{key}={value}"},
}

func newTestEngine(t *testing.T) *Engine {
	engine, err := NewEngine(testRules, zaptest.NewLogger(t))
	require.NoError(t, err)
	return engine
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	assert.Equal(t, []string{"access", "kv"}, engine.Rules())
	assert.Equal(t, 2, engine.cache.Len())

	unnamed, err := NewEngine([]tt.Rule{{Format: "{x}"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"rule-1"}, unnamed.Rules())
}

func TestNewEngineBadRule(t *testing.T) {
	t.Parallel()

	_, err := NewEngine([]tt.Rule{{Name: "broken", Format: "{a"}}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"broken"`)
	assert.Equal(t, query.ErrUnexpectedEOFInCapture, query.CodeOf(err))
}

func TestEngine_MatchLine(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	tests := []struct {
		name   string
		line   string
		rule   string
		fields map[string]string
	}{
		{
			name: "first rule wins",
			line: `1.2.3.4 - ann [t] "GET /" 200`,
			rule: "access",
			fields: map[string]string{
				"ip": "1.2.3.4", "user": "ann", "time": "t", "req": "GET /", "status": "200",
			},
		},
		{
			name:   "falls through to the next rule",
			line:   "level=debug",
			rule:   "kv",
			fields: map[string]string{"key": "level", "value": "debug"},
		},
		{
			name: "no rule matches",
			line: "plain text",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, ok := engine.MatchLine(tt.line)
			if tt.rule == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.rule, rec.Rule)
			assert.Equal(t, tt.line, rec.Text)
			for name, want := range tt.fields {
				assert.Equal(t, want, rec.Value(name), name)
			}
		})
	}
}

func TestEngine_IgnoreRule(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	engine.IgnoreRule("kv")
	assert.True(t, engine.ignoredRules["kv"])

	_, ok := engine.MatchLine("a=b")
	assert.False(t, ok)
}

func TestEngine_Run(t *testing.T) {
	t.Parallel()

	dir := createTempDir(t, "engine_run")
	path := filepath.Join(dir, "app.log")
	writeFile(t, path, "a=1\r\nnoise\nb=2\n")

	engine := newTestEngine(t)
	records, err := engine.Run(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, path, records[0].Filename)
	assert.Equal(t, 1, records[0].Line)
	assert.Equal(t, "a=1", records[0].Text, "carriage returns are trimmed")
	assert.Equal(t, "1", records[0].Value("value"))
	assert.Equal(t, 3, records[1].Line)
	assert.Equal(t, "b", records[1].Value("key"))

	_, err = engine.Run(filepath.Join(dir, "missing.log"))
	assert.Error(t, err)
}

func TestEngine_RunSource(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	records, err := engine.RunSource([]byte("x=y\n\nz=w"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "", records[0].Filename)
	assert.Equal(t, 3, records[1].Line)

	records, err = engine.RunSource(nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestEngine_IgnorePath(t *testing.T) {
	t.Parallel()

	dir := createTempDir(t, "engine_ignore")
	kept := filepath.Join(dir, "keep.log")
	skipped := filepath.Join(dir, "old", "a.log")
	globbed := filepath.Join(dir, "debug.txt")
	for _, p := range []string{kept, skipped, globbed} {
		writeFile(t, p, "k=v\n")
	}

	engine := newTestEngine(t)
	engine.IgnorePath(filepath.Join(dir, "old"))
	engine.IgnorePath("debug*")
	engine.IgnorePath("")
	engine.IgnorePath(".")
	engine.IgnorePath("./")

	assert.False(t, engine.isIgnoredPath("rel/a.log"), "current directory patterns are not ignore-all")
	assert.False(t, engine.isIgnoredPath(kept))

	tests := []struct {
		path string
		want int
	}{
		{kept, 1},
		{skipped, 0},
		{globbed, 0},
	}
	for _, tt := range tests {
		records, err := engine.Run(tt.path)
		require.NoError(t, err)
		assert.Len(t, records, tt.want, tt.path)
	}
}
