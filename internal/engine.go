package internal

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnolang/fq/internal/trie"
	tt "github.com/gnolang/fq/internal/types"
	"github.com/gnolang/fq/query"
)

// maxLineSize bounds a single source line.
const maxLineSize = 1024 * 1024

type compiledRule struct {
	name string
	seq  *query.Sequence
}

// Engine matches source lines against an ordered list of rules.
type Engine struct {
	rulesMu      sync.RWMutex
	rules        []compiledRule
	cache        *Cache
	logger       *zap.Logger
	ignoredRules map[string]bool
	ignoredGlobs []string
	ignoredPaths *trie.Trie

	mu         sync.Mutex
	watcher    *fsnotify.Watcher
	watchDirs  []string
	isWatching bool
	debounce   time.Duration
	onRecords  func(filename string, records []tt.Record)
	ruleFile   string
	loadRules  RuleLoader
}

// NewEngine compiles rules in order. A rule whose format does not parse is
// an error naming the rule.
func NewEngine(rules []tt.Rule, logger *zap.Logger, opts ...query.Option) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := &Engine{
		cache:    NewCache(opts...),
		logger:   logger,
		debounce: 100 * time.Millisecond,
	}
	compiled, err := engine.compileRules(rules)
	if err != nil {
		return nil, err
	}
	engine.rules = compiled
	return engine, nil
}

func (e *Engine) compileRules(rules []tt.Rule) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for i, rule := range rules {
		name := rule.Name
		if name == "" {
			name = fmt.Sprintf("rule-%d", i+1)
		}
		seq, err := e.cache.Compile(rule.Format)
		if err != nil {
			return nil, fmt.Errorf("error compiling rule %q: %w", name, err)
		}
		compiled = append(compiled, compiledRule{name: name, seq: seq})
	}
	return compiled, nil
}

// ReloadRules drops every compiled format and replaces the rule list. When a
// rule fails to compile the previous rules stay in effect.
func (e *Engine) ReloadRules(rules []tt.Rule) error {
	e.cache.InvalidateAll()
	compiled, err := e.compileRules(rules)
	if err != nil {
		return err
	}

	e.rulesMu.Lock()
	e.rules = compiled
	e.rulesMu.Unlock()

	e.logger.Info("rules reloaded", zap.Int("rules", len(compiled)))
	return nil
}

func (e *Engine) currentRules() []compiledRule {
	e.rulesMu.RLock()
	defer e.rulesMu.RUnlock()
	return e.rules
}

// Rules returns the rule names in match order.
func (e *Engine) Rules() []string {
	rules := e.currentRules()
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

// Run extracts records from every line of filename.
func (e *Engine) Run(filename string) ([]tt.Record, error) {
	if e.isIgnoredPath(filename) {
		return nil, nil
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	records, err := e.scan(filename, f)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", filename, err)
	}
	return records, nil
}

// RunSource extracts records from every line of source.
func (e *Engine) RunSource(source []byte) ([]tt.Record, error) {
	records, err := e.scan("", bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("error reading content: %w", err)
	}
	return records, nil
}

func (e *Engine) scan(filename string, r io.Reader) ([]tt.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []tt.Record
	line := 0
	for scanner.Scan() {
		line++
		rec, ok := e.MatchLine(strings.TrimSuffix(scanner.Text(), "\r"))
		if !ok {
			continue
		}
		rec.Filename = filename
		rec.Line = line
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	e.logger.Debug("scanned",
		zap.String("file", filename),
		zap.Int("lines", line),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// MatchLine tries the rules in order and returns a record for the first one
// that matches. Line and Filename are left for the caller.
func (e *Engine) MatchLine(text string) (tt.Record, bool) {
	for _, rule := range e.currentRules() {
		if e.ignoredRules[rule.name] {
			continue
		}
		r, ok := rule.seq.Match(text)
		if !ok {
			continue
		}
		return tt.Record{
			Rule:   rule.name,
			Text:   text,
			Fields: r.Fields(),
		}, true
	}
	return tt.Record{}, false
}

func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// IgnorePath skips files matching pattern. A pattern holding glob
// characters is tried with filepath.Match against both the full path and its
// base name; any other pattern is a path that is skipped along with
// everything below it. Patterns that clean to the current directory are
// rejected.
func (e *Engine) IgnorePath(pattern string) {
	if pattern == "" {
		return
	}
	if strings.ContainsAny(pattern, "*?[") {
		e.ignoredGlobs = append(e.ignoredGlobs, filepath.Clean(pattern))
		return
	}
	segments := trie.SplitPath(pattern)
	if len(segments) == 0 {
		// "." and "./" name no segment and would match every path
		e.logger.Warn("ignoring empty ignore path", zap.String("pattern", pattern))
		return
	}
	if e.ignoredPaths == nil {
		e.ignoredPaths = trie.New()
	}
	e.ignoredPaths.Insert(segments)
}

func (e *Engine) isIgnoredPath(path string) bool {
	if e.ignoredPaths != nil && e.ignoredPaths.HasPathPrefix(path) {
		return true
	}
	clean := filepath.Clean(path)
	for _, pattern := range e.ignoredGlobs {
		if ok, _ := filepath.Match(pattern, clean); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(clean)); ok {
			return true
		}
	}
	return false
}
