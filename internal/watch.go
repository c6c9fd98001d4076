package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnolang/fq/internal/types"
)

// SourceExtensions lists the file extensions extraction reads.
var SourceExtensions = map[string]bool{
	".log": true,
	".txt": true,
}

func HasSourceExtension(path string) bool {
	return SourceExtensions[filepath.Ext(path)]
}

// WatchDirs sets the directories StartWatching observes, recursively.
func (e *Engine) WatchDirs(dirs ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.watchDirs = append(e.watchDirs, dirs...)
}

// OnRecords sets the callback that receives the records of a changed file.
// Without one, records are logged.
func (e *Engine) OnRecords(fn func(filename string, records []tt.Record)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onRecords = fn
}

// RuleLoader reads the rules stored at path.
type RuleLoader func(path string) ([]tt.Rule, error)

// WatchRuleFile makes a running watch reload the rules from path with load
// whenever the file is written.
func (e *Engine) WatchRuleFile(path string, load RuleLoader) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ruleFile = path
	e.loadRules = load
}

func (e *Engine) isRuleFile(name string) bool {
	e.mu.Lock()
	ruleFile := e.ruleFile
	e.mu.Unlock()
	if ruleFile == "" {
		return false
	}
	return absPath(name) == absPath(ruleFile)
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// SetDebounce sets how long to wait after a write before reading the file,
// so a burst of writes is handled once.
func (e *Engine) SetDebounce(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.debounce = d
}

func (e *Engine) StartWatching() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isWatching {
		return fmt.Errorf("already watching")
	}
	if len(e.watchDirs) == 0 {
		return errors.New("no directories to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}

	for _, dir := range e.watchDirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			watcher.Close()
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}
	if e.ruleFile != "" {
		if err := watcher.Add(filepath.Dir(e.ruleFile)); err != nil {
			watcher.Close()
			return fmt.Errorf("error watching rule file: %w", err)
		}
	}

	e.watcher = watcher
	e.isWatching = true
	go e.watchLoop(watcher)
	return nil
}

func (e *Engine) StopWatching() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isWatching {
		e.logger.Warn("not watching")
		return nil
	}

	e.isWatching = false
	return e.watcher.Close()
}

func (e *Engine) watchLoop(watcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			e.handleFileEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	e.mu.Lock()
	debounce, report, load := e.debounce, e.onRecords, e.loadRules
	e.mu.Unlock()

	if load != nil && e.isRuleFile(event.Name) {
		time.Sleep(debounce)
		e.reloadRuleFile(event.Name, load)
		return
	}
	if !HasSourceExtension(event.Name) {
		return
	}

	// wait for a while after file change to consider multiple changes as one
	time.Sleep(debounce)
	records, err := e.Run(event.Name)
	if err != nil {
		e.logger.Error("error processing file", zap.String("file", event.Name), zap.Error(err))
		return
	}

	if report != nil {
		report(event.Name, records)
		return
	}
	e.reportRecords(event.Name, records)
}

func (e *Engine) reloadRuleFile(path string, load RuleLoader) {
	rules, err := load(path)
	if err == nil {
		err = e.ReloadRules(rules)
	}
	if err != nil {
		e.logger.Error("error reloading rules, keeping previous rules", zap.String("file", path), zap.Error(err))
	}
}

func (e *Engine) reportRecords(filename string, records []tt.Record) {
	if len(records) == 0 {
		e.logger.Info("no records found", zap.String("file", filename))
		return
	}

	e.logger.Info("found records", zap.String("file", filename), zap.Int("count", len(records)))
	for _, rec := range records {
		e.logger.Info("record",
			zap.String("rule", rec.Rule),
			zap.Int("line", rec.Line),
			zap.Any("fields", rec.Fields),
		)
	}
}
