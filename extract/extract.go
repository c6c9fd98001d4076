// Package extract runs rule files over files and directories.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/fq/internal"
	tt "github.com/gnolang/fq/internal/types"
	"github.com/gnolang/fq/query"
)

// DefaultConfigPath is the rule file read when none is given.
const DefaultConfigPath = ".fq.yaml"

type Engine interface {
	Run(filePath string) ([]tt.Record, error)
	RunSource(source []byte) ([]tt.Record, error)
	IgnoreRule(rule string)
	IgnorePath(path string)
}

// ProgressOutput receives the progress bar drawn while a directory is
// processed. Set it to io.Discard to hide the bar.
var ProgressOutput io.Writer = os.Stderr

// New loads the rule file at configPath and compiles its rules.
func New(configPath string, logger *zap.Logger, opts ...query.Option) (*internal.Engine, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return internal.NewEngine(config.Rules, logger, opts...)
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	sources [][]byte,
	processor func(Engine, []byte) ([]tt.Record, error),
) ([]tt.Record, error) {
	var allRecords []tt.Record
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return allRecords, err
		}
		records, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allRecords = append(allRecords, records...)
	}

	return allRecords, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	paths []string,
	processor func(Engine, string) ([]tt.Record, error),
) ([]tt.Record, error) {
	var allRecords []tt.Record
	for _, path := range paths {
		records, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allRecords = append(allRecords, records...)
	}

	return allRecords, nil
}

// ProcessPath extracts records from path. A directory is walked for files
// with a source extension and its files are processed by a bounded pool of
// workers. Records come back grouped per file in walk order.
//
// On cancellation or a failed file the records gathered so far are returned
// together with the error.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	path string,
	processor func(Engine, string) ([]tt.Record, error),
) ([]tt.Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !hasDesiredExtension(path) {
			return []tt.Record{}, nil
		}
		records, err := processor(engine, path)
		if err != nil {
			return []tt.Record{}, err
		}
		return records, nil
	}

	files, err := collectFiles(path)
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", path, err)
	}

	type fileResult struct {
		records []tt.Record
		err     error
	}
	results := make([]fileResult, len(files))

	// limit the number of workers
	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(ProgressOutput),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	var ctxErr error
dispatch:
	for i, filePath := range files {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			records, err := processor(engine, fp)
			if err != nil && logger != nil {
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
			}
			results[i] = fileResult{records: records, err: err}
			_ = bar.Add(1)
		}(i, filePath)
	}
	wg.Wait()
	_ = bar.Finish()
	fmt.Fprintln(ProgressOutput)

	records := []tt.Record{}
	var errs []error
	for _, res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}
		records = append(records, res.records...)
	}

	if ctxErr != nil {
		return records, ctxErr
	}
	return records, errors.Join(errs...)
}

func collectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(filePath string, fileInfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fileInfo.IsDir() && hasDesiredExtension(filePath) {
			files = append(files, filePath)
		}
		return nil
	})
	return files, err
}

func ProcessFile(engine Engine, filePath string) ([]tt.Record, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine Engine, source []byte) ([]tt.Record, error) {
	return engine.RunSource(source)
}

func hasDesiredExtension(path string) bool {
	return internal.HasSourceExtension(path)
}

// SortRecords orders records by file name, then line.
func SortRecords(records []tt.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Filename != records[j].Filename {
			return records[i].Filename < records[j].Filename
		}
		return records[i].Line < records[j].Line
	})
}

// DefaultConfig is the rule file written by `fq init`.
func DefaultConfig() tt.Config {
	return tt.Config{
		Name: "fq",
		Rules: []tt.Rule{
			{Name: "access", Format: `{ip} - {user} [{time:timestamp}] "{request}" {status:int} {bytes:int}`},
			{Name: "kv", Format: "{key}={value}"},
		},
	}
}

// LoadConfig reads and decodes the rule file at configurationPath.
func LoadConfig(configurationPath string) (tt.Config, error) {
	var config tt.Config

	f, err := os.Open(configurationPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		if errors.Is(err, io.EOF) {
			return config, nil
		}
		return config, fmt.Errorf("error decoding %s: %w", configurationPath, err)
	}

	return config, nil
}

// LoadRules returns the rules of the rule file at configurationPath.
func LoadRules(configurationPath string) ([]tt.Rule, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, err
	}
	return config.Rules, nil
}

// WriteConfig encodes config as YAML into configurationPath, replacing any
// existing file.
func WriteConfig(configurationPath string, config tt.Config) error {
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	f, err := os.Create(configurationPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	return err
}
