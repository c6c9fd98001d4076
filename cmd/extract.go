package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/fq/extract"
	"github.com/gnolang/fq/internal"
	tt "github.com/gnolang/fq/internal/types"
)

var (
	ignoreRules string
	ignorePaths string
	jsonOutput  bool
	outPath     string
	watch       bool
)

// extractCmd: fq extract [paths...]
var extractCmd = &cobra.Command{
	Use:   "extract [paths...]",
	Short: "Extract records from files using the rule file",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		engine, err := extract.New(cfgFile, logger, queryOptions()...)
		if err != nil {
			logger.Fatal("Failed to initialize extraction engine", zap.String("config", cfgFile), zap.Error(err))
		}

		applyIgnores(engine, ignoreRules, ignorePaths)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := runExtract(ctx, cmd.OutOrStdout(), logger, engine, args, jsonOutput, outPath); err != nil {
			logger.Error("Error processing files", zap.Error(err))
			os.Exit(1)
		}

		if watch {
			if err := runWatch(cmd.OutOrStdout(), engine, args, jsonOutput); err != nil {
				logger.Error("Error watching files", zap.Error(err))
				os.Exit(1)
			}
		}
	},
}

func init() {
	extractCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of rules to ignore")
	extractCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths or globs to ignore")
	extractCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output records in JSON format")
	extractCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	extractCmd.Flags().BoolVar(&watch, "watch", false, "Keep running and re-extract files when they change")
}

func applyIgnores(engine extract.Engine, rules, paths string) {
	for _, rule := range splitList(rules) {
		engine.IgnoreRule(rule)
	}
	for _, path := range splitList(paths) {
		engine.IgnorePath(path)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runExtract(ctx context.Context, w io.Writer, logger *zap.Logger, engine extract.Engine, paths []string, isJSON bool, jsonPath string) error {
	records, err := extract.ProcessFiles(ctx, logger, engine, paths, extract.ProcessFile)
	if err != nil {
		return err
	}
	extract.SortRecords(records)
	return printRecords(w, records, isJSON, jsonPath)
}

func printRecords(w io.Writer, records []tt.Record, isJSON bool, jsonPath string) error {
	if !isJSON {
		_, err := fmt.Fprint(w, internal.FormatRecords(records))
		return err
	}

	if records == nil {
		records = []tt.Record{}
	}
	d, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("error marshalling records to JSON: %w", err)
	}
	if jsonPath == "" {
		_, err = fmt.Fprintln(w, string(d))
		return err
	}

	f, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("error creating JSON output file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(d); err != nil {
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	return nil
}

// watchDirs maps the given paths to the directories holding them.
func watchDirs(paths []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range paths {
		dir := p
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			dir = filepath.Dir(p)
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func runWatch(w io.Writer, engine *internal.Engine, paths []string, isJSON bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine.WatchDirs(watchDirs(paths)...)
	engine.WatchRuleFile(cfgFile, extract.LoadRules)
	engine.OnRecords(func(filename string, records []tt.Record) {
		if err := printRecords(w, records, isJSON, ""); err != nil {
			logger.Error("Error printing records", zap.String("file", filename), zap.Error(err))
		}
	})
	if err := engine.StartWatching(); err != nil {
		return err
	}
	logger.Info("watching for changes", zap.Strings("paths", paths))

	<-ctx.Done()
	return engine.StopWatching()
}
