// Package internal provides the extraction engine behind the fq command.
//
// Engine holds an ordered list of rules, each a format compiled with the
// query package, and turns the lines of a file into records: every line is
// tried against the rules in order and the first rule that matches wins.
//
// Key components:
//
// Engine: compiles rules, scans files and sources line by line, and can
// watch directories for writes to re-extract changed files.
//
// Cache: compiled formats keyed by their text, parse errors included.
//
// FormatRecords and PrintResult: colored terminal output.
//
// Usage:
//
//	engine, err := internal.NewEngine([]types.Rule{
//	    {Name: "kv", Format: "{key}={value}"},
//	}, logger)
//	if err != nil {
//	    // handle error
//	}
//
//	records, err := engine.Run("path/to/app.log")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Print(internal.FormatRecords(records))
//
// This package is intended for internal use within fq and should not be
// imported by external packages.
package internal
