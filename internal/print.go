package internal

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	tt "github.com/gnolang/fq/internal/types"
	"github.com/gnolang/fq/query"
)

const (
	tabWidth = 8
)

var (
	headerStyle = color.New(color.FgGreen, color.Bold)
	ruleStyle   = color.New(color.FgYellow, color.Bold)
	fileStyle   = color.New(color.FgCyan, color.Bold)
	lineStyle   = color.New(color.FgBlue, color.Bold)
	nameStyle   = color.New(color.FgMagenta, color.Bold)
	tagStyle    = color.New(color.FgCyan)
	errorStyle  = color.New(color.FgRed, color.Bold)
)

// FormatRecords renders records grouped under a header per record:
//
//	match: access
//	 --> server.log:3
//	  |
//	3 | 10.0.0.1 - bob [...]
//	  | ip = 10.0.0.1
func FormatRecords(records []tt.Record) string {
	var builder strings.Builder
	for _, rec := range records {
		builder.WriteString(formatRecordHeader(rec))
		builder.WriteString(formatRecordBody(rec))
	}
	return builder.String()
}

func formatRecordHeader(rec tt.Record) string {
	location := rec.Filename
	if location == "" {
		location = "<source>"
	}
	return headerStyle.Sprint("match: ") + ruleStyle.Sprint(rec.Rule) + "\n" +
		lineStyle.Sprint(" --> ") + fileStyle.Sprintf("%s:%d", location, rec.Line) + "\n"
}

func formatRecordBody(rec tt.Record) string {
	var result strings.Builder

	lineNumberStr := fmt.Sprintf("%d", rec.Line)
	padding := strings.Repeat(" ", len(lineNumberStr))
	result.WriteString(lineStyle.Sprintf("%s |\n", padding))
	result.WriteString(lineStyle.Sprintf("%s | ", lineNumberStr))
	result.WriteString(expandTabs(rec.Text) + "\n")

	for _, f := range rec.Fields {
		result.WriteString(lineStyle.Sprintf("%s | ", padding))
		result.WriteString(formatField(f) + "\n")
	}
	result.WriteString("\n")

	return result.String()
}

func formatField(f query.Field) string {
	var b strings.Builder
	b.WriteString(nameStyle.Sprint(f.Name))
	if tag := f.Tag(); tag != "" {
		b.WriteString(tagStyle.Sprintf(" <%s>", tag))
	}
	b.WriteString(" = ")
	b.WriteString(expandTabs(f.Value))
	return b.String()
}

// PrintResult writes the fields of r sorted by name, one per line.
func PrintResult(w io.Writer, r *query.Result) {
	for _, f := range r.Fields() {
		fmt.Fprintln(w, formatField(f))
	}
}

// FormatSyntaxError renders err with a caret under the offending offset of
// format. Errors that are not syntax errors are printed as is.
func FormatSyntaxError(format string, err error) string {
	var result strings.Builder
	result.WriteString(errorStyle.Sprint("error: ") + err.Error() + "\n")

	var se *query.SyntaxError
	if !errors.As(err, &se) || se.Token.IsEmpty() {
		return result.String()
	}

	line := expandTabs(format)
	result.WriteString(lineStyle.Sprint("  | ") + line + "\n")
	result.WriteString(lineStyle.Sprint("  | "))
	result.WriteString(strings.Repeat(" ", calculateVisualColumn(format, se.Token.Pos+1)))
	result.WriteString(errorStyle.Sprintf("^ %s\n", se.Code))
	return result.String()
}

func expandTabs(line string) string {
	var expanded strings.Builder
	visualColumn := 0
	for _, ch := range line {
		if ch == '\t' {
			spaceCount := tabWidth - (visualColumn % tabWidth)
			expanded.WriteString(strings.Repeat(" ", spaceCount))
			visualColumn += spaceCount
		} else {
			expanded.WriteRune(ch)
			visualColumn++
		}
	}
	return expanded.String()
}

func calculateVisualColumn(line string, column int) int {
	visualColumn := 0
	for i, ch := range line {
		if i+1 == column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}
