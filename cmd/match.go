package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/fq/internal"
	"github.com/gnolang/fq/query"
)

var (
	matchFormat string
	matchSource string
	matchJSON   bool
)

// matchCmd: fq match --format F --source S
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match one source string against a format and print the fields",
	Run: func(cmd *cobra.Command, args []string) {
		ok, err := runMatch(cmd.OutOrStdout(), matchFormat, matchSource, matchJSON, queryOptions()...)
		if err != nil {
			logger.Error("Error writing match output", zap.Error(err))
			os.Exit(1)
		}
		if !ok {
			os.Exit(1)
		}
	},
}

func init() {
	matchCmd.Flags().StringVarP(&matchFormat, "format", "f", "", "Format to parse")
	matchCmd.Flags().StringVarP(&matchSource, "source", "s", "", "Source string to match")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "Output the result in JSON format")
	_ = matchCmd.MarkFlagRequired("format")
}

type matchOutput struct {
	Code    query.ErrorCode `json:"code"`
	Error   string          `json:"error,omitempty"`
	Matched bool            `json:"matched"`
	Fields  *query.Result   `json:"fields"`
}

// runMatch parses format, matches it against source and reports whether
// both steps succeeded. The returned error is only set when writing to w
// fails.
func runMatch(w io.Writer, format, source string, asJSON bool, opts ...query.Option) (bool, error) {
	seq, parseErr := query.Parse(format, opts...)
	code := query.CodeOf(parseErr)

	r := query.NewResult()
	matched := parseErr == nil && seq.Handle(source, 0, len(source), r)

	if asJSON {
		out := matchOutput{Code: code, Matched: matched, Fields: r}
		if parseErr != nil {
			out.Error = parseErr.Error()
		}
		d, err := json.Marshal(out)
		if err != nil {
			return false, err
		}
		_, err = fmt.Fprintln(w, string(d))
		return matched, err
	}

	fmt.Fprintf(w, "Parse %s ret=%d\n", format, int(code))
	if parseErr != nil {
		_, err := fmt.Fprint(w, internal.FormatSyntaxError(format, parseErr))
		return false, err
	}
	query.Dump(w, seq)
	fmt.Fprintf(w, "handle result = %t\n", matched)
	if matched {
		internal.PrintResult(w, r)
	}
	return matched, nil
}
