package types

import "github.com/gnolang/fq/query"

// Rule is a named format from the rule file.
type Rule struct {
	Name   string `yaml:"name" json:"name"`
	Format string `yaml:"format" json:"format"`
}

// Record is one source line matched by a rule.
type Record struct {
	Rule     string        `json:"rule"`
	Filename string        `json:"filename,omitempty"`
	Line     int           `json:"line"`
	Text     string        `json:"text"`
	Fields   []query.Field `json:"fields"`
}

// Value returns the captured text for name, or "" when the record has no
// such field.
func (r Record) Value(name string) string {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Config represents the rule file: a name and an ordered list of rules.
// Rule order is match priority.
type Config struct {
	Name  string `yaml:"name"`
	Rules []Rule `yaml:"rules"`
}
