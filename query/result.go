package query

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Field is one captured value.
type Field struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Spec  string `json:"spec,omitempty"`
	Value string `json:"value"`
}

// Tag returns the declared type tag: Type when present, otherwise Spec.
// The tag is carried through as written, never checked against Value.
func (f Field) Tag() string {
	if f.Type != "" {
		return f.Type
	}
	return f.Spec
}

// Result collects the fields captured by one match. Names are unique keys:
// setting a name twice keeps the last value. The zero value is ready to use.
// A Result must not be shared between concurrent matches.
type Result struct {
	fields map[string]Field
}

func NewResult() *Result {
	return &Result{fields: make(map[string]Field)}
}

// Set records f under f.Name, replacing any earlier entry.
func (r *Result) Set(f Field) bool {
	if r.fields == nil {
		r.fields = make(map[string]Field)
	}
	r.fields[f.Name] = f
	return true
}

func (r *Result) Get(name string) (Field, bool) {
	f, ok := r.fields[name]
	return f, ok
}

// Value returns the captured text for name, or "" when absent.
func (r *Result) Value(name string) string {
	return r.fields[name].Value
}

func (r *Result) Len() int { return len(r.fields) }

// Reset drops every field so r can be reused for another match.
func (r *Result) Reset() {
	for k := range r.fields {
		delete(r.fields, k)
	}
}

// Fields returns the captured fields sorted by name.
func (r *Result) Fields() []Field {
	out := make([]Field, 0, len(r.fields))
	for _, f := range r.fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Values returns name -> captured text.
func (r *Result) Values() map[string]string {
	out := make(map[string]string, len(r.fields))
	for name, f := range r.fields {
		out[name] = f.Value
	}
	return out
}

// Dump writes one line per field, sorted by name.
func (r *Result) Dump(w io.Writer) {
	for _, f := range r.Fields() {
		fmt.Fprintf(w, "ResultItem '%s' '%s' '%s'\n", f.Name, f.Tag(), f.Value)
	}
}

func (r *Result) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.fields)
}
