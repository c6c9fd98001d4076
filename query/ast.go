package query

import (
	"fmt"
	"io"
	"strings"
)

// Node is an element of a parsed format. The set of implementations is
// closed: *Sequence, *Literal, *Capture and *Declaration.
type Node interface {
	String() string // one line description
	Pos() int       // offset of the node in the format string
	node()
}

var (
	_ Node = (*Sequence)(nil)
	_ Node = (*Literal)(nil)
	_ Node = (*Capture)(nil)
	_ Node = (*Declaration)(nil)
)

// Sequence is an ordered list of nodes. Child order is match order.
// The root of every parsed format is a Sequence, and so is each
// declaration parameter.
type Sequence struct {
	Children []Node
	pos      int
	cfg      *config
}

// NewSequence returns an empty sequence that resolves declarations in the
// package level registry.
func NewSequence(children ...Node) *Sequence {
	return &Sequence{Children: children}
}

func (s *Sequence) node()    {}
func (s *Sequence) Pos() int { return s.pos }
func (s *Sequence) String() string {
	return fmt.Sprintf("Sequence(%d children)", len(s.Children))
}

// Append adds n at the end of the sequence.
func (s *Sequence) Append(n Node) {
	s.Children = append(s.Children, n)
}

func (s *Sequence) Len() int { return len(s.Children) }

func (s *Sequence) conf() *config {
	if s.cfg == nil {
		return defaultConfig
	}
	return s.cfg
}

// Literal is a run of text that must appear verbatim in the source.
type Literal struct {
	Token Token
}

func (l *Literal) node()        {}
func (l *Literal) Pos() int     { return l.Token.Pos }
func (l *Literal) Text() string { return l.Token.Text }
func (l *Literal) String() string {
	return fmt.Sprintf("Literal(%q)", l.Token.Text)
}

// Search finds the leftmost occurrence of the literal text in source at or
// after start. Backslashes are not interpreted.
func (l *Literal) Search(source string, start int) (found bool, matchStart, matchEnd int) {
	if start < 0 || start > len(source) {
		return false, 0, 0
	}
	i := strings.Index(source[start:], l.Token.Text)
	if i < 0 {
		return false, 0, 0
	}
	matchStart = start + i
	return true, matchStart, matchStart + len(l.Token.Text)
}

// Capture is a {name:type:spec} placeholder. Name is required for matching;
// Type and Spec may be empty tokens. When Decl is set the capture hands its
// span to the declaration instead of recording it.
//
// Type and Spec are told apart by length while parsing: a field longer than
// two characters is a type, one of exactly two characters is a spec. This is
// a fragile rule kept for compatibility with existing formats.
type Capture struct {
	Name Token
	Type Token
	Spec Token
	Decl *Declaration
	pos  int
	cfg  *config
}

func (c *Capture) node()    {}
func (c *Capture) Pos() int { return c.pos }

func (c *Capture) conf() *config {
	if c.cfg == nil {
		return defaultConfig
	}
	return c.cfg
}

func (c *Capture) HasName() bool { return !c.Name.IsEmpty() }
func (c *Capture) HasType() bool { return !c.Type.IsEmpty() }
func (c *Capture) HasSpec() bool { return !c.Spec.IsEmpty() }
func (c *Capture) HasDecl() bool { return c.Decl != nil }

func (c *Capture) String() string {
	return fmt.Sprintf("Capture(name=%s, type=%s, spec=%s)", c.Name.Text, c.Type.Text, c.Spec.Text)
}

// Declaration is a function-like wrapper, Name(param, ...), whose handler
// post-processes the captured span before matching the parameters.
type Declaration struct {
	Name   Token
	Params []*Sequence
	cfg    *config
}

func (d *Declaration) node()         {}
func (d *Declaration) Pos() int      { return d.Name.Pos }
func (d *Declaration) HasName() bool { return !d.Name.IsEmpty() }

func (d *Declaration) conf() *config {
	if d.cfg == nil {
		return defaultConfig
	}
	return d.cfg
}

func (d *Declaration) String() string {
	return fmt.Sprintf("Declaration(name=%s, %d params)", d.Name.Text, len(d.Params))
}

// IsLiteral reports whether n is matched by substring search.
func IsLiteral(n Node) bool {
	_, ok := n.(*Literal)
	return ok
}

// Dump writes an indented tree of n to w.
func Dump(w io.Writer, n Node) {
	dump(w, n, 0)
}

// DumpString returns the output of Dump as a string.
func DumpString(n Node) string {
	var sb strings.Builder
	Dump(&sb, n)
	return sb.String()
}

func dump(w io.Writer, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := n.(type) {
	case *Sequence:
		fmt.Fprintf(w, "%sSequence {\n", indent)
		for _, child := range v.Children {
			dump(w, child, depth+1)
		}
		fmt.Fprintf(w, "%s}\n", indent)
	case *Literal:
		fmt.Fprintf(w, "%sLiteral(%s)\n", indent, v.Token)
	case *Capture:
		if v.Decl == nil {
			fmt.Fprintf(w, "%s%s\n", indent, v)
			return
		}
		fmt.Fprintf(w, "%s%s {\n", indent, v)
		dump(w, v.Decl, depth+1)
		fmt.Fprintf(w, "%s}\n", indent)
	case *Declaration:
		fmt.Fprintf(w, "%sDeclaration(name=%s) {\n", indent, v.Name)
		for _, param := range v.Params {
			dump(w, param, depth+1)
		}
		fmt.Fprintf(w, "%s}\n", indent)
	default:
		fmt.Fprintf(w, "%s<nil>\n", indent)
	}
}

func nodeName(n Node) string {
	switch v := n.(type) {
	case *Sequence:
		return "Sequence"
	case *Literal:
		return "Literal"
	case *Capture:
		if v.HasName() {
			return "Capture:" + v.Name.Text
		}
		return "Capture"
	case *Declaration:
		return "Declaration:" + v.Name.Text
	default:
		return "unknown"
	}
}
