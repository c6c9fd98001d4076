package query

// Handle matches the sequence against source[start:stop] and records the
// captured fields into r. It reports whether the whole range matched; on
// failure the contents of r are unspecified.
//
// Matching is a single left to right pass without backtracking. A capture or
// declaration is held as pending until the next literal is found; the text
// between the cursor and that literal becomes its span. Two non-literal nodes
// in a row cannot be split and fail the match. A literal with nothing pending
// must start exactly at the cursor.
func (s *Sequence) Handle(source string, start, stop int, r *Result) bool {
	if r == nil {
		r = NewResult()
	}
	return handle(s.conf(), s, source, start, stop, r)
}

// Match is shorthand for Handle over the whole source with a fresh Result.
func (s *Sequence) Match(source string) (*Result, bool) {
	r := NewResult()
	ok := s.Handle(source, 0, len(source), r)
	return r, ok
}

// Handle records source[start:stop] under the capture's name, or hands the
// span to its declaration.
func (c *Capture) Handle(source string, start, stop int, r *Result) bool {
	if r == nil {
		r = NewResult()
	}
	return handle(c.conf(), c, source, start, stop, r)
}

// Handle runs the declaration's handler over source[start:stop].
func (d *Declaration) Handle(source string, start, stop int, r *Result) bool {
	if r == nil {
		r = NewResult()
	}
	return handle(d.conf(), d, source, start, stop, r)
}

func handle(cfg *config, n Node, source string, start, stop int, r *Result) bool {
	if start < 0 || stop > len(source) || start > stop {
		return false
	}
	var ok bool
	switch v := n.(type) {
	case *Sequence:
		ok = handleSequence(cfg, v, source, start, stop, r)
	case *Literal:
		// a literal is only meaningful as an anchor inside a sequence;
		// on its own it must cover the range exactly
		ok = source[start:stop] == v.Token.Text
	case *Capture:
		ok = handleCapture(cfg, v, source, start, stop, r)
	case *Declaration:
		ok = handleDeclaration(cfg, v, source, start, stop, r)
	}
	if cfg.tracer != nil {
		cfg.tracer.Match(n, start, stop, ok)
	}
	return ok
}

func handleSequence(cfg *config, s *Sequence, source string, start, stop int, r *Result) bool {
	var pending Node
	cursor := start
	for _, child := range s.Children {
		lit, ok := child.(*Literal)
		if !ok {
			if pending != nil {
				return false
			}
			pending = child
			continue
		}

		found, matchStart, matchEnd := lit.Search(source, cursor)
		if !found || matchEnd > stop {
			return false
		}
		if pending != nil {
			if !handle(cfg, pending, source, cursor, matchStart, r) {
				return false
			}
			pending = nil
		} else if matchStart != cursor {
			return false
		}
		cursor = matchEnd
	}
	if pending != nil {
		return handle(cfg, pending, source, cursor, stop, r)
	}
	return true
}

func handleCapture(cfg *config, c *Capture, source string, start, stop int, r *Result) bool {
	if c.Decl != nil {
		return handle(cfg, c.Decl, source, start, stop, r)
	}
	if !c.HasName() {
		return false
	}
	return r.Set(Field{
		Name:  c.Name.Text,
		Type:  c.Type.Text,
		Spec:  c.Spec.Text,
		Value: source[start:stop],
	})
}

func handleDeclaration(cfg *config, d *Declaration, source string, start, stop int, r *Result) bool {
	if !d.HasName() {
		return false
	}
	reg := cfg.registry
	if reg == nil {
		reg = std
	}
	h, ok := reg.Lookup(d.Name.Text)
	if !ok {
		return false
	}
	return h(source[start:stop], d.Params, r)
}
