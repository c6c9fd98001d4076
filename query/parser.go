package query

// Parser builds an AST from a format string by recursive descent over the
// Tokenizer. A Parser is single use and must not be shared between goroutines.
type Parser struct {
	tok *Tokenizer
	cfg *config
}

// NewParser returns a parser for format.
func NewParser(format string, opts ...Option) *Parser {
	cfg := newConfig(opts)
	return &Parser{
		tok: NewTokenizer(format, WithTracer(cfg.tracer)),
		cfg: cfg,
	}
}

// Parse parses format into its root sequence. On failure the returned error
// is a *SyntaxError and the sequence holds whatever was built before the
// error; it is safe to inspect but should not be matched.
func Parse(format string, opts ...Option) (*Sequence, error) {
	return NewParser(format, opts...).Parse()
}

// MustParse is like Parse but panics on error. It is intended for formats
// that are constants in a program.
func MustParse(format string, opts ...Option) *Sequence {
	seq, err := Parse(format, opts...)
	if err != nil {
		panic(err)
	}
	return seq
}

// Parse runs the parser over the whole format.
func (p *Parser) Parse() (*Sequence, error) {
	root := p.newSequence(0)
	return root, p.parseSequence(root)
}

// Tokenizer exposes the underlying tokenizer, mostly to inspect its mode
// stack after parsing.
func (p *Parser) Tokenizer() *Tokenizer { return p.tok }

// parseSequence parses literals and captures until the end of input.
func (p *Parser) parseSequence(root *Sequence) error {
	for p.tok.HasNext() {
		tok := p.tok.Next()
		switch {
		case tok.Kind == TokenLiteral:
			p.append(root, &Literal{Token: tok})
		case tok.Kind == TokenEOF:
			return nil
		case tok.Kind == TokenIdentifier:
			return p.fail(ErrUnexpectedIdentifier, tok)
		case tok.Is("{"):
			c := &Capture{pos: tok.Pos, cfg: p.cfg}
			p.append(root, c)
			if err := p.parseCapture(c); err != nil {
				return err
			}
			p.trace(c)
		default:
			return p.fail(ErrUnexpectedSymbol, tok)
		}
	}
	return nil
}

// parseCapture parses the body of {...} after the opening brace. Fields are
// read as (identifier, separator) pairs; the separator decides whether the
// identifier was a field or a declaration name.
func (p *Parser) parseCapture(c *Capture) error {
	for p.tok.HasNext() {
		first := p.tok.Next()
		switch first.Kind {
		case TokenEOF:
			return p.fail(ErrUnexpectedEOFInCapture, first)
		case TokenIdentifier:
		default:
			return p.fail(ErrUnexpectedToken, first)
		}

		second := p.tok.Next()
		switch {
		case second.Kind == TokenEOF:
			return p.fail(ErrUnexpectedEOFInCapture, second)
		case second.Is(":"), second.Is("}"):
			if err := p.setField(c, first); err != nil {
				return err
			}
			if second.Is("}") {
				return nil
			}
		case second.Is("("):
			d := &Declaration{Name: first, cfg: p.cfg}
			c.Decl = d
			p.trace(d)
			if err := p.parseParams(d); err != nil {
				return err
			}
			if end := p.tok.Next(); !end.Is("}") {
				return p.fail(ErrMissingCloseBrace, end)
			}
			return nil
		default:
			return p.fail(ErrUnexpectedToken, second)
		}
	}
	return p.fail(ErrUnexpectedEOFInCapture, p.tok.Last())
}

// setField classifies a capture field by position and length: the first is
// the name, then a field longer than two characters is the type and one of
// exactly two characters is the spec tag.
func (p *Parser) setField(c *Capture, tok Token) error {
	switch {
	case !c.HasName():
		c.Name = tok
	case !c.HasType() && len(tok.Text) > 2:
		c.Type = tok
	case !c.HasSpec() && len(tok.Text) == 2:
		c.Spec = tok
	default:
		return p.fail(ErrTooManyFields, tok)
	}
	return nil
}

// parseParams parses parameters until the ')' closing the list.
func (p *Parser) parseParams(d *Declaration) error {
	for p.tok.HasNext() {
		param := p.newSequence(p.tok.pos)
		if err := p.parseParam(param); err != nil {
			return err
		}
		d.Params = append(d.Params, param)
		if p.tok.Last().Is(")") {
			return nil
		}
	}
	return p.fail(ErrUnclosedParams, p.tok.Last())
}

// parseParam parses one parameter up to the ',' or ')' that ends it.
//
// A '(' as the very first element opens a group in which ',' is plain text;
// the matching ')' closes the group and is not emitted.
func (p *Parser) parseParam(param *Sequence) error {
	inGroup := false
	for p.tok.HasNext() {
		tok := p.tok.Next()
		switch {
		case tok.Kind == TokenLiteral:
			p.append(param, &Literal{Token: tok})
		case tok.Kind == TokenEOF:
			return p.fail(ErrUnexpectedEOFInParam, tok)
		case tok.Kind == TokenIdentifier:
			return p.fail(ErrIdentifierInParam, tok)
		case tok.Is("{"):
			c := &Capture{pos: tok.Pos, cfg: p.cfg}
			p.append(param, c)
			if err := p.parseCapture(c); err != nil {
				return err
			}
			p.trace(c)
		case tok.Is("("):
			if param.Len() == 0 {
				inGroup = true
			} else {
				p.append(param, &Literal{Token: tok})
			}
		case tok.Is(")"):
			if !inGroup {
				return nil
			}
			inGroup = false
		case tok.Is(","):
			if !inGroup {
				return nil
			}
			p.append(param, &Literal{Token: tok})
		default:
			return p.fail(ErrUnexpectedSymbolInParam, tok)
		}
	}
	return nil
}

func (p *Parser) newSequence(pos int) *Sequence {
	seq := &Sequence{pos: pos, cfg: p.cfg}
	p.trace(seq)
	return seq
}

func (p *Parser) append(seq *Sequence, n Node) {
	seq.Append(n)
	if _, ok := n.(*Capture); !ok {
		p.trace(n)
	}
}

func (p *Parser) trace(n Node) {
	if p.cfg.tracer != nil {
		p.cfg.tracer.Node(n)
	}
}

func (p *Parser) fail(code ErrorCode, tok Token) error {
	return &SyntaxError{Code: code, Token: tok}
}
