package query

// Mode is a lexical mode of the Tokenizer. Modes live on a stack: entering a
// capture, a parameter list, or a parenthesized group pushes, and the
// matching closing delimiter pops back to the enclosing mode.
type Mode int

const (
	// ModeLiteral is the outermost mode. Only '{' and '}' are special;
	// '{' enters ModeMatch.
	ModeLiteral Mode = iota

	// ModeMatch lexes the inside of {...}: identifiers and single
	// symbols. '(' enters ModeMatchParams, '}' returns to whatever mode
	// opened the capture.
	ModeMatch

	// ModeMatchParams sits between parameters of a declaration. Every
	// token read here first enters ModeLimitLiteral (and ModeLimitLiteralBrace
	// when the parameter starts with '(').
	ModeMatchParams

	// ModeLimitLiteralBrace is a parenthesized group at the start of a
	// parameter; ')' returns to ModeLimitLiteral.
	ModeLimitLiteralBrace

	// ModeLimitLiteral is literal text inside a parameter. ',' returns to
	// ModeMatchParams and ')' closes the whole list back to ModeMatch.
	ModeLimitLiteral
)

func (m Mode) String() string {
	switch m {
	case ModeLiteral:
		return "Literal"
	case ModeMatch:
		return "Match"
	case ModeMatchParams:
		return "MatchParams"
	case ModeLimitLiteralBrace:
		return "LimitLiteralBrace"
	case ModeLimitLiteral:
		return "LimitLiteral"
	default:
		return "Unknown"
	}
}

// isLimit reports whether '(', ')' and ',' are control characters in m.
func (m Mode) isLimit() bool {
	return m == ModeLimitLiteral || m == ModeLimitLiteralBrace
}
