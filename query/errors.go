package query

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the grammar rule a format violated. The values are
// stable and negative; 0 means success.
type ErrorCode int

const (
	ErrUnexpectedIdentifier    ErrorCode = -1  // identifier outside a capture
	ErrUnexpectedSymbol        ErrorCode = -2  // stray structural symbol outside a capture
	ErrTooManyFields           ErrorCode = -3  // field that is neither name, type nor spec
	ErrUnexpectedEOFInCapture  ErrorCode = -4  // input ends inside {...}
	ErrUnclosedParams          ErrorCode = -5  // parameter list without ')'
	ErrUnexpectedEOFInParam    ErrorCode = -6  // input ends inside a parameter
	ErrIdentifierInParam       ErrorCode = -7  // identifier inside a parameter
	ErrUnexpectedToken         ErrorCode = -8  // capture body token out of place
	ErrMissingCloseBrace       ErrorCode = -9  // no '}' after a declaration's ')'
	ErrUnexpectedSymbolInParam ErrorCode = -10 // structural symbol out of place in a parameter
)

func (c ErrorCode) String() string {
	switch c {
	case 0:
		return "ok"
	case ErrUnexpectedIdentifier:
		return "unexpected identifier"
	case ErrUnexpectedSymbol:
		return "unexpected symbol"
	case ErrTooManyFields:
		return "too many fields in capture"
	case ErrUnexpectedEOFInCapture:
		return "unexpected end of format in capture"
	case ErrUnclosedParams:
		return "unclosed parameter list"
	case ErrUnexpectedEOFInParam:
		return "unexpected end of format in parameter"
	case ErrIdentifierInParam:
		return "unexpected identifier in parameter"
	case ErrUnexpectedToken:
		return "unexpected token in capture"
	case ErrMissingCloseBrace:
		return "missing '}' after declaration"
	case ErrUnexpectedSymbolInParam:
		return "unexpected symbol in parameter"
	default:
		return fmt.Sprintf("error code %d", int(c))
	}
}

// SyntaxError is returned by Parse. Token is the token at which parsing
// stopped; it may be the empty token when the input simply ran out.
type SyntaxError struct {
	Code  ErrorCode
	Token Token
}

func (e *SyntaxError) Error() string {
	if e.Token.IsEmpty() {
		return fmt.Sprintf("format: %s (code %d)", e.Code, int(e.Code))
	}
	return fmt.Sprintf("format: %s at offset %d near %q (code %d)", e.Code, e.Token.Pos, e.Token.Text, int(e.Code))
}

// CodeOf returns the ErrorCode carried by err, 0 for nil, or
// ErrUnexpectedToken for errors that did not come from Parse.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return 0
	}
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrUnexpectedToken
}
