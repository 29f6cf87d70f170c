// Package diag provides the diagnostic type collected by the lexer and parser.
package diag

import (
	"fmt"
	"mox-lang/internal/span"
)

// Stable diagnostic codes. Lexical codes start at E1xxx, syntax codes at E2xxx.
const (
	CodeUnterminatedString = "E1001"
	CodeUnknownEscape      = "E1002"
	CodeUnexpectedChar     = "E1003"

	CodeExpectedToken = "E2001"
	CodeNoPrefixFn    = "E2002"
	CodeBadInteger    = "E2003"
)

// Diagnostic represents a lexical or syntax error.
type Diagnostic struct {
	Code    string        `json:"code"`    // stable error code, e.g. "E1001"
	Message string        `json:"message"` // human-readable description
	Pos     span.Position `json:"pos"`     // source location
}

// String renders the diagnostic as "[line L] error: <message>".
func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] error: %s", d.Pos.Line, d.Message)
}

// Errorf creates a diagnostic at the given position.
func Errorf(code string, pos span.Position, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

// Strings renders every diagnostic with String.
func Strings(diags []Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.String()
	}
	return out
}
