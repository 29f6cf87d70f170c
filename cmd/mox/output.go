package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mox-lang/internal/diag"
	"mox-lang/internal/token"
	"strconv"
)

// ---- ANSI colors ----

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// paint wraps s in color when enabled is true.
func paint(enabled bool, color, s string) string {
	if !enabled {
		return s
	}
	return color + s + colorReset
}

// ---- output helpers ----

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

// printDiagsText writes one diagnostic per line. A non-empty prefix names the source file.
func printDiagsText(w io.Writer, prefix string, diags []diag.Diagnostic) {
	for _, d := range diags {
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, d)
		} else {
			fmt.Fprintln(w, d.String())
		}
	}
}

func diagsToSlice(diags []diag.Diagnostic) []map[string]interface{} {
	result := make([]map[string]interface{}, len(diags))
	for i, d := range diags {
		result[i] = map[string]interface{}{
			"code":    d.Code,
			"message": d.Message,
			"line":    d.Pos.Line,
			"column":  d.Pos.Column,
			"offset":  d.Pos.Offset,
		}
	}
	return result
}

// ---- token output helpers ----

func printTokensText(w io.Writer, tokens []token.Token) {
	for _, tok := range tokens {
		lit := tok.Literal
		if tok.Kind == token.STRING {
			lit = strconv.Quote(lit)
		}
		fmt.Fprintf(w, "%-12s %-20s %d:%d\n", tok.Kind, lit, tok.Pos.Line, tok.Pos.Column)
	}
}

func printTokensJSON(w io.Writer, tokens []token.Token, diags []diag.Diagnostic) error {
	type tokenJSON struct {
		Kind    string `json:"kind"`
		Literal string `json:"literal"`
		Line    int    `json:"line"`
		Column  int    `json:"column"`
		Offset  int    `json:"offset"`
	}

	toks := make([]tokenJSON, 0, len(tokens))
	for _, tok := range tokens {
		toks = append(toks, tokenJSON{
			Kind:    tok.Kind.String(),
			Literal: tok.Literal,
			Line:    tok.Pos.Line,
			Column:  tok.Pos.Column,
			Offset:  tok.Pos.Offset,
		})
	}

	output := map[string]interface{}{
		"tokens":      toks,
		"diagnostics": diagsToSlice(diags),
	}
	return printJSON(w, output)
}
