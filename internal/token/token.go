// Package token defines the token types produced by the lexer.
package token

import (
	"fmt"
	"mox-lang/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF

	// Literals
	IDENT  // identifiers: x, add, foo_bar
	INT    // integer literals: 123
	STRING // string literals: "hello"

	// Operators
	ASSIGN // =
	PLUS   // +
	MINUS  // -
	BANG   // !
	STAR   // *
	SLASH  // /

	EQ  // ==
	NEQ // !=
	LT  // <
	GT  // >

	// Delimiters
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]

	// Keywords
	KW_FN
	KW_LET
	KW_TRUE
	KW_FALSE
	KW_IF
	KW_ELSE
	KW_RETURN
	KW_PRINT
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:  "IDENT",
	INT:    "INT",
	STRING: "STRING",

	ASSIGN: "=",
	PLUS:   "+",
	MINUS:  "-",
	BANG:   "!",
	STAR:   "*",
	SLASH:  "/",
	EQ:     "==",
	NEQ:    "!=",
	LT:     "<",
	GT:     ">",

	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",

	KW_FN:     "fn",
	KW_LET:    "let",
	KW_TRUE:   "true",
	KW_FALSE:  "false",
	KW_IF:     "if",
	KW_ELSE:   "else",
	KW_RETURN: "return",
	KW_PRINT:  "print",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var keywords = map[string]Kind{
	"fn":     KW_FN,
	"let":    KW_LET,
	"true":   KW_TRUE,
	"false":  KW_FALSE,
	"if":     KW_IF,
	"else":   KW_ELSE,
	"return": KW_RETURN,
	"print":  KW_PRINT,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Keywords returns the keyword spellings, used by the REPL completer.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	return words
}

// Token represents a lexical token with its kind, text, and source location.
type Token struct {
	Kind    Kind          `json:"kind"`
	Literal string        `json:"literal"`
	Pos     span.Position `json:"pos"`
}

// Line returns the 1-based line the token started on.
func (t Token) Line() int {
	return t.Pos.Line
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Literal, t.Pos)
}
