// Package lexer implements the lexical analysis (tokenization) for mox-lang.
package lexer

import (
	"mox-lang/internal/diag"
	"mox-lang/internal/span"
	"mox-lang/internal/token"
)

// Lexer tokenizes source code into a sequence of tokens.
// It is a single forward cursor: each NextToken call resumes where the previous one stopped.
type Lexer struct {
	source string

	pos  int // current read position in source
	line int // current line (1-based)
	col  int // current column (1-based)

	diags []diag.Diagnostic
}

// New creates a new Lexer for the given source text.
func New(source string) *Lexer {
	return &Lexer{
		source: source,
		pos:    0,
		line:   1,
		col:    1,
	}
}

// Tokenize scans the rest of the source and returns all tokens and diagnostics.
// The token slice always ends with exactly one EOF token.
func (l *Lexer) Tokenize() ([]token.Token, []diag.Diagnostic) {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens, l.diags
}

// Diagnostics returns the lexical errors recorded so far.
func (l *Lexer) Diagnostics() []diag.Diagnostic {
	return l.diags
}

// NextToken scans and returns the next token. Once the input is exhausted it keeps returning EOF.
func (l *Lexer) NextToken() token.Token {
	l.skipTrivia()

	start := l.curPos()
	if l.pos >= len(l.source) {
		return token.Token{Kind: token.EOF, Literal: "", Pos: start}
	}

	ch := l.peek()
	switch {
	case ch == '"':
		return l.readString(start)
	case isDigit(ch):
		return l.readNumber(start)
	case isIdentStart(ch):
		return l.readIdentifier(start)
	default:
		return l.readOperator(start)
	}
}

// ---- internal helpers ----

// peek returns the current character without advancing, or 0 if at end.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

// peekNext returns the character after current, or 0 if at end.
func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

// advance consumes the current character and returns it.
func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

// curPos returns the current position as a span.Position.
func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// skipTrivia skips whitespace (including newlines) and // line comments.
func (l *Lexer) skipTrivia() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peekNext() == '/':
			for l.pos < len(l.source) && l.source[l.pos] != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

// addError records a diagnostic error.
func (l *Lexer) addError(code string, pos span.Position, format string, args ...interface{}) {
	l.diags = append(l.diags, diag.Errorf(code, pos, format, args...))
}

func makeToken(kind token.Kind, literal string, pos span.Position) token.Token {
	return token.Token{Kind: kind, Literal: literal, Pos: pos}
}

// ---- token reading ----

// readString reads a double-quoted string literal. Newlines inside the literal are kept.
func (l *Lexer) readString(start span.Position) token.Token {
	l.advance() // skip opening "
	var value []byte

	for l.pos < len(l.source) {
		ch := l.peek()
		if ch == '"' {
			l.advance() // skip closing "
			return makeToken(token.STRING, string(value), start)
		}
		if ch == '\\' && l.pos+1 < len(l.source) {
			l.advance()
			esc := l.advance()
			switch esc {
			case 'n':
				value = append(value, '\n')
			case 't':
				value = append(value, '\t')
			case '\\':
				value = append(value, '\\')
			case '"':
				value = append(value, '"')
			default:
				l.addError(diag.CodeUnknownEscape, start, "unknown escape sequence: \\%c", esc)
				value = append(value, esc)
			}
			continue
		}
		value = append(value, l.advance())
	}

	l.addError(diag.CodeUnterminatedString, start, "unterminated string")
	return makeToken(token.STRING, string(value), start)
}

// readNumber reads an integer literal. Negative numbers are a parser-level prefix operator.
func (l *Lexer) readNumber(start span.Position) token.Token {
	numStart := l.pos
	for l.pos < len(l.source) && isDigit(l.peek()) {
		l.advance()
	}
	return makeToken(token.INT, l.source[numStart:l.pos], start)
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier(start span.Position) token.Token {
	identStart := l.pos
	for l.pos < len(l.source) && isIdentPart(l.peek()) {
		l.advance()
	}
	lexeme := l.source[identStart:l.pos]
	return makeToken(token.LookupIdent(lexeme), lexeme, start)
}

// readOperator reads an operator or delimiter token.
func (l *Lexer) readOperator(start span.Position) token.Token {
	ch := l.advance()

	switch ch {
	case '(':
		return makeToken(token.LPAREN, "(", start)
	case ')':
		return makeToken(token.RPAREN, ")", start)
	case '{':
		return makeToken(token.LBRACE, "{", start)
	case '}':
		return makeToken(token.RBRACE, "}", start)
	case '[':
		return makeToken(token.LBRACKET, "[", start)
	case ']':
		return makeToken(token.RBRACKET, "]", start)
	case ',':
		return makeToken(token.COMMA, ",", start)
	case ';':
		return makeToken(token.SEMICOLON, ";", start)
	case ':':
		return makeToken(token.COLON, ":", start)
	case '+':
		return makeToken(token.PLUS, "+", start)
	case '-':
		return makeToken(token.MINUS, "-", start)
	case '*':
		return makeToken(token.STAR, "*", start)
	case '/':
		return makeToken(token.SLASH, "/", start)
	case '<':
		return makeToken(token.LT, "<", start)
	case '>':
		return makeToken(token.GT, ">", start)
	case '!':
		if l.peek() == '=' {
			l.advance()
			return makeToken(token.NEQ, "!=", start)
		}
		return makeToken(token.BANG, "!", start)
	case '=':
		if l.peek() == '=' {
			l.advance()
			return makeToken(token.EQ, "==", start)
		}
		return makeToken(token.ASSIGN, "=", start)
	default:
		l.addError(diag.CodeUnexpectedChar, start, "unexpected character '%c'", ch)
		return makeToken(token.ILLEGAL, string(ch), start)
	}
}

// ---- character classification ----

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
