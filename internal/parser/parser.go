// Package parser implements the syntax analysis for mox-lang.
// It uses Pratt parsing for expressions and recursive descent for statements.
//
// Parsing never panics on bad input: every failure is recorded as a diagnostic
// and the parser resumes at the next statement boundary, so one pass reports
// as many errors as it can.
package parser

import (
	"mox-lang/internal/ast"
	"mox-lang/internal/diag"
	"mox-lang/internal/lexer"
	"mox-lang/internal/token"
	"strconv"
)

// ============================================================
// Precedence levels
// ============================================================

const (
	precLowest      = iota
	precEquals      // == !=
	precLessGreater // < >
	precSum         // + -
	precProduct     // * /
	precPrefix      // -x !x
	precCall        // f(x)
	precIndex       // a[i]
)

var precedences = map[token.Kind]int{
	token.EQ:       precEquals,
	token.NEQ:      precEquals,
	token.LT:       precLessGreater,
	token.GT:       precLessGreater,
	token.PLUS:     precSum,
	token.MINUS:    precSum,
	token.STAR:     precProduct,
	token.SLASH:    precProduct,
	token.LPAREN:   precCall,
	token.LBRACKET: precIndex,
}

// ============================================================
// Parser
// ============================================================

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(left ast.Expr) ast.Expr
)

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens []token.Token
	pos    int // index of the token that becomes peek on the next advance

	cur  token.Token
	peek token.Token

	diags []diag.Diagnostic

	prefixFns map[token.Kind]prefixParseFn
	infixFns  map[token.Kind]infixParseFn
}

// New creates a new parser from a token slice, as produced by lexer.Tokenize.
func New(tokens []token.Token) *Parser {
	p := &Parser{
		tokens:    tokens,
		prefixFns: make(map[token.Kind]prefixParseFn),
		infixFns:  make(map[token.Kind]infixParseFn),
	}

	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.INT, p.parseIntLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.KW_TRUE, p.parseBoolLiteral)
	p.registerPrefix(token.KW_FALSE, p.parseBoolLiteral)
	p.registerPrefix(token.BANG, p.parsePrefixExpr)
	p.registerPrefix(token.MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.KW_IF, p.parseIfExpr)
	p.registerPrefix(token.KW_FN, p.parseFuncLiteral)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LBRACE, p.parseHashLiteral)

	for _, kind := range []token.Kind{
		token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.EQ, token.NEQ, token.LT, token.GT,
	} {
		p.registerInfix(kind, p.parseInfixExpr)
	}
	p.registerInfix(token.LPAREN, p.parseCallExpr)
	p.registerInfix(token.LBRACKET, p.parseIndexExpr)

	// Prime the window: after two advances, cur = first token, peek = second.
	p.nextToken()
	p.nextToken()
	return p
}

// Parse lexes and parses source in one step. Lexical diagnostics come first.
func Parse(source string) (*ast.Program, []diag.Diagnostic) {
	tokens, lexDiags := lexer.New(source).Tokenize()
	program, parseDiags := New(tokens).ParseProgram()
	return program, append(lexDiags, parseDiags...)
}

// ParseProgram parses the whole token stream and returns the AST root and diagnostics.
func (p *Parser) ParseProgram() (*ast.Program, []diag.Diagnostic) {
	program := &ast.Program{StmtBase: stmtBase(p.cur)}

	for !p.curIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}

	return program, p.diags
}

func (p *Parser) registerPrefix(kind token.Kind, fn prefixParseFn) {
	p.prefixFns[kind] = fn
}

func (p *Parser) registerInfix(kind token.Kind, fn infixParseFn) {
	p.infixFns[kind] = fn
}

// ---- navigation helpers ----

func (p *Parser) nextToken() {
	p.cur = p.peek
	switch {
	case p.pos < len(p.tokens):
		p.peek = p.tokens[p.pos]
		p.pos++
	case len(p.tokens) > 0:
		p.peek = p.tokens[len(p.tokens)-1]
	default:
		p.peek = token.Token{Kind: token.EOF}
	}
}

func (p *Parser) curIs(kind token.Kind) bool {
	return p.cur.Kind == kind
}

func (p *Parser) peekIs(kind token.Kind) bool {
	return p.peek.Kind == kind
}

// expectPeek advances when the peek token has the wanted kind. Otherwise it
// records message and leaves the window untouched; callers abort on false.
func (p *Parser) expectPeek(kind token.Kind, message string) bool {
	if p.peekIs(kind) {
		p.nextToken()
		return true
	}
	p.errorAt(p.peek, diag.CodeExpectedToken, "%s, got '%s'", message, describe(p.peek))
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peek.Kind]; ok {
		return prec
	}
	return precLowest
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.cur.Kind]; ok {
		return prec
	}
	return precLowest
}

func (p *Parser) errorAt(tok token.Token, code, format string, args ...interface{}) {
	p.diags = append(p.diags, diag.Errorf(code, tok.Pos, format, args...))
}

// describe names a token for error messages.
func describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "EOF"
	}
	return tok.Literal
}

// ============================================================
// Error recovery
// ============================================================

// synchronize skips tokens until a likely statement boundary. It stops with cur
// on a ';' or just before a token that starts a new statement or closes a block,
// so the caller's nextToken lands on the next statement.
func (p *Parser) synchronize() {
	for !p.curIs(token.SEMICOLON) && !p.curIs(token.EOF) {
		switch p.peek.Kind {
		case token.KW_LET, token.KW_RETURN, token.KW_PRINT, token.RBRACE, token.EOF:
			return
		}
		p.nextToken()
	}
}

// ============================================================
// Statement parsing
// ============================================================

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Kind {
	case token.KW_LET:
		return p.parseLetStmt()
	case token.KW_RETURN:
		return p.parseReturnStmt()
	case token.KW_PRINT:
		return p.parsePrintStmt()
	default:
		return p.parseExprStmt()
	}
}

// parseLetStmt parses: let IDENT = expr ;?
func (p *Parser) parseLetStmt() ast.Stmt {
	start := p.cur

	if !p.expectPeek(token.IDENT, "expected identifier after 'let'") {
		return nil
	}
	name := &ast.Ident{ExprBase: exprBase(p.cur), Name: p.cur.Literal}

	if !p.expectPeek(token.ASSIGN, "expected '=' after identifier") {
		return nil
	}
	p.nextToken()

	value := p.parseExpression(precLowest)
	if value == nil {
		return nil
	}
	p.skipSemicolon()

	return &ast.LetStmt{StmtBase: stmtBase(start), Name: name, Value: value}
}

// parseReturnStmt parses: return expr ;?
func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.cur
	p.nextToken()

	value := p.parseExpression(precLowest)
	if value == nil {
		return nil
	}
	p.skipSemicolon()

	return &ast.ReturnStmt{StmtBase: stmtBase(start), Value: value}
}

// parsePrintStmt parses: print expr ;?
func (p *Parser) parsePrintStmt() ast.Stmt {
	start := p.cur
	p.nextToken()

	value := p.parseExpression(precLowest)
	if value == nil {
		return nil
	}
	p.skipSemicolon()

	return &ast.PrintStmt{StmtBase: stmtBase(start), Value: value}
}

// parseExprStmt parses: expr ;?
func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.cur

	expr := p.parseExpression(precLowest)
	if expr == nil {
		return nil
	}
	p.skipSemicolon()

	return &ast.ExprStmt{StmtBase: stmtBase(start), Expr: expr}
}

// parseBlockStmt parses: { stmt* }. cur must be '{'. It stops at '}' or EOF.
func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	block := &ast.BlockStmt{StmtBase: stmtBase(p.cur)}
	p.nextToken()

	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}

	return block
}

func (p *Parser) skipSemicolon() {
	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
	}
}

// ============================================================
// Expression parsing (Pratt)
// ============================================================

// parseExpression parses an expression whose operators bind tighter than precedence.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix := p.prefixFns[p.cur.Kind]
	if prefix == nil {
		p.errorAt(p.cur, diag.CodeNoPrefixFn, "no prefix parse function for '%s'", describe(p.cur))
		return nil
	}

	left := prefix()
	if left == nil {
		return nil
	}

	for !p.peekIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peek.Kind]
		if infix == nil {
			return left
		}
		p.nextToken()

		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) parseIdent() ast.Expr {
	return &ast.Ident{ExprBase: exprBase(p.cur), Name: p.cur.Literal}
}

func (p *Parser) parseIntLiteral() ast.Expr {
	val, err := strconv.ParseInt(p.cur.Literal, 10, 64)
	if err != nil {
		p.errorAt(p.cur, diag.CodeBadInteger, "could not parse %q as integer", p.cur.Literal)
		return nil
	}
	return &ast.IntLiteral{ExprBase: exprBase(p.cur), Value: val}
}

func (p *Parser) parseStringLiteral() ast.Expr {
	return &ast.StringLiteral{ExprBase: exprBase(p.cur), Value: p.cur.Literal}
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	return &ast.BoolLiteral{ExprBase: exprBase(p.cur), Value: p.curIs(token.KW_TRUE)}
}

// parsePrefixExpr parses: ! expr | - expr
func (p *Parser) parsePrefixExpr() ast.Expr {
	op := p.cur
	p.nextToken()

	right := p.parseExpression(precPrefix)
	if right == nil {
		return nil
	}
	return &ast.PrefixExpr{ExprBase: exprBase(op), Op: op.Kind, Right: right}
}

// parseGroupedExpr parses: ( expr )
func (p *Parser) parseGroupedExpr() ast.Expr {
	p.nextToken() // consume '('

	expr := p.parseExpression(precLowest)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN, "expected ')' after grouped expression") {
		return nil
	}
	return expr
}

// parseInfixExpr parses the right operand of a left-associative binary operator.
func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	op := p.cur
	precedence := p.curPrecedence()
	p.nextToken()

	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.InfixExpr{ExprBase: exprBase(op), Op: op.Kind, Left: left, Right: right}
}

// parseIfExpr parses: if ( cond ) { ... } [ else { ... } ]
func (p *Parser) parseIfExpr() ast.Expr {
	start := p.cur

	if !p.expectPeek(token.LPAREN, "expected '(' after 'if'") {
		return nil
	}
	p.nextToken()

	condition := p.parseExpression(precLowest)
	if condition == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN, "expected ')' after if condition") {
		return nil
	}
	if !p.expectPeek(token.LBRACE, "expected '{' after if condition") {
		return nil
	}

	expr := &ast.IfExpr{
		ExprBase:    exprBase(start),
		Condition:   condition,
		Consequence: p.parseBlockStmt(),
	}

	if p.peekIs(token.KW_ELSE) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE, "expected '{' after 'else'") {
			return nil
		}
		expr.Alternative = p.parseBlockStmt()
	}

	return expr
}

// parseFuncLiteral parses: fn ( params ) { body }
func (p *Parser) parseFuncLiteral() ast.Expr {
	start := p.cur

	if !p.expectPeek(token.LPAREN, "expected '(' after 'fn'") {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	if !p.expectPeek(token.LBRACE, "expected '{' after function parameters") {
		return nil
	}

	return &ast.FuncLiteral{ExprBase: exprBase(start), Params: params, Body: p.parseBlockStmt()}
}

// parseParams parses: ( ident, ident, ... ). cur must be '('.
func (p *Parser) parseParams() ([]*ast.Ident, bool) {
	params := []*ast.Ident{}

	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}

	if !p.expectPeek(token.IDENT, "expected parameter name") {
		return nil, false
	}
	params = append(params, &ast.Ident{ExprBase: exprBase(p.cur), Name: p.cur.Literal})

	for p.peekIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.IDENT, "expected parameter name after ','") {
			return nil, false
		}
		params = append(params, &ast.Ident{ExprBase: exprBase(p.cur), Name: p.cur.Literal})
	}

	if !p.expectPeek(token.RPAREN, "expected ')' after function parameters") {
		return nil, false
	}
	return params, true
}

// parseCallExpr parses: callee ( args )
func (p *Parser) parseCallExpr(callee ast.Expr) ast.Expr {
	start := p.cur

	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	return &ast.CallExpr{ExprBase: exprBase(start), Callee: callee, Args: args}
}

// parseIndexExpr parses: left [ index ]
func (p *Parser) parseIndexExpr(left ast.Expr) ast.Expr {
	start := p.cur
	p.nextToken()

	index := p.parseExpression(precLowest)
	if index == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET, "expected ']' after index expression") {
		return nil
	}
	return &ast.IndexExpr{ExprBase: exprBase(start), Left: left, Index: index}
}

// parseArrayLiteral parses: [ expr, expr, ... ]
func (p *Parser) parseArrayLiteral() ast.Expr {
	start := p.cur

	elements, ok := p.parseExpressionList(token.RBRACKET)
	if !ok {
		return nil
	}
	return &ast.ArrayLiteral{ExprBase: exprBase(start), Elements: elements}
}

// parseExpressionList parses zero or more comma-separated expressions up to end.
// cur must be the opening delimiter.
func (p *Parser) parseExpressionList(end token.Kind) ([]ast.Expr, bool) {
	list := []ast.Expr{}

	if p.peekIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	expr := p.parseExpression(precLowest)
	if expr == nil {
		return nil, false
	}
	list = append(list, expr)

	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		expr := p.parseExpression(precLowest)
		if expr == nil {
			return nil, false
		}
		list = append(list, expr)
	}

	if !p.expectPeek(end, "expected '"+end.String()+"' after list of expressions") {
		return nil, false
	}
	return list, true
}

// parseHashLiteral parses: { key: value, ... } with an optional trailing comma.
func (p *Parser) parseHashLiteral() ast.Expr {
	hash := &ast.HashLiteral{ExprBase: exprBase(p.cur)}

	for !p.peekIs(token.RBRACE) {
		p.nextToken()
		key := p.parseExpression(precLowest)
		if key == nil {
			return nil
		}

		if !p.expectPeek(token.COLON, "expected ':' after hash key") {
			return nil
		}
		p.nextToken()

		value := p.parseExpression(precLowest)
		if value == nil {
			return nil
		}

		if !p.peekIs(token.RBRACE) && !p.expectPeek(token.COMMA, "expected ',' after hash value") {
			return nil
		}
		hash.Pairs = append(hash.Pairs, ast.HashPair{Key: key, Value: value})
	}

	if !p.expectPeek(token.RBRACE, "expected '}' after hash literal") {
		return nil
	}
	return hash
}

// ============================================================
// Node helpers
// ============================================================

func exprBase(tok token.Token) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Token: tok}}
}

func stmtBase(tok token.Token) ast.StmtBase {
	return ast.StmtBase{NodeBase: ast.NodeBase{Token: tok}}
}
