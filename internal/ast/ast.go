// Package ast defines the abstract syntax tree for mox-lang.
//
// The tree has two closed node families, Stmt and Expr. Consumers switch on the
// concrete node type; the unexported marker methods keep outside packages from
// adding variants.
package ast

import (
	"mox-lang/internal/span"
	"mox-lang/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	// GetToken returns the token the node was built from, for error positions.
	GetToken() token.Token
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the originating token for all AST nodes.
type NodeBase struct {
	Token token.Token
}

func (n NodeBase) nodeNode()             {}
func (n NodeBase) GetToken() token.Token { return n.Token }
func (n NodeBase) Pos() span.Position    { return n.Token.Pos }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// Statements
// ============================================================

// Program is the root of every parsed source text.
type Program struct {
	StmtBase
	Statements []Stmt
}

// LetStmt binds a name in the current scope: let x = expr;
type LetStmt struct {
	StmtBase
	Name  *Ident
	Value Expr
}

// ReturnStmt represents: return expr;
type ReturnStmt struct {
	StmtBase
	Value Expr
}

// PrintStmt represents: print expr;
type PrintStmt struct {
	StmtBase
	Value Expr
}

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	StmtBase
	Expr Expr
}

// BlockStmt represents a block of statements: { ... }.
type BlockStmt struct {
	StmtBase
	Stmts []Stmt
}

// ============================================================
// Expressions
// ============================================================

// Ident represents an identifier reference.
type Ident struct {
	ExprBase
	Name string
}

// IntLiteral represents an integer literal.
type IntLiteral struct {
	ExprBase
	Value int64
}

// StringLiteral represents a string literal.
type StringLiteral struct {
	ExprBase
	Value string
}

// BoolLiteral represents true or false.
type BoolLiteral struct {
	ExprBase
	Value bool
}

// PrefixExpr represents a unary operation: !x, -x.
type PrefixExpr struct {
	ExprBase
	Op    token.Kind
	Right Expr
}

// InfixExpr represents a binary operation: a + b, x == y.
type InfixExpr struct {
	ExprBase
	Op    token.Kind
	Left  Expr
	Right Expr
}

// IfExpr represents: if (cond) { ... } else { ... }.
type IfExpr struct {
	ExprBase
	Condition   Expr
	Consequence *BlockStmt
	Alternative *BlockStmt // may be nil
}

// FuncLiteral represents a function literal: fn(params) { body }.
type FuncLiteral struct {
	ExprBase
	Params []*Ident
	Body   *BlockStmt
}

// CallExpr represents a function call: f(a, b).
type CallExpr struct {
	ExprBase
	Callee Expr
	Args   []Expr
}

// ArrayLiteral represents an array literal: [a, b, c].
type ArrayLiteral struct {
	ExprBase
	Elements []Expr
}

// IndexExpr represents indexing: a[i].
type IndexExpr struct {
	ExprBase
	Left  Expr
	Index Expr
}

// HashPair is one key/value entry of a hash literal, in source order.
type HashPair struct {
	Key   Expr
	Value Expr
}

// HashLiteral represents a hash map literal: { key: val, ... }.
type HashLiteral struct {
	ExprBase
	Pairs []HashPair
}
