package ast

import (
	"strconv"
	"strings"
)

// String renders a node back to source-like text with every prefix and infix
// operation parenthesized, so "1 + 2 * 3" prints as "(1 + (2 * 3))".
func String(node Node) string {
	var sb strings.Builder
	write(&sb, node)
	return sb.String()
}

func write(sb *strings.Builder, node Node) {
	switch n := node.(type) {
	case *Program:
		for _, s := range n.Statements {
			write(sb, s)
		}
	case *LetStmt:
		sb.WriteString("let ")
		sb.WriteString(n.Name.Name)
		sb.WriteString(" = ")
		write(sb, n.Value)
		sb.WriteString(";")
	case *ReturnStmt:
		sb.WriteString("return ")
		write(sb, n.Value)
		sb.WriteString(";")
	case *PrintStmt:
		sb.WriteString("print ")
		write(sb, n.Value)
		sb.WriteString(";")
	case *ExprStmt:
		write(sb, n.Expr)
	case *BlockStmt:
		sb.WriteString("{ ")
		for _, s := range n.Stmts {
			write(sb, s)
			sb.WriteString(" ")
		}
		sb.WriteString("}")

	case *Ident:
		sb.WriteString(n.Name)
	case *IntLiteral:
		sb.WriteString(strconv.FormatInt(n.Value, 10))
	case *StringLiteral:
		sb.WriteString(strconv.Quote(n.Value))
	case *BoolLiteral:
		sb.WriteString(strconv.FormatBool(n.Value))
	case *PrefixExpr:
		sb.WriteString("(")
		sb.WriteString(n.Op.String())
		write(sb, n.Right)
		sb.WriteString(")")
	case *InfixExpr:
		sb.WriteString("(")
		write(sb, n.Left)
		sb.WriteString(" " + n.Op.String() + " ")
		write(sb, n.Right)
		sb.WriteString(")")
	case *IfExpr:
		sb.WriteString("if ")
		write(sb, n.Condition)
		sb.WriteString(" ")
		write(sb, n.Consequence)
		if n.Alternative != nil {
			sb.WriteString(" else ")
			write(sb, n.Alternative)
		}
	case *FuncLiteral:
		sb.WriteString("fn(")
		for i, p := range n.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.Name)
		}
		sb.WriteString(") ")
		write(sb, n.Body)
	case *CallExpr:
		write(sb, n.Callee)
		sb.WriteString("(")
		writeList(sb, n.Args)
		sb.WriteString(")")
	case *ArrayLiteral:
		sb.WriteString("[")
		writeList(sb, n.Elements)
		sb.WriteString("]")
	case *IndexExpr:
		sb.WriteString("(")
		write(sb, n.Left)
		sb.WriteString("[")
		write(sb, n.Index)
		sb.WriteString("])")
	case *HashLiteral:
		sb.WriteString("{")
		for i, p := range n.Pairs {
			if i > 0 {
				sb.WriteString(", ")
			}
			write(sb, p.Key)
			sb.WriteString(": ")
			write(sb, p.Value)
		}
		sb.WriteString("}")
	}
}

func writeList(sb *strings.Builder, exprs []Expr) {
	for i, e := range exprs {
		if i > 0 {
			sb.WriteString(", ")
		}
		write(sb, e)
	}
}
