package ast

import (
	"mox-lang/internal/span"
)

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// This produces a tagged-union structure: every node has a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	// ---- Statements ----
	case *Program:
		return m("Program", n.Pos(), "statements", stmtSlice(n.Statements))
	case *LetStmt:
		return m("LetStmt", n.Pos(), "name", n.Name.Name, "value", NodeToMap(n.Value))
	case *ReturnStmt:
		return m("ReturnStmt", n.Pos(), "value", NodeToMap(n.Value))
	case *PrintStmt:
		return m("PrintStmt", n.Pos(), "value", NodeToMap(n.Value))
	case *ExprStmt:
		return m("ExprStmt", n.Pos(), "expr", NodeToMap(n.Expr))
	case *BlockStmt:
		return m("BlockStmt", n.Pos(), "stmts", stmtSlice(n.Stmts))

	// ---- Expressions ----
	case *Ident:
		return m("Ident", n.Pos(), "name", n.Name)
	case *IntLiteral:
		return m("IntLiteral", n.Pos(), "value", n.Value)
	case *StringLiteral:
		return m("StringLiteral", n.Pos(), "value", n.Value)
	case *BoolLiteral:
		return m("BoolLiteral", n.Pos(), "value", n.Value)
	case *PrefixExpr:
		return m("PrefixExpr", n.Pos(), "op", n.Op.String(), "right", NodeToMap(n.Right))
	case *InfixExpr:
		return m("InfixExpr", n.Pos(),
			"op", n.Op.String(),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *IfExpr:
		result := m("IfExpr", n.Pos(),
			"condition", NodeToMap(n.Condition),
			"consequence", NodeToMap(n.Consequence))
		if n.Alternative != nil {
			result["alternative"] = NodeToMap(n.Alternative)
		}
		return result
	case *FuncLiteral:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name
		}
		return m("FuncLiteral", n.Pos(), "params", params, "body", NodeToMap(n.Body))
	case *CallExpr:
		return m("CallExpr", n.Pos(),
			"callee", NodeToMap(n.Callee),
			"args", exprSlice(n.Args))
	case *ArrayLiteral:
		return m("ArrayLiteral", n.Pos(), "elements", exprSlice(n.Elements))
	case *IndexExpr:
		return m("IndexExpr", n.Pos(),
			"left", NodeToMap(n.Left),
			"index", NodeToMap(n.Index))
	case *HashLiteral:
		pairs := make([]interface{}, len(n.Pairs))
		for i, p := range n.Pairs {
			pairs[i] = map[string]interface{}{
				"key":   NodeToMap(p.Key),
				"value": NodeToMap(p.Value),
			}
		}
		return m("HashLiteral", n.Pos(), "pairs", pairs)

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

// m builds a map with kind, position, and extra key-value pairs.
func m(kind string, pos span.Position, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"line": pos.Line,
		"col":  pos.Column,
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func stmtSlice(stmts []Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = NodeToMap(s)
	}
	return result
}

func exprSlice(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = NodeToMap(e)
	}
	return result
}
