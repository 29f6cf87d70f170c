package runtime

import (
	"fmt"
	"io"
	"log/slog"
	"mox-lang/internal/ast"
	"mox-lang/internal/token"
)

// DefaultMaxDepth is the call depth at which evaluation stops with a runtime error.
const DefaultMaxDepth = 10000

// ============================================================
// Interpreter
// ============================================================

// Interpreter walks the AST and evaluates it.
//
// Control flow travels through the error result of every eval/exec method: a
// *ReturnVal stops at the nearest function call, an *ErrorVal stops nowhere and
// becomes the result of Interpret.
type Interpreter struct {
	global   *Environment
	env      *Environment
	builtins map[string]*BuiltinVal

	out    io.Writer // optional mirror of the print sink
	output []string  // print sink, in program order

	logger   *slog.Logger
	maxDepth int
	depth    int
}

// Option is a functional option for configuring the Interpreter.
type Option func(*Interpreter)

// WithOutput mirrors every printed line to w.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) {
		i.out = w
	}
}

// WithBuiltins adds builtins to the default table. Entries replace defaults with the same name.
func WithBuiltins(builtins map[string]*BuiltinVal) Option {
	return func(i *Interpreter) {
		for name, b := range builtins {
			i.builtins[name] = b
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

// WithMaxDepth limits how deeply function calls may nest. Values <= 0 keep the default.
func WithMaxDepth(n int) Option {
	return func(i *Interpreter) {
		if n > 0 {
			i.maxDepth = n
		}
	}
}

// New creates a new interpreter with an empty global scope and the default builtins.
func New(options ...Option) *Interpreter {
	global := NewEnvironment(nil)
	i := &Interpreter{
		global:   global,
		env:      global,
		builtins: DefaultBuiltins(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(i)
	}
	return i
}

// Interpret evaluates the program's statements in order in the global scope.
// It returns the value of the last statement, the value of a top-level return,
// or the *ErrorVal that stopped evaluation. Bindings persist across calls.
func (i *Interpreter) Interpret(program *ast.Program) Value {
	i.env = i.global
	i.depth = 0

	var result Value = Null
	for _, stmt := range program.Statements {
		val, err := i.execStmt(stmt)
		if err != nil {
			return i.unwind(err)
		}
		result = val
	}
	return result
}

// Output returns the lines written by print statements so far.
func (i *Interpreter) Output() []string {
	return i.output
}

// Env returns the global environment.
func (i *Interpreter) Env() *Environment {
	return i.global
}

// Builtins returns the builtin table consulted after the environment chain.
func (i *Interpreter) Builtins() map[string]*BuiltinVal {
	return i.builtins
}

// unwind turns a control signal that reached the top level into the program result.
func (i *Interpreter) unwind(err error) Value {
	switch sig := err.(type) {
	case *ReturnVal:
		return sig.Value
	case *ErrorVal:
		i.logger.Debug("runtime error", "line", sig.Line, "message", sig.Message)
		return sig
	default:
		return &ErrorVal{Message: err.Error()}
	}
}

// errorf builds a runtime error positioned at node.
func errorf(node ast.Node, format string, args ...interface{}) *ErrorVal {
	return &ErrorVal{
		Message: fmt.Sprintf(format, args...),
		Line:    node.GetToken().Pos.Line,
	}
}

// ============================================================
// Statement execution
// ============================================================

func (i *Interpreter) execStmt(stmt ast.Stmt) (Value, error) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		val, err := i.evalExpr(s.Value)
		if err != nil {
			return nil, err
		}
		i.env.Set(s.Name.Name, val)
		return val, nil

	case *ast.ReturnStmt:
		val, err := i.evalExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return nil, &ReturnVal{Value: val}

	case *ast.PrintStmt:
		val, err := i.evalExpr(s.Value)
		if err != nil {
			return nil, err
		}
		i.print(val.String())
		return val, nil

	case *ast.ExprStmt:
		return i.evalExpr(s.Expr)

	case *ast.BlockStmt:
		return i.execBlock(s)

	default:
		return nil, errorf(stmt, "unknown statement type %T", stmt)
	}
}

// execBlock runs the statements of a block in the current scope. Blocks do not
// open a scope of their own; only function calls do.
func (i *Interpreter) execBlock(block *ast.BlockStmt) (Value, error) {
	var result Value = Null
	for _, stmt := range block.Stmts {
		val, err := i.execStmt(stmt)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}

func (i *Interpreter) print(line string) {
	i.output = append(i.output, line)
	if i.out != nil {
		fmt.Fprintln(i.out, line)
	}
}

// ============================================================
// Expression evaluation
// ============================================================

func (i *Interpreter) evalExpr(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return IntVal(e.Value), nil
	case *ast.StringLiteral:
		return StringVal(e.Value), nil
	case *ast.BoolLiteral:
		return nativeBool(e.Value), nil
	case *ast.Ident:
		return i.evalIdent(e)
	case *ast.PrefixExpr:
		return i.evalPrefix(e)
	case *ast.InfixExpr:
		return i.evalInfix(e)
	case *ast.IfExpr:
		return i.evalIf(e)
	case *ast.FuncLiteral:
		return i.evalFuncLiteral(e), nil
	case *ast.CallExpr:
		return i.evalCall(e)
	case *ast.ArrayLiteral:
		return i.evalArrayLiteral(e)
	case *ast.IndexExpr:
		return i.evalIndex(e)
	case *ast.HashLiteral:
		return i.evalHashLiteral(e)
	default:
		return nil, errorf(expr, "unknown expression type %T", expr)
	}
}

func (i *Interpreter) evalIdent(e *ast.Ident) (Value, error) {
	if val, ok := i.env.Get(e.Name); ok {
		return val, nil
	}
	if b, ok := i.builtins[e.Name]; ok {
		return b, nil
	}
	return nil, errorf(e, "identifier not found: %s", e.Name)
}

func (i *Interpreter) evalPrefix(e *ast.PrefixExpr) (Value, error) {
	right, err := i.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case token.BANG:
		return nativeBool(!isTruthy(right)), nil
	case token.MINUS:
		n, ok := right.(IntVal)
		if !ok {
			return nil, errorf(e, "unknown operator: '-' %s", right.TypeName())
		}
		return -n, nil
	default:
		return nil, errorf(e, "unknown operator: '%s%s'", e.Op, right.TypeName())
	}
}

func (i *Interpreter) evalInfix(e *ast.InfixExpr) (Value, error) {
	left, err := i.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}

	if l, ok := left.(IntVal); ok {
		if r, ok := right.(IntVal); ok {
			return evalIntInfix(e, l, r)
		}
	}

	switch {
	case e.Op == token.EQ:
		return nativeBool(valuesEqual(left, right)), nil
	case e.Op == token.NEQ:
		return nativeBool(!valuesEqual(left, right)), nil
	case left.TypeName() != right.TypeName():
		return nil, errorf(e, "type mismatch: %s '%s' %s", left.TypeName(), e.Op, right.TypeName())
	default:
		return nil, errorf(e, "unknown operator: '%s'", e.Op)
	}
}

func evalIntInfix(e *ast.InfixExpr, l, r IntVal) (Value, error) {
	switch e.Op {
	case token.PLUS:
		return l + r, nil
	case token.MINUS:
		return l - r, nil
	case token.STAR:
		return l * r, nil
	case token.SLASH:
		if r == 0 {
			return nil, errorf(e, "division by zero")
		}
		return l / r, nil
	case token.LT:
		return nativeBool(l < r), nil
	case token.GT:
		return nativeBool(l > r), nil
	case token.EQ:
		return nativeBool(l == r), nil
	case token.NEQ:
		return nativeBool(l != r), nil
	default:
		return nil, errorf(e, "unknown operator: '%s'", e.Op)
	}
}

func (i *Interpreter) evalIf(e *ast.IfExpr) (Value, error) {
	cond, err := i.evalExpr(e.Condition)
	if err != nil {
		return nil, err
	}

	if isTruthy(cond) {
		return i.execBlock(e.Consequence)
	}
	if e.Alternative != nil {
		return i.execBlock(e.Alternative)
	}
	return Null, nil
}

func (i *Interpreter) evalFuncLiteral(e *ast.FuncLiteral) Value {
	params := make([]string, len(e.Params))
	for idx, p := range e.Params {
		params[idx] = p.Name
	}
	// capture the current scope by reference
	return &FuncVal{Params: params, Body: e.Body, Closure: i.env}
}

// ============================================================
// Calls
// ============================================================

func (i *Interpreter) evalCall(e *ast.CallExpr) (Value, error) {
	callee, err := i.evalExpr(e.Callee)
	if err != nil {
		return nil, err
	}

	args, err := i.evalExprs(e.Args)
	if err != nil {
		return nil, err
	}

	switch fn := callee.(type) {
	case *FuncVal:
		return i.callFunc(fn, args, e)
	case *BuiltinVal:
		return callBuiltin(fn, args, e)
	default:
		return nil, errorf(e, "not a function")
	}
}

func (i *Interpreter) callFunc(fn *FuncVal, args []Value, e *ast.CallExpr) (Value, error) {
	if len(args) != len(fn.Params) {
		return nil, errorf(e, "wrong number of arguments: want=%d, got=%d", len(fn.Params), len(args))
	}
	if i.depth >= i.maxDepth {
		i.logger.Warn("call depth limit reached", "line", e.Pos().Line, "depth", i.depth)
		return nil, errorf(e, "maximum call depth exceeded")
	}

	// New scope chained to the closure, not to the caller
	funcEnv := NewEnvironment(fn.Closure)
	for idx, param := range fn.Params {
		funcEnv.Set(param, args[idx])
	}

	previous := i.env
	i.env = funcEnv
	i.depth++
	defer func() {
		i.env = previous
		i.depth--
	}()

	result, err := i.execBlock(fn.Body)
	if ret, ok := err.(*ReturnVal); ok {
		return ret.Value, nil
	}
	return result, err
}

// callBuiltin invokes a native function. Go errors and returned *ErrorVal values both
// become runtime errors positioned at the call.
func callBuiltin(fn *BuiltinVal, args []Value, e *ast.CallExpr) (Value, error) {
	result, err := fn.Fn(args)
	if err != nil {
		if ev, ok := err.(*ErrorVal); ok {
			return nil, ev
		}
		return nil, errorf(e, "%s", err.Error())
	}
	if ev, ok := result.(*ErrorVal); ok {
		return nil, ev
	}
	if result == nil {
		return Null, nil
	}
	return result, nil
}

// evalExprs evaluates expressions left to right, stopping at the first signal.
func (i *Interpreter) evalExprs(exprs []ast.Expr) ([]Value, error) {
	values := make([]Value, 0, len(exprs))
	for _, expr := range exprs {
		val, err := i.evalExpr(expr)
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}
	return values, nil
}

// ============================================================
// Arrays and hashes
// ============================================================

func (i *Interpreter) evalArrayLiteral(e *ast.ArrayLiteral) (Value, error) {
	elements, err := i.evalExprs(e.Elements)
	if err != nil {
		return nil, err
	}
	return &ArrayVal{Elements: elements}, nil
}

func (i *Interpreter) evalHashLiteral(e *ast.HashLiteral) (Value, error) {
	hash := NewHash()
	for _, pair := range e.Pairs {
		key, err := i.evalExpr(pair.Key)
		if err != nil {
			return nil, err
		}
		val, err := i.evalExpr(pair.Value)
		if err != nil {
			return nil, err
		}
		hash.Set(key, val)
	}
	return hash, nil
}

func (i *Interpreter) evalIndex(e *ast.IndexExpr) (Value, error) {
	left, err := i.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	index, err := i.evalExpr(e.Index)
	if err != nil {
		return nil, err
	}

	switch obj := left.(type) {
	case *ArrayVal:
		idx, ok := index.(IntVal)
		if !ok {
			return nil, errorf(e, "index operator not supported for %s", left.TypeName())
		}
		if idx < 0 || int64(idx) >= int64(len(obj.Elements)) {
			return Null, nil
		}
		return obj.Elements[idx], nil
	case *HashVal:
		if val, ok := obj.Get(index); ok {
			return val, nil
		}
		return Null, nil
	default:
		return nil, errorf(e, "index operator not supported for %s", left.TypeName())
	}
}
