package evaluator

import (
	"darix/internal/ast"
	"darix/internal/object"
	"io"
	"log/slog"
	"os"
)

// DefaultMaxCallDepth bounds recursion so that runaway programs raise a
// RecursionError instead of exhausting the Go stack.
const DefaultMaxCallDepth = 5000

type Signal int

const (
	Normal Signal = iota
	Return
	Raise
)

func (s Signal) String() string {
	switch s {
	case Return:
		return "return"
	case Raise:
		return "raise"
	}
	return "normal"
}

// Completion is the outcome of executing a statement. Value holds the
// returned value for Return, and the expression value for a Normal
// expression statement.
type Completion struct {
	Signal Signal
	Value  object.Object
	Err    *object.RuntimeError
}

var normal = Completion{Signal: Normal, Value: object.NULL}

func raise(err *object.RuntimeError) Completion {
	return Completion{Signal: Raise, Value: object.NULL, Err: err}
}

// Evaluator is a tree-walking interpreter for a single program run. Globals
// persist across calls to Run so a REPL can feed it one entry at a time.
type Evaluator struct {
	envStack []*object.Environment // Environment stack encapsulated in an evaluator struct
	globals  *object.Environment

	out    io.Writer
	logger *slog.Logger

	MaxCallDepth int
	depth        int
}

func New(out io.Writer, logger *slog.Logger) *Evaluator {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	globals := object.NewEnvironment()
	return &Evaluator{
		envStack:     []*object.Environment{globals},
		globals:      globals,
		out:          out,
		logger:       logger,
		MaxCallDepth: DefaultMaxCallDepth,
	}
}

// Out is the writer console output natives print to.
func (e *Evaluator) Out() io.Writer {
	return e.out
}

func (e *Evaluator) Globals() *object.Environment {
	return e.globals
}

func (e *Evaluator) PushEnv(env *object.Environment) {
	e.envStack = append(e.envStack, env)
}

func (e *Evaluator) CurrentEnv() *object.Environment {
	// Access the current environment from the top frame
	if len(e.envStack) == 0 {
		panic("Environment stack is empty in the current frame")
	}
	return e.envStack[len(e.envStack)-1]
}

func (e *Evaluator) PopEnv() {
	if len(e.envStack) == 0 {
		panic("Attempted to pop from an empty environment stack")
	}
	e.envStack = e.envStack[:len(e.envStack)-1]
}

// Run executes the top-level statements in order. The result is the value of
// the last expression statement executed, or the value of a top-level return,
// or null. An uncaught runtime error stops the run and is returned as a
// *object.RuntimeError.
func (e *Evaluator) Run(program *ast.Program) (object.Object, error) {
	e.envStack = []*object.Environment{e.globals}
	e.depth = 0

	var result object.Object = object.NULL

	for _, stmt := range program.Statements {
		c := e.execute(stmt)

		switch c.Signal {
		case Raise:
			e.logger.Debug("uncaught runtime error",
				slog.String("kind", string(c.Err.Kind)),
				slog.String("message", c.Err.Message),
				slog.Int("line", c.Err.Line))
			return object.NULL, c.Err
		case Return:
			return c.Value, nil
		}

		if _, ok := stmt.(*ast.ExpressionStatement); ok {
			result = c.Value
		}
	}

	return result, nil
}

func (e *Evaluator) execute(node ast.Statement) Completion {
	switch node := node.(type) {

	case *ast.ExpressionStatement:
		val, err := e.evaluate(node.Expression)
		if err != nil {
			return raise(err)
		}
		return Completion{Signal: Normal, Value: val}

	case *ast.VarStatement:
		var val object.Object = object.NULL
		if node.Initializer != nil {
			v, err := e.evaluate(node.Initializer)
			if err != nil {
				return raise(err)
			}
			val = v
		}
		e.CurrentEnv().Define(node.Name, val)
		return normal

	case *ast.FunctionDeclaration:
		e.CurrentEnv().Define(node.Name, e.newFunction(node))
		return normal

	case *ast.ClassDeclaration:
		class := &object.Class{Name: node.Name, Methods: make(map[string]*object.Function, len(node.Methods))}
		for _, m := range node.Methods {
			class.Methods[m.Name] = e.newFunction(m)
		}
		e.CurrentEnv().Define(node.Name, class)
		return normal

	case *ast.ReturnStatement:
		var val object.Object = object.NULL
		if node.ReturnValue != nil {
			v, err := e.evaluate(node.ReturnValue)
			if err != nil {
				return raise(err)
			}
			val = v
		}
		return Completion{Signal: Return, Value: val}

	case *ast.IfStatement:
		return e.evalIfStatement(node)

	case *ast.WhileStatement:
		return e.evalWhileStatement(node)

	case *ast.ForStatement:
		return e.evalForStatement(node)

	case *ast.TryStatement:
		return e.evalTryStatement(node)

	case *ast.BlockStatement:
		return e.evalBlock(node.Statements, object.NewEnclosedEnvironment(e.CurrentEnv()))
	}

	return raise(object.NewError(object.TypeError, "unsupported statement %T", node))
}

func (e *Evaluator) newFunction(node *ast.FunctionDeclaration) *object.Function {
	return &object.Function{
		Name:       node.Name,
		Parameters: node.Parameters,
		Body:       node.Body,
		Env:        e.CurrentEnv(),
	}
}

// evalBlock runs statements in env and stops at the first completion that
// is not Normal.
func (e *Evaluator) evalBlock(stmts []ast.Statement, env *object.Environment) Completion {
	e.PushEnv(env)
	defer e.PopEnv()

	for _, stmt := range stmts {
		c := e.execute(stmt)
		if c.Signal != Normal {
			return c
		}
	}

	return normal
}

func (e *Evaluator) evalIfStatement(node *ast.IfStatement) Completion {
	cond, err := e.evaluate(node.Condition)
	if err != nil {
		return raise(err)
	}

	if object.IsTruthy(cond) {
		return e.evalBlock(node.ThenBranch, object.NewEnclosedEnvironment(e.CurrentEnv()))
	}
	if len(node.ElseBranch) > 0 {
		return e.evalBlock(node.ElseBranch, object.NewEnclosedEnvironment(e.CurrentEnv()))
	}
	return normal
}

func (e *Evaluator) evalWhileStatement(node *ast.WhileStatement) Completion {
	for {
		cond, err := e.evaluate(node.Condition)
		if err != nil {
			return raise(err)
		}
		if !object.IsTruthy(cond) {
			return normal
		}

		c := e.evalBlock(node.Body, object.NewEnclosedEnvironment(e.CurrentEnv()))
		if c.Signal != Normal {
			return c
		}
	}
}

// evalForStatement gives the header its own frame, so a `var` initializer is
// scoped to the loop, and each iteration of the body a fresh child frame.
func (e *Evaluator) evalForStatement(node *ast.ForStatement) Completion {
	e.PushEnv(object.NewEnclosedEnvironment(e.CurrentEnv()))
	defer e.PopEnv()

	if node.Initializer != nil {
		if c := e.execute(node.Initializer); c.Signal != Normal {
			return c
		}
	}

	for {
		if node.Condition != nil {
			cond, err := e.evaluate(node.Condition)
			if err != nil {
				return raise(err)
			}
			if !object.IsTruthy(cond) {
				return normal
			}
		}

		c := e.evalBlock(node.Body, object.NewEnclosedEnvironment(e.CurrentEnv()))
		if c.Signal != Normal {
			return c
		}

		if node.Increment != nil {
			if _, err := e.evaluate(node.Increment); err != nil {
				return raise(err)
			}
		}
	}
}

// evalTryStatement runs finally exactly once on every path. A finally block
// that itself returns or raises replaces the pending completion.
func (e *Evaluator) evalTryStatement(node *ast.TryStatement) Completion {
	env := e.CurrentEnv()

	c := e.evalBlock(node.Body, object.NewEnclosedEnvironment(env))

	if c.Signal == Raise && node.HasCatch {
		e.logger.Debug("caught runtime error",
			slog.String("kind", string(c.Err.Kind)),
			slog.String("message", c.Err.Message))

		catchEnv := object.NewEnclosedEnvironment(env)
		catchEnv.Define(node.CatchName, &object.String{Value: c.Err.Message})
		c = e.evalBlock(node.CatchBody, catchEnv)
	}

	if node.HasFinally {
		f := e.evalBlock(node.FinallyBody, object.NewEnclosedEnvironment(env))
		if f.Signal != Normal {
			return f
		}
	}

	return c
}
