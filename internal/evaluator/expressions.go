package evaluator

import (
	"darix/internal/ast"
	"darix/internal/object"
	"log/slog"
)

// newError builds a runtime error positioned at node.
func newError(node ast.Node, kind object.ErrorKind, format string, a ...interface{}) *object.RuntimeError {
	err := object.NewError(kind, format, a...)
	locate(err, node)
	return err
}

// locate attaches the position of node unless err already carries one.
func locate(err *object.RuntimeError, node ast.Node) *object.RuntimeError {
	if err.Line == 0 {
		tok := node.Pos()
		err.Line, err.Column = tok.Line, tok.Column
	}
	return err
}

func (e *Evaluator) evaluate(node ast.Expression) (object.Object, *object.RuntimeError) {
	switch node := node.(type) {

	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}, nil

	case *ast.FloatLiteral:
		return &object.Float{Value: node.Value}, nil

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}, nil

	case *ast.BooleanLiteral:
		return object.NativeBoolToBooleanObject(node.Value), nil

	case *ast.NullLiteral:
		return object.NULL, nil

	case *ast.Variable:
		// undefined names read as null
		if val, ok := e.CurrentEnv().Get(node.Name); ok {
			return val, nil
		}
		return object.NULL, nil

	case *ast.AssignExpression:
		return e.evalAssignExpression(node)

	case *ast.UnaryExpression:
		right, err := e.evaluate(node.Right)
		if err != nil {
			return nil, err
		}
		return e.evalPrefixExpression(node, right)

	case *ast.BinaryExpression:
		// both operands are always evaluated, including for && and ||
		left, err := e.evaluate(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.evaluate(node.Right)
		if err != nil {
			return nil, err
		}
		return e.evalInfixExpression(node, left, right)

	case *ast.CallExpression:
		callee, err := e.evaluate(node.Callee)
		if err != nil {
			return nil, err
		}
		args, err := e.evalExpressions(node.Arguments)
		if err != nil {
			return nil, err
		}
		return e.applyFunction(node, callee, args)

	case *ast.ArrayLiteral:
		elements, err := e.evalExpressions(node.Elements)
		if err != nil {
			return nil, err
		}
		return &object.Array{Elements: elements}, nil

	case *ast.MapLiteral:
		return e.evalMapLiteral(node)

	case *ast.MemberExpression:
		obj, err := e.evaluate(node.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*object.Instance)
		if !ok {
			return nil, newError(node, object.TypeError, "cannot read property %q of %s", node.Property, obj.Type())
		}
		if val, ok := instance.Get(node.Property); ok {
			return val, nil
		}
		return object.NULL, nil

	case *ast.IndexExpression:
		left, err := e.evaluate(node.Left)
		if err != nil {
			return nil, err
		}
		index, err := e.evaluate(node.Index)
		if err != nil {
			return nil, err
		}
		return e.evalIndexExpression(node, left, index)
	}

	return nil, newError(node, object.TypeError, "unsupported expression %T", node)
}

func (e *Evaluator) evalExpressions(exps []ast.Expression) ([]object.Object, *object.RuntimeError) {
	result := make([]object.Object, 0, len(exps))

	for _, exp := range exps {
		evaluated, err := e.evaluate(exp)
		if err != nil {
			return nil, err
		}
		result = append(result, evaluated)
	}

	return result, nil
}

func (e *Evaluator) evalAssignExpression(node *ast.AssignExpression) (object.Object, *object.RuntimeError) {
	switch target := node.Target.(type) {
	case *ast.Variable:
		val, err := e.evaluate(node.Value)
		if err != nil {
			return nil, err
		}
		return e.CurrentEnv().Assign(target.Name, val), nil

	case *ast.MemberExpression:
		obj, err := e.evaluate(target.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*object.Instance)
		if !ok {
			return nil, newError(target, object.TypeError, "cannot set property %q on %s", target.Property, obj.Type())
		}
		val, err := e.evaluate(node.Value)
		if err != nil {
			return nil, err
		}
		instance.Set(target.Property, val)
		return val, nil
	}

	return nil, newError(node, object.TypeError, "invalid assignment target %s", node.Target.String())
}

func (e *Evaluator) evalMapLiteral(node *ast.MapLiteral) (object.Object, *object.RuntimeError) {
	m := object.NewMap()

	for _, pair := range node.Pairs {
		key, err := e.evaluate(pair.Key)
		if err != nil {
			return nil, err
		}
		str, ok := key.(*object.String)
		if !ok {
			return nil, newError(pair.Key, object.TypeError, "map key must be a string, got %s", key.Type())
		}

		value, err := e.evaluate(pair.Value)
		if err != nil {
			return nil, err
		}

		m.Put(str.Value, value)
	}

	return m, nil
}

func (e *Evaluator) evalIndexExpression(node *ast.IndexExpression, left, index object.Object) (object.Object, *object.RuntimeError) {
	switch left := left.(type) {
	case *object.Array:
		i, err := e.checkIndex(node, "array", index, len(left.Elements))
		if err != nil {
			return nil, err
		}
		return left.Elements[i], nil

	case *object.String:
		i, err := e.checkIndex(node, "string", index, len(left.Value))
		if err != nil {
			return nil, err
		}
		return &object.String{Value: left.Value[i : i+1]}, nil

	case *object.Map:
		key, ok := index.(*object.String)
		if !ok {
			return nil, newError(node, object.TypeError, "map key must be a string, got %s", index.Type())
		}
		if val, ok := left.Pairs[key.Value]; ok {
			return val, nil
		}
		return object.NULL, nil
	}

	return nil, newError(node, object.TypeError, "index operator not supported: %s", left.Type())
}

func (e *Evaluator) checkIndex(node ast.Node, what string, index object.Object, length int) (int, *object.RuntimeError) {
	idx, ok := index.(*object.Integer)
	if !ok {
		return 0, newError(node, object.TypeError, "%s index must be an int, got %s", what, index.Type())
	}
	if idx.Value < 0 || idx.Value >= int64(length) {
		return 0, newError(node, object.IndexError, "%s index %d out of range [0, %d)", what, idx.Value, length)
	}
	return int(idx.Value), nil
}

func (e *Evaluator) applyFunction(node *ast.CallExpression, fnObj object.Object, args []object.Object) (object.Object, *object.RuntimeError) {
	switch fn := fnObj.(type) {
	case *object.Function:
		return e.callFunction(node, fn, args)

	case *object.Class:
		return e.instantiate(node, fn, args)

	default:
		return nil, newError(node, object.TypeError, "can only call functions and classes, got %s", fnObj.Type())
	}
}

func (e *Evaluator) callFunction(node *ast.CallExpression, fn *object.Function, args []object.Object) (object.Object, *object.RuntimeError) {
	if want := fn.ExpectedArgs(); want != object.Variadic && want != len(args) {
		return nil, newError(node, object.ArityError, "%s expects %d arguments, got %d", fn.Name, want, len(args))
	}

	if fn.IsNative() {
		result, err := fn.Native(args...)
		if err != nil {
			return nil, locate(object.AsRuntimeError(err), node)
		}
		if result == nil {
			return object.NULL, nil
		}
		return result, nil
	}

	if e.depth >= e.MaxCallDepth {
		return nil, newError(node, object.RecursionError, "maximum call depth %d exceeded in %s", e.MaxCallDepth, fn.Name)
	}
	e.depth++
	defer func() { e.depth-- }()

	e.logger.Debug("call",
		slog.String("function", fn.Name),
		slog.Int("args", len(args)),
		slog.Int("depth", e.depth))

	env := object.NewEnclosedEnvironment(fn.Env)
	for i, param := range fn.Parameters {
		env.Define(param, args[i])
	}

	c := e.evalBlock(fn.Body, env)
	switch c.Signal {
	case Raise:
		return nil, c.Err
	case Return:
		return c.Value, nil
	}
	return object.NULL, nil
}

func (e *Evaluator) instantiate(node *ast.CallExpression, class *object.Class, args []object.Object) (object.Object, *object.RuntimeError) {
	instance := object.NewInstance(class)

	e.logger.Debug("instantiate",
		slog.String("class", class.Name),
		slog.Int("args", len(args)))

	init, ok := class.Methods[object.InitMethod]
	if !ok {
		if len(args) > 0 {
			return nil, newError(node, object.ArityError, "%s takes no arguments, got %d", class.Name, len(args))
		}
		return instance, nil
	}

	// the initializer's own result is discarded
	if _, err := e.callFunction(node, init.Bind(instance), args); err != nil {
		return nil, err
	}

	return instance, nil
}
