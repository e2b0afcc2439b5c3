package evaluator

import (
	"darix/internal/ast"
	"darix/internal/object"
)

func (e *Evaluator) evalPrefixExpression(node *ast.UnaryExpression, right object.Object) (object.Object, *object.RuntimeError) {
	switch node.Operator {
	case "!":
		return object.NativeBoolToBooleanObject(!object.IsTruthy(right)), nil
	case "-":
		return e.evalMinusPrefixOperatorExpression(node, right)
	default:
		return nil, newError(node, object.TypeError, "unknown operator: %s%s", node.Operator, right.Type())
	}
}

func (e *Evaluator) evalMinusPrefixOperatorExpression(node *ast.UnaryExpression, right object.Object) (object.Object, *object.RuntimeError) {
	switch right := right.(type) {
	case *object.Integer:
		return &object.Integer{Value: -right.Value}, nil
	case *object.Float:
		return &object.Float{Value: -right.Value}, nil
	}
	return nil, newError(node, object.TypeError, "operand must be a number: -%s", right.Type())
}

func (e *Evaluator) evalInfixExpression(
	node *ast.BinaryExpression,
	left, right object.Object,
) (object.Object, *object.RuntimeError) {
	switch node.Operator {
	case "&&":
		return object.NativeBoolToBooleanObject(object.IsTruthy(left) && object.IsTruthy(right)), nil
	case "||":
		return object.NativeBoolToBooleanObject(object.IsTruthy(left) || object.IsTruthy(right)), nil
	case "==":
		return object.NativeBoolToBooleanObject(object.Equal(left, right)), nil
	case "!=":
		return object.NativeBoolToBooleanObject(!object.Equal(left, right)), nil
	}

	l, lInt := left.(*object.Integer)
	r, rInt := right.(*object.Integer)
	if lInt && rInt {
		return e.evalIntegerInfixExpression(node, l.Value, r.Value)
	}

	lf, lNum := toFloat(left)
	rf, rNum := toFloat(right)
	if lNum && rNum {
		return e.evalFloatInfixExpression(node, lf, rf)
	}

	if node.Operator == "+" {
		ls, lStr := left.(*object.String)
		rs, rStr := right.(*object.String)
		if lStr && rStr {
			return &object.String{Value: ls.Value + rs.Value}, nil
		}
	}

	return nil, newError(node, object.TypeError, "operand must be a number: %s %s %s",
		left.Type(), node.Operator, right.Type())
}

// toFloat widens an Integer or Float operand.
func toFloat(obj object.Object) (float64, bool) {
	switch o := obj.(type) {
	case *object.Integer:
		return float64(o.Value), true
	case *object.Float:
		return o.Value, true
	}
	return 0, false
}

func (e *Evaluator) evalIntegerInfixExpression(
	node *ast.BinaryExpression,
	leftVal, rightVal int64,
) (object.Object, *object.RuntimeError) {
	switch node.Operator {
	case "+":
		return &object.Integer{Value: leftVal + rightVal}, nil
	case "-":
		return &object.Integer{Value: leftVal - rightVal}, nil
	case "*":
		return &object.Integer{Value: leftVal * rightVal}, nil
	case "/":
		// division always produces a float and follows IEEE-754 for zero
		return &object.Float{Value: float64(leftVal) / float64(rightVal)}, nil
	case "%":
		if rightVal == 0 {
			return nil, newError(node, object.ArithmeticError, "division by zero")
		}
		return &object.Integer{Value: leftVal % rightVal}, nil
	case "<":
		return object.NativeBoolToBooleanObject(leftVal < rightVal), nil
	case "<=":
		return object.NativeBoolToBooleanObject(leftVal <= rightVal), nil
	case ">":
		return object.NativeBoolToBooleanObject(leftVal > rightVal), nil
	case ">=":
		return object.NativeBoolToBooleanObject(leftVal >= rightVal), nil
	}
	return nil, newError(node, object.TypeError, "unknown operator: int %s int", node.Operator)
}

func (e *Evaluator) evalFloatInfixExpression(
	node *ast.BinaryExpression,
	leftVal, rightVal float64,
) (object.Object, *object.RuntimeError) {
	switch node.Operator {
	case "+":
		return &object.Float{Value: leftVal + rightVal}, nil
	case "-":
		return &object.Float{Value: leftVal - rightVal}, nil
	case "*":
		return &object.Float{Value: leftVal * rightVal}, nil
	case "/":
		return &object.Float{Value: leftVal / rightVal}, nil
	case "%":
		return nil, newError(node, object.TypeError, "operator %% requires int operands")
	case "<":
		return object.NativeBoolToBooleanObject(leftVal < rightVal), nil
	case "<=":
		return object.NativeBoolToBooleanObject(leftVal <= rightVal), nil
	case ">":
		return object.NativeBoolToBooleanObject(leftVal > rightVal), nil
	case ">=":
		return object.NativeBoolToBooleanObject(leftVal >= rightVal), nil
	}
	return nil, newError(node, object.TypeError, "unknown operator: float %s float", node.Operator)
}
