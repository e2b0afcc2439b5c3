package natives

import (
	"cmp"
	"darix/internal/object"
	"math"
	"strings"
)

// Math returns min, max, sum, pow and clamp.
func Math() map[string]Native {
	return map[string]Native{
		"min":   {Arity: object.Variadic, Fn: fnExtreme("min", -1)},
		"max":   {Arity: object.Variadic, Fn: fnExtreme("max", 1)},
		"sum":   {Arity: 1, Fn: fnSum},
		"pow":   {Arity: 2, Fn: fnPow},
		"clamp": {Arity: 3, Fn: fnClamp},
	}
}

// fnExtreme keeps the first argument that compares in direction want
// against every other one.
func fnExtreme(fnName string, want int) object.NativeFunction {
	return func(args ...object.Object) (object.Object, error) {
		if err := argCount(fnName, args, 1); err != nil {
			return nil, err
		}
		best := args[0]
		for _, arg := range args[1:] {
			c, err := compare(arg, best, fnName)
			if err != nil {
				return nil, err
			}
			if c == want {
				best = arg
			}
		}
		return best, nil
	}
}

// fnSum stays integral until the first float element.
func fnSum(args ...object.Object) (object.Object, error) {
	arr, err := unpackArray(args[0], "sum")
	if err != nil {
		return nil, err
	}

	var total int64
	var ftotal float64
	isFloat := false
	for _, elem := range arr.Elements {
		switch v := elem.(type) {
		case *object.Integer:
			if isFloat {
				ftotal += float64(v.Value)
			} else {
				total += v.Value
			}
		case *object.Float:
			if !isFloat {
				isFloat = true
				ftotal = float64(total)
			}
			ftotal += v.Value
		default:
			return nil, object.NewError(object.TypeError, "`sum` expects numbers, got %s", elem.Type())
		}
	}
	if isFloat {
		return &object.Float{Value: ftotal}, nil
	}
	return &object.Integer{Value: total}, nil
}

// fnPow is integral for an int base raised to a non-negative int exponent
// and a float otherwise.
func fnPow(args ...object.Object) (object.Object, error) {
	base, ok := toFloat(args[0])
	if !ok {
		return nil, object.NewError(object.TypeError, "argument 1 to `pow` must be a number, got %s", args[0].Type())
	}
	exp, ok := toFloat(args[1])
	if !ok {
		return nil, object.NewError(object.TypeError, "argument 2 to `pow` must be a number, got %s", args[1].Type())
	}

	b, bok := args[0].(*object.Integer)
	e, eok := args[1].(*object.Integer)
	if bok && eok && e.Value >= 0 {
		return &object.Integer{Value: intPow(b.Value, e.Value)}, nil
	}
	return &object.Float{Value: math.Pow(base, exp)}, nil
}

// intPow squares and multiplies, wrapping on overflow like int arithmetic.
func intPow(b, e int64) int64 {
	var res int64 = 1
	for e > 0 {
		if e&1 == 1 {
			res *= b
		}
		b *= b
		e >>= 1
	}
	return res
}

func fnClamp(args ...object.Object) (object.Object, error) {
	for i, arg := range args {
		if _, ok := toFloat(arg); !ok {
			return nil, object.NewError(object.TypeError, "argument %d to `clamp` must be a number, got %s", i+1, arg.Type())
		}
	}
	val, lo, hi := args[0], args[1], args[2]

	if c, _ := compare(lo, hi, "clamp"); c > 0 {
		return nil, object.NewError(object.ArithmeticError, "`clamp` lower bound %s exceeds upper bound %s", display(lo), display(hi))
	}
	if c, _ := compare(val, lo, "clamp"); c < 0 {
		return lo, nil
	}
	if c, _ := compare(val, hi, "clamp"); c > 0 {
		return hi, nil
	}
	return val, nil
}

// compare orders two numbers or two strings. Ints and floats compare by
// value; any other pairing is a TypeError.
func compare(a, b object.Object, fnName string) (int, error) {
	if ai, ok := a.(*object.Integer); ok {
		if bi, ok := b.(*object.Integer); ok {
			return cmp.Compare(ai.Value, bi.Value), nil
		}
	}
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return cmp.Compare(af, bf), nil
		}
	}
	if as, ok := a.(*object.String); ok {
		if bs, ok := b.(*object.String); ok {
			return strings.Compare(as.Value, bs.Value), nil
		}
	}
	return 0, object.NewError(object.TypeError, "`%s` cannot compare %s and %s", fnName, a.Type(), b.Type())
}

func toFloat(obj object.Object) (float64, bool) {
	switch o := obj.(type) {
	case *object.Integer:
		return float64(o.Value), true
	case *object.Float:
		return o.Value, true
	}
	return 0, false
}
