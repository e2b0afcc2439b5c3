package natives

import (
	"darix/internal/object"
	"io"
	"math"
	"strconv"
	"strings"
)

// Core returns print, len, type, bool, abs, str, int and float. print writes
// to out.
func Core(out io.Writer) map[string]Native {
	return map[string]Native{
		"print": {Arity: object.Variadic, Fn: fnPrint(out)},
		"len":   {Arity: 1, Fn: fnLen},
		"type":  {Arity: 1, Fn: fnType},
		"bool":  {Arity: 1, Fn: fnBool},
		"abs":   {Arity: 1, Fn: fnAbs},
		"str":   {Arity: 1, Fn: fnStr},
		"int":   {Arity: 1, Fn: fnInt},
		"float": {Arity: 1, Fn: fnFloat},
	}
}

func fnPrint(out io.Writer) object.NativeFunction {
	return func(args ...object.Object) (object.Object, error) {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = display(arg)
		}
		if _, err := io.WriteString(out, strings.Join(parts, " ")+"\n"); err != nil {
			return nil, err
		}
		return object.NULL, nil
	}
}

func fnLen(args ...object.Object) (object.Object, error) {
	switch arg := args[0].(type) {
	case *object.String:
		return &object.Integer{Value: int64(len(arg.Value))}, nil
	case *object.Array:
		return &object.Integer{Value: int64(len(arg.Elements))}, nil
	case *object.Map:
		return &object.Integer{Value: int64(len(arg.Pairs))}, nil
	}
	return object.NULL, nil
}

func fnType(args ...object.Object) (object.Object, error) {
	return &object.String{Value: string(args[0].Type())}, nil
}

func fnBool(args ...object.Object) (object.Object, error) {
	return object.NativeBoolToBooleanObject(object.IsTruthy(args[0])), nil
}

// fnAbs saturates at the largest int since -MinInt64 does not fit.
func fnAbs(args ...object.Object) (object.Object, error) {
	switch arg := args[0].(type) {
	case *object.Integer:
		if arg.Value == math.MinInt64 {
			return &object.Integer{Value: math.MaxInt64}, nil
		}
		if arg.Value < 0 {
			return &object.Integer{Value: -arg.Value}, nil
		}
		return arg, nil
	case *object.Float:
		return &object.Float{Value: math.Abs(arg.Value)}, nil
	}
	return object.NULL, nil
}

func fnStr(args ...object.Object) (object.Object, error) {
	return &object.String{Value: display(args[0])}, nil
}

// fnInt truncates floats toward zero, saturating outside the int range, and
// parses the leading integer of a string. Anything that cannot be converted
// yields 0.
func fnInt(args ...object.Object) (object.Object, error) {
	switch arg := args[0].(type) {
	case *object.Integer:
		return arg, nil
	case *object.Float:
		if math.IsNaN(arg.Value) || math.IsInf(arg.Value, 0) {
			return &object.Integer{Value: 0}, nil
		}
		return &object.Integer{Value: floatToInt(arg.Value)}, nil
	case *object.String:
		return &object.Integer{Value: parseIntPrefix(arg.Value)}, nil
	}
	return &object.Integer{Value: 0}, nil
}

// fnFloat widens ints and parses the leading number of a string. Anything
// that cannot be converted yields 0.0.
func fnFloat(args ...object.Object) (object.Object, error) {
	switch arg := args[0].(type) {
	case *object.Float:
		return arg, nil
	case *object.Integer:
		return &object.Float{Value: float64(arg.Value)}, nil
	case *object.String:
		return &object.Float{Value: parseFloatPrefix(arg.Value)}, nil
	}
	return &object.Float{Value: 0}, nil
}

// floatToInt compares against 2^63, the smallest float above MaxInt64.
func floatToInt(f float64) int64 {
	switch {
	case f >= 0x1p63:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

func parseIntPrefix(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	end := scanSign(s, 0)
	end = scanDigits(s, end)

	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseFloatPrefix(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}

	end := scanDigits(s, scanSign(s, 0))
	if end < len(s) && s[end] == '.' {
		end = scanDigits(s, end+1)
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := scanDigits(s, scanSign(s, end+1))
		if exp > scanSign(s, end+1) {
			end = exp
		}
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}

func scanSign(s string, i int) int {
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		return i + 1
	}
	return i
}

func scanDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}
