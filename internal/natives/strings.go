package natives

import (
	"darix/internal/object"
	"strings"
	"unicode"
)

// Strings returns upper, lower, trim and contains.
func Strings() map[string]Native {
	return map[string]Native{
		"upper":    {Arity: 1, Fn: fnUpper},
		"lower":    {Arity: 1, Fn: fnLower},
		"trim":     {Arity: 1, Fn: fnTrim},
		"contains": {Arity: 2, Fn: fnContains},
	}
}

func fnUpper(args ...object.Object) (object.Object, error) {
	s, err := unpackString(args[0], "upper", 1)
	if err != nil {
		return nil, err
	}
	return &object.String{Value: strings.ToUpper(s)}, nil
}

func fnLower(args ...object.Object) (object.Object, error) {
	s, err := unpackString(args[0], "lower", 1)
	if err != nil {
		return nil, err
	}
	return &object.String{Value: strings.ToLower(s)}, nil
}

func fnTrim(args ...object.Object) (object.Object, error) {
	s, err := unpackString(args[0], "trim", 1)
	if err != nil {
		return nil, err
	}
	return &object.String{Value: strings.TrimFunc(s, unicode.IsSpace)}, nil
}

// fnContains tests substring presence for strings, element equality for
// arrays and key presence for maps.
func fnContains(args ...object.Object) (object.Object, error) {
	switch haystack := args[0].(type) {
	case *object.String:
		needle, err := unpackString(args[1], "contains", 2)
		if err != nil {
			return nil, err
		}
		return object.NativeBoolToBooleanObject(strings.Contains(haystack.Value, needle)), nil
	case *object.Array:
		for _, elem := range haystack.Elements {
			if object.Equal(elem, args[1]) {
				return object.TRUE, nil
			}
		}
		return object.FALSE, nil
	case *object.Map:
		key, err := unpackString(args[1], "contains", 2)
		if err != nil {
			return nil, err
		}
		_, ok := haystack.Pairs[key]
		return object.NativeBoolToBooleanObject(ok), nil
	}
	return nil, object.NewError(object.TypeError, "argument 1 to `contains` not supported, got %s", args[0].Type())
}
