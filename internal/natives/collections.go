package natives

import (
	"darix/internal/object"
	"sort"
)

// maxRangeLen bounds the array range may allocate.
const maxRangeLen = 1 << 24

// Collections returns the array and map helpers.
func Collections() map[string]Native {
	return map[string]Native{
		"push":    {Arity: 2, Fn: fnPush},
		"pop":     {Arity: 1, Fn: fnPop},
		"append":  {Arity: object.Variadic, Fn: fnAppend},
		"keys":    {Arity: 1, Fn: fnKeys},
		"values":  {Arity: 1, Fn: fnValues},
		"items":   {Arity: 1, Fn: fnItems},
		"hash":    {Arity: 1, Fn: fnHash},
		"range":   {Arity: object.Variadic, Fn: fnRange},
		"reverse": {Arity: 1, Fn: fnReverse},
		"sorted":  {Arity: 1, Fn: fnSorted},
		"sort":    {Arity: 1, Fn: fnSort},
	}
}

// fnPush appends in place so every alias of the array sees the new element.
func fnPush(args ...object.Object) (object.Object, error) {
	arr, err := unpackArray(args[0], "push")
	if err != nil {
		return nil, err
	}
	arr.Elements = append(arr.Elements, args[1])
	return arr, nil
}

func fnPop(args ...object.Object) (object.Object, error) {
	arr, err := unpackArray(args[0], "pop")
	if err != nil {
		return nil, err
	}
	n := len(arr.Elements)
	if n == 0 {
		return object.NULL, nil
	}
	last := arr.Elements[n-1]
	arr.Elements[n-1] = nil
	arr.Elements = arr.Elements[:n-1]
	return last, nil
}

// fnAppend returns a new array and leaves its first argument untouched.
func fnAppend(args ...object.Object) (object.Object, error) {
	if err := argCount("append", args, 2); err != nil {
		return nil, err
	}
	arr, err := unpackArray(args[0], "append")
	if err != nil {
		return nil, err
	}
	elements := make([]object.Object, 0, len(arr.Elements)+len(args)-1)
	elements = append(elements, arr.Elements...)
	elements = append(elements, args[1:]...)
	return &object.Array{Elements: elements}, nil
}

func unpackMap(arg object.Object, fnName string) (*object.Map, error) {
	m, ok := arg.(*object.Map)
	if !ok {
		return nil, object.NewError(object.TypeError, "argument to `%s` must be a map, got %s", fnName, arg.Type())
	}
	return m, nil
}

func fnKeys(args ...object.Object) (object.Object, error) {
	m, err := unpackMap(args[0], "keys")
	if err != nil {
		return nil, err
	}
	keys := m.SortedKeys()
	elements := make([]object.Object, len(keys))
	for i, k := range keys {
		elements[i] = &object.String{Value: k}
	}
	return &object.Array{Elements: elements}, nil
}

func fnHash(args ...object.Object) (object.Object, error) {
	h, ok := object.Hash(args[0])
	if !ok {
		return nil, object.NewError(object.TypeError, "unhashable type: %s", args[0].Type())
	}
	return &object.Integer{Value: int64(h)}, nil
}

// fnValues follows the key order of keys.
func fnValues(args ...object.Object) (object.Object, error) {
	m, err := unpackMap(args[0], "values")
	if err != nil {
		return nil, err
	}
	keys := m.SortedKeys()
	elements := make([]object.Object, len(keys))
	for i, k := range keys {
		elements[i] = m.Pairs[k]
	}
	return &object.Array{Elements: elements}, nil
}

// fnItems returns [key, value] pairs in key order.
func fnItems(args ...object.Object) (object.Object, error) {
	m, err := unpackMap(args[0], "items")
	if err != nil {
		return nil, err
	}
	keys := m.SortedKeys()
	elements := make([]object.Object, len(keys))
	for i, k := range keys {
		pair := []object.Object{&object.String{Value: k}, m.Pairs[k]}
		elements[i] = &object.Array{Elements: pair}
	}
	return &object.Array{Elements: elements}, nil
}

// fnRange accepts (stop), (start, stop) or (start, stop, step). A negative
// step counts down.
func fnRange(args ...object.Object) (object.Object, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, object.NewError(object.ArityError, "range expects 1 to 3 arguments, got %d", len(args))
	}
	bounds := make([]int64, len(args))
	for i, arg := range args {
		v, err := unpackInteger(arg, "range", i+1)
		if err != nil {
			return nil, err
		}
		bounds[i] = v
	}

	var start, stop, step int64 = 0, bounds[0], 1
	if len(bounds) > 1 {
		start, stop = bounds[0], bounds[1]
	}
	if len(bounds) > 2 {
		step = bounds[2]
	}
	if step == 0 {
		return nil, object.NewError(object.ArithmeticError, "`range` step must not be zero")
	}

	var n uint64
	switch {
	case step > 0 && start < stop:
		n = (uint64(stop-start)-1)/uint64(step) + 1
	case step < 0 && start > stop:
		n = (uint64(start-stop)-1)/(uint64(-(step+1))+1) + 1
	}
	if n > maxRangeLen {
		return nil, object.NewError(object.IndexError, "`range` of %d elements exceeds the limit of %d", n, maxRangeLen)
	}

	elements := make([]object.Object, n)
	v := start
	for i := range elements {
		elements[i] = &object.Integer{Value: v}
		v += step
	}
	return &object.Array{Elements: elements}, nil
}

// fnReverse reverses a string by rune or returns a reversed copy of an array.
func fnReverse(args ...object.Object) (object.Object, error) {
	switch arg := args[0].(type) {
	case *object.String:
		runes := []rune(arg.Value)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return &object.String{Value: string(runes)}, nil
	case *object.Array:
		n := len(arg.Elements)
		elements := make([]object.Object, n)
		for i, elem := range arg.Elements {
			elements[n-1-i] = elem
		}
		return &object.Array{Elements: elements}, nil
	}
	return nil, object.NewError(object.TypeError, "argument to `reverse` must be a string or array, got %s", args[0].Type())
}

func fnSorted(args ...object.Object) (object.Object, error) {
	arr, err := unpackArray(args[0], "sorted")
	if err != nil {
		return nil, err
	}
	elements := make([]object.Object, len(arr.Elements))
	copy(elements, arr.Elements)
	if err := sortElements(elements, "sorted"); err != nil {
		return nil, err
	}
	return &object.Array{Elements: elements}, nil
}

// fnSort orders the array in place and returns it.
func fnSort(args ...object.Object) (object.Object, error) {
	arr, err := unpackArray(args[0], "sort")
	if err != nil {
		return nil, err
	}
	elements := make([]object.Object, len(arr.Elements))
	copy(elements, arr.Elements)
	if err := sortElements(elements, "sort"); err != nil {
		return nil, err
	}
	copy(arr.Elements, elements)
	return arr, nil
}

// sortElements is stable and fails on the first pair compare rejects.
func sortElements(elements []object.Object, fnName string) error {
	var sortErr error
	sort.SliceStable(elements, func(i, j int) bool {
		c, err := compare(elements[i], elements[j], fnName)
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return c < 0
	})
	return sortErr
}
