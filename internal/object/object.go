package object

import (
	"bytes"
	"darix/internal/ast"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ObjectType is the user visible type name, as returned by the type() native.
type ObjectType string

const (
	INTEGER_OBJ  = "int"
	FLOAT_OBJ    = "float"
	STRING_OBJ   = "string"
	BOOLEAN_OBJ  = "bool"
	NULL_OBJ     = "null"
	ARRAY_OBJ    = "array"
	MAP_OBJ      = "map"
	FUNCTION_OBJ = "function"
	CLASS_OBJ    = "class"
	INSTANCE_OBJ = "instance"
)

// Variadic disables the arity check of a native function.
const Variadic = -1

var (
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

// NativeFunction is the Go signature of a function installed into the
// global scope. A returned error becomes a catchable runtime error.
type NativeFunction func(args ...Object) (Object, error)

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return FormatFloat(f.Value) }

// FormatFloat renders the shortest representation that round-trips, keeping
// a trailing ".0" on integral values so they stay distinguishable from ints.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

// Array is shared by reference: every alias sees mutations.
type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string  { return inspect(a, map[Object]bool{}) }

// Map is keyed by string only. Display order is sorted by key.
type Map struct {
	Pairs map[string]Object
}

func NewMap() *Map {
	return &Map{Pairs: make(map[string]Object)}
}

func (m *Map) Type() ObjectType { return MAP_OBJ }
func (m *Map) Inspect() string  { return inspect(m, map[Object]bool{}) }

// Put simplify adding objects to a map
func (m *Map) Put(k string, v Object) *Map {
	if m.Pairs == nil {
		m.Pairs = make(map[string]Object)
	}
	m.Pairs[k] = v
	return m
}

// SortedKeys returns the keys of the map in ascending order.
func (m *Map) SortedKeys() []string {
	keys := make([]string, 0, len(m.Pairs))
	for k := range m.Pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Function is either a user closure (Body and Env set) or a native (Native set).
type Function struct {
	Name       string
	Parameters []string
	Body       []ast.Statement
	Env        *Environment

	Native NativeFunction
	Arity  int // only consulted for natives; Variadic disables the check
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return "<function " + f.Name + ">" }

func (f *Function) IsNative() bool { return f.Native != nil }

// ExpectedArgs is the number of arguments a call must supply, or Variadic.
func (f *Function) ExpectedArgs() int {
	if f.IsNative() {
		return f.Arity
	}
	return len(f.Parameters)
}

// Bind returns a copy of a method whose closure has an extra frame holding
// the receiver under SelfName.
func (f *Function) Bind(receiver *Instance) *Function {
	env := NewEnclosedEnvironment(f.Env)
	env.Define(SelfName, receiver)
	bound := *f
	bound.Env = env
	return &bound
}

// SelfName is the reserved receiver name inside method bodies.
const SelfName = "self"

// InitMethod is invoked with the constructor arguments when a class is called.
const InitMethod = "__init__"

type Class struct {
	Name    string
	Methods map[string]*Function
}

func (c *Class) Type() ObjectType { return CLASS_OBJ }
func (c *Class) Inspect() string  { return "<class " + c.Name + ">" }

// Instance fields are shared by reference like arrays and maps.
type Instance struct {
	Class  *Class
	Fields map[string]Object
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Object)}
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string  { return "<" + i.Class.Name + " instance>" }

// Get looks up a field, then a class method bound to the instance. The second
// result is false when neither exists.
func (i *Instance) Get(name string) (Object, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if m, ok := i.Class.Methods[name]; ok {
		return m.Bind(i), true
	}
	return nil, false
}

func (i *Instance) Set(name string, val Object) {
	i.Fields[name] = val
}

func NativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// IsTruthy treats only null and false as falsy.
func IsTruthy(obj Object) bool {
	switch o := obj.(type) {
	case nil, *Null:
		return false
	case *Boolean:
		return o.Value
	default:
		return true
	}
}

// Repr is the nested display form: strings are quoted, everything else is
// rendered as by Inspect.
func Repr(obj Object) string {
	return repr(obj, map[Object]bool{})
}

func repr(obj Object, seen map[Object]bool) string {
	if s, ok := obj.(*String); ok {
		return strconv.Quote(s.Value)
	}
	return inspect(obj, seen)
}

// inspect renders containers recursively. A container already on the current
// path prints as [...] or {...}.
func inspect(obj Object, seen map[Object]bool) string {
	var out bytes.Buffer

	switch o := obj.(type) {
	case *Array:
		if seen[o] {
			return "[...]"
		}
		seen[o] = true
		defer delete(seen, o)

		elements := []string{}
		for _, e := range o.Elements {
			elements = append(elements, repr(e, seen))
		}

		out.WriteString("[")
		out.WriteString(strings.Join(elements, ", "))
		out.WriteString("]")

	case *Map:
		if seen[o] {
			return "{...}"
		}
		seen[o] = true
		defer delete(seen, o)

		pairs := []string{}
		for _, k := range o.SortedKeys() {
			pairs = append(pairs, fmt.Sprintf("%s: %s",
				strconv.Quote(k), repr(o.Pairs[k], seen)))
		}

		out.WriteString("{")
		out.WriteString(strings.Join(pairs, ", "))
		out.WriteString("}")

	case nil:
		return "null"

	default:
		return obj.Inspect()
	}

	return out.String()
}

type visit struct {
	a, b Object
}

// Equal implements the language's == operator. Primitives compare by value
// and variant, arrays and maps structurally, functions and classes by name,
// instances by identity.
func Equal(a, b Object) bool {
	return equal(a, b, map[visit]bool{})
}

func equal(a, b Object, seen map[visit]bool) bool {
	if a == nil {
		a = NULL
	}
	if b == nil {
		b = NULL
	}
	if a.Type() != b.Type() {
		return false
	}

	switch l := a.(type) {
	case *Integer:
		return l.Value == b.(*Integer).Value
	case *Float:
		return l.Value == b.(*Float).Value
	case *String:
		return l.Value == b.(*String).Value
	case *Boolean:
		return l.Value == b.(*Boolean).Value
	case *Null:
		return true
	case *Array:
		r := b.(*Array)
		if l == r {
			return true
		}
		if len(l.Elements) != len(r.Elements) {
			return false
		}
		// a pair already being compared is assumed equal
		key := visit{l, r}
		if seen[key] {
			return true
		}
		seen[key] = true
		for i := range l.Elements {
			if !equal(l.Elements[i], r.Elements[i], seen) {
				return false
			}
		}
		return true
	case *Map:
		r := b.(*Map)
		if l == r {
			return true
		}
		if len(l.Pairs) != len(r.Pairs) {
			return false
		}
		key := visit{l, r}
		if seen[key] {
			return true
		}
		seen[key] = true
		for k, lv := range l.Pairs {
			rv, ok := r.Pairs[k]
			if !ok || !equal(lv, rv, seen) {
				return false
			}
		}
		return true
	case *Function:
		return l.Name == b.(*Function).Name
	case *Class:
		return l.Name == b.(*Class).Name
	case *Instance:
		return l == b.(*Instance)
	}
	return false
}

// Hash returns an FNV-1a hash over the variant tag and payload. Only
// integers, floats, strings, booleans and null are hashable.
func Hash(obj Object) (uint64, bool) {
	h := fnv.New64a()
	h.Write([]byte(obj.Type()))

	var buf [8]byte
	switch o := obj.(type) {
	case *Integer:
		binary.LittleEndian.PutUint64(buf[:], uint64(o.Value))
		h.Write(buf[:])
	case *Float:
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(o.Value))
		h.Write(buf[:])
	case *String:
		h.Write([]byte(o.Value))
	case *Boolean:
		if o.Value {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	case *Null:
	default:
		return 0, false
	}

	return h.Sum64(), true
}
