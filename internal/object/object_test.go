package object

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestStringHash(t *testing.T) {
	hello1 := &String{Value: "Hello World"}
	hello2 := &String{Value: "Hello World"}
	diff1 := &String{Value: "My name is johnny"}

	h1, _ := Hash(hello1)
	h2, _ := Hash(hello2)
	d1, _ := Hash(diff1)

	if h1 != h2 {
		t.Errorf("strings with same content have different hashes")
	}

	if h1 == d1 {
		t.Errorf("strings with different content have same hashes")
	}
}

func TestBooleanHash(t *testing.T) {
	t1, _ := Hash(&Boolean{Value: true})
	t2, _ := Hash(TRUE)
	f1, _ := Hash(FALSE)

	if t1 != t2 {
		t.Errorf("trues do not have same hash")
	}

	if t1 == f1 {
		t.Errorf("true has same hash as false")
	}
}

func TestHashIncludesVariant(t *testing.T) {
	i, _ := Hash(&Integer{Value: 1})
	f, _ := Hash(&Float{Value: 1})
	s, _ := Hash(&String{Value: "1"})

	if i == f || i == s || f == s {
		t.Errorf("values of different variants share a hash: %d %d %d", i, f, s)
	}
}

func TestUnhashable(t *testing.T) {
	class := &Class{Name: "A", Methods: map[string]*Function{}}
	tests := []Object{
		&Array{},
		NewMap(),
		&Function{Name: "f"},
		class,
		NewInstance(class),
	}

	for i, obj := range tests {
		if _, ok := Hash(obj); ok {
			t.Fatalf("tests[%d] - expected %s to be unhashable", i, obj.Type())
		}
	}

	if _, ok := Hash(NULL); !ok {
		t.Fatalf("expected null to be hashable")
	}
}

func TestInspect(t *testing.T) {
	nested := NewMap().Put("b", &Integer{Value: 2}).Put("a", &String{Value: "x"})
	class := &Class{Name: "Point"}

	tests := []struct {
		obj      Object
		expected string
	}{
		{&Integer{Value: -7}, "-7"},
		{&Float{Value: 3}, "3.0"},
		{&Float{Value: 0.1}, "0.1"},
		{&Float{Value: 2.5}, "2.5"},
		{&Float{Value: 1e21}, "1e+21"},
		{&Float{Value: math.Inf(1)}, "inf"},
		{&String{Value: "raw"}, "raw"},
		{TRUE, "true"},
		{NULL, "null"},
		{&Array{Elements: []Object{&Integer{Value: 1}, &String{Value: "s"}, NULL}}, `[1, "s", null]`},
		{nested, `{"a": "x", "b": 2}`},
		{&Array{Elements: []Object{nested}}, `[{"a": "x", "b": 2}]`},
		{&Function{Name: "add"}, "<function add>"},
		{class, "<class Point>"},
		{NewInstance(class), "<Point instance>"},
	}

	for i, tt := range tests {
		if got := tt.obj.Inspect(); got != tt.expected {
			t.Fatalf("tests[%d] - expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestInspectCycle(t *testing.T) {
	arr := &Array{}
	arr.Elements = append(arr.Elements, &Integer{Value: 1}, arr)

	if got := arr.Inspect(); got != "[1, [...]]" {
		t.Fatalf("unexpected cyclic rendering %q", got)
	}
}

func TestEqual(t *testing.T) {
	class := &Class{Name: "P", Methods: map[string]*Function{}}
	inst := NewInstance(class)

	tests := []struct {
		a, b     Object
		expected bool
	}{
		{&Integer{Value: 1}, &Integer{Value: 1}, true},
		{&Integer{Value: 1}, &Float{Value: 1}, false},
		{&Float{Value: 1.5}, &Float{Value: 1.5}, true},
		{&String{Value: "a"}, &String{Value: "a"}, true},
		{&String{Value: "a"}, &String{Value: "b"}, false},
		{NULL, NULL, true},
		{NULL, FALSE, false},
		{
			&Array{Elements: []Object{&Integer{Value: 1}, &Integer{Value: 2}}},
			&Array{Elements: []Object{&Integer{Value: 1}, &Integer{Value: 2}}},
			true,
		},
		{
			&Array{Elements: []Object{&Integer{Value: 1}}},
			&Array{Elements: []Object{&Integer{Value: 1}, &Integer{Value: 2}}},
			false,
		},
		{NewMap().Put("k", TRUE), NewMap().Put("k", TRUE), true},
		{NewMap().Put("k", TRUE), NewMap().Put("k", FALSE), false},
		{NewMap().Put("k", TRUE), NewMap().Put("j", TRUE), false},
		{&Function{Name: "f"}, &Function{Name: "f"}, true},
		{&Function{Name: "f"}, &Function{Name: "g"}, false},
		{inst, inst, true},
		{inst, NewInstance(class), false},
	}

	for i, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.expected {
			t.Fatalf("tests[%d] - Equal(%s, %s) expected=%v, got=%v",
				i, Repr(tt.a), Repr(tt.b), tt.expected, got)
		}
	}
}

func TestEqualCycleSafe(t *testing.T) {
	a := &Array{}
	a.Elements = append(a.Elements, a)
	b := &Array{}
	b.Elements = append(b.Elements, b)

	if !Equal(a, b) {
		t.Fatalf("structurally identical cyclic arrays should be equal")
	}
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		obj      Object
		expected bool
	}{
		{NULL, false},
		{FALSE, false},
		{TRUE, true},
		{&Integer{Value: 0}, true},
		{&String{Value: ""}, true},
		{&Array{}, true},
	}

	for i, tt := range tests {
		if got := IsTruthy(tt.obj); got != tt.expected {
			t.Fatalf("tests[%d] - IsTruthy(%s) expected=%v, got=%v", i, Repr(tt.obj), tt.expected, got)
		}
	}
}

func TestEnvironmentScoping(t *testing.T) {
	global := NewEnvironment()
	global.Define("x", &Integer{Value: 1})

	inner := NewEnclosedEnvironment(global)

	inner.Assign("x", &Integer{Value: 2})
	if v, _ := global.Get("x"); v.(*Integer).Value != 2 {
		t.Fatalf("assignment should mutate the defining frame, got %s", v.Inspect())
	}

	inner.Define("x", &Integer{Value: 3})
	if v, _ := global.Get("x"); v.(*Integer).Value != 2 {
		t.Fatalf("define should shadow, not mutate outer, got %s", v.Inspect())
	}

	inner.Assign("fresh", TRUE)
	if _, ok := global.Get("fresh"); ok {
		t.Fatalf("undefined assignment must define in the innermost frame")
	}
	if _, ok := inner.Get("fresh"); !ok {
		t.Fatalf("expected fresh in inner frame")
	}

	if _, ok := inner.Get("missing"); ok {
		t.Fatalf("expected missing to be unbound")
	}
}

func TestBindMethod(t *testing.T) {
	method := &Function{Name: "get", Env: NewEnvironment()}
	class := &Class{Name: "Box", Methods: map[string]*Function{"get": method}}
	inst := NewInstance(class)

	got, ok := inst.Get("get")
	if !ok {
		t.Fatalf("expected method lookup to succeed")
	}
	bound := got.(*Function)
	self, ok := bound.Env.Get(SelfName)
	if !ok || self != inst {
		t.Fatalf("bound method does not see its receiver")
	}
	if _, ok := method.Env.Get(SelfName); ok {
		t.Fatalf("binding must not leak the receiver into the class closure")
	}

	inst.Set("get", &Integer{Value: 1})
	if v, _ := inst.Get("get"); v.Type() != INTEGER_OBJ {
		t.Fatalf("fields must shadow methods, got %s", v.Type())
	}
}

func TestAsRuntimeError(t *testing.T) {
	typed := NewError(IndexError, "index %d out of range", 3)
	wrapped := fmt.Errorf("context: %w", typed)

	if got := AsRuntimeError(wrapped); got != typed {
		t.Fatalf("expected wrapped runtime error to be unwrapped, got %v", got)
	}

	plain := AsRuntimeError(errors.New("boom"))
	if plain.Kind != NativeError || plain.Message != "boom" {
		t.Fatalf("unexpected conversion %#v", plain)
	}

	typed.Line, typed.Column = 4, 2
	if typed.Error() != "IndexError [line 4:2]: index 3 out of range" {
		t.Fatalf("unexpected error text %q", typed.Error())
	}
}
