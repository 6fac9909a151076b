package lang

import (
	"slices"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Nil{}, "nil"},
		{Bool(true), "bool"},
		{Int(1), "int"},
		{String(`""`), "string"},
		{Symbol("s"), "symbol"},
		{NewList(), "list"},
		{NewVector(), "vector"},
		{NewHashMap(), "hash-map"},
	}

	for _, tt := range tests {
		if got := tt.v.Kind().String(); got != tt.want {
			t.Errorf("%#v.Kind() = %q, want %q", tt.v, got, tt.want)
		}
	}

	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("Kind(99).String() = %q", got)
	}
}

func TestCollection_Immutable(t *testing.T) {
	items := []Value{Int(1), Int(2)}
	list := NewList(items...)

	items[0] = Symbol("changed")

	if !Equal(list.At(0), Int(1)) {
		t.Errorf("constructor aliases its input: %s", list)
	}

	copied := list.Items()
	copied[1] = Symbol("changed")

	if !Equal(list.At(1), Int(2)) {
		t.Errorf("Items aliases the backing array: %s", list)
	}

	var seen []Value
	for _, v := range list.All() {
		seen = append(seen, v)
	}

	if !slices.EqualFunc(seen, []Value{Int(1), Int(2)}, Equal) {
		t.Errorf("All() = %v", seen)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same int", Int(1), Int(1), true},
		{"different int", Int(1), Int(2), false},
		{"symbol vs string", Symbol("a"), String("a"), false},
		{"list vs vector", NewList(Int(1)), NewVector(Int(1)), false},
		{"nested equal", NewList(NewVector(Nil{})), NewList(NewVector(Nil{})), true},
		{"different length", NewList(Int(1)), NewList(Int(1), Int(2)), false},
		{"nil interfaces", nil, nil, true},
		{"nil and Nil", nil, Nil{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestString_Unquote(t *testing.T) {
	if s, ok := String(`"a\tb"`).Unquote(); !ok || s != "a\tb" {
		t.Errorf("Unquote() = %q, %v", s, ok)
	}

	if _, ok := String(`"\q"`).Unquote(); ok {
		t.Error("Unquote accepted an unknown escape")
	}
}
