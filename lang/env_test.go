package lang

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"
)

func TestEnv_Apply(t *testing.T) {
	env, err := NewEnv()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		op   string
		a, b Int
		want Int
	}{
		{"+", 1, 2, 3},
		{"+", -5, 5, 0},
		{"-", 5, 7, -2},
		{"*", 3, 4, 12},
		{"*", -3, 4, -12},
		{"/", 7, 2, 3},
		{"/", -7, 2, -3},
		{"/", 1, 0, 0},
		{"/", math.MaxInt64, 1, math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			got, err := env.Apply(context.Background(), tt.op, tt.a, tt.b)
			if err != nil {
				t.Fatalf("%d %s %d: %v", tt.a, tt.op, tt.b, err)
			}

			if !Equal(got, tt.want) {
				t.Errorf("%d %s %d = %s, want %d", tt.a, tt.op, tt.b, got, tt.want)
			}
		})
	}
}

func TestEnv_ApplyErrors(t *testing.T) {
	env, err := NewEnv()
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	if _, err := env.Apply(ctx, "%", Int(1), Int(2)); !errors.Is(err, ErrUnknownBuiltin) {
		t.Errorf("unknown builtin: %v", err)
	}

	if _, err := env.Apply(ctx, "+", Int(1), Symbol("x")); !errors.Is(err, ErrInvalidOperand) {
		t.Errorf("symbol operand: %v", err)
	}

	if _, err := env.Apply(ctx, "*", NewList(), Int(1)); !errors.Is(err, ErrInvalidOperand) {
		t.Errorf("list operand: %v", err)
	}
}

func TestEnv_Names(t *testing.T) {
	env, err := NewEnv()
	if err != nil {
		t.Fatal(err)
	}

	if got, want := env.Names(), []string{"*", "+", "-", "/"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %q, want %q", got, want)
	}

	b, ok := env.Lookup("+")
	if !ok || b.Name != "+" || b.Source == "" {
		t.Errorf("Lookup(+) = %+v, %v", b, ok)
	}

	if _, ok := env.Lookup("nope"); ok {
		t.Error("Lookup(nope) succeeded")
	}
}

func TestEval_Identity(t *testing.T) {
	form := NewList(Symbol("+"), Int(1), Int(2))

	got, err := Eval(context.Background(), form, nil)
	if err != nil || !Equal(got, form) {
		t.Errorf("Eval = %v, %v", got, err)
	}
}

func TestRep(t *testing.T) {
	env, err := NewEnv()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		line string
		want string
		err  error
	}{
		{"( + 2 (* 3 4) )", "(+ 2 (* 3 4))", nil},
		{"abc", "abc", nil},
		{"'x", "(quote x)", nil},
		{"[1 2", "", ErrUnterminatedCollection},
		{"}", "", ErrUnexpectedCloser},
		{"", "", ErrEmptyInput},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Rep(context.Background(), tt.line, env, WithCache(false))
			if !errors.Is(err, tt.err) {
				t.Fatalf("Rep(%q) error = %v, want %v", tt.line, err, tt.err)
			}

			if got != tt.want {
				t.Errorf("Rep(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}
