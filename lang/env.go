package lang

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/quux/log"
)

// builtinSource holds the expression implementing each arithmetic builtin.
// Operands are bound to a and b. Division truncates toward zero, and
// division by zero yields 0.
var builtinSource = map[string]string{
	"+": "a + b",
	"-": "a - b",
	"*": "a * b",
	"/": "b == 0 ? 0 : quo(a, b)",
}

func quo(params ...any) (any, error) {
	a, _ := params[0].(int64)
	b, _ := params[1].(int64)

	if b == 0 {
		return int64(0), nil
	}

	return a / b, nil
}

func operandEnv(a, b int64) map[string]any {
	return map[string]any{"a": a, "b": b}
}

// compiledBuiltins compiles every builtin once per process.
var compiledBuiltins = sync.OnceValues(func() (map[string]*vm.Program, error) {
	programs := make(map[string]*vm.Program, len(builtinSource))

	for name, source := range builtinSource {
		program, err := expr.Compile(source,
			expr.Env(operandEnv(0, 0)),
			expr.Function("quo", quo, new(func(int64, int64) int64)),
			expr.AsInt64(),
		)
		if err != nil {
			return nil, ErrExprCompile.Wrap(err).
				With(slog.String("builtin", name), slog.String("source", source))
		}

		programs[name] = program
	}

	return programs, nil
})

// Builtin is an arithmetic function of two integers.
type Builtin struct {
	Name    string
	Source  string
	program *vm.Program
}

// Call applies the builtin to a and b.
func (b Builtin) Call(x, y Int) (Int, error) {
	out, err := vm.Run(b.program, operandEnv(int64(x), int64(y)))
	if err != nil {
		return 0, ErrExprEvaluate.Wrap(err).
			With(slog.String("builtin", b.Name))
	}

	n, ok := out.(int64)
	if !ok {
		return 0, ErrExprEvaluate.
			With(slog.String("builtin", b.Name), slog.Any("result", out))
	}

	return Int(n), nil
}

// Env is the table of builtins available to evaluation.
// It is immutable and safe for concurrent use.
type Env struct {
	builtins map[string]Builtin
	logger   log.Logger
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithEnvLogger sets the logger used to trace builtin calls.
func WithEnvLogger(logger log.Logger) EnvOption {
	return func(e *Env) {
		e.logger = logger
	}
}

// NewEnv returns the environment of arithmetic builtins + - * /.
func NewEnv(opts ...EnvOption) (*Env, error) {
	programs, err := compiledBuiltins()
	if err != nil {
		return nil, err
	}

	e := &Env{builtins: make(map[string]Builtin, len(programs))}

	for name, program := range programs {
		e.builtins[name] = Builtin{
			Name:    name,
			Source:  builtinSource[name],
			program: program,
		}
	}

	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e, nil
}

// Names returns the builtin names in sorted order.
func (e *Env) Names() []string {
	return slices.Sorted(maps.Keys(e.builtins))
}

// Lookup returns the builtin with the given name.
func (e *Env) Lookup(name string) (Builtin, bool) {
	b, ok := e.builtins[name]

	return b, ok
}

// Apply calls the named builtin with two integer operands.
func (e *Env) Apply(ctx context.Context, name string, a, b Value) (Value, error) {
	fn, ok := e.Lookup(name)
	if !ok {
		return nil, ErrUnknownBuiltin.With(slog.String("name", name))
	}

	x, xok := a.(Int)
	y, yok := b.(Int)

	if !xok || !yok {
		return nil, ErrInvalidOperand.With(
			slog.String("builtin", name),
			slog.String("lhs", describe(a)),
			slog.String("rhs", describe(b)),
		)
	}

	out, err := fn.Call(x, y)
	if err != nil {
		return nil, err
	}

	e.logger.TraceContext(ctx, "apply builtin",
		slog.String("name", name),
		slog.Int64("lhs", int64(x)),
		slog.Int64("rhs", int64(y)),
		slog.Int64("result", int64(out)),
	)

	return out, nil
}
