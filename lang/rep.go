package lang

import "context"

// Rep reads the first form of line, evaluates it in env, and returns the
// printed result.
func Rep(ctx context.Context, line string, env *Env, opts ...Option) (string, error) {
	form, err := ReadString(ctx, line, opts...)
	if err != nil {
		return "", err
	}

	result, err := Eval(ctx, form, env)
	if err != nil {
		return "", err
	}

	return Print(result), nil
}
