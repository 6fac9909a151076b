package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/quux/lang"
	"github.com/ardnew/quux/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written in quux syntax.
//
// The file holds a hash-map whose keys name flags and whose values are
// flag values:
//
//	{log-level "debug"
//	 log-format "text"
//	 log-pretty false}
//
// Keys may be symbols or strings, and may use underscores in place of
// hyphens. Integers are passed to kong as decimal text, strings are
// unquoted, and vectors and lists become slices. The first hash-map form in
// the file is used; a file that cannot be read yields an empty
// configuration. Command-line flags override configured values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		forms, err := lang.ReadReader(ctx, r)
		if err != nil {
			log.DebugContext(ctx, "configuration ignored", slog.Any("error", err))

			return config{}, nil
		}

		for _, form := range forms {
			if m, ok := form.(lang.HashMap); ok {
				return makeConfig(m), nil
			}
		}

		return config{}, nil
	}
}

// config implements [kong.Resolver] for quux configuration files.
type config map[string]any

// makeConfig pairs the keys and values of m. A trailing key without a
// value is ignored, and a repeated key takes its last value.
func makeConfig(m lang.HashMap) config {
	cfg := make(config, m.Len()/2)

	for i := 0; i+1 < m.Len(); i += 2 {
		cfg[lang.MapKey(m.At(i))] = configValue(m.At(i + 1))
	}

	return cfg
}

// configValue converts v to a value kong can decode into a flag.
func configValue(v lang.Value) any {
	switch v := v.(type) {
	case lang.Int:
		return strconv.FormatInt(int64(v), 10)

	case lang.Collection:
		out := make([]any, 0, v.Len())
		for _, item := range v.All() {
			out = append(out, configValue(item))
		}

		return out

	default:
		return lang.ToNative(v)
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	for _, name := range []string{
		flag.Name,
		strings.ReplaceAll(flag.Name, "-", "_"),
	} {
		if value, ok := c[name]; ok {
			return value, nil
		}
	}

	return nil, nil
}
