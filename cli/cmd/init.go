package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/quux/lang"
	"github.com/ardnew/quux/log"
	"github.com/ardnew/quux/pkg"
	"github.com/ardnew/quux/profile"
)

// configFileMode is the permission mode of a written configuration file.
const configFileMode os.FileMode = 0o600

// Init generates a configuration file holding the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file." short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath, ok := kongVar(ctx, ConfigIdentifier)
	if !ok {
		return ErrWriteConfig.With(slog.String("var", ConfigIdentifier))
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrFileExists)
	}

	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	text := renderConfig(i.configForm(ctx))

	if err := os.WriteFile(confPath, []byte(text), configFileMode); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// configForm returns the application flags and their current values as a
// hash-map. Unset values and flags that only make sense on the command line
// are left out.
func (i *Init) configForm(ctx context.Context) lang.HashMap {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return lang.NewHashMap()
	}

	ignore := []string{"help", "version", profile.Tag + "-"}

	var items []lang.Value

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v := flagValue(ktx.FlagValue(flag)); v != nil {
			items = append(items, lang.Symbol(flag.Name), v)
		}
	}

	return lang.NewHashMap(items...)
}

// flagValue returns the form of a flag value, or nil if the value is unset.
func flagValue(val any) lang.Value {
	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.Invalid:
		return nil

	case reflect.Bool:
		return lang.Bool(rv.Bool())

	case reflect.String:
		if rv.Len() == 0 {
			return nil
		}

		return lang.String(strconv.Quote(rv.String()))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lang.Int(rv.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return lang.Int(int64(u))
		}

		return lang.String(strconv.Quote(strconv.FormatUint(rv.Uint(), 10)))

	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return nil
		}

		items := make([]lang.Value, rv.Len())
		for i := range rv.Len() {
			items[i] = flagValue(rv.Index(i).Interface())
			if items[i] == nil {
				items[i] = lang.Nil{}
			}
		}

		return lang.NewVector(items...)

	default:
		return lang.String(strconv.Quote(fmt.Sprint(val)))
	}
}

// renderConfig returns the text of a configuration file holding m, one
// key and value per line.
func renderConfig(m lang.HashMap) string {
	var b strings.Builder

	b.WriteString("; " + pkg.Name + " configuration\n{")

	for i, item := range m.All() {
		switch {
		case i == 0:
		case i%2 == 0:
			b.WriteString("\n ")
		default:
			b.WriteByte(' ')
		}

		b.WriteString(lang.Print(item))
	}

	b.WriteString("}\n")

	return b.String()
}
