package lang

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes each form in native syntax, one per line.
//
// With indent 0 every form is written in canonical [Print] form. Otherwise
// collections that contain other collections are broken across lines, with
// each child after the first indented by indent spaces per level.
func Format(_ context.Context, w io.Writer, forms []Value, indent int) error {
	var b strings.Builder

	for _, form := range forms {
		if indent > 0 {
			writePretty(&b, form, indent, 0)
		} else {
			writeValue(&b, form)
		}

		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func hasNested(c Collection) bool {
	for _, item := range c.All() {
		if _, ok := item.(Collection); ok {
			return true
		}
	}

	return false
}

func writePretty(b *strings.Builder, v Value, indent, depth int) {
	c, ok := v.(Collection)
	if !ok || !hasNested(c) {
		writeValue(b, v)

		return
	}

	opener, closer := delimiters(c.Kind())
	pad := strings.Repeat(" ", indent*(depth+1))

	b.WriteString(opener)

	for i, item := range c.All() {
		if i > 0 {
			b.WriteByte('\n')
			b.WriteString(pad)
		}

		writePretty(b, item, indent, depth+1)
	}

	b.WriteString(closer)
}

// FormatJSON writes the native form of each form as JSON, one document per
// form. See [ToNative].
func FormatJSON(_ context.Context, w io.Writer, forms []Value, indent int) error {
	for _, form := range forms {
		var (
			data []byte
			err  error
		)

		if indent > 0 {
			data, err = json.MarshalIndent(ToNative(form), "", strings.Repeat(" ", indent))
		} else {
			data, err = json.Marshal(ToNative(form))
		}

		if err != nil {
			return err
		}

		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
	}

	return nil
}

// FormatYAML writes the native form of each form as YAML, one document per
// form. With indent 0 the flow style is used.
func FormatYAML(ctx context.Context, w io.Writer, forms []Value, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	for i, form := range forms {
		data, err := yaml.MarshalContext(ctx, ToNative(form), opts...)
		if err != nil {
			return err
		}

		if i > 0 {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}

		if _, err := w.Write(data); err != nil {
			return err
		}
	}

	return nil
}

// FormatAST writes an indented tree of each form's variants and payloads.
func FormatAST(w io.Writer, forms []Value) error {
	var b strings.Builder

	for _, form := range forms {
		writeTree(&b, form, 0)
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func writeTree(b *strings.Builder, v Value, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(describe(v))
	b.WriteByte('\n')

	if c, ok := v.(Collection); ok {
		for _, item := range c.All() {
			writeTree(b, item, depth+1)
		}
	}
}

// FormatTokens writes one "line:column text" row per token.
func FormatTokens(w io.Writer, tokens []Token) error {
	var b strings.Builder

	for _, t := range tokens {
		b.WriteString(t.Pos.String())
		b.WriteByte('\t')
		b.WriteString(t.Text)
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())

	return err
}
