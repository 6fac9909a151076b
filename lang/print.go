package lang

import (
	"io"
	"strconv"
	"strings"
)

// Print returns the canonical text of v.
//
// Atoms print as their literal text, and collections print their children
// separated by single spaces inside their delimiters. Print is total: a nil
// Value prints as "nil".
func Print(v Value) string {
	var b strings.Builder

	writeValue(&b, v)

	return b.String()
}

// Fprint writes the canonical text of v to w.
func Fprint(w io.Writer, v Value) error {
	_, err := io.WriteString(w, Print(v))

	return err
}

func writeValue(b *strings.Builder, v Value) {
	switch v := v.(type) {
	case nil, Nil:
		b.WriteString("nil")

	case Bool:
		b.WriteString(strconv.FormatBool(bool(v)))

	case Int:
		b.WriteString(strconv.FormatInt(int64(v), 10))

	case String:
		b.WriteString(string(v))

	case Symbol:
		b.WriteString(string(v))

	case Collection:
		opener, closer := delimiters(v.Kind())

		b.WriteString(opener)

		for i, item := range v.All() {
			if i > 0 {
				b.WriteByte(' ')
			}

			writeValue(b, item)
		}

		b.WriteString(closer)
	}
}
