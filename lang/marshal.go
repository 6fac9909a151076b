package lang

import (
	"encoding/json"
	"strconv"
)

// ToNative converts v to plain Go values.
//
//   - Nil becomes nil; Bool becomes bool; Int becomes int64.
//   - String becomes its decoded contents, or the literal text if it uses
//     escapes that Go does not understand.
//   - Symbol becomes its name.
//   - List and Vector become []any.
//   - HashMap becomes map[string]any when it has an even number of children
//     and no repeated key, and []any otherwise.
func ToNative(v Value) any {
	switch v := v.(type) {
	case nil, Nil:
		return nil

	case Bool:
		return bool(v)

	case Int:
		return int64(v)

	case String:
		if s, ok := v.Unquote(); ok {
			return s
		}

		return string(v)

	case Symbol:
		return string(v)

	case HashMap:
		if m, ok := pairs(v); ok {
			return m
		}

		return nativeSlice(v)

	case Collection:
		return nativeSlice(v)

	default:
		return nil
	}
}

func nativeSlice(c Collection) []any {
	out := make([]any, c.Len())
	for i, item := range c.All() {
		out[i] = ToNative(item)
	}

	return out
}

// MapKey returns the string form of a value used as a hash-map key.
// Strings are decoded and symbols use their name; anything else uses its
// printed text.
func MapKey(v Value) string {
	switch v := v.(type) {
	case String:
		if s, ok := v.Unquote(); ok {
			return s
		}

		return string(v)

	case Symbol:
		return string(v)

	default:
		return Print(v)
	}
}

// pairs associates the alternating keys and values of m. ok is false if m
// has an odd number of children or a repeated key.
func pairs(m HashMap) (map[string]any, bool) {
	if m.Len()%2 != 0 {
		return nil, false
	}

	out := make(map[string]any, m.Len()/2)

	for i := 0; i < m.Len(); i += 2 {
		key := MapKey(m.At(i))
		if _, dup := out[key]; dup {
			return nil, false
		}

		out[key] = ToNative(m.At(i + 1))
	}

	return out, true
}

// MarshalJSON encodes the native form of v. See [ToNative].
func MarshalJSON(v Value) ([]byte, error) {
	return json.Marshal(ToNative(v))
}

// describe returns a short description of v, e.g. "int: 42" or
// "list (3)".
func describe(v Value) string {
	if v == nil {
		v = Nil{}
	}

	if c, ok := v.(Collection); ok {
		return v.Kind().String() + " (" + strconv.Itoa(c.Len()) + ")"
	}

	return v.Kind().String() + ": " + Print(v)
}
