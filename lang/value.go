package lang

import (
	"iter"
	"slices"
	"strconv"
)

// Kind identifies the variant of a [Value].
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindString
	KindSymbol
	KindList
	KindVector
	KindHashMap
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindList:
		return "list"
	case KindVector:
		return "vector"
	case KindHashMap:
		return "hash-map"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a node of a syntax tree produced by the reader.
//
// The set of implementations is closed: [Nil], [Bool], [Int], [String],
// [Symbol], [List], [Vector], and [HashMap]. Values are immutable once
// constructed and may be shared between goroutines.
type Value interface {
	Kind() Kind
	String() string

	value()
}

// Nil is the nil literal.
type Nil struct{}

// Bool is a boolean literal.
type Bool bool

// Int is a signed integer literal.
type Int int64

// String is a string literal. It holds the literal token text, including
// its surrounding double quotes and any backslash escapes, exactly as read.
type String string

// Symbol is a bare name.
type Symbol string

// Symbols used as heads of reader macro expansions.
const (
	SymQuote         Symbol = "quote"
	SymQuasiquote    Symbol = "quasiquote"
	SymUnquote       Symbol = "unquote"
	SymSpliceUnquote Symbol = "splice-unquote"
	SymDeref         Symbol = "deref"
	SymMeta          Symbol = "meta"
)

func (Nil) Kind() Kind    { return KindNil }
func (Bool) Kind() Kind   { return KindBool }
func (Int) Kind() Kind    { return KindInt }
func (String) Kind() Kind { return KindString }
func (Symbol) Kind() Kind { return KindSymbol }

func (v Nil) String() string    { return Print(v) }
func (v Bool) String() string   { return Print(v) }
func (v Int) String() string    { return Print(v) }
func (v String) String() string { return Print(v) }
func (v Symbol) String() string { return Print(v) }

func (Nil) value()    {}
func (Bool) value()   {}
func (Int) value()    {}
func (String) value() {}
func (Symbol) value() {}

// Unquote returns the decoded contents of a well-formed string literal.
// ok is false if the literal does not use Go-compatible escapes.
func (v String) Unquote() (s string, ok bool) {
	s, err := strconv.Unquote(string(v))
	if err != nil {
		return "", false
	}

	return s, true
}

// seq is the ordered child sequence shared by the collection types.
// It is never modified after construction.
type seq struct {
	items []Value
}

func makeSeq(items []Value) seq {
	if len(items) == 0 {
		return seq{}
	}

	return seq{items: slices.Clone(items)}
}

// Len returns the number of children.
func (s seq) Len() int { return len(s.items) }

// At returns the child at index i. It panics if i is out of range.
func (s seq) At(i int) Value { return s.items[i] }

// All returns an iterator over the children in order.
func (s seq) All() iter.Seq2[int, Value] { return slices.All(s.items) }

// Items returns a copy of the children.
func (s seq) Items() []Value { return slices.Clone(s.items) }

// List is a parenthesized sequence.
type List struct{ seq }

// Vector is a bracketed sequence.
type Vector struct{ seq }

// HashMap is a braced sequence. Its children are kept in source order as a
// flat sequence; keys and values are not paired by the reader.
type HashMap struct{ seq }

// NewList returns a List holding a copy of items.
func NewList(items ...Value) List { return List{makeSeq(items)} }

// NewVector returns a Vector holding a copy of items.
func NewVector(items ...Value) Vector { return Vector{makeSeq(items)} }

// NewHashMap returns a HashMap holding a copy of items.
func NewHashMap(items ...Value) HashMap { return HashMap{makeSeq(items)} }

func (List) Kind() Kind    { return KindList }
func (Vector) Kind() Kind  { return KindVector }
func (HashMap) Kind() Kind { return KindHashMap }

func (v List) String() string    { return Print(v) }
func (v Vector) String() string  { return Print(v) }
func (v HashMap) String() string { return Print(v) }

func (List) value()    {}
func (Vector) value()  {}
func (HashMap) value() {}

// Collection is implemented by [List], [Vector], and [HashMap].
type Collection interface {
	Value
	Len() int
	At(i int) Value
	All() iter.Seq2[int, Value]
	Items() []Value
}

var (
	_ Collection = List{}
	_ Collection = Vector{}
	_ Collection = HashMap{}
)

// delimiters returns the opening and closing delimiters of a collection
// kind, or two empty strings for atoms.
func delimiters(k Kind) (opener, closer string) {
	switch k {
	case KindList:
		return "(", ")"
	case KindVector:
		return "[", "]"
	case KindHashMap:
		return "{", "}"
	default:
		return "", ""
	}
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if a.Kind() != b.Kind() {
		return false
	}

	ca, ok := a.(Collection)
	if !ok {
		return a == b
	}

	cb, _ := b.(Collection)
	if ca.Len() != cb.Len() {
		return false
	}

	for i, v := range ca.All() {
		if !Equal(v, cb.At(i)) {
			return false
		}
	}

	return true
}
