// Package lang reads and prints the forms of a small Lisp.
//
// # Reading
//
// Source text is split into tokens by a single composite pattern
// ([Tokenize]) and parsed by recursive descent ([ReadForm], [ReadString],
// [ReadAll]) into an immutable tree of [Value] nodes:
//
//	nil  true  false             Nil, Bool
//	42  -7                       Int
//	"hi\n"                       String (literal text, escapes kept)
//	foo  +  <=                   Symbol
//	(a b)  [a b]  {a b}          List, Vector, HashMap
//
// Commas are whitespace and a semicolon starts a comment that runs to the
// end of the line.
//
// Reader macros expand a prefix into a list:
//
//	'x   (quote x)
//	`x   (quasiquote x)
//	~x   (unquote x)
//	~@x  (splice-unquote x)
//	@x   (deref x)
//	^m x (meta m x)
//
// The children of a hash-map are kept as a flat sequence. Pairing keys with
// values is left to consumers such as [ToNative].
//
// # Printing
//
// [Print] renders a Value in canonical form: atoms as their literal text and
// collections with children separated by single spaces. Reading printed
// text yields an equal tree.
//
// # Errors
//
// Read failures are *[Error] values derived from the sentinels
// [ErrEmptyInput], [ErrUnexpectedCloser], [ErrUnterminatedCollection], and
// [ErrInternal], among others. They carry the source position of the
// failure, and [Error.Snippet] renders it under the offending line.
//
// # Evaluation
//
// [Env] holds the arithmetic builtins + - * / over integers. [Eval] is an
// identity placeholder, so [Rep] currently reads and prints. [Env.Apply] is
// the entry point an evaluator uses to call a builtin.
package lang
