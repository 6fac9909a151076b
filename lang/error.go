package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Errors returned by this package are derived from these with [Error.With],
// [Error.WithPosition], or [Error.Wrap], and match them with [errors.Is].
var (
	ErrEmptyInput             = NewError("empty input")
	ErrUnexpectedCloser       = NewError("unexpected closing delimiter")
	ErrUnterminatedCollection = NewError("unterminated collection")
	ErrInternal               = NewError("internal reader error")
	ErrMaxDepthExceeded       = NewError("maximum nesting depth exceeded")
	ErrIntegerRange           = NewError("integer out of range")
	ErrReadInput              = NewError("failed to read input")
	ErrUnknownBuiltin         = NewError("unknown builtin")
	ErrInvalidOperand         = NewError("invalid operand")
	ErrExprCompile            = NewError("builtin compilation failed")
	ErrExprEvaluate           = NewError("builtin evaluation failed")
)

// Error represents an error with optional source position and structured
// logging attributes. It implements both error and slog.LogValuer.
type Error struct {
	msg   string
	err   error       // wrapped cause, for errors.Unwrap
	attrs []slog.Attr // attributes for structured logging
	pos   *Position
	root  *Error // sentinel this error was derived from
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError returns err as an *Error, wrapping it if necessary.
func WrapError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

func (e *Error) derive() *Error {
	d := *e
	if d.root == nil {
		d.root = e
	}

	return &d
}

// Error implements the error interface, formatted as
//
//	<msg> [<key>=<value> ...] [at <line>:<col>][: <cause>]
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.msg)

	for _, a := range e.attrs {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(a.Key)
		b.WriteByte('=')

		if v := a.Value.Resolve(); v.Kind() == slog.KindString {
			b.WriteString(strconv.Quote(v.String()))
		} else {
			b.WriteString(v.String())
		}
	}

	if e.pos != nil {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}

		b.WriteString("at ")
		b.WriteString(e.pos.String())
	}

	if e.err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}

		b.WriteString(e.err.Error())
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is e or the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && (e == t || (e.root != nil && e.root == t))
}

// Position returns the source position attached with [Error.WithPosition].
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos != nil {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a new Error derived from e that wraps err.
func (e *Error) Wrap(err error) *Error {
	d := e.derive()
	d.err = err

	return d
}

// With returns a new Error derived from e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	d := e.derive()
	d.attrs = make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	d.attrs = append(append(d.attrs, e.attrs...), attrs...)

	return d
}

// WithPosition returns a new Error derived from e located at pos.
func (e *Error) WithPosition(pos Position) *Error {
	d := e.derive()
	d.pos = &pos

	return d
}

// Snippet renders the source line containing the error position with a
// caret under the offending column. It returns "" if e has no position or
// the position lies outside source.
func (e *Error) Snippet(source string) string {
	if e.pos == nil || e.pos.Line < 1 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if e.pos.Line > len(lines) {
		return ""
	}

	var (
		b      strings.Builder
		number = strconv.Itoa(e.pos.Line)
	)

	b.WriteString("  ")
	b.WriteString(number)
	b.WriteString(" | ")
	b.WriteString(strings.TrimRight(lines[e.pos.Line-1], "\r"))
	b.WriteByte('\n')

	// 2 leading spaces + " | "
	b.WriteString(strings.Repeat(" ", len(number)+5+max(e.pos.Column-1, 0)))
	b.WriteString("^\n")

	return b.String()
}
