package lang

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/ardnew/quux/log"
)

// DefaultMaxDepth is the default limit on collection and reader macro
// nesting.
const DefaultMaxDepth = 1024

// readerMacros maps each prefix token to the head symbol of its expansion.
var readerMacros = map[string]Symbol{
	"'":  SymQuote,
	"`":  SymQuasiquote,
	"~":  SymUnquote,
	"~@": SymSpliceUnquote,
	"@":  SymDeref,
	"^":  SymMeta,
}

// closers maps each opening delimiter to its closing delimiter.
var closers = map[string]string{
	"(": ")",
	"[": "]",
	"{": "}",
}

type options struct {
	maxDepth int
	cache    bool
}

// optionsKey is the subset of options that changes read results. It keys
// the parse cache together with the source text.
type optionsKey struct {
	MaxDepth int
}

func (o options) key() optionsKey { return optionsKey{MaxDepth: o.maxDepth} }

// reader carries per-read state through the recursive descent.
type reader struct {
	opts   options
	logger log.Logger
	depth  int
}

// Option configures a read.
type Option func(*reader)

// WithMaxDepth limits nesting of collections and reader macros. A
// non-positive depth disables the limit.
func WithMaxDepth(depth int) Option {
	return func(r *reader) {
		r.opts.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
func WithLogger(logger log.Logger) Option {
	return func(r *reader) {
		r.logger = logger
	}
}

// WithCache controls whether results are memoized in the process-wide parse
// cache. It is enabled by default. Entries are not evicted individually:
// the cache is emptied once it holds 4096 sources, or by [ClearCache].
func WithCache(enable bool) Option {
	return func(r *reader) {
		r.opts.cache = enable
	}
}

func newReader(opts ...Option) *reader {
	r := &reader{
		opts: options{
			maxDepth: DefaultMaxDepth,
			cache:    true,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// ReadForm reads one form from c.
//
// Reader macros expand to two-element lists, e.g. 'x reads as (quote x).
// The metadata prefix reads two forms: ^m x reads as (meta m x).
func ReadForm(c *Cursor) (Value, error) {
	return newReader(WithCache(false)).readForm(context.Background(), c)
}

func (r *reader) readForm(ctx context.Context, c *Cursor) (Value, error) {
	t, ok := c.Peek()
	if !ok {
		return nil, ErrEmptyInput.WithPosition(c.Pos())
	}

	r.logger.TraceContext(ctx, "read form",
		slog.String("token", t.Text),
		slog.String("pos", t.Pos.String()),
		slog.Int("depth", r.depth),
	)

	if head, ok := readerMacros[t.Text]; ok {
		return r.readMacro(ctx, c, head)
	}

	switch t.Text {
	case ")", "]", "}":
		return nil, ErrUnexpectedCloser.
			With(slog.String("delimiter", t.Text)).
			WithPosition(t.Pos)

	case "(", "[", "{":
		return r.readList(ctx, c, closers[t.Text])

	default:
		return r.readAtom(c)
	}
}

// enter increments the nesting depth, failing if it exceeds the limit.
func (r *reader) enter(pos Position) error {
	r.depth++
	if r.opts.maxDepth > 0 && r.depth > r.opts.maxDepth {
		return ErrMaxDepthExceeded.
			With(slog.Int("max_depth", r.opts.maxDepth)).
			WithPosition(pos)
	}

	return nil
}

func (r *reader) leave() { r.depth-- }

func (r *reader) readMacro(
	ctx context.Context,
	c *Cursor,
	head Symbol,
) (Value, error) {
	prefix, _ := c.Next()

	if err := r.enter(prefix.Pos); err != nil {
		return nil, err
	}
	defer r.leave()

	form, err := r.readForm(ctx, c)
	if err != nil {
		return nil, err
	}

	if head != SymMeta {
		return NewList(head, form), nil
	}

	target, err := r.readForm(ctx, c)
	if err != nil {
		return nil, err
	}

	return NewList(head, form, target), nil
}

func (r *reader) readList(
	ctx context.Context,
	c *Cursor,
	closer string,
) (Value, error) {
	opener, _ := c.Next()

	if err := r.enter(opener.Pos); err != nil {
		return nil, err
	}
	defer r.leave()

	var items []Value

	for {
		t, ok := c.Peek()
		if !ok {
			return nil, ErrUnterminatedCollection.
				With(
					slog.String("opener", opener.Text),
					slog.String("expected", closer),
				).
				WithPosition(c.Pos())
		}

		if t.Text == closer {
			break
		}

		form, err := r.readForm(ctx, c)
		if err != nil {
			return nil, err
		}

		items = append(items, form)
	}

	c.Next()

	switch closer {
	case ")":
		return NewList(items...), nil
	case "]":
		return NewVector(items...), nil
	case "}":
		return NewHashMap(items...), nil
	default:
		return nil, ErrInternal.
			With(slog.String("closer", closer)).
			WithPosition(opener.Pos)
	}
}

func (r *reader) readAtom(c *Cursor) (Value, error) {
	pos := c.Pos()

	t, ok := c.Next()
	if !ok {
		return nil, ErrInternal.
			With(slog.String("reason", "no token for atom")).
			WithPosition(pos)
	}

	switch {
	case t.Text == "nil":
		return Nil{}, nil

	case t.Text == "true":
		return Bool(true), nil

	case t.Text == "false":
		return Bool(false), nil

	case integerRegexp().MatchString(t.Text):
		n, err := strconv.ParseInt(t.Text, 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			return nil, ErrIntegerRange.
				With(slog.String("literal", t.Text)).
				WithPosition(t.Pos)
		}

		if err != nil {
			return nil, ErrInternal.Wrap(err).WithPosition(t.Pos)
		}

		return Int(n), nil

	case stringRegexp().MatchString(t.Text):
		return String(t.Text), nil

	default:
		return Symbol(t.Text), nil
	}
}

// readAll reads forms from text until its tokens are exhausted.
func (r *reader) readAll(ctx context.Context, text string) ([]Value, error) {
	c := NewCursor(Tokenize(text))

	var forms []Value

	for !c.Done() {
		form, err := r.readForm(ctx, c)
		if err != nil {
			return nil, err
		}

		forms = append(forms, form)
	}

	return forms, nil
}

// readOne reads the first form of text. Tokens after it are ignored.
func (r *reader) readOne(ctx context.Context, text string) (Value, error) {
	c := NewCursor(Tokenize(text))

	form, err := r.readForm(ctx, c)
	if err != nil {
		return nil, err
	}

	if n := c.Remaining(); n > 0 {
		r.logger.TraceContext(ctx, "ignored trailing tokens",
			slog.Int("count", n),
			slog.String("pos", c.Pos().String()),
		)
	}

	return form, nil
}
