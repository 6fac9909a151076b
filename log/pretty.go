package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles are bound to
// a renderer for the handler's output, so nothing is coloured unless that
// output is a terminal.
type palette struct {
	key, str, num, yes, no, null, dur, when lipgloss.Style
	trace, debug, info, warn, fail          lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		null:  fg("8"),
		dur:   fg("5"),
		when:  fg("4"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2").Bold(true),
		warn:  fg("3").Bold(true),
		fail:  fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level, quote bool) string {
	s := strings.ToUpper(Level(l).String())
	if quote {
		s = strconv.Quote(s)
	}

	switch {
	case l >= slog.LevelError:
		return p.fail.Render(s)
	case l >= slog.LevelWarn:
		return p.warn.Render(s)
	case l >= slog.LevelInfo:
		return p.info.Render(s)
	case l >= slog.LevelDebug:
		return p.debug.Render(s)
	default:
		return p.trace.Render(s)
	}
}

// field is a resolved attribute whose key already carries any enclosing
// group names.
type field struct {
	key   []string
	value slog.Value
}

// flatten appends the resolved fields of a to dst, expanding groups.
func flatten(dst []field, prefix []string, a slog.Attr) []field {
	v := a.Value.Resolve()
	if a.Key == "" && v.Kind() != slog.KindGroup {
		return dst
	}

	key := prefix
	if a.Key != "" {
		key = append(prefix[:len(prefix):len(prefix)], a.Key)
	}

	if v.Kind() == slog.KindGroup {
		for _, g := range v.Group() {
			dst = flatten(dst, key, g)
		}

		return dst
	}

	return append(dst, field{key: key, value: v})
}

// prettyHandler is shared state for the text and JSON pretty handlers.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	pal        palette
	mu         *sync.Mutex
	w          io.Writer
	fields     []field
	groups     []string
}

func makePrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	ft FormatTime,
) prettyHandler {
	if ft == nil {
		ft = makeFormatTimeFunc(DefaultTimeLayout)
	}

	return prettyHandler{
		opts:       *opts,
		formatTime: ft,
		pal:        newPalette(w),
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h prettyHandler) enabled(level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h prettyHandler) withAttrs(attrs []slog.Attr) prettyHandler {
	fields := h.fields[:len(h.fields):len(h.fields)]
	for _, a := range attrs {
		fields = flatten(fields, h.groups, a)
	}

	h.fields = fields

	return h
}

func (h prettyHandler) withGroup(name string) prettyHandler {
	if name != "" {
		h.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	}

	return h
}

// header returns the fixed fields of r in output order.
func (h prettyHandler) header(r slog.Record) []field {
	var out []field

	if !r.Time.IsZero() {
		if s := h.formatTime(r.Time); s != "" {
			out = append(out, field{
				key:   []string{slog.TimeKey},
				value: slog.TimeValue(r.Time),
			})
		}
	}

	out = append(out, field{
		key:   []string{slog.LevelKey},
		value: slog.AnyValue(r.Level),
	})

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			out = append(out, field{
				key:   []string{slog.SourceKey},
				value: slog.StringValue(fmt.Sprintf("%s:%d", src.File, src.Line)),
			})
		}
	}

	return append(out, field{
		key:   []string{slog.MessageKey},
		value: slog.StringValue(r.Message),
	})
}

func (h prettyHandler) body(r slog.Record) []field {
	out := append([]field(nil), h.fields...)

	r.Attrs(func(a slog.Attr) bool {
		out = flatten(out, h.groups, a)

		return true
	})

	return out
}

func (h prettyHandler) write(b []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(b)

	return err
}

func (h prettyHandler) render(v slog.Value, quote bool) string {
	switch v.Kind() {
	case slog.KindString:
		if quote {
			return h.pal.str.Render(strconv.Quote(v.String()))
		}

		return h.pal.str.Render(v.String())

	case slog.KindInt64:
		return h.pal.num.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return h.pal.num.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return h.pal.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return h.pal.yes.Render("true")
		}

		return h.pal.no.Render("false")

	case slog.KindDuration:
		return h.pal.dur.Render(v.Duration().String())

	case slog.KindTime:
		if quote {
			return h.pal.when.Render(strconv.Quote(h.formatTime(v.Time())))
		}

		return h.pal.when.Render(h.formatTime(v.Time()))

	case slog.KindAny:
		switch a := v.Any().(type) {
		case slog.Level:
			return h.pal.level(a, quote)
		case nil:
			return h.pal.null.Render("null")
		case error:
			return h.render(slog.StringValue(a.Error()), quote)
		}
	}

	return h.render(slog.StringValue(v.String()), quote)
}

// prettyTextHandler writes one key=value line per record.
type prettyTextHandler struct{ prettyHandler }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	ft FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{makePrettyHandler(w, opts, ft)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	for _, f := range append(h.header(r), h.body(r)...) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.pal.key.Render(strings.Join(f.key, ".")))
		buf.WriteByte('=')
		buf.WriteString(h.render(f.value, false))
	}

	buf.WriteByte('\n')

	return h.write(buf.Bytes())
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes each record as an indented JSON-like object.
// Group names are rendered as dotted keys.
type prettyJSONHandler struct{ prettyHandler }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	ft FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{makePrettyHandler(w, opts, ft)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString("{\n")

	for i, f := range append(h.header(r), h.body(r)...) {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(h.pal.key.Render(strconv.Quote(strings.Join(f.key, "."))))
		buf.WriteString(": ")
		buf.WriteString(h.render(f.value, true))
	}

	buf.WriteString("\n}\n")

	return h.write(buf.Bytes())
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
