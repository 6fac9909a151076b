package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache memoizes read results keyed by source and option hashes.
// Values are immutable, so cached trees are shared by every caller; only
// the slice holding the top-level forms is copied per read.
var globalCache sync.Map

// cacheLimit is the number of entries globalCache holds before it is
// emptied and starts over.
var cacheLimit int64 = 4096

// cacheSize counts the entries stored since globalCache was last emptied.
var cacheSize atomic.Int64

// entry holds the result of reading one source with one set of options.
type entry struct {
	once  sync.Once
	forms []Value
	err   error
}

// hashOptions encodes options using gob and hashes with xxh3.
func hashOptions(key optionsKey) uint64 {
	var buf bytes.Buffer

	_ = gob.NewEncoder(&buf).Encode(key)

	return xxh3.Hash(buf.Bytes())
}

func cacheKey(source string, opts options) string {
	return strconv.FormatUint(xxh3.HashString(source)^hashOptions(opts.key()), 36)
}

// ClearCache discards every memoized read result.
func ClearCache() {
	globalCache.Clear()
	cacheSize.Store(0)
}

// read returns every form of source, consulting the cache if enabled.
func (r *reader) read(ctx context.Context, source string) ([]Value, error) {
	if !r.opts.cache {
		return r.readAll(ctx, source)
	}

	key := cacheKey(source, r.opts)

	value, hit := globalCache.LoadOrStore(key, new(entry))
	e, _ := value.(*entry)

	if !hit && cacheSize.Add(1) > cacheLimit {
		// e stays usable for this read after the cache is emptied.
		ClearCache()
	}

	r.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", hit),
	)

	e.once.Do(func() {
		e.forms, e.err = r.readAll(ctx, source)
	})

	return slices.Clone(e.forms), e.err
}

// ReadString reads the first form of source. Tokens after the first form
// are ignored. Unless disabled with [WithCache], the result is memoized and
// the source is retained until the cache is emptied.
func ReadString(
	ctx context.Context,
	source string,
	opts ...Option,
) (Value, error) {
	r := newReader(opts...)

	r.logger.TraceContext(ctx, "read start",
		slog.Int("source_length", len(source)),
	)

	if !r.opts.cache {
		return r.readOne(ctx, source)
	}

	forms, err := r.read(ctx, source)
	if err == nil {
		if len(forms) == 0 {
			return nil, ErrEmptyInput.WithPosition(Position{Line: 1, Column: 1})
		}

		return forms[0], nil
	}

	// The whole source failed, but the first form may still be complete.
	return r.readOne(ctx, source)
}

// ReadAll reads every form of source in order.
func ReadAll(
	ctx context.Context,
	source string,
	opts ...Option,
) ([]Value, error) {
	r := newReader(opts...)

	r.logger.TraceContext(ctx, "read start",
		slog.Int("source_length", len(source)),
		slog.Bool("all", true),
	)

	return r.read(ctx, source)
}

// ReadReader reads every form of the content of rd.
func ReadReader(
	ctx context.Context,
	rd io.Reader,
	opts ...Option,
) ([]Value, error) {
	// Read-ahead lets I/O proceed while earlier chunks are copied.
	ra := readahead.NewReader(rd)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return ReadAll(ctx, string(data), opts...)
}
