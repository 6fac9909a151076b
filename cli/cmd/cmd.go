package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/quux/lang"
)

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)

// StdinSource names standard input wherever a source file is expected.
const StdinSource = "-"

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the value of the named kong variable.
func kongVar(ctx context.Context, name string) (string, bool) {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return "", false
	}

	v, ok := ktx.Model.Vars()[name]

	return v, ok
}

type streamsKey struct{}

type streams struct {
	in       io.Reader
	out, err io.Writer
}

// WithStreams returns a new context.Context whose commands read standard
// input from in and write to out and errOut. Nil arguments keep the
// process's standard streams.
func WithStreams(
	ctx context.Context,
	in io.Reader,
	out, errOut io.Writer,
) context.Context {
	return context.WithValue(ctx, streamsKey{}, streams{in: in, out: out, err: errOut})
}

func streamsFrom(ctx context.Context) streams {
	s, _ := ctx.Value(streamsKey{}).(streams)

	if s.in == nil {
		s.in = os.Stdin
	}

	if s.out == nil {
		s.out = os.Stdout
	}

	if s.err == nil {
		s.err = os.Stderr
	}

	return s
}

type sourceFilesKey struct{}

// WithSourceFiles returns a new context.Context holding the names of the
// global source files. Commands given no sources of their own read these.
func WithSourceFiles(ctx context.Context, names []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, names)
}

func sourceNamesFrom(ctx context.Context) []string {
	names, _ := ctx.Value(sourceFilesKey{}).([]string)

	return names
}

type maxDepthKey struct{}

// WithMaxDepth returns a new context.Context limiting the nesting depth of
// forms read by commands. A non-positive depth disables the limit.
func WithMaxDepth(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, maxDepthKey{}, depth)
}

// readOptions returns the reader options configured in ctx.
func readOptions(ctx context.Context) []lang.Option {
	depth, ok := ctx.Value(maxDepthKey{}).(int)
	if !ok {
		return nil
	}

	return []lang.Option{lang.WithMaxDepth(depth)}
}

// Sources is an ordered, de-duplicated set of open source inputs.
type Sources struct {
	files []*os.File
	names []string
	stdin io.Reader
}

// fileKey uniquely identifies a file by its device and inode numbers, so
// that symlinks and relative paths to one file are read once.
type fileKey struct {
	dev uint64
	ino uint64
}

// OpenSources opens the named sources in order. With no names it uses the
// global source files of ctx, and with none of those it reads standard
// input.
//
// Every occurrence of "-" refers to the single standard input stream, which
// is read after all regular files. A file named more than once, through any
// path, is read once.
func OpenSources(ctx context.Context, names []string) (*Sources, error) {
	if len(names) == 0 {
		names = sourceNamesFrom(ctx)
	}

	if len(names) == 0 {
		names = []string{StdinSource}
	}

	var (
		srcs     Sources
		hasStdin bool
	)

	seen := make(map[fileKey]struct{}, len(names))

	for _, name := range names {
		if name == StdinSource {
			hasStdin = true

			continue
		}

		file, dup, err := openUnique(name, seen)
		if err != nil {
			_ = srcs.Close()

			return nil, ErrOpenSource.With(slog.String("file", name)).Wrap(err)
		}

		if dup {
			continue
		}

		srcs.files = append(srcs.files, file)
		srcs.names = append(srcs.names, file.Name())
	}

	if hasStdin {
		srcs.stdin = streamsFrom(ctx).in
		srcs.names = append(srcs.names, StdinSource)
	}

	return &srcs, nil
}

// openUnique opens the file at path unless a file with the same device and
// inode is already in seen.
func openUnique(path string, seen map[fileKey]struct{}) (*os.File, bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, false, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()

		return nil, false, err
	}

	if info.IsDir() {
		_ = file.Close()

		return nil, false, &os.PathError{Op: "open", Path: path, Err: syscall.EISDIR}
	}

	if key, ok := makeFileKey(info); ok {
		if _, dup := seen[key]; dup {
			_ = file.Close()

			return nil, true, nil
		}

		seen[key] = struct{}{}
	}

	return file, false, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// Names returns the names of the open sources in reading order.
func (s *Sources) Names() []string { return s.names }

// Reader returns a reader over every source in order. A newline separates
// consecutive sources so that the last line of one never joins the first
// line of the next.
func (s *Sources) Reader() io.Reader {
	readers := make([]io.Reader, 0, 2*len(s.files)+1)

	for i, f := range s.files {
		if i > 0 {
			readers = append(readers, strings.NewReader("\n"))
		}

		readers = append(readers, f)
	}

	if s.stdin != nil {
		if len(readers) > 0 {
			readers = append(readers, strings.NewReader("\n"))
		}

		readers = append(readers, s.stdin)
	}

	return io.MultiReader(readers...)
}

// Close closes every opened file. Standard input is left open.
func (s *Sources) Close() error {
	errs := make([]error, 0, len(s.files))

	for _, f := range s.files {
		errs = append(errs, f.Close())
	}

	s.files = nil

	return errors.Join(errs...)
}
