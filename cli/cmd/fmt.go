package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/quux/lang"
	"github.com/ardnew/quux/log"
)

// Fmt reads every form of its sources and writes them in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native quux syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as a tree of value kinds."`
	Tokens Tokens `cmd:""                    help:"List tokens with their positions."`
}

// SourceArgs is the positional source list shared by commands that read
// sources.
type SourceArgs struct {
	Sources []string `arg:"" help:"Source files or '-' for stdin (default: --source, then stdin)." name:"file" optional:""`
}

// read returns the content of the sources.
func (f SourceArgs) read(ctx context.Context) (string, error) {
	srcs, err := OpenSources(ctx, f.Sources)
	if err != nil {
		return "", err
	}
	defer srcs.Close()

	data, err := io.ReadAll(srcs.Reader())
	if err != nil {
		return "", ErrReadSource.Wrap(err)
	}

	return string(data), nil
}

// forms reads every form of the sources. Read errors are reported with a
// snippet of the offending line.
func (f SourceArgs) forms(ctx context.Context, format string) ([]lang.Value, error) {
	source, err := f.read(ctx)
	if err != nil {
		return nil, err
	}

	opts := append([]lang.Option{
		lang.WithCache(false),
		lang.WithLogger(log.Default()),
	}, readOptions(ctx)...)

	forms, err := lang.ReadAll(ctx, source, opts...)
	if err != nil {
		return nil, readError(ctx, err, source, format)
	}

	return forms, nil
}

// readError writes the snippet of a read error to the error stream and
// returns err annotated with the format.
func readError(ctx context.Context, err error, source, format string) error {
	lerr := lang.WrapError(err)

	if snippet := lerr.Snippet(source); snippet != "" {
		_, _ = io.WriteString(streamsFrom(ctx).err, snippet)
	}

	return lerr.With(slog.String("format", format))
}

// Native formats input as native quux syntax.
type Native struct {
	Indent int `default:"2" help:"Indent width; 0 prints each form on one line." short:"i"`

	Source SourceArgs `embed:""`
}

// Run executes the native command.
func (n *Native) Run(ctx context.Context) error {
	forms, err := n.Source.forms(ctx, "native")
	if err != nil {
		return err
	}

	return lang.Format(ctx, streamsFrom(ctx).out, forms, n.Indent)
}

// JSON formats input as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width; 0 for compact output." short:"i"`

	Source SourceArgs `embed:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	forms, err := j.Source.forms(ctx, "json")
	if err != nil {
		return err
	}

	return lang.FormatJSON(ctx, streamsFrom(ctx).out, forms, j.Indent)
}

// YAML formats input as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width; 0 for flow style." short:"i"`

	Source SourceArgs `embed:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	forms, err := y.Source.forms(ctx, "yaml")
	if err != nil {
		return err
	}

	return lang.FormatYAML(ctx, streamsFrom(ctx).out, forms, y.Indent)
}

// AST prints the value tree of each form.
type AST struct {
	Source SourceArgs `embed:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	forms, err := a.Source.forms(ctx, "ast")
	if err != nil {
		return err
	}

	return lang.FormatAST(streamsFrom(ctx).out, forms)
}

// Tokens lists the tokens of the input. It never fails on malformed forms.
type Tokens struct {
	Source SourceArgs `embed:""`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	source, err := t.Source.read(ctx)
	if err != nil {
		return err
	}

	return lang.FormatTokens(streamsFrom(ctx).out, lang.Tokenize(source))
}
