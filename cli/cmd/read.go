package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/quux/cli/cmd/repl"
	"github.com/ardnew/quux/lang"
	"github.com/ardnew/quux/log"
)

// Read reads, evaluates, and prints each line of its sources.
type Read struct {
	Source SourceArgs `embed:""`
}

// Run executes the read command. Errors in a line are reported and do not
// stop the loop.
func (r *Read) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := OpenSources(ctx, r.Source.Sources)
	if err != nil {
		return err
	}
	defer srcs.Close()

	env, err := lang.NewEnv(lang.WithEnvLogger(log.Default()))
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "read start", slog.Any("sources", srcs.Names()))

	var (
		s       = streamsFrom(ctx)
		session = repl.NewSession(env, log.Default(), readOptions(ctx)...)
	)

	err = repl.Plain(ctx, session, srcs.Reader(), s.out, s.err, "")
	if err != nil {
		return ErrReadSource.Wrap(err)
	}

	return nil
}
