package cmd

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/mattn/go-isatty"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/quux/cli/cmd/repl"
	"github.com/ardnew/quux/lang"
	"github.com/ardnew/quux/log"
)

// historyFile is the base name of the REPL history file in the cache
// directory.
const historyFile = "history.utf8"

// Repl runs the interactive read-eval-print loop.
type Repl struct {
	Plain     bool `help:"Use the line-oriented loop even on a terminal."`
	NoHistory bool `help:"Do not read or write the history file."`
}

// Run executes the repl command. The global source files, if any, are read
// and printed line by line before the loop starts.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env, err := lang.NewEnv(lang.WithEnvLogger(log.Default()))
	if err != nil {
		return err
	}

	session := repl.NewSession(env, log.Default(), readOptions(ctx)...)
	s := streamsFrom(ctx)

	if names := sourceNamesFrom(ctx); len(names) > 0 {
		if err := r.prelude(ctx, session, names); err != nil {
			return err
		}
	}

	if r.Plain || !isTerminal(s.in, s.out) {
		log.DebugContext(ctx, "repl plain")

		return repl.Plain(ctx, session, s.in, s.out, s.err, repl.Prompt)
	}

	path := r.historyPath(ctx)

	log.DebugContext(ctx, "repl interactive", slog.String("history", path))

	err = repl.Run(ctx, session, repl.NewHistory(path), log.Default(),
		tea.WithInput(s.in),
		tea.WithOutput(s.out),
	)
	if err != nil {
		return ErrTerminal.Wrap(err)
	}

	return nil
}

// prelude reads, evaluates, and prints each line of the named sources.
func (r *Repl) prelude(ctx context.Context, session *repl.Session, names []string) error {
	srcs, err := OpenSources(ctx, names)
	if err != nil {
		return err
	}
	defer srcs.Close()

	s := streamsFrom(ctx)

	return repl.Plain(ctx, session, srcs.Reader(), s.out, s.err, "")
}

// historyPath returns the history file path, or "" to keep history in
// memory.
func (r *Repl) historyPath(ctx context.Context) string {
	if r.NoHistory {
		return ""
	}

	dir, ok := kongVar(ctx, CacheIdentifier)
	if !ok || dir == "" {
		return ""
	}

	return filepath.Join(dir, historyFile)
}

// isTerminal reports whether both in and out are terminals.
func isTerminal(in io.Reader, out io.Writer) bool {
	type fder interface{ Fd() uintptr }

	fi, iok := in.(fder)
	fo, ook := out.(fder)

	if !iok || !ook {
		return false
	}

	tty := func(fd uintptr) bool {
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}

	return tty(fi.Fd()) && tty(fo.Fd())
}
