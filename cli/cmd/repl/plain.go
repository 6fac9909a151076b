package repl

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// Prompt is written before each line read interactively.
const Prompt = "user> "

// Plain runs the line-oriented read-eval-print loop over in until end of
// input or until ctx is done.
//
// For every line, prompt is written to out (if not empty), then either the
// printed result is written to out or the error is written to errOut.
// Errors never end the loop. Plain returns nil at end of input.
func Plain(
	ctx context.Context,
	s *Session,
	in io.Reader,
	out, errOut io.Writer,
	prompt string,
) error {
	r := bufio.NewReader(in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if prompt != "" {
			if _, err := io.WriteString(out, prompt); err != nil {
				return err
			}
		}

		line, rerr := r.ReadString('\n')
		if rerr != nil && line == "" {
			if !errors.Is(rerr, io.EOF) {
				return rerr
			}

			if prompt != "" {
				_, _ = io.WriteString(out, "\n")
			}

			return nil
		}

		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")

		result, err := s.Rep(ctx, line)
		if err != nil {
			_, err = io.WriteString(errOut, FormatError(err, line)+"\n")
		} else {
			_, err = io.WriteString(out, result+"\n")
		}

		if err != nil {
			return err
		}

		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return nil
			}

			return rerr
		}
	}
}
