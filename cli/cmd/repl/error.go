package repl

import (
	"errors"
	"strings"

	"github.com/ardnew/quux/lang"
)

// ErrOutOfBounds is returned for a history index outside the recorded
// entries.
var ErrOutOfBounds = errors.New("index out of range")

// FormatError renders err for display after input line. Reader errors with
// a position are followed by a snippet pointing at the offending column.
func FormatError(err error, line string) string {
	msg := "error: " + err.Error()

	var lerr *lang.Error
	if !errors.As(err, &lerr) {
		return msg
	}

	snippet := lerr.Snippet(line)
	if snippet == "" || strings.TrimSpace(line) == "" {
		return msg
	}

	return msg + "\n" + strings.TrimSuffix(snippet, "\n")
}
