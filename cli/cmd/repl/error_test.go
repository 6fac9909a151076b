package repl

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ardnew/quux/lang"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		line string
		want string
	}{
		{
			name: "plain error",
			err:  errors.New("boom"),
			line: "x",
			want: "error: boom",
		},
		{
			name: "positioned",
			err:  lang.ErrUnexpectedCloser.WithPosition(lang.Position{Offset: 2, Line: 1, Column: 3}),
			line: "a ]",
			want: "error: unexpected closing delimiter at 1:3\n  1 | a ]\n        ^",
		},
		{
			name: "wrapped",
			err: fmt.Errorf("outer: %w",
				lang.ErrEmptyInput.WithPosition(lang.Position{Line: 1, Column: 1})),
			line: "   ",
			want: "error: outer: empty input at 1:1",
		},
		{
			name: "line out of range",
			err:  lang.ErrInternal.WithPosition(lang.Position{Line: 3, Column: 1}),
			line: "x",
			want: "error: internal reader error at 3:1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatError(tt.err, tt.line); got != tt.want {
				t.Errorf("FormatError() = %q, want %q", got, tt.want)
			}
		})
	}
}
