package repl

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/quux/lang"
	"github.com/ardnew/quux/log"
)

// nonSymbols are the token texts that never read as a symbol.
var nonSymbols = map[string]struct{}{
	"(": {}, ")": {}, "[": {}, "]": {}, "{": {}, "}": {},
	"'": {}, "`": {}, "~": {}, "~@": {}, "@": {}, "^": {},
	"nil": {}, "true": {}, "false": {},
}

// Session reads, evaluates, and prints input lines against one environment.
// It remembers the last line and the symbols it has seen, for completion.
// A Session is safe for concurrent use.
type Session struct {
	env    *lang.Env
	logger log.Logger
	opts   []lang.Option

	mu      sync.Mutex
	last    string
	symbols map[string]struct{}
}

// NewSession returns a Session evaluating in env. Reader and evaluator
// events are traced to logger. opts are applied to every read.
func NewSession(env *lang.Env, logger log.Logger, opts ...lang.Option) *Session {
	return &Session{
		env:     env,
		logger:  logger,
		opts:    opts,
		symbols: make(map[string]struct{}),
	}
}

// Env returns the session's environment.
func (s *Session) Env() *lang.Env { return s.env }

// Rep reads the first form of line, evaluates it, and returns the printed
// result.
func (s *Session) Rep(ctx context.Context, line string) (string, error) {
	s.remember(line)

	opts := append([]lang.Option{
		lang.WithCache(false),
		lang.WithLogger(s.logger),
	}, s.opts...)

	out, err := lang.Rep(ctx, line, s.env, opts...)
	if err != nil {
		s.logger.DebugContext(ctx, "rep failed",
			slog.String("input", line),
			slog.Any("error", err),
		)

		return "", err
	}

	return out, nil
}

func (s *Session) remember(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = line

	for _, tok := range lang.Tokenize(line) {
		if isSymbol(tok.Text) {
			s.symbols[tok.Text] = struct{}{}
		}
	}
}

func isSymbol(text string) bool {
	if _, ok := nonSymbols[text]; ok {
		return false
	}

	if strings.HasPrefix(text, `"`) || strings.HasPrefix(text, ";") {
		return false
	}

	digits := strings.TrimPrefix(text, "-")

	return digits == "" || strings.ContainsFunc(digits, func(r rune) bool {
		return r < '0' || r > '9'
	})
}

// Last returns the most recent line passed to Rep.
func (s *Session) Last() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.last
}

// Symbols returns the symbols read so far in sorted order.
func (s *Session) Symbols() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Sorted(maps.Keys(s.symbols))
}
