package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/quux/lang"
)

// commands are the command-mode commands.
var commands = []string{"help", "tokens", "env", "clear", "quit"}

// keywords are always offered in eval mode.
var keywords = []string{
	"nil", "true", "false",
	string(lang.SymQuote),
	string(lang.SymQuasiquote),
	string(lang.SymUnquote),
	string(lang.SymSpliceUnquote),
	string(lang.SymDeref),
	string(lang.SymMeta),
}

// isWordBoundary reports whether r ends a symbol: whitespace, a comma, a
// delimiter, a reader macro character, a string quote, or a comment.
func isWordBoundary(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}

	return strings.ContainsRune("()[]{}'`~@^\",;", r)
}

// wordBounds returns the word around the cursor and its byte boundaries
// within input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// candidates returns the sorted, distinct completion candidates for the
// given mode.
func (s *Session) candidates(mode Mode) []string {
	if mode == ModeCommand {
		return commands
	}

	names := slices.Concat(s.env.Names(), keywords, s.Symbols())
	slices.Sort(names)

	return slices.Compact(names)
}

// complete returns the fuzzy matches for the word at cursor, best first,
// and the word's boundaries. An empty word has no matches.
func (s *Session) complete(
	input string,
	cursor int,
	mode Mode,
) (matches fuzzy.Matches, start, end int) {
	word, start, end := wordBounds(input, cursor)
	if word == "" {
		return nil, start, end
	}

	return fuzzy.Find(word, s.candidates(mode)), start, end
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate uses the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	selected int,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, i == selected)
		w := lipgloss.Width(rendered)

		if i > 0 {
			w += lipgloss.Width(sep)
		}

		last := i == len(matches)-1
		if i > 0 && used+w+reserve > width && !(last && used+w <= width) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
