package lang

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

// tokenPattern recognizes, in priority order: the splice marker "~@"; one
// punctuation character; a double-quoted string, possibly missing its
// closing quote; a comment running to end of line; or a run of bare
// characters. Leading whitespace and commas are skipped and not captured.
const tokenPattern = "[\\s,]*(~@|[\\[\\]{}()'`~^@]|\"(?:\\\\.|[^\\\\\"])*\"?|;.*|[^\\s\\[\\]{}('\"`,;)]*)"

var (
	tokenRegexp   = sync.OnceValue(func() *regexp.Regexp { return regexp.MustCompile(tokenPattern) })
	integerRegexp = sync.OnceValue(func() *regexp.Regexp { return regexp.MustCompile(`^-?[0-9]+$`) })
	stringRegexp  = sync.OnceValue(func() *regexp.Regexp { return regexp.MustCompile(`^"(?:\\.|[^\\"])*"$`) })
)

// Position locates a token in its source text.
type Position struct {
	Offset int // byte offset, from 0
	Line   int // from 1
	Column int // in runes, from 1
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// after returns the position just past text, which starts at p. Newlines
// in text advance the line.
func (p Position) after(text string) Position {
	p.Offset += len(text)

	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		p.Line += strings.Count(text, "\n")
		p.Column = utf8.RuneCountInString(text[i+1:]) + 1

		return p
	}

	p.Column += utf8.RuneCountInString(text)

	return p
}

// Token is one lexical unit of source text.
type Token struct {
	Text string
	Pos  Position
}

// Tokenize splits text into tokens. Whitespace, commas, and comments are
// discarded. Empty input yields no tokens.
func Tokenize(text string) []Token {
	var (
		tokens []Token
		line   = 1
		bol    = 0 // byte offset of the current line
		last   = 0 // byte offset up to which lines have been counted
	)

	for _, m := range tokenRegexp().FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2], m[3]
		if start < 0 || start == end {
			continue
		}

		if text[start] == ';' {
			continue
		}

		for {
			i := strings.IndexByte(text[last:start], '\n')
			if i < 0 {
				break
			}

			line++
			last += i + 1
			bol = last
		}

		last = start

		tokens = append(tokens, Token{
			Text: text[start:end],
			Pos: Position{
				Offset: start,
				Line:   line,
				Column: utf8.RuneCountInString(text[bol:start]) + 1,
			},
		})
	}

	return tokens
}

// Texts returns the text of each token.
func Texts(tokens []Token) []string {
	texts := make([]string, len(tokens))
	for i, t := range tokens {
		texts[i] = t.Text
	}

	return texts
}
