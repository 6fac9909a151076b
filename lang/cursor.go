package lang

// Cursor walks a token sequence. It is owned by a single read and is not
// safe for concurrent use.
type Cursor struct {
	tokens []Token
	pos    int
	end    Position
}

// NewCursor returns a Cursor positioned at the first of tokens.
func NewCursor(tokens []Token) *Cursor {
	c := &Cursor{tokens: tokens}
	if n := len(tokens); n > 0 {
		last := tokens[n-1]
		c.end = last.Pos.after(last.Text)
	} else {
		c.end = Position{Line: 1, Column: 1}
	}

	return c
}

// Peek returns the current token without consuming it.
func (c *Cursor) Peek() (Token, bool) {
	if c.pos < 0 || c.pos >= len(c.tokens) {
		return Token{}, false
	}

	return c.tokens[c.pos], true
}

// Next returns the current token and advances past it. The cursor advances
// even when no token remains.
func (c *Cursor) Next() (Token, bool) {
	t, ok := c.Peek()
	c.pos++

	return t, ok
}

// Done reports whether every token has been consumed.
func (c *Cursor) Done() bool { return c.pos >= len(c.tokens) }

// Remaining returns the number of unconsumed tokens.
func (c *Cursor) Remaining() int { return max(len(c.tokens)-c.pos, 0) }

// Pos returns the position of the current token, or the position just past
// the last token when none remain.
func (c *Cursor) Pos() Position {
	if t, ok := c.Peek(); ok {
		return t.Pos
	}

	return c.end
}
