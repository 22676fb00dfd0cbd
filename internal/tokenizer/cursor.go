package tokenizer

// cursor is the mutable scan state threaded through one Normalize call.
// Normalizers themselves hold only immutable keyword tables, so a single
// normalizer instance is safe for concurrent use across files.
type cursor struct {
	src string
	pos int

	line int // 1-based
	col  int // 1-based

	// atLineStart is true while only whitespace has been consumed since
	// the last newline
	atLineStart bool

	// indents is the indentation stack for indentation-sensitive
	// languages, initially [0]
	indents []int
}

func newCursor(src string) *cursor {
	return &cursor{
		src:         src,
		line:        1,
		col:         1,
		atLineStart: true,
		indents:     []int{0},
	}
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.src)
}

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.pos]
}

func (c *cursor) peekNext() byte {
	return c.peekAt(1)
}

func (c *cursor) peekAt(offset int) byte {
	if c.pos+offset >= len(c.src) {
		return 0
	}
	return c.src[c.pos+offset]
}

// advance consumes one byte, updating line, column and the line-start flag.
func (c *cursor) advance() byte {
	ch := c.peek()
	c.pos++
	switch {
	case ch == '\n':
		c.line++
		c.col = 1
		c.atLineStart = true
	default:
		c.col++
		if ch != ' ' && ch != '\t' {
			c.atLineStart = false
		}
	}
	return ch
}

// totalLines derives the physical line count at end of input. A trailing
// newline does not open a new countable line.
func (c *cursor) totalLines() int {
	if len(c.src) == 0 {
		return 0
	}
	if c.col == 1 && c.line > 1 {
		return c.line - 1
	}
	return c.line
}

// lineTally accumulates the per-line classification while tokenizing.
// A line is blank if it produced no tokens, comment if it produced only
// comment or docstring skips, and code otherwise.
type lineTally struct {
	codeLines    int
	blankLines   int
	commentLines int

	currentLine int
	hasCode     bool
	hasComment  bool
}

// observe flushes the previous line's classification when the cursor has
// moved to a new line. Call once at the top of each dispatch iteration.
func (t *lineTally) observe(line int) {
	if line == t.currentLine {
		return
	}
	t.flush()
	t.currentLine = line
	t.hasCode = false
	t.hasComment = false
}

// finish flushes the classification of the final line.
func (t *lineTally) finish() {
	t.flush()
}

func (t *lineTally) flush() {
	if t.currentLine == 0 {
		return
	}
	switch {
	case t.hasCode:
		t.codeLines++
	case t.hasComment:
		t.commentLines++
	default:
		t.blankLines++
	}
}
