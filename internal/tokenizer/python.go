package tokenizer

// PythonNormalizer tokenizes Python 3 source.
//
// Indentation is structural: INDENT/DEDENT tokens are emitted from an
// indent stack (tab stops at 8), with a NEWLINE token between logical
// lines so block shape survives normalization. Docstrings and import
// lines are consumed without emitting tokens.
type PythonNormalizer struct{}

// NewPythonNormalizer returns a normalizer for Python source.
func NewPythonNormalizer() Normalizer {
	return &PythonNormalizer{}
}

func (n *PythonNormalizer) LanguageName() string { return "Python" }

func (n *PythonNormalizer) SupportedExtensions() []string {
	return []string{".py", ".pyw", ".pyi"}
}

var pyKeywords = NewSet(
	"False", "None", "True", "and", "as", "assert", "async", "await",
	"break", "class", "continue", "def", "del", "elif", "else", "except",
	"finally", "for", "from", "global", "if", "import", "in", "is",
	"lambda", "nonlocal", "not", "or", "pass", "raise", "return", "try",
	"while", "with", "yield",
)

var pyBuiltinTypes = NewSet(
	"int", "float", "str", "bool", "list", "dict", "set", "tuple",
	"bytes", "bytearray", "complex", "frozenset", "object", "type",
	"range", "slice", "memoryview", "property", "classmethod",
	"staticmethod", "super",
)

var pyThreeCharOperators = []string{
	"...", "<<=", ">>=", "**=", "//=",
}

var pyTwoCharOperators = []string{
	"==", "!=", "<=", ">=",
	"+=", "-=", "*=", "/=",
	"%=", "&=", "|=", "^=",
	"**", "//", "<<", ">>",
	"->", "@=",
}

// Normalize tokenizes Python source. Indentation is resolved first on each
// physical line, then the byte dispatch runs comment, import, string,
// number, identifier and operator handlers in that order.
func (n *PythonNormalizer) Normalize(source string) *TokenizedFile {
	cur := newCursor(source)
	out := &TokenizedFile{Tokens: []Token{}}
	var tally lineTally

	for !cur.eof() {
		tally.observe(cur.line)

		if cur.atLineStart && cur.peek() != '\n' && cur.peek() != '#' {
			processPyIndentation(cur, out)
			continue
		}

		ch := cur.peek()

		if ch == ' ' || ch == '\t' {
			cur.advance()
			continue
		}
		if processPyNewline(cur, ch, out) {
			continue
		}
		if ch == '#' {
			tally.hasComment = true
			for !cur.eof() && cur.peek() != '\n' {
				cur.advance()
			}
			continue
		}
		if processPyImport(cur, &tally) {
			continue
		}
		if processPyString(cur, ch, out, &tally) {
			continue
		}
		if isDigit(ch) || (ch == '.' && isDigit(cur.peekNext())) {
			tally.hasCode = true
			out.Tokens = append(out.Tokens, parsePyNumber(cur))
			continue
		}
		if isIdentifierStart(ch) {
			tally.hasCode = true
			out.Tokens = append(out.Tokens, parsePyIdentifier(cur))
			continue
		}
		if isPyOperatorChar(ch) {
			tally.hasCode = true
			out.Tokens = append(out.Tokens, parsePyOperator(cur))
			continue
		}

		cur.advance()
	}

	tally.finish()

	// Close every open block at end of input
	for len(cur.indents) > 1 {
		cur.indents = cur.indents[:len(cur.indents)-1]
		out.Tokens = append(out.Tokens, Token{
			Kind:           KindDedent,
			OriginalHash:   hashDedent,
			NormalizedHash: hashDedent,
			Line:           cur.line,
			Column:         1,
		})
	}

	out.TotalLines = cur.totalLines()
	out.CodeLines = tally.codeLines
	out.BlankLines = tally.blankLines
	out.CommentLines = tally.commentLines

	return out
}

// processPyIndentation measures the leading whitespace of the current
// physical line and emits INDENT/DEDENT tokens against the indent stack.
// Blank and comment-only lines never move the stack.
func processPyIndentation(cur *cursor, out *TokenizedFile) {
	indent := 0
	for !cur.eof() {
		switch cur.peek() {
		case '\t':
			indent += 8 - indent%8
		case ' ':
			indent++
		default:
			goto measured
		}
		cur.advance()
	}
measured:
	if !cur.eof() && cur.peek() != '\n' && cur.peek() != '#' {
		prev := cur.indents[len(cur.indents)-1]
		switch {
		case indent > prev:
			cur.indents = append(cur.indents, indent)
			out.Tokens = append(out.Tokens, Token{
				Kind:           KindIndent,
				OriginalHash:   hashIndent,
				NormalizedHash: hashIndent,
				Line:           cur.line,
				Column:         1,
				Length:         indent,
			})
		case indent < prev:
			for len(cur.indents) > 0 && cur.indents[len(cur.indents)-1] > indent {
				cur.indents = cur.indents[:len(cur.indents)-1]
				out.Tokens = append(out.Tokens, Token{
					Kind:           KindDedent,
					OriginalHash:   hashDedent,
					NormalizedHash: hashDedent,
					Line:           cur.line,
					Column:         1,
				})
			}
		}
	}
	cur.atLineStart = false
}

// processPyNewline emits a NEWLINE token unless the stream is empty or the
// previous token is already a NEWLINE, so runs of blank lines collapse.
func processPyNewline(cur *cursor, ch byte, out *TokenizedFile) bool {
	if ch != '\n' {
		return false
	}
	if len(out.Tokens) > 0 && out.Tokens[len(out.Tokens)-1].Kind != KindNewline {
		out.Tokens = append(out.Tokens, Token{
			Kind:           KindNewline,
			OriginalHash:   hashNewline,
			NormalizedHash: hashNewline,
			Line:           cur.line,
			Column:         cur.col,
			Length:         1,
		})
	}
	cur.advance()
	return true
}

// processPyImport consumes an entire import or from statement without
// emitting tokens. Parenthesized import lists and backslash continuations
// are followed to their end. Imports still count as code lines.
func processPyImport(cur *cursor, tally *lineTally) bool {
	if tally.hasCode || !atPyImport(cur) {
		return false
	}
	for !cur.eof() {
		ch := cur.peek()
		if ch == '\n' {
			// Leave the newline for the main loop
			break
		}
		if ch == '\\' {
			cur.advance()
			if !cur.eof() && cur.peek() == '\n' {
				cur.advance()
			}
			continue
		}
		if ch == '(' {
			cur.advance()
			depth := 1
			for !cur.eof() && depth > 0 {
				switch cur.peek() {
				case '(':
					depth++
				case ')':
					depth--
				}
				cur.advance()
			}
			continue
		}
		cur.advance()
	}
	tally.hasCode = true
	return true
}

func atPyImport(cur *cursor) bool {
	rest := cur.src[cur.pos:]
	if len(rest) >= 7 && rest[:7] == "import " {
		return true
	}
	if len(rest) >= 5 && rest[:5] == "from " {
		return true
	}
	return false
}

func processPyString(cur *cursor, ch byte, out *TokenizedFile, tally *lineTally) bool {
	// Bare string or docstring
	if ch == '"' || ch == '\'' {
		if cur.peekNext() == ch && cur.peekAt(2) == ch {
			if !tally.hasCode && isDocstringContext(out.Tokens) {
				skipPyDocstring(cur, ch)
				tally.hasComment = true
				return true
			}
		}
		tally.hasCode = true
		out.Tokens = append(out.Tokens, parsePyString(cur))
		return true
	}

	// Single prefix: f"", r'', b""
	if isPyStringPrefix(ch) && (cur.peekNext() == '"' || cur.peekNext() == '\'') {
		tally.hasCode = true
		start := cur.pos
		cur.advance()
		tok := parsePyString(cur)
		tok.Length = cur.pos - start
		tok.Column--
		out.Tokens = append(out.Tokens, tok)
		return true
	}

	// Double prefix: fr"", rf''
	if isPyRawFmtPrefix(ch) && isPyRawFmtPrefix(cur.peekNext()) &&
		(cur.peekAt(2) == '"' || cur.peekAt(2) == '\'') {
		tally.hasCode = true
		start := cur.pos
		cur.advance()
		cur.advance()
		tok := parsePyString(cur)
		tok.Length = cur.pos - start
		tok.Column -= 2
		out.Tokens = append(out.Tokens, tok)
		return true
	}

	return false
}

func isPyStringPrefix(ch byte) bool {
	switch ch {
	case 'f', 'F', 'r', 'R', 'b', 'B':
		return true
	}
	return false
}

func isPyRawFmtPrefix(ch byte) bool {
	switch ch {
	case 'f', 'F', 'r', 'R':
		return true
	}
	return false
}

// parsePyString parses a single- or triple-quoted string starting at the
// opening quote. Escape sequences are skipped and excluded from the
// hashed value.
func parsePyString(cur *cursor) Token {
	tok := Token{Kind: KindString, Line: cur.line, Column: cur.col}
	start := cur.pos

	quote := cur.advance()
	triple := false
	if cur.peek() == quote && cur.peekNext() == quote {
		cur.advance()
		cur.advance()
		triple = true
	}

	var value []byte
	for !cur.eof() {
		ch := cur.peek()

		if triple {
			if ch == quote && cur.peekNext() == quote && cur.peekAt(2) == quote {
				cur.advance()
				cur.advance()
				cur.advance()
				break
			}
		} else {
			if ch == quote {
				cur.advance()
				break
			}
			if ch == '\n' {
				// Unterminated
				break
			}
		}

		if ch == '\\' {
			cur.advance()
			if !cur.eof() {
				cur.advance()
			}
			continue
		}

		value = append(value, ch)
		cur.advance()
	}

	tok.Length = cur.pos - start
	tok.OriginalHash = HashLexeme(string(value))
	tok.NormalizedHash = PlaceholderHash(KindString)
	return tok
}

// skipPyDocstring consumes a triple-quoted docstring without emitting a
// token.
func skipPyDocstring(cur *cursor, quote byte) {
	cur.advance()
	cur.advance()
	cur.advance()

	for !cur.eof() {
		ch := cur.peek()
		if ch == quote && cur.peekNext() == quote && cur.peekAt(2) == quote {
			cur.advance()
			cur.advance()
			cur.advance()
			return
		}
		if ch == '\\' {
			cur.advance()
			if !cur.eof() {
				cur.advance()
			}
			continue
		}
		cur.advance()
	}
}

// isDocstringContext reports whether a triple-quoted string at the current
// position is a docstring: the first tokens of the file, or the first
// statement after a colon (def/class/conditional suite headers all end in
// one). NEWLINE and INDENT tokens are transparent to the check.
func isDocstringContext(tokens []Token) bool {
	colon := HashLexeme(":")
	for i := len(tokens) - 1; i >= 0; i-- {
		switch tokens[i].Kind {
		case KindNewline, KindIndent:
			continue
		case KindPunctuation:
			return tokens[i].OriginalHash == colon
		default:
			return false
		}
	}
	return true
}

// parsePyNumber parses decimal, hex, binary and octal literals with PEP 515
// underscore separators, fraction, exponent and the complex j suffix.
// Underscores are excluded from the hashed value.
func parsePyNumber(cur *cursor) Token {
	tok := Token{Kind: KindNumber, Line: cur.line, Column: cur.col}
	start := cur.pos

	var value []byte
	special := false

	if cur.peek() == '0' {
		switch next := cur.peekNext(); {
		case next == 'x' || next == 'X':
			value = append(value, cur.advance(), cur.advance())
			value = consumeDigits(cur, value, isHexDigit, '_')
			special = true
		case next == 'b' || next == 'B':
			value = append(value, cur.advance(), cur.advance())
			value = consumeDigits(cur, value, isBinaryDigit, '_')
			special = true
		case next == 'o' || next == 'O':
			value = append(value, cur.advance(), cur.advance())
			value = consumeDigits(cur, value, isOctalDigit, '_')
			special = true
		}
	}

	if !special {
		if cur.peek() == '0' {
			value = append(value, cur.advance())
		} else {
			value = consumeDigits(cur, value, isDigit, '_')
		}

		if cur.peek() == '.' && isDigit(cur.peekNext()) {
			value = append(value, cur.advance())
			value = consumeDigits(cur, value, isDigit, '_')
		}

		if ch := cur.peek(); ch == 'e' || ch == 'E' {
			value = append(value, cur.advance())
			if ch := cur.peek(); ch == '+' || ch == '-' {
				value = append(value, cur.advance())
			}
			value = consumeDigits(cur, value, isDigit, '_')
		}
	}

	// Complex suffix is part of the value: 1j and 1 differ
	if ch := cur.peek(); ch == 'j' || ch == 'J' {
		value = append(value, cur.advance())
	}

	tok.Length = cur.pos - start
	tok.OriginalHash = HashLexeme(string(value))
	tok.NormalizedHash = PlaceholderHash(KindNumber)
	return tok
}

func parsePyIdentifier(cur *cursor) Token {
	tok := Token{Line: cur.line, Column: cur.col}
	start := cur.pos
	for !cur.eof() && isIdentifierChar(cur.peek()) {
		cur.advance()
	}
	lexeme := cur.src[start:cur.pos]

	tok.Length = cur.pos - start
	tok.OriginalHash = HashLexeme(lexeme)

	switch {
	case contains(pyKeywords, lexeme):
		tok.Kind = KindKeyword
		tok.NormalizedHash = tok.OriginalHash
	case contains(pyBuiltinTypes, lexeme):
		tok.Kind = KindType
		tok.NormalizedHash = PlaceholderHash(KindType)
	default:
		tok.Kind = KindIdentifier
		tok.NormalizedHash = PlaceholderHash(KindIdentifier)
	}
	return tok
}

func parsePyOperator(cur *cursor) Token {
	tok := Token{Line: cur.line, Column: cur.col}
	start := cur.pos

	lexeme := matchOperator(cur, pyThreeCharOperators)
	if lexeme == "" {
		lexeme = matchOperator(cur, pyTwoCharOperators)
	}
	if lexeme == "" {
		lexeme = string(cur.advance())
	}

	tok.Length = cur.pos - start
	tok.OriginalHash = HashLexeme(lexeme)
	tok.NormalizedHash = tok.OriginalHash
	if isPunctuation(lexeme) {
		tok.Kind = KindPunctuation
	} else {
		tok.Kind = KindOperator
	}
	return tok
}

func isPyOperatorChar(ch byte) bool {
	switch ch {
	case '+', '-', '*', '/', '%', '=', '<', '>', '!', '&',
		'|', '^', '~', '@', '(', ')', '[', ']', '{', '}',
		',', ':', ';', '.':
		return true
	}
	return false
}
