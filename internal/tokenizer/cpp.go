package tokenizer

// CppNormalizer tokenizes C and C++ source.
//
// Preprocessor lines are consumed without emitting tokens so shared
// #include/#define boilerplate never contributes to similarity matches.
// Raw, wide and u8-prefixed string literals are handled, as are digit
// separators (') and numeric type suffixes.
type CppNormalizer struct{}

// NewCppNormalizer returns a normalizer for the C/C++ family.
func NewCppNormalizer() Normalizer {
	return &CppNormalizer{}
}

func (n *CppNormalizer) LanguageName() string { return "C++" }

func (n *CppNormalizer) SupportedExtensions() []string {
	return []string{".cpp", ".cxx", ".cc", ".c", ".hpp", ".hxx", ".h", ".hh"}
}

var cppKeywords = NewSet(
	// Control flow
	"break", "case", "continue", "default", "do", "else", "for", "goto",
	"if", "return", "switch", "while",
	// Types and declarations
	"auto", "char", "const", "double", "enum", "extern", "float", "inline",
	"int", "long", "register", "short", "signed", "sizeof", "static",
	"struct", "typedef", "union", "unsigned", "void", "volatile",
	// C++
	"alignas", "alignof", "and", "and_eq", "asm", "bitand", "bitor",
	"bool", "catch", "class", "compl", "const_cast", "delete",
	"dynamic_cast", "explicit", "export", "false", "friend", "mutable",
	"namespace", "new", "not", "not_eq", "operator", "or", "or_eq",
	"private", "protected", "public", "reinterpret_cast", "static_cast",
	"template", "this", "throw", "true", "try", "typeid", "typename",
	"using", "virtual", "wchar_t", "xor", "xor_eq",
	// C++11 and later
	"char8_t", "char16_t", "char32_t", "concept",
	"consteval", "constexpr", "constinit", "co_await", "co_return",
	"co_yield", "decltype", "final", "noexcept", "nullptr", "override",
	"requires", "static_assert", "thread_local",
)

var cppBuiltinTypes = NewSet(
	"int8_t", "int16_t", "int32_t", "int64_t",
	"uint8_t", "uint16_t", "uint32_t", "uint64_t",
	"size_t", "ptrdiff_t", "intptr_t", "uintptr_t",
	"string", "wstring", "string_view",
	"vector", "array", "list", "deque", "forward_list",
	"set", "map", "multiset", "multimap",
	"unordered_set", "unordered_map", "unordered_multiset", "unordered_multimap",
	"stack", "queue", "priority_queue",
	"pair", "tuple", "optional", "variant", "any",
	"unique_ptr", "shared_ptr", "weak_ptr",
	"function", "bind", "reference_wrapper",
	"thread", "mutex", "condition_variable", "future", "promise",
	"atomic", "atomic_flag",
)

// NewSet builds a string membership set.
func NewSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Normalize tokenizes C/C++ source. Dispatch order matters: preprocessor
// before comments, strings before identifiers (prefix forms), numbers
// before operators (".5" is a number, "." is punctuation).
func (n *CppNormalizer) Normalize(source string) *TokenizedFile {
	cur := newCursor(source)
	out := &TokenizedFile{Tokens: []Token{}}
	var tally lineTally

	for !cur.eof() {
		tally.observe(cur.line)

		if skipCppWhitespace(cur) {
			continue
		}
		if processCppPreprocessor(cur, &tally) {
			continue
		}
		if processCppComment(cur, &tally) {
			continue
		}
		if processCppStringLiteral(cur, out, &tally) {
			continue
		}
		if processCppNumber(cur, out, &tally) {
			continue
		}
		if processCppIdentifier(cur, out, &tally) {
			continue
		}
		if processCppOperator(cur, out, &tally) {
			continue
		}

		// Unmatched byte: skip, tokenizers tolerate partial input
		cur.advance()
	}

	tally.finish()

	out.TotalLines = cur.totalLines()
	out.CodeLines = tally.codeLines
	out.BlankLines = tally.blankLines
	out.CommentLines = tally.commentLines

	return out
}

func skipCppWhitespace(cur *cursor) bool {
	switch cur.peek() {
	case ' ', '\t', '\r', '\n':
		cur.advance()
		return true
	}
	return false
}

// processCppPreprocessor consumes a full preprocessor logical line,
// including backslash-newline continuations. The line counts as code but
// emits no tokens.
func processCppPreprocessor(cur *cursor, tally *lineTally) bool {
	if cur.peek() != '#' || !cur.atLineStart {
		return false
	}
	cur.advance() // '#'
	for !cur.eof() {
		ch := cur.peek()
		if ch == '\n' {
			// Leave the newline for the main loop
			break
		}
		if ch == '\\' {
			cur.advance()
			if !cur.eof() && cur.peek() == '\n' {
				cur.advance() // continuation: keep consuming the next line
			}
			continue
		}
		cur.advance()
	}
	tally.hasCode = true
	return true
}

func processCppComment(cur *cursor, tally *lineTally) bool {
	if cur.peek() != '/' {
		return false
	}
	switch cur.peekNext() {
	case '/':
		tally.hasComment = true
		for !cur.eof() && cur.peek() != '\n' {
			cur.advance()
		}
		return true
	case '*':
		tally.hasComment = true
		cur.advance()
		cur.advance()
		for !cur.eof() {
			if cur.peek() == '*' && cur.peekNext() == '/' {
				cur.advance()
				cur.advance()
				break
			}
			cur.advance()
		}
		return true
	}
	return false
}

func processCppStringLiteral(cur *cursor, out *TokenizedFile, tally *lineTally) bool {
	ch := cur.peek()

	// Raw string literal: R"delim(...)delim"
	if ch == 'R' && cur.peekNext() == '"' {
		tally.hasCode = true
		out.Tokens = append(out.Tokens, parseCppRawString(cur))
		return true
	}

	// Regular strings, including L/u/U/u8 prefixes
	if ch == '"' ||
		((ch == 'L' || ch == 'u' || ch == 'U') && cur.peekNext() == '"') ||
		(ch == 'u' && cur.peekNext() == '8' && cur.peekAt(2) == '"') {
		tally.hasCode = true
		out.Tokens = append(out.Tokens, parseCppString(cur, '"'))
		return true
	}

	// Char literals, same prefixes
	if ch == '\'' ||
		((ch == 'L' || ch == 'u' || ch == 'U') && cur.peekNext() == '\'') ||
		(ch == 'u' && cur.peekNext() == '8' && cur.peekAt(2) == '\'') {
		tally.hasCode = true
		out.Tokens = append(out.Tokens, parseCppString(cur, '\''))
		return true
	}

	return false
}

// parseCppString parses a quoted string or char literal terminated by
// quote. Char literals are classified as string literals.
func parseCppString(cur *cursor, quote byte) Token {
	tok := Token{Kind: KindString, Line: cur.line, Column: cur.col}
	start := cur.pos

	// Skip prefix (L, U, u, u8)
	switch cur.peek() {
	case 'L', 'U':
		cur.advance()
	case 'u':
		cur.advance()
		if cur.peek() == '8' {
			cur.advance()
		}
	}

	cur.advance() // opening quote

	var value []byte
	for !cur.eof() {
		ch := cur.peek()

		if ch == quote {
			cur.advance()
			break
		}
		if ch == '\n' {
			// Unterminated literal
			break
		}
		if ch == '\\' {
			cur.advance()
			if !cur.eof() {
				if quote == '\'' {
					value = append(value, cur.peek())
				}
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

func parseCppRawString(cur *cursor) Token {
	tok := Token{Kind: KindString, Line: cur.line, Column: cur.col}
	start := cur.pos

	cur.advance() // R
	cur.advance() // "

	var delim []byte
	for !cur.eof() && cur.peek() != '(' {
		delim = append(delim, cur.advance())
	}
	if !cur.eof() {
		cur.advance() // (
	}

	end := ")" + string(delim) + `"`

	var value []byte
	for !cur.eof() {
		matched := true
		for i := 0; i < len(end); i++ {
			if cur.peekAt(i) != end[i] {
				matched = false
				break
			}
		}
		if matched {
			for range end {
				cur.advance()
			}
			break
		}
		value = append(value, cur.advance())
	}

	tok.Length = cur.pos - start
	tok.OriginalHash = HashLexeme(string(value))
	tok.NormalizedHash = PlaceholderHash(KindString)
	return tok
}

func processCppNumber(cur *cursor, out *TokenizedFile, tally *lineTally) bool {
	ch := cur.peek()
	if !isDigit(ch) && !(ch == '.' && isDigit(cur.peekNext())) {
		return false
	}
	tally.hasCode = true
	out.Tokens = append(out.Tokens, parseCppNumber(cur))
	return true
}

// parseCppNumber parses decimal, hex, binary and octal literals with C++14
// digit separators ('), fraction, exponent and type suffixes. Separators
// and suffixes are consumed but excluded from the hashed value.
func parseCppNumber(cur *cursor) Token {
	tok := Token{Kind: KindNumber, Line: cur.line, Column: cur.col}
	start := cur.pos

	var value []byte

	if cur.peek() == '0' {
		switch next := cur.peekNext(); {
		case next == 'x' || next == 'X':
			value = append(value, cur.advance(), cur.advance())
			value = consumeDigits(cur, value, isHexDigit, '\'')
		case next == 'b' || next == 'B':
			value = append(value, cur.advance(), cur.advance())
			value = consumeDigits(cur, value, isBinaryDigit, '\'')
		case next >= '0' && next <= '7':
			value = append(value, cur.advance())
			value = consumeDigits(cur, value, isOctalDigit, '\'')
		default:
			// Plain leading zero: 0, 0.5, 0e1
			value = append(value, cur.advance())
		}
	}

	if len(value) == 0 {
		value = consumeDigits(cur, value, isDigit, '\'')
	}

	// Fraction
	if cur.peek() == '.' {
		if next := cur.peekNext(); isDigit(next) || next == 'e' || next == 'E' {
			value = append(value, cur.advance())
			value = consumeDigits(cur, value, isDigit, '\'')
		}
	}

	// Exponent
	if ch := cur.peek(); ch == 'e' || ch == 'E' {
		value = append(value, cur.advance())
		if ch := cur.peek(); ch == '+' || ch == '-' {
			value = append(value, cur.advance())
		}
		value = consumeDigits(cur, value, isDigit, '\'')
	}

	// Type suffixes (u, l, ll, ull, f), consumed but not hashed
	for !cur.eof() {
		switch cur.peek() {
		case 'u', 'U', 'l', 'L', 'f', 'F':
			cur.advance()
		default:
			tok.Length = cur.pos - start
			tok.OriginalHash = HashLexeme(string(value))
			tok.NormalizedHash = PlaceholderHash(KindNumber)
			return tok
		}
	}

	tok.Length = cur.pos - start
	tok.OriginalHash = HashLexeme(string(value))
	tok.NormalizedHash = PlaceholderHash(KindNumber)
	return tok
}

// consumeDigits appends digits accepted by ok to value, silently dropping
// the separator byte.
func consumeDigits(cur *cursor, value []byte, ok func(byte) bool, separator byte) []byte {
	for !cur.eof() {
		ch := cur.peek()
		switch {
		case ok(ch):
			value = append(value, ch)
			cur.advance()
		case ch == separator:
			cur.advance()
		default:
			return value
		}
	}
	return value
}

func processCppIdentifier(cur *cursor, out *TokenizedFile, tally *lineTally) bool {
	if !isIdentifierStart(cur.peek()) {
		return false
	}
	tally.hasCode = true

	tok := Token{Line: cur.line, Column: cur.col}
	start := cur.pos
	for !cur.eof() && isIdentifierChar(cur.peek()) {
		cur.advance()
	}
	lexeme := cur.src[start:cur.pos]

	tok.Length = cur.pos - start
	tok.OriginalHash = HashLexeme(lexeme)

	switch {
	case contains(cppKeywords, lexeme):
		tok.Kind = KindKeyword
		tok.NormalizedHash = tok.OriginalHash
	case contains(cppBuiltinTypes, lexeme):
		tok.Kind = KindType
		tok.NormalizedHash = PlaceholderHash(KindType)
	default:
		tok.Kind = KindIdentifier
		tok.NormalizedHash = PlaceholderHash(KindIdentifier)
	}

	out.Tokens = append(out.Tokens, tok)
	return true
}

func contains(set map[string]struct{}, s string) bool {
	_, ok := set[s]
	return ok
}

var cppFourCharOperators = []string{">>>="}

var cppThreeCharOperators = []string{
	"<<=", ">>=", "<=>", "->*", "...",
}

var cppTwoCharOperators = []string{
	"==", "!=", "<=", ">=",
	"+=", "-=", "*=", "/=",
	"%=", "&=", "|=", "^=",
	"++", "--", "&&", "||",
	"<<", ">>", "->", "::",
	".*", "##",
}

func processCppOperator(cur *cursor, out *TokenizedFile, tally *lineTally) bool {
	if !isCppOperatorChar(cur.peek()) {
		return false
	}
	tally.hasCode = true

	tok := Token{Line: cur.line, Column: cur.col}
	start := cur.pos

	// Longest match first
	lexeme := matchOperator(cur, cppFourCharOperators)
	if lexeme == "" {
		lexeme = matchOperator(cur, cppThreeCharOperators)
	}
	if lexeme == "" {
		lexeme = matchOperator(cur, cppTwoCharOperators)
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

	out.Tokens = append(out.Tokens, tok)
	return true
}

// matchOperator consumes and returns the first candidate that matches at
// the cursor, or "" when none does. All candidates share one length.
func matchOperator(cur *cursor, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	size := len(candidates[0])
	if cur.pos+size > len(cur.src) {
		return ""
	}
	probe := cur.src[cur.pos : cur.pos+size]
	for _, candidate := range candidates {
		if probe == candidate {
			for i := 0; i < size; i++ {
				cur.advance()
			}
			return candidate
		}
	}
	return ""
}

func isIdentifierStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentifierChar(ch byte) bool {
	return isIdentifierStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isBinaryDigit(ch byte) bool {
	return ch == '0' || ch == '1'
}

func isOctalDigit(ch byte) bool {
	return ch >= '0' && ch <= '7'
}

func isCppOperatorChar(ch byte) bool {
	switch ch {
	case '+', '-', '*', '/', '%', '=', '<', '>', '!', '&',
		'|', '^', '~', '?', ':', '(', ')', '[', ']', '{',
		'}', ',', ';', '.', '#':
		return true
	}
	return false
}
