// Package tokenizer converts raw source text into normalized token streams
// for clone detection.
//
// Normalization replaces identifier and literal hashes with fixed
// placeholders so renamed-but-structurally-identical code compares equal,
// while keywords, operators and punctuation keep exact hashes to preserve
// control-flow shape.
package tokenizer

import (
	"github.com/cespare/xxhash/v2"
)

// Kind classifies a normalized token.
type Kind uint8

const (
	KindIdentifier Kind = iota
	KindKeyword
	KindType
	KindString
	KindNumber
	KindOperator
	KindPunctuation
	KindNewline
	KindIndent
	KindDedent
)

var kindNames = [...]string{
	KindIdentifier:  "identifier",
	KindKeyword:     "keyword",
	KindType:        "type",
	KindString:      "string_literal",
	KindNumber:      "number_literal",
	KindOperator:    "operator",
	KindPunctuation: "punctuation",
	KindNewline:     "newline",
	KindIndent:      "indent",
	KindDedent:      "dedent",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText renders the kind name for JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Token is one normalized lexeme.
//
// OriginalHash is the hash of the raw lexeme; NormalizedHash either equals
// OriginalHash (kinds that must match exactly) or the kind's placeholder
// hash (kinds subject to renaming).
type Token struct {
	Kind           Kind   `json:"kind"`
	OriginalHash   uint64 `json:"original_hash"`
	NormalizedHash uint64 `json:"normalized_hash"`
	Line           int    `json:"line"`
	Column         int    `json:"column"`
	Length         int    `json:"length"`
}

// TokenizedFile is the result of normalizing one source file.
type TokenizedFile struct {
	Path   string  `json:"path"`
	Tokens []Token `json:"tokens"`

	TotalLines   int `json:"total_lines"`
	CodeLines    int `json:"code_lines"`
	BlankLines   int `json:"blank_lines"`
	CommentLines int `json:"comment_lines"`
}

// HashLexeme hashes a raw lexeme.
func HashLexeme(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Placeholder markers per normalized kind. Hashing fixed strings (rather
// than using small constants) keeps placeholder values out of the range a
// real lexeme could legitimately hash to.
var (
	placeholderIdentifier = HashLexeme("$ID")
	placeholderType       = HashLexeme("$TYPE")
	placeholderString     = HashLexeme("$STR")
	placeholderNumber     = HashLexeme("$NUM")
)

// PlaceholderHash returns the fixed placeholder for kinds that are
// normalized, and 0 for kinds that keep their original hash.
func PlaceholderHash(kind Kind) uint64 {
	switch kind {
	case KindIdentifier:
		return placeholderIdentifier
	case KindType:
		return placeholderType
	case KindString:
		return placeholderString
	case KindNumber:
		return placeholderNumber
	default:
		return 0
	}
}

// Structural marker hashes. INDENT/DEDENT/NEWLINE tokens have no lexeme;
// they hash fixed markers and are never normalized away.
var (
	hashIndent  = HashLexeme("INDENT")
	hashDedent  = HashLexeme("DEDENT")
	hashNewline = HashLexeme("\n")
)

// punctuation is the closed set of strings classified as punctuation
// rather than operators. Both classes keep their original hash.
var punctuation = map[string]struct{}{
	"(": {}, ")": {}, "[": {}, "]": {},
	"{": {}, "}": {}, ",": {}, ":": {},
	";": {}, ".": {},
}

// isPunctuation reports whether op belongs to the fixed punctuation set.
func isPunctuation(op string) bool {
	_, ok := punctuation[op]
	return ok
}
