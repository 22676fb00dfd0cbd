package tokenizer

import (
	"reflect"
	"testing"
)

func kindsOf(tokens []Token) []Kind {
	kinds := make([]Kind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	return kinds
}

func normalizedHashes(tokens []Token) []uint64 {
	hashes := make([]uint64, len(tokens))
	for i, tok := range tokens {
		hashes[i] = tok.NormalizedHash
	}
	return hashes
}

func TestCppBasicTokens(t *testing.T) {
	n := NewCppNormalizer()
	result := n.Normalize("int main() { return 0; }\n")

	want := []Kind{
		KindKeyword,     // int
		KindIdentifier,  // main
		KindPunctuation, // (
		KindPunctuation, // )
		KindPunctuation, // {
		KindKeyword,     // return
		KindNumber,      // 0
		KindPunctuation, // ;
		KindPunctuation, // }
	}
	if got := kindsOf(result.Tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}

	if result.TotalLines != 1 || result.CodeLines != 1 {
		t.Errorf("lines = total %d code %d, want 1/1",
			result.TotalLines, result.CodeLines)
	}
}

func TestCppRenameInvariance(t *testing.T) {
	n := NewCppNormalizer()
	a := n.Normalize("int add(int a, int b) { return a + b; }\n")
	b := n.Normalize("int sum(int x, int y) { return x + y; }\n")

	if !reflect.DeepEqual(normalizedHashes(a.Tokens), normalizedHashes(b.Tokens)) {
		t.Error("renamed identifiers should normalize to identical hash sequences")
	}

	distinct := false
	for i := range a.Tokens {
		if a.Tokens[i].OriginalHash != b.Tokens[i].OriginalHash {
			distinct = true
			break
		}
	}
	if !distinct {
		t.Error("original hashes should differ for renamed identifiers")
	}
}

func TestCppKeywordsNotNormalized(t *testing.T) {
	n := NewCppNormalizer()
	a := n.Normalize("for (;;) {}\n")
	b := n.Normalize("while (true) {}\n")

	if a.Tokens[0].NormalizedHash == b.Tokens[0].NormalizedHash {
		t.Error("distinct keywords must keep distinct normalized hashes")
	}
	if a.Tokens[0].NormalizedHash != a.Tokens[0].OriginalHash {
		t.Error("keyword normalized hash must equal its original hash")
	}
}

func TestCppLineClassification(t *testing.T) {
	n := NewCppNormalizer()
	source := "// header\n" +
		"\n" +
		"int x = 1; // trailing\n" +
		"/* block\n" +
		"   spans */\n"
	result := n.Normalize(source)

	if result.TotalLines != 5 {
		t.Errorf("TotalLines = %d, want 5", result.TotalLines)
	}
	if result.CodeLines != 1 {
		t.Errorf("CodeLines = %d, want 1", result.CodeLines)
	}
	// A block comment is consumed in one step, so only its first line
	// classifies as comment; the continuation line reads blank.
	if result.CommentLines != 2 {
		t.Errorf("CommentLines = %d, want 2", result.CommentLines)
	}
	if result.BlankLines != 2 {
		t.Errorf("BlankLines = %d, want 2", result.BlankLines)
	}
}

func TestCppPreprocessorSkipped(t *testing.T) {
	n := NewCppNormalizer()

	t.Run("include emits no tokens", func(t *testing.T) {
		result := n.Normalize("#include <vector>\nint x;\n")
		want := []Kind{KindKeyword, KindIdentifier, KindPunctuation}
		if got := kindsOf(result.Tokens); !reflect.DeepEqual(got, want) {
			t.Fatalf("kinds = %v, want %v", got, want)
		}
		if result.CodeLines != 2 {
			t.Errorf("CodeLines = %d, want 2 (directive counts as code)", result.CodeLines)
		}
	})

	t.Run("continuation spans lines", func(t *testing.T) {
		result := n.Normalize("#define MAX(a, b) \\\n  ((a) > (b) ? (a) : (b))\nint y;\n")
		want := []Kind{KindKeyword, KindIdentifier, KindPunctuation}
		if got := kindsOf(result.Tokens); !reflect.DeepEqual(got, want) {
			t.Fatalf("kinds = %v, want %v", got, want)
		}
	})

	t.Run("mid-line hash is not a directive", func(t *testing.T) {
		result := n.Normalize("int a; #\n")
		last := result.Tokens[len(result.Tokens)-1]
		if last.OriginalHash != HashLexeme("#") {
			t.Error("a # past line start should tokenize as an operator")
		}
	})
}

func TestCppStringLiterals(t *testing.T) {
	n := NewCppNormalizer()

	tests := []struct {
		name   string
		source string
		value  string
	}{
		{"plain", `auto s = "hello";`, "hello"},
		{"escape excluded", `auto s = "a\nb";`, "ab"},
		{"wide prefix", `auto s = L"wide";`, "wide"},
		{"u8 prefix", `auto s = u8"text";`, "text"},
		{"raw", `auto s = R"(a"b)";`, `a"b`},
		{"raw with delimiter", `auto s = R"xy(close )" here)xy";`, `close )" here`},
		{"char literal", `char c = 'x';`, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := n.Normalize(tt.source)
			var str *Token
			for i := range result.Tokens {
				if result.Tokens[i].Kind == KindString {
					str = &result.Tokens[i]
					break
				}
			}
			if str == nil {
				t.Fatal("no string token produced")
			}
			if str.OriginalHash != HashLexeme(tt.value) {
				t.Errorf("original hash mismatch, want hash of %q", tt.value)
			}
			if str.NormalizedHash != PlaceholderHash(KindString) {
				t.Error("string literal must normalize to the string placeholder")
			}
		})
	}
}

func TestCppNumberLiterals(t *testing.T) {
	n := NewCppNormalizer()

	number := func(source string) Token {
		t.Helper()
		result := n.Normalize(source)
		for _, tok := range result.Tokens {
			if tok.Kind == KindNumber {
				return tok
			}
		}
		t.Fatalf("no number token in %q", source)
		return Token{}
	}

	t.Run("digit separators stripped", func(t *testing.T) {
		a := number("x = 1'000'000;")
		b := number("x = 1000000;")
		if a.OriginalHash != b.OriginalHash {
			t.Error("separator spelling must hash identically")
		}
	})

	t.Run("suffix excluded from hash", func(t *testing.T) {
		a := number("x = 3.14f;")
		if a.OriginalHash != HashLexeme("3.14") {
			t.Error("float suffix must not affect the hash")
		}
		if a.Length != 5 {
			t.Errorf("Length = %d, want 5 (suffix consumed)", a.Length)
		}
	})

	t.Run("hex", func(t *testing.T) {
		if number("x = 0xFF;").OriginalHash != HashLexeme("0xFF") {
			t.Error("hex literal hash mismatch")
		}
	})

	t.Run("binary", func(t *testing.T) {
		if number("x = 0b1010;").OriginalHash != HashLexeme("0b1010") {
			t.Error("binary literal hash mismatch")
		}
	})

	t.Run("exponent", func(t *testing.T) {
		if number("x = 1.5e-3;").OriginalHash != HashLexeme("1.5e-3") {
			t.Error("exponent literal hash mismatch")
		}
	})

	t.Run("leading dot", func(t *testing.T) {
		if number("x = .5;").OriginalHash != HashLexeme(".5") {
			t.Error("leading-dot literal hash mismatch")
		}
	})
}

func TestCppOperatorsLongestMatch(t *testing.T) {
	n := NewCppNormalizer()

	tests := []struct {
		source string
		ops    []string
	}{
		{"a <<= b;", []string{"<<=", ";"}},
		{"a <=> b;", []string{"<=>", ";"}},
		{"p->*q;", []string{"->*", ";"}},
		{"a && b || c;", []string{"&&", "||", ";"}},
		{"ns::x;", []string{"::", ";"}},
		{"a < b;", []string{"<", ";"}},
	}
	for _, tt := range tests {
		var got []string
		result := n.Normalize(tt.source)
		for _, tok := range result.Tokens {
			if tok.Kind == KindOperator || tok.Kind == KindPunctuation {
				got = append(got, "")
			}
		}
		if len(got) != len(tt.ops) {
			t.Errorf("%q: %d operator tokens, want %d", tt.source, len(got), len(tt.ops))
			continue
		}
		i := 0
		for _, tok := range result.Tokens {
			if tok.Kind != KindOperator && tok.Kind != KindPunctuation {
				continue
			}
			if tok.OriginalHash != HashLexeme(tt.ops[i]) {
				t.Errorf("%q: operator %d hash mismatch, want %q", tt.source, i, tt.ops[i])
			}
			i++
		}
	}
}

func TestCppBuiltinTypesNormalized(t *testing.T) {
	n := NewCppNormalizer()
	a := n.Normalize("vector<int> v;")
	b := n.Normalize("string<int> v;") // nonsense code, same shape

	if a.Tokens[0].Kind != KindType {
		t.Fatalf("vector kind = %v, want type", a.Tokens[0].Kind)
	}
	if a.Tokens[0].NormalizedHash != b.Tokens[0].NormalizedHash {
		t.Error("builtin types must share the type placeholder hash")
	}
}

func TestCppDeterministic(t *testing.T) {
	n := NewCppNormalizer()
	source := "int f(int n) {\n  if (n > 0 && n < 10) return n * 2;\n  return 0;\n}\n"
	a := n.Normalize(source)
	b := n.Normalize(source)
	if !reflect.DeepEqual(a, b) {
		t.Error("repeated runs must produce identical results")
	}
}

func TestCppEmptyAndWhitespaceOnly(t *testing.T) {
	n := NewCppNormalizer()

	empty := n.Normalize("")
	if empty.TotalLines != 0 || len(empty.Tokens) != 0 {
		t.Errorf("empty source: total %d tokens %d, want 0/0",
			empty.TotalLines, len(empty.Tokens))
	}

	blanks := n.Normalize("\n\n\n\n")
	if blanks.TotalLines != 4 || blanks.BlankLines != 4 {
		t.Errorf("blank source: total %d blank %d, want 4/4",
			blanks.TotalLines, blanks.BlankLines)
	}
}

func TestCppNoTrailingNewline(t *testing.T) {
	n := NewCppNormalizer()
	result := n.Normalize("int x = 1;")
	if result.TotalLines != 1 || result.CodeLines != 1 {
		t.Errorf("total %d code %d, want 1/1", result.TotalLines, result.CodeLines)
	}
}

func TestCppTokenPositions(t *testing.T) {
	n := NewCppNormalizer()
	result := n.Normalize("int x;\nint yy;\n")

	if len(result.Tokens) != 6 {
		t.Fatalf("token count = %d, want 6", len(result.Tokens))
	}
	second := result.Tokens[3] // int on line 2
	if second.Line != 2 || second.Column != 1 {
		t.Errorf("token position = %d:%d, want 2:1", second.Line, second.Column)
	}
	yy := result.Tokens[4]
	if yy.Column != 5 || yy.Length != 2 {
		t.Errorf("yy position = col %d len %d, want 5/2", yy.Column, yy.Length)
	}
}
