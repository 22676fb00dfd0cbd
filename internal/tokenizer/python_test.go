package tokenizer

import (
	"reflect"
	"testing"
)

func TestPythonIndentDedent(t *testing.T) {
	n := NewPythonNormalizer()
	source := "def f():\n" +
		"    if x:\n" +
		"        return 1\n" +
		"    return 2\n"
	result := n.Normalize(source)

	indents, dedents := 0, 0
	for _, tok := range result.Tokens {
		switch tok.Kind {
		case KindIndent:
			indents++
		case KindDedent:
			dedents++
		}
	}
	if indents != 2 {
		t.Errorf("indent tokens = %d, want 2", indents)
	}
	if dedents != indents {
		t.Errorf("dedent tokens = %d, want %d (balanced at EOF)", dedents, indents)
	}

	if result.TotalLines != 4 || result.CodeLines != 4 {
		t.Errorf("lines = total %d code %d, want 4/4",
			result.TotalLines, result.CodeLines)
	}
}

func TestPythonMultiLevelDedent(t *testing.T) {
	n := NewPythonNormalizer()
	source := "def f():\n" +
		"    if x:\n" +
		"        y = 1\n" +
		"z = 2\n"
	result := n.Normalize(source)

	// Returning from depth 8 to 0 pops two stack levels at once
	run := 0
	best := 0
	for _, tok := range result.Tokens {
		if tok.Kind == KindDedent {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	if best != 2 {
		t.Errorf("longest dedent run = %d, want 2", best)
	}
}

func TestPythonTabIndentation(t *testing.T) {
	n := NewPythonNormalizer()
	result := n.Normalize("if x:\n\ty = 1\n")

	for _, tok := range result.Tokens {
		if tok.Kind == KindIndent {
			if tok.Length != 8 {
				t.Errorf("tab indent width = %d, want 8", tok.Length)
			}
			return
		}
	}
	t.Fatal("no indent token produced")
}

func TestPythonBlankLinesDoNotDedent(t *testing.T) {
	n := NewPythonNormalizer()
	source := "def f():\n" +
		"    a = 1\n" +
		"\n" +
		"    b = 2\n"
	result := n.Normalize(source)

	for i, tok := range result.Tokens {
		if tok.Kind == KindDedent && i != len(result.Tokens)-1 {
			t.Fatal("blank line inside a block must not emit a dedent")
		}
	}
}

func TestPythonNewlineDedup(t *testing.T) {
	n := NewPythonNormalizer()
	result := n.Normalize("x = 1\n\n\ny = 2\n")

	for i := 1; i < len(result.Tokens); i++ {
		if result.Tokens[i].Kind == KindNewline && result.Tokens[i-1].Kind == KindNewline {
			t.Fatal("consecutive newline tokens must collapse")
		}
	}
	if result.Tokens[0].Kind == KindNewline {
		t.Fatal("stream must not begin with a newline token")
	}
	if result.BlankLines != 2 {
		t.Errorf("BlankLines = %d, want 2", result.BlankLines)
	}
}

func TestPythonDocstrings(t *testing.T) {
	n := NewPythonNormalizer()

	t.Run("module docstring skipped", func(t *testing.T) {
		result := n.Normalize("\"\"\"module doc\"\"\"\nx = 1\n")
		for _, tok := range result.Tokens {
			if tok.Kind == KindString {
				t.Fatal("module docstring must not produce a token")
			}
		}
		if result.CommentLines != 1 || result.CodeLines != 1 {
			t.Errorf("comment %d code %d, want 1/1",
				result.CommentLines, result.CodeLines)
		}
	})

	t.Run("function docstring skipped", func(t *testing.T) {
		source := "def f():\n" +
			"    \"\"\"doc\"\"\"\n" +
			"    return 1\n"
		result := n.Normalize(source)
		for _, tok := range result.Tokens {
			if tok.Kind == KindString {
				t.Fatal("function docstring must not produce a token")
			}
		}
	})

	t.Run("triple-quoted value is a string", func(t *testing.T) {
		result := n.Normalize("x = \"\"\"not a docstring\"\"\"\n")
		found := false
		for _, tok := range result.Tokens {
			if tok.Kind == KindString {
				found = true
			}
		}
		if !found {
			t.Fatal("assigned triple-quoted literal must tokenize as a string")
		}
	})
}

func TestPythonImportsSkipped(t *testing.T) {
	n := NewPythonNormalizer()

	t.Run("simple import", func(t *testing.T) {
		result := n.Normalize("import os\nx = 1\n")
		want := []Kind{KindIdentifier, KindOperator, KindNumber, KindNewline}
		if got := kindsOf(result.Tokens); !reflect.DeepEqual(got, want) {
			t.Fatalf("kinds = %v, want %v", got, want)
		}
		if result.CodeLines != 2 {
			t.Errorf("CodeLines = %d, want 2 (import counts as code)", result.CodeLines)
		}
	})

	t.Run("parenthesized from import", func(t *testing.T) {
		source := "from foo import (a,\n" +
			"                 b)\n" +
			"x = 1\n"
		result := n.Normalize(source)
		for _, tok := range result.Tokens {
			if tok.OriginalHash == HashLexeme("foo") {
				t.Fatal("import body must not produce tokens")
			}
		}
	})

	t.Run("importlib is not an import statement", func(t *testing.T) {
		result := n.Normalize("importer = 1\n")
		if len(result.Tokens) == 0 || result.Tokens[0].Kind != KindIdentifier {
			t.Fatal("identifiers starting with import must tokenize normally")
		}
	})
}

func TestPythonRenameInvariance(t *testing.T) {
	n := NewPythonNormalizer()
	a := n.Normalize("def add(a, b):\n    return a + b\n")
	b := n.Normalize("def sum(x, y):\n    return x + y\n")

	if !reflect.DeepEqual(normalizedHashes(a.Tokens), normalizedHashes(b.Tokens)) {
		t.Error("renamed functions should normalize to identical hash sequences")
	}
}

func TestPythonStringPrefixes(t *testing.T) {
	n := NewPythonNormalizer()

	tests := []struct {
		name   string
		source string
	}{
		{"f-string", `s = f"hi {name}"`},
		{"raw", `s = r"a\d+"`},
		{"bytes", `s = b"data"`},
		{"double prefix", `s = rf"x{y}"`},
		{"single quotes", `s = 'abc'`},
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
			if str.NormalizedHash != PlaceholderHash(KindString) {
				t.Error("string must normalize to the string placeholder")
			}
		})
	}
}

func TestPythonNumberLiterals(t *testing.T) {
	n := NewPythonNormalizer()

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

	t.Run("underscores stripped", func(t *testing.T) {
		a := number("n = 1_000_000")
		b := number("n = 1000000")
		if a.OriginalHash != b.OriginalHash {
			t.Error("underscore spelling must hash identically")
		}
	})

	t.Run("complex suffix kept", func(t *testing.T) {
		a := number("z = 3j")
		b := number("z = 3")
		if a.OriginalHash == b.OriginalHash {
			t.Error("3j and 3 must hash differently")
		}
	})

	t.Run("hex and octal", func(t *testing.T) {
		if number("n = 0xFF").OriginalHash != HashLexeme("0xFF") {
			t.Error("hex literal hash mismatch")
		}
		if number("n = 0o755").OriginalHash != HashLexeme("0o755") {
			t.Error("octal literal hash mismatch")
		}
	})

	t.Run("float exponent", func(t *testing.T) {
		if number("n = 2.5e-3").OriginalHash != HashLexeme("2.5e-3") {
			t.Error("exponent literal hash mismatch")
		}
	})
}

func TestPythonBuiltinTypesNormalized(t *testing.T) {
	n := NewPythonNormalizer()
	a := n.Normalize("x: int = 0\n")
	b := n.Normalize("x: str = 0\n")

	if !reflect.DeepEqual(normalizedHashes(a.Tokens), normalizedHashes(b.Tokens)) {
		t.Error("builtin type annotations must share the type placeholder")
	}
}

func TestPythonOperatorsLongestMatch(t *testing.T) {
	n := NewPythonNormalizer()

	tests := []struct {
		source string
		op     string
	}{
		{"a //= b", "//="},
		{"a ** b", "**"},
		{"a // b", "//"},
		{"def f() -> int: pass", "->"},
		{"a @= b", "@="},
	}
	for _, tt := range tests {
		result := n.Normalize(tt.source)
		found := false
		for _, tok := range result.Tokens {
			if tok.Kind == KindOperator && tok.OriginalHash == HashLexeme(tt.op) {
				found = true
			}
		}
		if !found {
			t.Errorf("%q: operator %q not matched", tt.source, tt.op)
		}
	}
}

func TestPythonCommentLines(t *testing.T) {
	n := NewPythonNormalizer()
	source := "# leading comment\n" +
		"x = 1  # trailing\n" +
		"\n"
	result := n.Normalize(source)

	if result.TotalLines != 3 {
		t.Errorf("TotalLines = %d, want 3", result.TotalLines)
	}
	if result.CommentLines != 1 || result.CodeLines != 1 || result.BlankLines != 1 {
		t.Errorf("comment %d code %d blank %d, want 1/1/1",
			result.CommentLines, result.CodeLines, result.BlankLines)
	}
}

func TestPythonEmptySource(t *testing.T) {
	n := NewPythonNormalizer()
	result := n.Normalize("")
	if result.TotalLines != 0 || len(result.Tokens) != 0 {
		t.Errorf("empty source: total %d tokens %d, want 0/0",
			result.TotalLines, len(result.Tokens))
	}
}

func TestPythonDeterministic(t *testing.T) {
	n := NewPythonNormalizer()
	source := "def f(n):\n    if n > 0 and n < 10:\n        return n * 2\n    return 0\n"
	a := n.Normalize(source)
	b := n.Normalize(source)
	if !reflect.DeepEqual(a, b) {
		t.Error("repeated runs must produce identical results")
	}
}
