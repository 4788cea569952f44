package token

import (
	"slices"
	"testing"
)

func TestKeywordsContains(t *testing.T) {
	kw := NewKeywords("if", "fn", "fn", "")

	for _, w := range []string{"if", "fn"} {
		if !kw.Contains(w) {
			t.Fatalf("Contains(%q) = false, want true", w)
		}
	}
	// регистр важен; пустая строка не резервируется
	for _, w := range []string{"If", "FN", "ifx", "int", ""} {
		if kw.Contains(w) {
			t.Fatalf("Contains(%q) = true, want false", w)
		}
	}
	if kw.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", kw.Len())
	}
	if got := kw.Words(); !slices.Equal(got, []string{"fn", "if"}) {
		t.Fatalf("Words() = %v", got)
	}
}

func TestZeroKeywords(t *testing.T) {
	var kw Keywords
	if kw.Contains("if") || kw.Len() != 0 {
		t.Fatal("zero Keywords must be empty")
	}
}

func TestDefaultKeywords(t *testing.T) {
	kw := NewKeywords(DefaultKeywords...)
	for _, w := range []string{"fn", "type"} {
		if !kw.Contains(w) {
			t.Errorf("default table must reserve %q", w)
		}
	}
}
