package match

import (
	"testing"

	"github.com/nhle/brandwatch/internal/model"
)

func TestFirstMatchCaseInsensitive(t *testing.T) {
	m := New(model.Vocabulary{"apple", "nike"})

	brand, ok := m.FirstMatch("get a fake Apple charger")
	if !ok {
		t.Fatal("expected a match")
	}
	if brand != "apple" {
		t.Errorf("brand = %q, want %q", brand, "apple")
	}
}

func TestFirstMatchVocabularyOrderWins(t *testing.T) {
	m := New(model.Vocabulary{"apple", "nike"})

	// Both brands present; the first-listed entry must win even though
	// "nike" appears earlier in the text.
	brand, ok := m.FirstMatch("Nike store selling apple watches")
	if !ok {
		t.Fatal("expected a match")
	}
	if brand != "apple" {
		t.Errorf("brand = %q, want %q", brand, "apple")
	}
}

func TestFirstMatchSubstringNotWordBoundary(t *testing.T) {
	m := New(model.Vocabulary{"nike"})

	// Embedded occurrences count; this is deliberate recall-over-precision.
	brand, ok := m.FirstMatch("he niked past the finish line")
	if !ok {
		t.Fatal("expected embedded substring to match")
	}
	if brand != "nike" {
		t.Errorf("brand = %q, want %q", brand, "nike")
	}
}

func TestFirstMatchNoHit(t *testing.T) {
	m := New(model.Vocabulary{"apple", "nike"})

	if brand, ok := m.FirstMatch("hello there"); ok {
		t.Errorf("unexpected match %q", brand)
	}
	if _, ok := m.FirstMatch(""); ok {
		t.Error("empty text must not match")
	}
}

func TestNewNormalizesVocabulary(t *testing.T) {
	m := New(model.Vocabulary{" Apple ", "", "NIKE"})

	if brand, _ := m.FirstMatch("apple pie"); brand != "apple" {
		t.Errorf("brand = %q, want %q", brand, "apple")
	}
	if brand, _ := m.FirstMatch("nike air"); brand != "nike" {
		t.Errorf("brand = %q, want %q", brand, "nike")
	}
}
