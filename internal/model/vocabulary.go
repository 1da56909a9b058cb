package model

import "strings"

// Vocabulary is an ordered list of lowercase brand keywords. The order is
// significant: when multiple brands appear in the same text, the first
// listed entry wins.
type Vocabulary []string

// DefaultVocabulary returns the built-in brand list.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		"apple", "samsung", "nike", "adidas", "paypal", "amazon",
		"netflix", "visa", "mastercard", "microsoft", "google", "facebook",
	}
}

// NewVocabulary builds a vocabulary from raw entries, lowercasing each and
// dropping blanks while preserving order.
func NewVocabulary(entries []string) Vocabulary {
	v := make(Vocabulary, 0, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		v = append(v, e)
	}
	return v
}
