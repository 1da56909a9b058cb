// Package match scans classified text for known brand keywords.
package match

import (
	"strings"

	"github.com/nhle/brandwatch/internal/model"
)

// Matcher finds brand mentions in text. Matching is case-insensitive
// substring containment, not word-boundary matching: a brand embedded in a
// longer word still counts. When several brands appear, the first entry in
// vocabulary order wins.
type Matcher struct {
	vocabulary model.Vocabulary
}

// New creates a Matcher over the given vocabulary. Entries are normalized
// to lowercase; order is preserved as match priority.
func New(vocabulary model.Vocabulary) *Matcher {
	return &Matcher{vocabulary: model.NewVocabulary(vocabulary)}
}

// FirstMatch returns the first vocabulary entry contained in text, scanning
// the vocabulary in declared order. ok is false when no brand is present or
// the text is empty.
func (m *Matcher) FirstMatch(text string) (brand string, ok bool) {
	if text == "" {
		return "", false
	}

	lower := strings.ToLower(text)
	for _, b := range m.vocabulary {
		if strings.Contains(lower, b) {
			return b, true
		}
	}
	return "", false
}
