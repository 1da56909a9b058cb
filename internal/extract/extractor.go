// Package extract turns inbound events into ordered classification
// candidates.
package extract

import (
	"context"

	"github.com/nhle/brandwatch/internal/model"
)

// Candidate is a (kind, text) pair eligible for brand matching.
type Candidate struct {
	Kind model.AlertKind
	Text string
}

// Recognizer resolves image media into text; absence is the empty string.
type Recognizer interface {
	Text(ctx context.Context, ref model.MediaRef) string
}

// Extractor produces classification candidates from an event. The text
// candidate, when present, always precedes the image candidate, and
// recognition cost is only incurred for events that actually carry media.
type Extractor struct {
	recognizer Recognizer
}

// New creates an Extractor. recognizer may be nil, in which case image
// media is never classified.
func New(recognizer Recognizer) *Extractor {
	return &Extractor{recognizer: recognizer}
}

// Candidates returns the event's classification candidates in evaluation
// order. Candidates whose text is empty (no message text, recognition
// failure, or image without text) are omitted rather than passed on as
// empty match attempts.
func (e *Extractor) Candidates(ctx context.Context, ev model.InboundEvent) []Candidate {
	var candidates []Candidate

	if ev.Text != "" {
		candidates = append(candidates, Candidate{
			Kind: model.AlertKindText,
			Text: ev.Text,
		})
	}

	if ev.HasMedia() && e.recognizer != nil {
		if text := e.recognizer.Text(ctx, *ev.Media); text != "" {
			candidates = append(candidates, Candidate{
				Kind: model.AlertKindImage,
				Text: text,
			})
		}
	}

	return candidates
}
