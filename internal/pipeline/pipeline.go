// Package pipeline orchestrates classification of inbound events: persist
// the message, extract candidates, match brands, persist alerts.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/brandwatch/internal/extract"
	"github.com/nhle/brandwatch/internal/match"
	"github.com/nhle/brandwatch/internal/model"
	"github.com/nhle/brandwatch/internal/source"
	"github.com/nhle/brandwatch/internal/store"
)

// AlertMsg is published on the pipeline's alert channel whenever an alert
// is persisted, for live display.
type AlertMsg struct {
	Alert     model.Alert
	GroupName string
}

// defaultGrace bounds how long in-flight events may drain on shutdown.
const defaultGrace = 5 * time.Second

// Pipeline consumes a source's event stream and records messages and
// derived alerts. A classification failure for one event never terminates
// the dispatch loop nor affects other events; the only fatal condition is
// the store being unavailable at startup, which is the caller's concern.
type Pipeline struct {
	store     store.Store
	extractor *extract.Extractor
	matcher   *match.Matcher
	grace     time.Duration
	log       *log.Logger

	alertCh chan AlertMsg
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithGrace sets the shutdown drain bound.
func WithGrace(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.grace = d
		}
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) {
		p.log = logger
	}
}

// New creates a Pipeline over the given store, extractor, and matcher.
func New(s store.Store, e *extract.Extractor, m *match.Matcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:     s,
		extractor: e,
		matcher:   m,
		grace:     defaultGrace,
		log:       log.Default(),
		alertCh:   make(chan AlertMsg, 16),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Alerts returns the channel persisted alerts are announced on. Sends are
// non-blocking; a slow consumer loses announcements, never alerts.
func (p *Pipeline) Alerts() <-chan AlertMsg {
	return p.alertCh
}

// RecentAlerts exposes the store's recent-alert view to the CLI layer.
func (p *Pipeline) RecentAlerts(ctx context.Context, limit int) ([]model.RecentAlert, error) {
	return p.store.RecentAlerts(ctx, limit)
}

// Stats exposes the store's aggregate snapshot to the CLI layer.
func (p *Pipeline) Stats(ctx context.Context) (model.Stats, error) {
	return p.store.Stats(ctx)
}

// Run subscribes to src for the given groups and dispatches events until
// ctx is canceled or the source closes its stream. Each event is handled
// in its own goroutine so one event's recognition I/O does not delay the
// next, while the store serializes the actual writes. On shutdown,
// in-flight events are drained, bounded by the grace period, so no event
// is abandoned between its message write and its alert writes.
func (p *Pipeline) Run(ctx context.Context, src source.Source, groupIDs []int64) error {
	events, err := src.Events(ctx, groupIDs)
	if err != nil {
		return err
	}

	p.log.Info("monitoring started", "source", src.Type(), "groups", len(groupIDs))

	var wg sync.WaitGroup
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case ev, ok := <-events:
			if !ok {
				break loop
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				p.handleEvent(ev)
			}()
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(p.grace):
		p.log.Warn("shutdown grace period elapsed with events still in flight")
	}

	p.log.Info("monitoring stopped", "source", src.Type())
	return nil
}

// handleEvent runs one event through the persist → extract → match → alert
// sequence. Every failure past the message write is contained here.
//
// Classification may outlive the dispatch context: an event already
// received should finish draining even while shutdown is in progress, so
// the work runs under its own deadline rather than the loop's.
func (p *Pipeline) handleEvent(ev model.InboundEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	msgID, err := p.store.SaveMessage(ctx, model.Message{
		SourceMessageID: ev.SourceMessageID,
		GroupID:         ev.GroupID,
		GroupName:       ev.GroupName,
		SenderID:        ev.SenderID,
		Text:            ev.Text,
		HasMedia:        ev.HasMedia(),
	})
	if err != nil {
		// Without a message row there is nothing an alert could
		// reference; abandon the event.
		p.log.Error("message persist failed, abandoning event",
			"source_message_id", ev.SourceMessageID, "err", err)
		return
	}

	for _, c := range p.extractor.Candidates(ctx, ev) {
		brand, ok := p.matcher.FirstMatch(c.Text)
		if !ok {
			continue
		}

		alert := model.Alert{
			MessageRefID: msgID,
			GroupID:      ev.GroupID,
			Kind:         c.Kind,
			Brand:        brand,
			Content:      c.Text,
		}

		alertID, err := p.store.SaveAlert(ctx, alert)
		if err != nil {
			// The message row stays valid; only this alert is lost.
			p.log.Error("alert persist failed",
				"message_id", msgID, "brand", brand, "err", err)
			continue
		}
		alert.ID = alertID
		// The store owns the persisted timestamp; this one is for display.
		alert.CreatedAt = time.Now().UTC()

		p.log.Warn("brand detected",
			"brand", brand, "kind", c.Kind, "group", ev.GroupName)
		p.announce(AlertMsg{Alert: alert, GroupName: ev.GroupName})
	}
}

// announce publishes an alert without blocking the event handler.
func (p *Pipeline) announce(msg AlertMsg) {
	select {
	case p.alertCh <- msg:
	default:
		// Drop the announcement if no one is listening fast enough.
	}
}
