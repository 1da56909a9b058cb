package monitor

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/brandwatch/internal/extract"
	"github.com/nhle/brandwatch/internal/match"
	"github.com/nhle/brandwatch/internal/model"
	"github.com/nhle/brandwatch/internal/pipeline"
	"github.com/nhle/brandwatch/internal/source"
	"github.com/nhle/brandwatch/tests/testutil"
)

type stubSource struct{}

func (stubSource) Type() model.SourceType { return model.SourceTypeScripted }

func (stubSource) ListGroups(context.Context) ([]model.Group, error) { return nil, nil }

func (stubSource) Events(ctx context.Context, _ []int64) (<-chan model.InboundEvent, error) {
	ch := make(chan model.InboundEvent)
	close(ch)
	return ch, nil
}

func (stubSource) DownloadMedia(context.Context, model.MediaRef) ([]byte, error) {
	return nil, nil
}

func (stubSource) Close() error { return nil }

var _ source.Source = stubSource{}

func newTestModel(t *testing.T) Model {
	t.Helper()

	p := pipeline.New(testutil.NewTestStore(t), extract.New(nil), match.New(nil))
	m := New(p, stubSource{}, []int64{1})
	t.Cleanup(m.cancel)
	return m
}

func alertAt(brand, group string, at time.Time) alertMsg {
	return alertMsg{
		Alert: model.Alert{
			Kind:      model.AlertKindText,
			Brand:     brand,
			Content:   "content mentioning " + brand,
			CreatedAt: at,
		},
		GroupName: group,
	}
}

func TestAlertsRenderNewestFirst(t *testing.T) {
	m := newTestModel(t)
	now := time.Now()

	var tm tea.Model = m
	tm, _ = tm.Update(alertAt("nike", "Deals", now))
	tm, _ = tm.Update(alertAt("apple", "Deals", now.Add(time.Second)))
	m = tm.(Model)

	if m.seen != 2 {
		t.Fatalf("seen = %d, want 2", m.seen)
	}
	if m.alerts[0].Alert.Brand != "apple" || m.alerts[1].Alert.Brand != "nike" {
		t.Errorf("alerts not newest first: %v, %v", m.alerts[0].Alert.Brand, m.alerts[1].Alert.Brand)
	}

	view := m.View()
	if !strings.Contains(view, "apple") || !strings.Contains(view, "Deals") {
		t.Errorf("view missing alert content:\n%s", view)
	}
}

func TestAlertListBounded(t *testing.T) {
	m := newTestModel(t)

	var tm tea.Model = m
	for i := 0; i < maxVisible+5; i++ {
		tm, _ = tm.Update(alertAt("nike", "Deals", time.Now()))
	}
	m = tm.(Model)

	if len(m.alerts) != maxVisible {
		t.Errorf("len(alerts) = %d, want %d", len(m.alerts), maxVisible)
	}
	if m.seen != maxVisible+5 {
		t.Errorf("seen = %d, want %d", m.seen, maxVisible+5)
	}
}

func TestQuitKeyCancelsSession(t *testing.T) {
	m := newTestModel(t)

	tm, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = tm.(Model)

	if !m.stopping {
		t.Error("q should put the model into the stopping state")
	}
	select {
	case <-m.ctx.Done():
	default:
		t.Error("q should cancel the session context")
	}
}

func TestDoneQuitsAndKeepsError(t *testing.T) {
	m := newTestModel(t)

	tm, cmd := m.Update(doneMsg{err: context.Canceled})
	m = tm.(Model)

	if cmd == nil {
		t.Fatal("doneMsg should produce a quit command")
	}
	if m.Err() != context.Canceled {
		t.Errorf("Err() = %v", m.Err())
	}
}
