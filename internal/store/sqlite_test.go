package store_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/nhle/brandwatch/internal/model"
	"github.com/nhle/brandwatch/tests/testutil"
)

func TestSaveMessageAssignsIDAndTimestamp(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first, err := s.SaveMessage(ctx, model.Message{
		SourceMessageID: "m-1",
		GroupID:         10,
		GroupName:       "Deals",
		Text:            "hello",
	})
	if err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}
	if first == 0 {
		t.Fatal("expected a non-zero message id")
	}

	second, err := s.SaveMessage(ctx, model.Message{
		SourceMessageID: "m-2",
		GroupID:         10,
		GroupName:       "Deals",
		HasMedia:        true,
	})
	if err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}
	if second <= first {
		t.Fatalf("message ids not monotonic: %d then %d", first, second)
	}
}

func TestSaveAlertRequiresExistingMessage(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.SaveAlert(ctx, model.Alert{
		MessageRefID: 999,
		GroupID:      10,
		Kind:         model.AlertKindText,
		Brand:        "nike",
		Content:      "nike shoes",
	})
	if err == nil {
		t.Fatal("expected foreign key violation for missing message")
	}
}

func TestRecentAlertsJoinsGroupName(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	msgID, err := s.SaveMessage(ctx, model.Message{
		SourceMessageID: "m-1",
		GroupID:         42,
		GroupName:       "Gadget Swap",
		Text:            "fake apple chargers here",
	})
	if err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}

	if _, err := s.SaveAlert(ctx, model.Alert{
		MessageRefID: msgID,
		GroupID:      42,
		Kind:         model.AlertKindText,
		Brand:        "apple",
		Content:      "fake apple chargers here",
	}); err != nil {
		t.Fatalf("SaveAlert failed: %v", err)
	}

	alerts, err := s.RecentAlerts(ctx, 1)
	if err != nil {
		t.Fatalf("RecentAlerts failed: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}

	got := alerts[0]
	if got.GroupName != "Gadget Swap" {
		t.Errorf("group name = %q, want %q", got.GroupName, "Gadget Swap")
	}
	if got.MessageRefID != msgID {
		t.Errorf("message ref = %d, want %d", got.MessageRefID, msgID)
	}
	if got.Brand != "apple" || got.Kind != model.AlertKindText {
		t.Errorf("unexpected alert row: %+v", got)
	}
}

func TestRecentAlertsNewestFirst(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for i, brand := range []string{"apple", "nike", "adidas"} {
		msgID, err := s.SaveMessage(ctx, model.Message{
			SourceMessageID: brand,
			GroupID:         int64(i),
			GroupName:       "G",
			Text:            brand,
		})
		if err != nil {
			t.Fatalf("SaveMessage failed: %v", err)
		}
		if _, err := s.SaveAlert(ctx, model.Alert{
			MessageRefID: msgID,
			GroupID:      int64(i),
			Kind:         model.AlertKindText,
			Brand:        brand,
			Content:      brand,
		}); err != nil {
			t.Fatalf("SaveAlert failed: %v", err)
		}
	}

	alerts, err := s.RecentAlerts(ctx, 2)
	if err != nil {
		t.Fatalf("RecentAlerts failed: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].Brand != "adidas" || alerts[1].Brand != "nike" {
		t.Errorf("unexpected order: %q, %q", alerts[0].Brand, alerts[1].Brand)
	}
}

func TestStatsAggregates(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	// Three messages; two nike alerts (text + image), one apple alert.
	for _, tc := range []struct {
		brand string
		kind  model.AlertKind
	}{
		{"nike", model.AlertKindText},
		{"nike", model.AlertKindImage},
		{"apple", model.AlertKindText},
	} {
		msgID, err := s.SaveMessage(ctx, model.Message{
			GroupID:   1,
			GroupName: "G",
			Text:      tc.brand,
		})
		if err != nil {
			t.Fatalf("SaveMessage failed: %v", err)
		}
		if _, err := s.SaveAlert(ctx, model.Alert{
			MessageRefID: msgID,
			GroupID:      1,
			Kind:         tc.kind,
			Brand:        tc.brand,
			Content:      tc.brand,
		}); err != nil {
			t.Fatalf("SaveAlert failed: %v", err)
		}
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.Messages != 3 {
		t.Errorf("messages = %d, want 3", stats.Messages)
	}
	if stats.Alerts != 3 {
		t.Errorf("alerts = %d, want 3", stats.Alerts)
	}
	if stats.ByKind[model.AlertKindText] != 2 || stats.ByKind[model.AlertKindImage] != 1 {
		t.Errorf("unexpected kind counts: %v", stats.ByKind)
	}
	if len(stats.TopBrands) != 2 || stats.TopBrands[0].Brand != "nike" || stats.TopBrands[0].Count != 2 {
		t.Errorf("unexpected top brands: %v", stats.TopBrands)
	}
}

func TestStatsIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	msgID, err := s.SaveMessage(ctx, model.Message{GroupID: 1, GroupName: "G", Text: "visa card"})
	if err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}
	if _, err := s.SaveAlert(ctx, model.Alert{
		MessageRefID: msgID, GroupID: 1, Kind: model.AlertKindText,
		Brand: "visa", Content: "visa card",
	}); err != nil {
		t.Fatalf("SaveAlert failed: %v", err)
	}

	a, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	b, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Errorf("stats changed without writes:\nfirst:  %+v\nsecond: %+v", a, b)
	}
}
