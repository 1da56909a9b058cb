package scripted

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nhle/brandwatch/internal/source"
)

const testScript = `
groups:
  - id: 1
    name: Deals
    is_group_or_channel: true
  - id: 2
    name: Other
    is_group_or_channel: true
events:
  - id: ev-1
    group_id: 1
    group_name: Deals
    text: fake nike drop
  - group_id: 2
    group_name: Other
    text: unrelated
  - id: ev-3
    group_id: 1
    group_name: Deals
    media: pic.png
`

func writeScript(t *testing.T) *Source {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "script.yaml")
	if err := os.WriteFile(path, []byte(testScript), 0o644); err != nil {
		t.Fatalf("writing script: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pic.png"), []byte("img"), 0o644); err != nil {
		t.Fatalf("writing media: %v", err)
	}

	s, err := New(path, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestEventsFilteredBySelectedGroups(t *testing.T) {
	s := writeScript(t)

	events, err := s.Events(context.Background(), []int64{1})
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}

	var got []string
	for ev := range events {
		if ev.GroupID != 1 {
			t.Errorf("event for unselected group: %+v", ev)
		}
		got = append(got, ev.SourceMessageID)
	}
	if len(got) != 2 || got[0] != "ev-1" || got[1] != "ev-3" {
		t.Errorf("unexpected events: %v", got)
	}
}

func TestEventsFillMissingIDs(t *testing.T) {
	s := writeScript(t)

	events, err := s.Events(context.Background(), nil)
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	for ev := range events {
		if ev.SourceMessageID == "" {
			t.Error("event emitted without a source message id")
		}
	}
}

func TestDownloadMedia(t *testing.T) {
	s := writeScript(t)
	ctx := context.Background()

	data, err := s.DownloadMedia(ctx, "pic.png")
	if err != nil {
		t.Fatalf("DownloadMedia failed: %v", err)
	}
	if string(data) != "img" {
		t.Errorf("data = %q", data)
	}

	_, err = s.DownloadMedia(ctx, "missing.png")
	if err == nil {
		t.Fatal("expected an error for missing media")
	}
	var te *source.TransientError
	if !errors.As(err, &te) {
		t.Errorf("err = %v, want TransientError", err)
	}
}

func TestListGroups(t *testing.T) {
	s := writeScript(t)

	groups, err := s.ListGroups(context.Background())
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups) != 2 || groups[0].Name != "Deals" || !groups[0].IsGroupOrChannel {
		t.Errorf("unexpected groups: %+v", groups)
	}
}
