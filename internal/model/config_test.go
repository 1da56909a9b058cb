package model

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if !cfg.OCR.Enabled {
		t.Error("OCR should default to enabled")
	}
	if cfg.RecentLimit != 15 {
		t.Errorf("RecentLimit = %d, want 15", cfg.RecentLimit)
	}
	if cfg.ShutdownGraceSec != 5 {
		t.Errorf("ShutdownGraceSec = %d, want 5", cfg.ShutdownGraceSec)
	}
}

func TestLoadConfigSourceDefaults(t *testing.T) {
	path := writeConfig(t, `
db_path: test.db
sources:
  - id: inbox
    type: email
    config:
      host: imap.example.com
  - id: demo
    type: scripted
    enabled: false
    poll_interval_sec: 5
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(cfg.Sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(cfg.Sources))
	}
	// An unset enabled flag means the source is active.
	if !cfg.Sources[0].Enabled {
		t.Error("source with unset enabled should be active")
	}
	if cfg.Sources[0].PollIntervalSec != 60 {
		t.Errorf("PollIntervalSec = %d, want default 60", cfg.Sources[0].PollIntervalSec)
	}
	// An explicit enabled: false must stay false.
	if cfg.Sources[1].Enabled {
		t.Error("explicitly disabled source should stay disabled")
	}
	if cfg.Sources[1].PollIntervalSec != 5 {
		t.Errorf("PollIntervalSec = %d, want 5", cfg.Sources[1].PollIntervalSec)
	}
}

func TestVocabularyFallback(t *testing.T) {
	cfg := &AppConfig{}
	if got := cfg.Vocabulary(); len(got) != len(DefaultVocabulary()) {
		t.Errorf("empty brands should fall back to the default vocabulary, got %v", got)
	}

	cfg.Brands = []string{"Acme", "  ", "globex"}
	got := cfg.Vocabulary()
	if len(got) != 2 || got[0] != "acme" || got[1] != "globex" {
		t.Errorf("Vocabulary() = %v", got)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	in := &AppConfig{
		DBPath:           "x.db",
		Brands:           []string{"acme"},
		RecentLimit:      7,
		ShutdownGraceSec: 3,
		OCR:              OCRConfig{Enabled: true, Profiles: []string{"line"}},
	}
	if err := SaveConfig(path, in); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	out, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if out.DBPath != "x.db" || out.RecentLimit != 7 || out.ShutdownGraceSec != 3 {
		t.Errorf("round trip mismatch: %+v", out)
	}
	if len(out.Brands) != 1 || out.Brands[0] != "acme" {
		t.Errorf("Brands = %v", out.Brands)
	}
	if len(out.OCR.Profiles) != 1 || out.OCR.Profiles[0] != "line" {
		t.Errorf("OCR.Profiles = %v", out.OCR.Profiles)
	}
}
