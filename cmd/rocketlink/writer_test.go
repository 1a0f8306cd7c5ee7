package main

import (
	"path/filepath"
	"testing"

	"rocketlink/internal/config"
	"rocketlink/internal/ground"
)

func TestNewWritersStdoutOnly(t *testing.T) {
	cfg := &config.Config{}
	writers, cleanup, err := newWriters(cfg, "session", "node")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if len(writers) != 1 {
		t.Fatalf("got %d writers, want 1", len(writers))
	}
	if _, ok := writers[0].(*ground.StdoutWriter); !ok {
		t.Fatalf("expected *ground.StdoutWriter, got %T", writers[0])
	}
}

func TestNewWritersWithArchive(t *testing.T) {
	cfg := &config.Config{}
	cfg.Ground.ArchivePath = filepath.Join(t.TempDir(), "archive.db")
	writers, cleanup, err := newWriters(cfg, "session", "node")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if len(writers) != 2 {
		t.Fatalf("got %d writers, want 2", len(writers))
	}
	if _, ok := writers[1].(*ground.Store); !ok {
		t.Fatalf("expected *ground.Store, got %T", writers[1])
	}
}
