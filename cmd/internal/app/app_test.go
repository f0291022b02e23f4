package app

import (
	"path/filepath"
	"testing"
)

func TestNewWiresAppFromConfig(t *testing.T) {
	t.Parallel()

	cfg := LoadConfig()
	cfg.MaxRetries = 4
	cfg.StateFile = filepath.Join(t.TempDir(), "session.json")

	a, err := New(cfg, discardLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.backend == nil || a.tokens == nil || a.coord == nil || a.sessions == nil {
		t.Fatal("session stack not wired")
	}
	if a.guard == nil || a.sessionHTTP == nil || a.registry == nil {
		t.Fatal("http surface not wired")
	}
	if a.API() == nil {
		t.Fatal("resource client not wired")
	}
}

func TestNewRejectsEmptyBackendURL(t *testing.T) {
	t.Parallel()

	cfg := LoadConfig()
	cfg.BackendBaseURL = ""

	if _, err := New(cfg, discardLogger()); err == nil {
		t.Fatal("expected error for missing backend URL")
	}
}
