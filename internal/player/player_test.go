package player

import (
	"testing"
	"time"
)

// The loaded-stream paths need a real audio device, so tests cover the
// unloaded behavior the UI depends on before the first selection.

func TestUnloadedPlayerIsInert(t *testing.T) {
	p := &Player{}

	if p.Toggle() {
		t.Error("Toggle with nothing loaded reported playing")
	}
	if err := p.Seek(5 * time.Second); err != nil {
		t.Errorf("Seek with nothing loaded: %v", err)
	}
	if p.Position() != 0 {
		t.Errorf("Position = %v, want 0", p.Position())
	}
	if p.Duration() != 0 {
		t.Errorf("Duration = %v, want 0", p.Duration())
	}
	if p.Done() != nil {
		t.Error("Done should be nil before the first load")
	}
	if err := p.Rewind(); err != nil {
		t.Errorf("Rewind with nothing loaded: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	p := &Player{}
	if err := p.Load("/nonexistent/recording.mp3"); err == nil {
		t.Error("expected error for missing file")
	}
	if p.Done() != nil {
		t.Error("failed load must not arm the done channel")
	}
}
