package models

import (
	"testing"
	"time"
)

func TestRecordingStatusTerminal(t *testing.T) {
	if RecordingActive.Terminal() {
		t.Fatal("active status reported terminal")
	}
	if !RecordingStopped.Terminal() || !RecordingInterrupted.Terminal() {
		t.Fatal("terminal status not reported terminal")
	}
}

func TestRecordingDuration(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := Recording{StartedAt: start}
	if d := rec.Duration(); d != 0 {
		t.Fatalf("duration of live recording = %v, want 0", d)
	}
	rec.EndedAt = start.Add(2 * time.Minute)
	if d := rec.Duration(); d != 2*time.Minute {
		t.Fatalf("duration = %v, want 2m", d)
	}
}

func TestCaptureScopeValid(t *testing.T) {
	for _, s := range []CaptureScope{CaptureLocal, CaptureRemote, CaptureBoth} {
		if !s.Valid() {
			t.Fatalf("%s should be valid", s)
		}
	}
	if CaptureScope("").Valid() || CaptureScope("all").Valid() {
		t.Fatal("invalid scopes accepted")
	}
}
