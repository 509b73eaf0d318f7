package models

import "time"

// RecordingStatus represents the recording lifecycle:
// recording -> stopped | interrupted, both terminal.
type RecordingStatus string

const (
	RecordingActive      RecordingStatus = "recording"
	RecordingStopped     RecordingStatus = "stopped"
	RecordingInterrupted RecordingStatus = "interrupted"
)

// Terminal reports whether no further transitions are allowed.
func (s RecordingStatus) Terminal() bool {
	return s == RecordingStopped || s == RecordingInterrupted
}

// CaptureScope is the declared extent of a recording.
type CaptureScope string

const (
	CaptureLocal  CaptureScope = "local"
	CaptureRemote CaptureScope = "remote"
	CaptureBoth   CaptureScope = "both"
)

func (s CaptureScope) Valid() bool {
	switch s {
	case CaptureLocal, CaptureRemote, CaptureBoth:
		return true
	}
	return false
}

// Recording tracks one recording attempt for status and duration only;
// no media is stored server-side.
type Recording struct {
	ID        string
	RoomID    string
	UserID    string
	Scope     CaptureScope
	Status    RecordingStatus
	StartedAt time.Time
	EndedAt   time.Time // zero until terminal
}

// Duration is the recorded interval; zero while still recording.
func (r *Recording) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}
