// Package store holds the live coordination state: room membership,
// per-connection sessions, and recording records. Each table is defined as
// an interface so a single-instance deployment can use the in-memory
// implementations while a distributed one can swap in a shared store.
package store

import "github.com/hivemeet/signaling/internal/models"

// RoomStore maps a room identifier to the set of member connection ids.
// A room exists exactly while it has members: Add creates it on demand and
// Remove deletes it the moment the member set becomes empty.
type RoomStore interface {
	Add(roomID, connID string)
	// Remove takes connID out of the room and reports whether the room was
	// deleted because it became empty.
	Remove(roomID, connID string) bool
	Members(roomID string) []string
	Contains(roomID, connID string) bool
	// Count returns the number of live rooms.
	Count() int
}

// SessionStore maps a connection identifier to its Session.
type SessionStore interface {
	Put(s models.Session)
	Get(connID string) (models.Session, bool)
	SetRecording(connID string, active bool)
	// Delete removes and returns the session, if any.
	Delete(connID string) (models.Session, bool)
}

// RecordingStore owns Recording records, keyed by recording identifier.
// Callers mutate returned records only while holding the coordination lock.
// Terminal records are retained while their room lives (so a stale stop can
// still be recognized as a no-op) and reaped once the room is evicted.
type RecordingStore interface {
	Put(r *models.Recording)
	Get(id string) (*models.Recording, bool)
	Delete(id string)
	// ActiveByUser returns every recording owned by userID whose status is
	// still "recording".
	ActiveByUser(userID string) []*models.Recording
	// DeleteTerminalByRoom removes every recording for roomID that has
	// reached a terminal status. Active recordings are left alone.
	DeleteTerminalByRoom(roomID string)
}
