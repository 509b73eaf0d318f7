package models

// Session is the single active room-membership record for one connection.
// Keyed by connection identifier; a connection holds at most one Session.
type Session struct {
	ConnectionID string
	RoomID       string
	UserID       string
	StreamType   StreamType
	Recording    bool
}
