package hub

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hivemeet/signaling/internal/models"
)

// StartRecording begins a recording for the requester. The one operation
// with a user-visible failure path: a requester that is not a member of the
// target room gets an explicit recording-error notice. Each successful
// start creates an independent recording with its own identifier.
func (h *Hub) StartRecording(connID, roomID string, scope models.CaptureScope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.peers[connID]
	if !ok {
		return
	}
	sess, ok := h.sessions.Get(connID)
	if !ok || sess.RoomID != roomID {
		p.Send(models.RecordingErrorNotice{
			Type:  models.NoticeRecordingError,
			Error: "not a member of the target room",
		})
		log.Warn().Str("module", "hub").Str("conn_id", connID).Str("room_id", roomID).Msg("recording rejected, not in room")
		return
	}

	rec := &models.Recording{
		ID:        uuid.New().String(),
		RoomID:    roomID,
		UserID:    sess.UserID,
		Scope:     scope,
		Status:    models.RecordingActive,
		StartedAt: h.now(),
	}
	h.recordings.Put(rec)
	h.sessions.SetRecording(connID, true)

	p.Send(models.RecordingStartedNotice{Type: models.NoticeRecordingStarted, RecordingID: rec.ID})
	h.broadcastToRoomLocked(roomID, connID, models.PeerRecordingStatusNotice{
		Type:        models.NoticePeerRecordingStatus,
		UserID:      sess.UserID,
		IsRecording: true,
	})

	log.Info().Str("module", "hub").Str("recording_id", rec.ID).Str("room_id", roomID).
		Str("user_id", sess.UserID).Str("scope", string(scope)).Msg("recording started")
}

// StopRecording ends a recording the caller owns. Stopping a foreign,
// unknown, or already-terminal recording is a silent no-op: stop regularly
// races with disconnect and surfacing that would be noise.
func (h *Hub) StopRecording(connID, recordingID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.peers[connID]
	if !ok {
		return
	}
	rec, ok := h.recordings.Get(recordingID)
	if !ok || rec.Status != models.RecordingActive || rec.UserID != p.UserID() {
		return
	}

	rec.Status = models.RecordingStopped
	rec.EndedAt = h.now()
	h.sessions.SetRecording(connID, false)
	// Its room may already be gone if the owner left before stopping; the
	// room-eviction reap will never see this record, so drop it now.
	if len(h.rooms.Members(rec.RoomID)) == 0 {
		h.recordings.Delete(rec.ID)
	}

	p.Send(models.RecordingStoppedNotice{
		Type:        models.NoticeRecordingStopped,
		RecordingID: rec.ID,
		DurationMs:  rec.Duration().Milliseconds(),
	})
	if sess, ok := h.sessions.Get(connID); ok {
		h.broadcastToRoomLocked(sess.RoomID, connID, models.PeerRecordingStatusNotice{
			Type:        models.NoticePeerRecordingStatus,
			UserID:      rec.UserID,
			IsRecording: false,
		})
	}

	log.Info().Str("module", "hub").Str("recording_id", rec.ID).
		Int64("duration_ms", rec.Duration().Milliseconds()).Msg("recording stopped")
}

// interruptRecordingsLocked marks every still-active recording owned by
// userID as interrupted. No broadcast: the peer-left notice that follows
// already tells the room the user is gone.
func (h *Hub) interruptRecordingsLocked(userID string) {
	for _, rec := range h.recordings.ActiveByUser(userID) {
		rec.Status = models.RecordingInterrupted
		rec.EndedAt = h.now()
		if len(h.rooms.Members(rec.RoomID)) == 0 {
			h.recordings.Delete(rec.ID)
		}
		log.Info().Str("module", "hub").Str("recording_id", rec.ID).
			Str("user_id", userID).Msg("recording interrupted by disconnect")
	}
}
