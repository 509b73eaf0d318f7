package hub

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/hivemeet/signaling/internal/models"
)

// Relay forwards an offer, answer, or ICE candidate to a single target in
// the sender's room. The payload is never inspected. At-most-once: a target
// that is gone, or in another room, means the message is silently dropped.
func (h *Hub) Relay(senderID string, kind models.MessageType, targetID string, payload json.RawMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deliverLocked(senderID, targetID, models.RelayNotice{
		Type:             models.NoticeType(kind),
		FromConnectionID: senderID,
		Payload:          payload,
	})
}

// RelayQualityChange asks one peer to adjust its outbound stream quality.
// Same best-effort unicast semantics as Relay.
func (h *Hub) RelayQualityChange(senderID, targetID, quality string, streamType models.StreamType) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deliverLocked(senderID, targetID, models.QualityChangeNotice{
		Type:             models.NoticeQualityChange,
		FromConnectionID: senderID,
		Quality:          quality,
		StreamType:       streamType,
	})
}

// BroadcastStreamToggle announces a stream being enabled or disabled to the
// rest of the sender's room. State announcement, not a negotiation, hence a
// broadcast rather than a unicast.
func (h *Hub) BroadcastStreamToggle(senderID string, streamType models.StreamType, enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sess, ok := h.sessions.Get(senderID)
	if !ok {
		return
	}
	h.broadcastToRoomLocked(sess.RoomID, senderID, models.PeerStreamToggleNotice{
		Type:         models.NoticePeerStreamToggle,
		UserID:       sess.UserID,
		ConnectionID: senderID,
		StreamType:   streamType,
		Enabled:      enabled,
	})
}

// BroadcastScreenshareSettings announces the sender's screen-capture tuning
// to the rest of its room.
func (h *Hub) BroadcastScreenshareSettings(senderID string, settings models.ScreenshareSettings) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sess, ok := h.sessions.Get(senderID)
	if !ok {
		return
	}
	h.broadcastToRoomLocked(sess.RoomID, senderID, models.ScreenshareSettingsNotice{
		Type:     models.NoticeScreenshareSettings,
		UserID:   sess.UserID,
		Settings: settings,
	})
}

// deliverLocked performs the unicast relay checks: sender has a session,
// target has a session in the same room, target is live. Any failure is a
// silent drop; the sender is never told a peer is gone.
func (h *Hub) deliverLocked(senderID, targetID string, notice any) {
	senderSess, ok := h.sessions.Get(senderID)
	if !ok {
		return
	}
	targetSess, ok := h.sessions.Get(targetID)
	if !ok || targetSess.RoomID != senderSess.RoomID {
		log.Debug().Str("module", "hub").Str("from", senderID).Str("to", targetID).Msg("relay target gone, dropped")
		return
	}
	target, ok := h.peers[targetID]
	if !ok {
		return
	}
	target.Send(notice)
}
