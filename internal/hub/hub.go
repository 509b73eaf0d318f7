// Package hub is the coordination core of the signaling server: room
// membership, peer-to-peer message relay, and recording lifecycle. Every
// operation runs to completion under one lock, so the membership, session,
// and recording tables never expose a half-updated state and no notice is
// fanned out before both tables agree.
package hub

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hivemeet/signaling/internal/models"
	"github.com/hivemeet/signaling/internal/store"
)

// Peer is the hub's handle to one connected client. Send must not block:
// delivery is fire-and-forget and a slow receiver drops notices rather than
// stalling the hub.
type Peer interface {
	ID() string
	UserID() string
	Send(notice any)
}

// PresenceTracker mirrors live membership into an external store so other
// instances (or operators) can observe it. Best effort; implementations may
// block on I/O — the hub applies updates from a dedicated dispatcher
// goroutine, never while holding its lock, so a slow mirror can only delay
// the mirror, not joins, leaves, or relays.
type PresenceTracker interface {
	PeerJoined(roomID, connID string)
	PeerLeft(roomID, connID string)
}

const presenceQueueSize = 1024

type presenceUpdate struct {
	joined bool
	roomID string
	connID string
}

// Hub ties the three stores together and owns the set of live peers.
type Hub struct {
	mu         sync.Mutex
	peers      map[string]Peer
	rooms      store.RoomStore
	sessions   store.SessionStore
	recordings store.RecordingStore
	now        func() time.Time

	presence     PresenceTracker
	presenceCh   chan presenceUpdate
	presenceDone chan struct{}
}

func New(rooms store.RoomStore, sessions store.SessionStore, recordings store.RecordingStore, presence PresenceTracker) *Hub {
	h := &Hub{
		peers:      make(map[string]Peer),
		rooms:      rooms,
		sessions:   sessions,
		recordings: recordings,
		now:        time.Now,
	}
	if presence != nil {
		h.presence = presence
		h.presenceCh = make(chan presenceUpdate, presenceQueueSize)
		h.presenceDone = make(chan struct{})
		go h.runPresenceDispatcher()
	}
	return h
}

// Close stops the presence dispatcher, if any. Pending mirror updates are
// dropped; the mirror is observational and the stores stay authoritative.
func (h *Hub) Close() {
	if h.presenceDone != nil {
		close(h.presenceDone)
	}
}

// runPresenceDispatcher applies mirror updates one at a time, in the order
// the hub produced them, off the hub's critical section.
func (h *Hub) runPresenceDispatcher() {
	for {
		select {
		case <-h.presenceDone:
			return
		case u := <-h.presenceCh:
			if u.joined {
				h.presence.PeerJoined(u.roomID, u.connID)
			} else {
				h.presence.PeerLeft(u.roomID, u.connID)
			}
		}
	}
}

// mirrorLocked enqueues a presence update without ever blocking the hub.
// A full queue drops the update, same policy as a full client send buffer.
func (h *Hub) mirrorLocked(joined bool, roomID, connID string) {
	if h.presenceCh == nil {
		return
	}
	select {
	case h.presenceCh <- presenceUpdate{joined: joined, roomID: roomID, connID: connID}:
	default:
		log.Warn().Str("module", "hub").Str("room_id", roomID).Msg("presence queue full, update dropped")
	}
}

// Register makes a connection visible to the hub. Until then the peer can
// neither join rooms nor be addressed as a relay target.
func (h *Hub) Register(p Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[p.ID()] = p
	log.Info().Str("module", "hub").Str("conn_id", p.ID()).Str("user_id", p.UserID()).Msg("peer registered")
}

// Join puts the connection into roomID, tearing down any prior membership
// first. The joiner is told about existing members before anyone else is
// told about the joiner, so no peer can be referenced in a relay before
// both sides know each other.
func (h *Hub) Join(connID, roomID string, streamType models.StreamType) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.peers[connID]
	if !ok {
		return
	}
	h.leaveLocked(connID)

	existing := h.rooms.Members(roomID)
	h.rooms.Add(roomID, connID)
	h.sessions.Put(models.Session{
		ConnectionID: connID,
		RoomID:       roomID,
		UserID:       p.UserID(),
		StreamType:   streamType,
	})
	h.mirrorLocked(true, roomID, connID)

	peers := make([]models.PeerInfo, 0, len(existing))
	for _, id := range existing {
		sess, ok := h.sessions.Get(id)
		if !ok {
			continue
		}
		peers = append(peers, models.PeerInfo{
			ConnectionID: id,
			UserID:       sess.UserID,
			StreamType:   sess.StreamType,
		})
	}
	p.Send(models.ExistingPeersNotice{Type: models.NoticeExistingPeers, Peers: peers})

	h.broadcastToRoomLocked(roomID, connID, models.PeerJoinedNotice{
		Type:         models.NoticePeerJoined,
		ConnectionID: connID,
		UserID:       p.UserID(),
		StreamType:   streamType,
	})

	log.Info().Str("module", "hub").Str("conn_id", connID).Str("room_id", roomID).
		Str("stream_type", string(streamType)).Int("peers", len(existing)).Msg("peer joined room")
}

// Leave handles an explicit leave-room request. Idempotent: a connection
// with no session is a no-op.
func (h *Hub) Leave(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(connID)
}

// ConnectionEnded is the single lifecycle entry point for a closed
// connection, graceful or abrupt. It runs at most once per connection id;
// repeated invocations are no-ops. Order matters: recordings are
// interrupted before the leave broadcast, so peers never see a departed
// user still marked recording.
func (h *Hub) ConnectionEnded(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.peers[connID]
	if !ok {
		return
	}
	h.interruptRecordingsLocked(p.UserID())
	h.leaveLocked(connID)
	delete(h.peers, connID)
	log.Info().Str("module", "hub").Str("conn_id", connID).Msg("connection ended")
}

// leaveLocked removes the connection's room membership and session.
// Both tables are mutated before the peer-left broadcast so a peer reacting
// to the notice never observes stale membership.
func (h *Hub) leaveLocked(connID string) {
	sess, ok := h.sessions.Delete(connID)
	if !ok {
		return
	}
	emptied := h.rooms.Remove(sess.RoomID, connID)
	if emptied {
		h.recordings.DeleteTerminalByRoom(sess.RoomID)
	}
	h.mirrorLocked(false, sess.RoomID, connID)

	h.broadcastToRoomLocked(sess.RoomID, connID, models.PeerLeftNotice{
		Type:         models.NoticePeerLeft,
		ConnectionID: connID,
		UserID:       sess.UserID,
	})

	log.Info().Str("module", "hub").Str("conn_id", connID).Str("room_id", sess.RoomID).
		Bool("room_evicted", emptied).Msg("peer left room")
}

// broadcastToRoomLocked is the single fan-out primitive: every notice to a
// room goes through here, with one exclusion rule and no ordering surprises.
func (h *Hub) broadcastToRoomLocked(roomID, excludeConnID string, notice any) {
	for _, id := range h.rooms.Members(roomID) {
		if id == excludeConnID {
			continue
		}
		if p, ok := h.peers[id]; ok {
			p.Send(notice)
		}
	}
}
