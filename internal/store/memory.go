package store

import (
	"sync"

	"github.com/hivemeet/signaling/internal/models"
)

// MemoryRooms is the in-memory RoomStore for single-instance deployments.
type MemoryRooms struct {
	mu    sync.RWMutex
	rooms map[string]map[string]struct{}
}

func NewMemoryRooms() *MemoryRooms {
	return &MemoryRooms{rooms: make(map[string]map[string]struct{})}
}

func (m *MemoryRooms) Add(roomID, connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members, ok := m.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		m.rooms[roomID] = members
	}
	members[connID] = struct{}{}
}

func (m *MemoryRooms) Remove(roomID, connID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	members, ok := m.rooms[roomID]
	if !ok {
		return false
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(m.rooms, roomID)
		return true
	}
	return false
}

func (m *MemoryRooms) Members(roomID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	members := m.rooms[roomID]
	out := make([]string, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	return out
}

func (m *MemoryRooms) Contains(roomID, connID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.rooms[roomID][connID]
	return ok
}

func (m *MemoryRooms) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// MemorySessions is the in-memory SessionStore.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]models.Session)}
}

func (m *MemorySessions) Put(s models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ConnectionID] = s
}

func (m *MemorySessions) Get(connID string) (models.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[connID]
	return s, ok
}

func (m *MemorySessions) SetRecording(connID string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[connID]; ok {
		s.Recording = active
		m.sessions[connID] = s
	}
}

func (m *MemorySessions) Delete(connID string) (models.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[connID]
	if ok {
		delete(m.sessions, connID)
	}
	return s, ok
}

// MemoryRecordings is the in-memory RecordingStore.
type MemoryRecordings struct {
	mu         sync.RWMutex
	recordings map[string]*models.Recording
}

func NewMemoryRecordings() *MemoryRecordings {
	return &MemoryRecordings{recordings: make(map[string]*models.Recording)}
}

func (m *MemoryRecordings) Put(r *models.Recording) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordings[r.ID] = r
}

func (m *MemoryRecordings) Get(id string) (*models.Recording, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.recordings[id]
	return r, ok
}

func (m *MemoryRecordings) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recordings, id)
}

func (m *MemoryRecordings) ActiveByUser(userID string) []*models.Recording {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Recording
	for _, r := range m.recordings {
		if r.UserID == userID && r.Status == models.RecordingActive {
			out = append(out, r)
		}
	}
	return out
}

func (m *MemoryRecordings) DeleteTerminalByRoom(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.recordings {
		if r.RoomID == roomID && r.Status.Terminal() {
			delete(m.recordings, id)
		}
	}
}
