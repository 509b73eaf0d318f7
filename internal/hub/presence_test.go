package hub

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/hivemeet/signaling/internal/models"
	"github.com/hivemeet/signaling/internal/store"
)

// stallingTracker blocks inside PeerJoined until released, simulating a
// mirror stuck on a slow network round trip.
type stallingTracker struct {
	entered chan struct{}
	release chan struct{}
}

func newStallingTracker() *stallingTracker {
	return &stallingTracker{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (s *stallingTracker) PeerJoined(roomID, connID string) {
	select {
	case s.entered <- struct{}{}:
	default:
	}
	<-s.release
}

func (s *stallingTracker) PeerLeft(string, string) {}

func TestStalledPresenceMirrorDoesNotBlockHubOperations(t *testing.T) {
	tracker := newStallingTracker()
	h := New(store.NewMemoryRooms(), store.NewMemorySessions(), store.NewMemoryRecordings(), tracker)
	t.Cleanup(h.Close)
	t.Cleanup(func() { close(tracker.release) })

	a := &fakePeer{id: "conn-a", userID: "alice"}
	b := &fakePeer{id: "conn-b", userID: "bob"}
	h.Register(a)
	h.Register(b)

	h.Join("conn-a", "r1", models.StreamCamera)
	// Wait until the dispatcher is parked inside the mirror.
	select {
	case <-tracker.entered:
	case <-time.After(time.Second):
		t.Fatal("mirror was never invoked")
	}

	done := make(chan struct{})
	go func() {
		h.Join("conn-b", "r1", models.StreamCamera)
		h.Relay("conn-b", models.MessageOffer, "conn-a", json.RawMessage(`{"sdp":"v=0"}`))
		h.Leave("conn-b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("hub operations stalled while the presence mirror was blocked")
	}

	var relayed bool
	for _, n := range a.take() {
		if _, ok := n.(models.RelayNotice); ok {
			relayed = true
		}
	}
	if !relayed {
		t.Fatal("offer was not delivered while the mirror was blocked")
	}
}

// recordingTracker captures mirror updates so their order can be checked.
type recordingTracker struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTracker) PeerJoined(roomID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "join:"+roomID+":"+connID)
}

func (r *recordingTracker) PeerLeft(roomID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "leave:"+roomID+":"+connID)
}

func (r *recordingTracker) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestPresenceMirrorSeesUpdatesInHubOrder(t *testing.T) {
	tracker := &recordingTracker{}
	h := New(store.NewMemoryRooms(), store.NewMemorySessions(), store.NewMemoryRecordings(), tracker)
	t.Cleanup(h.Close)

	a := &fakePeer{id: "conn-a", userID: "alice"}
	h.Register(a)
	h.Join("conn-a", "r1", models.StreamCamera)
	h.Join("conn-a", "r2", models.StreamCamera)
	h.Leave("conn-a")

	want := []string{"join:r1:conn-a", "leave:r1:conn-a", "join:r2:conn-a", "leave:r2:conn-a"}
	deadline := time.Now().Add(2 * time.Second)
	for {
		got := tracker.snapshot()
		if len(got) == len(want) {
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("mirror events = %v, want %v", got, want)
				}
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("mirror events = %v, want %v", got, want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
