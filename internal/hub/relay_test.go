package hub

import (
	"encoding/json"
	"testing"

	"github.com/hivemeet/signaling/internal/models"
)

func TestRelay_UnicastCarriesSenderAndPayload(t *testing.T) {
	h := newTestHub()
	h.addPeer("conn-a", "alice")
	b := h.addPeer("conn-b", "bob")

	h.Join("conn-a", "r1", models.StreamCamera)
	h.Join("conn-b", "r1", models.StreamCamera)
	b.take()

	payload := json.RawMessage(`{"sdp":"v=0"}`)
	h.Relay("conn-a", models.MessageOffer, "conn-b", payload)

	notices := b.take()
	if len(notices) != 1 {
		t.Fatalf("b got %d notices, want 1: %#v", len(notices), notices)
	}
	rn, ok := notices[0].(models.RelayNotice)
	if !ok {
		t.Fatalf("notice = %#v, want RelayNotice", notices[0])
	}
	if rn.Type != "offer" || rn.FromConnectionID != "conn-a" || string(rn.Payload) != `{"sdp":"v=0"}` {
		t.Fatalf("relay notice = %#v", rn)
	}
}

func TestRelay_DepartedTargetIsSilentlyDropped(t *testing.T) {
	h := newTestHub()
	a := h.addPeer("conn-a", "alice")
	h.addPeer("conn-b", "bob")

	h.Join("conn-a", "r1", models.StreamCamera)
	h.Join("conn-b", "r1", models.StreamCamera)
	h.ConnectionEnded("conn-b")
	a.take()

	h.Relay("conn-a", models.MessageOffer, "conn-b", json.RawMessage(`{}`))

	if notices := a.take(); len(notices) != 0 {
		t.Fatalf("sender received %#v, want nothing", notices)
	}
}

func TestRelay_CrossRoomTargetIsDropped(t *testing.T) {
	h := newTestHub()
	h.addPeer("conn-a", "alice")
	b := h.addPeer("conn-b", "bob")

	h.Join("conn-a", "r1", models.StreamCamera)
	h.Join("conn-b", "r2", models.StreamCamera)
	b.take()

	h.Relay("conn-a", models.MessageAnswer, "conn-b", json.RawMessage(`{}`))

	if notices := b.take(); len(notices) != 0 {
		t.Fatalf("cross-room target received %#v, want nothing", notices)
	}
}

func TestRelay_SenderWithoutSessionIsDropped(t *testing.T) {
	h := newTestHub()
	h.addPeer("conn-a", "alice")
	b := h.addPeer("conn-b", "bob")

	h.Join("conn-b", "r1", models.StreamCamera)
	b.take()

	h.Relay("conn-a", models.MessageICECandidate, "conn-b", json.RawMessage(`{}`))

	if notices := b.take(); len(notices) != 0 {
		t.Fatalf("target received %#v from roomless sender, want nothing", notices)
	}
}

func TestRelayQualityChange_Unicast(t *testing.T) {
	h := newTestHub()
	h.addPeer("conn-a", "alice")
	b := h.addPeer("conn-b", "bob")

	h.Join("conn-a", "r1", models.StreamCamera)
	h.Join("conn-b", "r1", models.StreamScreen)
	b.take()

	h.RelayQualityChange("conn-a", "conn-b", "low", models.StreamScreen)

	notices := b.take()
	if len(notices) != 1 {
		t.Fatalf("b got %d notices, want 1", len(notices))
	}
	qc, ok := notices[0].(models.QualityChangeNotice)
	if !ok || qc.FromConnectionID != "conn-a" || qc.Quality != "low" || qc.StreamType != models.StreamScreen {
		t.Fatalf("notice = %#v", notices[0])
	}
}

func TestBroadcastStreamToggle_ExcludesSender(t *testing.T) {
	h := newTestHub()
	a := h.addPeer("conn-a", "alice")
	b := h.addPeer("conn-b", "bob")
	c := h.addPeer("conn-c", "carol")

	h.Join("conn-a", "r1", models.StreamCamera)
	h.Join("conn-b", "r1", models.StreamCamera)
	h.Join("conn-c", "r1", models.StreamCamera)
	a.take()
	b.take()
	c.take()

	h.BroadcastStreamToggle("conn-a", models.StreamCamera, false)

	if notices := a.take(); len(notices) != 0 {
		t.Fatalf("sender received own toggle: %#v", notices)
	}
	for _, p := range []*fakePeer{b, c} {
		notices := p.take()
		if len(notices) != 1 {
			t.Fatalf("%s got %d notices, want 1", p.id, len(notices))
		}
		tg, ok := notices[0].(models.PeerStreamToggleNotice)
		if !ok || tg.ConnectionID != "conn-a" || tg.UserID != "alice" ||
			tg.StreamType != models.StreamCamera || tg.Enabled {
			t.Fatalf("notice = %#v", notices[0])
		}
	}
}

func TestBroadcastScreenshareSettings(t *testing.T) {
	h := newTestHub()
	a := h.addPeer("conn-a", "alice")
	b := h.addPeer("conn-b", "bob")

	h.Join("conn-a", "r1", models.StreamScreen)
	h.Join("conn-b", "r1", models.StreamCamera)
	a.take()
	b.take()

	settings := models.ScreenshareSettings{Resolution: "1080p", FrameRate: 15, Bitrate: 2500}
	h.BroadcastScreenshareSettings("conn-a", settings)

	notices := b.take()
	if len(notices) != 1 {
		t.Fatalf("b got %d notices, want 1", len(notices))
	}
	ss, ok := notices[0].(models.ScreenshareSettingsNotice)
	if !ok || ss.UserID != "alice" || ss.Settings != settings {
		t.Fatalf("notice = %#v", notices[0])
	}
}
