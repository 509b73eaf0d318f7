package models

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"
)

// NoticeType identifies an outbound message to a client.
type NoticeType string

const (
	NoticeConfig              NoticeType = "config"
	NoticeExistingPeers       NoticeType = "existing-peers"
	NoticePeerJoined          NoticeType = "peer-joined"
	NoticePeerLeft            NoticeType = "peer-left"
	NoticeQualityChange       NoticeType = "quality-change-request"
	NoticePeerStreamToggle    NoticeType = "peer-stream-toggle"
	NoticeScreenshareSettings NoticeType = "screenshare-settings"
	NoticeRecordingStarted    NoticeType = "recording-started"
	NoticeRecordingStopped    NoticeType = "recording-stopped"
	NoticeRecordingError      NoticeType = "recording-error"
	NoticePeerRecordingStatus NoticeType = "peer-recording-status"
)

// PeerInfo describes one room member to another.
type PeerInfo struct {
	ConnectionID string     `json:"connectionId"`
	UserID       string     `json:"userId"`
	StreamType   StreamType `json:"streamType"`
}

// MediaConstraints are the recommended capture bounds sent to every client
// in the config notice. Static configuration, not live state.
type MediaConstraints struct {
	MaxWidth         int  `json:"maxWidth" mapstructure:"max_width"`
	MaxHeight        int  `json:"maxHeight" mapstructure:"max_height"`
	IdealWidth       int  `json:"idealWidth" mapstructure:"ideal_width"`
	IdealHeight      int  `json:"idealHeight" mapstructure:"ideal_height"`
	MinFrameRate     int  `json:"minFrameRate" mapstructure:"min_frame_rate"`
	MaxFrameRate     int  `json:"maxFrameRate" mapstructure:"max_frame_rate"`
	EchoCancellation bool `json:"echoCancellation" mapstructure:"echo_cancellation"`
	NoiseSuppression bool `json:"noiseSuppression" mapstructure:"noise_suppression"`
	AutoGainControl  bool `json:"autoGainControl" mapstructure:"auto_gain_control"`
}

// ScreenshareSettings are the advisory capture settings announced by a
// screen-sharing peer.
type ScreenshareSettings struct {
	Resolution string `json:"resolution,omitempty"`
	FrameRate  int    `json:"frameRate,omitempty"`
	Bitrate    int    `json:"bitrate,omitempty"`
}

type ConfigNotice struct {
	Type             NoticeType         `json:"type"`
	ICEServers       []webrtc.ICEServer `json:"iceServers"`
	MediaConstraints MediaConstraints   `json:"mediaConstraints"`
}

type ExistingPeersNotice struct {
	Type  NoticeType `json:"type"`
	Peers []PeerInfo `json:"peers"`
}

type PeerJoinedNotice struct {
	Type         NoticeType `json:"type"`
	ConnectionID string     `json:"connectionId"`
	UserID       string     `json:"userId"`
	StreamType   StreamType `json:"streamType"`
}

type PeerLeftNotice struct {
	Type         NoticeType `json:"type"`
	ConnectionID string     `json:"connectionId"`
	UserID       string     `json:"userId"`
}

// RelayNotice wraps a forwarded signaling payload. Type echoes the inbound
// message type (offer, answer, ice-candidate); the payload is untouched.
type RelayNotice struct {
	Type             NoticeType      `json:"type"`
	FromConnectionID string          `json:"fromConnectionId"`
	Payload          json.RawMessage `json:"payload,omitempty"`
}

type QualityChangeNotice struct {
	Type             NoticeType `json:"type"`
	FromConnectionID string     `json:"fromConnectionId"`
	Quality          string     `json:"quality"`
	StreamType       StreamType `json:"streamType,omitempty"`
}

type PeerStreamToggleNotice struct {
	Type         NoticeType `json:"type"`
	UserID       string     `json:"userId"`
	ConnectionID string     `json:"connectionId"`
	StreamType   StreamType `json:"streamType"`
	Enabled      bool       `json:"enabled"`
}

type ScreenshareSettingsNotice struct {
	Type     NoticeType          `json:"type"`
	UserID   string              `json:"userId"`
	Settings ScreenshareSettings `json:"settings"`
}

type RecordingStartedNotice struct {
	Type        NoticeType `json:"type"`
	RecordingID string     `json:"recordingId"`
}

type RecordingStoppedNotice struct {
	Type        NoticeType `json:"type"`
	RecordingID string     `json:"recordingId"`
	DurationMs  int64      `json:"durationMs"`
}

type RecordingErrorNotice struct {
	Type  NoticeType `json:"type"`
	Error string     `json:"error"`
}

type PeerRecordingStatusNotice struct {
	Type        NoticeType `json:"type"`
	UserID      string     `json:"userId"`
	IsRecording bool       `json:"isRecording"`
}
