package models

import (
	"encoding/json"
	"fmt"
)

// MessageType identifies an inbound signaling message.
type MessageType string

const (
	MessageGetConfig            MessageType = "get-config"
	MessageJoinRoom             MessageType = "join-room"
	MessageLeaveRoom            MessageType = "leave-room"
	MessageOffer                MessageType = "offer"
	MessageAnswer               MessageType = "answer"
	MessageICECandidate         MessageType = "ice-candidate"
	MessageRequestQualityChange MessageType = "request-quality-change"
	MessageToggleStream         MessageType = "toggle-stream"
	MessageOptimizeScreenshare  MessageType = "optimize-screenshare"
	MessageStartRecording       MessageType = "start-recording"
	MessageStopRecording        MessageType = "stop-recording"
)

// StreamType is the capability a client declares when joining a room.
type StreamType string

const (
	StreamCamera StreamType = "camera"
	StreamScreen StreamType = "screen"
	StreamBoth   StreamType = "both"
)

func (s StreamType) Valid() bool {
	switch s {
	case StreamCamera, StreamScreen, StreamBoth:
		return true
	}
	return false
}

// Envelope is the flat wire format for all inbound messages. Only the
// fields relevant to the message type are populated; Payload is opaque to
// the server and forwarded verbatim.
type Envelope struct {
	Type        MessageType     `json:"type"`
	RoomID      string          `json:"roomId,omitempty"`
	StreamType  StreamType      `json:"streamType,omitempty"`
	TargetID    string          `json:"targetId,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Quality     string          `json:"quality,omitempty"`
	Enabled     *bool           `json:"enabled,omitempty"`
	Resolution  string          `json:"resolution,omitempty"`
	FrameRate   int             `json:"frameRate,omitempty"`
	Bitrate     int             `json:"bitrate,omitempty"`
	Scope       CaptureScope    `json:"scope,omitempty"`
	RecordingID string          `json:"recordingId,omitempty"`
}

// ParseEnvelope decodes and validates an inbound message. A message whose
// type is unknown, or which is missing the fields its type requires, is
// rejected here before any handler runs.
func ParseEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("malformed envelope: %w", err)
	}
	if err := env.validate(); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

func (e Envelope) validate() error {
	switch e.Type {
	case MessageGetConfig, MessageLeaveRoom:
		// no required fields
	case MessageJoinRoom:
		if e.RoomID == "" {
			return fmt.Errorf("%s: roomId is required", e.Type)
		}
		if !e.StreamType.Valid() {
			return fmt.Errorf("%s: invalid streamType %q", e.Type, e.StreamType)
		}
	case MessageOffer, MessageAnswer, MessageICECandidate, MessageRequestQualityChange:
		if e.TargetID == "" {
			return fmt.Errorf("%s: targetId is required", e.Type)
		}
	case MessageToggleStream:
		if !e.StreamType.Valid() {
			return fmt.Errorf("%s: invalid streamType %q", e.Type, e.StreamType)
		}
		if e.Enabled == nil {
			return fmt.Errorf("%s: enabled is required", e.Type)
		}
	case MessageOptimizeScreenshare:
		// settings fields are advisory, all optional
	case MessageStartRecording:
		if e.RoomID == "" {
			return fmt.Errorf("%s: roomId is required", e.Type)
		}
		if !e.Scope.Valid() {
			return fmt.Errorf("%s: invalid scope %q", e.Type, e.Scope)
		}
	case MessageStopRecording:
		if e.RecordingID == "" {
			return fmt.Errorf("%s: recordingId is required", e.Type)
		}
	default:
		return fmt.Errorf("unknown message type %q", e.Type)
	}
	return nil
}
