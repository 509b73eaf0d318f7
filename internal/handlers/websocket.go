package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/hivemeet/signaling/config"
	"github.com/hivemeet/signaling/internal/hub"
	"github.com/hivemeet/signaling/internal/models"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	sendBufSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking is handled by middleware
		return true
	},
}

// Client is one WebSocket connection. It owns the socket for its lifetime
// and bridges it to the hub: inbound frames are dispatched to exactly one
// hub operation, outbound notices are queued on a buffered channel and
// written by a single goroutine, fire-and-forget.
type Client struct {
	id     string
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

func (c *Client) ID() string     { return c.id }
func (c *Client) UserID() string { return c.userID }

// Send queues a notice for delivery. Never blocks: if the client's buffer
// is full the notice is dropped, consistent with best-effort signaling.
func (c *Client) Send(notice any) {
	data, err := json.Marshal(notice)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Str("conn_id", c.id).Msg("failed to marshal notice")
		return
	}
	select {
	case c.send <- data:
	default:
		log.Warn().Str("module", "ws").Str("conn_id", c.id).Msg("send buffer full, notice dropped")
	}
}

// HandleSignaling upgrades the connection, registers it with the hub, and
// immediately sends the static config notice (relay servers and capture
// constraints) before any message is read.
func HandleSignaling(h *hub.Hub, cfg *config.Config) gin.HandlerFunc {
	iceServers := cfg.PionICEServers()
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Error().Err(err).Str("module", "ws").Msg("failed to upgrade connection")
			return
		}

		client := &Client{
			id:     uuid.New().String(),
			userID: userID,
			conn:   conn,
			send:   make(chan []byte, sendBufSize),
		}

		h.Register(client)
		client.Send(models.ConfigNotice{
			Type:             models.NoticeConfig,
			ICEServers:       iceServers,
			MediaConstraints: cfg.Media,
		})

		go client.writePump(cfg.PingPeriod)
		go client.readPump(h, cfg)
	}
}

func (c *Client) readPump(h *hub.Hub, cfg *config.Config) {
	defer func() {
		h.ConnectionEnded(c.id)
		c.conn.Close()
	}()

	if cfg.ReadLimit > 0 {
		c.conn.SetReadLimit(cfg.ReadLimit)
	}
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("module", "ws").Str("conn_id", c.id).Msg("websocket read error")
			}
			break
		}
		c.dispatch(h, cfg, message)
	}
}

// dispatch routes one inbound message to exactly one hub operation. A panic
// while handling it is contained here: it must never take down the read
// loop of this connection, let alone affect other connections.
func (c *Client) dispatch(h *hub.Hub, cfg *config.Config, raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Str("module", "ws").Str("conn_id", c.id).Msg("handler panic recovered")
		}
	}()

	env, err := models.ParseEnvelope(raw)
	if err != nil {
		log.Warn().Err(err).Str("module", "ws").Str("conn_id", c.id).Msg("rejected message")
		return
	}

	switch env.Type {
	case models.MessageGetConfig:
		c.Send(models.ConfigNotice{
			Type:             models.NoticeConfig,
			ICEServers:       cfg.PionICEServers(),
			MediaConstraints: cfg.Media,
		})
	case models.MessageJoinRoom:
		h.Join(c.id, env.RoomID, env.StreamType)
	case models.MessageLeaveRoom:
		h.Leave(c.id)
	case models.MessageOffer, models.MessageAnswer, models.MessageICECandidate:
		h.Relay(c.id, env.Type, env.TargetID, env.Payload)
	case models.MessageRequestQualityChange:
		h.RelayQualityChange(c.id, env.TargetID, env.Quality, env.StreamType)
	case models.MessageToggleStream:
		h.BroadcastStreamToggle(c.id, env.StreamType, *env.Enabled)
	case models.MessageOptimizeScreenshare:
		h.BroadcastScreenshareSettings(c.id, models.ScreenshareSettings{
			Resolution: env.Resolution,
			FrameRate:  env.FrameRate,
			Bitrate:    env.Bitrate,
		})
	case models.MessageStartRecording:
		h.StartRecording(c.id, env.RoomID, env.Scope)
	case models.MessageStopRecording:
		h.StopRecording(c.id, env.RecordingID)
	}
}

func (c *Client) writePump(pingPeriod time.Duration) {
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("module", "ws").Str("conn_id", c.id).Msg("failed to write message")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
