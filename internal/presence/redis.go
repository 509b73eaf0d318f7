// Package presence mirrors live room membership into Redis. The mirror is
// observational: the in-process hub remains the source of truth, and mirror
// failures never fail the join or leave that triggered them. A multi-instance
// deployment would build its cross-instance fan-out on top of this seam.
package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/hivemeet/signaling/config"
)

const (
	peerSetTTL = 24 * time.Hour
	opTimeout  = 5 * time.Second
)

type Redis struct {
	client *redis.Client
}

func NewRedis(cfg config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) PeerJoined(roomID, connID string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	key := "room:" + roomID + ":peers"
	if err := r.client.SAdd(ctx, key, connID).Err(); err != nil {
		log.Warn().Err(err).Str("module", "presence").Str("room_id", roomID).Msg("presence mirror add failed")
		return
	}
	r.client.Expire(ctx, key, peerSetTTL)
}

func (r *Redis) PeerLeft(roomID, connID string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	key := "room:" + roomID + ":peers"
	if err := r.client.SRem(ctx, key, connID).Err(); err != nil {
		log.Warn().Err(err).Str("module", "presence").Str("room_id", roomID).Msg("presence mirror remove failed")
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}
