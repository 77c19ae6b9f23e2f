package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/VYD3N/tezos-music-player/model"
)

// playlistStoreKey holds the serialized store; one key, one JSON document,
// same wire format as the file backend.
const playlistStoreKey = "tzmusic:playlists"

// redisRepository persists the playlist store in Redis.
type redisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates a Redis-backed playlist repository.
func NewRedisRepository(client *redis.Client) Repository {
	return &redisRepository{client: client}
}

// Load reads the persisted store. An unset key is an empty store.
func (r *redisRepository) Load(ctx context.Context) (*model.PlaylistStore, error) {
	if r.client == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	data, err := r.client.Get(ctx, playlistStoreKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return model.NewPlaylistStore(), nil
		}
		return nil, fmt.Errorf("failed to get playlist store: %w", err)
	}

	s := model.NewPlaylistStore()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to decode playlist store: %w", err)
	}
	return s, nil
}

// Save writes the whole store under one key, no expiry: playlists outlive
// sessions.
func (r *redisRepository) Save(ctx context.Context, s *model.PlaylistStore) error {
	if r.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode playlist store: %w", err)
	}

	if err := r.client.Set(ctx, playlistStoreKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save playlist store: %w", err)
	}
	return nil
}
