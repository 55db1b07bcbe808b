package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-game-client/internal/domain"
)

// CredStore keeps identities in Redis so a fleet of clients sharing one
// credential set (bots, load rigs) log in once and reuse the token.
type CredStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewCredStore(client *redis.Client, key string, ttl time.Duration) *CredStore {
	if key == "" {
		key = "quiz:client:identity"
	}
	return &CredStore{client: client, key: key, ttl: ttl}
}

func (s *CredStore) Get(ctx context.Context) (domain.Identity, error) {
	data, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return domain.Identity{}, domain.ErrNoCredentials
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("redis get identity: %w", err)
	}
	var id domain.Identity
	if err := json.Unmarshal([]byte(data), &id); err != nil {
		return domain.Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	return id, nil
}

func (s *CredStore) Put(ctx context.Context, id domain.Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, s.ttl).Err()
}

func (s *CredStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
