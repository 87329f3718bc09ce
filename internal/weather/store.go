package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps the most recent panel so request handlers never wait on the provider.
type Store interface {
	Save(ctx context.Context, p Panel) error
	// Latest reports false when nothing has been saved yet (or it expired).
	Latest(ctx context.Context) (Panel, bool, error)
}

// MemoryStore is the single-process Store.
type MemoryStore struct {
	mu    sync.RWMutex
	panel Panel
	ok    bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, p Panel) error {
	s.mu.Lock()
	s.panel, s.ok = p, true
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Latest(_ context.Context) (Panel, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.panel, s.ok, nil
}

// RedisKey is where RedisStore keeps the panel.
const RedisKey = "childcare:weather:panel"

// RedisStore shares one panel between several server instances.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore stores panels with the given ttl; a stale panel simply disappears.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, p Panel) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("weather: encode panel: %w", err)
	}
	if err := s.rdb.Set(ctx, RedisKey, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("weather: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Latest(ctx context.Context) (Panel, bool, error) {
	raw, err := s.rdb.Get(ctx, RedisKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return Panel{}, false, nil
	}
	if err != nil {
		return Panel{}, false, fmt.Errorf("weather: redis get: %w", err)
	}

	var p Panel
	if err := json.Unmarshal(raw, &p); err != nil {
		return Panel{}, false, fmt.Errorf("weather: decode panel: %w", err)
	}
	return p, true, nil
}
