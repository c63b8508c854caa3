// Package kvstore keeps the single user's layout snapshot in a Redis server
// under one key, for setups where local disk is not the place to keep it.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jask/shopdash/internal/layout"
)

// DefaultKey is used when Config.Key is empty.
const DefaultKey = "shopdash:layout"

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	Key      string
	// DialTimeout bounds the initial ping. Zero means 5s.
	DialTimeout time.Duration
}

var _ layout.Persister = (*Store)(nil)

// Store is a layout.Persister backed by a single Redis string key.
type Store struct {
	client *redis.Client
	key    string
}

// NewStore connects to Redis and verifies the connection with a PING.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis: address is required")
	}
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})
	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return &Store{client: client, key: cfg.Key}, nil
}

func (s *Store) Key() string { return s.key }

func (s *Store) Load(ctx context.Context) (layout.Snapshot, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return layout.Snapshot{}, false, nil
	}
	if err != nil {
		return layout.Snapshot{}, false, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	snap, err := layout.Unmarshal(data)
	if err != nil {
		return layout.Snapshot{}, false, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return snap, true, nil
}

func (s *Store) Save(ctx context.Context, snap layout.Snapshot) error {
	data, err := layout.Marshal(snap)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
