// Package redis is the instrument state cache. It persists the
// per-symbol detector action maps (prev_statuses:<symbol>) and the
// TTL-bound decision detail messages (message:<id>). All calls go
// through a circuit breaker so a flapping Redis does not stall the
// evaluation loop.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

const (
	keyStatusPrefix  = "prev_statuses:"
	keyMessagePrefix = "message:"
)

// Config configures the state cache connection.
type Config struct {
	Addr     string // e.g. "localhost:6379"
	Password string
	DB       int
	TTL      time.Duration // expiry for message:<id> entries

	// Breaker tuning; zero values get defaults (5 failures, 10s reset).
	BreakerMaxFailures  int
	BreakerResetTimeout time.Duration
}

// Store is the Redis-backed instrument state cache.
type Store struct {
	client  *goredis.Client
	breaker *CircuitBreaker
	ttl     time.Duration
}

// Client returns the underlying Redis client for health checks.
func (s *Store) Client() *goredis.Client { return s.client }

// Breaker exposes the circuit breaker, for metrics wiring.
func (s *Store) Breaker() *CircuitBreaker { return s.breaker }

// New connects to Redis and pings the server.
func New(cfg Config) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	maxFailures := cfg.BreakerMaxFailures
	if maxFailures <= 0 {
		maxFailures = 5
	}
	resetTimeout := cfg.BreakerResetTimeout
	if resetTimeout <= 0 {
		resetTimeout = 10 * time.Second
	}

	log.Printf("[redis] connected to %s", cfg.Addr)
	return &Store{
		client:  client,
		breaker: NewCircuitBreaker(maxFailures, resetTimeout),
		ttl:     cfg.TTL,
	}, nil
}

// GetStatuses fetches the persisted detector action map for a symbol.
// Returns (nil, nil) when no state exists yet.
func (s *Store) GetStatuses(ctx context.Context, symbol string) (map[string]string, error) {
	var statuses map[string]string
	err := s.breaker.Execute(func() error {
		raw, err := s.client.Get(ctx, keyStatusPrefix+symbol).Bytes()
		if err == goredis.Nil {
			return nil
		}
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, &statuses)
	})
	if err != nil {
		return nil, fmt.Errorf("get statuses %s: %w", symbol, err)
	}
	return statuses, nil
}

// SetStatuses replaces the detector action map for a symbol. The entry
// carries no expiry; it is overwritten on the next recorded cycle.
func (s *Store) SetStatuses(ctx context.Context, symbol string, statuses map[string]string) error {
	raw, err := json.Marshal(statuses)
	if err != nil {
		return fmt.Errorf("marshal statuses %s: %w", symbol, err)
	}
	err = s.breaker.Execute(func() error {
		return s.client.Set(ctx, keyStatusPrefix+symbol, raw, 0).Err()
	})
	if err != nil {
		return fmt.Errorf("set statuses %s: %w", symbol, err)
	}
	return nil
}

// SaveDetail stores a decision detail message under its identifier with
// the configured TTL.
func (s *Store) SaveDetail(ctx context.Context, id, detail string) error {
	err := s.breaker.Execute(func() error {
		return s.client.Set(ctx, keyMessagePrefix+id, detail, s.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("save detail %s: %w", id, err)
	}
	return nil
}

// Detail looks up a stored detail message. Absent or expired ids yield
// ("", nil).
func (s *Store) Detail(ctx context.Context, id string) (string, error) {
	var detail string
	err := s.breaker.Execute(func() error {
		val, err := s.client.Get(ctx, keyMessagePrefix+id).Result()
		if err == goredis.Nil {
			return nil
		}
		if err != nil {
			return err
		}
		detail = val
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("get detail %s: %w", id, err)
	}
	return detail, nil
}

// StorageSize summarizes the cache footprint per key family.
type StorageSize struct {
	MessageKeys  int
	MessageBytes int64
	StatusKeys   int
	StatusBytes  int64
}

func (z StorageSize) String() string {
	return fmt.Sprintf("messages: %d (%s), prev_statuses: %d (%s)",
		z.MessageKeys, formatSize(z.MessageBytes), z.StatusKeys, formatSize(z.StatusBytes))
}

// Size measures the current footprint of both key families. Intended for
// periodic logging, not hot paths: it walks every key.
func (s *Store) Size(ctx context.Context) (StorageSize, error) {
	var z StorageSize
	err := s.breaker.Execute(func() error {
		msgKeys, err := s.client.Keys(ctx, keyMessagePrefix+"*").Result()
		if err != nil {
			return err
		}
		statusKeys, err := s.client.Keys(ctx, keyStatusPrefix+"*").Result()
		if err != nil {
			return err
		}
		z.MessageKeys = len(msgKeys)
		z.StatusKeys = len(statusKeys)
		for _, k := range msgKeys {
			n, _ := s.client.MemoryUsage(ctx, k).Result()
			z.MessageBytes += n
		}
		for _, k := range statusKeys {
			n, _ := s.client.MemoryUsage(ctx, k).Result()
			z.StatusBytes += n
		}
		return nil
	})
	if err != nil {
		return StorageSize{}, fmt.Errorf("storage size: %w", err)
	}
	return z, nil
}

// Close releases the client connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func formatSize(n int64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.2f TB", size)
}
