package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/jwalitptl/smarthealth/pkg/logger"
)

type RedisConfig struct {
	URL     string
	Key     string
	Timeout time.Duration
}

// RedisStore shares one session between machines. Calls go through a circuit
// breaker so an unreachable server fails fast instead of stalling start-up.
type RedisStore struct {
	client  *redis.Client
	key     string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
	log     *logger.Logger
}

func NewRedisStore(ctx context.Context, cfg RedisConfig, log *logger.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if cfg.Timeout > 0 {
		opts.DialTimeout = cfg.Timeout
		opts.ReadTimeout = cfg.Timeout
		opts.WriteTimeout = cfg.Timeout
	}
	opts.MaxRetries = 1

	s := newRedisStore(redis.NewClient(opts), cfg, log)

	if err := s.client.Ping(ctx).Err(); err != nil {
		s.log.Warn("redis session store unreachable, continuing", "error", err.Error())
	}
	return s, nil
}

func newRedisStore(client *redis.Client, cfg RedisConfig, log *logger.Logger) *RedisStore {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Key == "" {
		cfg.Key = "smarthealth:session"
	}
	s := &RedisStore{
		client:  client,
		key:     cfg.Key,
		timeout: cfg.Timeout,
		log:     log.With("component", "session-redis"),
	}
	s.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "session-redis",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.log.Warn("circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	})
	return s
}

func (s *RedisStore) Load(ctx context.Context) (State, error) {
	raw, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.Get(ctx, s.key).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		return State{}, ErrNoSession
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to load session from redis: %w", err)
	}

	var st State
	if err := json.Unmarshal(raw.([]byte), &st); err != nil {
		return State{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return st, nil
}

// Save stores the session with a TTL matching the token expiry when known
func (s *RedisStore) Save(ctx context.Context, st State) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	var ttl time.Duration
	if !st.ExpiresAt.IsZero() {
		ttl = time.Until(st.ExpiresAt)
		if ttl <= 0 {
			return s.Clear(ctx)
		}
	}

	_, err = s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, s.key, payload, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to save session to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Del(ctx, s.key).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to clear session in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
