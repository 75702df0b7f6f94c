package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go-restaurant-pos/apperr"

	"github.com/go-redis/redis/v8"
)

// Store keeps one serialized Cart per session id. Update runs fn as a single
// read-modify-write per session; a blob that cannot be decoded is replaced by
// an empty cart rather than reported.
type Store interface {
	Load(ctx context.Context, sessionID string) (Cart, error)
	Update(ctx context.Context, sessionID string, fn func(Cart) (Cart, error)) (Cart, error)
	Delete(ctx context.Context, sessionID string) error
}

func decode(blob []byte) Cart {
	var c Cart
	if len(blob) == 0 {
		return c
	}
	if err := json.Unmarshal(blob, &c); err != nil {
		return Cart{}
	}
	return c
}

// MemoryStore keeps carts in process. Used when no Redis is configured.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decode(s.blobs[sessionID]), nil
}

func (s *MemoryStore) Update(_ context.Context, sessionID string, fn func(Cart) (Cart, error)) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(decode(s.blobs[sessionID]))
	if err != nil {
		return Cart{}, err
	}
	blob, err := json.Marshal(next)
	if err != nil {
		return Cart{}, err
	}
	s.blobs[sessionID] = blob
	return next, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, sessionID)
	return nil
}

// Put stores a raw blob. Tests use it to plant corrupt session data.
func (s *MemoryStore) Put(sessionID string, blob []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[sessionID] = blob
}

const (
	redisKeyPrefix  = "pos:cart:"
	redisMaxRetries = 5
	defaultRedisTTL = 12 * time.Hour
)

// RedisStore keeps carts in Redis. Update watches the cart key so two
// concurrent mutations of the same session cannot overwrite each other;
// the loser retries against the fresh cart.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultRedisTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func key(sessionID string) string {
	return redisKeyPrefix + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (Cart, error) {
	blob, err := s.client.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Cart{}, nil
	}
	if err != nil {
		return Cart{}, apperr.Persistence("cart.Load", err)
	}
	return decode(blob), nil
}

func (s *RedisStore) Update(ctx context.Context, sessionID string, fn func(Cart) (Cart, error)) (Cart, error) {
	k := key(sessionID)
	var result Cart

	txf := func(tx *redis.Tx) error {
		blob, err := tx.Get(ctx, k).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		next, err := fn(decode(blob))
		if err != nil {
			return err
		}
		out, err := json.Marshal(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, out, s.ttl)
			return nil
		})
		if err == nil {
			result = next
		}
		return err
	}

	for i := 0; i < redisMaxRetries; i++ {
		err := s.client.Watch(ctx, txf, k)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return Cart{}, err
		}
		return Cart{}, apperr.Persistence("cart.Update", err)
	}
	return Cart{}, apperr.New("cart.Update", apperr.KindConflict, sessionID, "cart was modified concurrently, try again")
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return apperr.Persistence("cart.Delete", s.client.Del(ctx, key(sessionID)).Err())
}
