// Package session persists the per-chat (state, game) pair and offers
// a transactional proxy around one load→mutate→save cycle.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Store reads when the chat has no session.
var ErrNotFound = errors.New("session not found")

// Key prefixes in the key-value store. The state value is a stringified
// integer, the data value a JSON-encoded game record.
const (
	statePrefix = "STATE_"
	dataPrefix  = "DATA_"
)

func stateKey(chat int64) string { return statePrefix + strconv.FormatInt(chat, 10) }
func dataKey(chat int64) string  { return dataPrefix + strconv.FormatInt(chat, 10) }

// Store is the minimal key-value contract the session layer needs.
type Store interface {
	GetState(ctx context.Context, chat int64) (int, error)
	SetState(ctx context.Context, chat int64, state int) error
	ResetState(ctx context.Context, chat int64) error

	GetData(ctx context.Context, chat int64) ([]byte, error)
	SetData(ctx context.Context, chat int64, data []byte) error
	ResetData(ctx context.Context, chat int64) error
}

// RedisStore keeps sessions in Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// GetState reads the stored state id; ErrNotFound if absent.
func (s *RedisStore) GetState(ctx context.Context, chat int64) (int, error) {
	raw, err := s.client.Get(ctx, stateKey(chat)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get state: %w", err)
	}

	state, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("corrupted state value %q: %w", raw, err)
	}
	return state, nil
}

// SetState stores the state id.
func (s *RedisStore) SetState(ctx context.Context, chat int64, state int) error {
	if err := s.client.Set(ctx, stateKey(chat), strconv.Itoa(state), 0).Err(); err != nil {
		return fmt.Errorf("failed to set state: %w", err)
	}
	return nil
}

// ResetState deletes the state key.
func (s *RedisStore) ResetState(ctx context.Context, chat int64) error {
	if err := s.client.Del(ctx, stateKey(chat)).Err(); err != nil {
		return fmt.Errorf("failed to reset state: %w", err)
	}
	return nil
}

// GetData reads the serialized game blob; ErrNotFound if absent.
func (s *RedisStore) GetData(ctx context.Context, chat int64) ([]byte, error) {
	raw, err := s.client.Get(ctx, dataKey(chat)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get data: %w", err)
	}
	return raw, nil
}

// SetData stores the serialized game blob.
func (s *RedisStore) SetData(ctx context.Context, chat int64, data []byte) error {
	if err := s.client.Set(ctx, dataKey(chat), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set data: %w", err)
	}
	return nil
}

// ResetData deletes the data key.
func (s *RedisStore) ResetData(ctx context.Context, chat int64) error {
	if err := s.client.Del(ctx, dataKey(chat)).Err(); err != nil {
		return fmt.Errorf("failed to reset data: %w", err)
	}
	return nil
}

// MemoryStore is a map-backed Store used in tests and local runs.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[int64]int
	data   map[int64][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[int64]int),
		data:   make(map[int64][]byte),
	}
}

// GetState reads the stored state id; ErrNotFound if absent.
func (s *MemoryStore) GetState(_ context.Context, chat int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[chat]
	if !ok {
		return 0, ErrNotFound
	}
	return state, nil
}

// SetState stores the state id.
func (s *MemoryStore) SetState(_ context.Context, chat int64, state int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[chat] = state
	return nil
}

// ResetState deletes the state entry.
func (s *MemoryStore) ResetState(_ context.Context, chat int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, chat)
	return nil
}

// GetData reads the game blob; ErrNotFound if absent.
func (s *MemoryStore) GetData(_ context.Context, chat int64) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.data[chat]
	if !ok {
		return nil, ErrNotFound
	}
	return raw, nil
}

// SetData stores the game blob.
func (s *MemoryStore) SetData(_ context.Context, chat int64, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[chat] = data
	return nil
}

// ResetData deletes the game blob.
func (s *MemoryStore) ResetData(_ context.Context, chat int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, chat)
	return nil
}
