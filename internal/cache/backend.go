package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/matheuskafuri/newsticker/internal/news"
)

// ErrMiss is returned by a Backend when a key is absent.
var ErrMiss = errors.New("cache miss")

// KeyPrefix is prepended to the service name to form a cache key.
const KeyPrefix = "news-ticker-cache-"

// Key returns the persistent key for svc.
func Key(svc news.Service) string {
	return KeyPrefix + svc.String()
}

// Backend is the persistent key/value storage under a Store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Memory is a process-local Backend.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }
