// Package cache keeps the last good headline list per service so the ticker
// has something to show when both the endpoint and the static fallback fail.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/matheuskafuri/newsticker/internal/news"
)

// DefaultTTL is how long an entry stays readable after it was written.
const DefaultTTL = time.Hour

type entry struct {
	Headlines []news.Headline `json:"headlines"`
	Timestamp int64           `json:"timestamp"`
}

type Options struct {
	TTL    time.Duration
	Now    func() time.Time
	Logger *slog.Logger
}

// Store applies the TTL on top of a Backend. Its methods never fail: storage
// problems are logged and reads degrade to a miss.
type Store struct {
	backend Backend
	ttl     time.Duration
	now     func() time.Time
	log     *slog.Logger
}

func NewStore(backend Backend, opts Options) *Store {
	s := &Store{backend: backend, ttl: opts.TTL, now: opts.Now, log: opts.Logger}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Write replaces the entry for svc with items stamped at the current time.
func (s *Store) Write(ctx context.Context, svc news.Service, items []news.Headline) {
	if items == nil {
		items = []news.Headline{}
	}
	key := Key(svc)
	data, err := json.Marshal(entry{Headlines: items, Timestamp: s.now().UnixMilli()})
	if err == nil {
		err = s.backend.Set(ctx, key, data)
	}
	if err != nil {
		s.log.Warn("cache.write_failed", "key", key, "error", storageErr("cache.write", key, err))
	}
}

// Read returns the entry for svc if it is younger than the TTL. An expired
// entry is deleted.
func (s *Store) Read(ctx context.Context, svc news.Service) []news.Headline {
	key := Key(svc)
	data, err := s.backend.Get(ctx, key)
	if errors.Is(err, ErrMiss) {
		return nil
	}
	if err != nil {
		s.log.Warn("cache.read_failed", "key", key, "error", storageErr("cache.read", key, err))
		return nil
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		s.log.Warn("cache.corrupt", "key", key, "error", storageErr("cache.decode", key, err))
		return nil
	}

	age := time.Duration(s.now().UnixMilli()-e.Timestamp) * time.Millisecond
	if age >= s.ttl {
		if err := s.backend.Delete(ctx, key); err != nil {
			s.log.Warn("cache.purge_failed", "key", key, "error", storageErr("cache.purge", key, err))
		}
		s.log.Debug("cache.expired", "key", key, "age", age)
		return nil
	}
	return e.Headlines
}

func storageErr(op, key string, err error) error {
	return &news.Error{Op: op, Kind: news.KindStorage, Location: key, Err: err}
}
