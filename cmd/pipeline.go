package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/matheuskafuri/newsticker/internal/cache"
	"github.com/matheuskafuri/newsticker/internal/config"
	"github.com/matheuskafuri/newsticker/internal/fallback"
	"github.com/matheuskafuri/newsticker/internal/feed"
	"github.com/matheuskafuri/newsticker/internal/httpclient"
	"github.com/matheuskafuri/newsticker/internal/logger"
	"github.com/matheuskafuri/newsticker/internal/source"
)

// setupLogging installs the file logger. A logger that cannot be opened is
// reported and the run continues without logs.
func setupLogging() func() {
	cleanup, err := logger.Setup(logger.Config{Dir: config.LogDir(), Debug: flagDebug})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		return func() {}
	}
	if flagDebug {
		fmt.Fprintf(os.Stderr, "debug log: %s\n", logger.Path())
	}
	return func() { _ = cleanup() }
}

func openBackend(ctx context.Context, cfg *config.Config) (cache.Backend, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemory(), nil
	case "redis":
		r, err := cache.OpenRedis(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return r, nil
	default:
		db, err := cache.Open(cfg.CachePath())
		if err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
		return db, nil
	}
}

// openSource assembles remote fetcher, fallback loader and cache store into
// one Source. The returned close func releases the cache backend.
func openSource(ctx context.Context, cfg *config.Config) (*source.Source, func() error, error) {
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.RequestTimeoutDuration()
	client := httpclient.New(httpCfg)

	remote, err := feed.New(cfg.EndpointFormat, cfg.Endpoint, client)
	if err != nil {
		return nil, nil, err
	}

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	store := cache.NewStore(backend, cache.Options{
		TTL:    cfg.CacheTTLDuration(),
		Logger: logger.Component("cache"),
	})

	loader := fallback.New(fallback.NewLocationReader(client), fallback.Config{
		Root:         cfg.Fallback.Root,
		Base:         cfg.FallbackBase(),
		MaxHeadlines: cfg.MaxHeadlines,
	}, logger.Component("fallback"))

	src := source.New(remote, loader, store, source.Options{
		Policy:        cfg.Policy(),
		RemoteTimeout: cfg.RequestTimeoutDuration(),
		Logger:        logger.Component("source"),
	})

	logger.L().Info("pipeline.ready",
		"endpoint", cfg.Endpoint,
		"format", cfg.EndpointFormat,
		"cache_backend", cfg.Cache.Backend,
		"fallback_base", cfg.FallbackBase(),
	)
	return src, backend.Close, nil
}
