// Package source resolves the headline list for a service by walking the
// remote endpoint, the static fallback resources and the local cache in turn.
package source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/matheuskafuri/newsticker/internal/news"
)

// Kind tags where an Outcome's headlines came from.
type Kind int

const (
	Empty Kind = iota
	Remote
	Fallback
	Cache
)

func (k Kind) String() string {
	switch k {
	case Remote:
		return "remote"
	case Fallback:
		return "fallback"
	case Cache:
		return "cache"
	default:
		return "empty"
	}
}

// Outcome is the result of one resolve cycle.
type Outcome struct {
	Kind      Kind
	Service   news.Service
	Headlines []news.Headline
	// Offline is set whenever the endpoint did not supply the list.
	Offline    bool
	ResolvedAt time.Time
}

type RemoteFetcher interface {
	Fetch(ctx context.Context, svc news.Service) ([]news.Headline, error)
}

type FallbackLoader interface {
	Load(ctx context.Context, svc news.Service) []news.Headline
}

type CacheStore interface {
	Read(ctx context.Context, svc news.Service) []news.Headline
	Write(ctx context.Context, svc news.Service, items []news.Headline)
}

var errEmptyRemote = errors.New("endpoint returned no headlines")

// Source is safe for concurrent use as long as its dependencies are.
type Source struct {
	remote        RemoteFetcher
	fallback      FallbackLoader
	cache         CacheStore
	policy        news.Policy
	remoteTimeout time.Duration
	localTimeout  time.Duration
	now           func() time.Time
	log           *slog.Logger
}

// DefaultLocalTimeout bounds each of the fallback and cache stages.
const DefaultLocalTimeout = 5 * time.Second

type Options struct {
	Policy news.Policy
	// RemoteTimeout bounds the remote stage. Zero leaves it to the caller's
	// deadline minus the reserve kept for the local stages.
	RemoteTimeout time.Duration
	// LocalTimeout bounds the fallback read and each cache access. These
	// stages keep running after the caller's deadline has passed.
	LocalTimeout time.Duration
	Now          func() time.Time
	Logger       *slog.Logger
}

func New(remote RemoteFetcher, fallback FallbackLoader, cache CacheStore, opts Options) *Source {
	s := &Source{
		remote:   remote,
		fallback: fallback,
		cache:    cache,
		policy:   opts.Policy,
		now:      opts.Now,
		log:      opts.Logger,

		remoteTimeout: opts.RemoteTimeout,
		localTimeout:  opts.LocalTimeout,
	}
	if s.localTimeout <= 0 {
		s.localTimeout = DefaultLocalTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Resolve produces the headline list for svc. It never fails; when nothing
// is available the outcome is Empty.
func (s *Source) Resolve(ctx context.Context, svc news.Service) Outcome {
	start := s.now()
	out := Outcome{Service: svc, Offline: true}

	items, err := s.fetchRemote(ctx, svc)
	if err == nil && len(items) == 0 {
		err = errEmptyRemote
	}
	if err == nil {
		ranked := news.Rank(items, svc, s.policy)
		wctx, cancel := s.localContext(ctx)
		s.cache.Write(wctx, svc, ranked)
		cancel()
		out.Kind, out.Headlines, out.Offline = Remote, ranked, false
		return s.done(out, start)
	}
	s.log.Warn("source.remote_failed", "service", svc, "kind", news.KindOf(err), "error", err)

	fctx, cancel := s.localContext(ctx)
	items = s.fallback.Load(fctx, svc)
	cancel()
	if len(items) > 0 {
		out.Kind, out.Headlines = Fallback, items
		return s.done(out, start)
	}

	rctx, cancel := s.localContext(ctx)
	items = s.cache.Read(rctx, svc)
	cancel()
	if len(items) > 0 {
		out.Kind, out.Headlines = Cache, items
		return s.done(out, start)
	}

	out.Kind = Empty
	return s.done(out, start)
}

// fetchRemote runs the remote stage under its own deadline: RemoteTimeout if
// set, and never later than the caller's deadline minus a reserve for the
// local stages.
func (s *Source) fetchRemote(ctx context.Context, svc news.Service) ([]news.Headline, error) {
	timeout := s.remoteTimeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		budget := remaining - min(s.localTimeout, remaining/2)
		if timeout <= 0 || budget < timeout {
			timeout = budget
		}
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.remote.Fetch(ctx, svc)
}

// localContext detaches a fallback or cache stage from the cycle's
// cancellation so a slow endpoint cannot starve it.
func (s *Source) localContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.localTimeout)
}

func (s *Source) done(out Outcome, start time.Time) Outcome {
	out.ResolvedAt = s.now()
	s.log.Info("source.resolved",
		"service", out.Service,
		"kind", out.Kind.String(),
		"count", len(out.Headlines),
		"offline", out.Offline,
		"took", out.ResolvedAt.Sub(start),
	)
	return out
}
