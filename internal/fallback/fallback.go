// Package fallback loads headlines from static flat-text resources when the
// remote endpoint is unreachable.
//
// A resource is a list of lines. Blank lines and lines starting with # are
// ignored. A line may point at a JSON document instead of being a headline:
//
//	sports-file /data/sports.json   # only honoured for the sports service
//	json-file   /data/all.json      # any service
//	/data/today.json                # any line ending in a .json token
//
// Without a usable directive every remaining line is a literal headline.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/matheuskafuri/newsticker/internal/news"
)

const backupPrefix = "backup-"

type Config struct {
	// Root is the site-root prefix, tried first for every resource.
	Root string
	// Base is the prefix relative resources resolve against.
	Base         string
	MaxHeadlines int
	Now          func() time.Time
}

type Loader struct {
	reader Reader
	root   string
	base   string
	max    int
	now    func() time.Time
	log    *slog.Logger
}

func New(reader Reader, cfg Config, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Loader{
		reader: reader,
		root:   cfg.Root,
		base:   cfg.Base,
		max:    cfg.MaxHeadlines,
		now:    now,
		log:    log,
	}
}

// Load returns the fallback headlines for svc, or nil when no resource could
// be read. It never fails.
func (l *Loader) Load(ctx context.Context, svc news.Service) []news.Headline {
	text, loc, err := l.readFirst(ctx, l.textLocations(svc))
	if err != nil {
		l.log.Warn("fallback.unavailable", "service", svc, "error", err)
		return nil
	}

	now := l.now().UnixMilli()
	lines := contentLines(string(text))

	if path, ok := findDirective(lines, svc); ok {
		items, err := l.loadJSON(ctx, path, svc, now)
		if err != nil {
			l.log.Warn("fallback.json_failed", "service", svc, "resource", loc, "path", path, "error", err)
		} else if len(items) > 0 {
			l.log.Debug("fallback.json", "service", svc, "path", path, "count", len(items))
			return news.Truncate(items, l.max)
		}
	}

	var out []news.Headline
	for _, line := range lines {
		if isDirective(line) {
			continue
		}
		out = append(out, news.Headline{Source: svc.Label(), Title: line, URL: news.NoURL, TS: now})
	}
	l.log.Debug("fallback.lines", "service", svc, "resource", loc, "count", len(out))
	return news.Truncate(out, l.max)
}

// textLocations lists the flat-text candidates in the order they are tried:
// the backup variant before the plain one, each at root then base.
func (l *Loader) textLocations(svc news.Service) []string {
	file := svc.FallbackFile()
	var locs []string
	for _, name := range []string{backupPrefix + file, file} {
		for _, prefix := range []string{l.root, l.base} {
			if loc := join(prefix, name); loc != "" {
				locs = append(locs, loc)
			}
		}
	}
	return locs
}

func (l *Loader) jsonLocations(path string) []string {
	if isHTTP(path) {
		return []string{path}
	}
	var locs []string
	for _, prefix := range []string{l.root, l.base} {
		if loc := join(prefix, path); loc != "" {
			locs = append(locs, loc)
		}
	}
	return locs
}

func (l *Loader) loadJSON(ctx context.Context, path string, svc news.Service, now int64) ([]news.Headline, error) {
	data, loc, err := l.readFirst(ctx, l.jsonLocations(path))
	if err != nil {
		return nil, err
	}

	items, err := decodeItems(data)
	if err != nil {
		return nil, &news.Error{Op: "fallback.decode", Kind: news.KindPayload, Location: loc, Err: err}
	}

	toHeadline := adapterFor(svc)
	out := make([]news.Headline, 0, len(items))
	for _, it := range items {
		if h, ok := toHeadline(it, svc, now); ok {
			out = append(out, h)
		}
	}
	return out, nil
}

func (l *Loader) readFirst(ctx context.Context, locs []string) ([]byte, string, error) {
	if len(locs) == 0 {
		return nil, "", errors.New("no fallback location configured")
	}
	var errs []error
	for _, loc := range locs {
		data, err := l.reader.Read(ctx, loc)
		if err == nil {
			return data, loc, nil
		}
		l.log.Debug("fallback.miss", "location", loc, "error", err)
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, "", fmt.Errorf("reading %d location(s): %w", len(errs), errors.Join(errs...))
}
