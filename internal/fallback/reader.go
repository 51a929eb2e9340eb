package fallback

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/matheuskafuri/newsticker/internal/news"
)

const maxResource = 4 << 20

// Reader fetches the raw bytes of a fallback resource.
type Reader interface {
	Read(ctx context.Context, location string) ([]byte, error)
}

// LocationReader reads http(s) locations over the network and everything
// else from the local filesystem.
type LocationReader struct {
	client *http.Client
}

func NewLocationReader(client *http.Client) *LocationReader {
	if client == nil {
		client = http.DefaultClient
	}
	return &LocationReader{client: client}
}

func (r *LocationReader) Read(ctx context.Context, location string) ([]byte, error) {
	if !isHTTP(location) {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, &news.Error{Op: "fallback.read", Kind: news.KindStorage, Location: location, Err: err}
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, &news.Error{Op: "fallback.read", Kind: news.KindNetwork, Location: location, Err: err}
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &news.Error{Op: "fallback.read", Kind: news.KindNetwork, Location: location, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &news.Error{
			Op:       "fallback.read",
			Kind:     news.KindHTTPStatus,
			Location: location,
			Status:   resp.StatusCode,
			Err:      errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResource))
	if err != nil {
		return nil, &news.Error{Op: "fallback.read", Kind: news.KindNetwork, Location: location, Err: err}
	}
	return data, nil
}

func isHTTP(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// join resolves name against prefix. An empty prefix yields "".
func join(prefix, name string) string {
	if prefix == "" {
		return ""
	}
	name = strings.TrimLeft(name, "/")
	if isHTTP(prefix) {
		u, err := url.Parse(prefix)
		if err != nil {
			return ""
		}
		return u.JoinPath(name).String()
	}
	return filepath.Join(prefix, filepath.FromSlash(name))
}
