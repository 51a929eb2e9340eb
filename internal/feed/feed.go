package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/matheuskafuri/newsticker/internal/news"
	"github.com/mmcdole/gofeed"
)

// Endpoint formats accepted by New.
const (
	FormatJSON = "json"
	FormatRSS  = "rss"
)

// maxBody bounds how much of a response is read before parsing.
const maxBody = 4 << 20

type Fetcher interface {
	Fetch(ctx context.Context, svc news.Service) ([]news.Headline, error)
}

// New returns the fetcher for the configured endpoint format.
func New(format, endpoint string, client *http.Client) (Fetcher, error) {
	if client == nil {
		client = http.DefaultClient
	}
	switch format {
	case "", FormatJSON:
		return &JSONFetcher{endpoint: endpoint, client: client}, nil
	case FormatRSS:
		return &RSSFetcher{endpoint: endpoint, client: client, parser: gofeed.NewParser()}, nil
	default:
		return nil, fmt.Errorf("unknown endpoint format %q (valid: json, rss)", format)
	}
}

// RequestURL adds the service query parameter to endpoint. The default
// service is requested without it so older endpoints keep working.
func RequestURL(endpoint string, svc news.Service) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parsing endpoint: %w", err)
	}
	if svc == news.DefaultService {
		return u.String(), nil
	}
	q := u.Query()
	q.Set("service", svc.String())
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// JSONFetcher reads a JSON array of headline objects from the endpoint.
type JSONFetcher struct {
	endpoint string
	client   *http.Client
}

func (f *JSONFetcher) Fetch(ctx context.Context, svc news.Service) ([]news.Headline, error) {
	body, loc, err := get(ctx, f.client, f.endpoint, svc)
	if err != nil {
		return nil, err
	}

	if b := bytes.TrimSpace(body); len(b) == 0 || b[0] != '[' {
		return nil, &news.Error{Op: "feed.decode", Kind: news.KindPayload, Location: loc, Err: errors.New("response is not a JSON array")}
	}
	var items []item
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &news.Error{Op: "feed.decode", Kind: news.KindPayload, Location: loc, Err: err}
	}

	headlines := make([]news.Headline, 0, len(items))
	for _, it := range items {
		if h, ok := it.headline(svc); ok {
			headlines = append(headlines, h)
		}
	}
	return headlines, nil
}

// item is the wire shape of one endpoint record. Extra fields are ignored.
type item struct {
	Source string          `json:"source"`
	Title  string          `json:"title"`
	URL    string          `json:"url"`
	TS     json.RawMessage `json:"ts"`
}

func (it item) headline(svc news.Service) (news.Headline, bool) {
	title := strings.TrimSpace(it.Title)
	if title == "" {
		return news.Headline{}, false
	}
	source := strings.ToUpper(strings.TrimSpace(it.Source))
	if source == "" {
		source = svc.Label()
	}
	link := strings.TrimSpace(it.URL)
	if link == "" {
		link = news.NoURL
	}
	return news.Headline{Source: source, Title: title, URL: link, TS: parseTS(it.TS)}, true
}

// parseTS accepts a JSON number or a numeric string. Anything else is 0.
func parseTS(raw json.RawMessage) int64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return numberTS(n.String())
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return numberTS(strings.TrimSpace(s))
	}
	return 0
}

func numberTS(s string) int64 {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(v)
	}
	return 0
}

// RSSFetcher reads an RSS or Atom document from the endpoint.
type RSSFetcher struct {
	endpoint string
	client   *http.Client
	parser   *gofeed.Parser
}

func (f *RSSFetcher) Fetch(ctx context.Context, svc news.Service) ([]news.Headline, error) {
	body, loc, err := get(ctx, f.client, f.endpoint, svc)
	if err != nil {
		return nil, err
	}

	feed, err := f.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &news.Error{Op: "feed.decode", Kind: news.KindPayload, Location: loc, Err: err}
	}

	source := strings.ToUpper(strings.TrimSpace(feed.Title))
	if source == "" {
		source = svc.Label()
	}

	headlines := make([]news.Headline, 0, len(feed.Items))
	for _, it := range feed.Items {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			continue
		}
		link := it.Link
		if link == "" {
			link = news.NoURL
		}
		var ts int64
		if it.PublishedParsed != nil {
			ts = it.PublishedParsed.UnixMilli()
		} else if it.UpdatedParsed != nil {
			ts = it.UpdatedParsed.UnixMilli()
		}
		headlines = append(headlines, news.Headline{Source: source, Title: title, URL: link, TS: ts})
	}
	return headlines, nil
}

// get performs the single request for svc and returns the body and the URL used.
func get(ctx context.Context, client *http.Client, endpoint string, svc news.Service) ([]byte, string, error) {
	loc, err := RequestURL(endpoint, svc)
	if err != nil {
		return nil, endpoint, &news.Error{Op: "feed.fetch", Kind: news.KindNetwork, Location: endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, loc, &news.Error{Op: "feed.fetch", Kind: news.KindNetwork, Location: loc, Err: err}
	}
	req.Header.Set("Accept", "application/json, application/rss+xml, application/atom+xml;q=0.9, */*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, loc, &news.Error{Op: "feed.fetch", Kind: news.KindNetwork, Location: loc, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, loc, &news.Error{
			Op:       "feed.fetch",
			Kind:     news.KindHTTPStatus,
			Location: loc,
			Status:   resp.StatusCode,
			Err:      errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, loc, &news.Error{Op: "feed.read", Kind: news.KindNetwork, Location: loc, Err: err}
	}
	return body, loc, nil
}
