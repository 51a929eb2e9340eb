package fallback

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/matheuskafuri/newsticker/internal/news"
)

var errShape = errors.New("expected an array, {items: [...]} or {tweets: [...]}")

// decodeItems accepts a top-level array, an object with an items array, or an
// object with a tweets array, in that order.
func decodeItems(data []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	switch v := raw.(type) {
	case []any:
		return objects(v), nil
	case map[string]any:
		for _, key := range []string{"items", "tweets"} {
			if arr, ok := v[key].([]any); ok {
				return objects(arr), nil
			}
		}
	}
	return nil, errShape
}

func objects(arr []any) []map[string]any {
	out := make([]map[string]any, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// adapter maps one JSON element to a headline. now is the resolution time in
// epoch milliseconds.
type adapter func(item map[string]any, svc news.Service, now int64) (news.Headline, bool)

func adapterFor(svc news.Service) adapter {
	if svc == news.Tweets {
		return tweetHeadline
	}
	return genericHeadline
}

func tweetHeadline(item map[string]any, _ news.Service, now int64) (news.Headline, bool) {
	hashtag := field(item, "hashtag")
	user := strings.TrimPrefix(field(item, "username"), "@")
	text := field(item, "comment", "text")

	var parts []string
	if hashtag != "" {
		if !strings.HasPrefix(hashtag, "#") {
			hashtag = "#" + hashtag
		}
		parts = append(parts, hashtag)
	}
	if user != "" {
		if text != "" {
			parts = append(parts, "@"+user+":")
		} else {
			parts = append(parts, "@"+user)
		}
	}
	if text != "" {
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		return news.Headline{}, false
	}

	link := news.NoURL
	switch {
	case user != "":
		link = "https://twitter.com/" + url.PathEscape(user)
	case field(item, "url") != "":
		link = field(item, "url")
	}

	return news.Headline{Source: "TWITTER", Title: strings.Join(parts, " "), URL: link, TS: now}, true
}

func genericHeadline(item map[string]any, svc news.Service, now int64) (news.Headline, bool) {
	title := field(item, "title", "text", "headline")
	if title == "" {
		return news.Headline{}, false
	}
	source := strings.ToUpper(field(item, "source"))
	if source == "" {
		source = svc.Label()
	}
	link := field(item, "url")
	if link == "" {
		link = news.NoURL
	}
	ts, ok := timestamp(item["ts"])
	if !ok {
		ts = now
	}
	return news.Headline{Source: source, Title: title, URL: link, TS: ts}, true
}

// field returns the first non-empty string value among keys.
func field(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := item[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

func timestamp(v any) (int64, bool) {
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}
