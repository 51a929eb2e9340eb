package news

import (
	"fmt"
	"strings"
)

// Headline is a single ticker item. TS is epoch milliseconds.
type Headline struct {
	Source string `json:"source"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	TS     int64  `json:"ts"`
}

// NoURL is the placeholder link for headlines that have nowhere to go.
const NoURL = "#"

// Service selects which feed and fallback resource a headline list comes from.
type Service string

const (
	Sports        Service = "sports"
	Local         Service = "local"
	News          Service = "news"
	Weather       Service = "weather"
	Tweets        Service = "tweets"
	Entertainment Service = "entertainment"
)

// DefaultService is requested without a service query parameter.
const DefaultService = News

// Services returns every service in switcher order.
func Services() []Service {
	return []Service{Sports, Local, News, Weather, Tweets, Entertainment}
}

func ParseService(s string) (Service, error) {
	name := Service(strings.ToLower(strings.TrimSpace(s)))
	for _, svc := range Services() {
		if svc == name {
			return svc, nil
		}
	}
	return "", fmt.Errorf("unknown service %q (valid: sports, local, news, weather, tweets, entertainment)", s)
}

func (s Service) String() string { return string(s) }

// Label is the uppercased name used as a default headline source.
func (s Service) Label() string { return strings.ToUpper(string(s)) }

// Next returns the service after s in switcher order, wrapping around.
func (s Service) Next() Service {
	all := Services()
	for i, svc := range all {
		if svc == s {
			return all[(i+1)%len(all)]
		}
	}
	return DefaultService
}

// FallbackFile is the flat-text resource consulted when the endpoint is unreachable.
func (s Service) FallbackFile() string {
	if s == News {
		return "news.txt"
	}
	return "news-" + string(s) + ".txt"
}
